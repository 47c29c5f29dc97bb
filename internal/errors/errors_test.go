package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetdiff/domain/core"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := ConfigInvalid("RECALC_MODE must be one of none, excelize, libreoffice")
	err := Wrap(base, "loading config")

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "loading config: RECALC_MODE must be one of none, excelize, libreoffice", err.Error())
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCode_FindsWrappedAppError(t *testing.T) {
	inner := fmt.Errorf("context: %w", InvalidInput("bad run id", fmt.Errorf("invalid UUID length: 3")))
	assert.Equal(t, CodeInvalidInput, GetCode(inner))

	err := Wrap(inner, "loading run")
	assert.Equal(t, CodeInvalidInput, GetCode(err))
}

func TestNotFound_UnwrapsDomainKind(t *testing.T) {
	err := NotFound("run", core.NewNotFoundError("run", "42"))

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "run not found: resource not found: run with id 42", err.Error())
	assert.True(t, core.IsNotFoundError(err))
}

func TestValidationError_UnwrapsDomainKind(t *testing.T) {
	err := ValidationError("invalid run", core.NewValidationError("run", "id cannot be empty"))

	assert.Equal(t, CodeValidationError, GetCode(err))
	assert.True(t, core.IsValidationError(err))
}

func TestInputUnreadable_UnwrapsDomainKind(t *testing.T) {
	cause := core.NewUnreadableInputError("a.xlsx", fmt.Errorf("zip: not a valid zip file"))
	err := InputUnreadable("a.xlsx", cause)

	assert.Equal(t, CodeInputUnreadable, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrUnreadableInput))
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, "UNKNOWN", GetCode(nil))
}
