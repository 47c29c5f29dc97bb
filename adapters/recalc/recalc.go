// Package recalc provides the formula recalculators used before a V2
// workbook is read, and a factory choosing one by mode.
package recalc

import (
	"context"
	"fmt"
	"time"

	"sheetdiff/adapters/excel"
	"sheetdiff/internal/errors"
	"sheetdiff/ports"
)

// Recalculation modes
const (
	ModeNone        = "none"
	ModeExcelize    = "excelize"
	ModeLibreOffice = "libreoffice"
)

// Modes lists the accepted modes
func Modes() []string {
	return []string{ModeNone, ModeExcelize, ModeLibreOffice}
}

// Options configures the recalculator built by New
type Options struct {
	Mode    string
	Soffice string
	Timeout time.Duration
	Excel   excel.ExcelConfig
}

// New returns the recalculator for opts.Mode
func New(opts Options) (ports.Recalculator, error) {
	switch opts.Mode {
	case ModeNone, "":
		return None{}, nil
	case ModeExcelize:
		return excel.NewRecalculator(opts.Excel), nil
	case ModeLibreOffice:
		return NewLibreOffice(opts.Soffice, opts.Timeout), nil
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown recalculation mode %q", opts.Mode))
	}
}

// None trusts the values cached in the file
type None struct{}

// Mode implements ports.Recalculator
func (None) Mode() string { return ModeNone }

// Recalculate implements ports.Recalculator
func (None) Recalculate(ctx context.Context, src, workDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return src, nil
}
