package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdiff/adapters/memory"
	"sheetdiff/internal"
	"sheetdiff/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Batch: config.BatchConfig{
			V1Dir:         "V1",
			V2Dir:         "V2",
			ResultDir:     "result",
			ReportFormats: []string{"markdown", "html"},
		},
		Recalc: config.RecalcConfig{Mode: "excelize", Timeout: time.Minute},
		Log:    config.LogConfig{Level: "ERROR", Format: "console"},
	}
}

func TestNew_WiresComparison(t *testing.T) {
	c, err := New(testConfig(), internal.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "excelize", c.Recalculator.Mode())
	require.Len(t, c.Reports, 2)
	assert.Equal(t, "markdown", c.Reports[0].Format())
	assert.Equal(t, "html", c.Reports[1].Format())
	assert.IsType(t, &memory.RunRepository{}, c.Runs)
	assert.NotNil(t, c.Batch)
	assert.True(t, c.Registry.Has("会計簿"))
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestInitWithDatabase_NoURL(t *testing.T) {
	c, err := New(testConfig(), internal.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, c.InitWithDatabase(context.Background()))
	assert.Nil(t, c.DB)
	assert.NoError(t, c.Close())
}

func TestNewReportWriters(t *testing.T) {
	writers, err := NewReportWriters([]string{"xlsx", "Markdown"})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", writers[0].Format())
	assert.Equal(t, "markdown", writers[1].Format())

	_, err = NewReportWriters([]string{"pdf"})
	assert.Error(t, err)
}
