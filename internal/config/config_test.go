package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdiff/domain/layout"
	"sheetdiff/internal/errors"
)

var envKeys = []string{
	"DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_CONN_MAX_LIFETIME", "UI_ADDR", "GIN_MODE",
	"V1_DIR", "V2_DIR", "RESULT_DIR", "REPORT_DIR", "REPORT_FORMATS",
	"RECALC_MODE", "SOFFICE_PATH", "RECALC_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "LAYOUTS_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.HasDatabase())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "V1", cfg.Batch.V1Dir)
	assert.Equal(t, "V2", cfg.Batch.V2Dir)
	assert.Equal(t, "result", cfg.Batch.ResultDir)
	assert.Equal(t, []string{"markdown", "xlsx"}, cfg.Batch.ReportFormats)
	assert.Equal(t, "none", cfg.Recalc.Mode)
	assert.Equal(t, 2*time.Minute, cfg.Recalc.Timeout)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/sheetdiff?sslmode=disable")
	t.Setenv("REPORT_FORMATS", " Markdown, html ,")
	t.Setenv("RECALC_MODE", "LibreOffice")
	t.Setenv("RECALC_TIMEOUT", "45s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, []string{"markdown", "html"}, cfg.Batch.ReportFormats)
	assert.Equal(t, "libreoffice", cfg.Recalc.Mode)
	assert.Equal(t, 45*time.Second, cfg.Recalc.Timeout)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"recalc mode", "RECALC_MODE", "com"},
		{"report format", "REPORT_FORMATS", "markdown,pdf"},
		{"log format", "LOG_FORMAT", "xml"},
		{"same dirs", "V2_DIR", "V1"},
		{"missing layouts", "LAYOUTS_FILE", "/nonexistent/layouts.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECALC_MODE=excelize\nUI_ADDR=:9090\n"), 0o644))
	t.Setenv("UI_ADDR", ":7070")
	// godotenv only fills variables that are absent, not ones set empty.
	require.NoError(t, os.Unsetenv("RECALC_MODE"))

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "excelize", cfg.Recalc.Mode)
	assert.Equal(t, ":7070", cfg.Server.Addr, "variables already set win")
}

func writeLayouts(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRegistry_ExtendsBuiltins(t *testing.T) {
	cfg := &Config{LayoutsFile: writeLayouts(t, `
layouts:
  - sheet: 備品台帳
    strategy: list
    start_row: 3
    label_column: 2
    end_column: 9
    suppressed_label: 計
  - sheet: 会計簿
    strategy: ledger
    start_row: 7
    main_column: 1
    sub_column: 5
    normalize:
      fold_width: true
      strip_noise: false
`)}

	registry, err := cfg.Registry()
	require.NoError(t, err)

	assert.True(t, registry.Has("職員名簿"))
	assets := registry.Lookup("備品台帳")
	assert.Equal(t, layout.StrategyList, assets.Strategy.Name())
	assert.Equal(t, 3, assets.StartRow)
	assert.True(t, assets.Options.FoldWidth, "label-keyed layouts default to width folding")

	ledger := registry.Lookup("会計簿")
	assert.Equal(t, 7, ledger.StartRow)
	assert.False(t, ledger.Options.StripNoise)
}

func TestRegistry_ReplaceBuiltins(t *testing.T) {
	cfg := &Config{LayoutsFile: writeLayouts(t, `
replace_builtins: true
layouts:
  - sheet: 名簿
    strategy: roster
    start_row: 2
`)}

	registry, err := cfg.Registry()
	require.NoError(t, err)
	assert.False(t, registry.Has("会計簿"))
	assert.True(t, registry.Has("名簿"))
}

func TestRegistry_BuiltinsOnly(t *testing.T) {
	registry, err := (&Config{}).Registry()
	require.NoError(t, err)
	assert.Len(t, registry.Layouts(), len(layout.BuiltinDefinitions()))
}

func TestLoadLayouts_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "layouts:\n  - sheet: a\n    strategy: list\n    colour: red\n",
		"missing sheet": "layouts:\n  - strategy: list\n",
		"malformed":     "layouts: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadLayouts(writeLayouts(t, body))
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	cfg := &Config{LayoutsFile: writeLayouts(t, "layouts:\n  - sheet: a\n    strategy: ledger\n")}
	_, err := cfg.Registry()
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err), "ledger without columns")
}
