package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdiff/domain/layout"
)

func TestDefaultRegistry_Builtins(t *testing.T) {
	r := layout.DefaultRegistry()

	ledger := r.Lookup("会計簿")
	assert.True(t, ledger.Keyed())
	assert.Equal(t, layout.StrategyLedger, ledger.Strategy.Name())
	assert.Equal(t, 6, ledger.StartRow)
	assert.Equal(t, 5, ledger.StartColumn)
	assert.Equal(t, 20, ledger.EndColumn)
	assert.True(t, ledger.Options.FoldWidth)

	roster := r.Lookup("職員名簿")
	assert.Equal(t, layout.StrategyRoster, roster.Strategy.Name())
	require.NotNil(t, roster.Excluded)
	assert.Equal(t, layout.ExcludedColumn{Column: 9, AfterRow: 30}, *roster.Excluded)

	list := r.Lookup("行事予定")
	assert.Equal(t, layout.StrategyList, list.Strategy.Name())

	assert.Len(t, r.Layouts(), 3)
}

func TestRegistry_UnknownSheetIsPositional(t *testing.T) {
	l := layout.DefaultRegistry().Lookup("Sheet1")

	assert.False(t, l.Keyed())
	assert.Equal(t, "Sheet1", l.Sheet)
	assert.Equal(t, 1, l.StartRow)
	assert.Zero(t, l.EndColumn)
	assert.False(t, l.Options.FoldWidth)
}

func TestRegistry_OverrideReplacesBuiltin(t *testing.T) {
	defs := append(layout.BuiltinDefinitions(), layout.Definition{
		Sheet:      "行事予定",
		Strategy:   layout.StrategyList,
		StartRow:   2,
		EndColumn:  8,
		Suppressed: "計",
	})

	r, err := layout.NewRegistry(defs...)
	require.NoError(t, err)

	l := r.Lookup("行事予定")
	assert.Equal(t, 2, l.StartRow)
	assert.Equal(t, 1, l.StartColumn)
	assert.Equal(t, 8, l.EndColumn)
	assert.Len(t, r.Layouts(), 3)
}

func TestDefinition_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		def  layout.Definition
	}{
		{"unknown strategy", layout.Definition{Sheet: "s", Strategy: "diagonal"}},
		{"ledger without columns", layout.Definition{Sheet: "s", Strategy: layout.StrategyLedger}},
		{"empty sheet", layout.Definition{Strategy: layout.StrategyList}},
		{"inverted columns", layout.Definition{Sheet: "s", Strategy: layout.StrategyList, StartColumn: 5, EndColumn: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.def.Build()
			assert.Error(t, err)
		})
	}
}

func TestNilRegistry_Lookup(t *testing.T) {
	var r *layout.Registry
	assert.False(t, r.Lookup("会計簿").Keyed())
	assert.False(t, r.Has("会計簿"))
}
