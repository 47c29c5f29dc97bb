package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdiff/domain/layout"
	"sheetdiff/domain/normalize"
	"sheetdiff/internal/testkit"
)

func listLayout() layout.Layout {
	return layout.Layout{
		Sheet:       "events",
		Strategy:    layout.NewList(1, "", normalize.LabelKeyedOptions()),
		StartRow:    1,
		StartColumn: 1,
		EndColumn:   4,
		Options:     normalize.LabelKeyedOptions(),
	}
}

func TestAlign_Positional(t *testing.T) {
	g1 := testkit.NewGrid("Sheet1", []any{"a", "b"}, []any{"c"})
	g2 := testkit.NewGrid("Sheet1", []any{"a"}, []any{"c"}, []any{"d", nil, "e"})

	a, err := layout.Align(layout.DefaultLayout("Sheet1"), g1, g2)
	require.NoError(t, err)

	assert.Equal(t, []layout.RowPair{{Row1: 1, Row2: 1}, {Row1: 2, Row2: 2}, {Row1: 3, Row2: 3}}, a.Pairs)
	assert.Equal(t, 1, a.StartColumn)
	assert.Equal(t, 4, a.EndColumn)
	assert.Empty(t, a.UnmatchedV1)
	assert.Empty(t, a.UnmatchedV2)
}

func TestAlign_PositionalLongerV1(t *testing.T) {
	g1 := testkit.NewGrid("Sheet1", []any{"h"}, []any{"a"}, []any{"b"}, []any{"c"})
	g2 := testkit.NewGrid("Sheet1", []any{"h"}, []any{"a"})

	l := layout.DefaultLayout("Sheet1")
	l.StartRow = 2
	a, err := layout.Align(l, g1, g2)
	require.NoError(t, err)
	assert.Equal(t, []layout.RowPair{{Row1: 2, Row2: 2}, {Row1: 3, Row2: 3}, {Row1: 4, Row2: 4}}, a.Pairs)
	assert.Empty(t, a.UnmatchedV1)

	l.Strategy = nil
	b, err := layout.Align(l, g1, g2)
	require.NoError(t, err)
	assert.Equal(t, a.Pairs, b.Pairs)
}

func TestAlign_LabelMovedRow(t *testing.T) {
	g1 := testkit.NewGrid("events")
	g1.SetRow(10, "X", 1)
	g2 := testkit.NewGrid("events")
	g2.SetRow(15, "X", 1)

	a, err := layout.Align(listLayout(), g1, g2)
	require.NoError(t, err)

	assert.Equal(t, []layout.RowPair{{Row1: 10, Row2: 15}}, a.Pairs)
	assert.Equal(t, 1, a.StartColumn)
	assert.Equal(t, 4, a.EndColumn)
}

func TestAlign_ManyToManyPreserved(t *testing.T) {
	g1 := testkit.NewGrid("events", []any{"A"}, []any{"A"}, []any{"B"})
	g2 := testkit.NewGrid("events", []any{"A"}, []any{"C"}, []any{"A"})

	a, err := layout.Align(listLayout(), g1, g2)
	require.NoError(t, err)

	assert.Equal(t, []layout.RowPair{{Row1: 1, Row2: 1}, {Row1: 1, Row2: 3}, {Row1: 2, Row2: 1}, {Row1: 2, Row2: 3}}, a.Pairs)
	require.Len(t, a.UnmatchedV1, 1)
	assert.Equal(t, "B", a.UnmatchedV1[0].Label)
	assert.Equal(t, 3, a.UnmatchedV1[0].Row)
	require.Len(t, a.UnmatchedV2, 1)
	assert.Equal(t, "C", a.UnmatchedV2[0].Label)
	assert.Equal(t, 2, a.UnmatchedV2[0].Row)
}

func TestAlign_LabelsCompareNormalized(t *testing.T) {
	g1 := testkit.NewGrid("events", []any{"ＡＢ１"})
	g2 := testkit.NewGrid("events", []any{" AB1 "})

	a, err := layout.Align(listLayout(), g1, g2)
	require.NoError(t, err)
	assert.Equal(t, []layout.RowPair{{Row1: 1, Row2: 1}}, a.Pairs)
}

func TestLayout_Skips(t *testing.T) {
	l := layout.DefaultLayout("s")
	assert.False(t, l.Skips(100, 9))

	l.Excluded = &layout.ExcludedColumn{Column: 9, AfterRow: 30}
	assert.False(t, l.Skips(30, 9))
	assert.True(t, l.Skips(31, 9))
	assert.False(t, l.Skips(31, 8))
}
