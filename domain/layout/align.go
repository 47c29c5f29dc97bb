package layout

import (
	"sheetdiff/domain/sheet"
)

// RowPair is one V1 row compared against one V2 row.
type RowPair struct {
	Row1 int `json:"row1"`
	Row2 int `json:"row2"`
}

// Alignment is the row pairing of one sheet, computed once before diffing.
type Alignment struct {
	Layout      Layout
	Pairs       []RowPair
	UnmatchedV1 []LabelEntry
	UnmatchedV2 []LabelEntry
	StartColumn int
	EndColumn   int
}

// Align pairs the rows of two versions of a sheet.
//
// Both versions go through the layout's Strategy and the two label maps are
// joined on label text: every V1 entry is paired with every V2 entry
// carrying the same label, ordered by V1 row then V2 row. Label-keyed
// layouts return entries without a partner per version. Positional labels
// are row numbers, so a row only one version has is paired with the same
// row of the other, where every cell is empty; pairing spans the larger of
// the two extents.
func Align(l Layout, g1, g2 sheet.Grid) (Alignment, error) {
	start, end := l.Columns(g1, g2)
	a := Alignment{Layout: l, StartColumn: start, EndColumn: end}

	strategy := l.Strategy
	if strategy == nil {
		strategy = Positional{}
	}
	m1, err := strategy.Extract(g1, l.StartRow)
	if err != nil {
		return Alignment{}, err
	}
	m2, err := strategy.Extract(g2, l.StartRow)
	if err != nil {
		return Alignment{}, err
	}

	a.Pairs, a.UnmatchedV1, a.UnmatchedV2 = join(m1, m2)
	if !l.Keyed() {
		// Only one side can run past the shared rows, so order is kept.
		for _, e := range append(a.UnmatchedV1, a.UnmatchedV2...) {
			a.Pairs = append(a.Pairs, RowPair{Row1: e.Row, Row2: e.Row})
		}
		a.UnmatchedV1, a.UnmatchedV2 = nil, nil
	}
	return a, nil
}

// join equi-joins two label maps. Entries are already in row order, so
// pairs come out ordered by V1 row then V2 row.
func join(m1, m2 LabelMap) ([]RowPair, []LabelEntry, []LabelEntry) {
	byLabel := make(map[string][]LabelEntry, m2.Len())
	for _, e := range m2.entries {
		byLabel[e.Label] = append(byLabel[e.Label], e)
	}

	var pairs []RowPair
	var only1, only2 []LabelEntry
	for _, e1 := range m1.entries {
		matches := byLabel[e1.Label]
		if len(matches) == 0 {
			only1 = append(only1, e1)
			continue
		}
		for _, e2 := range matches {
			pairs = append(pairs, RowPair{Row1: e1.Row, Row2: e2.Row})
		}
	}
	for _, e2 := range m2.entries {
		if !m1.Has(e2.Label) {
			only2 = append(only2, e2)
		}
	}
	return pairs, only1, only2
}
