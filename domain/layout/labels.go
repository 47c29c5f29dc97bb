// Package layout aligns the rows of two sheet versions.
//
// Most sheets are compared positionally. A closed set of known sheet
// identities key their rows by a label instead; for those a Strategy walks
// each version independently, derives a LabelMap, and Align equi-joins the
// two maps on label text.
package layout

import (
	"fmt"

	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// labelJoiner separates a main header from its qualifier or sub header.
const labelJoiner = " - "

// LabelEntry ties a derived label to its row and to the raw cell that
// produced it.
type LabelEntry struct {
	Row    int         `json:"row"`
	Label  string      `json:"label"`
	Column int         `json:"column"`
	Raw    sheet.Value `json:"raw"`
}

// LabelMap is the row -> label mapping of one sheet version, in row order.
// It is not modified after extraction.
type LabelMap struct {
	entries []LabelEntry
	labels  map[string]bool
}

// NewLabelMap builds a map from entries in the order given
func NewLabelMap(entries []LabelEntry) LabelMap {
	m := LabelMap{
		entries: make([]LabelEntry, len(entries)),
		labels:  make(map[string]bool, len(entries)),
	}
	copy(m.entries, entries)
	for _, e := range entries {
		m.labels[e.Label] = true
	}
	return m
}

// Entries returns a copy of the entries in row order
func (m LabelMap) Entries() []LabelEntry {
	out := make([]LabelEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of labeled rows
func (m LabelMap) Len() int { return len(m.entries) }

// Has reports whether any row carries label
func (m LabelMap) Has(label string) bool { return m.labels[label] }

// Label returns the label of row
func (m LabelMap) Label(row int) (string, bool) {
	for _, e := range m.entries {
		if e.Row == row {
			return e.Label, true
		}
	}
	return "", false
}

// labelBuilder accumulates entries during a walk
type labelBuilder struct {
	entries []LabelEntry
	seen    map[string]bool
	dedupe  bool
}

func newLabelBuilder(dedupe bool) *labelBuilder {
	return &labelBuilder{seen: make(map[string]bool), dedupe: dedupe}
}

// add records e unless its label is empty or, when deduplicating, already taken.
func (b *labelBuilder) add(e LabelEntry) bool {
	if e.Label == "" {
		return false
	}
	if b.dedupe && b.seen[e.Label] {
		return false
	}
	b.seen[e.Label] = true
	b.entries = append(b.entries, e)
	return true
}

func (b *labelBuilder) build() LabelMap {
	return NewLabelMap(b.entries)
}

// cellLabel reads a cell and derives its label text.
func cellLabel(g sheet.Grid, n *normalize.Normalizer, row, col int) (sheet.Value, string, error) {
	raw, err := g.Cell(row, col)
	if err != nil {
		return sheet.Value{}, "", fmt.Errorf("read label cell (%d, %d): %w", row, col, err)
	}
	return raw, n.Normalize(raw).String(), nil
}
