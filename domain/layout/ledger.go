package layout

import (
	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// Ledger labels accounting-ledger rows by a running main header (main
// column) and sub header (sub column). A main value in MainQualifiers
// qualifies the previous main header instead of opening a new section; a
// sub value in DroppedSubs is ignored.
type Ledger struct {
	MainColumn     int
	SubColumn      int
	MainQualifiers []string
	DroppedSubs    []string
	normalizer     *normalize.Normalizer
}

// NewLedger creates a ledger strategy
func NewLedger(mainColumn, subColumn int, qualifiers, droppedSubs []string, opts normalize.Options) *Ledger {
	return &Ledger{
		MainColumn:     mainColumn,
		SubColumn:      subColumn,
		MainQualifiers: qualifiers,
		DroppedSubs:    droppedSubs,
		normalizer:     normalize.New(opts),
	}
}

// Name implements Strategy
func (s *Ledger) Name() string { return StrategyLedger }

// ledgerRow is the input of one fold step: the row's own header cells.
type ledgerRow struct {
	Row     int
	Main    string
	Sub     string
	MainRaw sheet.Value
	SubRaw  sheet.Value
}

// ledgerState is threaded through the walk of one version.
type ledgerState struct {
	Base string // last main header that opened a section
	Main string // Base, possibly qualified
	Sub  string
}

// step folds one row into the state and returns the row's label.
func (s *Ledger) step(st ledgerState, r ledgerRow) (ledgerState, string) {
	if r.Main != "" {
		switch {
		case contains(s.MainQualifiers, r.Main) && st.Base != "":
			st.Main = st.Base + labelJoiner + r.Main
		default:
			st.Base = r.Main
			st.Main = r.Main
		}
		st.Sub = ""
	}
	if r.Sub != "" {
		if contains(s.DroppedSubs, r.Sub) {
			st.Sub = ""
		} else {
			st.Sub = r.Sub
		}
	}

	if st.Main == "" {
		return st, ""
	}
	if st.Sub == "" {
		return st, st.Main
	}
	return st, st.Main + labelJoiner + st.Sub
}

// fold runs step over rows from an empty state.
func (s *Ledger) fold(rows []ledgerRow) []LabelEntry {
	b := newLabelBuilder(true)
	var st ledgerState
	for _, r := range rows {
		var label string
		st, label = s.step(st, r)

		col, raw := s.MainColumn, r.MainRaw
		if r.Sub != "" || r.Main == "" {
			col, raw = s.SubColumn, r.SubRaw
		}
		b.add(LabelEntry{Row: r.Row, Label: label, Column: col, Raw: raw})
	}
	return b.entries
}

// Extract implements Strategy
func (s *Ledger) Extract(g sheet.Grid, startRow int) (LabelMap, error) {
	var rows []ledgerRow
	for row := startRow; row <= g.MaxRow(); row++ {
		mainRaw, main, err := cellLabel(g, s.normalizer, row, s.MainColumn)
		if err != nil {
			return LabelMap{}, err
		}
		subRaw, sub, err := cellLabel(g, s.normalizer, row, s.SubColumn)
		if err != nil {
			return LabelMap{}, err
		}
		rows = append(rows, ledgerRow{Row: row, Main: main, Sub: sub, MainRaw: mainRaw, SubRaw: subRaw})
	}
	return NewLabelMap(s.fold(rows)), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
