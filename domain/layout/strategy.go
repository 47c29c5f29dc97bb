package layout

import (
	"strconv"

	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// Strategy derives the row labels of one sheet version.
type Strategy interface {
	// Name identifies the strategy in configuration and reports.
	Name() string
	// Extract walks g from startRow and returns its label map.
	Extract(g sheet.Grid, startRow int) (LabelMap, error)
}

// Strategy names
const (
	StrategyPositional = "positional"
	StrategyLedger     = "ledger"
	StrategyRoster     = "roster"
	StrategyList       = "list"
)

// Positional labels every row by its own number. It is the fallback for
// sheets whose rows are not label-keyed.
type Positional struct{}

// Name implements Strategy
func (Positional) Name() string { return StrategyPositional }

// Extract implements Strategy
func (Positional) Extract(g sheet.Grid, startRow int) (LabelMap, error) {
	if startRow < 1 {
		startRow = 1
	}
	b := newLabelBuilder(false)
	for row := startRow; row <= g.MaxRow(); row++ {
		b.add(LabelEntry{Row: row, Label: strconv.Itoa(row)})
	}
	return b.build(), nil
}

// List reads one label column from the start row, skipping a single
// suppressed label. Repeated labels are kept.
type List struct {
	LabelColumn int
	Suppressed  string
	normalizer  *normalize.Normalizer
}

// NewList creates a list strategy
func NewList(labelColumn int, suppressed string, opts normalize.Options) *List {
	return &List{LabelColumn: labelColumn, Suppressed: suppressed, normalizer: normalize.New(opts)}
}

// Name implements Strategy
func (s *List) Name() string { return StrategyList }

// Extract implements Strategy
func (s *List) Extract(g sheet.Grid, startRow int) (LabelMap, error) {
	b := newLabelBuilder(false)
	for row := startRow; row <= g.MaxRow(); row++ {
		raw, label, err := cellLabel(g, s.normalizer, row, s.LabelColumn)
		if err != nil {
			return LabelMap{}, err
		}
		if s.Suppressed != "" && label == s.Suppressed {
			continue
		}
		b.add(LabelEntry{Row: row, Label: label, Column: s.LabelColumn, Raw: raw})
	}
	return b.build(), nil
}

// Seed is a fixed label at a fixed row
type Seed struct {
	Row   int    `yaml:"row" json:"row"`
	Label string `yaml:"label" json:"label"`
}

// Roster seeds fixed labels at fixed rows, then reads one label column from
// the start row. Labels already present are skipped.
type Roster struct {
	LabelColumn int
	Seeds       []Seed
	normalizer  *normalize.Normalizer
}

// NewRoster creates a roster strategy
func NewRoster(labelColumn int, seeds []Seed, opts normalize.Options) *Roster {
	return &Roster{LabelColumn: labelColumn, Seeds: seeds, normalizer: normalize.New(opts)}
}

// Name implements Strategy
func (s *Roster) Name() string { return StrategyRoster }

// Extract implements Strategy
func (s *Roster) Extract(g sheet.Grid, startRow int) (LabelMap, error) {
	b := newLabelBuilder(true)
	for _, seed := range s.Seeds {
		raw, err := g.Cell(seed.Row, s.LabelColumn)
		if err != nil {
			return LabelMap{}, err
		}
		b.add(LabelEntry{Row: seed.Row, Label: seed.Label, Column: s.LabelColumn, Raw: raw})
	}
	for row := startRow; row <= g.MaxRow(); row++ {
		raw, label, err := cellLabel(g, s.normalizer, row, s.LabelColumn)
		if err != nil {
			return LabelMap{}, err
		}
		b.add(LabelEntry{Row: row, Label: label, Column: s.LabelColumn, Raw: raw})
	}
	return b.build(), nil
}
