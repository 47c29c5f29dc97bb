package layout

import (
	"fmt"

	"sheetdiff/domain/normalize"
)

// Definition is the declarative form of a Layout, as read from a layouts
// file.
type Definition struct {
	Sheet       string             `yaml:"sheet" json:"sheet"`
	Strategy    string             `yaml:"strategy" json:"strategy"`
	StartRow    int                `yaml:"start_row" json:"start_row"`
	StartColumn int                `yaml:"start_column" json:"start_column"`
	EndColumn   int                `yaml:"end_column" json:"end_column"`
	LabelColumn int                `yaml:"label_column,omitempty" json:"label_column,omitempty"`
	MainColumn  int                `yaml:"main_column,omitempty" json:"main_column,omitempty"`
	SubColumn   int                `yaml:"sub_column,omitempty" json:"sub_column,omitempty"`
	Qualifiers  []string           `yaml:"main_qualifiers,omitempty" json:"main_qualifiers,omitempty"`
	DroppedSubs []string           `yaml:"dropped_subs,omitempty" json:"dropped_subs,omitempty"`
	Seeds       []Seed             `yaml:"seeds,omitempty" json:"seeds,omitempty"`
	Suppressed  string             `yaml:"suppressed_label,omitempty" json:"suppressed_label,omitempty"`
	Excluded    *ExcludedColumn    `yaml:"excluded,omitempty" json:"excluded,omitempty"`
	Normalize   *normalize.Options `yaml:"normalize,omitempty" json:"normalize,omitempty"`
}

// Build turns the definition into a validated Layout. Label-keyed
// strategies default to label-keyed normalization options.
func (d Definition) Build() (Layout, error) {
	opts := normalize.Options{}
	if d.Strategy != StrategyPositional && d.Strategy != "" {
		opts = normalize.LabelKeyedOptions()
	}
	if d.Normalize != nil {
		opts = *d.Normalize
	}

	labelColumn := d.LabelColumn
	if labelColumn == 0 {
		labelColumn = 1
	}

	var strategy Strategy
	switch d.Strategy {
	case "", StrategyPositional:
		strategy = Positional{}
	case StrategyLedger:
		if d.MainColumn < 1 || d.SubColumn < 1 {
			return Layout{}, fmt.Errorf("layout %q: ledger needs main_column and sub_column", d.Sheet)
		}
		strategy = NewLedger(d.MainColumn, d.SubColumn, d.Qualifiers, d.DroppedSubs, opts)
	case StrategyRoster:
		strategy = NewRoster(labelColumn, d.Seeds, opts)
	case StrategyList:
		strategy = NewList(labelColumn, d.Suppressed, opts)
	default:
		return Layout{}, fmt.Errorf("layout %q: unknown strategy %q", d.Sheet, d.Strategy)
	}

	startRow := d.StartRow
	if startRow == 0 {
		startRow = 1
	}
	startColumn := d.StartColumn
	if startColumn == 0 {
		startColumn = 1
	}

	l := Layout{
		Sheet:       d.Sheet,
		Strategy:    strategy,
		StartRow:    startRow,
		StartColumn: startColumn,
		EndColumn:   d.EndColumn,
		Options:     opts,
		Excluded:    d.Excluded,
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// BuiltinDefinitions returns the known label-keyed sheet layouts.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{
			Sheet:       "会計簿",
			Strategy:    StrategyLedger,
			StartRow:    6,
			StartColumn: 5,
			EndColumn:   20,
			MainColumn:  1,
			SubColumn:   5,
			Qualifiers:  []string{"(続き)", "内訳"},
			DroppedSubs: []string{"計", "小計"},
		},
		{
			Sheet:       "職員名簿",
			Strategy:    StrategyRoster,
			StartRow:    8,
			StartColumn: 2,
			EndColumn:   15,
			LabelColumn: 1,
			Seeds: []Seed{
				{Row: 3, Label: "校長"},
				{Row: 4, Label: "教頭"},
				{Row: 5, Label: "事務長"},
			},
			Excluded: &ExcludedColumn{Column: 9, AfterRow: 30},
		},
		{
			Sheet:       "行事予定",
			Strategy:    StrategyList,
			StartRow:    4,
			StartColumn: 1,
			EndColumn:   12,
			LabelColumn: 1,
			Suppressed:  "合計",
		},
	}
}
