package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"sheetdiff/domain/sheet"
)

// DefaultNoiseTokens are stripped from label-keyed layouts: an age unit and
// honorific/title suffixes that are typed inconsistently between versions.
var DefaultNoiseTokens = []string{"歳", "様", "殿", "先生"}

// EmptyTimeLiterals denote "no time recorded" and normalize to Absent.
var EmptyTimeLiterals = []string{"0", "0:00", "00:00:00", "12:00:00午前"}

const crArtifact = "_x000D_"

// delimiterReplacer unifies list/decimal delimiter glyphs to a comma.
var delimiterReplacer = strings.NewReplacer(
	"、", ",",
	"，", ",",
	"・", ",",
	"･", ",",
	".", ",",
)

// Options selects the layout-specific cleaning rules.
type Options struct {
	// FoldWidth folds full-width digits and letters to half-width.
	FoldWidth bool `yaml:"fold_width" json:"fold_width"`
	// StripNoise removes NoiseTokens anywhere in the text.
	StripNoise bool `yaml:"strip_noise" json:"strip_noise"`
	// NoiseTokens defaults to DefaultNoiseTokens when empty.
	NoiseTokens []string `yaml:"noise_tokens,omitempty" json:"noise_tokens,omitempty"`
}

// LabelKeyedOptions are the options used by the built-in label-keyed layouts.
func LabelKeyedOptions() Options {
	return Options{FoldWidth: true, StripNoise: true}
}

// Normalizer applies the canonicalization rules for one set of options.
type Normalizer struct {
	opts  Options
	noise []string
}

// New creates a normalizer for the given options
func New(opts Options) *Normalizer {
	noise := opts.NoiseTokens
	if len(noise) == 0 {
		noise = DefaultNoiseTokens
	}
	return &Normalizer{opts: opts, noise: noise}
}

var defaultNormalizer = New(Options{})

// Normalize canonicalizes v with default options.
func Normalize(v sheet.Value) Value {
	return defaultNormalizer.Normalize(v)
}

// Options returns the options the normalizer was built with
func (n *Normalizer) Options() Options { return n.opts }

// Normalize canonicalizes one raw cell value. It never fails: a value no
// rule recognizes comes back as its cleaned text.
func (n *Normalizer) Normalize(v sheet.Value) Value {
	var raw string
	switch v.Kind {
	case sheet.KindEmpty:
		return AbsentValue
	case sheet.KindDateTime:
		return Value{Kind: DateTime, Time: v.Time}
	case sheet.KindNumber:
		raw = numberText(v.Number)
	case sheet.KindBool:
		raw = v.String()
	default:
		raw = v.Text
	}
	return n.NormalizeText(raw)
}

// NormalizeText applies the text rules to an already stringified value.
func (n *Normalizer) NormalizeText(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return AbsentValue
	}

	lexical := n.lexical(raw)
	numeric := removeSpaces(lexical)
	cleaned := delimiterReplacer.Replace(numeric)
	if n.opts.StripNoise {
		cleaned = n.stripNoise(cleaned)
		numeric = n.stripNoise(numeric)
	}

	if cleaned == "" || isEmptyTime(cleaned) {
		return AbsentValue
	}

	// Spaces are gone from cleaned; the lexical form still separates date
	// from time, so it is tried first.
	if t, ok := ParseDateTime(lexical); ok {
		return Value{Kind: DateTime, Time: t}
	}
	if t, ok := ParseDateTime(cleaned); ok {
		return Value{Kind: DateTime, Time: t}
	}

	if canonical, ok := canonicalInteger(numeric); ok {
		if isEmptyTime(canonical) {
			return AbsentValue
		}
		return Value{Kind: Text, Text: canonical}
	}

	return Value{Kind: Text, Text: cleaned}
}

// lexical trims, folds width and drops CR artifacts and quote marks, but
// keeps spaces and delimiters.
func (n *Normalizer) lexical(raw string) string {
	s := strings.TrimSpace(raw)
	if n.opts.FoldWidth {
		s = foldWidth(s)
	}
	s = strings.ReplaceAll(s, crArtifact, "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// stripNoise removes noise tokens until none remain, so that removing one
// token cannot leave another behind.
func (n *Normalizer) stripNoise(s string) string {
	for {
		before := s
		for _, token := range n.noise {
			s = strings.ReplaceAll(s, token, "")
		}
		if s == before {
			return s
		}
	}
}

// foldWidth narrows full-width digits and letters only; full-width
// punctuation such as the wave dash is left for the range rules.
func foldWidth(s string) string {
	return strings.Map(func(r rune) rune {
		if width.LookupRune(r).Kind() != width.EastAsianFullwidth {
			return r
		}
		narrow := []rune(width.Narrow.String(string(r)))
		if len(narrow) != 1 {
			return r
		}
		if unicode.IsDigit(narrow[0]) || unicode.IsLetter(narrow[0]) {
			return narrow[0]
		}
		return r
	}, s)
}

func foldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return '0' + (r - '０')
		}
		return r
	}, s)
}

func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isEmptyTime(s string) bool {
	for _, lit := range EmptyTimeLiterals {
		if s == lit {
			return true
		}
	}
	return false
}

// canonicalInteger parses s as a number and, when integral, returns its
// integer text ("12.0" -> "12"). Full-width digits parse like their ASCII
// forms whatever the width option, so "１２" is 12 on every layout.
func canonicalInteger(s string) (string, bool) {
	f, err := strconv.ParseFloat(foldDigits(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	if f != math.Trunc(f) {
		return "", false
	}
	return integerText(f), true
}

// numberText renders a raw numeric cell, collapsing integral floats.
func numberText(f float64) string {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		return integerText(f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func integerText(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}
