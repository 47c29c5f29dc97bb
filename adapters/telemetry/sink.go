// Package telemetry turns comparison core events into structured zap logs.
package telemetry

import (
	"sync"

	"go.uber.org/zap"

	"sheetdiff/domain/diff"
)

// ZapSink logs core events. Mismatches are logged at debug level since a
// differing workbook can produce thousands; failures and skips are warnings.
type ZapSink struct {
	logger *zap.Logger

	mu     sync.Mutex
	counts map[string]int
}

// NewZapSink creates a sink writing to logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("core"), counts: make(map[string]int)}
}

// Emit implements diff.EventSink
func (s *ZapSink) Emit(e diff.Event) {
	s.mu.Lock()
	s.counts[e.EventName()]++
	s.mu.Unlock()

	switch ev := e.(type) {
	case diff.MismatchFound:
		m := ev.Mismatch
		s.logger.Debug("mismatch",
			zap.String("sheet", m.Sheet),
			zap.String("category", string(m.Category)),
			zap.Int("row1", m.Row1), zap.Int("col1", m.Col1), zap.String("val1", m.Val1.String()),
			zap.Int("row2", m.Row2), zap.Int("col2", m.Col2), zap.String("val2", m.Val2.String()),
		)
	case diff.CellFailed:
		f := ev.Failure
		s.logger.Warn("cell failed",
			zap.String("sheet", f.Sheet),
			zap.Int("row", f.Row), zap.Int("col", f.Col),
			zap.String("side", string(f.Side)),
			zap.Error(f.Err),
		)
	case diff.SheetCompared:
		s.logger.Info("sheet compared",
			zap.String("sheet", ev.Sheet),
			zap.String("strategy", ev.Strategy),
			zap.Int("pairs", ev.Pairs),
			zap.Int("mismatches", ev.MismatchCount),
		)
	case diff.SheetSkipped:
		s.logger.Warn("sheet skipped", zap.String("sheet", ev.Sheet), zap.Error(ev.Err))
	case diff.NoCommonSheets:
		s.logger.Warn("no common sheets", zap.String("v1", ev.V1), zap.String("v2", ev.V2))
	default:
		s.logger.Debug("event", zap.String("name", e.EventName()))
	}
}

// Counts returns how many events of each name were seen
func (s *ZapSink) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Tee fans events out to several sinks in order
type Tee []diff.EventSink

// Emit implements diff.EventSink
func (t Tee) Emit(e diff.Event) {
	for _, s := range t {
		if s != nil {
			s.Emit(e)
		}
	}
}
