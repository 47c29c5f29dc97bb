package diff

// Event is a structured occurrence emitted by the comparison core. The core
// never logs; an EventSink decides what to do with events.
type Event interface {
	EventName() string
}

// EventSink observes core events
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink
type SinkFunc func(Event)

// Emit implements EventSink
func (f SinkFunc) Emit(e Event) { f(e) }

// NopSink discards events
type NopSink struct{}

// Emit implements EventSink
func (NopSink) Emit(Event) {}

// Recorder keeps every event, for tests and run summaries.
type Recorder struct {
	Events []Event
}

// Emit implements EventSink
func (r *Recorder) Emit(e Event) { r.Events = append(r.Events, e) }

// Named returns the recorded events with the given name
func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

// Event names
const (
	EventMismatchFound  = "mismatch_found"
	EventCellFailed     = "cell_failed"
	EventSheetCompared  = "sheet_compared"
	EventSheetSkipped   = "sheet_skipped"
	EventNoCommonSheets = "no_common_sheets"
)

// MismatchFound is emitted once per recorded mismatch
type MismatchFound struct {
	Mismatch Mismatch
}

func (MismatchFound) EventName() string { return EventMismatchFound }

// CellFailed is emitted for every cell failure
type CellFailed struct {
	Failure CellFailure
}

func (CellFailed) EventName() string { return EventCellFailed }

// SheetCompared is emitted after a sheet is fully walked
type SheetCompared struct {
	Sheet         string
	Strategy      string
	Pairs         int
	MismatchCount int
}

func (SheetCompared) EventName() string { return EventSheetCompared }

// SheetSkipped is emitted when a common sheet could not be compared
type SheetSkipped struct {
	Sheet string
	Err   error
}

func (SheetSkipped) EventName() string { return EventSheetSkipped }

// NoCommonSheets is emitted when two workbooks share no visible sheet
type NoCommonSheets struct {
	V1 string
	V2 string
}

func (NoCommonSheets) EventName() string { return EventNoCommonSheets }
