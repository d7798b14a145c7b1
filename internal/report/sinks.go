package report

import "stockanalyzer/internal/stock"

// DisplaySink renders records. It is never read back.
type DisplaySink interface {
	Show(records []stock.Record)
}

// StatusSink shows the latest status line.
type StatusSink interface {
	SetStatus(text string)
}

// NotesSink accumulates free-text notes. Notes are only ever appended.
type NotesSink interface {
	AppendNote(text string)
}

// ProgressSink toggles the busy indicator of an operation kind.
type ProgressSink interface {
	Busy(kind Kind)
	Idle(kind Kind)
}

// Sinks groups the caller-visible outputs.
type Sinks struct {
	Display  DisplaySink
	Status   StatusSink
	Notes    NotesSink
	Progress ProgressSink
}
