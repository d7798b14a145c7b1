package testutil

import (
	"sync"

	"stockanalyzer/internal/report"
	"stockanalyzer/internal/stock"
)

// Sinks records everything written to the report sinks
type Sinks struct {
	mu       sync.Mutex
	Displays [][]stock.Record
	Statuses []string
	Notes    []string
	Events   []string
}

// ReportSinks returns s wired into all four report sink slots
func (s *Sinks) ReportSinks() report.Sinks {
	return report.Sinks{Display: s, Status: s, Notes: s, Progress: s}
}

// Show implements report.DisplaySink
func (s *Sinks) Show(records []stock.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Displays = append(s.Displays, records)
}

// SetStatus implements report.StatusSink
func (s *Sinks) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statuses = append(s.Statuses, text)
}

// AppendNote implements report.NotesSink
func (s *Sinks) AppendNote(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notes = append(s.Notes, text)
}

// Busy implements report.ProgressSink
func (s *Sinks) Busy(kind report.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, "busy:"+string(kind))
}

// Idle implements report.ProgressSink
func (s *Sinks) Idle(kind report.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, "idle:"+string(kind))
}

// Snapshot returns copies of the recorded values
func (s *Sinks) Snapshot() (displays [][]stock.Record, statuses, notes, events []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]stock.Record(nil), s.Displays...),
		append([]string(nil), s.Statuses...),
		append([]string(nil), s.Notes...),
		append([]string(nil), s.Events...)
}
