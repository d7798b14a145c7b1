// Package console renders search results on a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"stockanalyzer/internal/report"
	"stockanalyzer/internal/stock"
)

// Button labels per operation kind, swapped while an operation runs.
var idleLabels = map[report.Kind]string{
	report.KindSingle: "Search",
	report.KindMulti:  "Search Multi",
}

const busyLabel = "Cancel"

// Terminal implements every report sink on top of a writer.
type Terminal struct {
	out io.Writer

	mu     sync.Mutex
	notes  strings.Builder
	status string
	busy   map[report.Kind]bool
}

// NewTerminal creates a Terminal writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:  out,
		busy: make(map[report.Kind]bool),
	}
}

// Sinks returns t wired into all report sink slots.
func (t *Terminal) Sinks() report.Sinks {
	return report.Sinks{Display: t, Status: t, Notes: t, Progress: t}
}

// Show prints records as a table.
func (t *Terminal) Show(records []stock.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TICKER\tTRADE DATE\tVOLUME\tCHANGE\tCHANGE %\t")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n",
			r.Ticker,
			r.TradeDate.Format("2006-01-02 15:04:05"),
			r.Volume,
			r.Change.StringFixed(2),
			r.ChangePercent.StringFixed(2),
		)
	}
	tw.Flush()
}

// SetStatus prints and remembers the status line.
func (t *Terminal) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = text
	fmt.Fprintln(t.out, text)
}

// AppendNote prints a note and adds it to the accumulated notes.
func (t *Terminal) AppendNote(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notes.WriteString(text)
	t.notes.WriteString("\n")
	fmt.Fprintf(t.out, "note: %s\n", text)
}

// Busy marks kind as running.
func (t *Terminal) Busy(kind report.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy[kind] = true
	fmt.Fprintf(t.out, "searching (%s)... run it again to cancel\n", kind)
}

// Idle marks kind as finished.
func (t *Terminal) Idle(kind report.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy[kind] = false
}

// Label is the text of kind's search button.
func (t *Terminal) Label(kind report.Kind) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busy[kind] {
		return busyLabel
	}
	return idleLabels[kind]
}

// Status returns the last status line.
func (t *Terminal) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Notes returns every note appended so far, one per line.
func (t *Terminal) Notes() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notes.String()
}
