package importer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressReporter draws import progress to a terminal.
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	startTime time.Time
}

// NewProgressReporter creates a reporter for total sessions.
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Update advances the bar by one session.
func (p *ProgressReporter) Update(sessionID string) {
	p.current++
	if p.total <= 0 {
		return
	}

	pct := float64(p.current) / float64(p.total) * 100

	barWidth := 40
	filled := int(float64(barWidth) * float64(p.current) / float64(p.total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	display := sessionID
	if len(display) > 40 {
		display = display[:37] + "..."
	}

	_, _ = fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d) %s", bar, pct, p.current, p.total, display)
}

// Finish prints the run summary.
func (p *ProgressReporter) Finish(result *Result) {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "\nImported %d, skipped %d unchanged, %d failed in %s\n",
		result.Imported, result.Skipped, result.Failed, elapsed.Round(time.Millisecond))
}
