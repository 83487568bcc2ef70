package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmunix/paheq/internal/events"
	"github.com/vmunix/paheq/internal/queue"
)

const barWidth = 20

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	streamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// renderer prints queue events as terminal lines.
type renderer struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func newRenderer(w io.Writer, verbose bool) *renderer {
	return &renderer{w: w, verbose: verbose}
}

// Handle is an app.Sink.
func (r *renderer) Handle(e events.Event) {
	line, ok := r.format(e)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, line)
}

func (r *renderer) format(e events.Event) (string, bool) {
	switch e := e.(type) {
	case *events.JobStarted:
		return headerStyle.Render(fmt.Sprintf("━ [%d] %s (%d episodes)", e.Index+1, e.Title, len(e.Episodes))), true
	case *events.StatusText:
		if e.EntityType() == events.EntityQueue {
			return headerStyle.Render(e.Text), true
		}
		return infoStyle.Render("→ " + e.Text), true
	case *events.LogLine:
		if !r.verbose {
			return "", false
		}
		return streamStyle.Render("    " + e.Line), true
	case *events.EpisodeStatusChanged:
		switch queue.EpisodeStatus(e.To) {
		case queue.EpisodeCompleted:
			return okStyle.Render(fmt.Sprintf("  ✓ episode %d", e.Episode)), true
		case queue.EpisodeFailed:
			return errStyle.Render(fmt.Sprintf("  ✗ episode %d: %s", e.Episode, e.Detail)), true
		}
		return "", false
	case *events.ProgressUpdated:
		p := queue.Progress{Completed: e.Completed, Total: e.Total}
		return "  " + barStyle.Render(bar(p, barWidth)) + " " + p.String(), true
	case *events.JobFinished:
		switch {
		case e.Canceled:
			return warnStyle.Render(fmt.Sprintf("! %s canceled after %d episodes", e.Title, e.Completed+e.Failed)), true
		case e.Success:
			return okStyle.Render(fmt.Sprintf("✓ %s done (%d episodes)", e.Title, e.Completed)), true
		default:
			return errStyle.Render(fmt.Sprintf("✗ %s finished with errors (%d ok, %d failed)", e.Title, e.Completed, e.Failed)), true
		}
	case *events.QueueFinished:
		return fmt.Sprintf("%d/%d jobs succeeded", e.Succeeded, e.Jobs), true
	case *events.QueueStopped:
		return warnStyle.Render(fmt.Sprintf("stopped before job %d: %s", e.Index+1, e.Reason)), true
	}
	return "", false
}

// bar draws a fixed-width progress bar.
func bar(p queue.Progress, width int) string {
	filled := p.Percent() * width / 100
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}

// Printf writes a plain line without interleaving with event output.
func (r *renderer) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format, args...)
}
