// Package console renders pipeline progress on a terminal.
//
// On a TTY each stage is drawn as a single self-updating line with a
// gradient bar. Elsewhere (pipes, CI logs) one plain line is written per
// update so the output stays greppable.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure Reporter implements the interface.
var _ driven.ProgressReporter = (*Reporter)(nil)

// barWidth is the rendered width of the progress bar in cells.
const barWidth = 40

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
)

// Reporter writes stage progress to an io.Writer.
type Reporter struct {
	mu        sync.Mutex
	out       io.Writer
	tty       bool
	bar       progress.Model
	stage     string
	total     int
	completed int
	started   time.Time
	now       func() time.Time
}

// Option configures the reporter.
type Option func(*Reporter)

// WithTerminal forces TTY rendering on or off instead of detecting it.
func WithTerminal(tty bool) Option {
	return func(r *Reporter) {
		r.tty = tty
	}
}

// New creates a reporter writing to out. TTY rendering is enabled when out
// is a terminal.
func New(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out: out,
		tty: isTerminal(out),
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins a new stage.
func (r *Reporter) Start(stage string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stage = stage
	r.total = total
	r.completed = 0
	r.started = r.now()
	r.render()
}

// Update records completed steps and redraws.
func (r *Reporter) Update(completed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if completed > r.total {
		completed = r.total
	}
	r.completed = completed
	r.render()
}

// Finish ends the current stage with its elapsed time.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := r.now().Sub(r.started).Round(time.Millisecond)
	if r.tty {
		fmt.Fprintf(r.out, "\r%s %s %s\n",
			labelStyle.Render(r.stage),
			r.bar.ViewAs(1),
			doneStyle.Render(fmt.Sprintf("done in %s", elapsed)))
		return
	}
	fmt.Fprintf(r.out, "%s: done %d/%d in %s\n", r.stage, r.completed, r.total, elapsed)
}

// render draws the current state (caller must hold lock).
func (r *Reporter) render() {
	elapsed := r.now().Sub(r.started).Round(time.Millisecond)
	if !r.tty {
		fmt.Fprintf(r.out, "%s: %d/%d (%s)\n", r.stage, r.completed, r.total, elapsed)
		return
	}

	fmt.Fprintf(r.out, "\r%s %s %s",
		labelStyle.Render(r.stage),
		r.bar.ViewAs(r.fraction()),
		mutedStyle.Render(fmt.Sprintf("%d/%d  %s", r.completed, r.total, elapsed)))
}

func (r *Reporter) fraction() float64 {
	if r.total <= 0 {
		return 1
	}
	return float64(r.completed) / float64(r.total)
}
