package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// SpinnerProgressReporter shows the running step behind a spinner and prints
// a line for each finished step
type SpinnerProgressReporter struct {
	mu        sync.Mutex
	out       io.Writer
	spinner   *spinner.Spinner
	current   string
	stage     string
	startTime time.Time
}

// NewSpinnerProgressReporter creates a spinner reporter writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return NewSpinnerProgressReporterWithWriter(os.Stderr)
}

// NewSpinnerProgressReporterWithWriter creates a spinner reporter writing to out
func NewSpinnerProgressReporterWithWriter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Message == r.current {
		return
	}
	r.completeCurrent()

	r.current = event.Message
	r.stage = event.Stage
	r.startTime = time.Now()

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	suffix := " " + event.Message
	if event.Total > 1 {
		suffix = fmt.Sprintf(" [%d/%d] %s", event.Current, event.Total, event.Message)
	}
	r.spinner.Suffix = suffix
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

// Stop finishes the running step and stops the spinner
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completeCurrent()
	r.current = ""
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	_, _ = c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrent prints the finished step with its duration
func (r *SpinnerProgressReporter) completeCurrent() {
	if r.current == "" {
		return
	}
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	duration := time.Since(r.startTime).Round(time.Millisecond)
	_, _ = fmt.Fprintf(r.out, "%s %s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		r.current,
		color.New(color.Faint).Sprintf("(%s)", duration),
	)
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
