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
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// SpinnerProgressReporter shows the running step behind a spinner and
// prints a checkmark line for every step that finished
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	current *stageInfo
}

type stageInfo struct {
	Stage     string
	Label     string
	StartTime time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
// writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerProgressReporter{out: out, spinner: s}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completeCurrentStage()

	label := event.Message
	if event.Total > 0 {
		label = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	if !event.Spinner {
		r.stopSpinner()
		fmt.Fprintln(r.out, label)
		return
	}

	r.current = &stageInfo{Stage: event.Stage, Label: label, StartTime: time.Now()}
	r.spinner.Suffix = " " + label
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

// Finish completes the last step and stops the spinner
func (r *SpinnerProgressReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completeCurrentStage()
	r.stopSpinner()
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	c.Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage prints the finished step with its duration
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if r.current == nil {
		return
	}
	r.stopSpinner()
	duration := time.Since(r.current.StartTime).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		r.current.Label,
		color.New(color.Faint).Sprintf("(%s)", duration))
	r.current = nil
}

func (r *SpinnerProgressReporter) stopSpinner() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
