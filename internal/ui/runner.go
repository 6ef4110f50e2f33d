package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// BatchConfig describes a multi-image run
type BatchConfig struct {
	Title   string    // e.g., "Klipper Binary Analyzer"
	Command string    // e.g., "klipper-analyzer a.bin b.bin"
	Params  []Field   // Shown in the header
	Files   []string  // Display names, one per image
	Output  io.Writer // Default: os.Stdout
}

// BatchError reports how many images of a batch failed.
type BatchError struct {
	Failed int
	Total  int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d images failed", e.Failed, e.Total)
}

// BatchRunner orchestrates the header, per-image progress and final result
// of a multi-image run.
type BatchRunner struct {
	config   BatchConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewBatchRunner creates a runner for the given images
func NewBatchRunner(config BatchConfig) *BatchRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()

	progress := NewProgress(fmt.Sprintf("Analyzing %d images", len(config.Files)), config.Files)
	progress.SetWidth(width)

	return &BatchRunner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params...).SetWidth(width),
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// BatchOperation processes image i and returns a short note for its line.
type BatchOperation func(ctx context.Context, i int) (string, error)

// Run processes every image in order. Failures do not stop the batch; the
// returned error is a *BatchError when at least one image failed, or the
// context error when the run was cancelled.
func (r *BatchRunner) Run(ctx context.Context, op BatchOperation) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, ProgressLabelStyle.Render(r.progress.Label))
	_, _ = fmt.Fprintln(r.output)

	onStep := r.stepCallback()
	for i := range r.config.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := i + 1
		onStep(n, StepRunning, "")
		note, err := op(ctx, i)
		if err != nil {
			onStep(n, StepFailed, err.Error())
			continue
		}
		onStep(n, StepComplete, note)
	}

	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	_, _ = fmt.Fprintln(r.output)

	failed := r.progress.Failed()
	total := r.progress.Total
	duration := time.Since(start).Round(time.Millisecond).String()

	var result *Result
	if failed > 0 {
		result = NewWarningResult(fmt.Sprintf("%d of %d images analyzed", total-failed, total),
			Field{"Failed", fmt.Sprint(failed)},
			Field{"Duration", duration},
		)
	} else {
		result = NewSuccessResult(fmt.Sprintf("%d images analyzed", total),
			Field{"Duration", duration},
		)
	}
	_, _ = fmt.Fprintln(r.output, result.SetWidth(r.width).Render())

	if failed > 0 {
		return &BatchError{Failed: failed, Total: total}
	}
	return nil
}

func (r *BatchRunner) stepCallback() StepCallback {
	return func(stepNumber int, status StepStatus, message string) {
		r.progress.UpdateStep(stepNumber, status, message)
		step := r.progress.Steps[stepNumber-1]
		if status == StepRunning {
			// Overwritten when the image completes
			_, _ = fmt.Fprint(r.output, r.progress.RenderStepLine(step)+"\r")
			return
		}
		_, _ = fmt.Fprintln(r.output, r.progress.RenderStepLine(step))
	}
}
