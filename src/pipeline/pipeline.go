// Package pipeline sequences the fixed checkout → test → coverage
// pipeline inside a single error boundary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrSkipStage marks a stage that decided not to run. Returning an
// error wrapping it records the stage as skipped without failing the
// build.
var ErrSkipStage = errors.New("stage skipped")

// Run is the mutable context of one pipeline execution. The Result
// field replaces the ambient build flag a CI orchestrator would keep:
// stages read and write it explicitly.
type Run struct {
	Workspace string
	Result    Result
	Stages    []StageResult
}

// Stage is one named phase of the pipeline. Exec returns a short
// human-readable detail string for the summary, plus an error on
// failure.
type Stage struct {
	Name string
	Exec func(ctx context.Context, run *Run) (string, error)
}

// Runner executes the scoped stages in order. The first failure sets
// Result to FAILURE and short-circuits the remaining scoped stages;
// the finalizer is invoked exactly once regardless of outcome. Stage
// errors never propagate to the caller — Result is the only signal.
type Runner struct {
	Stages   []Stage
	Finalize func(run *Run)

	// Hooks for console rendering. Either may be nil.
	StageStarted  func(name string)
	StageFinished func(res StageResult)

	Stderr io.Writer
}

// Execute runs the pipeline over run and returns it with Result and
// per-stage outcomes filled in.
func (r *Runner) Execute(ctx context.Context, run *Run) *Run {
	if r.Finalize != nil {
		defer r.Finalize(run)
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	for _, stage := range r.Stages {
		if run.Result == ResultFailure {
			res := StageResult{
				Name:   stage.Name,
				Status: StatusSkipped,
				Detail: fmt.Sprintf("build result is %s", run.Result),
			}
			run.Stages = append(run.Stages, res)
			fmt.Fprintf(stderr, "stage %s skipped: build result is %s\n", stage.Name, run.Result)
			if r.StageFinished != nil {
				r.StageFinished(res)
			}
			continue
		}

		if r.StageStarted != nil {
			r.StageStarted(stage.Name)
		}

		start := time.Now()
		detail, err := stage.Exec(ctx, run)
		res := StageResult{
			Name:     stage.Name,
			Detail:   detail,
			Duration: time.Since(start),
		}

		switch {
		case err == nil:
			res.Status = StatusSuccess
		case errors.Is(err, ErrSkipStage):
			res.Status = StatusSkipped
			if detail == "" {
				res.Detail = err.Error()
			}
			fmt.Fprintf(stderr, "stage %s skipped: %v\n", stage.Name, err)
		default:
			run.Result = ResultFailure
			res.Status = StatusFailed
			res.Err = err
			if detail == "" {
				res.Detail = err.Error()
			}
			fmt.Fprintf(stderr, "stage %s failed: %v\n", stage.Name, err)
		}

		run.Stages = append(run.Stages, res)
		if r.StageFinished != nil {
			r.StageFinished(res)
		}
	}

	return run
}
