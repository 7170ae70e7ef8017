package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Stage names, in execution order.
const (
	StageCheckout = "checkout"
	StageTest     = "test"
	StageCoverage = "coverage"
)

// SourceAcquirer populates the workspace with the source tree.
type SourceAcquirer interface {
	Acquire(ctx context.Context, workspace string) error
}

// TestExecutor runs the containerized test command.
type TestExecutor interface {
	RunTests(ctx context.Context, workspace string) error
}

// PermissionResetter relaxes workspace permissions after the
// container step.
type PermissionResetter interface {
	Reset(workspace string) error
}

// CoverageReporter uploads coverage results.
type CoverageReporter interface {
	Report(ctx context.Context) error
}

// Deps are the collaborators of the standard three-stage pipeline.
// A nil Coverage disables the coverage stage.
type Deps struct {
	Source   SourceAcquirer
	Tests    TestExecutor
	Perms    PermissionResetter
	Coverage CoverageReporter
	Stderr   io.Writer
}

// NewRunner assembles the fixed checkout → test → coverage sequence.
func NewRunner(deps Deps) *Runner {
	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Runner{
		Stderr: stderr,
		Stages: []Stage{
			{Name: StageCheckout, Exec: checkoutStage(deps)},
			{Name: StageTest, Exec: testStage(deps, stderr)},
			{Name: StageCoverage, Exec: coverageStage(deps)},
		},
	}
}

func checkoutStage(deps Deps) func(ctx context.Context, run *Run) (string, error) {
	return func(ctx context.Context, run *Run) (string, error) {
		if err := deps.Source.Acquire(ctx, run.Workspace); err != nil {
			return "", err
		}
		return "workspace populated", nil
	}
}

// testStage runs the container command, then resets workspace
// permissions whether or not the command failed. The container's user
// writes files the host job cleanup could otherwise not remove.
func testStage(deps Deps, stderr io.Writer) func(ctx context.Context, run *Run) (string, error) {
	return func(ctx context.Context, run *Run) (string, error) {
		err := deps.Tests.RunTests(ctx, run.Workspace)

		if deps.Perms != nil {
			if perr := deps.Perms.Reset(run.Workspace); perr != nil {
				fmt.Fprintf(stderr, "warning: %v\n", perr)
			}
		}

		if err != nil {
			return "", err
		}
		run.Result = ResultSuccess
		return "tests passed", nil
	}
}

func coverageStage(deps Deps) func(ctx context.Context, run *Run) (string, error) {
	return func(ctx context.Context, run *Run) (string, error) {
		if deps.Coverage == nil {
			return "", fmt.Errorf("coverage disabled: %w", ErrSkipStage)
		}
		if run.Result != ResultSuccess {
			return "", fmt.Errorf("build result is %s: %w", run.Result, ErrSkipStage)
		}
		if err := deps.Coverage.Report(ctx); err != nil {
			return "", err
		}
		return "coverage reported", nil
	}
}
