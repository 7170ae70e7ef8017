package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stagehand-ci/stagehand/src/checkout"
	"github.com/stagehand-ci/stagehand/src/container"
	"github.com/stagehand-ci/stagehand/src/coverage"
	"github.com/stagehand-ci/stagehand/src/output"
	"github.com/stagehand-ci/stagehand/src/pipeline"
	"github.com/stagehand-ci/stagehand/src/workspace"
)

var (
	runSkipCoverage bool
	runExitCode     bool
	runDryRun       bool
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run the checkout → test → coverage pipeline",
	Long: `Run the fixed three-stage pipeline.

Checks out the source tree, runs the configured test command inside a
container with the workspace bind-mounted at an identical path, resets
workspace permissions, and uploads coverage when the tests passed. A
stage failure sets the build result to FAILURE and skips the remaining
stages; the process still exits cleanly unless --exit-code is set.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runSkipCoverage, "skip-coverage", false, "never invoke the coverage uploaders")
	runCmd.Flags().BoolVar(&runExitCode, "exit-code", false, "exit 1 when the build result is FAILURE")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the container invocation without executing")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	color := output.UseColor()
	w := os.Stdout
	pipelineStart := time.Now()

	output.ContextBlock(w, output.RunContextKV())

	docker := container.NewDocker(verbose)
	tests := &container.TestCommand{
		Docker:  docker,
		Image:   cfg.Test.Image,
		User:    cfg.Test.User,
		Command: cfg.Test.Command,
		Extra:   extraMounts(),
	}

	if runDryRun {
		inv := container.Invocation{
			Image:   tests.Image,
			User:    tests.User,
			Remove:  true,
			WorkDir: ws,
			Command: tests.Command,
			Mounts: append([]container.Mount{
				{Source: ws, Target: ws},
				{Source: "/etc/passwd", Target: "/etc/passwd", ReadOnly: true},
			}, tests.Extra...),
		}
		fmt.Fprintf(w, "docker %s\n", strings.Join(inv.Args(), " "))
		return nil
	}

	mode, err := cfg.Workspace.Mode()
	if err != nil {
		return err
	}

	var progress io.Writer
	if verbose {
		progress = os.Stderr
	}

	deps := pipeline.Deps{
		Source: &checkout.Checkout{
			URL:      cfg.Checkout.URL,
			Ref:      cfg.Checkout.Ref,
			Depth:    cfg.Checkout.Depth,
			Progress: progress,
		},
		Tests: &preflightTests{
			docker: docker,
			min:    cfg.Test.MinRuntimeVersion,
			inner:  tests,
		},
		Perms:    workspace.Resetter{Mode: mode},
		Coverage: buildCoverageReporter(ws),
		Stderr:   os.Stderr,
	}

	runner := pipeline.NewRunner(deps)
	// Finalization slot, reserved for cleanup steps. Runs whether the
	// scoped stages succeeded or failed.
	runner.Finalize = func(*pipeline.Run) {}
	runner.StageStarted = func(name string) {
		output.SectionStart(w, "sh_"+name, name)
	}
	runner.StageFinished = func(res pipeline.StageResult) {
		sec := output.NewSection(w, res.Name, res.Duration, color)
		output.RowStatus(sec, res.Name, res.Detail, string(res.Status), color)
		sec.Close()
		output.SectionEnd(w, "sh_"+res.Name)
	}

	run := runner.Execute(ctx, &pipeline.Run{Workspace: ws})
	totalElapsed := time.Since(pipelineStart)

	// --- Summary ---
	sumSec := output.NewSection(w, "Summary", 0, color)
	for _, res := range run.Stages {
		output.SummaryRow(w, res.Name, string(res.Status), res.Detail, color)
	}
	sumSec.Separator()
	overall := "failed"
	if run.Result == pipeline.ResultSuccess {
		overall = "success"
	}
	output.SummaryTotal(w, totalElapsed, overall, color)
	sumSec.Close()

	fmt.Fprintf(w, "\n    Build Result → %s\n\n", run.Result)

	if runExitCode && run.Result != pipeline.ResultSuccess {
		return fmt.Errorf("build result: %s", run.Result)
	}
	return nil
}

// preflightTests gates the containerized test run on the runtime
// version check; a too-old runtime fails the test stage before any
// container starts.
type preflightTests struct {
	docker *container.Docker
	min    string
	inner  pipeline.TestExecutor
}

func (p *preflightTests) RunTests(ctx context.Context, ws string) error {
	if err := p.docker.CheckMinVersion(ctx, p.min); err != nil {
		return err
	}
	return p.inner.RunTests(ctx, ws)
}

// resolveWorkspace picks the workspace directory: positional argument,
// then config, then the current directory. Always absolute — the same
// path is bind-mounted inside the container.
func resolveWorkspace(args []string) (string, error) {
	dir := cfg.Workspace.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving workspace path: %w", err)
	}
	return abs, nil
}

func extraMounts() []container.Mount {
	var mounts []container.Mount
	for _, m := range cfg.Test.Mounts {
		mounts = append(mounts, container.Mount{
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}
	return mounts
}

func buildCoverageReporter(ws string) pipeline.CoverageReporter {
	if runSkipCoverage || len(cfg.Coverage.Targets) == 0 {
		return nil
	}
	var reporters []coverage.Reporter
	for _, t := range cfg.Coverage.Targets {
		name := t.Name
		if name == "" && len(t.Command) > 0 {
			name = t.Command[0]
		}
		reporters = append(reporters, coverage.NewCommand(name, t.Command, ws))
	}
	if len(reporters) == 1 {
		return reporters[0]
	}
	return coverage.Multi{Reporters: reporters}
}
