package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Runner executes a prepared command line. The default implementation
// wraps os/exec; tests inject a fake.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

func (execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Docker wraps docker run commands.
type Docker struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Exec    Runner
}

// NewDocker creates a Docker runner with default output writers.
func NewDocker(verbose bool) *Docker {
	return &Docker{
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Exec:    execRunner{},
	}
}

// Run executes a single container invocation via docker run.
// A non-zero exit from the in-container command surfaces as an error.
func (d *Docker) Run(ctx context.Context, inv Invocation) error {
	args := inv.Args()

	if d.Verbose {
		fmt.Fprintf(d.Stderr, "exec: docker %s\n", strings.Join(args, " "))
	}

	if err := d.Exec.Run(ctx, "docker", args, d.Stdout, d.Stderr); err != nil {
		return fmt.Errorf("docker run failed: %w", err)
	}
	return nil
}

// ClientVersion queries the local docker client version.
func (d *Docker) ClientVersion(ctx context.Context) (string, error) {
	out, err := d.Exec.Output(ctx, "docker", "version", "--format", "{{.Client.Version}}")
	if err != nil {
		return "", fmt.Errorf("querying docker version: %w", err)
	}
	return out, nil
}

// CheckMinVersion compares the client version against a minimum.
// A runtime older than min is an error; an unparsable reported version
// is a warning only, not a failure.
func (d *Docker) CheckMinVersion(ctx context.Context, min string) error {
	if min == "" {
		return nil
	}

	want, err := semver.NewVersion(min)
	if err != nil {
		return fmt.Errorf("invalid minimum runtime version %q: %w", min, err)
	}

	raw, err := d.ClientVersion(ctx)
	if err != nil {
		return err
	}

	have, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		fmt.Fprintf(d.Stderr, "warning: unparsable docker version %q, skipping preflight\n", raw)
		return nil
	}

	if have.LessThan(want) {
		return fmt.Errorf("docker %s is older than required %s", have, want)
	}
	return nil
}
