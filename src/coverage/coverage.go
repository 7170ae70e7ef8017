// Package coverage invokes external coverage-reporting tools. The
// uploaders are opaque collaborators: each is a single call with no
// contract beyond succeed-or-fail.
package coverage

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Reporter uploads coverage results for one pipeline run.
type Reporter interface {
	Report(ctx context.Context) error
}

// ExecFunc runs one external command. Swappable for tests.
type ExecFunc func(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) error

func defaultExec(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Command reports coverage by invoking an external uploader.
type Command struct {
	Name   string
	Argv   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Exec   ExecFunc
}

// NewCommand creates a subprocess-backed reporter.
func NewCommand(name string, argv []string, dir string) *Command {
	return &Command{
		Name:   name,
		Argv:   argv,
		Dir:    dir,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Exec:   defaultExec,
	}
}

// Report runs the uploader command in the workspace directory.
func (c *Command) Report(ctx context.Context) error {
	if len(c.Argv) == 0 {
		return fmt.Errorf("coverage %s: empty command", c.Name)
	}
	if err := c.Exec(ctx, c.Dir, c.Argv, c.Stdout, c.Stderr); err != nil {
		return fmt.Errorf("coverage %s: %w", c.Name, err)
	}
	return nil
}

// Multi fans a report out to several uploaders concurrently. Any
// uploader error fails the whole report.
type Multi struct {
	Reporters []Reporter
}

func (m Multi) Report(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range m.Reporters {
		r := r
		g.Go(func() error {
			return r.Report(ctx)
		})
	}
	return g.Wait()
}
