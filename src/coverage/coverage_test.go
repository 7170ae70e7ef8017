package coverage

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
)

func fakeExec(calls *[][]string, err error) ExecFunc {
	var mu sync.Mutex
	return func(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) error {
		mu.Lock()
		*calls = append(*calls, argv)
		mu.Unlock()
		return err
	}
}

func TestCommandReport(t *testing.T) {
	var calls [][]string
	c := &Command{
		Name: "codecov",
		Argv: []string{"codecov", "--required"},
		Exec: fakeExec(&calls, nil),
	}

	if err := c.Report(context.Background()); err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("uploader invoked %d times, want 1", len(calls))
	}
	if calls[0][0] != "codecov" {
		t.Errorf("argv = %v", calls[0])
	}
}

func TestCommandReportFailure(t *testing.T) {
	exit := errors.New("exit status 1")
	var calls [][]string
	c := &Command{
		Name: "codecov",
		Argv: []string{"codecov"},
		Exec: fakeExec(&calls, exit),
	}

	err := c.Report(context.Background())
	if !errors.Is(err, exit) {
		t.Fatalf("err = %v, want wrapped exit error", err)
	}
}

func TestCommandEmptyArgv(t *testing.T) {
	c := &Command{Name: "empty"}
	if err := c.Report(context.Background()); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestMultiReportsAll(t *testing.T) {
	var calls [][]string
	m := Multi{Reporters: []Reporter{
		&Command{Name: "a", Argv: []string{"codecov"}, Exec: fakeExec(&calls, nil)},
		&Command{Name: "b", Argv: []string{"coveralls"}, Exec: fakeExec(&calls, nil)},
	}}

	if err := m.Report(context.Background()); err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(calls) != 2 {
		t.Errorf("uploaders invoked %d times, want 2", len(calls))
	}
}

func TestMultiPropagatesFailure(t *testing.T) {
	exit := errors.New("exit status 3")
	var calls [][]string
	m := Multi{Reporters: []Reporter{
		&Command{Name: "a", Argv: []string{"codecov"}, Exec: fakeExec(&calls, nil)},
		&Command{Name: "b", Argv: []string{"coveralls"}, Exec: fakeExec(&calls, exit)},
	}}

	err := m.Report(context.Background())
	if !errors.Is(err, exit) {
		t.Fatalf("err = %v, want wrapped exit error", err)
	}
}
