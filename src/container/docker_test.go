package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// fakeRunner records invocations instead of spawning processes.
type fakeRunner struct {
	name    string
	args    []string
	runErr  error
	version string
	verErr  error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	f.name = name
	f.args = args
	return f.runErr
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return f.version, f.verErr
}

func newTestDocker(fr *fakeRunner) *Docker {
	return &Docker{
		Stdout: io.Discard,
		Stderr: io.Discard,
		Exec:   fr,
	}
}

func TestInvocationArgs(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
		want string
	}{
		{
			name: "full test invocation",
			inv: Invocation{
				Image:   "python:3.6",
				User:    "nobody",
				Remove:  true,
				WorkDir: "/build/ws",
				Command: []string{"make", "coverage"},
				Mounts: []Mount{
					{Source: "/build/ws", Target: "/build/ws"},
					{Source: "/etc/passwd", Target: "/etc/passwd", ReadOnly: true},
				},
			},
			want: "run --rm --volume /build/ws:/build/ws --volume /etc/passwd:/etc/passwd:ro --user nobody --workdir /build/ws python:3.6 make coverage",
		},
		{
			name: "minimal",
			inv:  Invocation{Image: "alpine", Command: []string{"true"}},
			want: "run alpine true",
		},
		{
			name: "no command",
			inv:  Invocation{Image: "alpine", Remove: true},
			want: "run --rm alpine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(tt.inv.Args(), " ")
			if got != tt.want {
				t.Errorf("args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDockerRunPassesArgs(t *testing.T) {
	fr := &fakeRunner{}
	d := newTestDocker(fr)

	inv := Invocation{Image: "alpine", Remove: true, Command: []string{"true"}}
	if err := d.Run(context.Background(), inv); err != nil {
		t.Fatalf("run: %v", err)
	}

	if fr.name != "docker" {
		t.Errorf("command = %q, want docker", fr.name)
	}
	if got := strings.Join(fr.args, " "); got != "run --rm alpine true" {
		t.Errorf("args = %q", got)
	}
}

func TestDockerRunWrapsFailure(t *testing.T) {
	exit := errors.New("exit status 1")
	fr := &fakeRunner{runErr: exit}
	d := newTestDocker(fr)

	err := d.Run(context.Background(), Invocation{Image: "alpine"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, exit) {
		t.Errorf("error does not wrap exit error: %v", err)
	}
}

func TestTestCommandMountsWorkspace(t *testing.T) {
	fr := &fakeRunner{}
	tc := &TestCommand{
		Docker:  newTestDocker(fr),
		Image:   "python:3.6",
		User:    "nobody",
		Command: []string{"make", "coverage"},
	}

	if err := tc.RunTests(context.Background(), "/build/ws"); err != nil {
		t.Fatalf("run tests: %v", err)
	}

	got := strings.Join(fr.args, " ")
	for _, want := range []string{
		"--rm",
		"--volume /build/ws:/build/ws",
		"--volume /etc/passwd:/etc/passwd:ro",
		"--user nobody",
		"python:3.6 make coverage",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("args %q missing %q", got, want)
		}
	}
}

func TestCheckMinVersion(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		version string
		wantErr bool
	}{
		{"no minimum", "", "19.03.1", false},
		{"new enough", "20.10.0", "28.0.1", false},
		{"exact", "20.10.0", "20.10.0", false},
		{"too old", "20.10.0", "19.03.1", true},
		{"v prefix", "20.10.0", "v24.0.7", false},
		{"unparsable is warning only", "20.10.0", "dev-build", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeRunner{version: tt.version}
			d := newTestDocker(fr)
			var warnings bytes.Buffer
			d.Stderr = &warnings

			err := d.CheckMinVersion(context.Background(), tt.min)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.version == "dev-build" && !strings.Contains(warnings.String(), "unparsable") {
				t.Errorf("missing warning, stderr = %q", warnings.String())
			}
		})
	}
}

func TestCheckMinVersionQueryFailure(t *testing.T) {
	fr := &fakeRunner{verErr: fmt.Errorf("docker not installed")}
	d := newTestDocker(fr)

	if err := d.CheckMinVersion(context.Background(), "20.10.0"); err == nil {
		t.Fatal("expected error when the version query fails")
	}
}
