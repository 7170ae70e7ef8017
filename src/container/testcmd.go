package container

import "context"

// passwdFile is bind-mounted read-only so the fixed user identity
// resolves inside the container without copying host identity data in.
const passwdFile = "/etc/passwd"

// TestCommand runs the configured test command inside a container with
// the workspace bind-mounted read-write at the identical path on both
// sides of the boundary.
type TestCommand struct {
	Docker  *Docker
	Image   string
	User    string
	Command []string
	Extra   []Mount
}

// RunTests executes the test command in a throwaway container.
func (t *TestCommand) RunTests(ctx context.Context, workspace string) error {
	inv := Invocation{
		Image:   t.Image,
		User:    t.User,
		Remove:  true,
		WorkDir: workspace,
		Command: t.Command,
		Mounts: append([]Mount{
			{Source: workspace, Target: workspace},
			{Source: passwdFile, Target: passwdFile, ReadOnly: true},
		}, t.Extra...),
	}
	return t.Docker.Run(ctx, inv)
}
