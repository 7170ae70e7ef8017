package container

import "fmt"

// Mount is one bind mount of a container invocation.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

func (m Mount) spec() string {
	s := fmt.Sprintf("%s:%s", m.Source, m.Target)
	if m.ReadOnly {
		s += ":ro"
	}
	return s
}

// Invocation describes a single container run as typed data. The
// argument list is rendered from these fields, never interpolated
// from strings.
type Invocation struct {
	Image   string
	User    string
	Remove  bool // remove the container on exit
	Mounts  []Mount
	WorkDir string
	Command []string
}

// Args renders the full container-runtime argument list.
func (inv Invocation) Args() []string {
	args := []string{"run"}

	if inv.Remove {
		args = append(args, "--rm")
	}

	for _, m := range inv.Mounts {
		args = append(args, "--volume", m.spec())
	}

	if inv.User != "" {
		args = append(args, "--user", inv.User)
	}

	if inv.WorkDir != "" {
		args = append(args, "--workdir", inv.WorkDir)
	}

	args = append(args, inv.Image)
	args = append(args, inv.Command...)

	return args
}
