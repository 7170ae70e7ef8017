package config

// TestConfig describes the containerized test invocation.
type TestConfig struct {
	// Image is the container image tag the test command runs in.
	Image string `yaml:"image" toml:"image"`
	// User is the in-container user identity. Resolved against the
	// host's /etc/passwd, which is bind-mounted read-only.
	User string `yaml:"user" toml:"user"`
	// Command is the fixed test/coverage command argv.
	Command []string `yaml:"command" toml:"command"`
	// Mounts lists extra bind mounts beyond the workspace and passwd.
	Mounts []MountConfig `yaml:"mounts" toml:"mounts"`
	// MinRuntimeVersion gates the run on a minimum container runtime
	// client version (semver). Empty disables the preflight.
	MinRuntimeVersion string `yaml:"min_runtime_version" toml:"min_runtime_version"`
}

// MountConfig is one extra bind mount.
type MountConfig struct {
	Source   string `yaml:"source" toml:"source"`
	Target   string `yaml:"target" toml:"target"`
	ReadOnly bool   `yaml:"read_only" toml:"read_only"`
}

// DefaultTestConfig returns the historical fixed test invocation.
func DefaultTestConfig() TestConfig {
	return TestConfig{
		Image:   "python:3.6",
		User:    "nobody",
		Command: []string{"make", "coverage"},
	}
}
