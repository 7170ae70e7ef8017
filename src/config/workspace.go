package config

import (
	"fmt"
	"io/fs"
	"strconv"
)

// WorkspaceConfig controls the workspace directory and the permission
// reset that runs after the container step.
type WorkspaceConfig struct {
	// Dir is the workspace path. Empty means the current directory
	// (or the directory given on the command line).
	Dir string `yaml:"dir" toml:"dir"`
	// ResetMode is the octal mode applied recursively after the test
	// container exits, e.g. "0777".
	ResetMode string `yaml:"reset_mode" toml:"reset_mode"`
}

// DefaultWorkspaceConfig returns workspace defaults.
func DefaultWorkspaceConfig() WorkspaceConfig {
	return WorkspaceConfig{
		ResetMode: "0777",
	}
}

// Mode parses ResetMode as an octal file mode.
func (w WorkspaceConfig) Mode() (fs.FileMode, error) {
	n, err := strconv.ParseUint(w.ResetMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("workspace.reset_mode: %q is not an octal mode", w.ResetMode)
	}
	if n > 0o777 {
		return 0, fmt.Errorf("workspace.reset_mode: %q exceeds 0777", w.ResetMode)
	}
	return fs.FileMode(n), nil
}
