package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("version: must be 1, got %d", cfg.Version))
	}

	// ── Checkout ──────────────────────────────────────────────────────────

	if cfg.Checkout.URL == "" && cfg.Checkout.Ref != "" {
		warnings = append(warnings, "checkout.ref is ignored without checkout.url")
	}
	if cfg.Checkout.Depth < 0 {
		errs = append(errs, fmt.Sprintf("checkout.depth: must be >= 0, got %d", cfg.Checkout.Depth))
	}

	// ── Test ──────────────────────────────────────────────────────────────

	if cfg.Test.Image == "" {
		errs = append(errs, "test.image is required")
	}
	if len(cfg.Test.Command) == 0 {
		errs = append(errs, "test.command is required")
	}
	if cfg.Test.User == "" {
		warnings = append(warnings, "test.user is empty, container runs as the image default user")
	}
	for i, m := range cfg.Test.Mounts {
		if m.Source == "" || m.Target == "" {
			errs = append(errs, fmt.Sprintf("test.mounts[%d]: source and target are required", i))
		}
	}
	if cfg.Test.MinRuntimeVersion != "" {
		if _, verr := semver.NewVersion(cfg.Test.MinRuntimeVersion); verr != nil {
			errs = append(errs, fmt.Sprintf("test.min_runtime_version: %q is not valid semver", cfg.Test.MinRuntimeVersion))
		}
	}

	// ── Coverage ──────────────────────────────────────────────────────────

	for i, t := range cfg.Coverage.Targets {
		if len(t.Command) == 0 {
			errs = append(errs, fmt.Sprintf("coverage.targets[%d]: command is required", i))
		}
	}

	// ── Workspace ─────────────────────────────────────────────────────────

	if _, merr := cfg.Workspace.Mode(); merr != nil {
		errs = append(errs, merr.Error())
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}
