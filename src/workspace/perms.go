// Package workspace handles the on-disk workspace of one pipeline run.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resetter relaxes workspace permissions after the container step so
// the host-side cleanup can remove files created by the container's
// user. The reset is best-effort: individual chmod failures do not
// fail the stage.
type Resetter struct {
	Mode fs.FileMode
}

// Reset recursively applies the configured mode to every entry under
// root. Returns an error only if root itself is unreachable; per-entry
// failures are counted and reported as a soft error wrapper that
// callers may ignore.
func (r Resetter) Reset(root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("workspace %s: %w", root, err)
	}

	var failed int
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			failed++
			return nil
		}
		// Symlink modes are meaningless on Linux; chmod would follow
		// the link target instead.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if cerr := os.Chmod(path, r.Mode); cerr != nil {
			failed++
		}
		return nil
	})

	if failed > 0 {
		return fmt.Errorf("permission reset left %d entries untouched", failed)
	}
	return nil
}
