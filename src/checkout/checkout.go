// Package checkout acquires the source tree for a pipeline run.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Checkout clones (or refreshes) a repository into the workspace.
// With an empty URL it only verifies that the workspace already holds
// a populated tree, for setups where the surrounding CI system does
// the checkout itself.
type Checkout struct {
	URL      string
	Ref      string
	Depth    int
	Progress io.Writer
}

// Acquire populates the workspace. Any error aborts the remaining
// pipeline stages.
func (c *Checkout) Acquire(ctx context.Context, workspace string) error {
	if c.URL == "" {
		return verifyPopulated(workspace)
	}

	if _, err := os.Stat(filepath.Join(workspace, ".git")); err == nil {
		return c.refresh(ctx, workspace)
	}
	return c.clone(ctx, workspace)
}

func (c *Checkout) clone(ctx context.Context, workspace string) error {
	opts := &git.CloneOptions{
		URL:      c.URL,
		Depth:    c.Depth,
		Progress: c.Progress,
	}
	if c.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.Ref)
		opts.SingleBranch = true
	}

	_, err := git.PlainCloneContext(ctx, workspace, false, opts)
	if err != nil && c.Ref != "" && errors.Is(err, plumbing.ErrReferenceNotFound) {
		// The ref may be a tag rather than a branch.
		opts.ReferenceName = plumbing.NewTagReferenceName(c.Ref)
		_, err = git.PlainCloneContext(ctx, workspace, false, opts)
	}
	if err != nil {
		return fmt.Errorf("cloning %s: %w", c.URL, err)
	}
	return nil
}

// refresh fetches new objects into an existing clone and checks out
// the configured ref.
func (c *Checkout) refresh(ctx context.Context, workspace string) error {
	repo, err := git.PlainOpen(workspace)
	if err != nil {
		return fmt.Errorf("opening %s: %w", workspace, err)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{Progress: c.Progress})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetching %s: %w", c.URL, err)
	}

	if c.Ref == "" {
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(c.Ref)})
	if err != nil {
		err = wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewTagReferenceName(c.Ref)})
	}
	if err != nil {
		return fmt.Errorf("checking out %s: %w", c.Ref, err)
	}
	return nil
}

// verifyPopulated ensures the workspace holds a non-empty tree.
func verifyPopulated(workspace string) error {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return fmt.Errorf("workspace %s: %w", workspace, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("workspace %s is empty and no checkout url is configured", workspace)
	}
	return nil
}
