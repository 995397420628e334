package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
	log "github.com/metagov/dao-governance-surfaces/pkg/shared/logger"
)

var commitHashPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// reference is the resolved target of a clone: a branch/tag name or a
// commit hash.
type reference struct {
	name     string
	isCommit bool
}

func resolveReference(ref string) reference {
	return reference{
		name:     ref,
		isCommit: commitHashPattern.MatchString(ref),
	}
}

// referenceName returns the ref as a fully-qualified reference name.
// Already-qualified refs pass through untouched; a short name is first
// assumed to be a branch.
func (r reference) referenceName() plumbing.ReferenceName {
	name := plumbing.ReferenceName(r.name)
	if name.IsBranch() || name.IsTag() || name.IsRemote() || name.IsNote() {
		return name
	}
	return plumbing.NewBranchReferenceName(r.name)
}

// isShort reports whether the ref is an unqualified name, which may denote
// either a branch or a tag.
func (r reference) isShort() bool {
	if r.isCommit || r.name == "" {
		return false
	}
	name := plumbing.ReferenceName(r.name)
	return !name.IsBranch() && !name.IsTag() && !name.IsRemote() && !name.IsNote()
}

func isRefNotFound(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) ||
		errors.Is(err, git.NoMatchingRefSpecError{})
}

// CloneRepository clones the requested repository into the target folder
// and checks out the requested ref. An existing checkout is reused and
// updated instead of failing.
func (c *Client) CloneRepository(req *CloneRequest) (string, error) {
	targetFolder := req.TargetFolder

	info, err := vcsurl.Parse(req.CloneURL)
	if err != nil {
		c.logger.Error("failed to parse clone URL", "cloneURL", req.CloneURL, "error", err)
		return "", fmt.Errorf("failed to parse clone URL: %w", err)
	}

	ref := resolveReference(req.Ref)
	output := log.GetLoggerOutput(c.logger)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cloneOptions := &git.CloneOptions{
		Auth:            c.auth,
		URL:             req.CloneURL,
		Progress:        output,
		Depth:           config.SetThen(c.globalConfig.GitClient.Depth, 1),
		InsecureSkipTLS: c.globalConfig.GitClient.InsecureTLS,
	}
	if ref.isCommit {
		// A pinned commit needs history beyond the tip to check out.
		cloneOptions.Depth = 0
	} else if ref.name != "" {
		cloneOptions.ReferenceName = ref.referenceName()
	}

	c.logger.Debug("starting repository clone",
		"repository", info.Name, "ref", ref.name, "cloneURL", req.CloneURL, "targetFolder", targetFolder)

	repo, err := git.PlainCloneContext(ctx, targetFolder, false, cloneOptions)
	if err != nil && ref.isShort() && isRefNotFound(err) {
		// The short name is not a branch on the remote; it may be a tag,
		// as in pinned URLs like .../tree/v4.4.0.
		c.logger.Debug("ref is not a branch, retrying as tag", "ref", ref.name)
		cloneOptions.ReferenceName = plumbing.NewTagReferenceName(ref.name)
		repo, err = git.PlainCloneContext(ctx, targetFolder, false, cloneOptions)
	}
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryAlreadyExists) {
			c.logger.Error("error occurred during clone", "error", err, "targetFolder", targetFolder)
			return "", fmt.Errorf("error occurred during clone: %w", err)
		}

		c.logger.Info("repository already exists, reusing checkout", "targetFolder", targetFolder)
		repo, err = git.PlainOpen(targetFolder)
		if err != nil {
			return "", fmt.Errorf("cannot open existing repository: %w", err)
		}
	}

	if ref.name != "" {
		if err := c.checkout(repo, ref, targetFolder); err != nil {
			return "", err
		}
	}

	c.logger.Info("repository clone completed",
		"repository", info.Name, "ref", ref.name, "targetFolder", targetFolder)
	return targetFolder, nil
}

func (c *Client) checkout(repo *git.Repository, ref reference, targetFolder string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree for %q: %w", targetFolder, err)
	}

	options := git.CheckoutOptions{Force: true}
	if ref.isCommit {
		options.Hash = plumbing.NewHash(ref.name)
	} else {
		options.Branch = ref.referenceName()
	}

	err = worktree.Checkout(&options)
	if err != nil && ref.isShort() && isRefNotFound(err) {
		options.Branch = plumbing.NewTagReferenceName(ref.name)
		err = worktree.Checkout(&options)
	}
	if err != nil {
		c.logger.Error("checkout failed", "ref", ref.name, "error", err, "targetFolder", targetFolder)
		return fmt.Errorf("failed to checkout %q: %w", ref.name, err)
	}
	return nil
}
