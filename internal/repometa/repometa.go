// Package repometa resolves repository metadata for provenance columns:
// the repository's canonical URL, the ref being surveyed, and when it was
// last updated. Lookups go through the GitHub API and are cached on disk
// so batch runs do not burn through the rate limit.
package repometa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gitsight/go-vcsurl"
	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
)

// Metadata describes one surveyed repository at a specific ref.
type Metadata struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	CloneURL      string `json:"clone_url"`
	Ref           string `json:"ref"`
	DefaultBranch string `json:"default_branch"`
	UpdatedAt     string `json:"updated_at"`
}

// Project is the owner/name pair used to label output rows.
func (m *Metadata) Project() string {
	return m.Owner + "/" + m.Name
}

// Branch is the ref to survey: the URL's explicit ref when present,
// otherwise the repository's default branch.
func (m *Metadata) Branch() string {
	if m.Ref != "" {
		return m.Ref
	}
	return m.DefaultBranch
}

// FileURL builds the browsable URL of a file within the repository at the
// resolved ref.
func (m *Metadata) FileURL(relPath string) string {
	return fmt.Sprintf("%s/blob/%s/%s", m.URL, m.Branch(), strings.TrimPrefix(relPath, "/"))
}

// SplitRef splits a GitHub URL with an embedded `/tree/<ref>` segment into
// the repository URL and the ref. A URL without the segment comes back
// unchanged with an empty ref.
func SplitRef(rawURL string) (repoURL, ref string) {
	trimmed := strings.TrimSuffix(rawURL, "/")
	base, ref, found := strings.Cut(trimmed, "/tree/")
	if !found {
		return trimmed, ""
	}
	return base, ref
}

// Resolver looks up repository metadata, consulting the on-disk cache
// first.
type Resolver struct {
	client *github.Client
	cache  *cache
	logger hclog.Logger
}

// NewResolver builds a Resolver. An empty token means anonymous API
// access, which works but is tightly rate limited.
func NewResolver(cfg *config.Config, logger hclog.Logger) *Resolver {
	client := github.NewClient(nil)
	if cfg != nil && cfg.GitHub.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHub.Token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	}
	return &Resolver{
		client: client,
		cache:  newCache(config.GetTempFolder(cfg)),
		logger: logger,
	}
}

// Resolve returns the metadata for a repository URL, optionally carrying a
// `/tree/<ref>` segment. Results are cached keyed on the full URL.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*Metadata, error) {
	if meta := r.cache.get(rawURL); meta != nil {
		r.logger.Debug("repository metadata cache hit", "url", rawURL)
		return meta, nil
	}

	repoURL, ref := SplitRef(rawURL)
	info, err := vcsurl.Parse(repoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository URL %q: %w", rawURL, err)
	}

	repo, _, err := r.client.Repositories.Get(ctx, info.Username, info.Name)
	if err != nil {
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			return nil, fmt.Errorf("GitHub API rate limit exceeded, resets at %s: %w", rateErr.Rate.Reset.Time, err)
		}
		return nil, fmt.Errorf("failed to look up repository %s/%s: %w", info.Username, info.Name, err)
	}

	meta := &Metadata{
		Owner:         info.Username,
		Name:          info.Name,
		URL:           repo.GetHTMLURL(),
		CloneURL:      repo.GetCloneURL(),
		Ref:           ref,
		DefaultBranch: repo.GetDefaultBranch(),
		UpdatedAt:     repo.GetUpdatedAt().Format(time.RFC3339),
	}

	// A pinned ref reports the commit's own date instead of the
	// repository's latest activity.
	if ref != "" {
		commit, _, err := r.client.Repositories.GetCommit(ctx, info.Username, info.Name, ref, nil)
		if err != nil {
			r.logger.Warn("failed to resolve ref commit, falling back to repository date",
				"repository", meta.Project(), "ref", ref, "error", err)
		} else if date := commit.GetCommit().GetCommitter().GetDate(); !date.IsZero() {
			meta.UpdatedAt = date.Format(time.RFC3339)
		}
	}

	if err := r.cache.put(rawURL, meta); err != nil {
		r.logger.Warn("failed to persist metadata cache", "error", err)
	}
	return meta, nil
}
