package parse

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/files"
	"github.com/metagov/dao-governance-surfaces/pkg/shared/httpclient"
)

// rawFileURL rewrites a GitHub blob URL to its raw content counterpart.
// Other URLs pass through untouched.
func rawFileURL(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("failed to parse file URL %q: %w", target, err)
	}
	if u.Host != "github.com" {
		return target, nil
	}

	// github.com/<owner>/<repo>/blob/<ref>/<path> ->
	// raw.githubusercontent.com/<owner>/<repo>/<ref>/<path>
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 4)
	if len(parts) != 4 || parts[2] != "blob" {
		return "", fmt.Errorf("unsupported GitHub file URL %q, expected a /blob/ URL", target)
	}
	u.Host = "raw.githubusercontent.com"
	u.Path = path.Join(parts[0], parts[1], parts[3])
	return u.String(), nil
}

// downloadContract fetches a remote contract file into the temp folder and
// returns the local path.
func downloadContract(cfg *config.Config, logger hclog.Logger, target string) (string, error) {
	rawURL, err := rawFileURL(target)
	if err != nil {
		return "", err
	}

	tempFolder := config.GetTempFolder(cfg)
	if err := files.CreateFolderIfNotExists(tempFolder); err != nil {
		return "", err
	}
	localPath := filepath.Join(tempFolder, filepath.Base(rawURL))

	client := httpclient.InitializeRestyClient(logger, cfg)
	logger.Debug("downloading contract file", "url", rawURL, "path", localPath)

	resp, err := client.R().SetOutput(localPath).Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %q: %w", rawURL, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to download %q: status %s", rawURL, resp.Status())
	}
	return localPath, nil
}
