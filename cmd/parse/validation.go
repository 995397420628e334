package parse

import (
	"fmt"
	"strings"
)

// validateParseArgs checks the parse command's arguments for consistency.
func validateParseArgs(options *RunOptionsParse, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("parse requires exactly one target argument: a contract file, a checkout directory, or a file URL")
	}
	if options.Jobs < 0 {
		return fmt.Errorf("--jobs cannot be negative: %d", options.Jobs)
	}
	if options.RepoURL != "" && !strings.HasPrefix(options.RepoURL, "http://") && !strings.HasPrefix(options.RepoURL, "https://") {
		return fmt.Errorf("--repo-url %q is not an HTTP(S) URL", options.RepoURL)
	}
	return nil
}
