package fetch

import (
	"fmt"
	"strings"
)

var allowedAuthTypes = []string{"http", "ssh-agent", "ssh-key"}

// validateFetchArgs checks the fetch command's arguments for consistency.
func validateFetchArgs(options *RunOptionsFetch, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("fetch requires exactly one repository URL argument")
	}
	if !strings.HasPrefix(args[0], "http://") && !strings.HasPrefix(args[0], "https://") {
		return fmt.Errorf("repository argument %q is not an HTTP(S) URL", args[0])
	}

	if options.AuthType != "" && !isAllowedAuthType(options.AuthType) {
		return fmt.Errorf("unknown auth-type %q, expected one of: %s", options.AuthType, strings.Join(allowedAuthTypes, ", "))
	}
	if options.AuthType == "ssh-key" && options.SSHKey == "" {
		return fmt.Errorf("auth-type ssh-key requires --ssh-key")
	}
	if options.SSHKey != "" && options.AuthType != "ssh-key" {
		return fmt.Errorf("--ssh-key is only valid with --auth-type ssh-key")
	}
	return nil
}

func isAllowedAuthType(authType string) bool {
	for _, allowed := range allowedAuthTypes {
		if authType == allowed {
			return true
		}
	}
	return false
}
