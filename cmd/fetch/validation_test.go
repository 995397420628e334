package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFetchArgs(t *testing.T) {
	testCases := []struct {
		name      string
		options   RunOptionsFetch
		args      []string
		expectErr bool
	}{
		{
			name:    "plain URL",
			options: RunOptionsFetch{},
			args:    []string{"https://github.com/aragon/aragonOS"},
		},
		{
			name:    "ssh key auth with key path",
			options: RunOptionsFetch{AuthType: "ssh-key", SSHKey: "~/.ssh/id_ed25519"},
			args:    []string{"https://github.com/aragon/aragonOS"},
		},
		{
			name:      "no arguments",
			options:   RunOptionsFetch{},
			args:      nil,
			expectErr: true,
		},
		{
			name:      "two arguments",
			options:   RunOptionsFetch{},
			args:      []string{"https://github.com/a/b", "https://github.com/c/d"},
			expectErr: true,
		},
		{
			name:      "not a URL",
			options:   RunOptionsFetch{},
			args:      []string{"aragon/aragonOS"},
			expectErr: true,
		},
		{
			name:      "unknown auth type",
			options:   RunOptionsFetch{AuthType: "kerberos"},
			args:      []string{"https://github.com/aragon/aragonOS"},
			expectErr: true,
		},
		{
			name:      "ssh-key auth without key path",
			options:   RunOptionsFetch{AuthType: "ssh-key"},
			args:      []string{"https://github.com/aragon/aragonOS"},
			expectErr: true,
		},
		{
			name:      "key path without ssh-key auth",
			options:   RunOptionsFetch{AuthType: "http", SSHKey: "~/.ssh/id_ed25519"},
			args:      []string{"https://github.com/aragon/aragonOS"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateFetchArgs(&tc.options, tc.args)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
