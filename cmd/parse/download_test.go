package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawFileURL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "GitHub blob URL",
			input:    "https://github.com/aragon/aragonOS/blob/master/contracts/acl/ACL.sol",
			expected: "https://raw.githubusercontent.com/aragon/aragonOS/master/contracts/acl/ACL.sol",
		},
		{
			name:     "GitHub blob URL with tag",
			input:    "https://github.com/aragon/aragonOS/blob/v4.4.0/contracts/acl/ACL.sol",
			expected: "https://raw.githubusercontent.com/aragon/aragonOS/v4.4.0/contracts/acl/ACL.sol",
		},
		{
			name:     "non-GitHub URL passes through",
			input:    "https://example.com/contracts/Voting.sol",
			expected: "https://example.com/contracts/Voting.sol",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rawFileURL(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRawFileURLRejectsNonBlobGitHubURL(t *testing.T) {
	_, err := rawFileURL("https://github.com/aragon/aragonOS")
	assert.Error(t, err)

	_, err = rawFileURL("https://github.com/aragon/aragonOS/tree/master/contracts")
	assert.Error(t, err)
}

func TestValidateParseArgs(t *testing.T) {
	assert.Error(t, validateParseArgs(&RunOptionsParse{}, nil))
	assert.Error(t, validateParseArgs(&RunOptionsParse{}, []string{"a", "b"}))
	assert.Error(t, validateParseArgs(&RunOptionsParse{Jobs: -1}, []string{"Voting.sol"}))
	assert.Error(t, validateParseArgs(&RunOptionsParse{RepoURL: "not-a-url"}, []string{"Voting.sol"}))
	assert.NoError(t, validateParseArgs(&RunOptionsParse{Jobs: 4, RepoURL: "https://github.com/aragon/aragonOS"}, []string{"Voting.sol"}))
}
