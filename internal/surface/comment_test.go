package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCommentBlock(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name: "block comment with decoration",
			input: []string{
				"/**",
				" * @notice does X",
				" * @param a value",
				" */",
			},
			expected: []string{"@notice does X", "@param a value"},
		},
		{
			name: "block comment preceded by code",
			input: []string{
				"uint counter;",
				"/**",
				" * @dev internal helper",
				" */",
			},
			expected: []string{"@dev internal helper"},
		},
		{
			name: "trailing line comments",
			input: []string{
				"uint counter;",
				"// computes the sum",
				"// slowly",
			},
			expected: []string{"computes the sum", "slowly"},
		},
		{
			name: "line comments interrupted by code are dropped",
			input: []string{
				"// stale note",
				"uint counter;",
				"// fresh note",
			},
			expected: []string{"fresh note"},
		},
		{
			name: "earlier block comment not at the end is ignored",
			input: []string{
				"/**",
				" * belongs to someone else",
				" */",
				"uint counter;",
			},
			expected: nil,
		},
		{
			name:     "no comment at all",
			input:    []string{"pragma solidity ^0.4.24;", "uint counter;"},
			expected: nil,
		},
		{
			name:     "empty input",
			input:    nil,
			expected: nil,
		},
		{
			name: "blank lines inside the run are skipped",
			input: []string{
				"",
				"// only line",
				"   ",
			},
			expected: []string{"only line"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanCommentBlock(tc.input)
			if len(tc.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseDeclarationComment(t *testing.T) {
	comment := ParseDeclarationComment([]string{
		"/**",
		" * @notice does X",
		" * @param a value",
		" * @param b other",
		" * @return sum",
		" */",
	})

	assert.Equal(t, "does X", comment.Tags["notice"])
	assert.Equal(t, "a value\nb other", comment.Tags["param"])
	assert.Equal(t, "sum", comment.Tags["return"])
	assert.Equal(t, []ParamDoc{
		{Name: "a", Text: "value"},
		{Name: "b", Text: "other"},
	}, comment.Params)
	assert.Equal(t, []string{"a", "b"}, comment.ParamNames())
	assert.Equal(t, "does X", comment.Description)
	assert.Equal(t, "@notice does X\n@param a value\n@param b other\n@return sum", comment.FullComment)
	assert.False(t, comment.Empty())
}

func TestParseDeclarationCommentLineStyleEquivalence(t *testing.T) {
	block := ParseDeclarationComment([]string{
		"/**",
		" * @notice does X",
		" * @param a value",
		" */",
	})
	line := ParseDeclarationComment([]string{
		"// @notice does X",
		"// @param a value",
	})

	assert.Equal(t, block.Tags, line.Tags)
	assert.Equal(t, block.Params, line.Params)
	assert.Equal(t, block.Description, line.Description)
	assert.Equal(t, block.FullComment, line.FullComment)
}

func TestParseDeclarationCommentDescriptionPriority(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected string
	}{
		{
			name:     "title wins over notice",
			input:    []string{"// @notice noticed", "// @title titled"},
			expected: "titled",
		},
		{
			name:     "notice wins over dev",
			input:    []string{"// @dev developed", "// @notice noticed"},
			expected: "noticed",
		},
		{
			name:     "dev wins over return",
			input:    []string{"// @return returned", "// @dev developed"},
			expected: "developed",
		},
		{
			name:     "untagged falls back to the first sentence",
			input:    []string{"// Collects votes. Counts them later."},
			expected: "Collects votes",
		},
		{
			name:     "untagged without period keeps everything",
			input:    []string{"// collects votes"},
			expected: "collects votes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			comment := ParseDeclarationComment(tc.input)
			assert.Equal(t, tc.expected, comment.Description)
		})
	}
}

func TestParseDeclarationCommentMultilineTagValue(t *testing.T) {
	comment := ParseDeclarationComment([]string{
		"/**",
		" * @notice spans",
		" *   two lines",
		" * @dev short",
		" */",
	})

	assert.Equal(t, "spans two lines", comment.Tags["notice"])
	assert.Equal(t, "short", comment.Tags["dev"])
}

func TestParseDeclarationCommentEmptyWindow(t *testing.T) {
	comment := ParseDeclarationComment([]string{"contract Voting {", "uint counter;"})
	assert.True(t, comment.Empty())
	assert.Equal(t, "", comment.FullComment)
	assert.Nil(t, comment.Params)
}

func TestParseTrailingComment(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected ParameterComment
	}{
		{
			name:  "inline remark only",
			input: []string{"uint a; // the a value"},
			expected: ParameterComment{
				FullComment:   "the a value",
				Description:   "the a value",
				InlineComment: "the a value",
			},
		},
		{
			name:  "comment above only",
			input: []string{"// helper", "uint x;"},
			expected: ParameterComment{
				FullComment: "helper",
				Description: "helper",
			},
		},
		{
			name:  "comment above plus inline remark",
			input: []string{"// helper", "uint x; // the x value"},
			expected: ParameterComment{
				FullComment:   "helper\nthe x value",
				Description:   "helper",
				InlineComment: "the x value",
			},
		},
		{
			name:  "block comment above the declaration",
			input: []string{"/** running tally */", "uint public voteCount;"},
			expected: ParameterComment{
				FullComment: "running tally",
				Description: "running tally",
			},
		},
		{
			name:     "no comment",
			input:    []string{"uint a;", "uint b;"},
			expected: ParameterComment{},
		},
		{
			name:     "empty window",
			input:    nil,
			expected: ParameterComment{},
		},
		{
			name:  "declaration line with several comment markers yields no remark",
			input: []string{"uint a; // first // second"},
			expected: ParameterComment{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTrailingComment(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expected.FullComment == "", got.Empty())
		})
	}
}
