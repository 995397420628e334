package solidity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeListUnmarshal(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "bare array",
			input:    `[{"type": "Parameter", "name": "a"}, {"type": "Parameter", "name": "b"}]`,
			expected: []string{"a", "b"},
		},
		{
			name:     "ParameterList wrapper",
			input:    `{"type": "ParameterList", "parameters": [{"type": "Parameter", "name": "a"}]}`,
			expected: []string{"a"},
		},
		{
			name:     "empty array",
			input:    `[]`,
			expected: nil,
		},
		{
			name:     "wrapper without parameters",
			input:    `{"type": "ParameterList"}`,
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var list NodeList
			require.NoError(t, json.Unmarshal([]byte(tc.input), &list))

			var names []string
			for _, n := range list {
				names = append(names, n.Name)
			}
			assert.Equal(t, tc.expected, names)
		})
	}
}

func TestExpressionLiteral(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "number literal node",
			input:    `{"type": "NumberLiteral", "number": "42"}`,
			expected: "42",
		},
		{
			name:     "boolean literal node",
			input:    `{"type": "BooleanLiteral", "value": true}`,
			expected: "true",
		},
		{
			name:     "string literal node",
			input:    `{"type": "StringLiteral", "value": "genesis"}`,
			expected: "genesis",
		},
		{
			name:     "bare number",
			input:    `7`,
			expected: "7",
		},
		{
			name:     "non-literal expression falls back to raw JSON",
			input:    `{"type": "BinaryOperation", "operator": "+"}`,
			expected: `{"type": "BinaryOperation", "operator": "+"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var e Expression
			require.NoError(t, json.Unmarshal([]byte(tc.input), &e))
			assert.Equal(t, tc.expected, e.Literal())
		})
	}
}

func TestExpressionLiteralNil(t *testing.T) {
	var e *Expression
	assert.Equal(t, "", e.Literal())
}

func TestClassify(t *testing.T) {
	n := &Node{
		Type:       KindFunction,
		Name:       "castVote",
		Visibility: "external",
		Loc: &Loc{
			Start: Position{Line: 10, Column: 4},
			End:   Position{Line: 14, Column: 4},
		},
		Modifiers: []*Node{{Type: "ModifierInvocation", Name: "onlyOwner"}},
		Parameters: NodeList{
			{Type: "Parameter", Name: "voter"},
		},
	}

	decl, err := Classify(n)
	require.NoError(t, err)

	function, ok := decl.(*Function)
	require.True(t, ok)
	assert.Equal(t, "castVote", function.DeclName())
	assert.Equal(t, Span{Start: 10, End: 14}, function.DeclSpan())
	assert.Equal(t, "external", function.Visibility)
	assert.Equal(t, []string{"onlyOwner"}, function.Modifiers)
	require.Len(t, function.Params, 1)
	assert.Equal(t, "voter", function.Params[0].Name)
}

func TestClassifyUnsupported(t *testing.T) {
	_, err := Classify(&Node{Type: "UsingForDeclaration"})

	var unsupported *UnsupportedDeclarationError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "UsingForDeclaration", unsupported.Type)
}

func TestClassifyMissingLoc(t *testing.T) {
	decl, err := Classify(&Node{Type: KindEvent, Name: "VoteCast"})
	require.NoError(t, err)
	assert.Equal(t, Span{}, decl.DeclSpan())
}
