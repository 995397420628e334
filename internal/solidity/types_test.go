package solidity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeNode(t *testing.T, input string) *Node {
	t.Helper()
	var n Node
	require.NoError(t, json.Unmarshal([]byte(input), &n))
	return &n
}

func TestRenderType(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "elementary type",
			input:    `{"typeName": {"type": "ElementaryTypeName", "name": "uint256"}}`,
			expected: "uint256",
		},
		{
			name:     "user-defined type",
			input:    `{"typeName": {"type": "UserDefinedTypeName", "namePath": "Proposal"}}`,
			expected: "Proposal",
		},
		{
			name: "mapping",
			input: `{"typeName": {"type": "Mapping",
				"keyType": {"type": "ElementaryTypeName", "name": "address"},
				"valueType": {"type": "ElementaryTypeName", "name": "uint256"}}}`,
			expected: "mapping (address => uint256)",
		},
		{
			name: "nested mapping value",
			input: `{"typeName": {"type": "Mapping",
				"keyType": {"type": "ElementaryTypeName", "name": "address"},
				"valueType": {"type": "Mapping"}}}`,
			expected: "mapping (address => type:Mapping)",
		},
		{
			name: "dynamic array",
			input: `{"typeName": {"type": "ArrayTypeName",
				"baseTypeName": {"type": "UserDefinedTypeName", "namePath": "Vote"}}}`,
			expected: "Vote[]",
		},
		{
			name: "fixed array with storage location",
			input: `{"storageLocation": "memory", "typeName": {"type": "ArrayTypeName",
				"baseTypeName": {"type": "ElementaryTypeName", "name": "bytes32"},
				"length": {"type": "NumberLiteral", "number": "8"}}}`,
			expected: "bytes32[8] memory",
		},
		{
			name:     "missing type name",
			input:    `{"name": "x"}`,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RenderType(decodeNode(t, tc.input)))
		})
	}
}

func TestTypeCategory(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sized integer loses its width",
			input:    `{"typeName": {"type": "ElementaryTypeName", "name": "uint8"}}`,
			expected: "uint",
		},
		{
			name:     "bytes32 reduces to bytes",
			input:    `{"typeName": {"type": "ElementaryTypeName", "name": "bytes32"}}`,
			expected: "bytes",
		},
		{
			name:     "address keeps its name",
			input:    `{"typeName": {"type": "ElementaryTypeName", "name": "address"}}`,
			expected: "address",
		},
		{
			name:     "mapping",
			input:    `{"typeName": {"type": "Mapping"}}`,
			expected: "map",
		},
		{
			name:     "array",
			input:    `{"typeName": {"type": "ArrayTypeName", "baseTypeName": {"type": "ElementaryTypeName", "name": "uint256"}}}`,
			expected: "array",
		},
		{
			name:     "user-defined type",
			input:    `{"typeName": {"type": "UserDefinedTypeName", "namePath": "Proposal"}}`,
			expected: "userdefined",
		},
		{
			name:     "missing type name",
			input:    `{"name": "x"}`,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TypeCategory(decodeNode(t, tc.input)))
		})
	}
}

func TestRenderTypeNilNode(t *testing.T) {
	assert.Equal(t, "", RenderType(nil))
	assert.Equal(t, "", TypeCategory(nil))
}
