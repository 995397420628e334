// Package solidity models the AST emitted by the external Solidity parser.
//
// The parser prints a JSON source unit whose nodes carry a `type`, an
// optional `name` and a `loc` span, plus kind-specific children. Decoding is
// deliberately tolerant: optional fields absent from a node simply stay at
// their zero value.
package solidity

import (
	"encoding/json"
	"fmt"
)

// Position is a single point in the source file, 1-indexed.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Loc is the inclusive source span of a node.
type Loc struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SourceUnit is the root of a parsed contract file.
type SourceUnit struct {
	Type     string  `json:"type"`
	Children []*Node `json:"children"`
}

// Node is the raw wire shape of an AST node. Only the fields the extraction
// pipeline reads are decoded; everything else is ignored.
type Node struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Loc             *Loc            `json:"loc"`
	Visibility      string          `json:"visibility"`
	BaseContracts   []*BaseContract `json:"baseContracts"`
	SubNodes        []*Node         `json:"subNodes"`
	Modifiers       []*Node         `json:"modifiers"`
	Members         []*Node         `json:"members"`
	Parameters      NodeList        `json:"parameters"`
	Variables       []*Node         `json:"variables"`
	TypeName        *TypeName       `json:"typeName"`
	StorageLocation string          `json:"storageLocation"`
	InitialValue    *Expression     `json:"initialValue"`
}

// BaseContract names one inherited base type of a contract.
type BaseContract struct {
	BaseName struct {
		NamePath string `json:"namePath"`
	} `json:"baseName"`
}

// NodeList decodes both shapes the parser emits for parameter lists: a bare
// array of nodes, or a ParameterList object wrapping one.
type NodeList []*Node

func (l *NodeList) UnmarshalJSON(data []byte) error {
	var plain []*Node
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = plain
		return nil
	}
	var wrapped struct {
		Parameters []*Node `json:"parameters"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("parameter list is neither an array nor a ParameterList: %w", err)
	}
	*l = wrapped.Parameters
	return nil
}

// TypeName describes the declared type of a variable or parameter.
type TypeName struct {
	Type         string      `json:"type"`
	Name         string      `json:"name"`
	NamePath     string      `json:"namePath"`
	KeyType      *TypeName   `json:"keyType"`
	ValueType    *TypeName   `json:"valueType"`
	BaseTypeName *TypeName   `json:"baseTypeName"`
	Length       *Expression `json:"length"`
}

// Expression is a literal or expression node. The full node is retained so
// non-literal expressions can still be rendered.
type Expression struct {
	Type   string
	Value  string
	Number string

	raw json.RawMessage
}

func (e *Expression) UnmarshalJSON(data []byte) error {
	e.raw = append(e.raw[:0], data...)
	var shadow struct {
		Type   string      `json:"type"`
		Value  interface{} `json:"value"`
		Number string      `json:"number"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		// Bare literal (number, string, bool) rather than an object.
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e.Value = fmt.Sprint(v)
		return nil
	}
	e.Type = shadow.Type
	e.Number = shadow.Number
	if shadow.Value != nil {
		e.Value = fmt.Sprint(shadow.Value)
	}
	return nil
}

// Literal renders the expression as a flat string: the literal value if the
// node carries one, otherwise the raw JSON of the node.
func (e *Expression) Literal() string {
	if e == nil {
		return ""
	}
	if e.Value != "" {
		return e.Value
	}
	if e.Number != "" {
		return e.Number
	}
	return string(e.raw)
}

// ParseSourceUnit decodes a JSON source unit produced by the parser.
func ParseSourceUnit(data []byte) (*SourceUnit, error) {
	var unit SourceUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("failed to decode source unit: %w", err)
	}
	return &unit, nil
}
