// Package surface extracts the governance surface of a contract file: a
// flat table of declared objects (contracts, functions, events, modifiers,
// structs, enums) and a table of their parameters, each annotated with the
// documentation comment preceding it in the raw source.
package surface

import (
	"fmt"

	"github.com/metagov/dao-governance-surfaces/internal/solidity"
)

// NoNameFunc is the sentinel object name used for nameless delegator
// functions such as `function() public payable`.
const NoNameFunc = "(none)"

// ObjectRecord is one declaration extracted from a contract file.
type ObjectRecord struct {
	ID         string
	Contract   string
	ObjectType string
	ObjectName string
	Span       solidity.Span
	Visibility string

	// Inheritance is populated for contract records only.
	Inheritance []string
	// Modifiers is populated for function records only.
	Modifiers []string
	// EnumValues is populated for enum records only.
	EnumValues []string

	// Comment fields, filled in by the associator.
	Title       string
	Notice      string
	Dev         string
	Return      string
	Params      []string
	FullComment string
	Description string

	parameters []int
}

// ParameterRecord is one parameter, state variable, struct field or enum
// member belonging to an ObjectRecord.
type ParameterRecord struct {
	ID            string
	ParameterName string
	ObjectName    string
	Contract      string
	LineNumber    int
	Visibility    string
	ParameterType string
	TypeCategory  string
	InitialValue  string

	// Comment fields, filled in by the associator.
	FullComment   string
	Description   string
	InlineComment string

	parent int
}

// Surface holds the extracted records of one contract file. Objects and
// parameters live in independent append-only slices; a parameter's parent
// link is an index into Objects, and an object tracks its children as
// indexes into Parameters.
type Surface struct {
	Objects    []*ObjectRecord
	Parameters []*ParameterRecord
}

// AddObject appends an object record and returns its index.
func (s *Surface) AddObject(o *ObjectRecord) int {
	o.ID = fmt.Sprintf("%s.%s@%d", o.Contract, o.ObjectName, o.Span.Start)
	s.Objects = append(s.Objects, o)
	return len(s.Objects) - 1
}

// AddParameter appends a parameter record parented to the object at the
// given index, registering the link on both sides.
func (s *Surface) AddParameter(p *ParameterRecord, parent int) int {
	obj := s.Objects[parent]
	p.parent = parent
	p.ObjectName = obj.ObjectName
	p.Contract = obj.Contract
	p.ID = fmt.Sprintf("%s.%s.%s@%d", obj.Contract, obj.ObjectName, p.ParameterName, p.LineNumber)
	s.Parameters = append(s.Parameters, p)
	idx := len(s.Parameters) - 1
	obj.parameters = append(obj.parameters, idx)
	return idx
}

// Parent returns the object record a parameter belongs to.
func (s *Surface) Parent(p *ParameterRecord) *ObjectRecord {
	return s.Objects[p.parent]
}

// ParametersOf returns the child parameter records of an object in
// declaration order.
func (s *Surface) ParametersOf(o *ObjectRecord) []*ParameterRecord {
	params := make([]*ParameterRecord, 0, len(o.parameters))
	for _, idx := range o.parameters {
		params = append(params, s.Parameters[idx])
	}
	return params
}

// findParameter locates the child of the object at index parent with the
// given name, or nil when the object declares no such parameter.
func (s *Surface) findParameter(parent int, name string) *ParameterRecord {
	for _, idx := range s.Objects[parent].parameters {
		if s.Parameters[idx].ParameterName == name {
			return s.Parameters[idx]
		}
	}
	return nil
}
