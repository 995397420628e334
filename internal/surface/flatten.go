package surface

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/metagov/dao-governance-surfaces/internal/solidity"
)

// DefaultIgnoredContracts lists well-known helper libraries that add noise
// rather than governance surface.
var DefaultIgnoredContracts = []string{"SafeMath"}

// Flattener walks a parsed source unit and produces the skeleton object and
// parameter records, in source declaration order.
type Flattener struct {
	ignored map[string]struct{}
	logger  hclog.Logger
}

// NewFlattener creates a flattener that skips the given contract names. A
// nil list applies DefaultIgnoredContracts.
func NewFlattener(ignoredContracts []string, logger hclog.Logger) *Flattener {
	if ignoredContracts == nil {
		ignoredContracts = DefaultIgnoredContracts
	}
	ignored := make(map[string]struct{}, len(ignoredContracts))
	for _, name := range ignoredContracts {
		ignored[name] = struct{}{}
	}
	return &Flattener{ignored: ignored, logger: logger}
}

// Flatten extracts object and parameter records from every contract
// definition in the source unit. Member declarations of unsupported kinds
// are skipped; record order follows source order throughout.
func (f *Flattener) Flatten(unit *solidity.SourceUnit) (*Surface, error) {
	s := &Surface{}

	for _, child := range unit.Children {
		if child == nil || child.Type != solidity.KindContract {
			continue
		}
		if _, skip := f.ignored[child.Name]; skip {
			f.logger.Debug("skipping ignored contract", "contract", child.Name)
			continue
		}

		decl, err := solidity.Classify(child)
		if err != nil {
			return nil, err
		}
		contract := decl.(*solidity.Contract)
		contractIdx := s.AddObject(&ObjectRecord{
			Contract:    contract.Name,
			ObjectType:  solidity.KindContract,
			ObjectName:  contract.Name,
			Span:        contract.Span,
			Inheritance: contract.Bases,
		})

		for _, member := range contract.Members {
			if member == nil {
				continue
			}
			if member.Type == "StateVariableDeclaration" {
				for _, v := range member.Variables {
					s.AddParameter(newParameterRecord(v), contractIdx)
				}
				continue
			}
			if err := f.flattenMember(s, contract.Name, member); err != nil {
				var unsupported *solidity.UnsupportedDeclarationError
				if errors.As(err, &unsupported) {
					f.logger.Debug("skipping unsupported member", "contract", contract.Name, "type", unsupported.Type)
					continue
				}
				return nil, err
			}
		}
	}

	return s, nil
}

// flattenMember emits an object record for one contract member plus a
// parameter record per function argument, struct field or enum member.
func (f *Flattener) flattenMember(s *Surface, contractName string, member *solidity.Node) error {
	decl, err := solidity.Classify(member)
	if err != nil {
		return err
	}

	obj := &ObjectRecord{
		Contract:   contractName,
		ObjectType: member.Type,
		ObjectName: objectName(decl),
		Span:       decl.DeclSpan(),
	}

	var params []*solidity.Node
	switch d := decl.(type) {
	case *solidity.Function:
		obj.Visibility = d.Visibility
		obj.Modifiers = d.Modifiers
		params = d.Params
	case *solidity.Event:
		params = d.Params
	case *solidity.Modifier:
		params = d.Params
	case *solidity.Struct:
		params = d.Fields
	case *solidity.Enum:
		obj.EnumValues = memberNames(d.Members)
		params = d.Members
	case *solidity.Contract:
		// Nested contract definitions do not occur in Solidity; treat one
		// like any other unsupported member.
		return &solidity.UnsupportedDeclarationError{Type: member.Type}
	}

	idx := s.AddObject(obj)
	for _, p := range params {
		if p == nil {
			continue
		}
		s.AddParameter(newParameterRecord(p), idx)
	}
	return nil
}

func newParameterRecord(n *solidity.Node) *ParameterRecord {
	return &ParameterRecord{
		ParameterName: n.Name,
		LineNumber:    n.StartLine(),
		Visibility:    n.Visibility,
		ParameterType: solidity.RenderType(n),
		TypeCategory:  solidity.TypeCategory(n),
		InitialValue:  n.InitialValue.Literal(),
	}
}

// objectName resolves the record name of a declaration, substituting the
// sentinel for nameless delegator functions.
func objectName(decl solidity.Declaration) string {
	name := decl.DeclName()
	if _, isFunc := decl.(*solidity.Function); isFunc && name == "" {
		return NoNameFunc
	}
	return name
}

func memberNames(nodes []*solidity.Node) []string {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			names = append(names, n.Name)
		}
	}
	return names
}
