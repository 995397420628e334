package solidity

import "fmt"

// Declaration kinds supported by the extraction pipeline. The values match
// the node type strings on the wire.
const (
	KindContract = "ContractDefinition"
	KindEvent    = "EventDefinition"
	KindModifier = "ModifierDefinition"
	KindFunction = "FunctionDefinition"
	KindStruct   = "StructDefinition"
	KindEnum     = "EnumDefinition"
)

// UnsupportedDeclarationError reports a node whose type is not one of the
// six supported declaration kinds.
type UnsupportedDeclarationError struct {
	Type string
}

func (e *UnsupportedDeclarationError) Error() string {
	return fmt.Sprintf("declaration type %q is not supported", e.Type)
}

// Span is the inclusive start/end line range of a declaration.
type Span struct {
	Start int
	End   int
}

// Declaration is the classified view of a raw node: exactly one variant per
// supported kind, each carrying only the fields that apply to it.
type Declaration interface {
	// DeclName is the declared name, which may be empty for fallback
	// functions.
	DeclName() string
	// DeclSpan is the source line span of the declaration.
	DeclSpan() Span
	decl()
}

// Contract is a contract, interface or library definition.
type Contract struct {
	Name    string
	Span    Span
	Bases   []string
	Members []*Node
}

// Function is a function or constructor definition.
type Function struct {
	Name       string
	Span       Span
	Visibility string
	Modifiers  []string
	Params     []*Node
}

// Event is an event definition.
type Event struct {
	Name   string
	Span   Span
	Params []*Node
}

// Modifier is a modifier definition.
type Modifier struct {
	Name   string
	Span   Span
	Params []*Node
}

// Struct is a struct definition; Fields are its variable declarations.
type Struct struct {
	Name   string
	Span   Span
	Fields []*Node
}

// Enum is an enum definition; Members are its value nodes.
type Enum struct {
	Name    string
	Span    Span
	Members []*Node
}

func (c *Contract) DeclName() string { return c.Name }
func (f *Function) DeclName() string { return f.Name }
func (e *Event) DeclName() string    { return e.Name }
func (m *Modifier) DeclName() string { return m.Name }
func (s *Struct) DeclName() string   { return s.Name }
func (e *Enum) DeclName() string     { return e.Name }

func (c *Contract) DeclSpan() Span { return c.Span }
func (f *Function) DeclSpan() Span { return f.Span }
func (e *Event) DeclSpan() Span    { return e.Span }
func (m *Modifier) DeclSpan() Span { return m.Span }
func (s *Struct) DeclSpan() Span   { return s.Span }
func (e *Enum) DeclSpan() Span     { return e.Span }

func (*Contract) decl() {}
func (*Function) decl() {}
func (*Event) decl()    {}
func (*Modifier) decl() {}
func (*Struct) decl()   {}
func (*Enum) decl()     {}

// Classify maps a raw node onto its declaration variant. Nodes outside the
// supported set yield an UnsupportedDeclarationError, which callers treat as
// a skip signal rather than a failure.
func Classify(n *Node) (Declaration, error) {
	span := nodeSpan(n)
	switch n.Type {
	case KindContract:
		bases := make([]string, 0, len(n.BaseContracts))
		for _, b := range n.BaseContracts {
			if b != nil {
				bases = append(bases, b.BaseName.NamePath)
			}
		}
		return &Contract{Name: n.Name, Span: span, Bases: bases, Members: n.SubNodes}, nil
	case KindFunction:
		mods := make([]string, 0, len(n.Modifiers))
		for _, m := range n.Modifiers {
			if m != nil {
				mods = append(mods, m.Name)
			}
		}
		return &Function{Name: n.Name, Span: span, Visibility: n.Visibility, Modifiers: mods, Params: n.Parameters}, nil
	case KindEvent:
		return &Event{Name: n.Name, Span: span, Params: n.Parameters}, nil
	case KindModifier:
		return &Modifier{Name: n.Name, Span: span, Params: n.Parameters}, nil
	case KindStruct:
		return &Struct{Name: n.Name, Span: span, Fields: n.Members}, nil
	case KindEnum:
		return &Enum{Name: n.Name, Span: span, Members: n.Members}, nil
	default:
		return nil, &UnsupportedDeclarationError{Type: n.Type}
	}
}

func nodeSpan(n *Node) Span {
	if n.Loc == nil {
		return Span{}
	}
	return Span{Start: n.Loc.Start.Line, End: n.Loc.End.Line}
}

// StartLine returns the first line of a node, or 0 when no location was
// recorded.
func (n *Node) StartLine() int {
	if n.Loc == nil {
		return 0
	}
	return n.Loc.Start.Line
}
