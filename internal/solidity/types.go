package solidity

import (
	"regexp"
	"strings"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// ref resolves a type reference to a display name: the declared name, the
// name path for user-defined types, or the synthesized `type:<kind>`
// placeholder when neither is present.
func (t *TypeName) ref() string {
	if t == nil {
		return "type:?"
	}
	if t.Name != "" {
		return t.Name
	}
	if t.NamePath != "" {
		return t.NamePath
	}
	kind := t.Type
	if kind == "" {
		kind = "?"
	}
	return "type:" + kind
}

// RenderType renders the declared type of a parameter or variable node.
//
// Mappings render as `mapping (K => V)`, arrays as
// `<base>[<length>] <storageLocation>` with empty parts omitted and trailing
// whitespace trimmed, and everything else as its resolved name. A node with
// no type information renders as an empty string.
func RenderType(n *Node) string {
	if n == nil || n.TypeName == nil {
		return ""
	}
	t := n.TypeName
	switch t.Type {
	case "Mapping":
		return "mapping (" + t.KeyType.ref() + " => " + t.ValueType.ref() + ")"
	case "ArrayTypeName":
		length := ""
		if t.Length != nil {
			length = t.Length.Literal()
		}
		return strings.TrimSpace(t.BaseTypeName.ref() + "[" + length + "] " + n.StorageLocation)
	default:
		return t.ref()
	}
}

// TypeCategory buckets a node's declared type: mappings become "map",
// non-elementary type kinds drop their "TypeName" suffix ("ArrayTypeName"
// becomes "array", "UserDefinedTypeName" becomes "userdefined"), and
// elementary types reduce to their name with any size suffix stripped
// ("uint8" becomes "uint").
func TypeCategory(n *Node) string {
	if n == nil || n.TypeName == nil {
		return ""
	}
	t := n.TypeName
	var category string
	switch {
	case t.Type == "Mapping":
		category = "map"
	case strings.Contains(t.Type, "TypeName") && !strings.Contains(t.Type, "Elementary"):
		category = strings.ToLower(strings.TrimSuffix(t.Type, "TypeName"))
	default:
		category = t.ref()
	}
	return digitsPattern.ReplaceAllString(category, "")
}
