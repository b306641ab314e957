package xmlschema

import (
	"math/big"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindRational
	kindBool
	kindNested
	kindRepeated
	kindOpaque
)

func (k kind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindInt:
		return "integer"
	case kindRational:
		return "rational"
	case kindBool:
		return "boolean"
	case kindNested:
		return "element"
	case kindRepeated:
		return "repeated element"
	default:
		return "element"
	}
}

// Rule describes how a single child tag is matched and coerced.
type Rule struct {
	kind   kind
	nested Schema
}

// Schema maps expected child tags to their rules.
type Schema map[string]Rule

// String coerces the child text verbatim.
func String() Rule { return Rule{kind: kindString} }

// Int coerces the child text to a base-10 integer.
func Int() Rule { return Rule{kind: kindInt} }

// Rational coerces the child text to an exact rational (e.g. "24", "30000/1001", "29.97").
func Rational() Rule { return Rule{kind: kindRational} }

// Bool coerces the literal tokens TRUE and FALSE.
func Bool() Rule { return Rule{kind: kindBool} }

// Nested validates the child against another schema.
func Nested(schema Schema) Rule { return Rule{kind: kindNested, nested: schema} }

// Repeated validates every matching child against schema, keeping order.
func Repeated(schema Schema) Rule { return Rule{kind: kindRepeated, nested: schema} }

// Opaque passes the child element through without coercion.
func Opaque() Rule { return Rule{kind: kindOpaque} }

func (r Rule) required() bool {
	return r.kind != kindRepeated && r.kind != kindOpaque
}

// ParseBool applies the xmeml boolean convention: only TRUE and FALSE are valid.
func ParseBool(value string) (bool, error) {
	switch value {
	case "TRUE":
		return true, nil
	case "FALSE":
		return false, nil
	default:
		return false, errBoolLiteral
	}
}

// FormatBool renders a boolean the way ParseBool reads it.
func FormatBool(value bool) string {
	if value {
		return "TRUE"
	}
	return "FALSE"
}

func parseRational(value string) (*big.Rat, bool) {
	return new(big.Rat).SetString(value)
}
