// Package xmlschema validates XML element trees against small declarative
// schemas and returns typed records.
//
// A Schema maps child tags to rules. Scalar rules (String, Int, Rational,
// Bool) coerce the child's text. Nested rules recurse into the child and
// Repeated rules collect every matching child in document order. Opaque rules
// hand back the raw element for a later, context dependent Parse call.
//
// Scalar and nested keys are required and must appear exactly once. Repeated
// and opaque keys are optional. Violations are reported as *SchemaError values
// that carry the element path and a short rendering of the offending node.
package xmlschema
