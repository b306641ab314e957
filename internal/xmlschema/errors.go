package xmlschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrSchemaViolation marks a document that does not match its schema.
var ErrSchemaViolation = errors.New("schema violation")

var errBoolLiteral = errors.New("value must be 'TRUE' or 'FALSE'")

// SchemaError describes where a document diverged from its schema.
type SchemaError struct {
	// Path is the element path of the offending node, e.g. /xmeml/sequence/rate.
	Path     string
	Message  string
	Expected string
	Actual   string
	// Excerpt is a short rendering of the offending node.
	Excerpt string
	Err     error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(ErrSchemaViolation.Error())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", orDash(e.Expected), orDash(e.Actual))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrSchemaViolation and the underlying cause.
func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchemaViolation, e.Err}
	}
	return []error{ErrSchemaViolation}
}

// Violation builds a SchemaError for node. Callers outside this package use it
// for checks the declarative schema cannot express, such as attributes.
func Violation(node *etree.Element, message, expected, actual string) *SchemaError {
	return &SchemaError{
		Path:     elementPath(node),
		Message:  message,
		Expected: expected,
		Actual:   actual,
		Excerpt:  Excerpt(node, 3),
	}
}

func coercionError(node *etree.Element, k kind, text string, cause error) *SchemaError {
	err := Violation(node, fmt.Sprintf("invalid value in '%s'", node.Tag), k.String(), fmt.Sprintf("%q", text))
	err.Err = cause
	return err
}

// Excerpt renders node and up to depth levels of descendants.
func Excerpt(node *etree.Element, depth int) string {
	if node == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(truncate(node, depth))
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "<" + node.Tag + ">"
	}
	return strings.TrimSpace(out)
}

func truncate(node *etree.Element, depth int) *etree.Element {
	out := etree.NewElement(node.Tag)
	for _, attr := range node.Attr {
		out.CreateAttr(attr.FullKey(), attr.Value)
	}
	children := node.ChildElements()
	if len(children) == 0 {
		if text := strings.TrimSpace(node.Text()); text != "" {
			out.SetText(text)
		}
		return out
	}
	if depth <= 0 {
		out.CreateComment(fmt.Sprintf(" %d child elements ", len(children)))
		return out
	}
	for _, child := range children {
		out.AddChild(truncate(child, depth-1))
	}
	return out
}

func elementPath(node *etree.Element) string {
	if node == nil {
		return ""
	}
	return node.GetPath()
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
