package xmlschema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Parse validates node's children against schema.
func Parse(node *etree.Element, schema Schema) (*Record, error) {
	if node == nil {
		return nil, &SchemaError{Message: "missing element"}
	}

	rec := newRecord(node)
	for key, rule := range schema {
		if rule.kind == kindRepeated {
			rec.lists[key] = []*Record{}
		}
	}

	seen := make(map[string]int, len(schema))
	for _, child := range node.ChildElements() {
		rule, ok := schema[child.Tag]
		if !ok {
			continue
		}
		seen[child.Tag]++
		if rule.kind != kindRepeated && seen[child.Tag] > 1 {
			return nil, Violation(child,
				fmt.Sprintf("duplicate '%s' tag in '%s'", child.Tag, node.Tag),
				"exactly one", strconv.Itoa(seen[child.Tag]))
		}
		if err := rec.match(child, rule); err != nil {
			return nil, err
		}
	}

	for _, key := range sortedKeys(schema) {
		if schema[key].required() && seen[key] == 0 {
			return nil, Violation(node,
				fmt.Sprintf("'%s' tag not found in '%s'", key, node.Tag),
				fmt.Sprintf("<%s> (%s)", key, schema[key].kind), "nothing")
		}
	}
	return rec, nil
}

func (r *Record) match(child *etree.Element, rule Rule) error {
	tag := child.Tag
	text := strings.TrimSpace(child.Text())

	switch rule.kind {
	case kindString:
		r.strings[tag] = text
	case kindInt:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return coercionError(child, rule.kind, text, err)
		}
		r.ints[tag] = value
	case kindRational:
		value, ok := parseRational(text)
		if !ok {
			return coercionError(child, rule.kind, text, nil)
		}
		r.rationals[tag] = value
	case kindBool:
		value, err := ParseBool(text)
		if err != nil {
			return coercionError(child, rule.kind, text, err)
		}
		r.bools[tag] = value
	case kindNested:
		nested, err := Parse(child, rule.nested)
		if err != nil {
			return err
		}
		r.records[tag] = nested
	case kindRepeated:
		nested, err := Parse(child, rule.nested)
		if err != nil {
			return err
		}
		r.lists[tag] = append(r.lists[tag], nested)
	case kindOpaque:
		r.nodes[tag] = child
	}
	return nil
}

// CheckRoot asserts the document root tag and the tag of its first child
// element, returning that child.
func CheckRoot(doc *etree.Document, rootTag, firstChildTag string) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, &SchemaError{Message: "document has no root element", Expected: "<" + rootTag + ">", Actual: "nothing"}
	}
	if root.Tag != rootTag {
		return nil, Violation(root, "unexpected root element", "<"+rootTag+">", "<"+root.Tag+">")
	}
	children := root.ChildElements()
	if len(children) == 0 {
		return nil, Violation(root, fmt.Sprintf("'%s' has no child elements", rootTag), "<"+firstChildTag+">", "nothing")
	}
	first := children[0]
	if first.Tag != firstChildTag {
		return nil, Violation(first, fmt.Sprintf("unexpected first child of '%s'", rootTag), "<"+firstChildTag+">", "<"+first.Tag+">")
	}
	return first, nil
}

func sortedKeys(schema Schema) []string {
	keys := make([]string, 0, len(schema))
	for key := range schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
