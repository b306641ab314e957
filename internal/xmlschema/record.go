package xmlschema

import (
	"math/big"

	"github.com/beevik/etree"
)

// Record is the typed result of validating one element.
type Record struct {
	node *etree.Element

	strings   map[string]string
	ints      map[string]int64
	rationals map[string]*big.Rat
	bools     map[string]bool
	records   map[string]*Record
	lists     map[string][]*Record
	nodes     map[string]*etree.Element
}

func newRecord(node *etree.Element) *Record {
	return &Record{
		node:      node,
		strings:   map[string]string{},
		ints:      map[string]int64{},
		rationals: map[string]*big.Rat{},
		bools:     map[string]bool{},
		records:   map[string]*Record{},
		lists:     map[string][]*Record{},
		nodes:     map[string]*etree.Element{},
	}
}

// Element returns the element the record was built from.
func (r *Record) Element() *etree.Element { return r.node }

// String returns a String() field; missing keys yield "".
func (r *Record) String(key string) string { return r.strings[key] }

// Int returns an Int() field.
func (r *Record) Int(key string) int64 { return r.ints[key] }

// Rat returns a Rational() field, or nil when absent.
func (r *Record) Rat(key string) *big.Rat {
	if v, ok := r.rationals[key]; ok {
		return new(big.Rat).Set(v)
	}
	return nil
}

// Bool returns a Bool() field.
func (r *Record) Bool(key string) bool { return r.bools[key] }

// Record returns a Nested() field, or nil when absent.
func (r *Record) Record(key string) *Record { return r.records[key] }

// List returns a Repeated() field in document order.
func (r *Record) List(key string) []*Record { return r.lists[key] }

// Node returns an Opaque() field, or nil when the child was not present.
func (r *Record) Node(key string) *etree.Element { return r.nodes[key] }

// Has reports whether key was matched. Repeated keys are always present.
func (r *Record) Has(key string) bool {
	if _, ok := r.strings[key]; ok {
		return true
	}
	if _, ok := r.ints[key]; ok {
		return true
	}
	if _, ok := r.rationals[key]; ok {
		return true
	}
	if _, ok := r.bools[key]; ok {
		return true
	}
	if _, ok := r.records[key]; ok {
		return true
	}
	if _, ok := r.lists[key]; ok {
		return true
	}
	_, ok := r.nodes[key]
	return ok
}
