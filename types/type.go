// Package types implements the closed sum of property type descriptors the
// object store validates, serializes, and deserializes values through. Each
// descriptor is a Type value built by one of the constructor functions below;
// there is deliberately no descriptor interface per kind — a single struct
// with a Kind discriminant plays the role the teacher package gave to
// Syntax{OID, Validator} records, keeping one place to look for every rule.
package types

import "fmt"

// Kind is the closed sum of descriptor kinds from the spec.
type Kind string

const (
	Bool     Kind = "BOOL"
	Integer  Kind = "INTEGER"
	Positive Kind = "POSITIVE"
	Float    Kind = "FLOAT"
	Number   Kind = "NUMBER"
	String   Kind = "STRING"
	Line     Kind = "LINE"
	Email    Kind = "EMAIL"
	Password Kind = "PASSWORD"
	URL      Kind = "URL"
	HTML     Kind = "HTML"
	Markdown Kind = "MARKDOWN"
	RichText Kind = "RICHTEXT"
	Date     Kind = "DATE"
	Time     Kind = "TIME"
	DateTime Kind = "DATETIME"
	Binary   Kind = "BINARY"
	Any      Kind = "ANY"
	List     Kind = "LIST"
	Tuple    Kind = "TUPLE"
	OneOf    Kind = "ONE_OF"
	Map      Kind = "MAP"
	Enum     Kind = "ENUM"
	Ref      Kind = "REFERENCE"
	Range    Kind = "RANGE"
)

// Type is a validated, serializable property descriptor. The zero value is
// not a valid Type; build one with the constructor functions.
type Type struct {
	kind Kind

	// Elem is the element type for LIST and RANGE.
	elem *Type
	// Elems holds the member types for TUPLE and ONE_OF.
	elems []*Type
	// Fields holds the member types for MAP, keyed by field name.
	fields map[string]*Type
	// Labels holds the permitted values for ENUM.
	labels []string
	// Target holds the class name for REFERENCE.
	target string
	// Lo/Hi hold the inclusive bounds for RANGE, compared via elem.
	lo, hi any
}

// Kind returns the descriptor's kind tag.
func (t *Type) Kind() Kind { return t.kind }

// Target returns the class name of a REFERENCE descriptor.
func (t *Type) Target() string { return t.target }

func NewBool() *Type     { return &Type{kind: Bool} }
func NewInteger() *Type  { return &Type{kind: Integer} }
func NewPositive() *Type { return &Type{kind: Positive} }
func NewFloat() *Type    { return &Type{kind: Float} }
func NewNumber() *Type   { return &Type{kind: Number} }
func NewString() *Type   { return &Type{kind: String} }
func NewLine() *Type     { return &Type{kind: Line} }
func NewEmail() *Type    { return &Type{kind: Email} }
func NewPassword() *Type { return &Type{kind: Password} }
func NewURL() *Type      { return &Type{kind: URL} }
func NewHTML() *Type     { return &Type{kind: HTML} }
func NewMarkdown() *Type { return &Type{kind: Markdown} }
func NewRichText() *Type { return &Type{kind: RichText} }
func NewDate() *Type     { return &Type{kind: Date} }
func NewTime() *Type     { return &Type{kind: Time} }
func NewDateTime() *Type { return &Type{kind: DateTime} }
func NewBinary() *Type   { return &Type{kind: Binary} }
func NewAny() *Type      { return &Type{kind: Any} }

// NewList declares a LIST(elem) descriptor.
func NewList(elem *Type) *Type { return &Type{kind: List, elem: elem} }

// NewTuple declares a TUPLE(t1...tn) descriptor.
func NewTuple(elems ...*Type) *Type { return &Type{kind: Tuple, elems: elems} }

// NewOneOf declares a ONE_OF(t1...tn) descriptor.
func NewOneOf(elems ...*Type) *Type { return &Type{kind: OneOf, elems: elems} }

// NewMap declares a MAP(field -> t) descriptor.
func NewMap(fields map[string]*Type) *Type { return &Type{kind: Map, fields: fields} }

// NewEnum declares an ENUM(label1...labeln) descriptor. Comparisons against
// labels are case-sensitive per spec §4.1.
func NewEnum(labels ...string) *Type { return &Type{kind: Enum, labels: labels} }

// NewReference declares a REFERENCE(class) descriptor. Validate checks shape
// only ((class, oid) pair); it never probes existence.
func NewReference(class string) *Type { return &Type{kind: Ref, target: class} }

// NewRange declares a RANGE(lo, hi, t) descriptor with inclusive bounds.
func NewRange(lo, hi any, elem *Type) *Type {
	return &Type{kind: Range, lo: lo, hi: hi, elem: elem}
}

// Reference is the (class, oid) pair a REFERENCE-typed value validates to.
type Reference struct {
	Class string
	OID   string
}

func (r Reference) String() string { return fmt.Sprintf("%s/%s", r.Class, r.OID) }
