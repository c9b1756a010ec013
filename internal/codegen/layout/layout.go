// Package layout turns schema declarations into normalized, order-preserving
// type layouts that the emitters render.
package layout

import (
	"strconv"
)

// Kind of a declared type.
type Kind int

const (
	Record Kind = iota
	TaggedUnion
)

func (k Kind) String() string {
	if k == TaggedUnion {
		return "enum"
	}
	return "struct"
}

// PrimitiveName is the canonical name of a scalar with a fixed wire form.
type PrimitiveName string

const (
	U8        PrimitiveName = "u8"
	U16       PrimitiveName = "u16"
	U32       PrimitiveName = "u32"
	U64       PrimitiveName = "u64"
	U128      PrimitiveName = "u128"
	I8        PrimitiveName = "i8"
	I16       PrimitiveName = "i16"
	I32       PrimitiveName = "i32"
	I64       PrimitiveName = "i64"
	I128      PrimitiveName = "i128"
	Bool      PrimitiveName = "bool"
	String    PrimitiveName = "string"
	PublicKey PrimitiveName = "pubkey" // 32-byte identifier
)

var primitives = map[PrimitiveName]bool{
	U8: true, U16: true, U32: true, U64: true, U128: true,
	I8: true, I16: true, I32: true, I64: true, I128: true,
	Bool: true, String: true, PublicKey: true,
}

func (p PrimitiveName) Valid() bool { return primitives[p] }

// Descriptor describes the type of one field. The set of implementations is
// closed: Primitive, FixedArray, Sequence, Option, Map and TypeRef.
type Descriptor interface {
	String() string
	descriptor()
}

type Primitive struct {
	Name PrimitiveName
}

// FixedArray is exactly Len elements with no length prefix.
type FixedArray struct {
	Elem Descriptor
	Len  int
}

// Sequence is a length-prefixed list.
type Sequence struct {
	Elem Descriptor
}

// Option is a presence flag followed by Inner when present.
type Option struct {
	Inner Descriptor
}

// Map is a length-prefixed list of key/value pairs.
type Map struct {
	Key   Descriptor
	Value Descriptor
}

// TypeRef names another layout. It does not own the referenced layout.
type TypeRef struct {
	Name string
}

func (Primitive) descriptor()  {}
func (FixedArray) descriptor() {}
func (Sequence) descriptor()   {}
func (Option) descriptor()     {}
func (Map) descriptor()        {}
func (TypeRef) descriptor()    {}

func (p Primitive) String() string  { return string(p.Name) }
func (a FixedArray) String() string { return "[" + strconv.Itoa(a.Len) + "]" + a.Elem.String() }
func (s Sequence) String() string   { return "[]" + s.Elem.String() }
func (o Option) String() string     { return "*" + o.Inner.String() }
func (m Map) String() string        { return "map[" + m.Key.String() + "]" + m.Value.String() }
func (r TypeRef) String() string    { return r.Name }

// Field is one named member. For a TaggedUnion each field is a variant.
type Field struct {
	Name string
	Type Descriptor
}

// Layout is the normalized description of one declared type. Field order is
// wire order.
type Layout struct {
	Name   string
	Kind   Kind
	Fields []Field
}
