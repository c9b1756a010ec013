// Package schema holds the source-side description of declared types.
//
// A Container maps type names to declarations in registration order. It is
// filled either through the registration API (Struct, Enum), from a
// declarative schema file (Load), or by the Go source scanner.
package schema

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/elliotchance/orderedmap/v2"
)

var (
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrInvalidName          = errors.New("invalid identifier")
	ErrInvalidTypeExpr      = errors.New("invalid type expression")
)

// DeclKind tells records and tagged unions apart.
type DeclKind string

const (
	KindStruct DeclKind = "struct"
	KindEnum   DeclKind = "enum"
)

// TagKind is the discriminator of a Tag.
type TagKind string

const (
	TagPrimitive  TagKind = "primitive"
	TagFixedArray TagKind = "array"
	TagSequence   TagKind = "sequence"
	TagOption     TagKind = "option"
	TagMap        TagKind = "map"
	TagReference  TagKind = "reference"
)

// Tag is the type tag of a declared field as provided by the source.
// Name is set for primitives and references, Elem for arrays, sequences,
// options and map keys, Value for map values, Len for fixed arrays.
type Tag struct {
	Kind  TagKind
	Name  string
	Elem  *Tag
	Value *Tag
	Len   int
}

// FieldDecl is a struct field or an enum variant. Type is nil for unit variants.
type FieldDecl struct {
	Name string
	Type *Tag
}

// Declaration is one declared type.
type Declaration struct {
	Name   string
	Kind   DeclKind
	Fields []FieldDecl
}

func Prim(name string) Tag { return Tag{Kind: TagPrimitive, Name: name} }

func Array(elem Tag, n int) Tag { return Tag{Kind: TagFixedArray, Elem: &elem, Len: n} }

func Vec(elem Tag) Tag { return Tag{Kind: TagSequence, Elem: &elem} }

func Opt(inner Tag) Tag { return Tag{Kind: TagOption, Elem: &inner} }

func MapOf(key, value Tag) Tag { return Tag{Kind: TagMap, Elem: &key, Value: &value} }

func Ref(name string) Tag { return Tag{Kind: TagReference, Name: name} }

// Field declares a struct field.
func Field(name string, t Tag) FieldDecl { return FieldDecl{Name: name, Type: &t} }

// Variant declares an enum variant carrying a payload.
func Variant(name string, t Tag) FieldDecl { return FieldDecl{Name: name, Type: &t} }

// UnitVariant declares an enum variant without payload.
func UnitVariant(name string) FieldDecl { return FieldDecl{Name: name} }

// Container is an ordered set of declarations keyed by type name.
type Container struct {
	decls *orderedmap.OrderedMap[string, *Declaration]
}

func NewContainer() *Container {
	return &Container{decls: orderedmap.NewOrderedMap[string, *Declaration]()}
}

// IsName reports whether name is a valid type or member name. Go keywords
// such as type or range are ordinary names on the wire and are accepted.
func IsName(name string) bool {
	return token.IsIdentifier(name) || token.Lookup(name).IsKeyword()
}

// Add registers a declaration. Names must be unique identifiers.
func (c *Container) Add(d Declaration) error {
	if !IsName(d.Name) {
		return fmt.Errorf("%w: type name %q", ErrInvalidName, d.Name)
	}
	for _, f := range d.Fields {
		if !IsName(f.Name) {
			return fmt.Errorf("%w: %s member %q", ErrInvalidName, d.Name, f.Name)
		}
	}
	if _, exists := c.decls.Get(d.Name); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, d.Name)
	}
	c.decls.Set(d.Name, &d)
	return nil
}

// Struct registers a record type.
func (c *Container) Struct(name string, fields ...FieldDecl) error {
	return c.Add(Declaration{Name: name, Kind: KindStruct, Fields: fields})
}

// Enum registers a tagged union; each variant is one alternative.
func (c *Container) Enum(name string, variants ...FieldDecl) error {
	return c.Add(Declaration{Name: name, Kind: KindEnum, Fields: variants})
}

func (c *Container) Lookup(name string) (*Declaration, bool) {
	return c.decls.Get(name)
}

// Names returns the declared type names in registration order.
func (c *Container) Names() []string {
	names := make([]string, 0, c.decls.Len())
	for el := c.decls.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

func (c *Container) Len() int { return c.decls.Len() }
