package layout

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/stoewer/go-strcase"

	"github.com/Alia5/borshgen/internal/codegen/schema"
)

var (
	ErrUnresolvedReference  = errors.New("unresolved reference")
	ErrMalformedUnion       = errors.New("malformed union")
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
	ErrDuplicateField       = errors.New("duplicate field")
	ErrMissingType          = errors.New("missing field type")
)

// Source resolves type names to declarations. *schema.Container implements it.
type Source interface {
	Lookup(name string) (*schema.Declaration, bool)
}

type builder struct {
	src   Source
	out   *orderedmap.OrderedMap[string, *Layout]
	synth map[string]*Layout
}

// Build resolves every type reachable from roots and returns one layout per
// distinct name, in encounter order: a type precedes the types it references.
// With no roots and a *schema.Container source, all declarations are roots.
func Build(src Source, roots ...string) ([]Layout, error) {
	if len(roots) == 0 {
		if c, ok := src.(*schema.Container); ok {
			roots = c.Names()
		}
	}
	b := &builder{
		src:   src,
		out:   orderedmap.NewOrderedMap[string, *Layout](),
		synth: make(map[string]*Layout),
	}
	for _, root := range roots {
		if _, ok := src.Lookup(root); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, root)
		}
		if err := b.resolve(root); err != nil {
			return nil, err
		}
	}

	layouts := make([]Layout, 0, b.out.Len())
	for el := b.out.Front(); el != nil; el = el.Next() {
		layouts = append(layouts, *el.Value)
	}
	return layouts, nil
}

func (b *builder) resolve(name string) error {
	if _, done := b.out.Get(name); done {
		return nil
	}
	if l, ok := b.synth[name]; ok {
		b.out.Set(name, l)
		return nil
	}
	decl, ok := b.src.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnresolvedReference, name)
	}

	l := &Layout{Name: decl.Name}
	switch decl.Kind {
	case schema.KindStruct:
		l.Kind = Record
	case schema.KindEnum:
		l.Kind = TaggedUnion
		if len(decl.Fields) == 0 {
			return fmt.Errorf("%w: %s has no variants", ErrMalformedUnion, name)
		}
	default:
		return fmt.Errorf("type %s: unknown declaration kind %q", name, decl.Kind)
	}
	// registered before descending so that mutually referencing types terminate
	b.out.Set(name, l)

	var refs []string
	seen := make(map[string]bool, len(decl.Fields))
	for _, f := range decl.Fields {
		if seen[f.Name] {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateField, name, f.Name)
		}
		seen[f.Name] = true

		if f.Type == nil {
			if l.Kind != TaggedUnion {
				return fmt.Errorf("%w: %s.%s", ErrMissingType, name, f.Name)
			}
			unit, err := b.unitVariant(name, f.Name)
			if err != nil {
				return err
			}
			l.Fields = append(l.Fields, Field{Name: f.Name, Type: TypeRef{Name: unit}})
			refs = append(refs, unit)
			continue
		}

		d, err := b.descriptor(*f.Type, &refs)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, f.Name, err)
		}
		l.Fields = append(l.Fields, Field{Name: f.Name, Type: d})
	}

	for _, ref := range refs {
		if err := b.resolve(ref); err != nil {
			return err
		}
	}
	return nil
}

// unitVariant synthesizes the empty record that stands for a payload-less
// variant, named <Union><Variant>.
func (b *builder) unitVariant(union, variant string) (string, error) {
	name := union + strcase.UpperCamelCase(variant)
	if _, declared := b.src.Lookup(name); declared {
		return "", fmt.Errorf("%w: unit variant %s.%s needs type name %s", schema.ErrDuplicateDeclaration, union, variant, name)
	}
	b.synth[name] = &Layout{Name: name, Kind: Record}
	return name, nil
}

func (b *builder) descriptor(t schema.Tag, refs *[]string) (Descriptor, error) {
	switch t.Kind {
	case schema.TagPrimitive:
		p := PrimitiveName(t.Name)
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedPrimitive, t.Name)
		}
		return Primitive{Name: p}, nil
	case schema.TagFixedArray:
		if t.Len < 0 {
			return nil, fmt.Errorf("negative array length %d", t.Len)
		}
		elem, err := b.inner(t.Elem, refs)
		if err != nil {
			return nil, err
		}
		return FixedArray{Elem: elem, Len: t.Len}, nil
	case schema.TagSequence:
		elem, err := b.inner(t.Elem, refs)
		if err != nil {
			return nil, err
		}
		return Sequence{Elem: elem}, nil
	case schema.TagOption:
		inner, err := b.inner(t.Elem, refs)
		if err != nil {
			return nil, err
		}
		return Option{Inner: inner}, nil
	case schema.TagMap:
		key, err := b.inner(t.Elem, refs)
		if err != nil {
			return nil, err
		}
		value, err := b.inner(t.Value, refs)
		if err != nil {
			return nil, err
		}
		return Map{Key: key, Value: value}, nil
	case schema.TagReference:
		// only declared types; synthesized unit records are not addressable
		if _, ok := b.src.Lookup(t.Name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, t.Name)
		}
		*refs = append(*refs, t.Name)
		return TypeRef{Name: t.Name}, nil
	default:
		return nil, fmt.Errorf("unknown type tag %q", t.Kind)
	}
}

func (b *builder) inner(t *schema.Tag, refs *[]string) (Descriptor, error) {
	if t == nil {
		return nil, ErrMissingType
	}
	return b.descriptor(*t, refs)
}
