package typescript

import (
	"fmt"

	"github.com/Alia5/borshgen/internal/codegen/layout"
)

// publicKeyHackType makes borsh dispatch to readPublicKeyHack/writePublicKeyHack,
// which the preamble installs on the reader/writer prototypes.
const publicKeyHackType = "publicKeyHack"

// primitiveToTS maps a primitive to the borsh schema type string.
func primitiveToTS(p layout.PrimitiveName, cfg Config) string {
	switch p {
	case layout.Bool:
		// same single byte on the wire
		return "'u8'"
	case layout.PublicKey:
		if cfg.PublicKeyHack {
			return "'" + publicKeyHackType + "'"
		}
		return "[32]"
	default:
		return "'" + string(p) + "'"
	}
}

// descriptorToTS renders a field type in the borsh schema vocabulary.
func descriptorToTS(d layout.Descriptor, cfg Config) string {
	switch t := d.(type) {
	case layout.Primitive:
		return primitiveToTS(t.Name, cfg)
	case layout.FixedArray:
		if p, ok := t.Elem.(layout.Primitive); ok && p.Name == layout.U8 {
			return fmt.Sprintf("[%d]", t.Len)
		}
		return fmt.Sprintf("[%s, %d]", descriptorToTS(t.Elem, cfg), t.Len)
	case layout.Sequence:
		return "[" + descriptorToTS(t.Elem, cfg) + "]"
	case layout.Option:
		return "{ kind: 'option', type: " + descriptorToTS(t.Inner, cfg) + " }"
	case layout.Map:
		return "{ kind: 'map', key: " + descriptorToTS(t.Key, cfg) + ", value: " + descriptorToTS(t.Value, cfg) + " }"
	case layout.TypeRef:
		return t.Name
	default:
		panic(fmt.Sprintf("typescript: unhandled descriptor %T", d))
	}
}

// collectRefs appends every referenced type name in d.
func collectRefs(d layout.Descriptor, out []string) []string {
	switch t := d.(type) {
	case layout.FixedArray:
		return collectRefs(t.Elem, out)
	case layout.Sequence:
		return collectRefs(t.Elem, out)
	case layout.Option:
		return collectRefs(t.Inner, out)
	case layout.Map:
		return collectRefs(t.Value, collectRefs(t.Key, out))
	case layout.TypeRef:
		return append(out, t.Name)
	default:
		return out
	}
}
