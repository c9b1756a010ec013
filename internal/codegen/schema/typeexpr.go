package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// primitiveAliases maps accepted spellings to canonical primitive names.
// Scalars without a fixed encoding (float, platform-sized ints) are kept as
// primitives so that layout construction can reject them by name.
var primitiveAliases = map[string]string{
	"u8":     "u8",
	"uint8":  "u8",
	"byte":   "u8",
	"u16":    "u16",
	"uint16": "u16",
	"u32":    "u32",
	"uint32": "u32",
	"u64":    "u64",
	"uint64": "u64",
	"u128":   "u128",
	"i8":     "i8",
	"int8":   "i8",
	"i16":    "i16",
	"int16":  "i16",
	"i32":    "i32",
	"int32":  "i32",
	"rune":   "i32",
	"i64":    "i64",
	"int64":  "i64",
	"i128":   "i128",
	"bool":   "bool",
	"string": "string",

	"pubkey":    "pubkey",
	"Pubkey":    "pubkey",
	"PublicKey": "pubkey",

	"f32":        "f32",
	"float32":    "f32",
	"f64":        "f64",
	"float64":    "f64",
	"int":        "int",
	"uint":       "uint",
	"uintptr":    "uintptr",
	"complex64":  "complex64",
	"complex128": "complex128",
}

// ParseTypeExpr parses a Go-flavoured type expression such as "u32",
// "[32]u8", "[]Item", "*string" or "map[string]u64".
func ParseTypeExpr(s string) (Tag, error) {
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return Tag{}, fmt.Errorf("%w %q: %v", ErrInvalidTypeExpr, s, err)
	}
	t, err := TagFromExpr(expr)
	if err != nil {
		return Tag{}, fmt.Errorf("%q: %w", s, err)
	}
	return t, nil
}

// TagFromExpr converts a parsed Go type expression into a Tag.
// Pointers are options, slices are sequences, sized arrays are fixed arrays.
func TagFromExpr(expr ast.Expr) (Tag, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		return identTag(t.Name), nil
	case *ast.SelectorExpr:
		// qualified names only keep the type part
		return identTag(t.Sel.Name), nil
	case *ast.ParenExpr:
		return TagFromExpr(t.X)
	case *ast.StarExpr:
		inner, err := TagFromExpr(t.X)
		if err != nil {
			return Tag{}, err
		}
		return Opt(inner), nil
	case *ast.ArrayType:
		elem, err := TagFromExpr(t.Elt)
		if err != nil {
			return Tag{}, err
		}
		if t.Len == nil {
			return Vec(elem), nil
		}
		n, err := arrayLen(t.Len)
		if err != nil {
			return Tag{}, err
		}
		return Array(elem, n), nil
	case *ast.MapType:
		key, err := TagFromExpr(t.Key)
		if err != nil {
			return Tag{}, err
		}
		value, err := TagFromExpr(t.Value)
		if err != nil {
			return Tag{}, err
		}
		return MapOf(key, value), nil
	default:
		return Tag{}, fmt.Errorf("%w: unsupported expression %T", ErrInvalidTypeExpr, expr)
	}
}

func identTag(name string) Tag {
	if canonical, ok := primitiveAliases[name]; ok {
		return Prim(canonical)
	}
	return Ref(name)
}

func arrayLen(expr ast.Expr) (int, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, fmt.Errorf("%w: array length must be an integer literal", ErrInvalidTypeExpr)
	}
	n, err := strconv.ParseInt(lit.Value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: array length %s: %v", ErrInvalidTypeExpr, lit.Value, err)
	}
	return int(n), nil
}

// IsEmptyStruct reports whether expr is the literal type struct{}.
func IsEmptyStruct(expr ast.Expr) bool {
	st, ok := expr.(*ast.StructType)
	return ok && (st.Fields == nil || len(st.Fields.List) == 0)
}

// String renders the tag back into type-expression notation.
func (t Tag) String() string {
	switch t.Kind {
	case TagPrimitive, TagReference:
		return t.Name
	case TagFixedArray:
		return "[" + strconv.Itoa(t.Len) + "]" + t.Elem.String()
	case TagSequence:
		return "[]" + t.Elem.String()
	case TagOption:
		return "*" + t.Elem.String()
	case TagMap:
		return "map[" + t.Elem.String() + "]" + t.Value.String()
	default:
		return "<" + string(t.Kind) + ">"
	}
}
