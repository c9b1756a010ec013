package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/stoewer/go-strcase"

	"github.com/Alia5/borshgen/internal/codegen/schema"
)

// enumDirective marks a struct whose fields are the variants of a tagged union:
//
//	//borsh:enum
//	type Instruction struct {
//		Init     *InitArgs
//		Transfer *u64
//		Close    struct{}
//	}
const enumDirective = "borsh:enum"

// ScanPackage scans every non-test Go file of a directory, in file name
// order, and registers each struct type it finds.
func ScanPackage(fs afero.Fs, pkgPath string) (*schema.Container, error) {
	entries, err := afero.ReadDir(fs, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", pkgPath, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(pkgPath, name))
	}
	sort.Strings(files)

	c := schema.NewContainer()
	fset := token.NewFileSet()
	for _, file := range files {
		src, err := afero.ReadFile(fs, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		if err := ScanSource(c, fset, file, src); err != nil {
			return nil, fmt.Errorf("scan %s: %w", file, err)
		}
	}
	return c, nil
}

// ScanSource parses one Go file and adds its struct types to c in declaration order.
func ScanSource(c *schema.Container, fset *token.FileSet, filename string, src []byte) error {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.TypeParams != nil {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			isEnum := hasDirective(typeSpec.Doc) || (len(genDecl.Specs) == 1 && hasDirective(genDecl.Doc))
			d, err := declaration(typeSpec.Name.Name, structType, isEnum)
			if err != nil {
				return err
			}
			if err := c.Add(d); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, comment := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
		if text == enumDirective {
			return true
		}
	}
	return false
}

func declaration(name string, structType *ast.StructType, isEnum bool) (schema.Declaration, error) {
	d := schema.Declaration{Name: name, Kind: schema.KindStruct}
	if isEnum {
		d.Kind = schema.KindEnum
	}

	for _, field := range structType.Fields.List {
		// embedded fields carry no name of their own
		if len(field.Names) == 0 {
			continue
		}

		key, typeExpr, skip := parseBorshTag(field.Tag)
		if skip {
			continue
		}

		for _, ident := range field.Names {
			if !ident.IsExported() {
				continue
			}

			fd := schema.FieldDecl{Name: key}
			if fd.Name == "" {
				fd.Name = strcase.LowerCamelCase(ident.Name)
				if isEnum {
					fd.Name = ident.Name
				}
			}

			tag, err := fieldTag(field.Type, typeExpr, isEnum)
			if err != nil {
				return d, fmt.Errorf("type %s field %s: %w", name, ident.Name, err)
			}
			fd.Type = tag
			d.Fields = append(d.Fields, fd)
		}
	}
	return d, nil
}

// fieldTag derives the tag of a field. An explicit type expression from the
// struct tag wins. Variant payloads drop one pointer level; struct{} marks a
// unit variant and yields nil.
func fieldTag(expr ast.Expr, typeExpr string, isEnum bool) (*schema.Tag, error) {
	if typeExpr != "" {
		t, err := schema.ParseTypeExpr(typeExpr)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	if isEnum {
		if star, ok := expr.(*ast.StarExpr); ok {
			expr = star.X
		}
		if schema.IsEmptyStruct(expr) {
			return nil, nil
		}
	}
	t, err := schema.TagFromExpr(expr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseBorshTag reads `borsh:"key,typeexpr"`. `borsh:"-"` skips the field.
func parseBorshTag(lit *ast.BasicLit) (key, typeExpr string, skip bool) {
	if lit == nil {
		return "", "", false
	}
	tag := strings.Trim(lit.Value, "`")
	value, ok := reflect.StructTag(tag).Lookup("borsh")
	if !ok {
		return "", "", false
	}
	if value == "-" {
		return "", "", true
	}
	key, typeExpr, _ = strings.Cut(value, ",")
	return strings.TrimSpace(key), strings.TrimSpace(typeExpr), false
}
