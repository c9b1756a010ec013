package typescript

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/Alia5/borshgen/internal/codegen/common"
	"github.com/Alia5/borshgen/internal/codegen/layout"
	"github.com/Alia5/borshgen/internal/codegen/meta"
)

// OutputFileName is the single file written into the output directory.
const OutputFileName = "schema.ts"

const fileTemplate = `{{template "preamble" .Config}}
{{- range .Layouts}}
{{renderClass . $.Config}}
{{- end}}
export const SCHEMA = new Map<any, any>([
{{range .Layouts}}{{renderSchemaEntry . $.Config}}{{end}}]);
`

const classTemplate = `export class {{.Name}} extends {{.Base}} {
{{- range .Keys}}
  declare {{.}}: any;
{{- end}}
{{if .Keys}}
{{end}}  constructor(properties: any) {
    super(properties);
  }
}
`

var (
	fileTmpl = func() *template.Template {
		t := template.Must(template.New("schema").Funcs(template.FuncMap{
			"renderClass":       renderClass,
			"renderSchemaEntry": renderSchemaEntry,
		}).Parse(fileTemplate))
		template.Must(t.New("preamble").Parse(preambleTemplate))
		return t
	}()

	classTmpl = template.Must(template.New("class").Parse(classTemplate))
)

type fileData struct {
	Config  Config
	Layouts []layout.Layout
}

// fieldKey is the property name a member is emitted under. Variant names are
// the runtime tag of a union and are never renamed.
func fieldKey(l layout.Layout, f layout.Field, cfg Config) string {
	if l.Kind == layout.TaggedUnion {
		return f.Name
	}
	return common.FieldKey(f.Name, cfg.FieldCase)
}

// renderClass renders the class declaration of one layout. Records extend the
// Struct base, unions the Enum base that enforces a single active variant.
func renderClass(l layout.Layout, cfg Config) (string, error) {
	data := struct {
		Name string
		Base string
		Keys []string
	}{Name: l.Name, Base: "Struct"}
	if l.Kind == layout.TaggedUnion {
		data.Base = "Enum"
	}
	for _, f := range l.Fields {
		data.Keys = append(data.Keys, fieldKey(l, f, cfg))
	}

	var b strings.Builder
	if err := classTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render class %s: %w", l.Name, err)
	}
	return b.String(), nil
}

// renderSchemaEntry renders the SCHEMA table entry of one layout. Member
// order is wire order.
func renderSchemaEntry(l layout.Layout, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  [%s, { kind: '%s', ", l.Name, l.Kind)
	if l.Kind == layout.TaggedUnion {
		b.WriteString("field: 'enum', values: [")
	} else {
		b.WriteString("fields: [")
	}
	for i, f := range l.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "['%s', %s]", fieldKey(l, f, cfg), descriptorToTS(f.Type, cfg))
	}
	b.WriteString("] }],\n")
	return b.String()
}

var (
	ErrReservedName = errors.New("reserved name")
	ErrDuplicateKey = errors.New("duplicate field key")
)

// reservedClassNames are identifiers the preamble and the SCHEMA table
// already bind, plus JavaScript reserved words.
var reservedClassNames = map[string]bool{
	"Struct": true, "Enum": true, "Map": true, "Object": true, "Error": true,
	"PublicKey": true, "BinaryReader": true, "BinaryWriter": true,
	"SCHEMA": true, "borshPublicKeyHack": true,

	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "implements": true, "interface": true,
	"let": true, "package": true, "private": true, "protected": true,
	"public": true, "static": true, "yield": true, "await": true,
	"arguments": true, "eval": true, "undefined": true,
}

// enumTagKey is the property the Enum base stores the active variant under.
const enumTagKey = "enum"

// validate checks that layout names are unique and free to use as class
// names, emitted keys are unique per layout, and every reference names a
// layout of the same run.
func validate(md *meta.Metadata, cfg Config) error {
	known := make(map[string]bool, len(md.Layouts))
	for _, l := range md.Layouts {
		if known[l.Name] {
			return fmt.Errorf("layout %s emitted twice", l.Name)
		}
		known[l.Name] = true
		if reservedClassNames[l.Name] {
			return fmt.Errorf("%w: type %s collides with a name the generated file already uses", ErrReservedName, l.Name)
		}

		keys := make(map[string]string, len(l.Fields))
		for _, f := range l.Fields {
			key := fieldKey(l, f, cfg)
			if l.Kind == layout.TaggedUnion && key == enumTagKey {
				return fmt.Errorf("%w: variant %s.%s shadows the active-variant property", ErrReservedName, l.Name, key)
			}
			if prev, dup := keys[key]; dup {
				return fmt.Errorf("%w: %s fields %s and %s are both emitted as %s", ErrDuplicateKey, l.Name, prev, f.Name, key)
			}
			keys[key] = f.Name
		}
	}
	for _, l := range md.Layouts {
		for _, f := range l.Fields {
			for _, ref := range collectRefs(f.Type, nil) {
				if !known[ref] {
					return fmt.Errorf("%w: %s (referenced by %s.%s)", layout.ErrUnresolvedReference, ref, l.Name, f.Name)
				}
			}
		}
	}
	return nil
}

// Render produces the complete schema.ts content.
func Render(md *meta.Metadata, cfg Config) (string, error) {
	if err := validate(md, cfg); err != nil {
		return "", err
	}

	var body strings.Builder
	if err := fileTmpl.Execute(&body, fileData{Config: cfg, Layouts: md.Layouts}); err != nil {
		return "", fmt.Errorf("execute schema template: %w", err)
	}

	version, err := common.GetVersion()
	if err != nil {
		return "", fmt.Errorf("get version: %w", err)
	}
	return common.FileHeader("//", version, body.String()) + "\n" + body.String(), nil
}

// Generate renders the layouts and writes outputDir/schema.ts, creating the
// directory tree when needed. An existing file is overwritten.
func Generate(logger *slog.Logger, fs afero.Fs, outputDir string, md *meta.Metadata, cfg Config) error {
	logger.Debug("Rendering schema.ts", "types", len(md.Layouts))
	text, err := Render(md, cfg)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	outputFile := filepath.Join(outputDir, OutputFileName)
	f, err := fs.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", OutputFileName, err)
	}
	if _, err := io.WriteString(f, text); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", OutputFileName, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", OutputFileName, err)
	}

	logger.Info("Generated schema.ts", "file", outputFile, "types", len(md.Layouts), "fingerprint", common.HeaderFingerprint(text))
	return nil
}
