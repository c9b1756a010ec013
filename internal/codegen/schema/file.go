package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

// fileSchema is the on-disk form of a container.
//
//	types:
//	  - name: Point
//	    kind: struct
//	    fields:
//	      - {name: x, type: u32}
//	  - name: Shape
//	    kind: enum
//	    variants:
//	      - {name: Dot, type: Point}
//	      - {name: Empty}
type fileSchema struct {
	Types []fileType `json:"types" yaml:"types" toml:"types"`
}

type fileType struct {
	Name     string      `json:"name" yaml:"name" toml:"name"`
	Kind     string      `json:"kind" yaml:"kind" toml:"kind"`
	Fields   []fileField `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	Variants []fileField `json:"variants,omitempty" yaml:"variants,omitempty" toml:"variants,omitempty"`
}

type fileField struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

// Load reads a declarative schema file. The format follows the extension:
// .json, .yaml/.yml or .toml.
func Load(fs afero.Fs, path string) (*Container, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	c, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FormatFromPath maps a file extension to "json", "yaml" or "toml".
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Decode parses schema data in the given format into a container.
func Decode(data []byte, format string) (*Container, error) {
	fsch, err := decodeStrict(data, format)
	if err != nil {
		return nil, err
	}

	c := NewContainer()
	for _, ft := range fsch.Types {
		decl, err := ft.declaration()
		if err != nil {
			return nil, err
		}
		if err := c.Add(decl); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// decodeStrict rejects keys the schema does not define, so a misspelt
// "fields" fails instead of yielding an empty record.
func decodeStrict(data []byte, format string) (fileSchema, error) {
	var fsch fileSchema
	var err error
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&fsch)
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&fsch)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case "toml":
		err = toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&fsch)
	default:
		return fsch, fmt.Errorf("unsupported schema format: %s", format)
	}
	if err != nil {
		return fsch, fmt.Errorf("decode %s schema: %w", format, err)
	}
	return fsch, nil
}

func (ft fileType) declaration() (Declaration, error) {
	decl := Declaration{Name: ft.Name}
	var members []fileField
	switch strings.ToLower(ft.Kind) {
	case "struct", "record", "":
		decl.Kind = KindStruct
		members = ft.Fields
		if len(ft.Variants) > 0 {
			return decl, fmt.Errorf("type %s: variants declared on a struct", ft.Name)
		}
	case "enum", "union":
		decl.Kind = KindEnum
		members = ft.Variants
		if len(ft.Fields) > 0 {
			return decl, fmt.Errorf("type %s: fields declared on an enum", ft.Name)
		}
	default:
		return decl, fmt.Errorf("type %s: unknown kind %q", ft.Name, ft.Kind)
	}

	for _, m := range members {
		fd := FieldDecl{Name: m.Name}
		if m.Type != "" {
			t, err := ParseTypeExpr(m.Type)
			if err != nil {
				return decl, fmt.Errorf("type %s member %s: %w", ft.Name, m.Name, err)
			}
			fd.Type = &t
		}
		decl.Fields = append(decl.Fields, fd)
	}
	return decl, nil
}
