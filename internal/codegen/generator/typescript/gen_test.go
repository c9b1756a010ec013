package typescript

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/borshgen/internal/codegen/common"
	"github.com/Alia5/borshgen/internal/codegen/layout"
	"github.com/Alia5/borshgen/internal/codegen/meta"
)

var point = layout.Layout{
	Name: "Point",
	Kind: layout.Record,
	Fields: []layout.Field{
		{Name: "x", Type: layout.Primitive{Name: layout.U32}},
		{Name: "y", Type: layout.Primitive{Name: layout.U32}},
	},
}

var shape = layout.Layout{
	Name: "Shape",
	Kind: layout.TaggedUnion,
	Fields: []layout.Field{
		{Name: "Foo", Type: layout.TypeRef{Name: "Point"}},
		{Name: "Bar", Type: layout.Primitive{Name: layout.U8}},
	},
}

func TestRenderSchemaEntryPoint(t *testing.T) {
	got := renderSchemaEntry(point, DefaultConfig())
	assert.Equal(t, "  [Point, { kind: 'struct', fields: [['x', 'u32'], ['y', 'u32']] }],\n", got)
}

func TestRenderSchemaEntryUnion(t *testing.T) {
	got := renderSchemaEntry(shape, DefaultConfig())
	assert.Equal(t, "  [Shape, { kind: 'enum', field: 'enum', values: [['Foo', Point], ['Bar', 'u8']] }],\n", got)
}

func TestRenderClass(t *testing.T) {
	got, err := renderClass(point, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `export class Point extends Struct {
  declare x: any;
  declare y: any;

  constructor(properties: any) {
    super(properties);
  }
}
`, got)

	got, err = renderClass(shape, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, got, "export class Shape extends Enum {\n  declare Foo: any;\n  declare Bar: any;\n")

	got, err = renderClass(layout.Layout{Name: "StateClosed", Kind: layout.Record}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "export class StateClosed extends Struct {\n  constructor(properties: any) {\n    super(properties);\n  }\n}\n", got)
}

func TestDescriptorToTS(t *testing.T) {
	hack := DefaultConfig()
	plain := DefaultConfig()
	plain.PublicKeyHack = false

	tests := []struct {
		name string
		d    layout.Descriptor
		cfg  Config
		want string
	}{
		{"u64", layout.Primitive{Name: layout.U64}, hack, "'u64'"},
		{"i128", layout.Primitive{Name: layout.I128}, hack, "'i128'"},
		{"bool", layout.Primitive{Name: layout.Bool}, hack, "'u8'"},
		{"string", layout.Primitive{Name: layout.String}, hack, "'string'"},
		{"pubkey hack", layout.Primitive{Name: layout.PublicKey}, hack, "'publicKeyHack'"},
		{"pubkey plain", layout.Primitive{Name: layout.PublicKey}, plain, "[32]"},
		{"byte array", layout.FixedArray{Elem: layout.Primitive{Name: layout.U8}, Len: 32}, hack, "[32]"},
		{"byte sequence", layout.Sequence{Elem: layout.Primitive{Name: layout.U8}}, hack, "['u8']"},
		{"u16 array", layout.FixedArray{Elem: layout.Primitive{Name: layout.U16}, Len: 4}, hack, "['u16', 4]"},
		{"option", layout.Option{Inner: layout.TypeRef{Name: "Point"}}, hack, "{ kind: 'option', type: Point }"},
		{"map", layout.Map{Key: layout.Primitive{Name: layout.String}, Value: layout.Sequence{Elem: layout.TypeRef{Name: "Point"}}}, hack, "{ kind: 'map', key: 'string', value: [Point] }"},
		{"option of pubkey", layout.Option{Inner: layout.Primitive{Name: layout.PublicKey}}, hack, "{ kind: 'option', type: 'publicKeyHack' }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptorToTS(tt.d, tt.cfg))
		})
	}
}

func TestFieldCaseAppliesToRecordsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FieldCase = common.FieldCaseCamel

	rec := layout.Layout{Name: "Vault", Kind: layout.Record, Fields: []layout.Field{
		{Name: "last_slot", Type: layout.Primitive{Name: layout.U64}},
	}}
	union := layout.Layout{Name: "Op", Kind: layout.TaggedUnion, Fields: []layout.Field{
		{Name: "do_thing", Type: layout.Primitive{Name: layout.U8}},
	}}

	assert.Equal(t, "  [Vault, { kind: 'struct', fields: [['lastSlot', 'u64']] }],\n", renderSchemaEntry(rec, cfg))
	assert.Equal(t, "  [Op, { kind: 'enum', field: 'enum', values: [['do_thing', 'u8']] }],\n", renderSchemaEntry(union, cfg))
}

func TestRenderFullFile(t *testing.T) {
	md := &meta.Metadata{Layouts: []layout.Layout{point, shape}}
	text, err := Render(md, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "// Code generated by borshgen"))
	assert.Contains(t, text, "import { BinaryReader, BinaryWriter } from 'borsh';\n")
	assert.Contains(t, text, "import { PublicKey } from '@velas/web3';\n")
	assert.Contains(t, text, "readPublicKeyHack")
	assert.Contains(t, text, "throw new Error('Enum can only take single value');")
	assert.True(t, strings.HasSuffix(text, `export const SCHEMA = new Map<any, any>([
  [Point, { kind: 'struct', fields: [['x', 'u32'], ['y', 'u32']] }],
  [Shape, { kind: 'enum', field: 'enum', values: [['Foo', Point], ['Bar', 'u8']] }],
]);
`), text)

	// base classes precede generated classes, classes follow layout order
	structBase := strings.Index(text, "class Struct {")
	enumBase := strings.Index(text, "class Enum {")
	pointClass := strings.Index(text, "export class Point extends Struct")
	shapeClass := strings.Index(text, "export class Shape extends Enum")
	table := strings.Index(text, "export const SCHEMA")
	assert.True(t, structBase < enumBase && enumBase < pointClass && pointClass < shapeClass && shapeClass < table)

	body := text[strings.Index(text, "import {"):]
	assert.Equal(t, common.Fingerprint(body), common.HeaderFingerprint(text))
}

func TestRenderWithoutHack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PublicKeyHack = false
	cfg.BorshModule = "@dao-xyz/borsh"

	text, err := Render(&meta.Metadata{Layouts: []layout.Layout{point}}, cfg)
	require.NoError(t, err)
	assert.Contains(t, text, "from '@dao-xyz/borsh';\n\nclass Struct {")
	assert.NotContains(t, text, "PublicKey")
}

func TestRenderIsDeterministic(t *testing.T) {
	md := &meta.Metadata{Layouts: []layout.Layout{point, shape}}
	a, err := Render(md, DefaultConfig())
	require.NoError(t, err)
	b, err := Render(md, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderRejectsInconsistentLayouts(t *testing.T) {
	_, err := Render(&meta.Metadata{Layouts: []layout.Layout{shape}}, DefaultConfig())
	assert.True(t, errors.Is(err, layout.ErrUnresolvedReference), err)

	_, err = Render(&meta.Metadata{Layouts: []layout.Layout{point, point}}, DefaultConfig())
	assert.Error(t, err)
}

func TestRenderRejectsCollidingFieldKeys(t *testing.T) {
	vault := layout.Layout{Name: "Vault", Kind: layout.Record, Fields: []layout.Field{
		{Name: "last_slot", Type: layout.Primitive{Name: layout.U64}},
		{Name: "lastSlot", Type: layout.Primitive{Name: layout.U8}},
	}}
	md := &meta.Metadata{Layouts: []layout.Layout{vault}}

	_, err := Render(md, DefaultConfig())
	require.NoError(t, err, "distinct keys when names are preserved")

	cfg := DefaultConfig()
	cfg.FieldCase = common.FieldCaseCamel
	text, err := Render(md, cfg)
	assert.True(t, errors.Is(err, ErrDuplicateKey), err)
	assert.Empty(t, text)
}

func TestRenderRejectsReservedNames(t *testing.T) {
	tests := []struct {
		name string
		l    layout.Layout
	}{
		{"table constructor", layout.Layout{Name: "Map", Kind: layout.Record}},
		{"record base", layout.Layout{Name: "Struct", Kind: layout.Record}},
		{"union base", layout.Layout{Name: "Enum", Kind: layout.Record}},
		{"key class", layout.Layout{Name: "PublicKey", Kind: layout.Record}},
		{"reader", layout.Layout{Name: "BinaryReader", Kind: layout.Record}},
		{"writer", layout.Layout{Name: "BinaryWriter", Kind: layout.Record}},
		{"global object", layout.Layout{Name: "Object", Kind: layout.Record}},
		{"reserved word", layout.Layout{Name: "default", Kind: layout.Record}},
		{"active variant property", layout.Layout{Name: "Op", Kind: layout.TaggedUnion, Fields: []layout.Field{
			{Name: "enum", Type: layout.Primitive{Name: layout.U8}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(&meta.Metadata{Layouts: []layout.Layout{tt.l}}, DefaultConfig())
			assert.True(t, errors.Is(err, ErrReservedName), err)
		})
	}

	// keywords are fine as record keys
	cfgKeys := layout.Layout{Name: "Config", Kind: layout.Record, Fields: []layout.Field{
		{Name: "default", Type: layout.Primitive{Name: layout.U8}},
		{Name: "type", Type: layout.Primitive{Name: layout.U8}},
	}}
	text, err := Render(&meta.Metadata{Layouts: []layout.Layout{cfgKeys}}, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, text, "  declare default: any;\n")
	assert.Contains(t, text, "[Config, { kind: 'struct', fields: [['default', 'u8'], ['type', 'u8']] }],")
}

func TestGenerateWritesAndOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join("out", "nested", "ts")
	md := &meta.Metadata{Layouts: []layout.Layout{point, shape}}

	require.NoError(t, Generate(slogt.New(t), fs, dir, md, DefaultConfig()))
	first, err := afero.ReadFile(fs, filepath.Join(dir, OutputFileName))
	require.NoError(t, err)

	require.NoError(t, Generate(slogt.New(t), fs, dir, md, DefaultConfig()))
	second, err := afero.ReadFile(fs, filepath.Join(dir, OutputFileName))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(string(second), "export class Point "))

	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerateSurfacesIOErrors(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := Generate(slogt.New(t), fs, "out", &meta.Metadata{Layouts: []layout.Layout{point}}, DefaultConfig())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "create output directory out")
}
