package cmd

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/Alia5/borshgen/internal/codegen/generator"
	"github.com/Alia5/borshgen/internal/codegen/generator/typescript"
)

// Source selects the declarations and the output location.
type Source struct {
	Schema    string   `help:"Declarative schema file (.json, .yaml, .yml, .toml)" env:"BORSHGEN_SCHEMA"`
	GoPackage string   `help:"Directory of Go sources to scan for borsh types" env:"BORSHGEN_GO_PACKAGE"`
	Type      []string `help:"Root type to emit, repeatable (default: every declaration)" env:"BORSHGEN_TYPES"`
	Output    string   `help:"Output directory for schema.ts" default:"./generated" env:"BORSHGEN_OUTPUT"`
}

func (s Source) input() generator.Input {
	return generator.Input{
		SchemaFile: s.Schema,
		GoPackage:  s.GoPackage,
		Roots:      s.Type,
	}
}

type Generate struct {
	Source Source            `embed:""`
	Emit   typescript.Config `embed:"" prefix:"emit."`
}

// Run is called by Kong when the generate command is executed.
func (c *Generate) Run(logger *slog.Logger, fs afero.Fs) error {
	logger.Info("Starting schema generation", "output", c.Source.Output)
	gen := generator.New(fs, c.Source.Output, c.Emit, logger)
	return gen.Generate(c.Source.input())
}

type Check struct {
	Source Source            `embed:""`
	Emit   typescript.Config `embed:"" prefix:"emit."`
}

// Run is called by Kong when the check command is executed.
func (c *Check) Run(logger *slog.Logger, fs afero.Fs) error {
	gen := generator.New(fs, c.Source.Output, c.Emit, logger)
	return gen.Check(c.Source.input())
}
