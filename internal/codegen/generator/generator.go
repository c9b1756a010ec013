package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Alia5/borshgen/internal/codegen/common"
	"github.com/Alia5/borshgen/internal/codegen/generator/typescript"
	"github.com/Alia5/borshgen/internal/codegen/layout"
	"github.com/Alia5/borshgen/internal/codegen/meta"
	"github.com/Alia5/borshgen/internal/codegen/scanner"
	"github.com/Alia5/borshgen/internal/codegen/schema"
)

// ErrStale is returned by Check when the file on disk differs from what
// generation would produce.
var ErrStale = errors.New("generated schema is out of date")

// Input selects where declarations come from and which types to emit.
type Input struct {
	SchemaFile string   // declarative schema (.json, .yaml, .yml, .toml)
	GoPackage  string   // directory of Go sources to scan
	Roots      []string // root type names; empty means every declaration
}

// Generator orchestrates one generation run: load, build layouts, emit.
type Generator struct {
	fs        afero.Fs
	outputDir string
	cfg       typescript.Config
	logger    *slog.Logger
}

func New(fs afero.Fs, outputDir string, cfg typescript.Config, logger *slog.Logger) *Generator {
	return &Generator{
		fs:        fs,
		outputDir: outputDir,
		cfg:       cfg,
		logger:    logger,
	}
}

// OutputPath is the file Generate writes.
func (g *Generator) OutputPath() string {
	return filepath.Join(g.outputDir, typescript.OutputFileName)
}

// Generate loads the input, builds layouts and writes schema.ts.
func (g *Generator) Generate(in Input) error {
	md, err := g.ScanAll(in)
	if err != nil {
		return err
	}
	if err := typescript.Generate(g.logger, g.fs, g.outputDir, md, g.cfg); err != nil {
		return err
	}
	g.logger.Info("Schema generation complete", "output", g.OutputPath())
	return nil
}

// Check renders in memory and compares with the existing schema.ts.
func (g *Generator) Check(in Input) error {
	md, err := g.ScanAll(in)
	if err != nil {
		return err
	}
	want, err := typescript.Render(md, g.cfg)
	if err != nil {
		return err
	}

	path := g.OutputPath()
	have, err := afero.ReadFile(g.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", ErrStale, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if string(have) != want {
		g.logger.Warn("Generated schema differs",
			"file", path,
			"expected", common.HeaderFingerprint(want),
			"found", common.HeaderFingerprint(string(have)))
		return fmt.Errorf("%w: %s", ErrStale, path)
	}
	g.logger.Info("Generated schema is up to date", "file", path, "fingerprint", common.HeaderFingerprint(want))
	return nil
}

// ScanAll loads declarations from the configured source and resolves layouts.
func (g *Generator) ScanAll(in Input) (*meta.Metadata, error) {
	var (
		c      *schema.Container
		source string
		err    error
	)
	switch {
	case in.SchemaFile != "" && in.GoPackage != "":
		return nil, errors.New("schema file and Go package are mutually exclusive")
	case in.SchemaFile != "":
		g.logger.Debug("Loading schema file", "path", in.SchemaFile)
		c, err = schema.Load(g.fs, in.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		source = filepath.Base(in.SchemaFile)
	case in.GoPackage != "":
		g.logger.Debug("Scanning Go package", "path", in.GoPackage)
		c, err = scanner.ScanPackage(g.fs, in.GoPackage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan Go package: %w", err)
		}
		source = filepath.Base(filepath.Clean(in.GoPackage))
	default:
		return nil, errors.New("no schema source: set a schema file or a Go package")
	}
	g.logger.Info("Found declarations", "count", c.Len(), "source", source)

	layouts, err := layout.Build(c, in.Roots...)
	if err != nil {
		return nil, fmt.Errorf("failed to build layouts: %w", err)
	}
	g.logger.Info("Resolved layouts", "count", len(layouts))
	for _, l := range layouts {
		g.logger.Debug("Layout", "name", l.Name, "kind", l.Kind.String(), "fields", len(l.Fields))
	}

	return &meta.Metadata{
		Source:  source,
		Roots:   in.Roots,
		Layouts: layouts,
	}, nil
}
