// Package pipeline runs the extract, build and render steps over a folder of schema files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/sql2erd/internal/config"
	"github.com/dbsmedya/sql2erd/internal/extractor"
	"github.com/dbsmedya/sql2erd/internal/graph"
	"github.com/dbsmedya/sql2erd/internal/logger"
	"github.com/dbsmedya/sql2erd/internal/render"
	"github.com/dbsmedya/sql2erd/internal/schema"
	"github.com/dbsmedya/sql2erd/internal/sqlutil"
)

// Options controls a pipeline run.
type Options struct {
	Extension        string // file suffix to pick up, e.g. ".sql"
	OutputBase       string // artifact is written to <OutputBase>.<Format>
	Format           string // passed through to the renderer
	RejectDuplicates bool
	RejectDangling   bool
}

// OptionsFromConfig derives pipeline options from the application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Extension:        cfg.Input.Extension,
		OutputBase:       cfg.Output.Path,
		Format:           cfg.Output.Format,
		RejectDuplicates: cfg.Strict.RejectDuplicates,
		RejectDangling:   cfg.Strict.RejectDangling,
	}
}

// Duplicate records a table name that appeared in more than one file.
type Duplicate struct {
	Table    string `json:"table" yaml:"table"`
	Kept     string `json:"kept" yaml:"kept"`         // file whose definition is used
	Replaced string `json:"replaced" yaml:"replaced"` // file whose definition was overwritten
}

// ErrDuplicateTable is matched by DuplicateTableError.
var ErrDuplicateTable = errors.New("table declared more than once")

// DuplicateTableError is returned when duplicates are rejected.
type DuplicateTableError struct {
	Duplicate
	Schema string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table %s is declared in both %s and %s",
		sqlutil.QualifiedName(e.Schema, e.Table), e.Replaced, e.Kept)
}

// Is allows errors.Is(err, ErrDuplicateTable).
func (e *DuplicateTableError) Is(target error) bool {
	return target == ErrDuplicateTable
}

// LoadResult is the aggregated outcome of parsing a folder.
type LoadResult struct {
	Schema     *schema.SchemaGraph
	Files      []string
	Duplicates []Duplicate
}

// Result contains the outcome of a full run.
type Result struct {
	OutputFile string
	Files      int
	Tables     int
	Edges      int
	Duplicates []Duplicate
	Dangling   []graph.Edge
}

// Pipeline coordinates extraction, graph building and rendering.
type Pipeline struct {
	extractor extractor.Extractor
	renderer  render.Renderer
	logger    *logger.Logger
	opts      Options
}

// New creates a pipeline. A nil logger discards output.
func New(ex extractor.Extractor, r render.Renderer, log *logger.Logger, opts Options) (*Pipeline, error) {
	if ex == nil {
		return nil, fmt.Errorf("extractor is nil")
	}
	if opts.Extension == "" {
		return nil, fmt.Errorf("file extension is not specified")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		extractor: ex,
		renderer:  r,
		logger:    log,
		opts:      opts,
	}, nil
}

// ListFiles returns the non-recursive entries of folder whose name ends with
// the configured extension, in directory listing order.
func (p *Pipeline) ListFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, &extractor.FileAccessError{Path: folder, Err: err}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), p.opts.Extension) {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}
	return files, nil
}

// Load parses every schema file of folder into one schema graph.
// The first failing file aborts the load.
func (p *Pipeline) Load(folder string) (*LoadResult, error) {
	log := p.logger.WithFolder(folder)

	files, err := p.ListFiles(folder)
	if err != nil {
		return nil, err
	}
	log.Debugw("discovered schema files", "count", len(files))

	result := &LoadResult{
		Schema: schema.NewSchemaGraph(),
		Files:  files,
	}

	for _, path := range files {
		table, err := extractor.ExtractFile(p.extractor, path)
		if err != nil {
			return nil, err
		}

		fileLog := log.WithFile(path).WithTable(table.Name)
		fileLog.Debugw("parsed table", "columns", len(table.Columns), "foreign_keys", len(table.ForeignKeys))

		if prev := result.Schema.Get(table.Name); prev != nil {
			dup := Duplicate{Table: table.Name, Kept: path, Replaced: prev.Source}
			if p.opts.RejectDuplicates {
				return nil, &DuplicateTableError{Duplicate: dup, Schema: table.Schema}
			}
			fileLog.Warnw("duplicate table overwrites earlier definition", "replaced", prev.Source)
			result.Duplicates = append(result.Duplicates, dup)
		}
		result.Schema.Add(table)
	}

	return result, nil
}

// Build loads folder and builds the diagram graph without rendering it.
func (p *Pipeline) Build(folder string) (*LoadResult, *graph.Graph, error) {
	loaded, err := p.Load(folder)
	if err != nil {
		return nil, nil, err
	}

	g, err := graph.BuildFromSchema(loaded.Schema, graph.BuildOptions{RejectDangling: p.opts.RejectDangling})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build graph: %w", err)
	}

	for _, e := range g.DanglingEdges() {
		p.logger.WithFields(map[string]interface{}{
			"table":  e.From,
			"column": e.Label,
			"target": e.To,
		}).Warn("foreign key references unknown table")
	}

	return loaded, g, nil
}

// Run loads folder, builds the graph and renders it once.
func (p *Pipeline) Run(ctx context.Context, folder string) (*Result, error) {
	if p.renderer == nil {
		return nil, fmt.Errorf("renderer is nil")
	}

	loaded, g, err := p.Build(folder)
	if err != nil {
		return nil, err
	}

	output, err := p.renderer.Render(ctx, g, p.opts.Format, p.opts.OutputBase)
	if err != nil {
		return nil, fmt.Errorf("failed to render diagram: %w", err)
	}

	p.logger.Infow("diagram rendered",
		"output", output,
		"tables", g.NodeCount(),
		"edges", g.EdgeCount(),
	)

	return &Result{
		OutputFile: output,
		Files:      len(loaded.Files),
		Tables:     g.NodeCount(),
		Edges:      g.EdgeCount(),
		Duplicates: loaded.Duplicates,
		Dangling:   g.DanglingEdges(),
	}, nil
}
