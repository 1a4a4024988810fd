package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dbsmedya/sql2erd/internal/graph"
	"github.com/dbsmedya/sql2erd/internal/logger"
)

// CommandRunner executes an external program.
type CommandRunner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string) (stderr []byte, err error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// LookPath implements CommandRunner.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run implements CommandRunner. The process is killed when ctx is cancelled.
func (ExecRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// GraphvizRenderer renders graphs through a Graphviz layout engine.
type GraphvizRenderer struct {
	Engine     string // binary name or path, e.g. "dot"
	KeepSource bool   // keep <base>.gv after a successful render
	runner     CommandRunner
	logger     *logger.Logger
}

// NewGraphvizRenderer creates a renderer that invokes the given engine.
// A nil runner uses ExecRunner; a nil logger discards output.
func NewGraphvizRenderer(engine string, keepSource bool, runner CommandRunner, log *logger.Logger) *GraphvizRenderer {
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &GraphvizRenderer{
		Engine:     engine,
		KeepSource: keepSource,
		runner:     runner,
		logger:     log,
	}
}

// SourcePath returns the intermediate Graphviz source path for a base.
// When the requested format would write the artifact to that same path,
// the source moves to <base>.src.gv so the artifact is not removed with it.
func SourcePath(base, format string) string {
	source := base + ".gv"
	if strings.EqualFold(source, OutputPath(base, format)) {
		return base + ".src.gv"
	}
	return source
}

// Render writes the DOT source, runs the engine and removes the source on success.
func (r *GraphvizRenderer) Render(ctx context.Context, g *graph.Graph, format, outputBase string) (string, error) {
	enginePath, err := r.runner.LookPath(r.Engine)
	if err != nil {
		return "", &RenderEngineError{
			Engine: r.Engine,
			Format: format,
			Err:    fmt.Errorf("%w: %v", ErrEngineNotFound, err),
		}
	}

	source := SourcePath(outputBase, format)
	if err := os.WriteFile(source, []byte(g.DOT()), 0644); err != nil {
		return "", fmt.Errorf("failed to write graph source %s: %w", source, err)
	}

	output := OutputPath(outputBase, format)
	args := []string{"-T" + format, "-o", output, source}
	r.logger.Debugw("running render engine", "engine", enginePath, "args", args)

	stderr, err := r.runner.Run(ctx, enginePath, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return "", &RenderEngineError{
			Engine: r.Engine,
			Format: format,
			Stderr: string(stderr),
			Err:    err,
		}
	}

	if !r.KeepSource {
		if err := os.Remove(source); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warnw("failed to remove graph source", "path", source, "error", err)
		}
	}

	return output, nil
}
