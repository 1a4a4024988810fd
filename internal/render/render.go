// Package render turns a diagram graph into an output artifact.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dbsmedya/sql2erd/internal/graph"
)

// Renderer writes a graph to <outputBase>.<format> and returns the path written.
type Renderer interface {
	Render(ctx context.Context, g *graph.Graph, format, outputBase string) (string, error)
}

// ErrRenderEngine is matched by RenderEngineError.
var ErrRenderEngine = errors.New("render engine failed")

// ErrEngineNotFound is wrapped when the engine binary cannot be located.
var ErrEngineNotFound = errors.New("render engine not found")

// RenderEngineError is returned when the external engine is missing or
// rejects the format or the graph.
type RenderEngineError struct {
	Engine string
	Format string
	Stderr string
	Err    error
}

func (e *RenderEngineError) Error() string {
	msg := fmt.Sprintf("render engine %q failed for format %q: %v", e.Engine, e.Format, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *RenderEngineError) Unwrap() error {
	return e.Err
}

func (e *RenderEngineError) Is(target error) bool {
	return target == ErrRenderEngine
}

// OutputPath returns <base>.<format>.
func OutputPath(base, format string) string {
	return base + "." + format
}

// Dispatcher routes built-in text formats to MermaidRenderer and everything
// else to the Graphviz engine.
type Dispatcher struct {
	graphviz Renderer
	mermaid  Renderer
}

// NewDispatcher creates a dispatcher over the given renderers.
func NewDispatcher(graphviz, mermaid Renderer) *Dispatcher {
	return &Dispatcher{graphviz: graphviz, mermaid: mermaid}
}

// Render implements Renderer.
func (d *Dispatcher) Render(ctx context.Context, g *graph.Graph, format, outputBase string) (string, error) {
	if IsMermaidFormat(format) {
		return d.mermaid.Render(ctx, g, format, outputBase)
	}
	return d.graphviz.Render(ctx, g, format, outputBase)
}
