package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dbsmedya/sql2erd/internal/graph"
)

// IsMermaidFormat reports whether format is written by MermaidRenderer.
func IsMermaidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "mermaid", "mmd":
		return true
	}
	return false
}

// MermaidRenderer writes a Mermaid erDiagram without any external engine.
type MermaidRenderer struct{}

// NewMermaidRenderer creates a Mermaid writer.
func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

// Render implements Renderer.
func (r *MermaidRenderer) Render(ctx context.Context, g *graph.Graph, format, outputBase string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	output := OutputPath(outputBase, format)
	if err := os.WriteFile(output, []byte(g.Mermaid()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", output, err)
	}
	return output, nil
}
