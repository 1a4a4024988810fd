package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/sql2erd/internal/extractor"
	"github.com/dbsmedya/sql2erd/internal/graph"
	"github.com/dbsmedya/sql2erd/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate <folder>",
	Short: "Validate configuration and schema files",
	Long: `Validate checks the configuration and every schema file of the folder
without rendering anything.

Checks performed:
  - Configuration syntax and values
  - Every file declares a CREATE TABLE statement
  - No table is declared in more than one file
  - Every foreign key references a table of the folder
  - Foreign keys do not form a cycle (warning only)

All issues are reported before the command fails.

Example:
  sql2erd validate ./schema`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validationResult holds the issues found in a schema folder.
type validationResult struct {
	Tables   int
	Errors   []string
	Warnings []string
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	log.Debugw("starting validation", "folder", args[0])

	// Strictness is enforced below so every issue gets collected.
	opts := pipeline.OptionsFromConfig(cfg)
	opts.RejectDuplicates = false
	opts.RejectDangling = false

	p, err := pipeline.New(extractor.NewRegexExtractor(), nil, log, opts)
	if err != nil {
		return err
	}

	printHeader("Validation: %s", args[0])
	fmt.Fprintln(outputWriter)

	result, err := validateFolder(p, args[0])
	if err != nil {
		fmt.Fprintf(outputWriter, "%s %v\n", color.Red.Sprint("❌"), err)
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(outputWriter, "Tables found: %d\n", result.Tables)
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(outputWriter, "  %s %s\n", color.Red.Sprint("❌"), e)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("validation failed with %d issue(s)", len(result.Errors))
	}

	fmt.Fprintln(outputWriter)
	fmt.Fprintf(outputWriter, "%s All checks passed\n", color.Green.Sprint("✅"))
	return nil
}

// validateFolder loads the folder and collects duplicate, dangling and cycle issues.
// Files that cannot be parsed abort the validation.
func validateFolder(p *pipeline.Pipeline, folder string) (*validationResult, error) {
	loaded, g, err := p.Build(folder)
	if err != nil {
		return nil, err
	}

	result := &validationResult{Tables: g.NodeCount()}

	for _, d := range loaded.Duplicates {
		result.Errors = append(result.Errors, fmt.Sprintf("table %s declared in %s and %s",
			d.Table, filepath.Base(d.Replaced), filepath.Base(d.Kept)))
	}

	for _, e := range g.DanglingEdges() {
		result.Errors = append(result.Errors, fmt.Sprintf("%s.%s references unknown table %s",
			e.From, e.Label, e.To))
	}

	if _, err := g.CreationOrder(); err != nil {
		var cycleErr *graph.CycleError
		if !errors.As(err, &cycleErr) {
			return nil, err
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("foreign key cycle: %s",
			strings.Join(cycleErr.Info.CyclePath, " -> ")))
	}

	return result, nil
}
