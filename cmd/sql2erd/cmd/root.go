package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/sql2erd/internal/config"
	"github.com/dbsmedya/sql2erd/internal/extractor"
	"github.com/dbsmedya/sql2erd/internal/lifecycle"
	"github.com/dbsmedya/sql2erd/internal/logger"
	"github.com/dbsmedya/sql2erd/internal/pipeline"
	"github.com/dbsmedya/sql2erd/internal/render"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile          string
	logLevel         string
	logFormat        string
	extension        string
	rejectDuplicates bool
	rejectDangling   bool
	noColor          bool
)

// Render flags, only on the root command
var (
	outputFormat string
	outputPath   string
	engine       string
	keepSource   bool
)

var rootCmd = &cobra.Command{
	Use:   "sql2erd <folder>",
	Short: "Entity relationship diagrams from T-SQL CREATE TABLE scripts",
	Long: `sql2erd reads every CREATE TABLE script in a folder, extracts the
tables, columns and foreign keys, and renders an entity relationship
diagram through Graphviz.

Each file must declare one table using bracketed identifiers:

  CREATE TABLE [dbo].[Orders] (
      [CustomerId] int(4) NOT NULL,
      FOREIGN KEY ([CustomerId]) REFERENCES [dbo].[Customers] ([Id])
  )

Example:
  sql2erd ./schema
  sql2erd ./schema -f svg -o docs/erd
  sql2erd ./schema -f mermaid`,
	Version:      Version,
	Args:         cobra.ExactArgs(1),
	RunE:         runRender,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Input overrides
	rootCmd.PersistentFlags().StringVar(&extension, "ext", "",
		"Override schema file extension (default .sql)")
	rootCmd.PersistentFlags().BoolVar(&rejectDuplicates, "reject-duplicates", false,
		"Fail when two files declare the same table")
	rootCmd.PersistentFlags().BoolVar(&rejectDangling, "reject-dangling", false,
		"Fail when a foreign key references a table that is not in the folder")

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")

	// Render overrides
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format passed to the engine (pdf, png, svg, ...) or mermaid")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output path without extension (default erd)")
	rootCmd.Flags().StringVar(&engine, "engine", "",
		"Graphviz layout engine binary (default dot)")
	rootCmd.Flags().BoolVar(&keepSource, "keep-source", false,
		"Keep the intermediate .gv file")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.CLIOverrides {
	return config.CLIOverrides{
		LogLevel:         logLevel,
		LogFormat:        logFormat,
		Extension:        extension,
		OutputPath:       outputPath,
		Format:           outputFormat,
		Engine:           engine,
		KeepSource:       keepSource,
		RejectDuplicates: rejectDuplicates,
		RejectDangling:   rejectDangling,
	}
}

// loadConfig loads the configuration, applies CLI overrides and creates the logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if noColor {
		color.Disable()
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}

// newPipeline creates a pipeline over the regex extractor and the configured renderers.
func newPipeline(cfg *config.Config, log *logger.Logger) (*pipeline.Pipeline, error) {
	graphviz := render.NewGraphvizRenderer(cfg.Render.Engine, cfg.Output.KeepSource, nil, log)
	renderer := render.NewDispatcher(graphviz, render.NewMermaidRenderer())
	return pipeline.New(extractor.NewRegexExtractor(), renderer, log, pipeline.OptionsFromConfig(cfg))
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	p, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := lifecycle.SetupSignalHandler(parent)
	defer stop()

	log.Debugw("rendering schema folder", "folder", args[0], "output", cfg.OutputFile(), "engine", cfg.Render.Engine)

	result, err := p.Run(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(outputWriter, "%s %s (%d tables, %d relationships)\n",
		color.Green.Sprint("Wrote"), result.OutputFile, result.Tables, result.Edges)
	return nil
}
