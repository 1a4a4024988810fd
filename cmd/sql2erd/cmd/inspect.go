package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/sql2erd/internal/extractor"
	"github.com/dbsmedya/sql2erd/internal/graph"
	"github.com/dbsmedya/sql2erd/internal/pipeline"
	"github.com/dbsmedya/sql2erd/internal/schema"
	"github.com/dbsmedya/sql2erd/internal/sqlutil"
)

var (
	inspectFormat string
	inspectTable  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <folder>",
	Short: "Show the extracted schema without rendering",
	Long: `Inspect parses the schema folder and prints what was extracted.

The report shows:
  - Tables with their columns and foreign keys
  - Creation and drop order, or the cycle preventing them
  - Foreign keys that reference tables outside the folder
  - Tables declared in more than one file

Example:
  sql2erd inspect ./schema
  sql2erd inspect ./schema --table dbo.Orders
  sql2erd inspect ./schema -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text",
		"Report format (text, yaml, json)")
	inspectCmd.Flags().StringVarP(&inspectTable, "table", "t", "",
		"Only show one table, e.g. Orders or [dbo].[Orders]")

	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the machine-readable form of the inspect output.
type inspectReport struct {
	Folder        string               `json:"folder" yaml:"folder"`
	Tables        []*schema.Table      `json:"tables" yaml:"tables"`
	CreationOrder []string             `json:"creation_order,omitempty" yaml:"creation_order,omitempty"`
	DropOrder     []string             `json:"drop_order,omitempty" yaml:"drop_order,omitempty"`
	Cycle         *cycleReport         `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Dangling      []danglingReference  `json:"dangling,omitempty" yaml:"dangling,omitempty"`
	Duplicates    []pipeline.Duplicate `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

type cycleReport struct {
	Path         []string `json:"path" yaml:"path"`
	Participants []string `json:"participants" yaml:"participants"`
	Blocked      []string `json:"blocked,omitempty" yaml:"blocked,omitempty"`
}

type danglingReference struct {
	Table     string `json:"table" yaml:"table"`
	Column    string `json:"column" yaml:"column"`
	RefTable  string `json:"ref_table" yaml:"ref_table"`
	RefColumn string `json:"ref_column" yaml:"ref_column"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(inspectFormat)
	switch format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unsupported report format %q (use text, yaml or json)", inspectFormat)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	p, err := pipeline.New(extractor.NewRegexExtractor(), nil, log, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	loaded, g, err := p.Build(args[0])
	if err != nil {
		return err
	}

	report, err := buildInspectReport(args[0], loaded, g, inspectTable)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(outputWriter)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(outputWriter)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	printInspectText(report)
	return nil
}

// buildInspectReport collects the tables, ordering and warnings of a loaded folder.
// A non-empty filter restricts the tables to the one it names.
func buildInspectReport(folder string, loaded *pipeline.LoadResult, g *graph.Graph, filter string) (*inspectReport, error) {
	report := &inspectReport{
		Folder:     folder,
		Tables:     loaded.Schema.Tables(),
		Duplicates: loaded.Duplicates,
	}

	order, err := g.CreationOrder()
	var cycleErr *graph.CycleError
	switch {
	case err == nil:
		report.CreationOrder = order
		if report.DropOrder, err = g.DropOrder(); err != nil {
			return nil, err
		}
	case errors.As(err, &cycleErr):
		report.Cycle = &cycleReport{
			Path:         cycleErr.Info.CyclePath,
			Participants: cycleErr.Info.CycleParticipants,
			Blocked:      cycleErr.Info.Blocked(),
		}
	default:
		return nil, err
	}

	for _, e := range g.DanglingEdges() {
		report.Dangling = append(report.Dangling, danglingReference{
			Table:     e.From,
			Column:    e.Label,
			RefTable:  e.To,
			RefColumn: e.RefColumn,
		})
	}

	if filter != "" {
		table, err := findTable(loaded.Schema, filter)
		if err != nil {
			return nil, err
		}
		report.Tables = []*schema.Table{table}
	}

	return report, nil
}

// findTable resolves a possibly schema-qualified name against the schema graph.
func findTable(sg *schema.SchemaGraph, name string) (*schema.Table, error) {
	schemaName, tableName, err := sqlutil.ParseQualifiedName(name)
	if err != nil {
		return nil, err
	}

	for _, t := range sg.Tables() {
		if !strings.EqualFold(t.Name, tableName) {
			continue
		}
		if schemaName != "" && !strings.EqualFold(t.Schema, schemaName) {
			continue
		}
		return t, nil
	}
	return nil, fmt.Errorf("table %s not found", sqlutil.QualifiedName(schemaName, tableName))
}

func printInspectText(report *inspectReport) {
	printHeader("Schema: %s", report.Folder)

	fmt.Fprintln(outputWriter)
	printSection("Tables")
	rows := [][]string{{"Table", "Columns", "Foreign Keys", "Source"}}
	for _, t := range report.Tables {
		rows = append(rows, []string{
			sqlutil.QualifiedName(t.Schema, t.Name),
			strconv.Itoa(len(t.Columns)),
			strconv.Itoa(len(t.ForeignKeys)),
			filepath.Base(t.Source),
		})
	}
	printTable(rows)

	for _, t := range report.Tables {
		fmt.Fprintln(outputWriter)
		printSection(sqlutil.QualifiedName(t.Schema, t.Name))
		printColumns(t)
	}

	fmt.Fprintln(outputWriter)
	printSection("Creation Order (referenced tables first)")
	if report.Cycle != nil {
		printWarning("cycle detected: %s", strings.Join(report.Cycle.Path, " -> "))
		if len(report.Cycle.Blocked) > 0 {
			printWarning("blocked by cycle: %s", strings.Join(report.Cycle.Blocked, ", "))
		}
	} else {
		printOrder(report.CreationOrder)

		fmt.Fprintln(outputWriter)
		printSection("Drop Order (referencing tables first)")
		printOrder(report.DropOrder)
	}

	if len(report.Dangling) == 0 && len(report.Duplicates) == 0 {
		return
	}

	fmt.Fprintln(outputWriter)
	printSection("Warnings")
	for _, d := range report.Dangling {
		printWarning("%s.%s references unknown table %s", d.Table, d.Column, d.RefTable)
	}
	for _, d := range report.Duplicates {
		printWarning("%s from %s replaced the definition in %s",
			d.Table, filepath.Base(d.Kept), filepath.Base(d.Replaced))
	}
}

func printOrder(tables []string) {
	for i, name := range tables {
		fmt.Fprintf(outputWriter, "  [%d] %s\n", i+1, name)
	}
}

// printColumns prints one row per column, marking foreign key columns with their target.
func printColumns(t *schema.Table) {
	if len(t.Columns) == 0 {
		fmt.Fprintln(outputWriter, "  (no columns)")
		return
	}

	refs := make(map[string]schema.ForeignKey, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		refs[fk.Column] = fk
	}

	rows := [][]string{{"Column", "Type", "References"}}
	for _, c := range t.Columns {
		ref := ""
		if fk, ok := refs[c.Name]; ok {
			ref = sqlutil.QualifiedName(fk.RefSchema, fk.RefTable) + "." + sqlutil.QuoteIdentifier(fk.RefColumn)
		}
		rows = append(rows, []string{c.Name, c.Type, ref})
	}
	printTable(rows)
}
