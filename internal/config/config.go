// Package config provides configuration structures and loading for sql2erd.
package config

// Config represents the complete application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Strict  StrictConfig  `yaml:"strict" mapstructure:"strict"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// InputConfig selects which files of the input folder are parsed.
type InputConfig struct {
	Extension string `yaml:"extension" mapstructure:"extension"` // e.g. ".sql"
}

// OutputConfig controls the rendered artifact.
type OutputConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`               // base path; artifact is <path>.<format>
	Format     string `yaml:"format" mapstructure:"format"`           // passed through to the render engine
	KeepSource bool   `yaml:"keep_source" mapstructure:"keep_source"` // keep <path>.gv after rendering
}

// RenderConfig configures the external layout engine.
type RenderConfig struct {
	Engine string `yaml:"engine" mapstructure:"engine"` // Graphviz binary name or path
}

// StrictConfig turns silently tolerated input problems into errors.
type StrictConfig struct {
	RejectDuplicates bool `yaml:"reject_duplicates" mapstructure:"reject_duplicates"`
	RejectDangling   bool `yaml:"reject_dangling" mapstructure:"reject_dangling"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Extension: ".sql",
		},
		Output: OutputConfig{
			Path:   "erd",
			Format: "pdf",
		},
		Render: RenderConfig{
			Engine: "dot",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// CLIOverrides contains flag values that override config file settings.
// Zero values leave the configuration untouched.
type CLIOverrides struct {
	LogLevel         string
	LogFormat        string
	Extension        string
	OutputPath       string
	Format           string
	Engine           string
	KeepSource       bool
	RejectDuplicates bool
	RejectDangling   bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o CLIOverrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.Extension != "" {
		c.Input.Extension = o.Extension
	}
	if o.OutputPath != "" {
		c.Output.Path = o.OutputPath
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Engine != "" {
		c.Render.Engine = o.Engine
	}
	if o.KeepSource {
		c.Output.KeepSource = true
	}
	if o.RejectDuplicates {
		c.Strict.RejectDuplicates = true
	}
	if o.RejectDangling {
		c.Strict.RejectDangling = true
	}
}

// OutputFile returns the artifact path for the configured format.
func (c *Config) OutputFile() string {
	return c.Output.Path + "." + c.Output.Format
}
