package contract

import (
	"fmt"
	"strings"

	"github.com/huangsam/gradestat/schema"
)

// Default values for configuration.
const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
	DefaultDataFile = "courses.json"
	MaxGPA          = 4.0
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a build or query.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	InputFormat schema.InputFormat
	Sheet       string
	Output      schema.OutputMode
	OutputFile  string
	DataPath    string // Built summaries read by query and mcp
	Width       int    // Terminal width override (0 = auto-detect)
	UseColors   bool   // Enable colored labels in table output

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	Query schema.QueryOptions
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Data          string `mapstructure:"data"`
	Width         int    `mapstructure:"width"`
	Color         string `mapstructure:"color"`
	RunsBackend   string `mapstructure:"runs-backend"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`

	// --- Fields from buildCmd.Flags() ---
	Input       string `mapstructure:"input"`
	InputFormat string `mapstructure:"input-format"`
	Sheet       string `mapstructure:"sheet"`

	// --- Fields from queryCmd.Flags() ---
	Search   string  `mapstructure:"search"`
	Subject  string  `mapstructure:"subject"`
	MinGPA   float64 `mapstructure:"min-gpa"`
	Sort     string  `mapstructure:"sort"`
	Order    string  `mapstructure:"order"`
	Page     int     `mapstructure:"page"`
	PageSize int     `mapstructure:"page-size"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateRunsBackend(cfg, input); err != nil {
		return err
	}
	if err := processQueryOptions(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseRunsBackend maps a raw backend name to a DatabaseBackend. Empty means disabled.
func ParseRunsBackend(raw string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateRunsBackend validates the run history backend configuration.
func validateRunsBackend(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseRunsBackend(input.RunsBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// validateSimpleInputs processes and validates the input and output fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.InputPath = strings.TrimSpace(input.Input)
	cfg.Sheet = input.Sheet
	cfg.OutputFile = input.OutputFile
	cfg.DataPath = input.Data
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataFile
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Width Validation ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 2. Input Format Validation ---
	cfg.InputFormat = schema.InputFormat(strings.ToLower(input.InputFormat))
	if cfg.InputFormat == "" {
		cfg.InputFormat = schema.AutoInput
	}
	if _, ok := schema.ValidInputFormats[cfg.InputFormat]; !ok {
		return fmt.Errorf("invalid input format '%s'. must be auto, csv, xlsx", input.InputFormat)
	}

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.JSONOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be json, csv, text, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return nil
}

// processQueryOptions validates the search, filter, sort and paging inputs.
func processQueryOptions(cfg *Config, input *ConfigRawInput) error {
	q := schema.QueryOptions{
		Search:  strings.TrimSpace(input.Search),
		Subject: strings.TrimSpace(input.Subject),
		MinGPA:  input.MinGPA,
	}

	if q.MinGPA < 0 || q.MinGPA > MaxGPA {
		return fmt.Errorf("min-gpa must be between 0 and %.1f (received %.2f)", MaxGPA, q.MinGPA)
	}

	q.SortKey = schema.SortKey(input.Sort)
	if q.SortKey == "" {
		q.SortKey = schema.SortByGPA
	}
	if _, ok := schema.ValidSortKeys[q.SortKey]; !ok {
		return fmt.Errorf("invalid sort key '%s'. must be gpa, medianGpa, totalStudents, instructor, code", input.Sort)
	}

	q.Order = schema.SortOrder(strings.ToLower(input.Order))
	if q.Order == "" {
		q.Order = schema.Descending
	}
	if _, ok := schema.ValidSortOrders[q.Order]; !ok {
		return fmt.Errorf("invalid sort order '%s'. must be asc, desc", input.Order)
	}

	q.Page = input.Page
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return fmt.Errorf("page must be at least 1 (received %d)", input.Page)
	}

	q.PageSize = input.PageSize
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return fmt.Errorf("page-size must be greater than 0 and cannot exceed %d (received %d)", MaxPageSize, input.PageSize)
	}

	cfg.Query = q
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RevalidateQuery re-runs query option validation for callers that build the
// raw input themselves, such as MCP tool handlers.
func RevalidateQuery(cfg *Config, input *ConfigRawInput) error {
	return processQueryOptions(cfg, input)
}
