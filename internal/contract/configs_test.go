package contract

import (
	"testing"

	"github.com/huangsam/gradestat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation with defaults applied.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Input: "grades.csv",
		Color: "yes",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, "grades.csv", cfg.InputPath)
	assert.Equal(t, schema.AutoInput, cfg.InputFormat)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, DefaultDataFile, cfg.DataPath)
	assert.Equal(t, schema.NoneBackend, cfg.RunsBackend)
	assert.True(t, cfg.UseColors)

	assert.Equal(t, schema.SortByGPA, cfg.Query.SortKey)
	assert.Equal(t, schema.Descending, cfg.Query.Order)
	assert.Equal(t, 1, cfg.Query.Page)
	assert.Equal(t, DefaultPageSize, cfg.Query.PageSize)
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"xlsx input", func(in *ConfigRawInput) { in.InputFormat = "XLSX" }, false},
		{"invalid input format", func(in *ConfigRawInput) { in.InputFormat = "ods" }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "yaml" }, true},
		{"parquet to stdout", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"parquet to file", func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }, false},
		{"negative width", func(in *ConfigRawInput) { in.Width = -1 }, true},
		{"bad color", func(in *ConfigRawInput) { in.Color = "sometimes" }, true},
		{"invalid backend", func(in *ConfigRawInput) { in.RunsBackend = "redis" }, true},
		{"sqlite backend", func(in *ConfigRawInput) { in.RunsBackend = "SQLite" }, false},
		{"mysql without connection", func(in *ConfigRawInput) { in.RunsBackend = "mysql" }, true},
		{"min gpa too high", func(in *ConfigRawInput) { in.MinGPA = 4.5 }, true},
		{"min gpa negative", func(in *ConfigRawInput) { in.MinGPA = -1 }, true},
		{"unknown sort key", func(in *ConfigRawInput) { in.Sort = "title" }, true},
		{"sort key is case-sensitive", func(in *ConfigRawInput) { in.Sort = "medianGpa" }, false},
		{"bad order", func(in *ConfigRawInput) { in.Order = "sideways" }, true},
		{"negative page", func(in *ConfigRawInput) { in.Page = -2 }, true},
		{"page size too large", func(in *ConfigRawInput) { in.PageSize = MaxPageSize + 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/gradestat", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/gradestat", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=postgres dbname=gradestat", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseRunsBackend(t *testing.T) {
	backend, err := ParseRunsBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, backend)

	backend, err = ParseRunsBackend(" PostgreSQL ")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, backend)

	_, err = ParseRunsBackend("oracle")
	assert.Error(t, err)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "gradestat"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "gradestat", profile.Prefix)
}

func TestRevalidateQuery(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, RevalidateQuery(cfg, &ConfigRawInput{Sort: "code", Order: "ASC", Page: 2}))
	assert.Equal(t, schema.SortByCode, cfg.Query.SortKey)
	assert.Equal(t, schema.Ascending, cfg.Query.Order)
	assert.Equal(t, 2, cfg.Query.Page)
	assert.Equal(t, DefaultPageSize, cfg.Query.PageSize)

	assert.Error(t, RevalidateQuery(cfg, &ConfigRawInput{MinGPA: 4.5}))
	assert.Error(t, RevalidateQuery(cfg, &ConfigRawInput{Sort: "title"}))
}
