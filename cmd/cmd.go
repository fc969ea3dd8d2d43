// Package cmd defines the command-line interface for gradestat.
package cmd

import (
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", "", "Output format: json or csv or text or parquet (build defaults to json, query to text)")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("data", contract.DefaultDataFile, "Path to the course summaries written by build (read by query and mcp)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of buildCmd to Viper
	buildCmd.Flags().StringP("input", "i", "", "Path to the grade data file (CSV or XLSX)")
	buildCmd.Flags().String("input-format", string(schema.AutoInput), "Input format: auto or csv or xlsx")
	buildCmd.Flags().String("sheet", "", "Worksheet to read from XLSX input (defaults to the first sheet)")
	if err := viper.BindPFlags(buildCmd.Flags()); err != nil {
		contract.LogFatal("Error binding build flags", err)
	}

	// Bind all flags of queryCmd to Viper
	queryCmd.Flags().StringP("search", "s", "", "Words that must all appear in the course code, title or instructor")
	queryCmd.Flags().String("subject", schema.AllSubjects, "Only show courses of this subject")
	queryCmd.Flags().Float64("min-gpa", 0, "Only show courses with at least this mean GPA (0 disables)")
	queryCmd.Flags().String("sort", string(schema.SortByGPA), "Sort key: gpa or medianGpa or totalStudents or instructor or code")
	queryCmd.Flags().String("order", string(schema.Descending), "Sort direction: asc or desc")
	queryCmd.Flags().Int("page", 1, "Number of pages to show")
	queryCmd.Flags().Int("page-size", contract.DefaultPageSize, "Number of courses per page")
	if err := viper.BindPFlags(queryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding query flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
