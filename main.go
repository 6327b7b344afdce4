package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"csv2sql/schemagen"
)

var (
	mcpMode bool
	cfgFile string

	tableName   string
	delimiter   string
	sampleRows  int
	encoding    string
	outputDir   string
	executeFlag bool
	mappingPath string
	dataAreaID  string
)

var rootCmd = &cobra.Command{
	Use:   "csv2sql",
	Short: "Generate SQL Server schema from delimited files",
	Long: `csv2sql reads CSV or pipe-delimited files, infers column types from a
bounded row sample, and generates SQL Server CREATE TABLE and staging
stored-procedure statements.

Generated tables are prefixed with 'src' and staging tables with 'stg'.
Execution against a SQL Server instance is gated behind safe mode and the
--execute flag; by default only SQL files are written.

Modes:
  subcommands (default): create-table, create-procedure, infer, config
  mcp mode (--mcp): Run as Model Context Protocol server`,
	Run: runRoot,
}

var createTableCmd = &cobra.Command{
	Use:   "create-table [data-file]",
	Short: "Generate a CREATE TABLE statement from a delimited file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateTable,
}

var createProcedureCmd = &cobra.Command{
	Use:   "create-procedure [data-file]",
	Short: "Generate a staging-table stored procedure from a mapping dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateProcedure,
}

var inferCmd = &cobra.Command{
	Use:   "infer [data-file]",
	Short: "Show the inferred schema for a delimited file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfer,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved SQL Server configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := LoadSQLConfig()
		fmt.Print(FormatConfig(cfg, viper.GetBool("safe_mode")))
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the SQL Server connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := LoadSQLConfig()

		executor := NewMSSQLExecutor(cfg)
		if err := executor.Connect(cmd.Context()); err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		defer executor.Close()

		fmt.Printf("Connection to %s/%s successful\n", cfg.Server, cfg.Database)
		return nil
	},
}

var configSampleCmd = &cobra.Command{
	Use:   "create-sample",
	Short: "Write a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		if err := CreateSampleConfig(output); err != nil {
			return err
		}
		fmt.Printf("Sample configuration created at %s\n", output)
		return nil
	},
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./csv2sql.yaml)")
	rootCmd.Flags().BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")

	rootCmd.PersistentFlags().String("server", "", "SQL Server host")
	rootCmd.PersistentFlags().String("database", "", "Database name")
	rootCmd.PersistentFlags().String("username", "", "Username")
	rootCmd.PersistentFlags().String("password", "", "Password")
	viper.BindPFlag("sql_server.server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("sql_server.database", rootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("sql_server.user", rootCmd.PersistentFlags().Lookup("username"))
	viper.BindPFlag("sql_server.password", rootCmd.PersistentFlags().Lookup("password"))

	for _, cmd := range []*cobra.Command{createTableCmd, createProcedureCmd, inferCmd} {
		cmd.Flags().StringVarP(&tableName, "table", "t", "", "Table name (default: file name without extension)")
		cmd.Flags().StringVar(&delimiter, "delimiter", "|", "Field delimiter")
		cmd.Flags().IntVar(&sampleRows, "sample-rows", schemagen.DefaultSampleRows, "Number of data rows to sample")
		cmd.Flags().StringVar(&encoding, "encoding", "", "Input encoding (utf-8, latin1, windows-1252)")
	}
	for _, cmd := range []*cobra.Command{createTableCmd, createProcedureCmd} {
		cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for generated SQL files")
		cmd.Flags().BoolVar(&executeFlag, "execute", false, "Execute the generated SQL (requires safe_mode: false)")
	}
	createProcedureCmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Path to the column mapping dictionary file")
	createProcedureCmd.MarkFlagRequired("mapping")
	createProcedureCmd.Flags().StringVar(&dataAreaID, "dataareaid", "", "Value for the DATAAREAID audit column")

	configSampleCmd.Flags().StringP("output", "o", "csv2sql.yaml", "Output path for the sample configuration")
	configCmd.AddCommand(configShowCmd, configTestCmd, configSampleCmd)
	rootCmd.AddCommand(createTableCmd, createProcedureCmd, inferCmd, configCmd)

	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("csv2sql")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CSV2SQL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func runRoot(cmd *cobra.Command, args []string) {
	if mcpMode {
		slog.Info("starting mcp server")
		if err := StartMCPServer(); err != nil {
			slog.Error("failed to start mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	cmd.Help()
}

// sampleOptions resolves delimiter and sample size with flag > config >
// default precedence.
func sampleOptions(cmd *cobra.Command) schemagen.SampleOptions {
	d := delimiter
	if !cmd.Flags().Changed("delimiter") {
		if v := viper.GetString("generator.delimiter"); v != "" {
			d = v
		}
	}
	rows := sampleRows
	if !cmd.Flags().Changed("sample-rows") {
		rows = viper.GetInt("generator.sample_rows")
	}

	opts := schemagen.SampleOptions{
		SampleRows: rows,
		Encoding:   encoding,
	}
	if d != "" {
		opts.Delimiter = []rune(d)[0]
	}
	return opts
}

// resolveTableName falls back to the file name without extension when no
// --table was given.
func resolveTableName(dataPath string) string {
	if tableName != "" {
		return tableName
	}
	return baseTableName(dataPath)
}

func baseTableName(dataPath string) string {
	base := filepath.Base(dataPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runCreateTable(cmd *cobra.Command, args []string) error {
	dataPath := args[0]
	now := time.Now()

	sqlText, schema, err := createTableCore(NewFileSampleReader(), dataPath, resolveTableName(dataPath), sampleOptions(cmd), now)
	if err != nil {
		return err
	}

	path, err := writeSQLFile(outputDir, tableSQLFileName(schema.Name, now), sqlText)
	if err != nil {
		return err
	}
	slog.Info("generated create table sql", "table", schema.Name, "columns", len(schema.Columns), "path", path)

	return maybeExecute(cmd, sqlText)
}

func runCreateProcedure(cmd *cobra.Command, args []string) error {
	dataPath := args[0]
	now := time.Now()

	areaID := dataAreaID
	if areaID == "" {
		areaID = viper.GetString("generator.dataareaid")
	}

	sqlText, procName, err := createProcedureCore(NewFileSampleReader(), NewFileMappingReader(),
		dataPath, resolveTableName(dataPath), mappingPath, areaID, sampleOptions(cmd), now)
	if err != nil {
		return err
	}

	path, err := writeSQLFile(outputDir, procedureSQLFileName(procName), sqlText)
	if err != nil {
		return err
	}
	slog.Info("generated stored procedure sql", "procedure", procName, "path", path)

	return maybeExecute(cmd, sqlText)
}

func runInfer(cmd *cobra.Command, args []string) error {
	dataPath := args[0]

	report, err := inferSchemaCore(NewFileSampleReader(), dataPath, resolveTableName(dataPath), sampleOptions(cmd))
	if err != nil {
		return err
	}

	fmt.Print(report)
	return nil
}

// maybeExecute applies the safe-mode gate before touching the database.
func maybeExecute(cmd *cobra.Command, sqlText string) error {
	if !executeFlag {
		return nil
	}
	if viper.GetBool("safe_mode") {
		slog.Warn("safe mode is enabled, skipping execution (set safe_mode: false to allow)")
		return nil
	}

	cfg := LoadSQLConfig()

	return executeSQL(cmd.Context(), NewMSSQLExecutor(cfg), sqlText)
}
