package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/viper"

	"csv2sql/schemagen"
)

// StartMCPServer starts the MCP server exposing the schema generation tools
func StartMCPServer() error {
	s := server.NewMCPServer(
		"csv2sql",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	createTableTool := mcp.NewTool("create_table",
		mcp.WithDescription("Generates a SQL Server CREATE TABLE statement by analyzing a CSV or pipe-delimited text file. Column names and data types are inferred from the file content. Table names are automatically prefixed with 'src'."),
		mcp.WithString("csv_file_path",
			mcp.Required(),
			mcp.Description("Path to the delimited text file. The first row must contain column headers."),
		),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("Name of the table to create (prefixed with 'src' automatically)."),
		),
		mcp.WithString("delimiter",
			mcp.Description("Field delimiter (default: '|')."),
		),
		mcp.WithNumber("sample_rows",
			mcp.Description("Number of data rows to sample for type inference (default: 100)."),
		),
		mcp.WithString("encoding",
			mcp.Description("Input encoding: utf-8 (default), latin1, or windows-1252."),
		),
		mcp.WithBoolean("execute",
			mcp.Description("Execute the generated SQL against the configured SQL Server (requires safe mode off)."),
		),
		mcp.WithString("server",
			mcp.Description("SQL Server name override for execution (e.g. server.database.windows.net)."),
		),
		mcp.WithString("database",
			mcp.Description("Database name override for execution."),
		),
		mcp.WithString("username",
			mcp.Description("Username override for authentication."),
		),
		mcp.WithString("password",
			mcp.Description("Password override for authentication."),
		),
		mcp.WithBoolean("trusted_connection",
			mcp.Description("Use Windows authentication instead of username/password."),
		),
		mcp.WithBoolean("encrypt",
			mcp.Description("Use an encrypted connection (default: true)."),
		),
	)

	s.AddTool(createTableTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateTable(ctx, request)
	})

	createProcedureTool := mcp.NewTool("create_stored_procedure",
		mcp.WithDescription("Generates a stored procedure that rebuilds a staging table from a source table, renaming columns per a dictionary/mapping file and appending a DATAAREAID audit column. Staging names are automatically prefixed with 'stg'. Expected mapping columns: 'SGE Column Name', 'English Column Name', 'Field type'."),
		mcp.WithString("csv_file_path",
			mcp.Required(),
			mcp.Description("Path to the source data file; its inferred schema is used to validate the mapping."),
		),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("Name of the source table (prefixed with 'src' automatically; staging table gets 'stg')."),
		),
		mcp.WithString("dictionary_path",
			mcp.Required(),
			mcp.Description("Path to the CSV or pipe-delimited column mapping dictionary."),
		),
		mcp.WithString("dataareaid",
			mcp.Description("Value for the DATAAREAID audit column (default: 'USMF')."),
		),
		mcp.WithString("delimiter",
			mcp.Description("Field delimiter of the data file (default: '|')."),
		),
		mcp.WithString("encoding",
			mcp.Description("Input encoding: utf-8 (default), latin1, or windows-1252."),
		),
	)

	s.AddTool(createProcedureTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateProcedure(ctx, request)
	})

	inferSchemaTool := mcp.NewTool("infer_schema",
		mcp.WithDescription("Analyzes a delimited file and reports the inferred schema (column names, types, nullability, renames) without generating SQL."),
		mcp.WithString("csv_file_path",
			mcp.Required(),
			mcp.Description("Path to the delimited text file."),
		),
		mcp.WithString("table_name",
			mcp.Description("Table name used in the report (default: file name)."),
		),
		mcp.WithString("delimiter",
			mcp.Description("Field delimiter (default: '|')."),
		),
		mcp.WithNumber("sample_rows",
			mcp.Description("Number of data rows to sample (default: 100)."),
		),
	)

	s.AddTool(inferSchemaTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleInferSchema(ctx, request)
	})

	slog.Info("starting csv2sql mcp server")
	return server.ServeStdio(s)
}

func requestSampleOptions(request mcp.CallToolRequest) schemagen.SampleOptions {
	opts := schemagen.SampleOptions{
		SampleRows: request.GetInt("sample_rows", schemagen.DefaultSampleRows),
		Encoding:   request.GetString("encoding", ""),
	}
	if d := request.GetString("delimiter", ""); d != "" {
		opts.Delimiter = []rune(d)[0]
	}
	return opts
}

// requestSQLConfig overlays per-request credential overrides on the resolved
// configuration, so an MCP client can point execution at a different server
// without touching the ambient config.
func requestSQLConfig(request mcp.CallToolRequest) SQLServerConfig {
	cfg := LoadSQLConfig()
	if v := request.GetString("server", ""); v != "" {
		cfg.Server = v
	}
	if v := request.GetString("database", ""); v != "" {
		cfg.Database = v
	}
	if v := request.GetString("username", ""); v != "" {
		cfg.User = v
	}
	if v := request.GetString("password", ""); v != "" {
		cfg.Password = v
	}
	cfg.TrustedConnection = request.GetBool("trusted_connection", cfg.TrustedConnection)
	cfg.Encrypt = request.GetBool("encrypt", cfg.Encrypt)
	return cfg
}

// handleCreateTable processes the create_table tool request
func handleCreateTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataPath, err := request.RequireString("csv_file_path")
	if err != nil {
		return mcp.NewToolResultError("csv_file_path parameter is required"), nil
	}
	name, err := request.RequireString("table_name")
	if err != nil {
		return mcp.NewToolResultError("table_name parameter is required"), nil
	}

	sqlText, schema, err := createTableCore(NewFileSampleReader(), dataPath, name, requestSampleOptions(request), time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if request.GetBool("execute", false) {
		if viper.GetBool("safe_mode") {
			return mcp.NewToolResultText(fmt.Sprintf("safe mode is enabled, SQL was generated but not executed:\n\n%s", sqlText)), nil
		}

		cfg := requestSQLConfig(request)
		if err := executeSQL(ctx, NewMSSQLExecutor(cfg), sqlText); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("table %s created successfully:\n\n%s", schema.Name, sqlText)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("generated CREATE TABLE for %s:\n\n%s", schema.Name, sqlText)), nil
}

// handleCreateProcedure processes the create_stored_procedure tool request
func handleCreateProcedure(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataPath, err := request.RequireString("csv_file_path")
	if err != nil {
		return mcp.NewToolResultError("csv_file_path parameter is required"), nil
	}
	name, err := request.RequireString("table_name")
	if err != nil {
		return mcp.NewToolResultError("table_name parameter is required"), nil
	}
	dictionaryPath, err := request.RequireString("dictionary_path")
	if err != nil {
		return mcp.NewToolResultError("dictionary_path parameter is required"), nil
	}

	areaID := request.GetString("dataareaid", viper.GetString("generator.dataareaid"))

	sqlText, procName, err := createProcedureCore(NewFileSampleReader(), NewFileMappingReader(),
		dataPath, name, dictionaryPath, areaID, requestSampleOptions(request), time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("generated stored procedure %s:\n\n%s", procName, sqlText)), nil
}

// handleInferSchema processes the infer_schema tool request
func handleInferSchema(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataPath, err := request.RequireString("csv_file_path")
	if err != nil {
		return mcp.NewToolResultError("csv_file_path parameter is required"), nil
	}

	name := request.GetString("table_name", "")
	if name == "" {
		name = baseTableName(dataPath)
	}

	report, err := inferSchemaCore(NewFileSampleReader(), dataPath, name, requestSampleOptions(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("schema inferred successfully:\n\n%s", report)), nil
}
