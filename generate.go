package main

import (
	"context"
	"time"

	"csv2sql/schemagen"
)

// createTableCore samples the input file, infers the schema, and renders
// the CREATE TABLE statement. Separated from the CLI and MCP layers for
// testing.
func createTableCore(reader SampleReader, dataPath, tableName string, opts schemagen.SampleOptions, now time.Time) (string, schemagen.TableSchema, error) {
	samples, err := reader.ReadSamples(dataPath, opts)
	if err != nil {
		return "", schemagen.TableSchema{}, err
	}

	schema := schemagen.BuildTableSchema(tableName, dataPath, samples)
	return schemagen.RenderCreateTable(schema, now), schema, nil
}

// createProcedureCore re-samples the source file so the mapping can be
// validated against the actual table schema, then renders the staging
// procedure. Returns the SQL text and the procedure name.
func createProcedureCore(samples SampleReader, mappings MappingReader, dataPath, tableName, mappingPath, dataAreaID string, opts schemagen.SampleOptions, now time.Time) (string, string, error) {
	columnSamples, err := samples.ReadSamples(dataPath, opts)
	if err != nil {
		return "", "", err
	}
	schema := schemagen.BuildTableSchema(tableName, dataPath, columnSamples)

	columnMappings, err := mappings.LoadMappings(mappingPath)
	if err != nil {
		return "", "", err
	}

	return schemagen.RenderStoredProcedure(schema, columnMappings, dataAreaID, now)
}

// inferSchemaCore renders the human-readable column report for a file.
func inferSchemaCore(reader SampleReader, dataPath, tableName string, opts schemagen.SampleOptions) (string, error) {
	samples, err := reader.ReadSamples(dataPath, opts)
	if err != nil {
		return "", err
	}

	schema := schemagen.BuildTableSchema(tableName, dataPath, samples)
	return schemagen.FormatSchemaInfo(schema), nil
}

// executeSQL connects, runs one statement, and closes. Callers are
// responsible for the safe-mode gate.
func executeSQL(ctx context.Context, executor SQLExecutor, statement string) error {
	if err := executor.Connect(ctx); err != nil {
		return err
	}
	defer executor.Close()

	return executor.Exec(ctx, statement)
}
