package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv2sql/schemagen"
)

var testTime = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func clientSamples() []schemagen.ColumnSample {
	return []schemagen.ColumnSample{
		{Header: "Cliente", Values: []string{"Acme", "Globex"}},
		{Header: "Importe", Values: []string{"10.50", "22.00"}},
	}
}

func TestCreateTableCore(t *testing.T) {
	reader := &MockSampleReader{
		ReadSamplesFunc: func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
			return clientSamples(), nil
		},
	}

	sqlText, schema, err := createTableCore(reader, "/data/clientes.txt", "Clientes", schemagen.SampleOptions{}, testTime)
	require.NoError(t, err)

	assert.True(t, reader.ReadSamplesCalled)
	assert.Equal(t, "/data/clientes.txt", reader.LastPath)
	assert.Equal(t, "srcClientes", schema.Name)
	assert.Contains(t, sqlText, "CREATE TABLE [dbo].[srcClientes]")
	assert.Contains(t, sqlText, "[Cliente] NVARCHAR(50) NOT NULL")
	assert.Contains(t, sqlText, "[Importe] DECIMAL(4,2) NOT NULL")
}

func TestCreateTableCoreReadError(t *testing.T) {
	reader := &MockSampleReader{
		ReadSamplesFunc: func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
			return nil, errors.New("boom")
		},
	}

	_, _, err := createTableCore(reader, "x.txt", "X", schemagen.SampleOptions{}, testTime)
	require.Error(t, err)
}

func TestCreateProcedureCore(t *testing.T) {
	samples := &MockSampleReader{
		ReadSamplesFunc: func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
			return clientSamples(), nil
		},
	}
	mappings := &MockMappingReader{
		LoadMappingsFunc: func(path string) ([]schemagen.ColumnMapping, error) {
			return []schemagen.ColumnMapping{
				{Source: "Cliente", Target: "Customer Name", FieldType: "Text"},
			}, nil
		},
	}

	sqlText, procName, err := createProcedureCore(samples, mappings,
		"/data/clientes.txt", "Clientes", "/data/dict.csv", "USMF", schemagen.SampleOptions{}, testTime)
	require.NoError(t, err)

	assert.True(t, mappings.LoadMappingsCalled)
	assert.Equal(t, "/data/dict.csv", mappings.LastPath)
	assert.Equal(t, "MIG_001_stgClientes_StoredProcedure", procName)
	assert.Contains(t, sqlText, "[Cliente] AS [CustomerName]")
	assert.Contains(t, sqlText, "'USMF' AS [DATAAREAID]")
}

func TestCreateProcedureCoreUnmappedColumn(t *testing.T) {
	samples := &MockSampleReader{
		ReadSamplesFunc: func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
			return clientSamples(), nil
		},
	}
	mappings := &MockMappingReader{
		LoadMappingsFunc: func(path string) ([]schemagen.ColumnMapping, error) {
			return []schemagen.ColumnMapping{
				{Source: "NoExiste", Target: "Missing"},
			}, nil
		},
	}

	_, _, err := createProcedureCore(samples, mappings, "c.txt", "Clientes", "d.csv", "", schemagen.SampleOptions{}, testTime)
	require.Error(t, err)

	var unmapped *schemagen.UnmappedColumnError
	require.ErrorAs(t, err, &unmapped)
	assert.Equal(t, "NoExiste", unmapped.Column)
}

func TestCreateProcedureCoreMappingError(t *testing.T) {
	samples := &MockSampleReader{
		ReadSamplesFunc: func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
			return clientSamples(), nil
		},
	}
	mappings := &MockMappingReader{
		LoadMappingsFunc: func(path string) ([]schemagen.ColumnMapping, error) {
			return nil, &schemagen.MalformedMappingError{Path: "d.csv", Missing: []string{"Field type"}}
		},
	}

	_, _, err := createProcedureCore(samples, mappings, "c.txt", "Clientes", "d.csv", "", schemagen.SampleOptions{}, testTime)
	require.Error(t, err)

	var malformed *schemagen.MalformedMappingError
	assert.ErrorAs(t, err, &malformed)
}

func TestInferSchemaCore(t *testing.T) {
	reader := &MockSampleReader{
		ReadSamplesFunc: func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
			return clientSamples(), nil
		},
	}

	report, err := inferSchemaCore(reader, "clientes.txt", "Clientes", schemagen.SampleOptions{})
	require.NoError(t, err)

	assert.Contains(t, report, "Table: srcClientes")
	assert.Contains(t, report, "Cliente NVARCHAR(50) NOT NULL")
}

func TestExecuteSQL(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		executor := &MockSQLExecutor{}

		err := executeSQL(context.Background(), executor, "CREATE TABLE x (id INT);")
		require.NoError(t, err)

		assert.True(t, executor.ConnectCalled)
		assert.True(t, executor.ExecCalled)
		assert.True(t, executor.CloseCalled)
		assert.Equal(t, []string{"CREATE TABLE x (id INT);"}, executor.Statements)
	})

	t.Run("connect_failure", func(t *testing.T) {
		executor := &MockSQLExecutor{
			ConnectFunc: func(ctx context.Context) error {
				return errors.New("connection refused")
			},
		}

		err := executeSQL(context.Background(), executor, "SELECT 1")
		require.Error(t, err)
		assert.False(t, executor.ExecCalled)
	})

	t.Run("exec_failure_still_closes", func(t *testing.T) {
		executor := &MockSQLExecutor{
			ExecFunc: func(ctx context.Context, statement string) error {
				return errors.New("syntax error")
			},
		}

		err := executeSQL(context.Background(), executor, "NOT SQL")
		require.Error(t, err)
		assert.True(t, executor.CloseCalled)
	})
}
