package schemagen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func TestPrefixedTableName(t *testing.T) {
	assert.Equal(t, "srcClientes", PrefixedTableName("Clientes"))
	assert.Equal(t, "srcClientes", PrefixedTableName("srcClientes"))
	assert.Equal(t, "srcclientes", PrefixedTableName("clientes"))
	assert.Equal(t, "src_raw", PrefixedTableName("src_raw"))
	// A lowercase rune after "src" means the name merely starts with those
	// letters and still needs the prefix.
	assert.Equal(t, "srcsrcoTable", PrefixedTableName("srcoTable"))
}

func TestRenderCreateTableRoundTrip(t *testing.T) {
	samples := []ColumnSample{
		{Header: "Código", Values: []string{"1", "2"}},
		{Header: "Nombre", Values: []string{"Ana", "Beto"}},
		{Header: "Fecha", Values: []string{"2024-01-01", "2024-02-15"}},
	}

	schema := BuildTableSchema("Clientes", "/data/clientes.txt", samples)
	assert.Equal(t, "srcClientes", schema.Name)

	codigo, ok := schema.Column("Codigo")
	require.True(t, ok)
	assert.Equal(t, TypeInt, codigo.Type.Kind)
	_, ok = schema.Column("Código")
	assert.False(t, ok)

	sqlText := RenderCreateTable(schema, generatedAt)

	assert.Contains(t, sqlText, "CREATE TABLE [dbo].[srcClientes]")
	assert.Contains(t, sqlText, "[Codigo] INT NOT NULL")
	assert.Contains(t, sqlText, "[Nombre] NVARCHAR(50) NOT NULL")
	assert.Contains(t, sqlText, "[Fecha] DATE NOT NULL")
	assert.Contains(t, sqlText, "-- Source file: /data/clientes.txt")
	assert.Contains(t, sqlText, "--   Código -> Codigo")
	assert.NotContains(t, sqlText, "Nombre ->")
}

func TestRenderCreateTableNullable(t *testing.T) {
	samples := []ColumnSample{
		{Header: "Id", Values: []string{"1", ""}},
	}

	schema := BuildTableSchema("T", "t.txt", samples)
	sqlText := RenderCreateTable(schema, generatedAt)

	assert.Contains(t, sqlText, "[Id] INT NULL")
}

func TestRenderCreateTableHeaderOnlyFile(t *testing.T) {
	samples := []ColumnSample{
		{Header: "a"},
		{Header: "b"},
	}

	schema := BuildTableSchema("Empty", "empty.txt", samples)
	sqlText := RenderCreateTable(schema, generatedAt)

	assert.Contains(t, sqlText, "[a] NVARCHAR(MAX) NULL")
	assert.Contains(t, sqlText, "[b] NVARCHAR(MAX) NULL")
}

func TestRenderCreateTableNoRenameSection(t *testing.T) {
	samples := []ColumnSample{
		{Header: "Plain", Values: []string{"x"}},
	}

	schema := BuildTableSchema("T", "t.txt", samples)
	sqlText := RenderCreateTable(schema, generatedAt)

	assert.NotContains(t, sqlText, "Renamed columns")
}

func TestFormatSchemaInfo(t *testing.T) {
	samples := []ColumnSample{
		{Header: "Código", Values: []string{"1"}},
		{Header: "Nombre", Values: []string{"Ana"}},
	}

	schema := BuildTableSchema("Clientes", "clientes.txt", samples)
	report := FormatSchemaInfo(schema)

	assert.Contains(t, report, "Table: srcClientes")
	assert.Contains(t, report, "Codigo INT NOT NULL")
	require.Contains(t, report, `(from "Código")`)
}
