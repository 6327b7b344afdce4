package schemagen

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TablePrefix marks tables generated from raw source files.
const TablePrefix = "src"

// PrefixedTableName prepends the src prefix unless the caller already
// supplied it. The prefix only counts when it sits on a word boundary:
// srcClientes is already prefixed, srcoTable is a plain name.
func PrefixedTableName(name string) string {
	if rest, ok := strings.CutPrefix(name, TablePrefix); ok {
		r, _ := utf8.DecodeRuneInString(rest)
		if rest == "" || !unicode.IsLower(r) {
			return name
		}
	}
	return TablePrefix + name
}

// BuildTableSchema samples the columns of one input file into a TableSchema
// ready for rendering. The table name is src-prefixed here so that callers
// and the procedure templater agree on the final name.
func BuildTableSchema(tableName, sourcePath string, samples []ColumnSample) TableSchema {
	return TableSchema{
		Name:       PrefixedTableName(tableName),
		Columns:    InferColumns(samples),
		SourcePath: sourcePath,
	}
}

// RenderCreateTable renders the CREATE TABLE statement for a schema. The
// header comment records the source file, the generation time, and every
// header token that normalization renamed. Output is pure text; execution
// is the caller's concern.
func RenderCreateTable(schema TableSchema, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("-- Generated by csv2sql\n")
	sb.WriteString(fmt.Sprintf("-- Source file: %s\n", schema.SourcePath))
	sb.WriteString(fmt.Sprintf("-- Generated at: %s\n", generatedAt.Format("2006-01-02 15:04:05")))

	renamed := false
	for _, col := range schema.Columns {
		if col.Renamed() {
			if !renamed {
				sb.WriteString("-- Renamed columns:\n")
				renamed = true
			}
			sb.WriteString(fmt.Sprintf("--   %s -> %s\n", col.Original, col.Name))
		}
	}

	sb.WriteString(fmt.Sprintf("CREATE TABLE [dbo].[%s] (\n", schema.Name))

	lines := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		nullable := "NOT NULL"
		if col.Nullable {
			nullable = "NULL"
		}
		lines = append(lines, fmt.Sprintf("    [%s] %s %s", col.Name, col.Type, nullable))
	}
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n);\n")

	return sb.String()
}
