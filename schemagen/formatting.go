package schemagen

import (
	"fmt"
	"strings"
)

// FormatSchemaInfo renders an inferred schema as human-readable text, used
// by the infer command and the infer_schema MCP tool.
func FormatSchemaInfo(schema TableSchema) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Table: %s\n", schema.Name))
	sb.WriteString(fmt.Sprintf("Source: %s\n", schema.SourcePath))
	sb.WriteString("Columns:\n")

	for _, col := range schema.Columns {
		nullable := "NOT NULL"
		if col.Nullable {
			nullable = "NULL"
		}

		renamed := ""
		if col.Renamed() {
			renamed = fmt.Sprintf(" (from %q)", col.Original)
		}

		sb.WriteString(fmt.Sprintf("  - %s %s %s%s\n", col.Name, col.Type, nullable, renamed))
	}

	return sb.String()
}
