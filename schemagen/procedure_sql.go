package schemagen

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// StagingPrefix marks staging tables and the procedures that fill them.
	StagingPrefix = "stg"

	// DefaultDataAreaID is the constant written into the audit column when
	// no override is configured.
	DefaultDataAreaID = "USMF"

	// AuditColumn is appended to every staging table.
	AuditColumn = "DATAAREAID"
)

// StagingTableName derives the staging table for a source table by swapping
// the src prefix for stg. The input is a final source table name, so any
// leading src is taken as the prefix.
func StagingTableName(tableName string) string {
	return StagingPrefix + strings.TrimPrefix(tableName, TablePrefix)
}

// ProcedureName follows the migration naming convention of the generated
// procedures: MIG_001_<staging table>_StoredProcedure.
func ProcedureName(tableName string) string {
	return fmt.Sprintf("MIG_001_%s_StoredProcedure", StagingTableName(tableName))
}

// stripSpaces removes all whitespace from a mapping target name. Target
// names come from a curated dictionary and are assumed otherwise SQL-safe,
// so they deliberately skip full identifier normalization.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// RenderStoredProcedure renders the CREATE OR ALTER PROCEDURE statement
// that drops and rebuilds the staging table for a source table, applying
// the column renames of the mapping dictionary and appending the audit
// column. Every mapping source must resolve to a column of the source
// schema; a miss aborts generation with UnmappedColumnError. Returns the
// SQL text and the procedure name for caller-side file naming.
func RenderStoredProcedure(schema TableSchema, mappings []ColumnMapping, dataAreaID string, generatedAt time.Time) (string, string, error) {
	if dataAreaID == "" {
		dataAreaID = DefaultDataAreaID
	}

	staging := StagingTableName(schema.Name)
	procName := ProcedureName(schema.Name)

	selects := make([]string, 0, len(mappings)+1)
	for _, m := range mappings {
		col, ok := resolveSourceColumn(schema, m.Source)
		if !ok {
			return "", "", &UnmappedColumnError{Column: m.Source, Table: schema.Name}
		}
		target := stripSpaces(m.Target)
		if target == "" {
			target = col.Name
		}
		selects = append(selects, fmt.Sprintf("        [%s] AS [%s]", col.Name, target))
	}
	selects = append(selects, fmt.Sprintf("        '%s' AS [%s]", escapeSingleQuotes(dataAreaID), AuditColumn))

	var sb strings.Builder
	sb.WriteString("-- Generated by csv2sql\n")
	sb.WriteString(fmt.Sprintf("-- Source table: %s\n", schema.Name))
	sb.WriteString(fmt.Sprintf("-- Generated at: %s\n", generatedAt.Format("2006-01-02 15:04:05")))
	for _, m := range mappings {
		if m.FieldType != "" {
			sb.WriteString(fmt.Sprintf("--   %s -> %s (declared: %s)\n", m.Source, stripSpaces(m.Target), m.FieldType))
		}
	}

	sb.WriteString(fmt.Sprintf("CREATE OR ALTER PROCEDURE [dbo].[%s]\nAS\nBEGIN\n", procName))
	sb.WriteString("    SET NOCOUNT ON;\n\n")
	sb.WriteString(fmt.Sprintf("    IF OBJECT_ID('dbo.%s', 'U') IS NOT NULL\n", staging))
	sb.WriteString(fmt.Sprintf("        DROP TABLE [dbo].[%s];\n\n", staging))
	sb.WriteString("    SELECT\n")
	sb.WriteString(strings.Join(selects, ",\n"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("    INTO [dbo].[%s]\n", staging))
	sb.WriteString(fmt.Sprintf("    FROM [dbo].[%s];\n\n", schema.Name))
	sb.WriteString(fmt.Sprintf("    PRINT 'Rows inserted into %s: ' + CAST(@@ROWCOUNT AS NVARCHAR(20));\n", staging))
	sb.WriteString("END\n")

	return sb.String(), procName, nil
}

// resolveSourceColumn matches a mapping source against the schema, first by
// the raw header token, then by the normalized identifier the token would
// produce. Matching is case-insensitive.
func resolveSourceColumn(schema TableSchema, source string) (InferredColumn, bool) {
	for _, col := range schema.Columns {
		if strings.EqualFold(col.Original, source) {
			return col, true
		}
	}
	normalized := normalizeToken(source)
	for _, col := range schema.Columns {
		if strings.EqualFold(col.Name, normalized) {
			return col, true
		}
	}
	return InferredColumn{}, false
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
