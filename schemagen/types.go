package schemagen

import "fmt"

// SQLTypeKind is the closed set of SQL Server types the inference engine
// can produce, ordered from narrowest to broadest.
type SQLTypeKind int

const (
	TypeInt SQLTypeKind = iota
	TypeDecimal
	TypeDate
	TypeDateTime
	TypeNVarChar
	TypeNVarCharMax
)

// SQLType is an inferred SQL Server column type. Precision/Scale are only
// meaningful for TypeDecimal, Length only for TypeNVarChar.
type SQLType struct {
	Kind      SQLTypeKind
	Precision int
	Scale     int
	Length    int
}

// String renders the type as it appears in DDL.
func (t SQLType) String() string {
	switch t.Kind {
	case TypeInt:
		return "INT"
	case TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case TypeDate:
		return "DATE"
	case TypeDateTime:
		return "DATETIME"
	case TypeNVarChar:
		return fmt.Sprintf("NVARCHAR(%d)", t.Length)
	default:
		return "NVARCHAR(MAX)"
	}
}

// ColumnSample holds the raw header token of one column and the string
// values observed for it in the sampled rows. Empty values are kept so the
// nullable flag can be derived; they are skipped during type checks.
type ColumnSample struct {
	Header string
	Values []string
}

// InferredColumn is the result of running inference and normalization over
// one ColumnSample. It is never mutated after creation.
type InferredColumn struct {
	Name     string // normalized identifier, unique within the table
	Original string // raw header token, kept for documentation
	Type     SQLType
	Nullable bool
}

// Renamed reports whether normalization changed the header token.
func (c InferredColumn) Renamed() bool {
	return c.Name != c.Original
}

// TableSchema is the full inferred schema for one input file. It is built
// once per invocation and consumed immediately by the SQL templater.
type TableSchema struct {
	Name       string // final table name, src-prefixed
	Columns    []InferredColumn
	SourcePath string
}

// Column returns the column with the given normalized identifier.
func (s TableSchema) Column(name string) (InferredColumn, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return InferredColumn{}, false
}

// ColumnMapping is one row of the dictionary file driving stored-procedure
// generation: a source column, its English target name, and the declared
// field type. The declared type is informational only and never overrides
// sampled inference.
type ColumnMapping struct {
	Source    string
	Target    string
	FieldType string
}
