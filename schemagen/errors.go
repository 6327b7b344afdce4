package schemagen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyFile is returned when the input file has no header row.
var ErrEmptyFile = errors.New("input file is empty (no header row)")

// UnmappedColumnError is returned when a mapping entry references a source
// column that does not exist in the inferred table schema. Generation aborts
// rather than silently dropping the column from the migration.
type UnmappedColumnError struct {
	Column string
	Table  string
}

func (e *UnmappedColumnError) Error() string {
	return fmt.Sprintf("mapping references column %q which is not present in table %s", e.Column, e.Table)
}

// MalformedMappingError is returned when the dictionary file is missing one
// or more of its required header columns.
type MalformedMappingError struct {
	Path    string
	Missing []string
}

func (e *MalformedMappingError) Error() string {
	return fmt.Sprintf("mapping file %s is missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}
