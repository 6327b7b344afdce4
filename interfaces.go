package main

import (
	"context"

	"csv2sql/schemagen"
)

// SampleReader reads a bounded row sample from a delimited input file
type SampleReader interface {
	// ReadSamples returns one ColumnSample per header token
	ReadSamples(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error)
}

// MappingReader loads the dictionary file driving procedure generation
type MappingReader interface {
	// LoadMappings returns the column mappings of the dictionary file
	LoadMappings(path string) ([]schemagen.ColumnMapping, error)
}

// SQLExecutor runs generated SQL against the target database
type SQLExecutor interface {
	// Connect opens and verifies the database connection
	Connect(ctx context.Context) error
	// Exec runs a single SQL statement
	Exec(ctx context.Context, statement string) error
	// Close releases the connection
	Close() error
}
