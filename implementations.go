package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"csv2sql/schemagen"
)

type FileSampleReader struct{}

func NewFileSampleReader() SampleReader {
	return &FileSampleReader{}
}

func (r *FileSampleReader) ReadSamples(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
	return schemagen.ReadSamples(path, opts)
}

type FileMappingReader struct{}

func NewFileMappingReader() MappingReader {
	return &FileMappingReader{}
}

func (r *FileMappingReader) LoadMappings(path string) ([]schemagen.ColumnMapping, error) {
	return schemagen.LoadMappings(path)
}

// tableSQLFileName follows the {name}_create_table_{timestamp}.sql
// convention of the generated output files.
func tableSQLFileName(tableName string, t time.Time) string {
	return fmt.Sprintf("%s_create_table_%s.sql", tableName, t.Format("20060102_150405"))
}

func procedureSQLFileName(procName string) string {
	return fmt.Sprintf("%s.sql", procName)
}

// writeSQLFile persists generated SQL under outputDir and returns the full
// path.
func writeSQLFile(outputDir, fileName, sqlText string) (string, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	path := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(path, []byte(sqlText), 0644); err != nil {
		return "", fmt.Errorf("failed to write SQL file %s: %w", path, err)
	}
	return path, nil
}
