package schemagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Required header columns of the dictionary/mapping file. Matching is
// case-insensitive and ignores surrounding whitespace.
const (
	mappingSourceHeader = "sge column name"
	mappingTargetHeader = "english column name"
	mappingTypeHeader   = "field type"
)

// LoadMappings reads the dictionary file driving stored-procedure
// generation. The file may be comma or pipe delimited; the delimiter is
// detected from the header row. Rows with an empty source column are
// skipped.
func LoadMappings(path string) ([]ColumnMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file %s: %w", path, err)
	}
	defer f.Close()

	header, records, err := readMappingRecords(f, path)
	if err != nil {
		return nil, err
	}

	srcIdx, tgtIdx, typeIdx := -1, -1, -1
	for i, token := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(token, "\ufeff"))) {
		case mappingSourceHeader:
			srcIdx = i
		case mappingTargetHeader:
			tgtIdx = i
		case mappingTypeHeader:
			typeIdx = i
		}
	}

	var missing []string
	if srcIdx < 0 {
		missing = append(missing, "SGE Column Name")
	}
	if tgtIdx < 0 {
		missing = append(missing, "English Column Name")
	}
	if typeIdx < 0 {
		missing = append(missing, "Field type")
	}
	if len(missing) > 0 {
		return nil, &MalformedMappingError{Path: path, Missing: missing}
	}

	var mappings []ColumnMapping
	for _, record := range records {
		m := ColumnMapping{
			Source:    strings.TrimSpace(field(record, srcIdx)),
			Target:    strings.TrimSpace(field(record, tgtIdx)),
			FieldType: strings.TrimSpace(field(record, typeIdx)),
		}
		if m.Source == "" {
			continue
		}
		mappings = append(mappings, m)
	}

	return mappings, nil
}

func readMappingRecords(f *os.File, path string) ([]string, [][]string, error) {
	for _, delimiter := range []rune{',', '|'} {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, nil, fmt.Errorf("failed to rewind mapping file %s: %w", path, err)
		}

		cr := csv.NewReader(f)
		cr.Comma = delimiter
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true

		header, err := cr.Read()
		if err == io.EOF {
			return nil, nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read mapping header from %s: %w", path, err)
		}

		// A header that did not split is the wrong delimiter, unless the
		// file really is single-column.
		if len(header) == 1 && delimiter == ',' && strings.ContainsRune(header[0], '|') {
			continue
		}

		records, err := cr.ReadAll()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read mapping rows from %s: %w", path, err)
		}
		return header, records, nil
	}
	return nil, nil, fmt.Errorf("failed to detect delimiter in mapping file %s", path)
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
