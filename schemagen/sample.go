package schemagen

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	// DefaultDelimiter matches the pipe-delimited exports this tool was
	// built for.
	DefaultDelimiter = '|'

	// DefaultSampleRows bounds how many non-empty data rows feed inference.
	DefaultSampleRows = 100
)

// SampleOptions controls how an input file is read.
type SampleOptions struct {
	Delimiter  rune
	SampleRows int
	// Encoding selects an optional charset decode for legacy exports.
	// Supported: "" (UTF-8), "latin1", "windows-1252".
	Encoding string
}

func (o SampleOptions) withDefaults() SampleOptions {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.SampleRows <= 0 {
		o.SampleRows = DefaultSampleRows
	}
	return o
}

// ReadSamples reads the header row and up to SampleRows non-empty data rows
// from a delimited file, returning one ColumnSample per header token. Rows
// shorter than the header are padded with empty values; extra trailing
// fields are dropped.
func ReadSamples(path string, opts SampleOptions) ([]ColumnSample, error) {
	opts = opts.withDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer f.Close()

	reader, err := decodingReader(f, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(reader)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	samples := make([]ColumnSample, len(header))
	for i, token := range header {
		samples[i] = ColumnSample{Header: token}
	}

	kept := 0
	for kept < opts.SampleRows {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row from %s: %w", path, err)
		}
		if emptyRecord(record) {
			continue
		}
		for i := range samples {
			if i < len(record) {
				samples[i].Values = append(samples[i].Values, record[i])
			} else {
				samples[i].Values = append(samples[i].Values, "")
			}
		}
		kept++
	}

	return samples, nil
}

func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

func emptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// IsNotFound reports whether err stems from a missing input or mapping
// file.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
