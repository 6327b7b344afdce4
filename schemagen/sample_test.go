package schemagen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadSamplesPipeDelimited(t *testing.T) {
	path := writeTempFile(t, "clients.txt", "Código|Nombre|Fecha\n1|Ana|2024-01-01\n2|Beto|2024-02-15\n")

	samples, err := ReadSamples(path, SampleOptions{})
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, "Código", samples[0].Header)
	assert.Equal(t, []string{"1", "2"}, samples[0].Values)
	assert.Equal(t, []string{"Ana", "Beto"}, samples[1].Values)
	assert.Equal(t, []string{"2024-01-01", "2024-02-15"}, samples[2].Values)
}

func TestReadSamplesCommaDelimited(t *testing.T) {
	path := writeTempFile(t, "data.csv", "a,b\n1,2\n")

	samples, err := ReadSamples(path, SampleOptions{Delimiter: ','})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, []string{"1"}, samples[0].Values)
}

func TestReadSamplesStripsBOM(t *testing.T) {
	path := writeTempFile(t, "bom.txt", "\ufeffId|Name\n1|Ana\n")

	samples, err := ReadSamples(path, SampleOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Id", samples[0].Header)
}

func TestReadSamplesMissingFile(t *testing.T) {
	_, err := ReadSamples("/path/does/not/exist.txt", SampleOptions{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestReadSamplesEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "")

	_, err := ReadSamples(path, SampleOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestReadSamplesHeaderOnly(t *testing.T) {
	path := writeTempFile(t, "header.txt", "Id|Name\n")

	samples, err := ReadSamples(path, SampleOptions{})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Empty(t, samples[0].Values)
}

func TestReadSamplesShortRowsPadded(t *testing.T) {
	path := writeTempFile(t, "short.txt", "a|b|c\n1|2\n")

	samples, err := ReadSamples(path, SampleOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, samples[2].Values)
}

func TestReadSamplesSkipsBlankRows(t *testing.T) {
	path := writeTempFile(t, "blank.txt", "a|b\n1|2\n|\n3|4\n")

	samples, err := ReadSamples(path, SampleOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, samples[0].Values)
}

func TestReadSamplesBounded(t *testing.T) {
	content := "n\n"
	for i := 0; i < 10; i++ {
		content += "1\n"
	}
	path := writeTempFile(t, "bounded.txt", content)

	samples, err := ReadSamples(path, SampleOptions{SampleRows: 3})
	require.NoError(t, err)
	assert.Len(t, samples[0].Values, 3)
}

func TestReadSamplesLatin1(t *testing.T) {
	// "Código" in ISO 8859-1: ó is byte 0xF3.
	raw := []byte("C\xf3digo|Nombre\n1|Ana\n")
	path := filepath.Join(t.TempDir(), "latin1.txt")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	samples, err := ReadSamples(path, SampleOptions{Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, "Código", samples[0].Header)
}

func TestReadSamplesUnsupportedEncoding(t *testing.T) {
	path := writeTempFile(t, "data.txt", "a|b\n1|2\n")

	_, err := ReadSamples(path, SampleOptions{Encoding: "ebcdic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}
