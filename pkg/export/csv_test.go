package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterQuotesCommas(t *testing.T) {
	out, err := NewCSVExporter().Render(Table{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "x, y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x, y\"\n", string(out))

	_, err = NewCSVExporter().Render(Table{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render(Table{})
	assert.Error(t, err)
}

func TestCSVReaderRoundTrip(t *testing.T) {
	table := Table{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "x, y"}, {"2", "z"}}}
	out, err := NewCSVExporter().Render(table)
	require.NoError(t, err)

	records, diagnostics := NewCSVReader(table.Headers).Read(out)
	assert.Empty(t, diagnostics)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "x, y"}, records[0].Fields)
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, 3, records[1].Line)
}

func TestCSVReaderDiagnostics(t *testing.T) {
	input := "\xef\xbb\xbfa,b\n1,2\n\n3,4,5\n6,\"bad\n"
	records, diagnostics := NewCSVReader([]string{"a", "b"}).Read([]byte(input))

	require.Len(t, records, 1)
	assert.Equal(t, []string{"1", "2"}, records[0].Fields)
	require.Len(t, diagnostics, 2)
	assert.Equal(t, 4, diagnostics[0].Line)
	assert.Contains(t, diagnostics[0].Reason, "expected 2 fields")
	assert.Equal(t, 5, diagnostics[1].Line)
}

func TestCSVReaderHeaderMismatch(t *testing.T) {
	records, diagnostics := NewCSVReader([]string{"a", "b"}).Read([]byte("a,c\n1,2\n"))
	assert.Nil(t, records)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 2, diagnostics[0].Column)
	assert.Equal(t, "b", diagnostics[0].Field)

	_, diagnostics = NewCSVReader([]string{"a"}).Read(nil)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "missing header row", diagnostics[0].Reason)
}
