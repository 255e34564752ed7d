package csvimport

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	t.Run("reads header and rows", func(t *testing.T) {
		data := []byte("reference,name,price\nREF-1,Oil filter,12.50\nREF-2,Air filter,8.00\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"reference", "name", "price"}, r.Headers())

		rows, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].Number)
		assert.Equal(t, "REF-1", rows[0].Get(0))
		assert.Equal(t, 2, rows[1].Number)
		assert.Equal(t, "Air filter", rows[1].Get(1))
	})

	t.Run("strips BOM from header", func(t *testing.T) {
		data := []byte("\xEF\xBB\xBFreference,name\nREF-1,Oil filter\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"reference", "name"}, r.Headers())
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewReaderFromBytes(nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("blank lines only", func(t *testing.T) {
		_, err := NewReaderFromBytes([]byte("\n\n"))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		data := []byte("reference,name\nREF-1,\xFF\xFE\n")
		_, err := NewReaderFromBytes(data)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		data := []byte("reference;name\nREF-1;Filtre à huile\n")
		r, err := NewReaderFromBytes(data, WithDelimiter(';'))
		require.NoError(t, err)
		assert.Equal(t, []string{"reference", "name"}, r.Headers())

		row, err := r.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Filtre à huile", row.Get(1))
	})

	t.Run("no header synthesizes column labels", func(t *testing.T) {
		data := []byte("REF-1,Oil filter\nREF-2,Air filter\n")
		r, err := NewReaderFromBytes(data, WithHeader(false))
		require.NoError(t, err)
		assert.Equal(t, []string{"Col1", "Col2"}, r.Headers())

		rows, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "REF-1", rows[0].Get(0))
		assert.Equal(t, 1, rows[0].Number)
	})
}

func TestReaderRows(t *testing.T) {
	t.Run("skips blank rows and keeps numbering dense", func(t *testing.T) {
		data := []byte("reference,name\nREF-1,Oil filter\n,\n\nREF-2,Air filter\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)

		rows, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].Number)
		assert.Equal(t, 2, rows[1].Number)
	})

	t.Run("short rows are padded", func(t *testing.T) {
		data := []byte("reference,name,price\nREF-1,Oil filter\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)

		row, err := r.ReadRow()
		require.NoError(t, err)
		assert.Len(t, row.Cells, 3)
		assert.Equal(t, "", row.Get(2))
	})

	t.Run("long rows are truncated", func(t *testing.T) {
		data := []byte("reference,name\nREF-1,Oil filter,extra,more\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)

		row, err := r.ReadRow()
		require.NoError(t, err)
		assert.Len(t, row.Cells, 2)
	})

	t.Run("cells are trimmed", func(t *testing.T) {
		data := []byte("reference,name\n  REF-1  ,  Oil filter \n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)

		row, err := r.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "REF-1", row.Get(0))
		assert.Equal(t, "Oil filter", row.Get(1))
	})

	t.Run("get out of range returns empty", func(t *testing.T) {
		row := &Row{Cells: []string{"a"}}
		assert.Equal(t, "", row.Get(-1))
		assert.Equal(t, "", row.Get(5))
	})

	t.Run("eof after last row", func(t *testing.T) {
		data := []byte("reference\nREF-1\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)

		_, err = r.ReadRow()
		require.NoError(t, err)
		_, err = r.ReadRow()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("row limit caps ReadAll", func(t *testing.T) {
		data := []byte("reference\nREF-1\nREF-2\nREF-3\n")
		r, err := NewReaderFromBytes(data, WithRowLimit(2))
		require.NoError(t, err)

		rows, err := r.ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("quoted cells with embedded delimiter", func(t *testing.T) {
		data := []byte("reference,name\nREF-1,\"Filter, oil\"\n")
		r, err := NewReaderFromBytes(data)
		require.NoError(t, err)

		row, err := r.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Filter, oil", row.Get(1))
	})
}
