package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cordex/domain/table"
	"cordex/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `cord_uid,title,abstract,publish_time,journal,source_x,mag_id,pubmed_id
u1,"Clinical features, of COVID",a b c,2020-03-01,Lancet,PMC,,32109013
u2,Second paper,,bad-date,,Medline,,not-a-number
u3,Third,d,,BMJ,PMC,,32109015
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "metadata.csv", sampleCSV)

	tbl, digest, err := reader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	rows, cols := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 8, cols)

	title, err := tbl.Column("title")
	require.NoError(t, err)
	assert.Equal(t, table.ColumnText, title.Type)
	assert.Equal(t, "Clinical features, of COVID", title.Values[0].AsString())

	abstract, _ := tbl.Column("abstract")
	assert.True(t, abstract.Values[1].Missing())

	magID, _ := tbl.Column("mag_id")
	assert.Equal(t, table.ColumnNumeric, magID.Type, "all-empty columns load as numeric")
	assert.Equal(t, 3, magID.MissingCount())

	pubmed, _ := tbl.Column("pubmed_id")
	assert.Equal(t, table.ColumnNumeric, pubmed.Type)
	assert.True(t, pubmed.Values[1].Missing(), "unparseable numeric cell becomes missing")
	f, ok := pubmed.Values[2].AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 32109015.0, f)

	publish, _ := tbl.Column("publish_time")
	assert.Equal(t, table.ColumnText, publish.Type, "dates stay text until derivation")
}

func TestLoadIsStable(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "metadata.csv", sampleCSV)

	first, d1, err := reader.Load(context.Background(), path)
	require.NoError(t, err)
	second, d2, err := reader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	for i, col := range first.Columns() {
		assert.Equal(t, col.Type, second.Columns()[i].Type)
	}
}

func TestLoadRaggedRowsAndBOM(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "ragged.csv", "\ufefftitle,journal,year\nA,Lancet\nB,BMJ,2020,extra\n")

	tbl, _, err := reader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "journal", "year"}, tbl.ColumnNames())

	year, _ := tbl.Column("year")
	assert.True(t, year.Values[0].Missing())
}

func TestLoadDuplicateHeaders(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "dup.csv", "a,a,\n1,2,3\n")

	tbl, _, err := reader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2"}, tbl.ColumnNames())
}

func TestLoadMissingFile(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)

	_, _, err := reader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDataSource))
}

func TestLoadEmptyFile(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "empty.csv", "")

	_, _, err := reader.Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDataSource))
}

func TestLoadUnsupportedType(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "data.parquet", "PAR1")

	_, _, err := reader.Load(context.Background(), path)
	assert.True(t, errors.HasCode(err, errors.CodeDataSource))
}

func TestLoadCanceledContext(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)
	path := writeFile(t, "metadata.csv", sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := reader.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]interface{}{
		{"title", "journal", "pubmed_id"},
		{"A", "Lancet", 101},
		{"B", nil, 102},
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "metadata.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader := NewDataReader(DefaultReaderConfig(), nil)
	tbl, digest, err := reader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.Equal(t, 2, tbl.NumRows())

	journal, _ := tbl.Column("journal")
	assert.True(t, journal.Values[1].Missing())

	pubmed, _ := tbl.Column("pubmed_id")
	assert.Equal(t, table.ColumnNumeric, pubmed.Type)
}
