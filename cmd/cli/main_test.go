package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"cordex/domain/snapshot"
	"cordex/domain/stats"
	"cordex/internal/errors"
	"cordex/internal/pipeline"
	"cordex/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleSnapshot(t *testing.T) (*pipeline.Pipeline, *snapshot.Snapshot) {
	t.Helper()
	p := pipeline.New(nil, nil, pipeline.DefaultOptions(), nil, zap.NewNop())
	snap, err := p.Analyze(testkit.Table(testkit.SamplePapers()), snapshot.Source{Path: "metadata.csv"})
	require.NoError(t, err)
	return p, snap
}

func TestWriteReportFormats(t *testing.T) {
	p, snap := sampleSnapshot(t)
	view, err := p.Filter(snap, 2020, 2021, 20)
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, writeReport(&text, "text", snap, &view))
	assert.Contains(t, text.String(), "Top Journals")
	assert.Contains(t, text.String(), "Showing papers from 2020 to 2021: 2 papers")

	var md bytes.Buffer
	require.NoError(t, writeReport(&md, "Markdown", snap, &view))
	assert.Contains(t, md.String(), "# CORD-19 Data Explorer")

	var js bytes.Buffer
	require.NoError(t, writeReport(&js, "json", snap, &view))
	var decoded struct {
		Shape    snapshot.Shape `json:"shape"`
		Filtered struct {
			Matched int             `json:"matched"`
			Rows    [][]interface{} `json:"rows"`
		} `json:"filtered"`
	}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, 9, decoded.Shape.CleanColumns)
	assert.Equal(t, 2, decoded.Filtered.Matched)
	assert.Len(t, decoded.Filtered.Rows, 2)

	err = writeReport(&bytes.Buffer{}, "pdf", snap, &view)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestWriteFiltered(t *testing.T) {
	p, snap := sampleSnapshot(t)
	view, err := p.Filter(snap, 2019, 2019, 20)
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, writeFiltered(&js, "json", &view))
	var decoded struct {
		Low     int             `json:"low"`
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, 2019, decoded.Low)
	assert.Equal(t, []string{"title", "authors", "journal", "year"}, decoded.Columns)
	require.Len(t, decoded.Rows, 1)
	assert.Nil(t, decoded.Rows[0][0], "a5 has no title")

	assert.Error(t, writeFiltered(&bytes.Buffer{}, "markdown", &view))
}

func TestToFilteredJSONWithoutTable(t *testing.T) {
	out := toFilteredJSON(&stats.FilteredView{Low: 1, High: 2})
	assert.NotNil(t, out.Rows)
	assert.Empty(t, out.Columns)
}
