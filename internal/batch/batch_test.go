package batch

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecut/framecut/internal/export"
	"github.com/framecut/framecut/internal/importer"
	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/preset"
)

func testRunner() *Runner {
	return NewRunner(model.DefaultAppConfig(), preset.BuiltinTable())
}

func singleRow(name string, width, height float64) importer.Row {
	return importer.Row{
		Name: name,
		Spec: model.DoorSpec{Category: model.CategorySingle, Subtype: model.SubtypeNormal},
		Dims: model.Dimensions{
			WidthMeasurement:      width,
			HeightMeasurement:     height,
			LeftAllowanceWidth:    25,
			RightAllowanceWidth:   25,
			TopAllowanceHeight:    25,
			BottomAllowanceHeight: 25,
		},
	}
}

func TestRunNestsAllDoors(t *testing.T) {
	r := testRunner()

	rows := []importer.Row{
		singleRow("D-01", 900, 2100),
		singleRow("D-02", 550, 2000),
		singleRow("D-03", 550, 2000),
	}
	out, err := r.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Empty(t, out.Summary.Failures)
	assert.Len(t, out.Doors, 3)
	assert.Len(t, out.Summary.Doors, 3)
	assert.Equal(t, len(out.Entries), len(out.Summary.Sheets))
	require.NotEmpty(t, out.Sheets)

	total := 0
	for _, s := range out.Summary.Sheets {
		total += s.Doors
	}
	assert.Equal(t, 3, total)
}

func TestRunReportsRowFailures(t *testing.T) {
	r := testRunner()

	bad := singleRow("D-02", 10, 2100)
	rows := []importer.Row{singleRow("D-01", 900, 2100), bad, singleRow("D-03", 800, 2000)}

	out, err := r.Run(context.Background(), rows)
	require.NoError(t, err)

	require.Len(t, out.Summary.Failures, 1)
	assert.Equal(t, "D-02", out.Summary.Failures[0].Name)
	assert.Contains(t, out.Summary.Failures[0].Error, "degenerate")
	assert.Len(t, out.Summary.Doors, 2)
}

func TestRunRejectsInvalidClassification(t *testing.T) {
	r := testRunner()

	row := singleRow("D-01", 900, 2100)
	row.Spec.Option = model.OptionStandardDouble

	out, err := r.Run(context.Background(), []importer.Row{row})
	require.NoError(t, err)
	require.Len(t, out.Summary.Failures, 1)
	assert.Contains(t, out.Summary.Failures[0].Error, "classification")
	assert.Empty(t, out.Summary.Doors)
	assert.Empty(t, out.Entries)
}

func TestRunReportsOversizedDoors(t *testing.T) {
	r := testRunner()
	// Taller than the stock sheet in both orientations.
	out, err := r.Run(context.Background(), []importer.Row{singleRow("D-01", 900, 3000)})
	require.NoError(t, err)

	require.Len(t, out.Summary.Failures, 1)
	assert.Contains(t, out.Summary.Failures[0].Error, "stock sheet")
	assert.Empty(t, out.Entries)
}

func TestWriteZipRoundTrip(t *testing.T) {
	r := testRunner()
	out, err := r.Run(context.Background(), []importer.Row{singleRow("D-01", 900, 2100)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteZip(&buf, out))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var summary *export.BatchSummary
	sawSheet := false
	for _, f := range zr.File {
		switch {
		case f.Name == "summary.json":
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			summary = &export.BatchSummary{}
			require.NoError(t, json.Unmarshal(data, summary))
		case strings.HasSuffix(f.Name, ".dxf"):
			sawSheet = true
		}
	}
	require.NotNil(t, summary)
	assert.True(t, sawSheet)
	assert.Len(t, summary.Doors, 1)
	assert.Equal(t, "D-01", summary.Doors[0].Name)
}
