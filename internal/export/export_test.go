package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/model"
)

func buildTestDoc(t *testing.T, annotate bool) *model.GeometryDocument {
	t.Helper()
	eng := geometry.NewEngine(model.DefaultGeometryConfig())
	doc, err := eng.Build(geometry.BuildRequest{
		Spec: model.DoorSpec{Category: model.CategorySingle, Subtype: model.SubtypeNormal},
		Dims: model.Dimensions{WidthMeasurement: 900, HeightMeasurement: 2100}.WithUniformAllowance(25),
		Mfg:  model.DefaultManufacturing(),

		Label:    "D-01",
		FileName: "D-01.dxf",
		Annotate: annotate,
	})
	require.NoError(t, err)
	return doc
}

func testCAD(t *testing.T, annotate bool) *document.CADDocument {
	t.Helper()
	return document.NewBuilder(model.DefaultGeometryConfig()).CAD(buildTestDoc(t, annotate))
}

func TestWriteDXFLayersAndEntities(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDXF(&buf, testCAD(t, true)))

	out := buf.String()
	assert.Contains(t, out, "CUT")
	assert.Contains(t, out, "DIMENSIONS")
	assert.NotContains(t, out, "BIN", "single door export must not declare the stock layer")
	assert.Contains(t, out, "LWPOLYLINE")
	assert.Contains(t, out, "CIRCLE")
	assert.Contains(t, out, "TEXT")
	assert.Contains(t, out, "D-01")
}

func TestWriteDXFCutOnly(t *testing.T) {
	eng := geometry.NewEngine(model.DefaultGeometryConfig())
	doc, err := eng.Build(geometry.BuildRequest{
		Spec: model.DoorSpec{Category: model.CategorySingle, Subtype: model.SubtypeNormal},
		Dims: model.Dimensions{WidthMeasurement: 900, HeightMeasurement: 2100}.WithUniformAllowance(25),
		Mfg:  model.DefaultManufacturing(),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDXF(&buf, document.NewBuilder(model.DefaultGeometryConfig()).CAD(doc)))

	out := buf.String()
	assert.Contains(t, out, "CUT")
	assert.NotContains(t, out, "DIMENSIONS")
}

func TestSaveDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "door.dxf")
	require.NoError(t, SaveDXF(path, testCAD(t, true)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutsheet.pdf")
	docs := []*model.GeometryDocument{buildTestDoc(t, true), buildTestDoc(t, false)}

	require.NoError(t, ExportPDF(path, docs, model.DefaultGeometryConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportPDFEmptyInput(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "x.pdf"), nil, model.DefaultGeometryConfig())
	assert.ErrorIs(t, err, document.ErrSerialization)
}

func TestExportLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, []*model.GeometryDocument{buildTestDoc(t, false)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestWriteArchive(t *testing.T) {
	var buf bytes.Buffer
	summary := BatchSummary{
		GeneratedAt: time.Now().UTC(),
		Sheets:      []SheetSummary{{FileName: "sheet_1.dxf", Doors: 1, Width: 1250, Height: 2500}},
		Doors:       []DoorSummary{{Name: "D-01", Sheet: 1, Width: 913, Height: 2080}},
		Failures:    []RowFailure{{Name: "D-02", Error: "degenerate geometry"}},
	}

	err := WriteArchive(&buf, []ArchiveEntry{{Name: "sheet_1.dxf", CAD: testCAD(t, false)}}, summary)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.Contains(t, names, "sheet_1.dxf")
	assert.Contains(t, names, "summary.json")

	for _, f := range zr.File {
		if f.Name != "summary.json" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		var got BatchSummary
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got.Failures, 1)
		assert.Equal(t, "D-02", got.Failures[0].Name)
		assert.Equal(t, "D-01", got.Doors[0].Name)
	}
}
