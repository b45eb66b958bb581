package document

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewShape(t *testing.T) {
	doc := buildTestDoc(t, true)
	p := Preview(doc)

	assert.Equal(t, doc.ID, p.ID)
	assert.Equal(t, doc.Metadata, p.Metadata)
	require.Len(t, p.Frames, 2)
	require.Len(t, p.Holes, 2)
	assert.Len(t, p.Annotations, len(doc.Dimensions))
	assert.Len(t, p.Labels, 2)

	outer := p.Frames[0]
	assert.Equal(t, "outer", outer.Name)
	require.Len(t, outer.Points, 4)
	assert.Equal(t, [2]float64{20, 20}, outer.Points[0])

	hole := p.Holes[0]
	assert.Equal(t, "hinge_top", hole.Name)
	assert.Equal(t, 5.0, hole.Radius)
}

func TestEncodePreviewWireFormat(t *testing.T) {
	doc := buildTestDoc(t, true)

	var buf bytes.Buffer
	require.NoError(t, EncodePreview(&buf, doc))

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &wire))
	for _, key := range []string{"id", "metadata", "frames", "cutouts", "holes", "annotations", "labels"} {
		assert.Contains(t, wire, key)
	}

	// Annotations keep the symbolic from/to/offset/text fields.
	var anns []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(wire["annotations"], &anns))
	require.NotEmpty(t, anns)
	for _, key := range []string{"from", "to", "offset", "text"} {
		assert.Contains(t, anns[0], key)
	}

	var meta map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(wire["metadata"], &meta))
	assert.Contains(t, meta, "is_annotation_required")
	assert.Contains(t, meta, "offset")
}
