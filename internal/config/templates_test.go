package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecut/framecut/internal/model"
)

func TestTemplateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	var store TemplateStore
	store.Upsert(DoorTemplate{
		Name: "office-900",
		Spec: model.DoorSpec{Category: model.CategorySingle, Subtype: model.SubtypeNormal},
		Dims: model.Dimensions{WidthMeasurement: 900, HeightMeasurement: 2100},
	})
	require.NoError(t, SaveTemplates(path, store))

	loaded, err := LoadTemplates(path)
	require.NoError(t, err)

	tpl, ok := loaded.Find("office-900")
	require.True(t, ok)
	assert.Equal(t, 900.0, tpl.Dims.WidthMeasurement)
}

func TestLoadTemplatesMissingFileIsEmpty(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, store.Templates)
}

func TestUpsertReplacesByName(t *testing.T) {
	var store TemplateStore
	store.Upsert(DoorTemplate{Name: "a", Dims: model.Dimensions{WidthMeasurement: 800}})
	store.Upsert(DoorTemplate{Name: "a", Dims: model.Dimensions{WidthMeasurement: 900}})

	require.Len(t, store.Templates, 1)
	tpl, ok := store.Find("a")
	require.True(t, ok)
	assert.Equal(t, 900.0, tpl.Dims.WidthMeasurement)
}

func TestFindUnknownTemplate(t *testing.T) {
	var store TemplateStore
	_, ok := store.Find("missing")
	assert.False(t, ok)
}
