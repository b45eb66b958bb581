package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv, err := LoadInventory(path)
	require.NoError(t, err)

	std, ok := inv.Find("standard")
	require.True(t, ok)
	assert.Equal(t, 1250.0, std.Width)
	assert.Equal(t, 2500.0, std.Height)

	// The default catalog is written back for editing.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv := Inventory{Stocks: []StockSheet{
		{ID: "oversize", Label: "Oversize", Width: 1500, Height: 3000, Quantity: 4},
	}}
	require.NoError(t, SaveInventory(path, inv))

	loaded, err := LoadInventory(path)
	require.NoError(t, err)
	require.Len(t, loaded.Stocks, 1)
	assert.Equal(t, 3000.0, loaded.Stocks[0].Height)
}

func TestLoadInventoryRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadInventory(path)
	assert.Error(t, err)
}

func TestImportInventorySkipsKnownIDs(t *testing.T) {
	dir := t.TempDir()
	importPath := filepath.Join(dir, "import.json")

	imported := Inventory{Stocks: []StockSheet{
		{ID: "standard", Label: "Duplicate", Width: 1, Height: 1},
		{ID: "oversize", Label: "Oversize", Width: 1500, Height: 3000},
	}}
	data, err := json.Marshal(imported)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(importPath, data, 0644))

	merged, err := ImportInventory(importPath, DefaultInventory())
	require.NoError(t, err)

	require.Len(t, merged.Stocks, 2)
	std, ok := merged.Find("standard")
	require.True(t, ok)
	assert.Equal(t, "Standard sheet", std.Label)
	_, ok = merged.Find("oversize")
	assert.True(t, ok)
}
