package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/framecut/framecut/internal/model"
)

// StockSheet is one stock material entry available for nesting.
type StockSheet struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
}

// Inventory is the shop's stock sheet catalog.
type Inventory struct {
	Stocks []StockSheet `json:"stocks"`
}

// Find returns the stock entry with the given ID.
func (inv Inventory) Find(id string) (StockSheet, bool) {
	for _, s := range inv.Stocks {
		if s.ID == id {
			return s, true
		}
	}
	return StockSheet{}, false
}

// DefaultInventory returns the catalog with the standard stock sheet.
func DefaultInventory() Inventory {
	d := model.DefaultAppConfig()
	return Inventory{Stocks: []StockSheet{
		{ID: "standard", Label: "Standard sheet", Width: d.SheetWidth, Height: d.SheetHeight, Quantity: 0},
	}}
}

// DefaultInventoryPath returns ~/.framecut/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to a JSON file, creating parent
// directories as needed.
func SaveInventory(path string, inv Inventory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInventory reads the inventory from a JSON file. A missing file yields
// the default catalog, which is written back so it can be edited.
func LoadInventory(path string) (Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return Inventory{}, err
	}
	var inv Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return Inventory{}, fmt.Errorf("invalid inventory file %s: %w", path, err)
	}
	return inv, nil
}

// ImportInventory merges the stock entries from another inventory file into
// the existing catalog. Entries with known IDs are skipped.
func ImportInventory(path string, existing Inventory) (Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	known := make(map[string]bool, len(existing.Stocks))
	for _, s := range existing.Stocks {
		known[s.ID] = true
	}
	for _, s := range imported.Stocks {
		if !known[s.ID] {
			existing.Stocks = append(existing.Stocks, s)
			known[s.ID] = true
		}
	}
	return existing, nil
}
