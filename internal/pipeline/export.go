package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"menuforge/internal"
)

// WriteMenuJSON serializes the finished menu to its output artifact.
func WriteMenuJSON(m internal.Menu, outputPath string) error {
	blob, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, blob, 0o644)
}

// ExportMenuToXLSX writes a flat review sheet, one row per menu item.
func ExportMenuToXLSX(m internal.Menu, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"item_id", "name", "category_name", "size", "quantity",
		"modifier_count", "available_modifiers",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, item := range m.Items {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		names := make([]string, 0, len(item.AvailableModifiers))
		for _, mod := range item.AvailableModifiers {
			names = append(names, mod.Name)
		}

		set(1, item.ItemID)
		set(2, item.Name)
		set(3, string(item.CategoryName))
		set(4, string(item.Size))
		set(5, item.Quantity)
		set(6, len(item.AvailableModifiers))
		set(7, strings.Join(names, "; "))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
