package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"menuforge/internal"
	"menuforge/internal/config"
	"menuforge/internal/storage"
)

func TestSmokeEmailToMenu(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawSrc := filepath.Join("testdata", "menu_update.eml")
	rawBlob, err := os.ReadFile(rawSrc)
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := db.UpsertDocument("gmail", "<fixture-1@example.com>", "Weekly menu update", "vendor@example.com", "2026-08-24T10:00:00Z", "hash", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg)
	res, err := proc.ProcessDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	// 1 body line + 6 attachment rows, one exact duplicate collapsed.
	if res.Rows != 6 {
		t.Fatalf("result=%+v", res)
	}

	m, err := db.GetLatestMenu(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("no stored menu")
	}

	// Body line plus CSV attachment rows, duplicate collapsed: Sprite (large),
	// Coca-Cola (small, medium), McDouble, French Fries (small).
	byID := map[string]internal.MenuItem{}
	for _, item := range m.Items {
		byID[item.ItemID] = item
	}
	for _, want := range []string{"sprite-large", "coca-cola-small", "coca-cola", "mcdouble", "french-fries-small"} {
		if _, ok := byID[want]; !ok {
			t.Fatalf("missing item %s in %v", want, byID)
		}
	}
	burger := byID["mcdouble"]
	if burger.CategoryName != internal.CategoryBeefPork {
		t.Fatalf("category=%q", burger.CategoryName)
	}
	if len(burger.AvailableModifiers) != 1 || burger.AvailableModifiers[0].Name != "Bacon" {
		t.Fatalf("modifiers=%+v", burger.AvailableModifiers)
	}

	updated, err := db.GetDocumentByID(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated == nil || updated.Status != "processed" {
		t.Fatalf("doc=%+v", updated)
	}

	outJSON := filepath.Join(tmp, "menu.json")
	if err := WriteMenuJSON(*m, outJSON); err != nil {
		t.Fatal(err)
	}
	outXLSX := filepath.Join(tmp, "menu.xlsx")
	if err := ExportMenuToXLSX(*m, outXLSX); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outXLSX); err != nil {
		t.Fatal(err)
	}
}
