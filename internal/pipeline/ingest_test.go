package pipeline

import (
	"testing"

	"menuforge/internal"
)

func TestIngestorCountsAndDedupes(t *testing.T) {
	rows := []internal.RawRow{
		{LineNo: 1, Source: internal.SourceCSV, CategoryLabel: "Beverages", ItemName: "Coca-Cola"},
		{LineNo: 2, Source: internal.SourceCSV, CategoryLabel: "Beverages", ItemName: "  Coca-Cola  "},
		{LineNo: 3, Source: internal.SourceCSV, CategoryLabel: "", ItemName: "Orphan"},
		{LineNo: 4, Source: internal.SourceCSV, CategoryLabel: "Beverages", ItemName: "   "},
		{LineNo: 5, Source: internal.SourceCSV, CategoryLabel: "Sushi", ItemName: "Dragon Roll"},
		{LineNo: 6, Source: internal.SourceCSV, CategoryLabel: "Desserts", ItemName: "Baked Apple Pie"},
	}

	ingestor := NewIngestor()
	kept := 0
	for i := range rows {
		if _, ok := ingestor.Ingest(&rows[i]); ok {
			kept++
		}
	}

	stats := ingestor.Stats()
	if stats.TotalRows != 6 {
		t.Fatalf("total=%d", stats.TotalRows)
	}
	if stats.SkippedEmpty != 2 {
		t.Fatalf("empty=%d", stats.SkippedEmpty)
	}
	if stats.SkippedDuplicate != 1 {
		t.Fatalf("duplicate=%d", stats.SkippedDuplicate)
	}
	if stats.SkippedUnknownCategory != 1 {
		t.Fatalf("unknown=%d", stats.SkippedUnknownCategory)
	}
	if stats.Processed != 2 || kept != 2 {
		t.Fatalf("processed=%d kept=%d", stats.Processed, kept)
	}
}

func TestIngestorMapsCategoryLabel(t *testing.T) {
	row := internal.RawRow{LineNo: 1, CategoryLabel: "Coffee & Tea", ItemName: "Iced Caramel Mocha"}
	ingestor := NewIngestor()
	category, ok := ingestor.Ingest(&row)
	if !ok {
		t.Fatal("row dropped")
	}
	if category != internal.CategoryCoffeeTea {
		t.Fatalf("category=%q", category)
	}
}
