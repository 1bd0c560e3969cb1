package pipeline

import (
	"fmt"
	"strings"

	"menuforge/internal"
	"menuforge/internal/menu"
)

type dupKey struct {
	categoryLabel string
	itemName      string
}

// Ingestor applies the row-level policy: trim both fields, drop and count
// empties, drop and count exact (category, name) duplicates, map the
// category label through the fixed table. Dropping is never an error.
type Ingestor struct {
	seen  map[dupKey]struct{}
	stats internal.IngestStats
}

func NewIngestor() *Ingestor {
	return &Ingestor{seen: map[dupKey]struct{}{}}
}

func (g *Ingestor) Ingest(row *internal.RawRow) (internal.Category, bool) {
	g.stats.TotalRows++

	row.CategoryLabel = strings.TrimSpace(row.CategoryLabel)
	row.ItemName = strings.TrimSpace(row.ItemName)
	if row.CategoryLabel == "" || row.ItemName == "" {
		g.stats.SkippedEmpty++
		return "", false
	}

	key := dupKey{categoryLabel: row.CategoryLabel, itemName: row.ItemName}
	if _, ok := g.seen[key]; ok {
		g.stats.SkippedDuplicate++
		return "", false
	}
	g.seen[key] = struct{}{}

	category, ok := menu.CategoryMap[row.CategoryLabel]
	if !ok {
		fmt.Printf("  warning: unknown category %q - skipping\n", row.CategoryLabel)
		g.stats.SkippedUnknownCategory++
		return "", false
	}

	g.stats.Processed++
	return category, true
}

func (g *Ingestor) Stats() internal.IngestStats {
	return g.stats
}

func PrintStats(stats internal.IngestStats) {
	fmt.Println("\nRow processing stats:")
	fmt.Printf("  Total rows: %d\n", stats.TotalRows)
	fmt.Printf("  Skipped empty: %d\n", stats.SkippedEmpty)
	fmt.Printf("  Skipped duplicate: %d\n", stats.SkippedDuplicate)
	fmt.Printf("  Skipped unknown category: %d\n", stats.SkippedUnknownCategory)
	fmt.Printf("  Processed: %d\n", stats.Processed)
}
