package pipeline

import (
	"menuforge/internal"
	"menuforge/internal/menu"
)

// IngestedRow is one surviving raw row with its mapped category and parsed
// name, kept for persistence and reporting.
type IngestedRow struct {
	Row      internal.RawRow
	Category internal.Category
	Parsed   internal.ParsedName
}

func IngestAndParse(rows []internal.RawRow) ([]IngestedRow, internal.IngestStats) {
	ingestor := NewIngestor()
	out := make([]IngestedRow, 0, len(rows))
	for _, row := range rows {
		category, ok := ingestor.Ingest(&row)
		if !ok {
			continue
		}
		out = append(out, IngestedRow{Row: row, Category: category, Parsed: menu.Parse(row.ItemName)})
	}
	return out, ingestor.Stats()
}

// Transform runs the whole single-pass pipeline over extracted rows:
// ingest, parse, aggregate, build, then the schema self-check. A validation
// failure is the only error and aborts the run.
func Transform(rows []internal.RawRow) (internal.Menu, []IngestedRow, internal.IngestStats, error) {
	ingested, stats := IngestAndParse(rows)

	agg := menu.NewAggregator()
	for _, r := range ingested {
		agg.Add(r.Category, r.Parsed)
	}

	m := menu.BuildMenu(agg)
	if err := menu.ValidateMenu(m); err != nil {
		return internal.Menu{}, nil, stats, err
	}
	return m, ingested, stats, nil
}
