package menu

import "menuforge/internal"

type accumulator struct {
	modifiers map[string]struct{}
	hasBase   bool
}

// Aggregator collapses parsed rows by (category, base name, size). Multiple
// raw rows referring to the same dish at the same size merge into one group
// carrying the union of all modifier phrases ever seen. Insertion order is
// irrelevant; there is no removal.
type Aggregator struct {
	groups map[internal.AggregationKey]*accumulator
}

func NewAggregator() *Aggregator {
	return &Aggregator{groups: map[internal.AggregationKey]*accumulator{}}
}

func (a *Aggregator) Add(category internal.Category, parsed internal.ParsedName) {
	key := internal.AggregationKey{Category: category, BaseName: parsed.BaseName, Size: parsed.Size}
	acc, ok := a.groups[key]
	if !ok {
		acc = &accumulator{modifiers: map[string]struct{}{}}
		a.groups[key] = acc
	}
	for _, m := range parsed.Modifiers {
		acc.modifiers[m] = struct{}{}
	}
	if parsed.IsBaseItem {
		acc.hasBase = true
	}
}

func (a *Aggregator) Len() int {
	return len(a.groups)
}
