package menu

import (
	"reflect"
	"testing"

	"menuforge/internal"
)

func TestAggregatorMergesByKey(t *testing.T) {
	agg := NewAggregator()
	agg.Add(internal.CategoryBeefPork, Parse("McDouble"))
	agg.Add(internal.CategoryBeefPork, Parse("McDouble with Bacon"))
	agg.Add(internal.CategoryBeefPork, Parse("McDouble with Bacon and Cheese"))

	if agg.Len() != 1 {
		t.Fatalf("groups=%d", agg.Len())
	}

	m := BuildMenu(agg)
	if len(m.Items) != 1 {
		t.Fatalf("items=%d", len(m.Items))
	}
	mods := m.Items[0].AvailableModifiers
	if len(mods) != 2 || mods[0].Name != "Bacon" || mods[1].Name != "Cheese" {
		t.Fatalf("modifiers=%+v", mods)
	}
}

func TestAggregatorOrderIndependent(t *testing.T) {
	rows := []struct {
		category internal.Category
		name     string
	}{
		{internal.CategoryBeefPork, "McDouble"},
		{internal.CategoryBeefPork, "McDouble with Bacon"},
		{internal.CategoryChickenFish, "Premium McWrap Chicken & Bacon, Crispy Chicken"},
		{internal.CategoryBeverages, "Coca-Cola, Small"},
		{internal.CategoryBeverages, "Coca-Cola, Large"},
	}

	forward := NewAggregator()
	for _, r := range rows {
		forward.Add(r.category, Parse(r.name))
	}
	backward := NewAggregator()
	for i := len(rows) - 1; i >= 0; i-- {
		backward.Add(rows[i].category, Parse(rows[i].name))
	}

	if !reflect.DeepEqual(BuildMenu(forward), BuildMenu(backward)) {
		t.Fatal("aggregation depends on insertion order")
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	once := NewAggregator()
	once.Add(internal.CategoryBeefPork, Parse("McDouble with Bacon"))

	twice := NewAggregator()
	twice.Add(internal.CategoryBeefPork, Parse("McDouble with Bacon"))
	twice.Add(internal.CategoryBeefPork, Parse("McDouble with Bacon"))

	if !reflect.DeepEqual(BuildMenu(once), BuildMenu(twice)) {
		t.Fatal("aggregation is not idempotent")
	}
}
