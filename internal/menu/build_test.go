package menu

import (
	"testing"

	"menuforge/internal"
)

func TestBuildMenuItemIDs(t *testing.T) {
	agg := NewAggregator()
	agg.Add(internal.CategoryBeverages, Parse("Coca-Cola, Small"))
	agg.Add(internal.CategoryBeverages, Parse("Coca-Cola"))
	agg.Add(internal.CategorySnacksSides, Parse("Chicken McNuggets, 20 pc"))

	m := BuildMenu(agg)
	ids := map[string]bool{}
	for _, item := range m.Items {
		ids[item.ItemID] = true
		if item.Quantity != 1 {
			t.Fatalf("quantity=%d", item.Quantity)
		}
		if len(item.Modifiers) != 0 {
			t.Fatalf("modifiers not empty: %+v", item.Modifiers)
		}
	}
	for _, want := range []string{"coca-cola-small", "coca-cola", "chicken-mcnuggets-large"} {
		if !ids[want] {
			t.Fatalf("missing id %q in %v", want, ids)
		}
	}
}

func TestBuildMenuOrdering(t *testing.T) {
	agg := NewAggregator()
	agg.Add(internal.CategoryDesserts, Parse("Baked Apple Pie"))
	agg.Add(internal.CategoryBeverages, Parse("Sprite"))
	agg.Add(internal.CategoryBeverages, Parse("Coca-Cola"))

	m := BuildMenu(agg)
	if len(m.Items) != 3 {
		t.Fatalf("items=%d", len(m.Items))
	}
	if m.Items[0].Name != "Coca-Cola" || m.Items[1].Name != "Sprite" || m.Items[2].Name != "Baked Apple Pie" {
		t.Fatalf("order wrong: %s, %s, %s", m.Items[0].Name, m.Items[1].Name, m.Items[2].Name)
	}
}

func TestValidateMenuRoundTrip(t *testing.T) {
	agg := NewAggregator()
	agg.Add(internal.CategoryBeefPork, Parse("McDouble with Bacon"))
	agg.Add(internal.CategoryBreakfast, Parse("Sausage McMuffin"))

	m := BuildMenu(agg)
	if m.MenuID != MenuID || m.Name != MenuName {
		t.Fatalf("menu identity: %s %s", m.MenuID, m.Name)
	}
	if err := ValidateMenu(m); err != nil {
		t.Fatal(err)
	}
}

func TestValidateMenuRejectsBadItem(t *testing.T) {
	m := internal.Menu{
		MenuID: MenuID,
		Name:   MenuName,
		Items: []internal.MenuItem{{
			ItemID:             "",
			Name:               "Broken",
			CategoryName:       internal.CategoryDesserts,
			Size:               internal.SizeMedium,
			Quantity:           1,
			Modifiers:          []internal.ModifierOption{},
			AvailableModifiers: []internal.ModifierOption{},
		}},
	}
	if err := ValidateMenu(m); err == nil {
		t.Fatal("expected validation error")
	}
}
