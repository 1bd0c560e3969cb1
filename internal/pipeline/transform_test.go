package pipeline

import (
	"strings"
	"testing"

	"menuforge/internal"
)

func TestTransformCollapsesSizesAndModifiers(t *testing.T) {
	input := "Category,Item\n" +
		"Beverages,\"Coca-Cola, Small\"\n" +
		"Beverages,\"Coca-Cola, Medium\"\n" +
		"Beverages,\"Coca-Cola, Large\"\n" +
		"Beef & Pork,McDouble\n" +
		"Beef & Pork,McDouble with Bacon\n" +
		"Beef & Pork,McDouble with Bacon and Cheese\n"
	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	m, ingested, stats, err := Transform(rows)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Processed != 6 || len(ingested) != 6 {
		t.Fatalf("processed=%d ingested=%d", stats.Processed, len(ingested))
	}

	// Three drink sizes stay separate items; the burger variants collapse
	// into one base item carrying the modifier union.
	if len(m.Items) != 4 {
		t.Fatalf("items=%d", len(m.Items))
	}

	var burger *internal.MenuItem
	for i := range m.Items {
		if m.Items[i].Name == "McDouble" {
			burger = &m.Items[i]
		}
	}
	if burger == nil {
		t.Fatal("McDouble missing")
	}
	if len(burger.AvailableModifiers) != 2 {
		t.Fatalf("modifiers=%v", burger.AvailableModifiers)
	}
	names := []string{}
	for _, mod := range burger.AvailableModifiers {
		names = append(names, mod.Name)
	}
	want := []string{"Bacon", "Cheese"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names=%v", names)
		}
	}
}

func TestTransformMenuIdentity(t *testing.T) {
	input := "Category,Item\nBreakfast,Hash Brown\n"
	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	m, _, _, err := Transform(rows)
	if err != nil {
		t.Fatal(err)
	}
	if m.MenuID != "mcd-main-menu" || m.Name != "McDonald's Menu" {
		t.Fatalf("menu=%+v", m)
	}
}
