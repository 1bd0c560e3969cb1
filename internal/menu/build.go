package menu

import (
	"sort"

	"menuforge/internal"
	"menuforge/internal/util"
)

const (
	MenuID   = "mcd-main-menu"
	MenuName = "McDonald's Menu"
)

// BuildMenu emits one item per aggregation key. Item ids derive from the
// base-name slug, suffixed with the size unless medium. Slug collisions
// between distinct names are accepted, not detected.
func BuildMenu(agg *Aggregator) internal.Menu {
	items := make([]internal.MenuItem, 0, len(agg.groups))
	for key, acc := range agg.groups {
		names := make([]string, 0, len(acc.modifiers))
		for name := range acc.modifiers {
			names = append(names, name)
		}
		sort.Strings(names)

		available := make([]internal.ModifierOption, 0, len(names))
		for _, name := range names {
			available = append(available, internal.ModifierOption{ModifierID: util.Slugify(name), Name: name})
		}

		itemID := util.Slugify(key.BaseName)
		if key.Size != internal.SizeMedium {
			itemID = itemID + "-" + string(key.Size)
		}

		items = append(items, internal.MenuItem{
			ItemID:             itemID,
			Name:               key.BaseName,
			CategoryName:       key.Category,
			Size:               key.Size,
			Quantity:           1,
			Modifiers:          []internal.ModifierOption{},
			AvailableModifiers: available,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CategoryName != items[j].CategoryName {
			return items[i].CategoryName < items[j].CategoryName
		}
		return items[i].Name < items[j].Name
	})

	return internal.Menu{MenuID: MenuID, Name: MenuName, Items: items}
}
