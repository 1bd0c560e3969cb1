package menu

import "menuforge/internal"

// Fixed lookup tables, data not code. New categories or sizes are added here
// without touching parsing control flow.

var CategoryMap = map[string]internal.Category{
	"Breakfast":          internal.CategoryBreakfast,
	"Beef & Pork":        internal.CategoryBeefPork,
	"Chicken & Fish":     internal.CategoryChickenFish,
	"Salads":             internal.CategorySalads,
	"Snacks & Sides":     internal.CategorySnacksSides,
	"Desserts":           internal.CategoryDesserts,
	"Beverages":          internal.CategoryBeverages,
	"Coffee & Tea":       internal.CategoryCoffeeTea,
	"Smoothies & Shakes": internal.CategorySmoothiesShakes,
}

var sizeWords = map[string]internal.Size{
	"small":   internal.SizeSmall,
	"medium":  internal.SizeMedium,
	"large":   internal.SizeLarge,
	"kids":    internal.SizeSmall,
	"regular": internal.SizeMedium,
	"snack":   internal.SizeSnack,
}

var pcSizes = map[int]internal.Size{
	4:  internal.SizeSnack,
	6:  internal.SizeSmall,
	10: internal.SizeMedium,
	20: internal.SizeLarge,
	40: internal.SizeLarge,
}

// Names that use "with" but must never have modifiers extracted.
var nonCollapsiblePrefixes = []string{
	"McFlurry with",
}
