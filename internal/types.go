package internal

type SourceKind string

const (
	SourceCSV       SourceKind = "csv"
	SourceXLSX      SourceKind = "xlsx"
	SourcePDF       SourceKind = "pdf"
	SourceHTMLTable SourceKind = "html_table"
	SourceEmailText SourceKind = "email_text"
)

// RawRow is one (category label, item name) pair as read from a source
// document, before category mapping. Discarded after parsing.
type RawRow struct {
	LineNo        int
	Source        SourceKind
	CategoryLabel string
	ItemName      string
	Meta          map[string]any
}

type Category string

const (
	CategoryBreakfast       Category = "Breakfast"
	CategoryBeefPork        Category = "Beef & Pork"
	CategoryChickenFish     Category = "Chicken & Fish"
	CategorySalads          Category = "Salads"
	CategorySnacksSides     Category = "Snacks & Sides"
	CategoryDesserts        Category = "Desserts"
	CategoryBeverages       Category = "Beverages"
	CategoryCoffeeTea       Category = "Coffee & Tea"
	CategorySmoothiesShakes Category = "Smoothies & Shakes"
)

type Size string

const (
	SizeSnack  Size = "snack"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParsedName is the result of decomposing one raw item name.
// Invariant: IsBaseItem == (len(Modifiers) == 0).
type ParsedName struct {
	BaseName   string
	Modifiers  []string
	Size       Size
	IsBaseItem bool
}

// AggregationKey identifies one distinct output menu item. Raw rows with the
// same key merge into a single item whose modifier set is the union.
type AggregationKey struct {
	Category Category
	BaseName string
	Size     Size
}

type ModifierOption struct {
	ModifierID string `json:"modifier_id"`
	Name       string `json:"name"`
}

type MenuItem struct {
	ItemID             string           `json:"item_id"`
	Name               string           `json:"name"`
	CategoryName       Category         `json:"category_name"`
	Size               Size             `json:"size"`
	Quantity           int              `json:"quantity"`
	Modifiers          []ModifierOption `json:"modifiers"`
	AvailableModifiers []ModifierOption `json:"available_modifiers"`
}

type Menu struct {
	MenuID string     `json:"menu_id"`
	Name   string     `json:"name"`
	Items  []MenuItem `json:"items"`
}

// IngestStats carries the running counters reported at end of run.
type IngestStats struct {
	TotalRows              int
	SkippedEmpty           int
	SkippedDuplicate       int
	SkippedUnknownCategory int
	Processed              int
}

type DocumentRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
