package ledger

import (
	"sort"
	"time"
)

// Schema versions for persisted documents. Bump when the JSON shape
// of the corresponding document changes.
const (
	ItemSchemaVersion     = 1
	MovementSchemaVersion = 1
)

// ExpiryLayout is the date-only format used for variant expiries.
// Lexicographic order on this layout matches chronological order.
const ExpiryLayout = "2006-01-02"

// Variant is one stock batch of an item, identified by storage
// location and expiry date. An empty expiry means non-perishable.
type Variant struct {
	Location     string  `json:"location"`
	Expiry       string  `json:"expiry,omitempty"`
	UnitPrice    float64 `json:"unit_price"`
	PackQuantity int     `json:"pack_quantity"`
	UnitQuantity int     `json:"unit_quantity"`
}

// IsEmpty reports whether both quantity counters are zero.
func (v *Variant) IsEmpty() bool {
	return v.PackQuantity == 0 && v.UnitQuantity == 0
}

// Item is a consumable stock item. Variants hold the actual
// quantities; TotalPacks and TotalUnits are recomputed from the
// variant list after every mutation and never drift incrementally.
type Item struct {
	SchemaVersion int        `json:"schema_version"`
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	UnitSingular  string     `json:"unit_singular"`
	UnitPlural    string     `json:"unit_plural"`
	PackSingular  string     `json:"pack_singular"`
	PackPlural    string     `json:"pack_plural"`
	UnitsPerPack  int        `json:"units_per_pack"`
	MinPacks      int        `json:"min_packs"`
	Variants      []*Variant `json:"variants"`
	TotalPacks    int        `json:"total_packs"`
	TotalUnits    int        `json:"total_units"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FindOrCreateVariant returns the variant matching location and
// expiry exactly, creating and appending a zero-quantity variant when
// none matches.
func (i *Item) FindOrCreateVariant(location, expiry string) *Variant {
	for _, v := range i.Variants {
		if v.Location == location && v.Expiry == expiry {
			return v
		}
	}

	v := &Variant{Location: location, Expiry: expiry}
	i.Variants = append(i.Variants, v)
	return v
}

// SortByExpiry orders variants ascending by expiry date, with
// non-perishable variants (no expiry) last. Establishes the
// depletion order for outgoing movement; re-run before every
// depletion since incoming transactions append unsorted.
func (i *Item) SortByExpiry() {
	sort.SliceStable(i.Variants, func(a, b int) bool {
		ea, eb := i.Variants[a].Expiry, i.Variants[b].Expiry
		if ea == "" {
			return false
		}
		if eb == "" {
			return true
		}
		return ea < eb
	})
}

// Prune removes all variants whose pack and unit counts are both
// zero. Must run after every depletion.
func (i *Item) Prune() {
	kept := i.Variants[:0]
	for _, v := range i.Variants {
		if !v.IsEmpty() {
			kept = append(kept, v)
		}
	}
	i.Variants = kept
}

// RecomputeTotals recalculates TotalPacks and TotalUnits from the
// variant list.
func (i *Item) RecomputeTotals() {
	packs, units := 0, 0
	for _, v := range i.Variants {
		packs += v.PackQuantity
		units += v.UnitQuantity
	}
	i.TotalPacks = packs
	i.TotalUnits = units
}

// UnitName returns the unit label appropriate for the given quantity.
func (i *Item) UnitName(quantity float64) string {
	return UnitLabel(i.UnitSingular, i.UnitPlural, quantity)
}

// PackName returns the pack label appropriate for the given quantity.
func (i *Item) PackName(quantity float64) string {
	return UnitLabel(i.PackSingular, i.PackPlural, quantity)
}

// ValidExpiry reports whether expiry is empty or a valid date in
// ExpiryLayout.
func ValidExpiry(expiry string) bool {
	if expiry == "" {
		return true
	}
	_, err := time.Parse(ExpiryLayout, expiry)
	return err == nil
}
