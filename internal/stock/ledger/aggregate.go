package ledger

import "time"

// ExpiryHorizonDays is the default warning window for expiring stock.
const ExpiryHorizonDays = 30

// IsLowStock reports whether the item's total pack count has fallen
// below its configured minimum.
func (i *Item) IsLowStock() bool {
	return i.TotalPacks < i.MinPacks
}

// InventoryValue computes the item's stock valuation: each variant's
// unit price times its normalized pack quantity, summed.
func (i *Item) InventoryValue() float64 {
	total := 0.0
	for _, v := range i.Variants {
		total += v.UnitPrice * Normalized(v.PackQuantity, v.UnitQuantity, i.UnitsPerPack)
	}
	return total
}

// IsExpiringSoon reports whether the variant expires within
// horizonDays of now. Comparison is date-only; time of day is
// stripped on both sides. Non-perishable variants never expire.
func (v *Variant) IsExpiringSoon(now time.Time, horizonDays int) bool {
	if v.Expiry == "" {
		return false
	}
	expiry, err := time.Parse(ExpiryLayout, v.Expiry)
	if err != nil {
		return false
	}

	today := truncateToDay(now)
	horizon := today.AddDate(0, 0, horizonDays)
	return !expiry.After(horizon)
}

// DaysUntilExpiry returns the whole days between now and the
// variant's expiry, negative when already expired. Returns false for
// non-perishable or unparseable expiries.
func (v *Variant) DaysUntilExpiry(now time.Time) (int, bool) {
	if v.Expiry == "" {
		return 0, false
	}
	expiry, err := time.Parse(ExpiryLayout, v.Expiry)
	if err != nil {
		return 0, false
	}

	today := truncateToDay(now)
	return int(expiry.Sub(today).Hours() / 24), true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
