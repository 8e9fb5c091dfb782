// Package ledger implements the variant-based stock ledger: items
// counted in packs and loose units, stored as batches keyed by
// location and expiry, depleted oldest-expiry-first on outgoing
// movement.
package ledger

// Normalized returns the scalar quantity expressed in packs: whole
// packs plus loose units as a pack fraction. Excess units are never
// auto-converted into packs; the two counters track physically
// separate stock.
func Normalized(packQuantity, unitQuantity, unitsPerPack int) float64 {
	if unitsPerPack < 1 {
		unitsPerPack = 1
	}
	return float64(packQuantity) + float64(unitQuantity)/float64(unitsPerPack)
}

// UnitLabel selects the singular or plural form for a quantity.
// Singular applies only when the quantity is exactly 1; zero and
// everything above one use the plural form.
func UnitLabel(singular, plural string, quantity float64) string {
	if quantity == 1 {
		return singular
	}
	return plural
}
