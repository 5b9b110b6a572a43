// Package feetable matches transfer amounts to fee tiers and edits the tier list.
package feetable

import "retail-transfers/app/models"

// Match returns the first tier, in slice order, whose range contains amount.
// Tiers sharing a boundary value resolve to the earlier one.
func Match(amount float64, tiers []models.FeeTier) (models.FeeTier, bool) {
	for _, t := range tiers {
		if t.Contains(amount) {
			return t, true
		}
	}
	return models.FeeTier{}, false
}

// Lookup returns the fee charged for amount, or 0 when no tier covers it.
func Lookup(amount float64, tiers []models.FeeTier) float64 {
	t, ok := Match(amount, tiers)
	if !ok {
		return 0
	}
	return t.Fee
}
