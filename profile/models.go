package profile

import (
	"strings"

	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/types"
)

// DietPattern describes a household member's eating pattern.
type DietPattern string

const (
	DietOmnivore   DietPattern = "omnivore"
	DietVegetarian DietPattern = "vegetarian_ovo_lacto"
	DietVegan      DietPattern = "vegan"
	DietHalal      DietPattern = "halal"
	DietLowCarb    DietPattern = "low_carb"
)

// Profile captures one household member's dietary constraints. Allergens
// and avoided ingredients are matched against extracted recipe ingredients
// during reconciliation and surfaced as warnings.
type Profile struct {
	types.Entity
	ID             id.ProfileID `json:"id"`
	Name           string       `json:"name"` // lowercased
	Allergens      []string     `json:"allergens"`
	Avoid          []string     `json:"avoid"`
	DietPattern    DietPattern  `json:"diet_pattern,omitempty"`
	NearExpiryDays int          `json:"near_expiry_days"`
}

// Flags returns which of the profile's allergens or avoided ingredients
// appear in the given ingredient name. Matching is case-insensitive
// substring containment in either direction.
func (p *Profile) Flags(ingredient string) []string {
	return append(p.AllergenHits(ingredient), p.AvoidHits(ingredient)...)
}

// AllergenHits returns the profile allergens matching the ingredient name.
func (p *Profile) AllergenHits(ingredient string) []string {
	return hits(ingredient, p.Allergens)
}

// AvoidHits returns the profile's avoided ingredients matching the name.
func (p *Profile) AvoidHits(ingredient string) []string {
	return hits(ingredient, p.Avoid)
}

func hits(ingredient string, words []string) []string {
	var out []string
	ing := strings.ToLower(strings.TrimSpace(ingredient))
	if ing == "" {
		return out
	}
	for _, w := range words {
		if matches(ing, w) {
			out = append(out, w)
		}
	}
	return out
}

func matches(ingredient, word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return false
	}
	return strings.Contains(ingredient, w) || strings.Contains(w, ingredient)
}
