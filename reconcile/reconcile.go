// Package reconcile simulates cooking a recipe against the current
// inventory without mutating it: which ingredients are covered, which lots
// would be drawn, and what is missing.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/recipe"
	"github.com/xraph/pantry/types"
)

// Reconcile computes a coverage plan for the given ingredients against a
// snapshot of lots. Repeated mentions of an ingredient are merged by summing
// when their units convert, so one lot is never counted toward two
// requirements. Lots are drawn earliest-expiry-first; expired and terminal
// lots never count. Profiles contribute allergen and avoid advisories for
// matching ingredients.
func Reconcile(now time.Time, ingredients []recipe.Ingredient, lots []*lot.Lot, profiles []*profile.Profile) *Result {
	byName := groupActive(now, lots)
	ingredients = mergeIngredients(ingredients)

	res := &Result{Fulfillable: true, Items: make([]Item, 0, len(ingredients))}

	for _, ing := range ingredients {
		name := ing.Name
		candidates := byName[name]

		plan := PlanDraws(ing.Quantity, candidates)
		item := Item{
			Name:      name,
			Required:  ing.Quantity,
			Covered:   plan.Covered,
			Shortfall: plan.Shortfall,
			Draws:     plan.Draws,
		}

		if plan.UnitMismatch {
			res.Warnings = append(res.Warnings, Warning{
				Ingredient: name,
				Kind:       WarnUnitMismatch,
				Message:    fmt.Sprintf("stock of %q is held in a unit that does not convert to %s", name, ing.Quantity.Unit),
			})
		}
		if item.Short() && expiredStockExists(now, lots, name) {
			res.Warnings = append(res.Warnings, Warning{
				Ingredient: name,
				Kind:       WarnExpiredStock,
				Message:    fmt.Sprintf("expired stock of %q was excluded from coverage", name),
			})
		}

		for _, p := range profiles {
			for _, hit := range p.AllergenHits(name) {
				res.Warnings = append(res.Warnings, Warning{
					Ingredient: name,
					Kind:       WarnAllergen,
					Message:    fmt.Sprintf("%s: allergen %q matches %q", p.Name, hit, name),
				})
			}
			for _, hit := range p.AvoidHits(name) {
				res.Warnings = append(res.Warnings, Warning{
					Ingredient: name,
					Kind:       WarnAvoid,
					Message:    fmt.Sprintf("%s: avoided ingredient %q matches %q", p.Name, hit, name),
				})
			}
		}

		if item.Short() {
			res.Fulfillable = false
		}
		res.Items = append(res.Items, item)
	}

	return res
}

// mergeIngredients folds repeated mentions of an ingredient into one
// requirement, normalizing names and summing quantities when the units
// convert. The recipe extractor applies the same rules at parse time; this
// covers ingredient lists built by hand. Repeats whose units do not convert
// keep their own entries, and since stock in one unit family never converts
// to the other, the two entries draw from disjoint lots.
func mergeIngredients(ingredients []recipe.Ingredient) []recipe.Ingredient {
	merged := make([]recipe.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		ing.Name = types.NormalizeName(ing.Name)

		folded := false
		for i, existing := range merged {
			if existing.Name != ing.Name || !types.Convertible(existing.Quantity.Unit, ing.Quantity.Unit) {
				continue
			}
			converted, _ := ing.Quantity.Convert(existing.Quantity.Unit)
			merged[i].Quantity = existing.Quantity.Add(converted)
			folded = true
			break
		}
		if !folded {
			merged = append(merged, ing)
		}
	}
	return merged
}

// Plan is the outcome of simulating draws for one requirement.
type Plan struct {
	Draws        []PlannedDraw
	Covered      types.Quantity
	Shortfall    types.Quantity
	UnitMismatch bool // some stock existed but its unit does not convert
}

// PlanDraws walks candidate lots in earliest-expiry-first order and takes
// from each until the requirement is met. Lots whose unit does not convert
// are skipped and flagged, never guessed at. The consume path shares this
// planner so a dry run and a real draw always agree.
func PlanDraws(required types.Quantity, candidates []*lot.Lot) Plan {
	plan := Plan{
		Covered:   types.ZeroOf(required.Unit),
		Shortfall: required,
	}

	remaining := required
	for _, l := range candidates {
		if !remaining.IsPositive() {
			break
		}
		if !types.Convertible(l.Quantity.Unit, required.Unit) {
			plan.UnitMismatch = true
			continue
		}

		available, _ := l.Quantity.Convert(required.Unit)
		take := remaining.Min(available)
		if !take.IsPositive() {
			continue
		}

		plan.Draws = append(plan.Draws, PlannedDraw{
			LotID:     l.ID,
			Amount:    take,
			ExpiresAt: l.ExpiresAt,
		})
		plan.Covered = plan.Covered.Add(take)
		remaining = remaining.Subtract(take)
	}

	plan.Shortfall = remaining
	return plan
}

// groupActive indexes non-terminal, unexpired, positive lots by name and
// orders each group earliest expiry first, ties broken by entry time then ID.
func groupActive(now time.Time, lots []*lot.Lot) map[string][]*lot.Lot {
	byName := make(map[string][]*lot.Lot)
	for _, l := range lots {
		if l.Status.Terminal() || !l.Quantity.IsPositive() || isExpired(now, l) {
			continue
		}
		byName[l.Name] = append(byName[l.Name], l)
	}

	for _, group := range byName {
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].ExpiresAt.Equal(group[j].ExpiresAt) {
				return group[i].ExpiresAt.Before(group[j].ExpiresAt)
			}
			if !group[i].EnteredAt.Equal(group[j].EnteredAt) {
				return group[i].EnteredAt.Before(group[j].EnteredAt)
			}
			return group[i].ID.String() < group[j].ID.String()
		})
	}

	return byName
}

// expiredStockExists reports whether the name has active but expired lots,
// which explains part of a shortfall.
func expiredStockExists(now time.Time, lots []*lot.Lot, name string) bool {
	for _, l := range lots {
		if l.Name == name && !l.Status.Terminal() && l.Quantity.IsPositive() && isExpired(now, l) {
			return true
		}
	}
	return false
}

func isExpired(now time.Time, l *lot.Lot) bool {
	f, err := expiry.Classify(now, l.ExpiresAt, expiry.DefaultFreshnessThresholdDays)
	return err == nil && f == expiry.Expired
}
