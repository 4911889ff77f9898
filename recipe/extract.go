// Package recipe extracts structured ingredient requirements from free-form
// recipe text and from recipe web pages.
package recipe

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xraph/pantry/types"
)

// lineRe splits an ingredient line into a leading amount (decimal or simple
// fraction), an optional following token, and the remainder. Lines with no
// leading number fall through to the one-portion default.
var lineRe = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:\s*/\s*\d+)?)\s*(.*)$`)

// bulletRe strips list markers: "-", "*", "•" and "3." style numbering.
var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// Extract parses recipe text, one ingredient per line. Blank lines and
// section headings (lines ending in ":") are skipped. Lines that cannot be
// parsed are reported as warnings, never as errors. Repeated mentions of the
// same ingredient are merged by summing when their units convert.
func Extract(text string) Extraction {
	ext := Extraction{Ingredients: []Ingredient{}}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(bulletRe.ReplaceAllString(raw, ""))
		if line == "" || strings.HasSuffix(line, ":") || strings.HasSuffix(line, "：") {
			continue
		}

		ing, ok, why := parseLine(line)
		if !ok {
			ext.Warnings = append(ext.Warnings, Warning{
				Kind:    WarnPartialParse,
				Line:    line,
				Message: why,
			})
			continue
		}

		mergeIngredient(&ext, ing, line)
	}

	return ext
}

// parseLine turns one ingredient line into an Ingredient. The third return
// value explains the failure when ok is false.
func parseLine(line string) (Ingredient, bool, string) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		// No leading amount: the whole line names the ingredient and
		// the quantity defaults to one portion.
		name := types.NormalizeName(line)
		if name == "" {
			return Ingredient{}, false, "empty ingredient name"
		}
		return Ingredient{Name: name, Quantity: types.Portions(1)}, true, ""
	}

	amount, err := parseAmount(m[1])
	if err != nil {
		return Ingredient{}, false, "unreadable amount " + strconv.Quote(m[1])
	}

	unit, name := splitUnitName(m[2])
	if name == "" {
		return Ingredient{}, false, "amount without ingredient name"
	}

	qty, err := types.ParseQuantity(amount, unit)
	if err != nil {
		return Ingredient{}, false, err.Error()
	}

	return Ingredient{Name: types.NormalizeName(name), Quantity: qty}, true, ""
}

// splitUnitName decides whether the first token after the amount is a unit.
// "g flour" → ("g", "flour"); "eggs" → ("", "eggs"); "cloves garlic" →
// ("cloves", "garlic") where "cloves" stays a verbatim count unit.
func splitUnitName(rest string) (unit, name string) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", ""
	}

	token, remainder, found := strings.Cut(rest, " ")
	if !found {
		if types.KnownUnit(token) {
			return token, ""
		}
		return "", token
	}

	remainder = strings.TrimSpace(remainder)
	if types.KnownUnit(token) {
		return token, remainder
	}
	if remainder == "" {
		return "", token
	}
	return token, remainder
}

// parseAmount reads a decimal or a simple fraction like "1/2".
func parseAmount(s string) (float64, error) {
	if num, den, found := strings.Cut(s, "/"); found {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, strconv.ErrRange
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}

// mergeIngredient folds a parsed ingredient into the extraction, summing
// quantities for repeated names. A repeat whose unit does not convert keeps
// its own entry and raises a warning instead of guessing a conversion.
func mergeIngredient(ext *Extraction, ing Ingredient, line string) {
	sameName := false
	for i, existing := range ext.Ingredients {
		if existing.Name != ing.Name {
			continue
		}
		sameName = true
		if types.Convertible(existing.Quantity.Unit, ing.Quantity.Unit) {
			converted, _ := ing.Quantity.Convert(existing.Quantity.Unit)
			ext.Ingredients[i].Quantity = existing.Quantity.Add(converted)
			return
		}
	}

	if sameName {
		ext.Warnings = append(ext.Warnings, Warning{
			Kind:    WarnUnitConflict,
			Line:    line,
			Message: "duplicate ingredient " + strconv.Quote(ing.Name) + " in non-convertible unit " + string(ing.Quantity.Unit),
		})
	}
	ext.Ingredients = append(ext.Ingredients, ing)
}
