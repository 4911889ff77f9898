package recipe

import (
	"github.com/xraph/pantry/types"
)

// Ingredient is one extracted recipe requirement. Name is normalized with
// types.NormalizeName so it matches inventory keys directly.
type Ingredient struct {
	Name     string         `json:"name"`
	Quantity types.Quantity `json:"quantity"`
}

// WarningKind classifies a non-fatal extraction problem.
type WarningKind string

const (
	// WarnPartialParse marks a line that could not be parsed into an
	// ingredient. The line is skipped, not dropped silently.
	WarnPartialParse WarningKind = "partial_parse"

	// WarnUnitConflict marks a duplicate ingredient whose quantity could
	// not be merged because the units are not convertible.
	WarnUnitConflict WarningKind = "unit_conflict"

	// WarnNoRecipe marks an HTML document with no usable recipe markup.
	WarnNoRecipe WarningKind = "no_recipe"
)

// Warning reports a non-fatal problem encountered during extraction.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Line    string      `json:"line,omitempty"`
	Message string      `json:"message"`
}

// Extraction is the result of parsing a recipe. Warnings never abort the
// extraction; a caller that needs strictness can check len(Warnings).
type Extraction struct {
	Title       string       `json:"title,omitempty"`
	Yield       string       `json:"yield,omitempty"`
	TotalTime   string       `json:"total_time,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Warnings    []Warning    `json:"warnings,omitempty"`
}
