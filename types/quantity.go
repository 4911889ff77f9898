// Package types provides common types used across Pantry.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Unit is a normalized measurement unit. Amounts are always stored against
// the canonical unit of their category (grams, milliliters, pieces) so that
// two quantities of the same unit compare and add directly.
type Unit string

// Canonical units, one per category.
const (
	UnitGram       Unit = "g"       // mass
	UnitMilliliter Unit = "ml"      // volume
	UnitPiece      Unit = "piece"   // countable items
	UnitPortion    Unit = "portion" // implicit recipe servings
)

// Category groups units that convert between each other. Conversion across
// categories has no entry in the table and is reported as a unit mismatch,
// never silently rounded.
type Category string

// Unit categories.
const (
	CategoryMass   Category = "mass"
	CategoryVolume Category = "volume"
	CategoryCount  Category = "count"
)

// Quantity represents an amount of stock or of a recipe ingredient in
// thousandths of its unit. All arithmetic is integer-only; no floating
// point.
//
// Examples:
//   - Grams(200)      = 200 g   (amount 200000)
//   - Milliliters(50) = 50 ml   (amount 50000)
//   - Pieces(3)       = 3 piece (amount 3000)
type Quantity struct {
	Amount int64 `json:"amount"` // milli-units (thousandths)
	Unit   Unit  `json:"unit"`
}

// Common constructors

// Grams creates a mass Quantity in grams.
func Grams(g int64) Quantity { return Quantity{Amount: g * 1000, Unit: UnitGram} }

// Kilograms creates a mass Quantity, stored in grams.
func Kilograms(kg int64) Quantity { return Quantity{Amount: kg * 1000000, Unit: UnitGram} }

// Milliliters creates a volume Quantity in milliliters.
func Milliliters(ml int64) Quantity { return Quantity{Amount: ml * 1000, Unit: UnitMilliliter} }

// Liters creates a volume Quantity, stored in milliliters.
func Liters(l int64) Quantity { return Quantity{Amount: l * 1000000, Unit: UnitMilliliter} }

// Pieces creates a count Quantity.
func Pieces(n int64) Quantity { return Quantity{Amount: n * 1000, Unit: UnitPiece} }

// Portions creates a count Quantity in implicit recipe servings.
func Portions(n int64) Quantity { return Quantity{Amount: n * 1000, Unit: UnitPortion} }

// ZeroOf returns a zero Quantity in the given unit.
func ZeroOf(unit Unit) Quantity { return Quantity{Amount: 0, Unit: unit} }

// ParseQuantity builds a Quantity from a decimal amount and a free-form unit
// string. The unit is folded through the synonym table and the amount is
// converted to milli-units of the category's canonical unit. Unknown units
// are kept verbatim and treated as countable.
func ParseQuantity(amount float64, unit string) (Quantity, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Quantity{}, fmt.Errorf("types: quantity amount %v is not a number", amount)
	}
	if amount < 0 {
		return Quantity{}, fmt.Errorf("types: quantity amount %v is negative", amount)
	}

	canonical, factor := normalizeUnit(unit)

	milli := int64(math.Round(amount * float64(factor)))

	return Quantity{Amount: milli, Unit: canonical}, nil
}

// ──────────────────────────────────────────────────
// Unit vocabulary
// ──────────────────────────────────────────────────

// unitEntry maps a synonym to its canonical unit and the milli-canonical
// value of one such unit (e.g. one kg = 1000000 milli-grams).
type unitEntry struct {
	canonical Unit
	factor    int64
}

// Synonym table. Imperial mass/volume units with non-exact metric factors
// are deliberately absent: an unknown unit stays verbatim rather than
// being rounded.
var unitSynonyms = map[string]unitEntry{
	// mass → g
	"mg":        {UnitGram, 1},
	"g":         {UnitGram, 1000},
	"gram":      {UnitGram, 1000},
	"grams":     {UnitGram, 1000},
	"克":         {UnitGram, 1000},
	"kg":        {UnitGram, 1000000},
	"kilogram":  {UnitGram, 1000000},
	"kilograms": {UnitGram, 1000000},
	"公斤":        {UnitGram, 1000000},
	"千克":        {UnitGram, 1000000},

	// volume → ml
	"ml":          {UnitMilliliter, 1000},
	"milliliter":  {UnitMilliliter, 1000},
	"milliliters": {UnitMilliliter, 1000},
	"毫升":          {UnitMilliliter, 1000},
	"l":           {UnitMilliliter, 1000000},
	"liter":       {UnitMilliliter, 1000000},
	"litre":       {UnitMilliliter, 1000000},
	"liters":      {UnitMilliliter, 1000000},
	"litres":      {UnitMilliliter, 1000000},
	"升":           {UnitMilliliter, 1000000},
	"tsp":         {UnitMilliliter, 5000},
	"teaspoon":    {UnitMilliliter, 5000},
	"teaspoons":   {UnitMilliliter, 5000},
	"tbsp":        {UnitMilliliter, 15000},
	"tablespoon":  {UnitMilliliter, 15000},
	"tablespoons": {UnitMilliliter, 15000},
	"cup":         {UnitMilliliter, 240000},
	"cups":        {UnitMilliliter, 240000},
	"杯":           {UnitMilliliter, 240000},

	// count → piece
	"piece":  {UnitPiece, 1000},
	"pieces": {UnitPiece, 1000},
	"pc":     {UnitPiece, 1000},
	"pcs":    {UnitPiece, 1000},
	"unit":   {UnitPiece, 1000},
	"units":  {UnitPiece, 1000},
	"个":      {UnitPiece, 1000},
	"只":      {UnitPiece, 1000},
	"枚":      {UnitPiece, 1000},
	"dozen":  {UnitPiece, 12000},

	// servings → portion
	"portion":  {UnitPortion, 1000},
	"portions": {UnitPortion, 1000},
	"serving":  {UnitPortion, 1000},
	"servings": {UnitPortion, 1000},
	"份":        {UnitPortion, 1000},
}

// normalizeUnit folds a free-form unit string to its canonical unit and
// per-unit milli factor. Unknown units pass through verbatim as countable.
func normalizeUnit(unit string) (Unit, int64) {
	key := strings.ToLower(strings.TrimSpace(unit))
	if key == "" {
		return UnitPortion, 1000
	}

	if entry, ok := unitSynonyms[key]; ok {
		return entry.canonical, entry.factor
	}

	return Unit(key), 1000
}

// KnownUnit reports whether a free-form unit string is in the synonym
// vocabulary. Parsers use it to tell a unit token from the start of an
// ingredient name.
func KnownUnit(unit string) bool {
	_, ok := unitSynonyms[strings.ToLower(strings.TrimSpace(unit))]
	return ok
}

// NormalizeUnit folds a free-form unit string to its canonical Unit.
func NormalizeUnit(unit string) Unit {
	canonical, _ := normalizeUnit(unit)
	return canonical
}

// CategoryOf returns the conversion category of a unit. Units outside the
// vocabulary (e.g. "box", "bunch") count discrete items.
func CategoryOf(unit Unit) Category {
	switch unit {
	case UnitGram:
		return CategoryMass
	case UnitMilliliter:
		return CategoryVolume
	default:
		return CategoryCount
	}
}

// Convertible reports whether two units can be compared directly. Portions
// and pieces are interchangeable one-to-one; any other count units must
// match exactly.
func Convertible(a, b Unit) bool {
	if a == b {
		return true
	}
	if isServingUnit(a) && isServingUnit(b) {
		return true
	}
	return false
}

func isServingUnit(u Unit) bool { return u == UnitPiece || u == UnitPortion }

// Convert re-expresses q in the given unit. It fails with an error when no
// conversion entry exists (cross-category, or distinct custom count units).
func (q Quantity) Convert(to Unit) (Quantity, error) {
	if !Convertible(q.Unit, to) {
		return Quantity{}, fmt.Errorf("types: no conversion from %q to %q", q.Unit, to)
	}
	return Quantity{Amount: q.Amount, Unit: to}, nil
}

// ──────────────────────────────────────────────────
// Arithmetic operations
// ──────────────────────────────────────────────────

// Add adds two quantities. Panics if units don't convert.
func (q Quantity) Add(other Quantity) Quantity {
	q.assertSameUnit(other)
	return Quantity{Amount: q.Amount + other.Amount, Unit: q.Unit}
}

// Subtract subtracts another quantity. Panics if units don't convert.
func (q Quantity) Subtract(other Quantity) Quantity {
	q.assertSameUnit(other)
	return Quantity{Amount: q.Amount - other.Amount, Unit: q.Unit}
}

// Scale multiplies the quantity by an integer factor.
func (q Quantity) Scale(n int64) Quantity {
	return Quantity{Amount: q.Amount * n, Unit: q.Unit}
}

// ──────────────────────────────────────────────────
// Comparison methods
// ──────────────────────────────────────────────────

// IsZero returns true if the amount is zero.
func (q Quantity) IsZero() bool { return q.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (q Quantity) IsPositive() bool { return q.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (q Quantity) IsNegative() bool { return q.Amount < 0 }

// Equal returns true if both quantities have the same amount and unit.
func (q Quantity) Equal(other Quantity) bool {
	return q.Amount == other.Amount && Convertible(q.Unit, other.Unit)
}

// LessThan returns true if this quantity is less than other. Panics if units don't convert.
func (q Quantity) LessThan(other Quantity) bool {
	q.assertSameUnit(other)
	return q.Amount < other.Amount
}

// GreaterThan returns true if this quantity is greater than other. Panics if units don't convert.
func (q Quantity) GreaterThan(other Quantity) bool {
	q.assertSameUnit(other)
	return q.Amount > other.Amount
}

// Min returns the smaller of two quantities. Panics if units don't convert.
func (q Quantity) Min(other Quantity) Quantity {
	q.assertSameUnit(other)
	if q.Amount < other.Amount {
		return q
	}
	return other
}

// ──────────────────────────────────────────────────
// Formatting methods
// ──────────────────────────────────────────────────

// FormatAmount returns the decimal amount without the unit, with trailing
// zeros trimmed: "200" for Grams(200), "1.5" for 1500 milli-grams.
func (q Quantity) FormatAmount() string {
	isNegative := q.Amount < 0
	abs := q.Amount
	if isNegative {
		abs = -abs
	}

	whole := abs / 1000
	frac := abs % 1000

	var result string
	if frac == 0 {
		result = fmt.Sprintf("%d", whole)
	} else {
		result = strings.TrimRight(fmt.Sprintf("%d.%03d", whole, frac), "0")
	}

	if isNegative {
		return "-" + result
	}
	return result
}

// String returns a human-readable string such as "200 g" or "3 piece".
func (q Quantity) String() string {
	return q.FormatAmount() + " " + string(q.Unit)
}

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount  int64  `json:"amount"`
		Unit    string `json:"unit"`
		Display string `json:"display"`
	}{
		Amount:  q.Amount,
		Unit:    string(q.Unit),
		Display: q.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler, accepting both the display
// form written by MarshalJSON and the bare struct.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount int64  `json:"amount"`
		Unit   string `json:"unit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.Amount = raw.Amount
	q.Unit = Unit(raw.Unit)

	return nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// assertSameUnit panics if units don't convert.
func (q Quantity) assertSameUnit(other Quantity) {
	if !Convertible(q.Unit, other.Unit) {
		panic(fmt.Sprintf("quantity: unit mismatch: %s != %s", q.Unit, other.Unit))
	}
}

// SumQuantities calculates the sum of multiple quantities. All must share a
// convertible unit.
func SumQuantities(values ...Quantity) Quantity {
	if len(values) == 0 {
		return Quantity{}
	}

	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
