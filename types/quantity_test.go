package types

import (
	"encoding/json"
	"testing"
)

func TestQuantityConstructors(t *testing.T) {
	tests := []struct {
		name    string
		qty     Quantity
		amount  int64
		unit    Unit
		display string
	}{
		{"Grams", Grams(200), 200000, UnitGram, "200 g"},
		{"Kilograms", Kilograms(2), 2000000, UnitGram, "2000 g"},
		{"Milliliters", Milliliters(50), 50000, UnitMilliliter, "50 ml"},
		{"Liters", Liters(1), 1000000, UnitMilliliter, "1000 ml"},
		{"Pieces", Pieces(3), 3000, UnitPiece, "3 piece"},
		{"Portions", Portions(2), 2000, UnitPortion, "2 portion"},
		{"Zero", ZeroOf(UnitGram), 0, UnitGram, "0 g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.qty.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.qty.Amount, tt.amount)
			}
			if tt.qty.Unit != tt.unit {
				t.Errorf("Unit: got %s, want %s", tt.qty.Unit, tt.unit)
			}
			if tt.qty.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.qty.String(), tt.display)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		unit   string
		want   Quantity
	}{
		{"PlainGrams", 200, "g", Grams(200)},
		{"KilogramsFold", 1.5, "kg", Grams(1500)},
		{"MilligramsFold", 500, "mg", Quantity{Amount: 500, Unit: UnitGram}},
		{"LitersFold", 0.5, "l", Milliliters(500)},
		{"TablespoonFold", 2, "tbsp", Milliliters(30)},
		{"CupFold", 1, "cup", Milliliters(240)},
		{"PieceSynonym", 30, "unit", Pieces(30)},
		{"CJKPiece", 2, "个", Pieces(2)},
		{"Dozen", 1, "dozen", Pieces(12)},
		{"Fractional", 0.5, "piece", Quantity{Amount: 500, Unit: UnitPiece}},
		{"EmptyUnitIsPortion", 1, "", Portions(1)},
		{"UnknownUnitVerbatim", 2, "box", Quantity{Amount: 2000, Unit: "box"}},
		{"UnknownUnitCaseFold", 2, " Box ", Quantity{Amount: 2000, Unit: "box"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.amount, tt.unit)
			if err != nil {
				t.Fatalf("ParseQuantity failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseQuantityRejects(t *testing.T) {
	if _, err := ParseQuantity(-1, "g"); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestQuantityArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Quantity
		expected Quantity
	}{
		{"Add", func() Quantity { return Grams(100).Add(Grams(200)) }, Grams(300)},
		{"Subtract", func() Quantity { return Grams(500).Subtract(Grams(200)) }, Grams(300)},
		{"Scale", func() Quantity { return Pieces(2).Scale(3) }, Pieces(6)},
		{"Min", func() Quantity { return Grams(100).Min(Grams(50)) }, Grams(50)},
		{"AddPortionToPiece", func() Quantity { return Pieces(1).Add(Portions(1)) }, Pieces(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestQuantityUnitMismatchPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unit mismatch")
		}
	}()

	_ = Grams(100).Add(Milliliters(100))
}

func TestConvert(t *testing.T) {
	q, err := Pieces(3).Convert(UnitPortion)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if q.Unit != UnitPortion || q.Amount != 3000 {
		t.Errorf("got %+v", q)
	}

	if _, err := Grams(100).Convert(UnitMilliliter); err == nil {
		t.Error("expected error converting mass to volume")
	}
	if _, err := (Quantity{Amount: 1000, Unit: "box"}).Convert(UnitPiece); err == nil {
		t.Error("expected error converting a custom count unit to piece")
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		unit Unit
		want Category
	}{
		{UnitGram, CategoryMass},
		{UnitMilliliter, CategoryVolume},
		{UnitPiece, CategoryCount},
		{UnitPortion, CategoryCount},
		{"box", CategoryCount},
	}

	for _, tt := range tests {
		if got := CategoryOf(tt.unit); got != tt.want {
			t.Errorf("CategoryOf(%s): got %s, want %s", tt.unit, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		qty  Quantity
		want string
	}{
		{"Whole", Grams(200), "200"},
		{"Half", Quantity{Amount: 1500, Unit: UnitGram}, "1.5"},
		{"Thousandth", Quantity{Amount: 1, Unit: UnitGram}, "0.001"},
		{"Negative", Quantity{Amount: -2500, Unit: UnitGram}, "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.qty.FormatAmount(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	original := Grams(1500)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Quantity
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored != original {
		t.Errorf("round-trip mismatch: %+v != %+v", restored, original)
	}
}
