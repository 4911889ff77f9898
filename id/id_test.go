package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/pantry/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"LotID", id.NewLotID, "lot_"},
		{"CatalogID", id.NewCatalogID, "item_"},
		{"RecipeID", id.NewRecipeID, "rcp_"},
		{"WasteID", id.NewWasteID, "waste_"},
		{"ProfileID", id.NewProfileID, "prof_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixLot)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixLot {
		t.Errorf("expected prefix %q, got %q", id.PrefixLot, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"LotID", id.NewLotID, id.ParseLotID},
		{"CatalogID", id.NewCatalogID, id.ParseCatalogID},
		{"RecipeID", id.NewRecipeID, id.ParseRecipeID},
		{"WasteID", id.NewWasteID, id.ParseWasteID},
		{"ProfileID", id.NewProfileID, id.ParseProfileID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	lotID := id.NewLotID()

	if _, err := id.ParseProfileID(lotID.String()); err == nil {
		t.Error("expected error parsing a lot ID as a profile ID")
	}
	if _, err := id.ParseCatalogID(lotID.String()); err == nil {
		t.Error("expected error parsing a lot ID as a catalog ID")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"NoSeparator", "lot01h2xcejqtf2nbrexx3vqjhp41"},
		{"BadSuffix", "lot_not-a-valid-suffix!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID

	if !nilID.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID should stringify empty, got %q", nilID.String())
	}
	if nilID.Prefix() != "" {
		t.Errorf("nil ID should have empty prefix, got %q", nilID.Prefix())
	}
}

func TestTextMarshaling(t *testing.T) {
	original := id.NewLotID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored id.ID
	if err := restored.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.String() != original.String() {
		t.Errorf("text round-trip mismatch: %q != %q", restored.String(), original.String())
	}

	var empty id.ID
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("unmarshal of empty data failed: %v", err)
	}
	if !empty.IsNil() {
		t.Error("unmarshal of empty data should produce the nil ID")
	}
}

func TestSQLValueScan(t *testing.T) {
	original := id.NewWasteID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}

	var scanned id.ID
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("sql round-trip mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromNull id.ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatalf("scan of NULL failed: %v", err)
	}
	if !fromNull.IsNil() {
		t.Error("scan of NULL should produce the nil ID")
	}

	var bad id.ID
	if err := bad.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestKSortable(t *testing.T) {
	a := id.NewLotID().String()
	b := id.NewLotID().String()

	if !(a < b) {
		t.Errorf("expected IDs generated in order to sort in order: %q >= %q", a, b)
	}
}
