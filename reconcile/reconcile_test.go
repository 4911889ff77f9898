package reconcile

import (
	"reflect"
	"testing"
	"time"

	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/recipe"
	"github.com/xraph/pantry/types"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func mklot(t *testing.T, name string, qty types.Quantity, daysToExpiry int) *lot.Lot {
	t.Helper()
	return &lot.Lot{
		ID:        id.NewLotID(),
		Name:      name,
		Quantity:  qty,
		EnteredAt: testNow.AddDate(0, 0, -1),
		ExpiresAt: testNow.AddDate(0, 0, daysToExpiry),
		Status:    lot.StatusActive,
	}
}

func TestReconcileDrawsEarliestExpiryFirst(t *testing.T) {
	later := mklot(t, "milk", types.Milliliters(500), 9)
	sooner := mklot(t, "milk", types.Milliliters(200), 2)
	lots := []*lot.Lot{later, sooner}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "milk", Quantity: types.Milliliters(300)},
	}, lots, nil)

	if !res.Fulfillable {
		t.Fatalf("result not fulfillable: %+v", res)
	}
	it := res.Items[0]
	if !it.Covered.Equal(types.Milliliters(300)) || it.Short() {
		t.Fatalf("coverage = %+v", it)
	}
	if len(it.Draws) != 2 {
		t.Fatalf("draws = %+v, want 2", it.Draws)
	}
	if it.Draws[0].LotID != sooner.ID || !it.Draws[0].Amount.Equal(types.Milliliters(200)) {
		t.Errorf("first draw = %+v, want 200 ml from the sooner lot", it.Draws[0])
	}
	if it.Draws[1].LotID != later.ID || !it.Draws[1].Amount.Equal(types.Milliliters(100)) {
		t.Errorf("second draw = %+v, want 100 ml from the later lot", it.Draws[1])
	}
}

func TestReconcileShortfall(t *testing.T) {
	lots := []*lot.Lot{mklot(t, "egg", types.Pieces(2), 5)}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "egg", Quantity: types.Pieces(5)},
		{Name: "butter", Quantity: types.Grams(20)},
	}, lots, nil)

	if res.Fulfillable {
		t.Fatal("result should not be fulfillable")
	}

	short := res.ShortItems()
	if len(short) != 2 {
		t.Fatalf("short items = %+v, want 2", short)
	}
	if !short[0].Shortfall.Equal(types.Pieces(3)) {
		t.Errorf("egg shortfall = %s, want 3 piece", short[0].Shortfall)
	}
	if !short[1].Shortfall.Equal(types.Grams(20)) {
		t.Errorf("butter shortfall = %s, want full requirement", short[1].Shortfall)
	}
	if len(short[1].Draws) != 0 {
		t.Errorf("butter draws = %+v, want none", short[1].Draws)
	}
}

func TestReconcileMergesDuplicateIngredients(t *testing.T) {
	lots := []*lot.Lot{mklot(t, "egg", types.Pieces(3), 5)}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "egg", Quantity: types.Pieces(2)},
		{Name: "eggs", Quantity: types.Pieces(2)},
	}, lots, nil)

	if len(res.Items) != 1 {
		t.Fatalf("items = %+v, want duplicates merged into one requirement", res.Items)
	}
	it := res.Items[0]
	if !it.Required.Equal(types.Pieces(4)) {
		t.Errorf("required = %s, want 4 piece", it.Required)
	}
	if !it.Covered.Equal(types.Pieces(3)) || !it.Shortfall.Equal(types.Pieces(1)) {
		t.Errorf("coverage = %+v, want 3 covered and 1 short", it)
	}
	if res.Fulfillable {
		t.Error("merged shortfall must mark the result unfulfillable")
	}
}

func TestReconcileNeverDoubleCountsLots(t *testing.T) {
	lots := []*lot.Lot{mklot(t, "milk", types.Milliliters(500), 5)}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "milk", Quantity: types.Milliliters(400)},
		{Name: "milk", Quantity: types.Liters(1)},
	}, lots, nil)

	covered := types.ZeroOf(types.UnitMilliliter)
	for _, it := range res.Items {
		c, err := it.Covered.Convert(types.UnitMilliliter)
		if err != nil {
			t.Fatalf("convert coverage: %v", err)
		}
		covered = covered.Add(c)
	}
	if covered.GreaterThan(types.Milliliters(500)) {
		t.Fatalf("covered %s exceeds the 500 ml in stock", covered)
	}
	if !covered.Equal(types.Milliliters(500)) {
		t.Errorf("covered = %s, want all 500 ml counted once", covered)
	}
}

func TestReconcileIgnoresTerminalAndEmptyLots(t *testing.T) {
	consumed := mklot(t, "milk", types.Milliliters(500), 5)
	consumed.Status = lot.StatusConsumed
	empty := mklot(t, "milk", types.ZeroOf(types.UnitMilliliter), 5)
	lots := []*lot.Lot{consumed, empty}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "milk", Quantity: types.Milliliters(100)},
	}, lots, nil)

	if res.Fulfillable || !res.Items[0].Shortfall.Equal(types.Milliliters(100)) {
		t.Fatalf("items = %+v, want full shortfall", res.Items)
	}
}

func TestReconcileExcludesExpiredStock(t *testing.T) {
	expired := mklot(t, "yogurt", types.Grams(400), -2)
	lots := []*lot.Lot{expired}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "yogurt", Quantity: types.Grams(100)},
	}, lots, nil)

	if res.Fulfillable {
		t.Fatal("expired stock must not cover the requirement")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnExpiredStock {
		t.Fatalf("warnings = %+v, want one expired_stock", res.Warnings)
	}
}

func TestReconcileUnitMismatch(t *testing.T) {
	lots := []*lot.Lot{mklot(t, "tofu", types.Grams(300), 4)}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "tofu", Quantity: types.Milliliters(100)},
	}, lots, nil)

	if res.Fulfillable {
		t.Fatal("non-convertible stock must not cover the requirement")
	}
	it := res.Items[0]
	if !it.Shortfall.Equal(types.Milliliters(100)) || !it.Covered.IsZero() {
		t.Fatalf("item = %+v, want zero coverage", it)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnUnitMismatch {
		t.Fatalf("warnings = %+v, want one unit_mismatch", res.Warnings)
	}
}

func TestReconcilePieceCoversPortion(t *testing.T) {
	lots := []*lot.Lot{mklot(t, "egg", types.Pieces(6), 7)}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "egg", Quantity: types.Portions(3)},
	}, lots, nil)

	if !res.Fulfillable {
		t.Fatalf("pieces should cover portions one-to-one: %+v", res.Items)
	}
}

func TestReconcileProfileWarnings(t *testing.T) {
	lots := []*lot.Lot{mklot(t, "milk", types.Milliliters(500), 5)}
	profiles := []*profile.Profile{
		{
			Name:      "sam",
			Allergens: []string{"milk"},
		},
		{
			Name:  "kim",
			Avoid: []string{"cilantro"},
		},
	}

	res := Reconcile(testNow, []recipe.Ingredient{
		{Name: "milk", Quantity: types.Milliliters(100)},
		{Name: "cilantro", Quantity: types.Portions(1)},
	}, lots, profiles)

	var allergen, avoid int
	for _, w := range res.Warnings {
		switch w.Kind {
		case WarnAllergen:
			allergen++
		case WarnAvoid:
			avoid++
		}
	}
	if allergen != 1 || avoid != 1 {
		t.Fatalf("warnings = %+v, want one allergen and one avoid", res.Warnings)
	}
}

func TestReconcileIsReadOnlyAndDeterministic(t *testing.T) {
	l := mklot(t, "milk", types.Milliliters(500), 5)
	before := *l
	lots := []*lot.Lot{l}
	ings := []recipe.Ingredient{{Name: "milk", Quantity: types.Milliliters(200)}}

	first := Reconcile(testNow, ings, lots, nil)
	second := Reconcile(testNow, ings, lots, nil)

	if *l != before {
		t.Fatalf("lot mutated by reconciliation: %+v", l)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between runs:\n%+v\n%+v", first, second)
	}
}
