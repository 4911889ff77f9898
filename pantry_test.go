package pantry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/pantry"
	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/lot"
	"github.com/xraph/pantry/profile"
	"github.com/xraph/pantry/recipe"
	"github.com/xraph/pantry/store/memory"
	"github.com/xraph/pantry/types"
	"github.com/xraph/pantry/waste"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPantry(t *testing.T) *pantry.Pantry {
	t.Helper()

	p := pantry.New(memory.New(),
		pantry.WithClock(func() time.Time { return testNow }),
	)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	t.Cleanup(func() { _ = p.Stop() })
	return p
}

func addLot(t *testing.T, p *pantry.Pantry, name string, qty types.Quantity, expiresInDays int) *lot.Lot {
	t.Helper()

	exp := testNow.AddDate(0, 0, expiresInDays)
	l, err := p.AddLot(context.Background(), name, qty, testNow, &exp)
	if err != nil {
		t.Fatalf("AddLot(%q) = %v", name, err)
	}
	return l
}

func TestAddLot(t *testing.T) {
	ctx := context.Background()

	t.Run("ExplicitExpiry", func(t *testing.T) {
		p := newTestPantry(t)

		exp := testNow.AddDate(0, 0, 10)
		l, err := p.AddLot(ctx, "  Milk ", pantry.Liters(1), testNow, &exp)
		if err != nil {
			t.Fatalf("AddLot() = %v", err)
		}
		if l.Name != "milk" {
			t.Errorf("Name = %q, want %q", l.Name, "milk")
		}
		if l.ExpirySource != expiry.SourceUser {
			t.Errorf("ExpirySource = %q, want %q", l.ExpirySource, expiry.SourceUser)
		}
		if !l.ExpiresAt.Equal(exp) {
			t.Errorf("ExpiresAt = %v, want %v", l.ExpiresAt, exp)
		}
	})

	t.Run("CatalogDefault", func(t *testing.T) {
		p := newTestPantry(t)

		if _, err := p.SetShelfLife(ctx, "yogurt", 14); err != nil {
			t.Fatalf("SetShelfLife() = %v", err)
		}

		l, err := p.AddLot(ctx, "yogurt", pantry.Pieces(4), testNow, nil)
		if err != nil {
			t.Fatalf("AddLot() = %v", err)
		}
		if l.ExpirySource != expiry.SourceDefault {
			t.Errorf("ExpirySource = %q, want %q", l.ExpirySource, expiry.SourceDefault)
		}
		if want := testNow.AddDate(0, 0, 14); !l.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", l.ExpiresAt, want)
		}
	})

	t.Run("FallbackDefault", func(t *testing.T) {
		p := newTestPantry(t)

		l, err := p.AddLot(ctx, "mystery sauce", pantry.Milliliters(200), testNow, nil)
		if err != nil {
			t.Fatalf("AddLot() = %v", err)
		}
		if want := testNow.AddDate(0, 0, expiry.DefaultShelfLifeDays); !l.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", l.ExpiresAt, want)
		}
	})

	t.Run("LotsNeverMerge", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "milk", pantry.Liters(1), 5)
		addLot(t, p, "milk", pantry.Liters(1), 8)

		views, err := p.Query(ctx, lot.ListOpts{Name: "milk"})
		if err != nil {
			t.Fatalf("Query() = %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("got %d lots, want 2", len(views))
		}
	})

	t.Run("RejectsNonPositiveQuantity", func(t *testing.T) {
		p := newTestPantry(t)

		if _, err := p.AddLot(ctx, "milk", pantry.Grams(0), testNow, nil); !errors.Is(err, pantry.ErrInvalidQuantity) {
			t.Errorf("AddLot(zero) = %v, want ErrInvalidQuantity", err)
		}
		if _, err := p.AddLot(ctx, "", pantry.Grams(100), testNow, nil); err == nil {
			t.Error("AddLot(empty name) succeeded, want error")
		}
	})
}

func TestConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("DrawsEarliestExpiryFirst", func(t *testing.T) {
		p := newTestPantry(t)

		late := addLot(t, p, "milk", pantry.Milliliters(500), 10)
		early := addLot(t, p, "milk", pantry.Milliliters(500), 4)

		draws, err := p.Consume(ctx, "milk", pantry.Milliliters(600))
		if err != nil {
			t.Fatalf("Consume() = %v", err)
		}
		if len(draws) != 2 {
			t.Fatalf("got %d draws, want 2", len(draws))
		}
		if draws[0].LotID != early.ID {
			t.Errorf("first draw from lot %s, want earliest-expiring %s", draws[0].LotID, early.ID)
		}
		if !draws[0].Amount.Equal(pantry.Milliliters(500)) || !draws[0].Depleted {
			t.Errorf("first draw = %s depleted=%v, want 500 ml depleted", draws[0].Amount, draws[0].Depleted)
		}
		if draws[1].LotID != late.ID || !draws[1].Amount.Equal(pantry.Milliliters(100)) {
			t.Errorf("second draw = %s from %s, want 100 ml from %s", draws[1].Amount, draws[1].LotID, late.ID)
		}

		// Drained lot goes terminal, partial lot stays active.
		views, err := p.Query(ctx, lot.ListOpts{Name: "milk"})
		if err != nil {
			t.Fatalf("Query() = %v", err)
		}
		if len(views) != 1 {
			t.Fatalf("got %d active lots, want 1", len(views))
		}
		if !views[0].Quantity.Equal(pantry.Milliliters(400)) {
			t.Errorf("remaining = %s, want 400 ml", views[0].Quantity)
		}
	})

	t.Run("RejectsWholeRequestWhenShort", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "butter", pantry.Grams(100), 20)

		_, err := p.Consume(ctx, "butter", pantry.Grams(250))
		if !errors.Is(err, pantry.ErrInsufficientStock) {
			t.Fatalf("Consume() = %v, want ErrInsufficientStock", err)
		}

		var stockErr pantry.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("error %v does not carry InsufficientStockError detail", err)
		}
		if !stockErr.Available.Equal(pantry.Grams(100)) {
			t.Errorf("Available = %s, want 100 g", stockErr.Available)
		}

		// Nothing was drawn.
		views, _ := p.Query(ctx, lot.ListOpts{Name: "butter"})
		if len(views) != 1 || !views[0].Quantity.Equal(pantry.Grams(100)) {
			t.Error("stock changed after a rejected consume")
		}
	})

	t.Run("ExpiredStockNeverConsumed", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "cream", pantry.Milliliters(200), -1)
		addLot(t, p, "cream", pantry.Milliliters(200), 5)

		_, err := p.Consume(ctx, "cream", pantry.Milliliters(300))
		if !errors.Is(err, pantry.ErrInsufficientStock) {
			t.Fatalf("Consume() = %v, want ErrInsufficientStock (expired lot excluded)", err)
		}

		draws, err := p.Consume(ctx, "cream", pantry.Milliliters(200))
		if err != nil {
			t.Fatalf("Consume() = %v", err)
		}
		if len(draws) != 1 {
			t.Errorf("got %d draws, want 1 (only the unexpired lot)", len(draws))
		}
	})

	t.Run("ConvertsAcrossCompatibleUnits", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "flour", pantry.Kilograms(1), 90)

		draws, err := p.Consume(ctx, "flour", pantry.Grams(300))
		if err != nil {
			t.Fatalf("Consume() = %v", err)
		}
		if len(draws) != 1 || !draws[0].Amount.Equal(pantry.Grams(300)) {
			t.Fatalf("draws = %v", draws)
		}

		views, _ := p.Query(ctx, lot.ListOpts{Name: "flour"})
		if !views[0].Quantity.Equal(pantry.Grams(700)) {
			t.Errorf("remaining = %s, want 700 g", views[0].Quantity)
		}
	})

	t.Run("UnitMismatch", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "tofu", pantry.Grams(400), 7)

		_, err := p.Consume(ctx, "tofu", pantry.Milliliters(100))
		if !errors.Is(err, pantry.ErrUnitMismatch) {
			t.Fatalf("Consume() = %v, want ErrUnitMismatch", err)
		}
	})

	t.Run("UnknownItem", func(t *testing.T) {
		p := newTestPantry(t)

		if _, err := p.Consume(ctx, "caviar", pantry.Grams(50)); !errors.Is(err, pantry.ErrItemNotFound) {
			t.Errorf("Consume() = %v, want ErrItemNotFound", err)
		}
	})
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsWaste", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "spinach", pantry.Grams(300), 2)

		draws, err := p.Discard(ctx, "spinach", pantry.Grams(300), waste.ReasonSpoiled)
		if err != nil {
			t.Fatalf("Discard() = %v", err)
		}
		if len(draws) != 1 || !draws[0].Depleted {
			t.Fatalf("draws = %v, want one depleting draw", draws)
		}

		entries, err := p.QueryWaste(ctx, waste.QueryOpts{Name: "spinach"})
		if err != nil {
			t.Fatalf("QueryWaste() = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d waste entries, want 1", len(entries))
		}
		if entries[0].Reason != waste.ReasonSpoiled {
			t.Errorf("Reason = %q, want %q", entries[0].Reason, waste.ReasonSpoiled)
		}
		if !entries[0].Quantity.Equal(pantry.Grams(300)) {
			t.Errorf("Quantity = %s, want 300 g", entries[0].Quantity)
		}
	})

	t.Run("ZeroQuantityDiscardsEverything", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "lettuce", pantry.Pieces(2), 1)
		addLot(t, p, "lettuce", pantry.Pieces(1), 3)

		draws, err := p.Discard(ctx, "lettuce", pantry.ZeroOf(types.UnitPiece), waste.ReasonExpired)
		if err != nil {
			t.Fatalf("Discard() = %v", err)
		}
		if len(draws) != 2 {
			t.Fatalf("got %d draws, want 2", len(draws))
		}

		views, _ := p.Query(ctx, lot.ListOpts{Name: "lettuce"})
		if len(views) != 0 {
			t.Errorf("got %d active lots after discard all, want 0", len(views))
		}
	})

	t.Run("ExpiredStockCanBeDiscarded", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "fish", pantry.Grams(200), -2)

		draws, err := p.Discard(ctx, "fish", pantry.Grams(200), waste.ReasonExpired)
		if err != nil {
			t.Fatalf("Discard() = %v (expired stock must be discardable)", err)
		}
		if len(draws) != 1 {
			t.Errorf("got %d draws, want 1", len(draws))
		}
	})
}

func TestQueryAndListExpiring(t *testing.T) {
	ctx := context.Background()

	t.Run("AnnotatesFreshness", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "apple", pantry.Pieces(3), 10)
		addLot(t, p, "bread", pantry.Pieces(1), 2)
		addLot(t, p, "old cheese", pantry.Grams(100), -1)

		views, err := p.Query(ctx, lot.ListOpts{})
		if err != nil {
			t.Fatalf("Query() = %v", err)
		}
		if len(views) != 3 {
			t.Fatalf("got %d views, want 3", len(views))
		}

		// Ordered soonest-expiring first.
		wantFreshness := []expiry.Freshness{expiry.Expired, expiry.ExpiringSoon, expiry.Fresh}
		for i, v := range views {
			if v.Freshness != wantFreshness[i] {
				t.Errorf("views[%d].Freshness = %q, want %q", i, v.Freshness, wantFreshness[i])
			}
		}
	})

	t.Run("ExpiringWindow", func(t *testing.T) {
		p := newTestPantry(t)

		addLot(t, p, "apple", pantry.Pieces(3), 10)
		addLot(t, p, "bread", pantry.Pieces(1), 2)
		addLot(t, p, "old cheese", pantry.Grams(100), -1)

		views, err := p.ListExpiring(ctx, 3)
		if err != nil {
			t.Fatalf("ListExpiring() = %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("got %d expiring lots, want 2", len(views))
		}
		if views[0].Name != "old cheese" || views[1].Name != "bread" {
			t.Errorf("order = [%s, %s], want earliest first", views[0].Name, views[1].Name)
		}
		if views[0].DaysRemaining != -1 {
			t.Errorf("DaysRemaining = %d, want -1", views[0].DaysRemaining)
		}
	})
}

func TestSetShelfLife(t *testing.T) {
	ctx := context.Background()
	p := newTestPantry(t)

	// Default-sourced lot gets recalculated, user-dated lot does not.
	defaulted, err := p.AddLot(ctx, "salsa", pantry.Milliliters(250), testNow, nil)
	if err != nil {
		t.Fatalf("AddLot() = %v", err)
	}
	pinned := addLot(t, p, "salsa", pantry.Milliliters(250), 30)

	recalculated, err := p.SetShelfLife(ctx, "salsa", 21)
	if err != nil {
		t.Fatalf("SetShelfLife() = %v", err)
	}
	if recalculated != 1 {
		t.Fatalf("recalculated = %d, want 1", recalculated)
	}

	v, err := p.GetLot(ctx, defaulted.ID)
	if err != nil {
		t.Fatalf("GetLot() = %v", err)
	}
	if want := testNow.AddDate(0, 0, 21); !v.ExpiresAt.Equal(want) {
		t.Errorf("recalculated ExpiresAt = %v, want %v", v.ExpiresAt, want)
	}

	v, err = p.GetLot(ctx, pinned.ID)
	if err != nil {
		t.Fatalf("GetLot() = %v", err)
	}
	if want := testNow.AddDate(0, 0, 30); !v.ExpiresAt.Equal(want) {
		t.Errorf("user-dated ExpiresAt = %v, want untouched %v", v.ExpiresAt, want)
	}

	if days, err := p.GetShelfLife(ctx, "salsa"); err != nil || days != 21 {
		t.Errorf("GetShelfLife() = %d, %v, want 21", days, err)
	}

	if _, err := p.SetShelfLife(ctx, "salsa", 0); !errors.Is(err, pantry.ErrInvalidShelfLife) {
		t.Errorf("SetShelfLife(0) = %v, want ErrInvalidShelfLife", err)
	}
}

func TestUpdateExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("ByLotID", func(t *testing.T) {
		p := newTestPantry(t)

		l, err := p.AddLot(ctx, "ham", pantry.Grams(200), testNow, nil)
		if err != nil {
			t.Fatalf("AddLot() = %v", err)
		}

		newExp := testNow.AddDate(0, 0, 3)
		updated, err := p.UpdateLotExpiry(ctx, l.ID, newExp)
		if err != nil {
			t.Fatalf("UpdateLotExpiry() = %v", err)
		}
		if !updated.ExpiresAt.Equal(newExp) {
			t.Errorf("ExpiresAt = %v, want %v", updated.ExpiresAt, newExp)
		}
		if updated.ExpirySource != expiry.SourceUser {
			t.Errorf("ExpirySource = %q, want %q (amended lots stop tracking the default)", updated.ExpirySource, expiry.SourceUser)
		}

		// An amended lot survives later shelf-life changes.
		if _, err := p.SetShelfLife(ctx, "ham", 60); err != nil {
			t.Fatalf("SetShelfLife() = %v", err)
		}
		v, _ := p.GetLot(ctx, l.ID)
		if !v.ExpiresAt.Equal(newExp) {
			t.Errorf("ExpiresAt = %v after shelf-life change, want %v", v.ExpiresAt, newExp)
		}
	})

	t.Run("ByNameScopes", func(t *testing.T) {
		tests := []struct {
			name    string
			scope   pantry.ExpiryScope
			amended int
		}{
			{"Earliest", pantry.ScopeEarliest, 1},
			{"Latest", pantry.ScopeLatest, 1},
			{"All", pantry.ScopeAll, 3},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p := newTestPantry(t)
				addLot(t, p, "juice", pantry.Liters(1), 2)
				addLot(t, p, "juice", pantry.Liters(1), 5)
				addLot(t, p, "juice", pantry.Liters(1), 9)

				amended, err := p.UpdateItemExpiry(ctx, "juice", tt.scope, testNow.AddDate(0, 0, 15))
				if err != nil {
					t.Fatalf("UpdateItemExpiry() = %v", err)
				}
				if amended != tt.amended {
					t.Errorf("amended = %d, want %d", amended, tt.amended)
				}
			})
		}
	})

	t.Run("ByDays", func(t *testing.T) {
		p := newTestPantry(t)
		addLot(t, p, "juice", pantry.Liters(1), 2)

		if _, err := p.UpdateItemExpiryDays(ctx, "juice", pantry.ScopeAll, 8); err != nil {
			t.Fatalf("UpdateItemExpiryDays() = %v", err)
		}
		views, _ := p.Query(ctx, lot.ListOpts{Name: "juice"})
		if want := testNow.AddDate(0, 0, 8); !views[0].ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want entry date + 8 days", views[0].ExpiresAt)
		}
	})
}

func TestCheckRecipe(t *testing.T) {
	ctx := context.Background()
	p := newTestPantry(t)

	addLot(t, p, "milk", pantry.Milliliters(500), 5)
	addLot(t, p, "eggs", pantry.Pieces(6), 10)

	if err := p.SaveProfile(ctx, &profile.Profile{
		Name:      "Sam",
		Allergens: []string{"egg"},
	}); err != nil {
		t.Fatalf("SaveProfile() = %v", err)
	}

	ext, result, err := p.CheckRecipe(ctx, "Pancakes:\n200 ml milk\n2 eggs\n100 g flour")
	if err != nil {
		t.Fatalf("CheckRecipe() = %v", err)
	}
	if len(ext.Ingredients) != 3 {
		t.Fatalf("parsed %d ingredients, want 3", len(ext.Ingredients))
	}
	if result.Fulfillable {
		t.Error("Fulfillable = true, want false (no flour in stock)")
	}

	short := result.ShortItems()
	if len(short) != 1 || short[0].Name != "flour" {
		t.Fatalf("ShortItems() = %v, want just flour", short)
	}
	if !short[0].Shortfall.Equal(pantry.Grams(100)) {
		t.Errorf("flour shortfall = %s, want 100 g", short[0].Shortfall)
	}

	foundAllergen := false
	for _, w := range result.Warnings {
		if w.Ingredient == "egg" {
			foundAllergen = true
		}
	}
	if !foundAllergen {
		t.Errorf("no allergen warning for egg in %v", result.Warnings)
	}

	// Reconciliation never mutates stock.
	views, _ := p.Query(ctx, lot.ListOpts{Name: "milk"})
	if !views[0].Quantity.Equal(pantry.Milliliters(500)) {
		t.Error("reconciliation changed stock")
	}
}

func TestReconcileMergesRepeatedIngredients(t *testing.T) {
	ctx := context.Background()
	p := newTestPantry(t)

	addLot(t, p, "eggs", pantry.Pieces(3), 5)

	result, err := p.Reconcile(ctx, []recipe.Ingredient{
		{Name: "egg", Quantity: pantry.Pieces(2)},
		{Name: "egg", Quantity: pantry.Pieces(2)},
	})
	if err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %+v, want one merged requirement", result.Items)
	}
	it := result.Items[0]
	if !it.Required.Equal(pantry.Pieces(4)) {
		t.Errorf("Required = %s, want 4 piece", it.Required)
	}
	if !it.Covered.Equal(pantry.Pieces(3)) || !it.Shortfall.Equal(pantry.Pieces(1)) {
		t.Errorf("item = %+v, want 3 covered and 1 short", it)
	}
	if result.Fulfillable {
		t.Error("Fulfillable = true with only 3 of 4 eggs in stock")
	}
}

func TestConcurrentConsumeAndDiscard(t *testing.T) {
	ctx := context.Background()
	p := newTestPantry(t)

	for i := 0; i < 5; i++ {
		addLot(t, p, "rice", pantry.Grams(100), i+1)
	}

	const (
		workers = 16
		perDraw = 60
	)

	var (
		mu     sync.Mutex
		drawn  int64
		wasted int64
		wg     sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			var draws []lot.Draw
			var err error
			if n%4 == 0 {
				draws, err = p.Discard(ctx, "rice", pantry.Grams(perDraw), waste.ReasonSpoiled)
			} else {
				draws, err = p.Consume(ctx, "rice", pantry.Grams(perDraw))
			}
			if err != nil {
				if !pantry.IsStockError(err) && !pantry.IsNotFound(err) {
					t.Errorf("unexpected draw error: %v", err)
				}
				return
			}

			var total int64
			for _, d := range draws {
				total += d.Amount.Amount
			}
			mu.Lock()
			drawn += total
			if n%4 == 0 {
				wasted += total
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	views, err := p.Query(ctx, lot.ListOpts{Name: "rice"})
	if err != nil {
		t.Fatalf("Query() = %v", err)
	}
	var remaining int64
	for _, v := range views {
		if v.Quantity.IsNegative() {
			t.Errorf("lot %s went negative: %s", v.ID, v.Quantity)
		}
		remaining += v.Quantity.Amount
	}

	stock := pantry.Grams(500).Amount
	if drawn > stock {
		t.Errorf("drew %d milli-grams from %d in stock", drawn, stock)
	}
	if remaining+drawn != stock {
		t.Errorf("remaining %d + drawn %d != starting stock %d", remaining, drawn, stock)
	}

	entries, err := p.QueryWaste(ctx, waste.QueryOpts{Name: "rice"})
	if err != nil {
		t.Fatalf("QueryWaste() = %v", err)
	}
	var logged int64
	for _, e := range entries {
		logged += e.Quantity.Amount
	}
	if logged != wasted {
		t.Errorf("waste log totals %d milli-grams, want %d", logged, wasted)
	}
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	p := newTestPantry(t)

	if err := p.SaveProfile(ctx, &profile.Profile{
		Name:  "Alex",
		Avoid: []string{"cilantro"},
	}); err != nil {
		t.Fatalf("SaveProfile() = %v", err)
	}

	got, err := p.GetProfile(ctx, "ALEX")
	if err != nil {
		t.Fatalf("GetProfile() = %v", err)
	}
	if got.Name != "alex" {
		t.Errorf("Name = %q, want lowercased %q", got.Name, "alex")
	}
	if got.NearExpiryDays != 3 {
		t.Errorf("NearExpiryDays = %d, want engine default 3", got.NearExpiryDays)
	}

	// Upsert by name keeps one profile.
	if err := p.SaveProfile(ctx, &profile.Profile{Name: "alex", Avoid: []string{"okra"}}); err != nil {
		t.Fatalf("SaveProfile() = %v", err)
	}
	all, err := p.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles() = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d profiles, want 1", len(all))
	}

	if err := p.DeleteProfile(ctx, "alex"); err != nil {
		t.Fatalf("DeleteProfile() = %v", err)
	}
	if _, err := p.GetProfile(ctx, "alex"); !pantry.IsNotFound(err) {
		t.Errorf("GetProfile() after delete = %v, want not-found", err)
	}

	if err := p.SaveProfile(ctx, &profile.Profile{}); !errors.Is(err, pantry.ErrInvalidProfile) {
		t.Errorf("SaveProfile(empty) = %v, want ErrInvalidProfile", err)
	}
}

// eventPlugin counts hook invocations.
type eventPlugin struct {
	mu     sync.Mutex
	events map[string]int
}

func (e *eventPlugin) Name() string { return "event-counter" }

func (e *eventPlugin) count(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events == nil {
		e.events = make(map[string]int)
	}
	e.events[name]++
}

func (e *eventPlugin) got(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events[name]
}

func (e *eventPlugin) OnLotAdded(context.Context, interface{}) error {
	e.count("lot_added")
	return nil
}

func (e *eventPlugin) OnLotConsumed(_ context.Context, _ string, _ []interface{}) error {
	e.count("lot_consumed")
	return nil
}

func (e *eventPlugin) OnStockShort(_ context.Context, _ string, _, _ interface{}) error {
	e.count("stock_short")
	return nil
}

func (e *eventPlugin) OnWasteRecorded(_ context.Context, _ []interface{}) error {
	e.count("waste_recorded")
	return nil
}

func TestPluginEvents(t *testing.T) {
	ctx := context.Background()
	ep := &eventPlugin{}

	p := pantry.New(memory.New(),
		pantry.WithClock(func() time.Time { return testNow }),
		pantry.WithPlugin(ep),
	)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer p.Stop()

	addLot(t, p, "rice", pantry.Kilograms(1), 365)
	if _, err := p.Consume(ctx, "rice", pantry.Grams(200)); err != nil {
		t.Fatalf("Consume() = %v", err)
	}
	if _, err := p.Consume(ctx, "rice", pantry.Kilograms(5)); !errors.Is(err, pantry.ErrInsufficientStock) {
		t.Fatalf("Consume() = %v, want ErrInsufficientStock", err)
	}
	if _, err := p.Discard(ctx, "rice", pantry.Grams(100), waste.ReasonSpoiled); err != nil {
		t.Fatalf("Discard() = %v", err)
	}

	want := map[string]int{
		"lot_added":      1,
		"lot_consumed":   1,
		"stock_short":    1,
		"waste_recorded": 1,
	}
	for name, n := range want {
		if got := ep.got(name); got != n {
			t.Errorf("%s fired %d times, want %d", name, got, n)
		}
	}
}

func TestExtractRecipeValidation(t *testing.T) {
	ctx := context.Background()
	p := newTestPantry(t)

	if _, err := p.ExtractRecipe(ctx, "   "); !errors.Is(err, pantry.ErrInvalidInput) {
		t.Errorf("ExtractRecipe(blank) = %v, want ErrInvalidInput", err)
	}
	if _, err := p.Reconcile(ctx, nil); !errors.Is(err, pantry.ErrNoIngredients) {
		t.Errorf("Reconcile(nil) = %v, want ErrNoIngredients", err)
	}
	if _, _, err := p.CheckRecipe(ctx, "Notes:\nSteps:"); !errors.Is(err, pantry.ErrNoIngredients) {
		t.Errorf("CheckRecipe(no ingredients) = %v, want ErrNoIngredients", err)
	}

	// Headings are skipped; parseable lines still come through.
	ext, err := p.ExtractRecipe(ctx, "Batter:\n200 g flour\n1/2 cup milk")
	if err != nil {
		t.Fatalf("ExtractRecipe() = %v", err)
	}
	if len(ext.Ingredients) != 2 {
		t.Errorf("parsed %d ingredients, want 2", len(ext.Ingredients))
	}
}
