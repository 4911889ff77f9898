package pantry_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/pantry"
	"github.com/xraph/pantry/store/memory"
	"github.com/xraph/pantry/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use SQLite/Postgres in production)
		store := memory.New()

		// Initialize Pantry
		p := pantry.New(store,
			pantry.WithLogger(slog.Default()),
			pantry.WithFreshnessThreshold(3),
			pantry.WithDefaultShelfLife(7),
		)

		// Start the engine
		ctx := context.Background()
		if err := p.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer p.Stop()

		// Stock the pantry. Each add creates an independent lot.
		if _, err := p.AddLot(ctx, "milk", pantry.Liters(1), time.Now(), nil); err != nil {
			t.Fatal(err)
		}
		expiry := time.Now().AddDate(0, 0, 14)
		if _, err := p.AddLot(ctx, "eggs", pantry.Pieces(12), time.Now(), &expiry); err != nil {
			t.Fatal(err)
		}

		// Consume draws earliest-expiry-first.
		draws, err := p.Consume(ctx, "milk", pantry.Milliliters(250))
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("drew from %d lot(s)\n", len(draws))

		// Check a recipe against stock without mutating anything.
		ext, result, err := p.CheckRecipe(ctx, "Pancakes:\n200 ml milk\n2 eggs\n100 g flour")
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("parsed %d ingredients\n", len(ext.Ingredients))
		for _, item := range result.ShortItems() {
			log.Printf("buy %s %s\n", item.Shortfall.String(), item.Name)
		}
	})

	// Test Quantity type examples
	t.Run("QuantityExamples", func(t *testing.T) {
		// Constructors
		_ = types.Grams(200)      // 200 g
		_ = types.Liters(1)       // 1 l, stored as milliliters
		_ = types.Pieces(12)      // 12 pieces
		_ = types.ZeroOf(types.UnitGram)

		// Arithmetic
		q1 := types.Grams(100)
		q2 := types.Grams(200)
		_ = q1.Add(q2)   // 300 g
		_ = q2.Subtract(q1)
		_ = q1.Scale(3) // 300 g

		// Category-scoped conversion
		l := types.Liters(1)
		ml, err := l.Convert(types.UnitMilliliter)
		if err != nil {
			t.Fatal(err)
		}
		_ = ml // 1000 ml

		// Comparison
		if q1.LessThan(q2) {
			// q1 is less than q2
		}

		// Formatting
		_ = q1.String() // "100 g"
	})
}
