// Package pantry provides an expiry-aware household food inventory engine
// for Go applications.
//
// Pantry is designed as a library, not a service. Import it directly into
// your Go application. It provides:
//
//   - An inventory ledger of discrete lots, drawn earliest-expiry-first
//   - An expiry policy deriving dates from per-item shelf-life defaults
//   - Read-time freshness classification (fresh / expiring_soon / expired)
//   - A recipe extractor for free-form text and schema.org JSON-LD pages
//   - Read-only reconciliation of a recipe against current stock
//   - A waste log recording every discard
//   - Household dietary profiles surfaced as reconciliation warnings
//   - Pluggable storage (memory, SQLite, Postgres, MongoDB)
//
// # Quick Start
//
// Create a pantry instance with your preferred store:
//
//	import (
//	    "github.com/xraph/pantry"
//	    "github.com/xraph/pantry/store/memory"
//	)
//
//	// Initialize store (memory for demos; sqlite/postgres/mongo take a *grove.DB)
//	store := memory.New()
//
//	// Create the engine
//	p := pantry.New(store)
//
//	// Start (runs migrations, initializes plugins)
//	if err := p.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Stop()
//
// # Core Concepts
//
// Every add creates a new independent lot; lots are never merged:
//
//	l, err := p.AddLot(ctx, "milk", pantry.Liters(1), time.Now(), nil)
//
// Consuming draws from lots in earliest-expiry-first order and rejects the
// whole request when stock cannot cover it:
//
//	draws, err := p.Consume(ctx, "milk", pantry.Milliliters(250))
//	if pantry.IsStockError(err) {
//	    // nothing was drawn
//	}
//
// Reconciliation simulates a recipe against stock without mutating it:
//
//	ext, result, err := p.CheckRecipe(ctx, recipeText)
//	for _, item := range result.ShortItems() {
//	    // item.Shortfall is what to buy
//	}
//
// # Quantities
//
// All quantities use integer milli-unit arithmetic to avoid floating-point
// drift: 1 g is stored as 1000, so a third of 100 g stays exact enough for
// kitchen math. Conversion is category-scoped (mass, volume, count) via a
// fixed table; cross-category conversion is refused, never guessed.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	lot_01h2xcejqtf2nbrexx3vqjhp41    // Inventory lot
//	item_01h2xcejqtf2nbrexx3vqjhp41   // Catalog shelf-life entry
//	waste_01h455vb4pex5vsknk084sn02q  // Waste log entry
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package pantry
