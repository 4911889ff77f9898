package audithook

// Action constants for audit events.
const (
	// Lot actions
	ActionLotAdded     = "lot.added"
	ActionLotConsumed  = "lot.consumed"
	ActionLotDiscarded = "lot.discarded"
	ActionStockShort   = "stock.short"

	// Expiry actions
	ActionExpiryUpdated    = "expiry.updated"
	ActionShelfLifeChanged = "shelf_life.changed"

	// Recipe actions
	ActionRecipeExtracted = "recipe.extracted"
	ActionReconciled      = "reconcile.run"

	// Waste actions
	ActionWasteRecorded = "waste.recorded"

	// Profile actions
	ActionProfileSaved = "profile.saved"
)

// Resource constants for audit events.
const (
	ResourceLot     = "lot"
	ResourceCatalog = "catalog"
	ResourceRecipe  = "recipe"
	ResourceWaste   = "waste"
	ResourceProfile = "profile"
)

// Category constants for audit events.
const (
	CategoryInventory = "inventory"
	CategoryExpiry    = "expiry"
	CategoryRecipe    = "recipe"
	CategoryWaste     = "waste"
	CategoryProfile   = "profile"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
