package lot

import (
	"context"
	"time"

	"github.com/xraph/pantry/expiry"
	"github.com/xraph/pantry/id"
	"github.com/xraph/pantry/types"
)

type Store interface {
	Create(ctx context.Context, l *Lot) error
	Get(ctx context.Context, lotID id.LotID) (*Lot, error)
	List(ctx context.Context, opts ListOpts) ([]*Lot, error)
	// UpdateQuantity writes a lot's remaining quantity and status after a
	// draw. It must never persist a negative quantity.
	UpdateQuantity(ctx context.Context, lotID id.LotID, qty types.Quantity, status Status) error
	UpdateExpiry(ctx context.Context, lotID id.LotID, expiresAt time.Time, source expiry.Source) error
	// ApplyDraws applies a consume/discard plan as a single all-or-nothing
	// batch: each draw reduces its lot by the drawn amount and marks the
	// lot terminal when depleted.
	ApplyDraws(ctx context.Context, draws []Draw, terminal Status) error
}
