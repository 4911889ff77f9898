package waste

import "context"

type Store interface {
	// Record appends entries to the waste log in one batch.
	Record(ctx context.Context, entries []*Entry) error
	Query(ctx context.Context, opts QueryOpts) ([]*Entry, error)
}
