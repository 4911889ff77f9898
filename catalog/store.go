package catalog

import "context"

type Store interface {
	Get(ctx context.Context, name string) (*Entry, error)
	// Upsert creates or replaces the default shelf life for an item.
	Upsert(ctx context.Context, e *Entry) error
	List(ctx context.Context) ([]*Entry, error)
}
