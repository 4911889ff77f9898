package profile

import "context"

type Store interface {
	Get(ctx context.Context, name string) (*Profile, error)
	// Upsert creates or replaces a profile keyed by its lowercased name.
	Upsert(ctx context.Context, p *Profile) error
	List(ctx context.Context) ([]*Profile, error)
	Delete(ctx context.Context, name string) error
}
