package core

import "context"

// Repository defines the contract for storing and retrieving one entity type.
type Repository[E Entity] interface {
	// Save inserts a transient entity. A persisted entity is returned as is and
	// nothing is written; use Update to overwrite.
	Save(ctx context.Context, e E) (E, error)

	// Insert assigns the next id to a transient entity and writes it.
	Insert(ctx context.Context, e E) (E, error)

	// Update overwrites an existing persisted entity.
	Update(ctx context.Context, e E) error

	// FindByID returns ErrNotFound when no record has that id.
	FindByID(ctx context.Context, id int64) (E, error)

	// FindAll returns every record in directory listing order.
	FindAll(ctx context.Context) ([]E, error)

	// Delete removes the entity's record. Missing records are ignored.
	Delete(ctx context.Context, e E) error

	// Clear removes every record and the snapshot. Id allocation is not reset.
	Clear(ctx context.Context) error

	// RebuildSnapshot rewrites the aggregate snapshot from the current records.
	RebuildSnapshot(ctx context.Context) error

	// FindByFieldLike filters FindAll by a wildcard pattern on the selected field.
	FindByFieldLike(ctx context.Context, pattern string, selector func(E) string) ([]E, error)
}

// Watchable defines an interface for repositories that can stream changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
