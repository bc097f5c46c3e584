package domain

import "context"

// Filter is an exact-match equality predicate on a named entity property.
// It is the only query shape the store contract supports.
type Filter struct {
	Field string
	Value interface{}
}

// Eq builds an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Value: value}
}

// Ops is the subset of store operations that is also available inside a
// transaction. Get returns ErrInvalidID when no entity exists under the id.
// Put assigns a fresh id (via SetEntityID) when the entity's id is zero.
type Ops interface {
	Get(ctx context.Context, kind string, id int64) (Entity, error)
	Put(ctx context.Context, e Entity) error
	Delete(ctx context.Context, kind string, id int64) error
}

// Store is the entity store contract the rest of the system is written
// against. Backends: Google Cloud Datastore, Postgres (jsonb), in-memory.
//
// Query applies equality filters and returns one page of results together
// with the total number of matches ignoring limit/offset. Ordering is by id
// and therefore stable across pages. A limit <= 0 means "no limit".
//
// RunInTransaction executes fn against a transactional view; every mutation
// made through tx commits atomically or not at all. Relationship mutations
// spanning a task and a list always run through it so the bidirectional
// membership pointers can never be observed half-written.
type Store interface {
	Ops
	Query(ctx context.Context, kind string, filters []Filter, limit, offset int) ([]Entity, int, error)
	RunInTransaction(ctx context.Context, fn func(tx Ops) error) error
	Close() error
}
