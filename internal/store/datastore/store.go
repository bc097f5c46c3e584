// Package datastore backs the entity store contract with Google Cloud
// Datastore. Multi-key transactions from the Datastore client give the
// relationship mutations their atomicity.
package datastore

import (
	"context"
	"fmt"
	"os"

	ds "cloud.google.com/go/datastore"
	"google.golang.org/api/iterator"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/logger"
)

type Store struct {
	client *ds.Client
}

// New creates a Datastore-backed store. The official client picks up
// DATASTORE_EMULATOR_HOST automatically; it is logged for visibility
// during development.
func New(ctx context.Context, projectID string) (*Store, error) {
	if emulatorHost := os.Getenv("DATASTORE_EMULATOR_HOST"); emulatorHost != "" {
		logger.InfoLog(ctx, fmt.Sprintf("initializing Datastore client against emulator at %s", emulatorHost))
	}

	client, err := ds.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, kind string, id int64) (domain.Entity, error) {
	dst := domain.NewEntity(kind)
	if dst == nil {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if err := s.client.Get(ctx, ds.IDKey(kind, id, nil), dst); err != nil {
		return nil, wrapError(err)
	}
	dst.SetEntityID(id)
	return dst, nil
}

func (s *Store) Put(ctx context.Context, e domain.Entity) error {
	key := entityKey(e)
	newKey, err := s.client.Put(ctx, key, e)
	if err != nil {
		return err
	}
	e.SetEntityID(newKey.ID)
	return nil
}

func (s *Store) Delete(ctx context.Context, kind string, id int64) error {
	return s.client.Delete(ctx, ds.IDKey(kind, id, nil))
}

// Query runs an equality-filtered query ordered by key, so offsets address
// a stable sequence. The total is counted with a keys-only pass over the
// filtered set, the way offset-based pagination expects it.
func (s *Store) Query(ctx context.Context, kind string, filters []domain.Filter, limit, offset int) ([]domain.Entity, int, error) {
	q := ds.NewQuery(kind).Order("__key__")
	for _, f := range filters {
		q = q.FilterField(f.Field, "=", f.Value)
	}

	keys, err := s.client.GetAll(ctx, q.KeysOnly(), nil)
	if err != nil {
		return nil, 0, err
	}
	total := len(keys)

	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.Entity
	it := s.client.Run(ctx, q)
	for {
		dst := domain.NewEntity(kind)
		key, err := it.Next(dst)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		dst.SetEntityID(key.ID)
		out = append(out, dst)
	}
	return out, total, nil
}

// RunInTransaction executes fn against a Datastore transaction. Entities
// put inside a transaction must already have an id; Datastore does not
// surface generated ids until commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Ops) error) error {
	_, err := s.client.RunInTransaction(ctx, func(t *ds.Transaction) error {
		return fn(&txOps{t: t})
	})
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}

type txOps struct {
	t *ds.Transaction
}

func (x *txOps) Get(ctx context.Context, kind string, id int64) (domain.Entity, error) {
	dst := domain.NewEntity(kind)
	if dst == nil {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if err := x.t.Get(ds.IDKey(kind, id, nil), dst); err != nil {
		return nil, wrapError(err)
	}
	dst.SetEntityID(id)
	return dst, nil
}

func (x *txOps) Put(ctx context.Context, e domain.Entity) error {
	if e.EntityID() == 0 {
		return fmt.Errorf("transactional put requires an assigned id for kind %q", e.EntityKind())
	}
	_, err := x.t.Put(entityKey(e), e)
	return err
}

func (x *txOps) Delete(ctx context.Context, kind string, id int64) error {
	return x.t.Delete(ds.IDKey(kind, id, nil))
}

func entityKey(e domain.Entity) *ds.Key {
	if e.EntityID() == 0 {
		return ds.IncompleteKey(e.EntityKind(), nil)
	}
	return ds.IDKey(e.EntityKind(), e.EntityID(), nil)
}

// wrapError converts Datastore-specific errors to domain errors.
func wrapError(err error) error {
	if err == ds.ErrNoSuchEntity {
		return domain.ErrInvalidID
	}
	return err
}
