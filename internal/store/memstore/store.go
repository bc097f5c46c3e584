// Package memstore is an in-memory entity store. It backs unit tests and
// local development without a Datastore emulator or a database.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/tasknest/tasknest/internal/domain"
)

type key struct {
	kind string
	id   int64
}

// Store keeps entities in maps guarded by one mutex. Entities are cloned on
// the way in and out so callers never alias stored state.
type Store struct {
	mu       sync.Mutex
	entities map[key]domain.Entity
	nextID   int64
}

func New() *Store {
	return &Store{entities: make(map[key]domain.Entity), nextID: 1}
}

func (s *Store) Get(ctx context.Context, kind string, id int64) (domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(kind, id)
}

func (s *Store) get(kind string, id int64) (domain.Entity, error) {
	e, ok := s.entities[key{kind, id}]
	if !ok {
		return nil, domain.ErrInvalidID
	}
	return clone(e), nil
}

func (s *Store) Put(ctx context.Context, e domain.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(e)
	return nil
}

func (s *Store) put(e domain.Entity) {
	if e.EntityID() == 0 {
		e.SetEntityID(s.nextID)
		s.nextID++
	}
	s.entities[key{e.EntityKind(), e.EntityID()}] = clone(e)
}

func (s *Store) Delete(ctx context.Context, kind string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, key{kind, id})
	return nil
}

func (s *Store) Query(ctx context.Context, kind string, filters []domain.Filter, limit, offset int) ([]domain.Entity, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.Entity
	for k, e := range s.entities {
		if k.kind != kind {
			continue
		}
		if matches(e, filters) {
			matched = append(matched, e)
		}
	}
	// Id order keeps pagination stable.
	sort.Slice(matched, func(i, j int) bool { return matched[i].EntityID() < matched[j].EntityID() })

	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]domain.Entity, len(matched))
	for i, e := range matched {
		out[i] = clone(e)
	}
	return out, total, nil
}

// RunInTransaction stages fn's writes and applies them only when fn
// succeeds, matching the atomicity the real backends provide.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Ops) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s, staged: make(map[key]domain.Entity), deleted: make(map[key]bool)}
	if err := fn(t); err != nil {
		return err
	}
	for k := range t.deleted {
		delete(s.entities, k)
	}
	for k, e := range t.staged {
		s.entities[k] = e
	}
	return nil
}

func (s *Store) Close() error { return nil }

type tx struct {
	store   *Store
	staged  map[key]domain.Entity
	deleted map[key]bool
}

func (t *tx) Get(ctx context.Context, kind string, id int64) (domain.Entity, error) {
	k := key{kind, id}
	if t.deleted[k] {
		return nil, domain.ErrInvalidID
	}
	if e, ok := t.staged[k]; ok {
		return clone(e), nil
	}
	return t.store.get(kind, id)
}

func (t *tx) Put(ctx context.Context, e domain.Entity) error {
	if e.EntityID() == 0 {
		e.SetEntityID(t.store.nextID)
		t.store.nextID++
	}
	k := key{e.EntityKind(), e.EntityID()}
	delete(t.deleted, k)
	t.staged[k] = clone(e)
	return nil
}

func (t *tx) Delete(ctx context.Context, kind string, id int64) error {
	k := key{kind, id}
	delete(t.staged, k)
	t.deleted[k] = true
	return nil
}

func matches(e domain.Entity, filters []domain.Filter) bool {
	for _, f := range filters {
		v, ok := property(e, f.Field)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

// property resolves the filterable fields by their stored names.
func property(e domain.Entity, field string) (interface{}, bool) {
	switch v := e.(type) {
	case *domain.User:
		switch field {
		case "user_id":
			return v.SubjectID, true
		case "name":
			return v.Name, true
		}
	case *domain.Task:
		switch field {
		case "owner":
			return v.Owner, true
		case "name":
			return v.Name, true
		case "completed":
			return v.Completed, true
		}
	case *domain.TaskList:
		switch field {
		case "owner":
			return v.Owner, true
		case "name":
			return v.Name, true
		case "public":
			return v.Public, true
		}
	}
	return nil, false
}

func clone(e domain.Entity) domain.Entity {
	switch v := e.(type) {
	case *domain.User:
		c := *v
		return &c
	case *domain.Task:
		c := *v
		if v.TaskList != nil {
			ref := *v.TaskList
			c.TaskList = &ref
		}
		return &c
	case *domain.TaskList:
		c := *v
		c.Tasks = append([]domain.TaskRef(nil), v.Tasks...)
		return &c
	}
	return e
}
