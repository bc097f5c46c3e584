package service

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/validation"
)

// ListService implements the task-list operations, including the per-owner
// name uniqueness rule.
type ListService struct {
	store     domain.Store
	validator *validation.Validator
	rels      *Relationships
	pageLimit int
}

func NewListService(store domain.Store, v *validation.Validator, rels *Relationships, pageLimit int) *ListService {
	return &ListService{store: store, validator: v, rels: rels, pageLimit: pageLimit}
}

// Create validates the payload, enforces name uniqueness among the
// caller's lists and stores a fresh list with no members.
func (s *ListService) Create(ctx context.Context, subject string, payload map[string]interface{}) (*domain.TaskList, error) {
	if err := s.validator.Required(domain.KindList, payload, false); err != nil {
		return nil, err
	}
	if err := s.validator.ListProperties(payload); err != nil {
		return nil, err
	}

	list := &domain.TaskList{Owner: subject, Tasks: []domain.TaskRef{}}
	applyListPayload(list, payload)

	if err := s.checkUniqueName(ctx, subject, list.Name, 0); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get loads a list. publicRead marks the single-item read intent, which is
// the only context where a public list is visible to non-owners.
func (s *ListService) Get(ctx context.Context, subject string, id int64, publicRead bool) (*domain.TaskList, error) {
	e, err := s.store.Get(ctx, domain.KindList, id)
	if err != nil {
		return nil, err
	}
	list := e.(*domain.TaskList)
	if err := AuthorizeList(list, subject, publicRead); err != nil {
		return nil, err
	}
	return list, nil
}

// List returns one page of lists: the caller's own when authenticated,
// public lists otherwise. Visibility is applied as a query filter, not a
// per-item check.
func (s *ListService) List(ctx context.Context, subject string, offset int) ([]*domain.TaskList, int, error) {
	var filters []domain.Filter
	if subject == "" {
		filters = []domain.Filter{domain.Eq("public", true)}
	} else {
		filters = []domain.Filter{domain.Eq("owner", subject)}
	}

	entities, total, err := s.store.Query(ctx, domain.KindList, filters, s.pageLimit, offset)
	if err != nil {
		return nil, 0, err
	}
	lists := make([]*domain.TaskList, len(entities))
	for i, e := range entities {
		lists[i] = e.(*domain.TaskList)
	}
	return lists, total, nil
}

// Update applies the payload to an owned list. A rename re-checks name
// uniqueness, excluding the list itself from the conflict scan.
func (s *ListService) Update(ctx context.Context, subject string, id int64, payload map[string]interface{}, replace bool) (*domain.TaskList, error) {
	if replace {
		if err := s.validator.Required(domain.KindList, payload, true); err != nil {
			return nil, err
		}
	}
	if err := s.validator.ListProperties(payload); err != nil {
		return nil, err
	}

	list, err := s.Get(ctx, subject, id, false)
	if err != nil {
		return nil, err
	}

	if name, ok := payload["name"].(string); ok {
		if err := s.checkUniqueName(ctx, list.Owner, name, id); err != nil {
			return nil, err
		}
	}
	applyListPayload(list, payload)

	if err := s.store.Put(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes an owned list and every task it contains.
func (s *ListService) Delete(ctx context.Context, subject string, id int64) error {
	return s.rels.DeleteList(ctx, subject, id)
}

// AssignTask puts an owned task into an owned list.
func (s *ListService) AssignTask(ctx context.Context, subject string, listID, taskID int64) error {
	return s.rels.Assign(ctx, subject, listID, taskID)
}

// RemoveTask takes a task out of the named list.
func (s *ListService) RemoveTask(ctx context.Context, subject string, listID, taskID int64) error {
	return s.rels.Remove(ctx, subject, listID, taskID)
}

// checkUniqueName fails when another list with the same owner and name
// exists. excludeID skips the list being renamed.
func (s *ListService) checkUniqueName(ctx context.Context, owner, name string, excludeID int64) error {
	entities, _, err := s.store.Query(ctx, domain.KindList,
		[]domain.Filter{domain.Eq("name", name), domain.Eq("owner", owner)}, 0, 0)
	if err != nil {
		return err
	}
	for _, e := range entities {
		if e.EntityID() != excludeID {
			return domain.ErrListNameNotUnique
		}
	}
	return nil
}

// applyListPayload copies the writable list properties from the payload.
// Owner and the member slice are never writable through property updates.
func applyListPayload(list *domain.TaskList, payload map[string]interface{}) {
	if v, ok := payload["name"].(string); ok {
		list.Name = v
	}
	if v, ok := payload["public"].(bool); ok {
		list.Public = v
	}
}
