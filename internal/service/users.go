package service

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
)

// UserService manages the local mirror of identity-provider accounts.
// Users are created exactly once, by the login callback; the API never
// updates or deletes them.
type UserService struct {
	store domain.Store
}

func NewUserService(store domain.Store) *UserService {
	return &UserService{store: store}
}

// Register stores the user unless the subject id is already known.
func (s *UserService) Register(ctx context.Context, subjectID, name string) error {
	existing, _, err := s.store.Query(ctx, domain.KindUser,
		[]domain.Filter{domain.Eq("user_id", subjectID)}, 0, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.store.Put(ctx, &domain.User{SubjectID: subjectID, Name: name})
}

// List returns every registered user. The directory is small and public;
// no pagination applies.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	entities, _, err := s.store.Query(ctx, domain.KindUser, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, len(entities))
	for i, e := range entities {
		users[i] = e.(*domain.User)
	}
	return users, nil
}

// Get returns a user by store id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	e, err := s.store.Get(ctx, domain.KindUser, id)
	if err != nil {
		return nil, err
	}
	return e.(*domain.User), nil
}
