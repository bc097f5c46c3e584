package service

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/validation"
)

// TaskService implements the task operations. Owner, completed and the
// list membership are initialized server-side on create and are never
// writable through property updates.
type TaskService struct {
	store     domain.Store
	validator *validation.Validator
	rels      *Relationships
	pageLimit int
}

func NewTaskService(store domain.Store, v *validation.Validator, rels *Relationships, pageLimit int) *TaskService {
	return &TaskService{store: store, validator: v, rels: rels, pageLimit: pageLimit}
}

// Create validates the payload and stores a fresh task owned by the
// caller, unassigned and not completed.
func (s *TaskService) Create(ctx context.Context, subject string, payload map[string]interface{}) (*domain.Task, error) {
	if err := s.validator.Required(domain.KindTask, payload, false); err != nil {
		return nil, err
	}
	if err := s.validator.TaskProperties(payload, false); err != nil {
		return nil, err
	}

	task := &domain.Task{Owner: subject, Completed: false, TaskList: nil}
	applyTaskPayload(task, payload, false)

	if err := s.store.Put(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get loads a task; only the owner may see it.
func (s *TaskService) Get(ctx context.Context, subject string, id int64) (*domain.Task, error) {
	e, err := s.store.Get(ctx, domain.KindTask, id)
	if err != nil {
		return nil, err
	}
	task := e.(*domain.Task)
	if err := AuthorizeTask(task, subject); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns one page of the caller's tasks plus the total count of the
// caller's tasks regardless of paging.
func (s *TaskService) List(ctx context.Context, subject string, offset int) ([]*domain.Task, int, error) {
	entities, total, err := s.store.Query(ctx, domain.KindTask,
		[]domain.Filter{domain.Eq("owner", subject)}, s.pageLimit, offset)
	if err != nil {
		return nil, 0, err
	}
	tasks := make([]*domain.Task, len(entities))
	for i, e := range entities {
		tasks[i] = e.(*domain.Task)
	}
	return tasks, total, nil
}

// Update applies the payload to an owned task. replace (PUT) demands the
// full required-property set including completed; PATCH applies whatever
// valid properties are present.
func (s *TaskService) Update(ctx context.Context, subject string, id int64, payload map[string]interface{}, replace bool) (*domain.Task, error) {
	if replace {
		if err := s.validator.Required(domain.KindTask, payload, true); err != nil {
			return nil, err
		}
	}
	if err := s.validator.TaskProperties(payload, replace); err != nil {
		return nil, err
	}

	task, err := s.Get(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	applyTaskPayload(task, payload, true)

	if err := s.store.Put(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes an owned task, detaching it from its list first.
func (s *TaskService) Delete(ctx context.Context, subject string, id int64) error {
	return s.rels.DeleteTask(ctx, subject, id)
}

// applyTaskPayload copies the writable task properties from the payload.
// Owner and task_list are deliberately not writable here.
func applyTaskPayload(task *domain.Task, payload map[string]interface{}, allowCompleted bool) {
	if v, ok := payload["name"].(string); ok {
		task.Name = v
	}
	if v, ok := payload["due_date"].(string); ok {
		task.DueDate = v
	}
	if allowCompleted {
		if v, ok := payload["completed"].(bool); ok {
			task.Completed = v
		}
	}
}
