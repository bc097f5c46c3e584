package service

import (
	"context"
	"errors"

	"github.com/tasknest/tasknest/internal/domain"
)

// Relationships is the only component allowed to write either side of the
// task<->list membership pair. The relation is stored twice, as a forward
// TaskRef in the list and a back ListRef on the task, and every transition
// here updates both inside one store transaction, so no caller can observe
// a half-written link.
type Relationships struct {
	store domain.Store
}

func NewRelationships(store domain.Store) *Relationships {
	return &Relationships{store: store}
}

// Assign puts the task into the list. The caller must own both entities,
// and the task must not currently belong to any list; re-assignment
// requires an explicit Remove first.
func (r *Relationships) Assign(ctx context.Context, subject string, listID, taskID int64) error {
	return r.store.RunInTransaction(ctx, func(tx domain.Ops) error {
		task, list, err := loadPair(ctx, tx, subject, listID, taskID)
		if err != nil {
			return err
		}
		if task.InList() {
			return domain.ErrTaskListNotEmpty
		}

		list.Tasks = append(list.Tasks, domain.TaskRef{ID: task.ID, Name: task.Name})
		task.TaskList = &domain.ListRef{ID: list.ID, Name: list.Name}

		// Task first, then list.
		if err := tx.Put(ctx, task); err != nil {
			return err
		}
		return tx.Put(ctx, list)
	})
}

// Remove takes the task out of the list. The task must currently belong
// to exactly the named list.
func (r *Relationships) Remove(ctx context.Context, subject string, listID, taskID int64) error {
	return r.store.RunInTransaction(ctx, func(tx domain.Ops) error {
		task, list, err := loadPair(ctx, tx, subject, listID, taskID)
		if err != nil {
			return err
		}
		if !task.InList() {
			return domain.ErrTaskListEmpty
		}
		if task.TaskList.ID != listID {
			return domain.ErrListIDNotMatching
		}

		list.RemoveTaskRef(task.ID)
		task.TaskList = nil

		if err := tx.Put(ctx, task); err != nil {
			return err
		}
		return tx.Put(ctx, list)
	})
}

// DeleteList removes the list and cascades to every member task. Member
// tasks are deleted by id without further checks; membership implies the
// same owner.
func (r *Relationships) DeleteList(ctx context.Context, subject string, listID int64) error {
	return r.store.RunInTransaction(ctx, func(tx domain.Ops) error {
		e, err := tx.Get(ctx, domain.KindList, listID)
		if err != nil {
			return err
		}
		list := e.(*domain.TaskList)
		if err := AuthorizeList(list, subject, false); err != nil {
			return err
		}

		for _, ref := range list.Tasks {
			if err := tx.Delete(ctx, domain.KindTask, ref.ID); err != nil {
				return err
			}
		}
		return tx.Delete(ctx, domain.KindList, listID)
	})
}

// DeleteTask removes the task, detaching it from its list first so the
// list never keeps a dangling forward pointer.
func (r *Relationships) DeleteTask(ctx context.Context, subject string, taskID int64) error {
	return r.store.RunInTransaction(ctx, func(tx domain.Ops) error {
		e, err := tx.Get(ctx, domain.KindTask, taskID)
		if err != nil {
			return err
		}
		task := e.(*domain.Task)
		if err := AuthorizeTask(task, subject); err != nil {
			return err
		}

		if task.InList() {
			le, err := tx.Get(ctx, domain.KindList, task.TaskList.ID)
			switch {
			case err == nil:
				list := le.(*domain.TaskList)
				list.RemoveTaskRef(task.ID)
				if err := tx.Put(ctx, list); err != nil {
					return err
				}
			case errors.Is(err, domain.ErrInvalidID):
				// Back pointer to a list that no longer exists; nothing to
				// detach from.
			default:
				return err
			}
		}
		return tx.Delete(ctx, domain.KindTask, taskID)
	})
}

// loadPair fetches task and list inside the transaction and runs the
// ownership checks. Existence errors surface before ownership errors.
func loadPair(ctx context.Context, tx domain.Ops, subject string, listID, taskID int64) (*domain.Task, *domain.TaskList, error) {
	te, err := tx.Get(ctx, domain.KindTask, taskID)
	if err != nil {
		return nil, nil, err
	}
	task := te.(*domain.Task)
	if err := AuthorizeTask(task, subject); err != nil {
		return nil, nil, err
	}

	le, err := tx.Get(ctx, domain.KindList, listID)
	if err != nil {
		return nil, nil, err
	}
	list := le.(*domain.TaskList)
	if err := AuthorizeList(list, subject, false); err != nil {
		return nil, nil, err
	}
	return task, list, nil
}
