package service

import "github.com/tasknest/tasknest/internal/domain"

// AuthorizeTask permits the operation only for the task's owner. Tasks
// have no public visibility of any kind.
func AuthorizeTask(task *domain.Task, subject string) error {
	if subject != "" && task.Owner == subject {
		return nil
	}
	return domain.ErrTaskForbidden
}

// AuthorizeList permits the operation for the list's owner. When
// publicRead is set (single-item reads only) a public list is visible to
// anyone. Collection listing never calls this; visibility there is a
// query-time filter instead.
func AuthorizeList(list *domain.TaskList, subject string, publicRead bool) error {
	if subject != "" && list.Owner == subject {
		return nil
	}
	if publicRead && list.Public {
		return nil
	}
	return domain.ErrListForbidden
}
