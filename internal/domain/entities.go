package domain

// Datastore kind names. The store partitions entities by kind; ids are only
// unique within one kind.
const (
	KindUser = "users"
	KindTask = "tasks"
	KindList = "lists"
)

// Entity is anything the entity store can persist. Ids are opaque,
// store-assigned int64 keys; a zero id means "not persisted yet".
type Entity interface {
	EntityKind() string
	EntityID() int64
	SetEntityID(id int64)
}

// User mirrors an identity-provider account into the local store. It is
// created once on the first successful login callback and never mutated by
// the API afterwards.
type User struct {
	ID        int64  `datastore:"-" json:"id"`
	SubjectID string `datastore:"user_id" json:"user_id"`
	Name      string `datastore:"name" json:"name"`
	Self      string `datastore:"-" json:"self,omitempty"`
}

func (u *User) EntityKind() string   { return KindUser }
func (u *User) EntityID() int64      { return u.ID }
func (u *User) SetEntityID(id int64) { u.ID = id }

// ListRef is the back pointer a task keeps to the list it belongs to.
// Name is a snapshot of the list's name at assignment time.
type ListRef struct {
	ID   int64  `datastore:"id" json:"id"`
	Name string `datastore:"name" json:"name"`
}

// TaskRef is the forward pointer a list keeps for each member task.
// Name is a snapshot of the task's name at assignment time.
type TaskRef struct {
	ID   int64  `datastore:"id" json:"id"`
	Name string `datastore:"name" json:"name"`
}

// Task belongs to exactly one owner and to at most one list. TaskList is nil
// while the task is unassigned; when set, the referenced list's Tasks slice
// must contain a matching TaskRef. Only the relationship manager writes
// either side of that pair.
type Task struct {
	ID        int64    `datastore:"-" json:"id"`
	Owner     string   `datastore:"owner" json:"owner"`
	Name      string   `datastore:"name" json:"name"`
	DueDate   string   `datastore:"due_date" json:"due_date"`
	Completed bool     `datastore:"completed" json:"completed"`
	TaskList  *ListRef `datastore:"task_list" json:"task_list"`
	Self      string   `datastore:"-" json:"self,omitempty"`
}

func (t *Task) EntityKind() string   { return KindTask }
func (t *Task) EntityID() int64      { return t.ID }
func (t *Task) SetEntityID(id int64) { t.ID = id }

// InList reports whether the task currently belongs to any list.
func (t *Task) InList() bool { return t.TaskList != nil }

// TaskList groups tasks. Name is unique among lists with the same owner.
// Public lists are readable by anyone via single-item lookup; everything
// else is owner-only.
type TaskList struct {
	ID     int64     `datastore:"-" json:"id"`
	Owner  string    `datastore:"owner" json:"owner"`
	Name   string    `datastore:"name" json:"name"`
	Public bool      `datastore:"public" json:"public"`
	Tasks  []TaskRef `datastore:"tasks" json:"tasks"`
	Self   string    `datastore:"-" json:"self,omitempty"`
}

func (l *TaskList) EntityKind() string   { return KindList }
func (l *TaskList) EntityID() int64      { return l.ID }
func (l *TaskList) SetEntityID(id int64) { l.ID = id }

// RemoveTaskRef deletes the entry for taskID from the list's Tasks slice.
// It reports whether an entry was found.
func (l *TaskList) RemoveTaskRef(taskID int64) bool {
	for i, ref := range l.Tasks {
		if ref.ID == taskID {
			l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// NewEntity returns a zero value of the entity type stored under kind.
// Adapters use it to allocate query destinations.
func NewEntity(kind string) Entity {
	switch kind {
	case KindUser:
		return &User{}
	case KindTask:
		return &Task{}
	case KindList:
		return &TaskList{}
	}
	return nil
}
