package store

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Saver persists a whole task list. It is called after every successful mutation.
type Saver interface {
	Save(list *TaskList) error
}

// TaskList is an ordered list of tasks addressed by 1-based index. A list without a
// saver is a detached search result and rejects mutation.
type TaskList struct {
	tasks []Task
	saver Saver
	log   *zap.Logger
}

func NewTaskList(tasks []Task, saver Saver, log *zap.Logger) *TaskList {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskList{
		tasks: append([]Task(nil), tasks...),
		saver: saver,
		log:   log,
	}
}

func (l *TaskList) Size() int { return len(l.tasks) }

func (l *TaskList) IsEmpty() bool { return len(l.tasks) == 0 }

func (l *TaskList) ReadOnly() bool { return l.saver == nil }

// Tasks returns a copy of the tasks in display order.
func (l *TaskList) Tasks() []Task {
	return append([]Task(nil), l.tasks...)
}

func (l *TaskList) Get(id int) (Task, error) {
	i, err := l.position(id)
	if err != nil {
		return Task{}, err
	}
	return l.tasks[i], nil
}

// Add appends task. An event is rejected when it overlaps any stored event.
func (l *TaskList) Add(task Task) error {
	if err := l.writable(); err != nil {
		return err
	}
	if task.Kind == KindEvent {
		if conflicts := l.conflicts(task); len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
	}
	l.tasks = append(l.tasks, task)
	l.persist("add")
	return nil
}

func (l *TaskList) MarkDone(id int) (Task, error) {
	return l.setDone(id, true)
}

func (l *TaskList) UnmarkDone(id int) (Task, error) {
	return l.setDone(id, false)
}

func (l *TaskList) Delete(id int) (Task, error) {
	if err := l.writable(); err != nil {
		return Task{}, err
	}
	i, err := l.position(id)
	if err != nil {
		return Task{}, err
	}
	removed := l.tasks[i]
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	l.persist("delete")
	return removed, nil
}

// Find matches keyword case-insensitively against each rendered task, so dates
// and kind tags are searchable too. The result is detached.
func (l *TaskList) Find(keyword string) *TaskList {
	out := NewTaskList(nil, nil, l.log)
	q := strings.ToLower(strings.TrimSpace(keyword))
	if q == "" {
		return out
	}
	for _, t := range l.tasks {
		if strings.Contains(strings.ToLower(t.String()), q) {
			out.tasks = append(out.tasks, t)
		}
	}
	return out
}

func (l *TaskList) String() string {
	var b strings.Builder
	for i, t := range l.tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(t.String())
	}
	return b.String()
}

func (l *TaskList) setDone(id int, done bool) (Task, error) {
	if err := l.writable(); err != nil {
		return Task{}, err
	}
	i, err := l.position(id)
	if err != nil {
		return Task{}, err
	}
	l.tasks[i].Done = done
	if done {
		l.persist("mark")
	} else {
		l.persist("unmark")
	}
	return l.tasks[i], nil
}

func (l *TaskList) conflicts(task Task) []Task {
	var out []Task
	for _, existing := range l.tasks {
		if task.Overlaps(existing) {
			out = append(out, existing)
		}
	}
	return out
}

func (l *TaskList) position(id int) (int, error) {
	if id < 1 || id > len(l.tasks) {
		return 0, invalidIndex()
	}
	return id - 1, nil
}

func (l *TaskList) writable() error {
	if l.saver == nil {
		return NewError(ErrReadOnly, "This list is a search result and cannot be changed.")
	}
	return nil
}

// persist never fails the caller: the in-memory change stands even if the write does not.
func (l *TaskList) persist(op string) {
	if err := l.saver.Save(l); err != nil {
		l.log.Warn("save failed", zap.String("op", op), zap.Int("tasks", len(l.tasks)), zap.Error(err))
	}
}
