package command

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/amirbrooks/sid/internal/store"
)

type Action int

const (
	ActionNone Action = iota
	ActionBye
	ActionList
	ActionAdd
	ActionMark
	ActionUnmark
	ActionDelete
	ActionFind
)

// Result is what a command produced. Message is the same text on every surface;
// Task, Total and Found are there for renderers that want structure.
type Result struct {
	Action  Action
	Message string
	Task    *store.Task
	Total   int
	Found   *store.TaskList
	Exit    bool
	Empty   bool
}

var (
	byMarker   = regexp.MustCompile(`(?i)\s*/by\s+`)
	fromMarker = regexp.MustCompile(`(?i)\s*/from\s+`)
	toMarker   = regexp.MustCompile(`(?i)\s*/to\s+`)
)

// Interpreter turns one line of input into a change to List. Calls must be serialized.
type Interpreter struct {
	List *store.TaskList
	// RejectPast refuses deadlines and event starts before Now.
	RejectPast bool
	Now        func() time.Time
	Log        *zap.Logger
}

func New(list *store.TaskList, log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{
		List: list,
		Now:  func() time.Time { return store.WallClock(time.Now()) },
		Log:  log,
	}
}

// Execute runs line against the task list. A blank line yields an empty Result.
// User mistakes come back as *store.Error or *store.ConflictError.
func (in *Interpreter) Execute(line string) (Result, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{Empty: true}, nil
	}
	cmd, arg := splitCommand(line)

	var (
		res Result
		err error
	)
	switch cmd {
	case "bye":
		res = Result{Action: ActionBye, Message: msgBye, Exit: true}
	case "list":
		res = in.list()
	case "todo":
		res, err = in.todo(arg)
	case "deadline":
		res, err = in.deadline(arg)
	case "event":
		res, err = in.event(arg)
	case "mark":
		res, err = in.mark(arg)
	case "unmark":
		res, err = in.unmark(arg)
	case "delete":
		res, err = in.delete(arg)
	case "find":
		res, err = in.find(arg)
	default:
		err = store.NewError(store.ErrUnknownCommand, msgUnknown)
	}
	if err != nil {
		in.logger().Debug("command rejected", zap.String("command", cmd), zap.Error(err))
		return Result{}, err
	}
	in.logger().Debug("command done", zap.String("command", cmd), zap.Int("tasks", in.List.Size()))
	return res, nil
}

// Reply is Execute for surfaces that only show text: failures become their message
// and a blank line gets the help text.
func (in *Interpreter) Reply(line string) string {
	res, err := in.Execute(line)
	if err != nil {
		return err.Error()
	}
	if res.Empty {
		return HelpMessage
	}
	return res.Message
}

func splitCommand(line string) (string, string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimSpace(line[i:])
}

func (in *Interpreter) list() Result {
	if in.List.IsEmpty() {
		return Result{Action: ActionList, Message: msgListEmpty}
	}
	return Result{Action: ActionList, Message: msgListHeader + in.List.String(), Total: in.List.Size()}
}

func (in *Interpreter) todo(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgTodoUsage)
	}
	t, err := store.NewTodo(arg)
	if err != nil {
		return Result{}, err
	}
	return in.add(t)
}

func (in *Interpreter) deadline(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgDeadlineUsage)
	}
	seg := byMarker.Split(arg, 2)
	if len(seg) < 2 || isBlank(seg[0]) || isBlank(seg[1]) {
		return Result{}, usage(msgDeadlineUsage)
	}
	when, err := ParseDateTime(strings.TrimSpace(seg[1]))
	if err != nil {
		return Result{}, err
	}
	if in.RejectPast && when.Before(in.now()) {
		return Result{}, store.NewError(store.ErrInvalid, msgDeadlinePast)
	}
	t, err := store.NewDeadline(seg[0], when)
	if err != nil {
		return Result{}, err
	}
	return in.add(t)
}

func (in *Interpreter) event(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgEventUsage)
	}
	a := fromMarker.Split(arg, 2)
	if len(a) < 2 || isBlank(a[0]) {
		return Result{}, usage(msgEventUsage)
	}
	b := toMarker.Split(a[1], 2)
	if len(b) < 2 || isBlank(b[0]) || isBlank(b[1]) {
		return Result{}, usage(msgEventUsage)
	}
	start, err := ParseDateTime(strings.TrimSpace(b[0]))
	if err != nil {
		return Result{}, err
	}
	end, err := ParseDateTime(strings.TrimSpace(b[1]))
	if err != nil {
		return Result{}, err
	}
	if end.Before(start) {
		return Result{}, store.NewError(store.ErrInvalid, msgEventBackward)
	}
	if in.RejectPast && start.Before(in.now()) {
		return Result{}, store.NewError(store.ErrInvalid, msgEventPast)
	}
	t, err := store.NewEvent(a[0], start, end)
	if err != nil {
		return Result{}, err
	}
	return in.add(t)
}

func (in *Interpreter) add(t store.Task) (Result, error) {
	if err := in.List.Add(t); err != nil {
		return Result{}, err
	}
	total := in.List.Size()
	msg := msgAdded + t.String() + "\nNow you have " + strconv.Itoa(total) + " tasks in the list."
	return Result{Action: ActionAdd, Message: msg, Task: &t, Total: total}, nil
}

func (in *Interpreter) mark(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgMarkUsage)
	}
	id, err := ParseIndex(arg, msgMarkBadNumber)
	if err != nil {
		return Result{}, err
	}
	t, err := in.List.MarkDone(id)
	if err != nil {
		return Result{}, err
	}
	return Result{Action: ActionMark, Message: msgMarked + t.String(), Task: &t, Total: in.List.Size()}, nil
}

func (in *Interpreter) unmark(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgUnmarkUsage)
	}
	id, err := ParseIndex(arg, msgUnmarkBadNumber)
	if err != nil {
		return Result{}, err
	}
	t, err := in.List.UnmarkDone(id)
	if err != nil {
		return Result{}, err
	}
	return Result{Action: ActionUnmark, Message: msgUnmarked + t.String(), Task: &t, Total: in.List.Size()}, nil
}

func (in *Interpreter) delete(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgDeleteUsage)
	}
	id, err := ParseIndex(arg, msgDeleteBadNumber)
	if err != nil {
		return Result{}, err
	}
	t, err := in.List.Delete(id)
	if err != nil {
		return Result{}, err
	}
	total := in.List.Size()
	msg := msgDeleted + t.String() + "\nNow you have " + strconv.Itoa(total) + " tasks in the list."
	return Result{Action: ActionDelete, Message: msg, Task: &t, Total: total}, nil
}

func (in *Interpreter) find(arg string) (Result, error) {
	if arg == "" {
		return Result{}, usage(msgFindUsage)
	}
	found := in.List.Find(arg)
	if found.IsEmpty() {
		return Result{Action: ActionFind, Message: msgNotFound, Found: found}, nil
	}
	return Result{Action: ActionFind, Message: msgFound + found.String(), Found: found, Total: found.Size()}, nil
}

func (in *Interpreter) now() time.Time {
	if in.Now == nil {
		return store.WallClock(time.Now())
	}
	return store.WallClock(in.Now())
}

func (in *Interpreter) logger() *zap.Logger {
	if in.Log == nil {
		return zap.NewNop()
	}
	return in.Log
}

func usage(msg string) error {
	return store.NewError(store.ErrUsage, msg)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsUserError reports whether err is a recoverable input problem rather than a fault.
func IsUserError(err error) bool {
	for _, kind := range []error{
		store.ErrUsage, store.ErrParse, store.ErrInvalidIndex, store.ErrConflict,
		store.ErrUnknownCommand, store.ErrInvalid, store.ErrReadOnly,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
