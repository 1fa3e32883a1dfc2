package command

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amirbrooks/sid/internal/store"
)

func newInterp(t *testing.T) (*Interpreter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sid.txt")
	list, err := store.NewFileCodec(path, nil).Load()
	require.NoError(t, err)
	return New(list, nil), path
}

func exec(t *testing.T, in *Interpreter, line string) Result {
	t.Helper()
	res, err := in.Execute(line)
	require.NoError(t, err, line)
	return res
}

func TestExecuteAddAndList(t *testing.T) {
	in, _ := newInterp(t)

	res := exec(t, in, "todo buy milk")
	require.Equal(t, ActionAdd, res.Action)
	require.Equal(t, "Got it. I've added this task:\n  [T][ ] buy milk\nNow you have 1 tasks in the list.", res.Message)
	require.Equal(t, 1, res.Total)

	res = exec(t, in, "deadline return book /by 2025-12-02 1800")
	require.Equal(t, "Got it. I've added this task:\n  [D][ ] return book (by: Dec 02 2025 18:00)\nNow you have 2 tasks in the list.", res.Message)

	res = exec(t, in, "list")
	require.Equal(t, ActionList, res.Action)
	require.Equal(t, "Here are your tasks:\n1. [T][ ] buy milk\n2. [D][ ] return book (by: Dec 02 2025 18:00)", res.Message)
}

func TestExecuteEmptyList(t *testing.T) {
	in, _ := newInterp(t)
	res := exec(t, in, "list")
	require.Equal(t, "Nothing on your agenda right now! Ready to get busy?", res.Message)
}

func TestExecuteMarkUnmarkDelete(t *testing.T) {
	in, _ := newInterp(t)
	exec(t, in, "todo a")
	exec(t, in, "todo b")

	res := exec(t, in, "mark 2")
	require.Equal(t, "YAY! You've completed this task:\n  [T][X] b", res.Message)

	res = exec(t, in, "unmark 2")
	require.Equal(t, "OK, I've marked this task as not done yet:\n  [T][ ] b", res.Message)

	res = exec(t, in, "delete 1")
	require.Equal(t, "Successfully deleted this task:\n  [T][ ] a\nNow you have 1 tasks in the list.", res.Message)
	require.Equal(t, 1, in.List.Size())
}

func TestExecuteInvalidIndex(t *testing.T) {
	in, _ := newInterp(t)

	_, err := in.Execute("mark 1")
	require.ErrorIs(t, err, store.ErrInvalidIndex)
	require.Equal(t, "Not a valid task number!", err.Error())

	_, err = in.Execute("mark one")
	require.ErrorIs(t, err, store.ErrInvalidIndex)
	require.Equal(t, "Please provide a valid number after 'mark'.", err.Error())

	_, err = in.Execute("delete 0")
	require.Equal(t, "Please provide a valid number after 'delete'.", err.Error())
}

func TestExecuteUsageErrors(t *testing.T) {
	in, _ := newInterp(t)
	cases := []struct{ line, want string }{
		{"todo", msgTodoUsage},
		{"deadline", msgDeadlineUsage},
		{"deadline return book", msgDeadlineUsage},
		{"deadline /by 2025-12-02", msgDeadlineUsage},
		{"event party /from 2025-12-02", msgEventUsage},
		{"event /from 2025-12-02 /to 2025-12-03", msgEventUsage},
		{"mark", msgMarkUsage},
		{"unmark", msgUnmarkUsage},
		{"delete", "What do you want me to delete?\nUsage: delete <task-number>"},
		{"find", "Usage: find <keyword>"},
	}
	for _, tc := range cases {
		_, err := in.Execute(tc.line)
		require.ErrorIs(t, err, store.ErrUsage, tc.line)
		require.Equal(t, tc.want, err.Error(), tc.line)
	}
	require.True(t, in.List.IsEmpty())
}

func TestExecuteUnknownCommand(t *testing.T) {
	in, _ := newInterp(t)
	_, err := in.Execute("dance")
	require.ErrorIs(t, err, store.ErrUnknownCommand)
	require.True(t, strings.HasPrefix(err.Error(), "Sorry! Can't understand you."))
	require.True(t, IsUserError(err))
}

func TestExecuteCommandWordIsCaseInsensitive(t *testing.T) {
	in, _ := newInterp(t)
	exec(t, in, "TODO shout")
	exec(t, in, "Deadline essay /BY 2025-12-02")
	res := exec(t, in, "LIST")
	require.Equal(t, "Here are your tasks:\n1. [T][ ] shout\n2. [D][ ] essay (by: Dec 02 2025)", res.Message)
}

func TestExecuteEvent(t *testing.T) {
	in, _ := newInterp(t)
	res := exec(t, in, "event standup /from 2025-06-01 0900 /to 2025-06-01 1100")
	require.Equal(t, "Got it. I've added this task:\n  [E][ ] standup (from: Jun 01 2025 09:00, to: Jun 01 2025 11:00)\nNow you have 1 tasks in the list.", res.Message)

	_, err := in.Execute("event review /from 2025-06-01 1030 /to 2025-06-01 1230")
	require.ErrorIs(t, err, store.ErrConflict)
	require.Contains(t, err.Error(), "standup")

	exec(t, in, "event lunch /from 2025-06-01 1100 /to 2025-06-01 1200")
	require.Equal(t, 2, in.List.Size())

	_, err = in.Execute("event backwards /from 2025-06-02 1200 /to 2025-06-02 1100")
	require.ErrorIs(t, err, store.ErrInvalid)
	require.Equal(t, "Event end must be on/after start.", err.Error())

	_, err = in.Execute("event bad /from someday /to 2025-06-02 1100")
	require.ErrorIs(t, err, store.ErrParse)
	require.Equal(t, 2, in.List.Size())
}

func TestExecuteFind(t *testing.T) {
	in, _ := newInterp(t)
	exec(t, in, "todo read book")
	exec(t, in, "deadline return book /by 2025-12-02 1800")
	exec(t, in, "todo read news")

	res := exec(t, in, "find read")
	require.Equal(t, ActionFind, res.Action)
	require.Equal(t, 2, res.Found.Size())
	require.Equal(t, "Here are the tasks I found:\n1. [T][ ] read book\n2. [T][ ] read news", res.Message)

	res = exec(t, in, "find zebra")
	require.Equal(t, "Hmm, I couldn't find any tasks matching that. Try a different keyword?", res.Message)
	require.Equal(t, 3, in.List.Size())
}

func TestExecuteRejectPast(t *testing.T) {
	in, _ := newInterp(t)
	in.RejectPast = true
	in.Now = func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }

	_, err := in.Execute("deadline late /by 2025-05-31 1200")
	require.ErrorIs(t, err, store.ErrInvalid)
	require.Equal(t, "Deadline cannot be in the past.", err.Error())

	_, err = in.Execute("event old /from 2025-05-31 1000 /to 2025-06-02 1000")
	require.Equal(t, "Event cannot start in the past.", err.Error())

	exec(t, in, "deadline soon /by 2025-06-02")

	in.RejectPast = false
	exec(t, in, "deadline late /by 2025-05-31 1200")
	require.Equal(t, 2, in.List.Size())
}

func TestExecuteByeAndBlank(t *testing.T) {
	in, _ := newInterp(t)
	res := exec(t, in, "bye")
	require.True(t, res.Exit)
	require.Equal(t, "Byebye! See you next time!", res.Message)

	res = exec(t, in, "   ")
	require.True(t, res.Empty)
	require.Equal(t, ActionNone, res.Action)
}

func TestReplyMatchesExecute(t *testing.T) {
	in, _ := newInterp(t)
	require.Equal(t, HelpMessage, in.Reply(""))
	require.Equal(t, "Got it. I've added this task:\n  [T][ ] x\nNow you have 1 tasks in the list.", in.Reply("todo x"))
	require.Equal(t, "Not a valid task number!", in.Reply("mark 5"))
	require.Equal(t, "Usage: find <keyword>", in.Reply("find"))
}

func TestExecutePersists(t *testing.T) {
	in, path := newInterp(t)
	exec(t, in, "todo keep me")
	exec(t, in, "mark 1")

	list, err := store.NewFileCodec(path, nil).Load()
	require.NoError(t, err)
	require.Equal(t, "1. [T][X] keep me", list.String())
}

func TestExecuteRejectsFieldSeparator(t *testing.T) {
	in, path := newInterp(t)

	_, err := in.Execute("todo a|b")
	require.ErrorIs(t, err, store.ErrInvalid)
	require.Equal(t, "Sorry, a task description cannot contain '|'.", err.Error())
	require.True(t, IsUserError(err))

	_, err = in.Execute("deadline pay rent | utilities /by 2025-12-02 1800")
	require.ErrorIs(t, err, store.ErrInvalid)
	require.True(t, in.List.IsEmpty())

	exec(t, in, "todo pick A or B")
	list, err := store.NewFileCodec(path, nil).Load()
	require.NoError(t, err)
	require.Equal(t, "1. [T][ ] pick A or B", list.String())
}
