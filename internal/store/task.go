package store

import (
	"fmt"
	"strings"
	"time"
)

type Kind int

const (
	KindTodo Kind = iota
	KindDeadline
	KindEvent
)

func (k Kind) Code() string {
	switch k {
	case KindTodo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "?"
	}
}

func (k Kind) String() string {
	switch k {
	case KindTodo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

func KindFromCode(code string) (Kind, error) {
	switch strings.TrimSpace(code) {
	case "T":
		return KindTodo, nil
	case "D":
		return KindDeadline, nil
	case "E":
		return KindEvent, nil
	default:
		return 0, fmt.Errorf("%w: unknown task type code %q", ErrInvalid, code)
	}
}

const msgPipeInDescription = "Sorry, a task description cannot contain '|'."

const (
	displayDate     = "Jan 02 2006"
	displayDateTime = "Jan 02 2006 15:04"
)

// Task is one of three kinds. Due is set for deadlines, Start and End for events;
// only Done changes after creation.
type Task struct {
	Kind        Kind
	Description string
	Done        bool
	Due         time.Time
	Start       time.Time
	End         time.Time
}

func NewTodo(description string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, fmt.Errorf("%w: description is required", ErrInvalid)
	}
	// '|' separates fields in the data file.
	if strings.Contains(description, "|") {
		return Task{}, NewError(ErrInvalid, msgPipeInDescription)
	}
	return Task{Kind: KindTodo, Description: description}, nil
}

func NewDeadline(description string, due time.Time) (Task, error) {
	t, err := NewTodo(description)
	if err != nil {
		return Task{}, err
	}
	t.Kind = KindDeadline
	t.Due = WallClock(due)
	return t, nil
}

func NewEvent(description string, start, end time.Time) (Task, error) {
	t, err := NewTodo(description)
	if err != nil {
		return Task{}, err
	}
	start, end = WallClock(start), WallClock(end)
	if end.Before(start) {
		return Task{}, NewError(ErrInvalid, "Event end must be on/after start.")
	}
	t.Kind = KindEvent
	t.Start = start
	t.End = end
	return t, nil
}

// WallClock keeps the calendar fields of t and drops its zone. Task times are
// floating local date-times carried in UTC.
func WallClock(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Overlaps reports whether two events share any instant. Intervals are half-open,
// so an event ending at 11:00 does not clash with one starting at 11:00.
func (t Task) Overlaps(other Task) bool {
	if t.Kind != KindEvent || other.Kind != KindEvent {
		return false
	}
	return t.Start.Before(other.End) && t.End.After(other.Start)
}

func (t Task) StatusMark() string {
	if t.Done {
		return "X"
	}
	return " "
}

func (t Task) String() string {
	base := fmt.Sprintf("[%s][%s] %s", t.Kind.Code(), t.StatusMark(), t.Description)
	switch t.Kind {
	case KindDeadline:
		return base + " (by: " + FormatWhen(t.Due) + ")"
	case KindEvent:
		return base + " (from: " + FormatWhen(t.Start) + ", to: " + FormatWhen(t.End) + ")"
	default:
		return base
	}
}

// FormatWhen drops the time of day when it is exactly midnight.
func FormatWhen(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format(displayDate)
	}
	return t.Format(displayDateTime)
}
