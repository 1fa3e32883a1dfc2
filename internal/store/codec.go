package store

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var timeNow = func() time.Time { return time.Now().UTC() }

const DefaultPath = "data/sid.txt"

const (
	doneFlag    = "1"
	notDoneFlag = "0"

	// kind, done flag, description, then one date for deadlines and two for events
	minFields      = 3
	deadlineFields = 4
	eventFields    = 5

	isoMinute = "2006-01-02T15:04"
	isoSecond = "2006-01-02T15:04:05"
)

var fieldSep = regexp.MustCompile(`\s*\|\s*`)

// FileCodec stores a task list as pipe-separated lines:
//
//	T | 1 | read book
//	D | 0 | return book | 2019-12-02T18:00
//	E | 0 | project meeting | 2019-08-06T14:00 | 2019-08-06T16:00
type FileCodec struct {
	Path string
	log  *zap.Logger
}

func NewFileCodec(path string, log *zap.Logger) *FileCodec {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileCodec{Path: path, log: log}
}

// Load reads the file into a list bound to c. A missing file yields an empty list;
// corrupt lines are logged and skipped.
func (c *FileCodec) Load() (*TaskList, error) {
	clog := c.log.Named("codec")
	if _, err := os.Stat(filepath.Dir(c.Path)); err == nil {
		unlock, err := c.lock(true)
		if err != nil {
			clog.Info("reading without lock", zap.String("path", c.Path), zap.Error(err))
		} else {
			defer unlock()
		}
	}
	b, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTaskList(nil, c, c.log.Named("store")), nil
		}
		return nil, err
	}
	var tasks []Task
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		t, err := DecodeLine(line)
		if err != nil {
			le := &LineError{Line: n, Text: line, Err: err}
			clog.Warn("skipping corrupted line",
				zap.String("path", c.Path),
				zap.Int("line", le.Line),
				zap.String("text", le.Text),
				zap.Error(le.Err))
			continue
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	clog.Debug("loaded tasks", zap.String("path", c.Path), zap.Int("tasks", len(tasks)))
	return NewTaskList(tasks, c, c.log.Named("store")), nil
}

// Save overwrites the file with one record per task, creating the parent directory.
func (c *FileCodec) Save(list *TaskList) error {
	var buf bytes.Buffer
	for _, t := range list.tasks {
		buf.WriteString(EncodeLine(t))
		buf.WriteByte('\n')
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, c.Path, err)
	}
	unlock, err := c.lock(false)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %v", ErrPersistence, c.Path, err)
	}
	defer unlock()
	if err := atomicWriteFile(c.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, c.Path, err)
	}
	return nil
}

// lock guards the data file against other sid processes. The lock lives in a
// sibling <path>.lock file because saves replace the data file by rename. Load
// reads unlocked when the lock file cannot be opened, e.g. in a read-only directory.
func (c *FileCodec) lock(shared bool) (func(), error) {
	lk := flock.New(c.Path + ".lock")
	var err error
	if shared {
		err = lk.RLock()
	} else {
		err = lk.Lock()
	}
	if err != nil {
		return nil, err
	}
	return func() { _ = lk.Unlock() }, nil
}

func EncodeLine(t Task) string {
	done := notDoneFlag
	if t.Done {
		done = doneFlag
	}
	base := t.Kind.Code() + " | " + done + " | " + t.Description
	switch t.Kind {
	case KindDeadline:
		return base + " | " + formatISO(t.Due)
	case KindEvent:
		return base + " | " + formatISO(t.Start) + " | " + formatISO(t.End)
	default:
		return base
	}
}

func DecodeLine(line string) (Task, error) {
	parts := fieldSep.Split(strings.TrimSpace(line), -1)
	if len(parts) < minFields {
		return Task{}, fmt.Errorf("%w: too few fields", ErrInvalid)
	}
	kind, err := KindFromCode(parts[0])
	if err != nil {
		return Task{}, err
	}
	var done bool
	switch parts[1] {
	case doneFlag:
		done = true
	case notDoneFlag:
	default:
		return Task{}, fmt.Errorf("%w: invalid done flag %q", ErrInvalid, parts[1])
	}
	desc := parts[2]

	var t Task
	switch kind {
	case KindTodo:
		t, err = NewTodo(desc)
	case KindDeadline:
		if len(parts) < deadlineFields {
			return Task{}, fmt.Errorf("%w: deadline missing 'by' field", ErrInvalid)
		}
		var by time.Time
		if by, err = parseISO(parts[3]); err != nil {
			return Task{}, err
		}
		t, err = NewDeadline(desc, by)
	case KindEvent:
		if len(parts) < eventFields {
			return Task{}, fmt.Errorf("%w: event missing start/end fields", ErrInvalid)
		}
		var start, end time.Time
		if start, err = parseISO(parts[3]); err != nil {
			return Task{}, err
		}
		if end, err = parseISO(parts[4]); err != nil {
			return Task{}, err
		}
		t, err = NewEvent(desc, start, end)
	}
	if err != nil {
		return Task{}, err
	}
	t.Done = done
	return t, nil
}

func formatISO(t time.Time) string {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return t.Format(isoSecond)
	}
	return t.Format(isoMinute)
}

func parseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{isoMinute, isoSecond} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date-time %q", ErrInvalid, s)
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

// NewSessionID returns a ULID used to correlate log lines of one run.
func NewSessionID() string {
	return newULID()
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".tmp-"+newULID())
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
