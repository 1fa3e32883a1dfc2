package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/amirbrooks/sid/internal/store"
)

// Tried in order; the first layout that parses wins.
var (
	dateTimeLayouts = []string{
		"2006-01-02 1504",
		"2/1/2006 1504",
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
	}
	dateOnlyLayouts = []string{
		"2006-01-02",
		"2/1/2006",
	}
)

const formatHint = "Try: 2025-12-02 1800, 2025-12-02, 2/12/2025 1800, or 2/12/2025"

// ParseDateTime accepts a date with time, or a date alone which means midnight.
func ParseDateTime(text string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, store.NewError(store.ErrParse, "Could not parse date/time: "+text+"\n"+formatHint)
}

// ParseIndex reads a 1-based task number. Range checks belong to the task list.
func ParseIndex(s, errMsg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, store.NewError(store.ErrInvalidIndex, errMsg)
	}
	return n, nil
}
