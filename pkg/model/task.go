package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a task for its whole lifetime.
type ID string

// UnmarshalJSON accepts both strings and the numeric ids written by older
// versions of the list.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %s: %w", s, err)
	}
	*id = ID(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// Task is a single to-do item.
type Task struct {
	ID        ID
	Text      string
	Completed bool
	DueDate   *Date // nil means no deadline
	Priority  Priority
}

// HasDue reports whether the task carries a due date.
func (t Task) HasDue() bool {
	return t.DueDate != nil
}

// IsOverdue reports whether the task is pending with a due date strictly
// before ref.
func (t Task) IsOverdue(ref Date) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(ref)
}

// Edit carries the optional fields of an edit request. A nil field is left
// untouched. An empty DueDate clears the date.
type Edit struct {
	Text     *string
	DueDate  *string
	Priority *string
}

// Empty reports whether the request supplies no field at all.
func (e Edit) Empty() bool {
	return e.Text == nil && e.DueDate == nil && e.Priority == nil
}

// ValidationError is returned when user input cannot be applied.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
