// Package models holds the domain records persisted by the repositories and
// returned by the REST API.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is the importance of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TitleMaxLength bounds a todo title, counted in characters.
const TitleMaxLength = 200

// Todo is a single to-do record owned by exactly one user.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	DueDate     *Date     `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of t.
func (t *Todo) Clone() *Todo {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// Date is a calendar day without time-of-day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = time.DateOnly

// NewDate truncates t to its calendar day in t's location and re-anchors it at UTC midnight.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp; for the latter the
// calendar day of the UTC instant is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewDate(t.UTC()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
