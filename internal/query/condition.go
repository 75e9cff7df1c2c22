package query

import (
	"fmt"
	"strings"
)

// Fields resolves a column name to its text value for in-memory matching.
type Fields func(column string) string

// Condition is a WHERE predicate that can be rendered as SQL for the ORM
// or evaluated directly against a row for the in-memory store.
type Condition interface {
	// SQL returns a fragment using '?' placeholders and its arguments.
	SQL() (string, []interface{})
	// Matches reports whether the row described by fields satisfies the predicate.
	Matches(fields Fields) bool
}

// containsCondition implements case-insensitive substring matching.
type containsCondition struct {
	column string
	value  string
}

// Contains creates a case-insensitive "column contains value" condition.
// Example: Contains("name", "Widg") generates "LOWER(name) LIKE ? ESCAPE '\'" with "%widg%".
func Contains(column, value string) Condition {
	return &containsCondition{column: column, value: value}
}

func (c *containsCondition) SQL() (string, []interface{}) {
	pattern := "%" + escapeLike(strings.ToLower(c.value)) + "%"
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", c.column), []interface{}{pattern}
}

func (c *containsCondition) Matches(fields Fields) bool {
	return strings.Contains(strings.ToLower(fields(c.column)), strings.ToLower(c.value))
}

// anyCondition joins conditions with OR.
type anyCondition struct {
	conditions []Condition
}

// AnyOf creates a condition satisfied when at least one of conditions holds.
// An empty AnyOf never matches.
func AnyOf(conditions ...Condition) Condition {
	return &anyCondition{conditions: conditions}
}

func (c *anyCondition) SQL() (string, []interface{}) {
	if len(c.conditions) == 0 {
		return "1 = 0", nil
	}

	parts := make([]string, 0, len(c.conditions))
	var args []interface{}
	for _, cond := range c.conditions {
		fragment, condArgs := cond.SQL()
		parts = append(parts, fragment)
		args = append(args, condArgs...)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (c *anyCondition) Matches(fields Fields) bool {
	for _, cond := range c.conditions {
		if cond.Matches(fields) {
			return true
		}
	}
	return false
}

// escapeLike makes LIKE metacharacters in a user value match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
