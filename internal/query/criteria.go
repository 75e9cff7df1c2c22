package query

// Criteria is a conjunction of conditions. An empty Criteria matches every row.
type Criteria []Condition

// Where creates Criteria from conditions, combined with AND.
func Where(conditions ...Condition) Criteria {
	return Criteria(conditions)
}

// And returns a new Criteria with condition appended; the receiver is not modified.
func (c Criteria) And(condition Condition) Criteria {
	next := make(Criteria, len(c), len(c)+1)
	copy(next, c)
	return append(next, condition)
}

// Matches reports whether every condition holds for the row.
func (c Criteria) Matches(fields Fields) bool {
	for _, cond := range c {
		if !cond.Matches(fields) {
			return false
		}
	}
	return true
}
