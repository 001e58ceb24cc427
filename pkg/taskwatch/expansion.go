package taskwatch

// ExpansionSet tracks which executions have their detail view expanded. It is
// viewer-local state: never sent to the server, never touched by a refresh.
// Whether to reset it when the selected task changes is the caller's policy;
// execution ids are not guaranteed unique across tasks, so resetting on task
// change is the sensible default.
type ExpansionSet struct {
	ids map[int64]struct{}
}

// NewExpansionSet returns an empty set.
func NewExpansionSet() *ExpansionSet {
	return &ExpansionSet{ids: make(map[int64]struct{})}
}

// Toggle inserts the id if absent and removes it if present. Applying it twice
// returns the set to its original state.
func (s *ExpansionSet) Toggle(executionID int64) {
	if _, ok := s.ids[executionID]; ok {
		delete(s.ids, executionID)
		return
	}
	s.ids[executionID] = struct{}{}
}

// Expanded reports whether the execution's detail is currently expanded.
func (s *ExpansionSet) Expanded(executionID int64) bool {
	_, ok := s.ids[executionID]
	return ok
}

// Len returns the number of expanded executions.
func (s *ExpansionSet) Len() int { return len(s.ids) }

// Reset clears all expansion state.
func (s *ExpansionSet) Reset() {
	s.ids = make(map[int64]struct{})
}
