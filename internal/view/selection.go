package view

import "slices"

// Selection is the set of checked project ids. The zero value is empty
// and ready to use.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) Selection {
	var s Selection
	s.Replace(ids)
	return s
}

// Toggle adds id if absent and removes it otherwise.
func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		delete(s.ids, id)
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
}

// Replace sets the selection to exactly ids.
func (s *Selection) Replace(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Equals reports whether the selection holds exactly ids.
func (s Selection) Equals(ids []string) bool {
	other := NewSelection(ids...)
	if other.Len() != s.Len() {
		return false
	}
	for id := range other.ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// SelectAllOnPage implements the header checkbox: when the selection is
// exactly the visible ids it is cleared, otherwise it becomes exactly the
// visible ids. It never unions with ids from other pages.
func (s *Selection) SelectAllOnPage(visible []string) {
	if len(visible) > 0 && s.Equals(visible) {
		s.Clear()
		return
	}
	s.Replace(visible)
}
