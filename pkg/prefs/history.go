package prefs

// History is the "File History" list: per-file ViewState entries, newest
// first. Reopening a file already present moves it to the front instead of
// appending a duplicate (original_source/src/FileHistory.cc).
type History struct {
	entries []ViewState
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Entries returns the history newest-first.
func (h *History) Entries() []ViewState {
	return append([]ViewState(nil), h.entries...)
}

// Len reports how many entries are currently held.
func (h *History) Len() int {
	return len(h.entries)
}

// Upsert records vs as the most recent entry for its File path, moving an
// existing entry for the same path to the front instead of duplicating it.
func (h *History) Upsert(vs ViewState) {
	for i, e := range h.entries {
		if e.File == vs.File {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]ViewState{vs}, h.entries...)
}

// Find returns the ViewState for path and whether it was present.
func (h *History) Find(path string) (ViewState, bool) {
	for _, e := range h.entries {
		if e.File == path {
			return e, true
		}
	}
	return ViewState{}, false
}

// Remove drops the entry for path, if any.
func (h *History) Remove(path string) {
	for i, e := range h.entries {
		if e.File == path {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// TrimTo caps the history at n entries, dropping from the tail (the
// globalPrefsOnly cap in spec.md §4.3). n<=0 means "no limit".
func (h *History) TrimTo(n int) {
	if n > 0 && len(h.entries) > n {
		h.entries = h.entries[:n]
	}
}
