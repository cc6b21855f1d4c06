package state

// History is a linear undo stack of scene snapshots. cursor indexes the
// entry on screen; -1 means nothing has been committed yet, or everything has
// been undone, and the base scene is showing.
type History struct {
	entries []Scene
	cursor  int
	base    Scene
}

func NewHistory() History {
	return History{cursor: -1}
}

// NewHistoryFrom starts a history whose bottom is base instead of the empty
// scene. Used when a saved project is opened.
func NewHistoryFrom(base Scene) History {
	return History{cursor: -1, base: base.Clone()}
}

// Commit drops any redo entries past the cursor and appends a copy of s.
func (h History) Commit(s Scene) History {
	keep := h.cursor + 1
	entries := make([]Scene, keep, keep+1)
	copy(entries, h.entries[:keep])
	entries = append(entries, s.Clone())
	return History{entries: entries, cursor: len(entries) - 1, base: h.base}
}

// Undo steps back one entry. Stepping back from the first entry lands on the
// base scene. At the base it does nothing and reports false.
func (h History) Undo() (History, Scene, bool) {
	switch {
	case h.cursor > 0:
		h.cursor--
		return h, h.entries[h.cursor].Clone(), true
	case h.cursor == 0:
		h.cursor = -1
		return h, h.base.Clone(), true
	default:
		return h, Scene{}, false
	}
}

// Redo steps forward one entry if there is one.
func (h History) Redo() (History, Scene, bool) {
	if h.cursor >= len(h.entries)-1 {
		return h, Scene{}, false
	}
	h.cursor++
	return h, h.entries[h.cursor].Clone(), true
}

func (h History) CanUndo() bool { return h.cursor >= 0 }
func (h History) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h History) Cursor() int   { return h.cursor }
func (h History) Len() int      { return len(h.entries) }

// At returns a copy of the entry at index i.
func (h History) At(i int) (Scene, bool) {
	if i < 0 || i >= len(h.entries) {
		return Scene{}, false
	}
	return h.entries[i].Clone(), true
}
