package discussion

import (
	"sync"

	"github.com/CrestNiraj12/threadline/domain"
)

type annotation struct {
	collapsed bool
	readMore  bool
}

// Annotations keeps per-comment UI state keyed by id, independent of which
// mode or tree the comment currently appears in. Entries are created on first
// read and live for the whole session.
type Annotations struct {
	mu        sync.Mutex
	entries   map[string]*annotation
	hints     map[string]bool // default_collapsed seen at first observation
	highlight string
}

// NewAnnotations returns an empty store. Each session owns its own.
func NewAnnotations() *Annotations {
	return &Annotations{
		entries: make(map[string]*annotation),
		hints:   make(map[string]bool),
	}
}

// Seed records the server's default_collapsed hint for every comment in the
// given trees. Only the first hint per id counts; later observations of the
// same id are ignored.
func (a *Annotations) Seed(roots ...*domain.Comment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	stack := append([]*domain.Comment(nil), roots...)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c == nil {
			continue
		}
		if _, ok := a.hints[c.ID]; !ok {
			a.hints[c.ID] = c.DefaultCollapsed
		}
		stack = append(stack, c.Children...)
	}
}

func (a *Annotations) entry(id string) *annotation {
	e, ok := a.entries[id]
	if !ok {
		e = &annotation{collapsed: a.hints[id]}
		a.entries[id] = e
	}
	return e
}

// IsCollapsed reports whether the comment's replies are folded away.
func (a *Annotations) IsCollapsed(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entry(id).collapsed
}

// IsExpanded reports whether "read more" is open for the comment body.
func (a *Annotations) IsExpanded(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entry(id).readMore
}

// ToggleCollapse flips the collapsed flag and returns the new value.
func (a *Annotations) ToggleCollapse(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	e := a.entry(id)
	e.collapsed = !e.collapsed
	return e.collapsed
}

// ToggleReadMore flips the read-more flag and returns the new value.
func (a *Annotations) ToggleReadMore(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	e := a.entry(id)
	e.readMore = !e.readMore
	return e.readMore
}

// SetHighlight marks id as the traced comment. An empty id clears it.
func (a *Annotations) SetHighlight(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.highlight = id
}

// ClearHighlight removes the highlight.
func (a *Annotations) ClearHighlight() {
	a.SetHighlight("")
}

// Highlight returns the highlighted id, if any.
func (a *Annotations) Highlight() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.highlight, a.highlight != ""
}

// Len returns the number of materialised entries.
func (a *Annotations) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
