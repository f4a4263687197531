package discussion

import (
	"strings"

	"github.com/CrestNiraj12/threadline/domain"
)

type actionKind int

const (
	actionShowThread actionKind = iota + 1
	actionShowSearch
	actionSetSort
	actionBack
	actionReset
)

// Action is a navigation request handed to Session.Navigate.
type Action struct {
	kind       actionKind
	id         string
	query      string
	searchType domain.SearchType
	sort       domain.Sort
}

// ShowThread focuses a single comment ("show more replies", opening a search hit).
func ShowThread(id string) Action {
	return Action{kind: actionShowThread, id: strings.TrimSpace(id)}
}

// ShowSearch submits a search query.
func ShowSearch(query string, t domain.SearchType) Action {
	return Action{kind: actionShowSearch, query: strings.TrimSpace(query), searchType: t}
}

// SetSort changes the ordering of the current listing.
func SetSort(s domain.Sort) Action {
	return Action{kind: actionSetSort, sort: s}
}

// Back returns to the state that was active before the last Thread/Search.
func Back() Action {
	return Action{kind: actionBack}
}

// Reset drops history and returns to the All listing.
func Reset() Action {
	return Action{kind: actionReset}
}

// Snapshot identifies the view state a request was issued under.
type Snapshot struct {
	Seq uint64
	Key string
}

// Controller is the view-mode state machine. All is the default and the
// re-entry point; Thread and Search remember where they came from.
type Controller struct {
	state   domain.ViewState
	history []domain.ViewState
	seq     uint64
}

// NewController starts in All mode with the given sort and search type.
func NewController(sort domain.Sort, searchType domain.SearchType) *Controller {
	return &Controller{
		state: domain.ViewState{Mode: domain.ModeAll, Sort: sort, SearchType: searchType},
	}
}

// State returns the current view state.
func (c *Controller) State() domain.ViewState {
	return c.state
}

// Depth returns how many states Back can return to.
func (c *Controller) Depth() int {
	return len(c.history)
}

// Enabled reports whether mode is the single active data source.
func (c *Controller) Enabled(mode domain.Mode) bool {
	return c.state.Mode == mode
}

// Snapshot returns the key in-flight requests must carry.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{Seq: c.seq, Key: c.state.Key()}
}

// Current reports whether a response issued under s still applies.
func (c *Controller) Current(s Snapshot) bool {
	return s.Seq == c.seq && s.Key == c.state.Key()
}

// Invalidate abandons every in-flight request without changing state.
func (c *Controller) Invalidate() Snapshot {
	c.seq++
	return c.Snapshot()
}

// Apply runs one transition and reports the previous state and whether
// anything changed. Any change invalidates in-flight requests.
func (c *Controller) Apply(a Action) (domain.ViewState, bool) {
	prev := c.state
	next, changed := c.transition(a)
	if !changed {
		return prev, false
	}
	c.state = next
	c.seq++
	return prev, true
}

func (c *Controller) transition(a Action) (domain.ViewState, bool) {
	cur := c.state
	switch a.kind {
	case actionShowThread:
		if a.id == "" || (cur.Mode == domain.ModeThread && cur.FocusedCommentID == a.id) {
			return cur, false
		}
		c.history = append(c.history, cur)
		next := cur
		next.Mode = domain.ModeThread
		next.FocusedCommentID = a.id
		return next, true

	case actionShowSearch:
		if a.query == "" {
			return cur, false
		}
		if cur.Mode == domain.ModeSearch && cur.SearchQuery == a.query && cur.SearchType == a.searchType {
			return cur, false
		}
		if cur.Mode != domain.ModeSearch {
			c.history = append(c.history, cur)
		}
		next := cur
		next.Mode = domain.ModeSearch
		next.FocusedCommentID = ""
		next.SearchQuery = a.query
		next.SearchType = a.searchType
		return next, true

	case actionSetSort:
		if cur.Sort == a.sort {
			return cur, false
		}
		next := cur
		next.Sort = a.sort
		return next, true

	case actionBack:
		if n := len(c.history); n > 0 {
			prev := c.history[n-1]
			c.history = c.history[:n-1]
			return prev, true
		}
		if cur.Mode == domain.ModeAll {
			return cur, false
		}
		return c.home(cur), true

	case actionReset:
		c.history = nil
		return c.home(cur), true
	}
	return cur, false
}

func (c *Controller) home(cur domain.ViewState) domain.ViewState {
	return domain.ViewState{Mode: domain.ModeAll, Sort: cur.Sort, SearchType: cur.SearchType}
}
