package domain

import (
	"fmt"
	"strings"
)

// Mode selects the active data source. Exactly one is active at a time.
type Mode int

const (
	ModeAll Mode = iota
	ModeThread
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeThread:
		return "thread"
	case ModeSearch:
		return "search"
	default:
		return "all"
	}
}

// SearchType selects which field a search query matches.
type SearchType int

const (
	SearchContent SearchType = iota
	SearchAuthor
)

func (t SearchType) String() string {
	if t == SearchAuthor {
		return "author"
	}
	return "content"
}

// ParseSearchType maps a persisted value back to a SearchType.
func ParseSearchType(v string) SearchType {
	if strings.EqualFold(strings.TrimSpace(v), "author") {
		return SearchAuthor
	}
	return SearchContent
}

// Sort orders top-level comments and search hits.
type Sort int

const (
	SortNewest Sort = iota
	SortOldest
	SortTop
)

func (s Sort) String() string {
	switch s {
	case SortOldest:
		return "oldest"
	case SortTop:
		return "top"
	default:
		return "newest"
	}
}

// ParseSort maps a persisted value back to a Sort. Unknown values fall back to newest.
func ParseSort(v string) Sort {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "oldest":
		return SortOldest
	case "top":
		return SortTop
	default:
		return SortNewest
	}
}

// ViewState is the navigable state that decides what the list shows.
type ViewState struct {
	Mode             Mode
	FocusedCommentID string
	SearchQuery      string
	SearchType       SearchType
	Sort             Sort
}

// Key identifies the data a request issued under this state would produce.
func (v ViewState) Key() string {
	switch v.Mode {
	case ModeThread:
		return "thread:" + v.FocusedCommentID
	case ModeSearch:
		return fmt.Sprintf("search:%s:%s:%s", v.SearchType, v.Sort, strings.ToLower(strings.TrimSpace(v.SearchQuery)))
	default:
		return "all:" + v.Sort.String()
	}
}
