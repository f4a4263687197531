package discussion

import "github.com/CrestNiraj12/threadline/domain"

// Visible decides whether a comment is rendered. Soft-deleted comments stay
// in the tree but are only shown while some reply below them is still live.
func Visible(c *domain.Comment) bool {
	if c == nil {
		return false
	}
	if !c.IsDeleted {
		return true
	}
	stack := append([]*domain.Comment(nil), c.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if !n.IsDeleted {
			return true
		}
		stack = append(stack, n.Children...)
	}
	return false
}

// VisibleResult is the search-list counterpart of Visible.
func VisibleResult(r *domain.SearchResult) bool {
	return r != nil && !r.IsDeleted
}

// Row is one rendered line of a flattened tree.
type Row struct {
	Comment *domain.Comment
	Depth   int
}

// Flatten lays the forest out in display order. Hidden comments are skipped
// together with their subtrees, and the replies of collapsed comments are
// left out. ann may be nil.
func Flatten(roots []*domain.Comment, ann *Annotations) []Row {
	type entry struct {
		c     *domain.Comment
		depth int
	}
	rows := make([]Row, 0, len(roots))
	stack := make([]entry, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, entry{c: roots[i]})
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !Visible(e.c) {
			continue
		}
		rows = append(rows, Row{Comment: e.c, Depth: e.depth})
		if ann != nil && ann.IsCollapsed(e.c.ID) {
			continue
		}
		for i := len(e.c.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{c: e.c.Children[i], depth: e.depth + 1})
		}
	}
	return rows
}
