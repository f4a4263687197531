package discussion

import (
	"fmt"

	"github.com/CrestNiraj12/threadline/domain"
)

func comment(id string, children ...*domain.Comment) *domain.Comment {
	c := &domain.Comment{ID: id, Content: "content " + id, ReplyCount: len(children)}
	for _, ch := range children {
		ch.ParentID = id
	}
	c.Children = children
	return c
}

func numbered(from, to int) []*domain.Comment {
	out := make([]*domain.Comment, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, comment(fmt.Sprintf("%d", i)))
	}
	return out
}

func ids[T Keyed](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key())
	}
	return out
}

// chain builds a single reply chain n levels deep: c0 <- c1 <- ... <- c(n-1).
func chain(n int) *domain.Comment {
	var child *domain.Comment
	for i := n - 1; i >= 0; i-- {
		c := &domain.Comment{ID: fmt.Sprintf("c%d", i)}
		if i > 0 {
			c.ParentID = fmt.Sprintf("c%d", i-1)
		}
		if child != nil {
			c.Children = []*domain.Comment{child}
			c.ReplyCount = 1
		}
		child = c
	}
	return child
}

// node returns the comment with id, or nil when it is absent.
func node(roots []*domain.Comment, id string) *domain.Comment {
	c, _ := Find(roots, id)
	return c
}
