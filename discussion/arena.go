// Package discussion holds the comment-thread view-model: the in-memory tree,
// paginated accumulators, thread reconstruction, optimistic mutations and the
// per-comment UI annotations that survive mode switches.
//
// Nothing in this package performs network I/O. Callers ask a Session what to
// fetch (a Request), perform the call, and hand the result back.
package discussion

import "github.com/CrestNiraj12/threadline/domain"

// Arena is a flat id-indexed view of a comment tree. Reply chains can be
// arbitrarily deep, so every walk over it uses an explicit stack.
type Arena struct {
	nodes map[string]*arenaNode
	roots []string
}

type arenaNode struct {
	comment  domain.Comment // Children always nil; structure lives in childIDs
	childIDs []string
}

// NewArena indexes a flat list of comments by their ParentID links.
// Input order is kept among siblings. Comments whose parent is not in the list
// become roots. The first occurrence of a duplicate id wins.
func NewArena(flat []*domain.Comment) *Arena {
	a := &Arena{nodes: make(map[string]*arenaNode, len(flat))}
	order := make([]string, 0, len(flat))
	for _, c := range flat {
		if c == nil || c.ID == "" {
			continue
		}
		if _, ok := a.nodes[c.ID]; ok {
			continue
		}
		n := &arenaNode{comment: *c}
		n.comment.Children = nil
		a.nodes[c.ID] = n
		order = append(order, c.ID)
	}
	for _, id := range order {
		n := a.nodes[id]
		pid := n.comment.ParentID
		parent, ok := a.nodes[pid]
		if pid == "" || !ok || pid == id {
			a.roots = append(a.roots, id)
			continue
		}
		parent.childIDs = append(parent.childIDs, id)
	}
	return a
}

// ArenaFromTree flattens nested comments (pre-order) into an arena. A child's
// ParentID is taken from its position in the tree.
func ArenaFromTree(roots []*domain.Comment) *Arena {
	type entry struct {
		c        *domain.Comment
		parentID string
	}
	flat := make([]*domain.Comment, 0, len(roots))
	stack := make([]entry, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, entry{c: roots[i], parentID: roots[i].ParentID})
		}
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cp := *e.c
		cp.ParentID = e.parentID
		flat = append(flat, &cp)
		for i := len(e.c.Children) - 1; i >= 0; i-- {
			if ch := e.c.Children[i]; ch != nil {
				stack = append(stack, entry{c: ch, parentID: e.c.ID})
			}
		}
	}
	return NewArena(flat)
}

// Len returns the number of distinct comments in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Has reports whether id is present.
func (a *Arena) Has(id string) bool {
	_, ok := a.nodes[id]
	return ok
}

// Subtree rebuilds the nested comment rooted at id, at most maxDepth levels of
// replies below it. Nodes whose children were cut off get HasMoreReplies set.
// A negative maxDepth means unbounded.
func (a *Arena) Subtree(id string, maxDepth int) (*domain.Comment, bool) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, false
	}
	type frame struct {
		out   *domain.Comment
		node  *arenaNode
		depth int
	}
	root := n.comment
	seen := map[string]bool{id: true}
	stack := []frame{{out: &root, node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(f.node.childIDs) == 0 {
			continue
		}
		if maxDepth >= 0 && f.depth >= maxDepth {
			f.out.HasMoreReplies = true
			continue
		}
		f.out.Children = make([]*domain.Comment, 0, len(f.node.childIDs))
		for _, cid := range f.node.childIDs {
			if seen[cid] {
				continue
			}
			seen[cid] = true
			cn := a.nodes[cid]
			child := cn.comment
			f.out.Children = append(f.out.Children, &child)
			stack = append(stack, frame{out: &child, node: cn, depth: f.depth + 1})
		}
	}
	return &root, true
}

// Tree rebuilds the whole forest, roots in insertion order.
func (a *Arena) Tree() []*domain.Comment {
	out := make([]*domain.Comment, 0, len(a.roots))
	for _, id := range a.roots {
		if c, ok := a.Subtree(id, -1); ok {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors returns up to limit ancestors of id, root-first, without children.
// limit <= 0 means no limit.
func (a *Arena) Ancestors(id string, limit int) []*domain.Comment {
	n, ok := a.nodes[id]
	if !ok {
		return nil
	}
	var chain []*domain.Comment
	seen := map[string]bool{id: true}
	pid := n.comment.ParentID
	for pid != "" && !seen[pid] {
		if limit > 0 && len(chain) >= limit {
			break
		}
		p, ok := a.nodes[pid]
		if !ok {
			break
		}
		seen[pid] = true
		c := p.comment
		chain = append(chain, &c)
		pid = p.comment.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
