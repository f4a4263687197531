package discussion

import "github.com/CrestNiraj12/threadline/domain"

// Patch lists the fields an edit changes. Nil fields are left alone.
type Patch struct {
	Content    *string
	Media      *domain.Media
	ClearMedia bool
	Link       *domain.Link
	ClearLink  bool
	Reactions  *domain.Reactions
	IsEdited   *bool
}

// ContentPatch is the patch produced by a plain text edit.
func ContentPatch(content string) Patch {
	edited := true
	return Patch{Content: &content, IsEdited: &edited}
}

func (p Patch) apply(c *domain.Comment) *domain.Comment {
	cp := *c
	if p.Content != nil {
		cp.Content = *p.Content
	}
	if p.ClearMedia {
		cp.Media = nil
	} else if p.Media != nil {
		m := *p.Media
		cp.Media = &m
	}
	if p.ClearLink {
		cp.Link = nil
	} else if p.Link != nil {
		l := *p.Link
		cp.Link = &l
	}
	if p.Reactions != nil {
		cp.Reactions = *p.Reactions
	}
	if p.IsEdited != nil {
		cp.IsEdited = *p.IsEdited
	}
	return &cp
}

// InsertRoot returns a new forest with c prepended as a top-level comment.
func InsertRoot(roots []*domain.Comment, c *domain.Comment) []*domain.Comment {
	if c == nil {
		return roots
	}
	out := make([]*domain.Comment, 0, len(roots)+1)
	out = append(out, c)
	return append(out, roots...)
}

// UpdateNode merges patch over every node with the given id.
// The walk continues below a matched node, so repeated ids are all patched.
func UpdateNode(roots []*domain.Comment, id string, patch Patch) ([]*domain.Comment, bool) {
	return rewrite(roots, func(orig, cur *domain.Comment) *domain.Comment {
		if orig.ID != id {
			return cur
		}
		return patch.apply(cur)
	})
}

// SoftDeleteNode marks the node deleted. A node with replies becomes a
// tombstone: content, media and link are cleared while children and
// reply count are kept. A childless node is only flagged; hiding it is a
// rendering decision (see Visible).
func SoftDeleteNode(roots []*domain.Comment, id string) ([]*domain.Comment, bool) {
	return rewrite(roots, func(orig, cur *domain.Comment) *domain.Comment {
		if orig.ID != id {
			return cur
		}
		cp := *cur
		cp.IsDeleted = true
		if len(cp.Children) > 0 {
			cp.Content = ""
			cp.Media = nil
			cp.Link = nil
		}
		return &cp
	})
}

// AppendReply places reply first among parentID's children and bumps its
// reply count by one.
func AppendReply(roots []*domain.Comment, parentID string, reply *domain.Comment) ([]*domain.Comment, bool) {
	if reply == nil {
		return roots, false
	}
	return rewrite(roots, func(orig, cur *domain.Comment) *domain.Comment {
		if orig.ID != parentID {
			return cur
		}
		cp := *cur
		r := *reply
		r.ParentID = parentID
		children := make([]*domain.Comment, 0, len(cur.Children)+1)
		children = append(children, &r)
		cp.Children = append(children, cur.Children...)
		cp.ReplyCount++
		return &cp
	})
}

// ReplaceNode swaps the node id for server's copy of it, typically to settle
// an optimistic local node. Loaded replies are kept when server carries none.
func ReplaceNode(roots []*domain.Comment, id string, server *domain.Comment) ([]*domain.Comment, bool) {
	if server == nil {
		return roots, false
	}
	return rewrite(roots, func(orig, cur *domain.Comment) *domain.Comment {
		if orig.ID != id {
			return cur
		}
		cp := *server
		if cp.ParentID == "" {
			cp.ParentID = cur.ParentID
		}
		if len(cp.Children) == 0 && len(cur.Children) > 0 {
			cp.Children = cur.Children
			if cp.ReplyCount < len(cur.Children) {
				cp.ReplyCount = len(cur.Children)
			}
		}
		return &cp
	})
}

// RemoveNode drops the node id and its subtree, decrementing the parent's
// reply count. Used to roll back an optimistic create the server rejected.
func RemoveNode(roots []*domain.Comment, id string) ([]*domain.Comment, bool) {
	return rewrite(roots, func(orig, cur *domain.Comment) *domain.Comment {
		if orig.ID == id {
			return nil
		}
		if cur != orig && containsID(orig.Children, id) && !containsID(cur.Children, id) {
			cp := *cur
			if cp.ReplyCount > 0 {
				cp.ReplyCount--
			}
			return &cp
		}
		return cur
	})
}

// Find returns the first node with the given id in pre-order.
func Find(roots []*domain.Comment, id string) (*domain.Comment, bool) {
	stack := make([]*domain.Comment, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c == nil {
			continue
		}
		if c.ID == id {
			return c, true
		}
		for i := len(c.Children) - 1; i >= 0; i-- {
			stack = append(stack, c.Children[i])
		}
	}
	return nil, false
}

func containsID(list []*domain.Comment, id string) bool {
	for _, c := range list {
		if c != nil && c.ID == id {
			return true
		}
	}
	return false
}

// rewrite rebuilds the forest bottom-up with an explicit stack. fn is called
// on every node once its children are rewritten: orig is the input node and
// cur is either orig or a copy carrying new children. Returning something other
// than orig marks the node changed so its ancestors are copied too; returning
// nil drops it. Unchanged subtrees keep their pointers, and when nothing
// changes the input slice itself is returned with ok=false.
func rewrite(roots []*domain.Comment, fn func(orig, cur *domain.Comment) *domain.Comment) ([]*domain.Comment, bool) {
	type frame struct {
		node *domain.Comment // nil for the virtual root holding roots
		kids []*domain.Comment
		out  []*domain.Comment // allocated on the first changed child
		next int
	}
	stack := []*frame{{kids: roots}}
	for {
		f := stack[len(stack)-1]
		if f.next < len(f.kids) {
			child := f.kids[f.next]
			if child == nil {
				f.next++
				continue
			}
			stack = append(stack, &frame{node: child, kids: child.Children})
			continue
		}

		stack = stack[:len(stack)-1]
		if f.out != nil {
			f.out = compact(f.out)
		}
		if f.node == nil {
			if f.out == nil {
				return roots, false
			}
			return f.out, true
		}

		cur := f.node
		if f.out != nil {
			cp := *f.node
			cp.Children = f.out
			cur = &cp
		}
		res := fn(f.node, cur)

		parent := stack[len(stack)-1]
		if res != f.node && parent.out == nil {
			parent.out = make([]*domain.Comment, len(parent.kids))
			copy(parent.out, parent.kids)
		}
		if parent.out != nil {
			parent.out[parent.next] = res
		}
		parent.next++
	}
}

func compact(list []*domain.Comment) []*domain.Comment {
	out := list[:0]
	for _, c := range list {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
