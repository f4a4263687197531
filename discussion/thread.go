package discussion

import "github.com/CrestNiraj12/threadline/domain"

const (
	// DefaultParentLevels is how many ancestors a thread view shows.
	DefaultParentLevels = 3
	// DefaultReplyDepth is how many reply levels below the focal comment are kept.
	DefaultReplyDepth = 6
)

// BuildThread normalises a thread response: ancestors root-first and capped
// at parentLevels, the focal subtree cut at replyDepth with HasMoreReplies set
// wherever replies were dropped.
func BuildThread(view domain.ThreadView, parentLevels, replyDepth int) (domain.ThreadView, bool) {
	if view.Focal == nil || view.Focal.ID == "" {
		return domain.ThreadView{}, false
	}
	parentLevels, replyDepth = threadBounds(parentLevels, replyDepth)

	arena := ArenaFromTree([]*domain.Comment{view.Focal})
	focal, _ := arena.Subtree(view.Focal.ID, replyDepth)
	return domain.ThreadView{
		Focal:         focal,
		ParentContext: orderAncestors(view.Focal, view.ParentContext, parentLevels),
	}, true
}

// ThreadFromFlat assembles a thread view from a context-style response where
// descendants arrive as a flat list linked by ParentID.
func ThreadFromFlat(focal *domain.Comment, ancestors, descendants []*domain.Comment, parentLevels, replyDepth int) (domain.ThreadView, bool) {
	if focal == nil || focal.ID == "" {
		return domain.ThreadView{}, false
	}
	parentLevels, replyDepth = threadBounds(parentLevels, replyDepth)

	flat := make([]*domain.Comment, 0, len(descendants)+1)
	root := *focal
	root.Children = nil
	flat = append(flat, &root)
	flat = append(flat, descendants...)
	arena := NewArena(flat)
	sub, _ := arena.Subtree(focal.ID, replyDepth)
	return domain.ThreadView{
		Focal:         sub,
		ParentContext: orderAncestors(focal, ancestors, parentLevels),
	}, true
}

// CountNodes returns the number of comments in a thread view.
func CountNodes(view domain.ThreadView) int {
	if view.Focal == nil {
		return len(view.ParentContext)
	}
	return ArenaFromTree([]*domain.Comment{view.Focal}).Len() + len(view.ParentContext)
}

func threadBounds(parentLevels, replyDepth int) (int, int) {
	if parentLevels <= 0 {
		parentLevels = DefaultParentLevels
	}
	if replyDepth <= 0 {
		replyDepth = DefaultReplyDepth
	}
	return parentLevels, replyDepth
}

// orderAncestors follows ParentID links upward from focal. When the links
// cannot be followed the input is assumed to be root-first already.
func orderAncestors(focal *domain.Comment, ancestors []*domain.Comment, limit int) []*domain.Comment {
	if len(ancestors) == 0 {
		return nil
	}
	flat := make([]*domain.Comment, 0, len(ancestors)+1)
	self := *focal
	self.Children = nil
	flat = append(flat, &self)
	for _, a := range ancestors {
		if a == nil || a.ID == focal.ID {
			continue
		}
		flat = append(flat, a)
	}
	chain := NewArena(flat).Ancestors(focal.ID, limit)
	if len(chain) > 0 {
		return chain
	}

	out := make([]*domain.Comment, 0, len(ancestors))
	for _, a := range ancestors {
		if a == nil || a.ID == focal.ID {
			continue
		}
		cp := *a
		cp.Children = nil
		out = append(out, &cp)
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
