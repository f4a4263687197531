package feed

import (
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

// row is one selectable line group in the feed. Exactly one of comment and
// result is set.
type row struct {
	comment  *domain.Comment
	result   *domain.SearchResult
	depth    int
	ancestor bool // Parent context above a focused thread
	focal    bool
}

func (r row) id() string {
	if r.result != nil {
		return r.result.ID
	}
	if r.comment != nil {
		return r.comment.ID
	}
	return ""
}

func (r row) parentID() string {
	if r.result != nil {
		return r.result.ParentID
	}
	if r.comment != nil {
		return r.comment.ParentID
	}
	return ""
}

func (r row) author() domain.Author {
	if r.result != nil {
		return r.result.Author
	}
	if r.comment != nil {
		return r.comment.Author
	}
	return domain.Author{}
}

func (r row) isOwn() bool {
	if r.result != nil {
		return r.result.IsOwn
	}
	return r.comment != nil && r.comment.IsOwn
}

func (r row) isDeleted() bool {
	if r.result != nil {
		return r.result.IsDeleted
	}
	return r.comment != nil && r.comment.IsDeleted
}

// rows lays out what the active mode renders.
func (m Model) rows() []row {
	ann := m.session.Annotations()
	switch m.session.State().Mode {
	case domain.ModeSearch:
		results := m.session.SearchResults()
		out := make([]row, 0, len(results))
		for _, r := range results {
			if discussion.VisibleResult(r) {
				out = append(out, row{result: r})
			}
		}
		return out

	case domain.ModeThread:
		view, ok := m.session.Thread()
		if !ok {
			return nil
		}
		out := make([]row, 0, len(view.ParentContext)+1)
		for _, c := range view.ParentContext {
			out = append(out, row{comment: c, ancestor: true})
		}
		for i, r := range discussion.Flatten([]*domain.Comment{view.Focal}, ann) {
			out = append(out, row{comment: r.Comment, depth: r.Depth, focal: i == 0})
		}
		return out
	}

	flat := discussion.Flatten(m.session.Tree(), ann)
	out := make([]row, 0, len(flat))
	for _, r := range flat {
		out = append(out, row{comment: r.Comment, depth: r.Depth})
	}
	return out
}

func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m Model) selectedID() string {
	r, ok := m.selected()
	if !ok {
		return ""
	}
	return r.id()
}

// setCursorByID moves the cursor onto id and reports whether it was found.
func (m *Model) setCursorByID(id string) bool {
	if id == "" {
		return false
	}
	for i, r := range m.rows() {
		if r.id() == id {
			m.cursor = i
			m.ensureCursorVisible()
			return true
		}
	}
	return false
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// lookup returns a standalone copy of the comment id as currently shown, for
// restoring it if a write fails. Search hits are converted to the fields a
// search row can display.
func (m Model) lookup(id string) *domain.Comment {
	switch m.session.State().Mode {
	case domain.ModeSearch:
		for _, r := range m.session.SearchResults() {
			if r.ID == id {
				return &domain.Comment{
					ID:         r.ID,
					ParentID:   r.ParentID,
					Content:    r.Content,
					Author:     r.Author,
					Reactions:  r.Reactions,
					ReplyCount: r.ReplyCount,
					IsDeleted:  r.IsDeleted,
					IsOwn:      r.IsOwn,
					CreatedAt:  r.CreatedAt,
				}
			}
		}
		return nil
	case domain.ModeAll:
		c, ok := discussion.Find(m.session.Tree(), id)
		if !ok {
			return nil
		}
		cp := *c
		cp.Children = nil
		return &cp
	}
	return nil
}
