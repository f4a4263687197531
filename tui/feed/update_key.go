package feed

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchInput(msg)
	}
	if m.confirmDelete {
		return m.handleDeleteConfirm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.ToggleHints):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		return m.moveCursor(-len(m.rows()))
	case key.Matches(msg, m.keys.Bottom):
		return m.moveCursor(len(m.rows()))

	case key.Matches(msg, m.keys.Thread):
		return m.openThread()

	case key.Matches(msg, m.keys.Back):
		return m.navigate(discussion.Back())

	case key.Matches(msg, m.keys.Refresh):
		req := m.session.Refresh()
		m.cursor, m.offset = 0, 0
		m.notice = ""
		return m, m.fetch(req)

	case key.Matches(msg, m.keys.Collapse):
		r, ok := m.selected()
		if !ok || r.comment == nil || len(r.comment.Children) == 0 {
			return m, nil
		}
		m.session.Annotations().ToggleCollapse(r.comment.ID)
		m.ensureCursorVisible()
		return m, m.checkSentinel()

	case key.Matches(msg, m.keys.ReadMore):
		if id := m.selectedID(); id != "" {
			m.session.Annotations().ToggleReadMore(id)
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.Trace):
		return m.traceParent()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.session.State().SearchQuery)
		m.search.CursorEnd()
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Sort):
		next := nextSort(m.session.State().Sort)
		updated, cmd := m.navigate(discussion.SetSort(next))
		return updated, tea.Batch(cmd, updated.emitPrefsChanged())

	case key.Matches(msg, m.keys.Open):
		r, ok := m.selected()
		if ok && r.comment != nil && r.comment.Link != nil {
			return m, openURL(r.comment.Link.URL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.EditInline):
		r, ok := m.selected()
		if !ok || !r.isOwn() || r.isDeleted() || m.Pending(r.id()) {
			return m, nil
		}
		c := m.lookup(r.id())
		if c == nil {
			c = r.comment
		}
		if c == nil {
			return m, nil
		}
		inline := key.Matches(msg, m.keys.EditInline)
		return m, func() tea.Msg { return EditCommentMsg{Comment: c, UseInline: inline} }

	case key.Matches(msg, m.keys.Reply), key.Matches(msg, m.keys.ReplyInline):
		r, ok := m.selected()
		if !ok || r.isDeleted() || m.Pending(r.id()) {
			return m, nil
		}
		reply := ReplyCommentMsg{
			ParentID:  r.id(),
			Author:    "@" + r.author().Username,
			UseInline: key.Matches(msg, m.keys.ReplyInline),
		}
		return m, func() tea.Msg { return reply }

	case key.Matches(msg, m.keys.Delete):
		r, ok := m.selected()
		if ok && r.isOwn() && !r.isDeleted() && !m.Pending(r.id()) {
			m.confirmDelete = true
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		q := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		if q == "" {
			return m, nil
		}
		updated, cmd := m.navigate(discussion.ShowSearch(q, m.searchType))
		return updated, tea.Batch(cmd, updated.emitPrefsChanged())

	case key.Matches(msg, m.keys.SearchType):
		if m.searchType == domain.SearchContent {
			m.searchType = domain.SearchAuthor
		} else {
			m.searchType = domain.SearchContent
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirmDelete = false
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.applyDelete(r.id())
	case key.Matches(msg, m.keys.Cancel), msg.Type == tea.KeyEsc:
		m.confirmDelete = false
	}
	return m, nil
}

func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	n := len(m.rows())
	if n == 0 {
		return m, m.checkSentinel()
	}
	m.cursor += delta
	m.clampCursor()
	m.ensureCursorVisible()
	return m, m.checkSentinel()
}

func (m Model) navigate(a discussion.Action) (Model, tea.Cmd) {
	req, ok := m.session.Navigate(a)
	if !ok {
		return m, nil
	}
	m.cursor, m.offset = 0, 0
	m.confirmDelete = false
	m.notice = ""
	return m, m.fetch(req)
}

// openThread focuses the selected comment. In a thread, the focal comment
// itself has nothing further to open.
func (m Model) openThread() (Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok || r.focal {
		return m, nil
	}
	if r.comment != nil && strings.HasPrefix(r.comment.ID, "local-") {
		return m, nil
	}
	return m.navigate(discussion.ShowThread(r.id()))
}

// traceParent highlights the comment the selection replies to and moves the
// cursor onto it when it is on screen.
func (m Model) traceParent() (Model, tea.Cmd) {
	ann := m.session.Annotations()
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	pid := r.parentID()
	if pid == "" {
		ann.ClearHighlight()
		m.notice = "Top-level comment."
		return m, nil
	}
	ann.SetHighlight(pid)
	if m.setCursorByID(pid) {
		m.notice = ""
	} else {
		m.notice = "Parent not loaded here. Press enter to open the thread."
	}
	return m, nil
}

func nextSort(s domain.Sort) domain.Sort {
	switch s {
	case domain.SortNewest:
		return domain.SortOldest
	case domain.SortOldest:
		return domain.SortTop
	}
	return domain.SortNewest
}
