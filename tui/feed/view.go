package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/threadline/domain"
	"github.com/CrestNiraj12/threadline/tui/common"
)

// View renders the feed as a string.
func (m Model) View() string {
	var b strings.Builder
	mode := m.session.State().Mode

	b.WriteString(m.headerView() + "\n")
	b.WriteString(m.subheaderView() + "\n\n")

	rows := m.rows()
	err := m.session.Err(mode)
	switch {
	case m.session.Loading(mode) && len(rows) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading comments...\n", m.spinner.View()))
	case err != nil && len(rows) == 0:
		b.WriteString(common.ErrorStyle.Render("  " + errorNotice(err)))
		b.WriteString("\n\n  Press r to retry.\n")
	case m.session.EmptyState(mode) || len(rows) == 0:
		b.WriteString("  " + m.emptyText(mode) + "\n")
	default:
		b.WriteString(m.listView(rows))
		b.WriteString("\n")
	}

	b.WriteString(m.footerView(mode))
	return b.String()
}

func (m Model) headerView() string {
	st := m.session.State()
	title := common.AppTitleStyle.Padding(0, 1).Render("Threadline")
	badge := common.ModeBadgeStyle.Render(strings.ToUpper(st.Mode.String()))

	p := m.session.Pagination(st.Mode)
	count := ""
	switch {
	case st.Mode == domain.ModeThread && p.CurrentCount > 0:
		count = fmt.Sprintf("%d in thread", p.CurrentCount)
	case p.Total > 0:
		count = fmt.Sprintf("%d of %d", p.CurrentCount, p.Total)
	}
	return title + " " + badge + " " + common.TaglineStyle.Render(count)
}

func (m Model) subheaderView() string {
	if m.searching {
		return "  " + m.search.View() + common.TaglineStyle.Render("  by "+m.searchType.String()+" (tab)")
	}
	st := m.session.State()
	parts := []string{"sort: " + st.Sort.String()}
	switch st.Mode {
	case domain.ModeSearch:
		parts = append(parts, fmt.Sprintf("%s: %q", st.SearchType, st.SearchQuery))
	case domain.ModeThread:
		parts = append(parts, "esc: back")
	default:
		if m.target != "" {
			parts = append(parts, "on "+m.target)
		}
	}
	return "  " + common.TaglineStyle.Render(strings.Join(parts, "  ·  "))
}

func (m Model) emptyText(mode domain.Mode) string {
	switch mode {
	case domain.ModeSearch:
		return fmt.Sprintf("No comments match %q.", m.session.State().SearchQuery)
	case domain.ModeThread:
		return "This comment is no longer available."
	}
	return "No comments yet. Press p to start the discussion."
}

func (m Model) listView(rows []row) string {
	avail := m.listHeight()
	now := time.Now()
	hl, _ := m.session.Annotations().Highlight()

	var b strings.Builder
	used := 0
	for i := m.offset; i < len(rows); i++ {
		block := m.renderRow(rows[i], i == m.cursor, rows[i].id() == hl, now)
		h := lipgloss.Height(block)
		if used > 0 && used+h > avail {
			break
		}
		b.WriteString(block)
		b.WriteString("\n")
		used += h
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) footerView(mode domain.Mode) string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case m.confirmDelete:
		b.WriteString(common.ConfirmStyle.Render("  Delete this comment? (y/n)") + "\n")
	case m.session.LoadingMore(mode):
		b.WriteString(fmt.Sprintf("  %s Loading more...\n", m.spinner.View()))
	case m.session.Loading(mode):
		b.WriteString(fmt.Sprintf("  %s Refreshing...\n", m.spinner.View()))
	case m.notice != "":
		style := common.SuccessStyle
		if strings.HasPrefix(m.notice, "Error") {
			style = common.ErrorStyle
		}
		b.WriteString("  " + style.Render(m.notice) + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(common.StatusBarStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// listHeight is the number of terminal lines left for rows.
func (m Model) listHeight() int {
	reserved := 6
	if m.help.ShowAll {
		reserved += len(m.keys.FullHelp()[0])
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	return h
}

// ensureCursorVisible moves the window so the selected row is fully on screen.
func (m *Model) ensureCursorVisible() {
	rows := m.rows()
	if len(rows) == 0 {
		m.offset = 0
		return
	}
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	if m.offset < 0 {
		m.offset = 0
	}
	avail := m.listHeight()
	now := time.Now()
	for m.offset < m.cursor {
		used := 0
		for i := m.offset; i <= m.cursor; i++ {
			used += lipgloss.Height(m.renderRow(rows[i], i == m.cursor, false, now))
		}
		if used <= avail {
			break
		}
		m.offset++
	}
}
