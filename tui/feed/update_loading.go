package feed

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

func (m Model) handleLoadingMsg(msg tea.Msg) (Model, tea.Cmd) {
	anchorID := m.selectedID()

	switch msg := msg.(type) {
	case CommentsLoadedMsg:
		err := m.session.ApplyPage(msg.Req, msg.Page.Items, msg.Page.HasNext, msg.Page.Total)
		if err != nil {
			return m.dropStale(msg.Req, err)
		}
		m.afterPage(msg.Req.Page, anchorID, domain.ModeAll)
		return m, m.checkSentinel()

	case SearchLoadedMsg:
		err := m.session.ApplySearchPage(msg.Req, msg.Page.Items, msg.Page.HasNext, msg.Page.Total)
		if err != nil {
			return m.dropStale(msg.Req, err)
		}
		m.afterPage(msg.Req.Page, anchorID, domain.ModeSearch)
		return m, m.checkSentinel()

	case ThreadLoadedMsg:
		if err := m.session.ApplyThread(msg.Req, msg.View); err != nil {
			return m.dropStale(msg.Req, err)
		}
		m.notice = ""
		// A reload keeps the selection; a fresh thread lands on the focal comment.
		if !m.setCursorByID(anchorID) {
			m.cursor = 0
			m.setCursorByID(msg.Req.FocalID)
		}
		m.ensureCursorVisible()
		return m, nil

	case LoadErrorMsg:
		if err := m.session.ApplyFailure(msg.Req, msg.Err); err != nil {
			return m.dropStale(msg.Req, err)
		}
		m.log.Warn("fetch failed",
			zap.Int("kind", int(msg.Req.Kind)),
			zap.Int("page", msg.Req.Page),
			zap.Error(msg.Err),
		)
		m.notice = errorNotice(msg.Err)
		return m, nil
	}

	return m, nil
}

func (m Model) dropStale(req discussion.Request, err error) (Model, tea.Cmd) {
	if !errors.Is(err, domain.ErrStaleResponse) {
		m.log.Error("applying response", zap.Error(err))
	}
	return m, nil
}

// afterPage restores the selection after a merge. Page 1 starts at the top;
// later pages keep the cursor on the row it was on.
func (m *Model) afterPage(page int, anchorID string, mode domain.Mode) {
	m.notice = ""
	if page <= 1 {
		m.cursor = 0
		m.offset = 0
	} else if !m.setCursorByID(anchorID) {
		m.clampCursor()
	}
	if p := m.session.Pagination(mode); page > 1 && !p.HasMore {
		m.notice = "End of discussion."
	}
	m.ensureCursorVisible()
}

// checkSentinel reports the sentinel's visibility to the session and fetches
// the next page when it fires.
func (m Model) checkSentinel() tea.Cmd {
	visible := m.cursor >= len(m.rows())-prefetchTrigger
	req, ok := m.session.SentinelVisible(visible)
	if !ok {
		return nil
	}
	return m.fetch(req)
}

func errorNotice(err error) string {
	return "Error: " + describeError(err)
}

func describeError(err error) string {
	if errors.Is(err, domain.ErrUnauthorized) {
		return "access token rejected, run threadline login"
	}
	return err.Error()
}
