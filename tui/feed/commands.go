package feed

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
)

// fetch runs req against the service. The reply carries req back so the
// session can tell whether it still applies.
func (m Model) fetch(req discussion.Request) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		switch req.Kind {
		case discussion.RequestList:
			page, err := svc.ListComments(ctx, app.ListQuery{
				TargetRef: req.TargetRef,
				Sort:      req.Sort,
				Page:      req.Page,
				PageSize:  req.PageSize,
			})
			if err != nil {
				return LoadErrorMsg{Req: req, Err: err}
			}
			return CommentsLoadedMsg{Req: req, Page: page}

		case discussion.RequestSearch:
			page, err := svc.SearchComments(ctx, app.SearchQuery{
				Query:    req.Query,
				Type:     req.SearchType,
				Scope:    req.TargetRef,
				Sort:     req.Sort,
				Page:     req.Page,
				PageSize: req.PageSize,
			})
			if err != nil {
				return LoadErrorMsg{Req: req, Err: err}
			}
			return SearchLoadedMsg{Req: req, Page: page}

		case discussion.RequestThread:
			view, err := svc.GetThread(ctx, req.FocalID, req.ParentLevels, req.ReplyDepth)
			if err != nil {
				return LoadErrorMsg{Req: req, Err: err}
			}
			return ThreadLoadedMsg{Req: req, View: view}
		}
		return nil
	}
}

func (m Model) createComment(localID string, in app.CreateInput, op Op) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		c, err := svc.CreateComment(context.Background(), in)
		if c != nil {
			c.IsOwn = true
		}
		return MutationDoneMsg{Op: op, ID: localID, Comment: c, Err: err}
	}
}

func (m Model) updateComment(id string, in app.UpdateInput) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		c, err := svc.UpdateComment(context.Background(), id, in)
		if c != nil {
			c.IsOwn = true
		}
		return MutationDoneMsg{Op: OpEdit, ID: id, Comment: c, Err: err}
	}
}

func (m Model) deleteComment(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.DeleteComment(context.Background(), id)
		return MutationDoneMsg{Op: OpDelete, ID: id, Err: err}
	}
}

func (m Model) emitPrefsChanged() tea.Cmd {
	msg := PrefsChangedMsg{Sort: m.session.State().Sort, SearchType: m.searchType}
	return func() tea.Msg { return msg }
}

func openURL(rawURL string) tea.Cmd {
	if !isSafeExternalURL(rawURL) {
		return nil
	}
	return func() tea.Msg {
		opener := "xdg-open"
		if runtime.GOOS == "darwin" {
			opener = "open"
		}
		_ = exec.Command(opener, rawURL).Start()
		return nil
	}
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
