package feed

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

var errBoom = errors.New("boom")

// stubService answers every call from its fields. Nil funcs return empty results.
type stubService struct {
	list   func(app.ListQuery) (app.Page[*domain.Comment], error)
	search func(app.SearchQuery) (app.Page[*domain.SearchResult], error)
	thread func(id string) (domain.ThreadView, error)
}

func (s stubService) ListComments(_ context.Context, q app.ListQuery) (app.Page[*domain.Comment], error) {
	if s.list == nil {
		return app.Page[*domain.Comment]{}, nil
	}
	return s.list(q)
}

func (s stubService) SearchComments(_ context.Context, q app.SearchQuery) (app.Page[*domain.SearchResult], error) {
	if s.search == nil {
		return app.Page[*domain.SearchResult]{}, nil
	}
	return s.search(q)
}

func (s stubService) GetThread(_ context.Context, id string, _, _ int) (domain.ThreadView, error) {
	if s.thread == nil {
		return domain.ThreadView{}, nil
	}
	return s.thread(id)
}

func (stubService) CreateComment(_ context.Context, in app.CreateInput) (*domain.Comment, error) {
	return &domain.Comment{ID: "srv", Content: in.Content, ParentID: in.ParentID}, nil
}

func (stubService) UpdateComment(_ context.Context, id string, in app.UpdateInput) (*domain.Comment, error) {
	return &domain.Comment{ID: id, Content: in.Content, IsEdited: true}, nil
}

func (stubService) DeleteComment(context.Context, string) error { return nil }

func makeComment(id string, own bool, children ...*domain.Comment) *domain.Comment {
	c := &domain.Comment{
		ID:         id,
		Content:    "content " + id,
		Author:     domain.Author{ID: "acct-" + id, Username: "user" + id},
		IsOwn:      own,
		ReplyCount: len(children),
		CreatedAt:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, ch := range children {
		ch.ParentID = id
	}
	c.Children = children
	return c
}

func newTestModel(t *testing.T, svc app.CommentService) Model {
	t.Helper()
	s := discussion.NewSession(nil, discussion.WithTarget("post-1"), discussion.WithPageSize(5))
	m := New(svc, s, "post-1", nil)
	n := 0
	m.newID = func() string {
		n++
		return "local-" + strconv.Itoa(n)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m
}

// loaded returns a model whose All listing holds items as page 1.
func loaded(t *testing.T, hasNext bool, items ...*domain.Comment) Model {
	t.Helper()
	m := newTestModel(t, stubService{})
	req := m.session.Start()
	m, _ = m.Update(CommentsLoadedMsg{Req: req, Page: app.Page[*domain.Comment]{Items: items, HasNext: hasNext, Total: 40}})
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(keyPress(k))
	}
	return m, cmd
}

func rowIDs(m Model) []string {
	rows := m.rows()
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.id())
	}
	return out
}

// collect runs cmd and flattens any batch into its messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
