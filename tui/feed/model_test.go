package feed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

func TestStaleListResponseIsIgnored(t *testing.T) {
	m := newTestModel(t, stubService{})
	old := m.session.Start()

	m, _ = press(m, "s")
	m, _ = m.Update(CommentsLoadedMsg{Req: old, Page: app.Page[*domain.Comment]{Items: []*domain.Comment{makeComment("1", false)}}})

	if got := rowIDs(m); len(got) != 0 {
		t.Fatalf("expected response for the old sort to be dropped, got %v", got)
	}
	if m.session.State().Sort != domain.SortOldest {
		t.Fatalf("expected sort to advance to oldest, got %s", m.session.State().Sort)
	}
}

func TestScrollToBottomFetchesNextPageAndKeepsCursor(t *testing.T) {
	svc := stubService{list: func(q app.ListQuery) (app.Page[*domain.Comment], error) {
		if q.Page != 2 {
			t.Errorf("expected page 2 request, got %d", q.Page)
		}
		if q.TargetRef != "post-1" {
			t.Errorf("expected target post-1, got %q", q.TargetRef)
		}
		return app.Page[*domain.Comment]{
			Items: []*domain.Comment{makeComment("5", false), makeComment("6", false), makeComment("7", false)},
			Total: 7,
		}, nil
	}}
	m := newTestModel(t, svc)
	req := m.session.Start()
	first := []*domain.Comment{
		makeComment("1", false), makeComment("2", false), makeComment("3", false),
		makeComment("4", false), makeComment("5", false),
	}
	m, cmd := m.Update(CommentsLoadedMsg{Req: req, Page: app.Page[*domain.Comment]{Items: first, HasNext: true, Total: 7}})
	if cmd != nil {
		t.Fatalf("expected no fetch while the cursor is at the top")
	}

	m, cmd = press(m, "G")
	if cmd == nil {
		t.Fatalf("expected bottom of list to request the next page")
	}
	if !m.session.LoadingMore(domain.ModeAll) {
		t.Fatalf("expected load-more flag to be set")
	}
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	m, _ = m.Update(msgs[0])

	want := []string{"1", "2", "3", "4", "5", "6", "7"}
	if got := rowIDs(m); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected merged rows %v, got %v", want, got)
	}
	if m.Cursor() != 4 {
		t.Fatalf("expected cursor to stay on comment 5, got %d", m.Cursor())
	}
	if m.Notice() != "End of discussion." {
		t.Fatalf("expected end notice, got %q", m.Notice())
	}
}

func TestOptimisticCreateReconcilesWithServerCopy(t *testing.T) {
	m := loaded(t, false, makeComment("1", false))

	m, cmd := m.Update(SubmitMsg{Op: OpCreate, Content: "hello"})
	if got := rowIDs(m); fmt.Sprint(got) != "[local-1 1]" {
		t.Fatalf("expected local comment first, got %v", got)
	}
	if !m.Pending("local-1") {
		t.Fatalf("expected local comment to be pending")
	}

	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	done, ok := msgs[0].(MutationDoneMsg)
	if !ok || done.ID != "local-1" || done.Comment == nil || !done.Comment.IsOwn {
		t.Fatalf("unexpected mutation result %#v", msgs[0])
	}
	m, _ = m.Update(done)

	if got := rowIDs(m); fmt.Sprint(got) != "[srv 1]" {
		t.Fatalf("expected server comment to replace local one, got %v", got)
	}
	if m.Pending("local-1") {
		t.Fatalf("expected pending flag to clear")
	}
	if m.Notice() != "Comment posted." {
		t.Fatalf("unexpected notice %q", m.Notice())
	}
}

func TestFailedCreateRollsBack(t *testing.T) {
	m := loaded(t, false, makeComment("1", false))

	m, _ = m.Update(SubmitMsg{Op: OpReply, ID: "1", Content: "reply"})
	if got := rowIDs(m); fmt.Sprint(got) != "[1 local-1]" {
		t.Fatalf("expected optimistic reply under parent, got %v", got)
	}

	m, _ = m.Update(MutationDoneMsg{Op: OpReply, ID: "local-1", Err: errBoom})
	if got := rowIDs(m); fmt.Sprint(got) != "[1]" {
		t.Fatalf("expected reply to be rolled back, got %v", got)
	}
	parent, _ := discussion.Find(m.session.Tree(), "1")
	if parent.ReplyCount != 0 {
		t.Fatalf("expected reply count restored, got %d", parent.ReplyCount)
	}
	if !strings.HasPrefix(m.Notice(), "Error: reply failed") {
		t.Fatalf("unexpected notice %q", m.Notice())
	}
}

func TestFailedSearchReplyRestoresReplyCount(t *testing.T) {
	m := newTestModel(t, stubService{})
	req, _ := m.session.Navigate(discussion.ShowSearch("go", domain.SearchContent))
	hit := &domain.SearchResult{ID: "s1", Content: "go", ReplyCount: 2}
	m, _ = m.Update(SearchLoadedMsg{Req: req, Page: app.Page[*domain.SearchResult]{Items: []*domain.SearchResult{hit}, Total: 1}})

	m, _ = m.Update(SubmitMsg{Op: OpReply, ID: "s1", Content: "reply"})
	if got := m.session.SearchResults()[0].ReplyCount; got != 3 {
		t.Fatalf("expected optimistic reply count 3, got %d", got)
	}

	m, _ = m.Update(MutationDoneMsg{Op: OpReply, ID: "local-1", Err: errBoom})
	if got := m.session.SearchResults()[0].ReplyCount; got != 2 {
		t.Fatalf("expected reply count restored to 2, got %d", got)
	}
}

func TestEmptySubmitIsRejectedLocally(t *testing.T) {
	m := loaded(t, false, makeComment("1", false))

	m, cmd := m.Update(SubmitMsg{Op: OpCreate, Content: "   "})
	if cmd != nil {
		t.Fatalf("expected no request for empty content")
	}
	if got := rowIDs(m); fmt.Sprint(got) != "[1]" {
		t.Fatalf("expected listing unchanged, got %v", got)
	}
	if !strings.Contains(m.Notice(), domain.ErrEmptyContent.Error()) {
		t.Fatalf("unexpected notice %q", m.Notice())
	}
}

func TestFailedEditRestoresOriginal(t *testing.T) {
	m := loaded(t, false, makeComment("1", true, makeComment("2", false)))

	m, _ = m.Update(SubmitMsg{Op: OpEdit, ID: "1", Content: "changed"})
	c, _ := discussion.Find(m.session.Tree(), "1")
	if c.Content != "changed" || !c.IsEdited {
		t.Fatalf("expected optimistic edit, got %#v", c)
	}

	m, _ = m.Update(MutationDoneMsg{Op: OpEdit, ID: "1", Err: errBoom})
	c, _ = discussion.Find(m.session.Tree(), "1")
	if c.Content != "content 1" || c.IsEdited {
		t.Fatalf("expected original restored, got %#v", c)
	}
	if got := rowIDs(m); fmt.Sprint(got) != "[1 2]" {
		t.Fatalf("expected replies kept, got %v", got)
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	m := loaded(t, false, makeComment("1", true), makeComment("2", false))

	m, _ = press(m, "d")
	if !m.confirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	if m.AtHome() {
		t.Fatalf("expected confirmation to block quitting")
	}

	m, cmd := press(m, "y")
	if got := rowIDs(m); fmt.Sprint(got) != "[2]" {
		t.Fatalf("expected deleted leaf to disappear, got %v", got)
	}
	if !m.Pending("1") {
		t.Fatalf("expected delete to be pending")
	}
	if cmd == nil {
		t.Fatalf("expected delete request")
	}

	m, _ = m.Update(MutationDoneMsg{Op: OpDelete, ID: "1", Err: errBoom})
	if got := rowIDs(m); fmt.Sprint(got) != "[1 2]" {
		t.Fatalf("expected failed delete to restore comment, got %v", got)
	}
}

func TestDeleteIgnoredForOthersComments(t *testing.T) {
	m := loaded(t, false, makeComment("1", false))

	m, _ = press(m, "d")
	if m.confirmDelete {
		t.Fatalf("expected no confirmation for someone else's comment")
	}
	m, _ = press(m, "n")
	if got := rowIDs(m); fmt.Sprint(got) != "[1]" {
		t.Fatalf("unexpected rows %v", got)
	}
}

func TestThreadMutationRefetchesThread(t *testing.T) {
	svc := stubService{thread: func(id string) (domain.ThreadView, error) {
		return domain.ThreadView{Focal: makeComment(id, false, makeComment("r1", false))}, nil
	}}
	m := newTestModel(t, svc)
	req := m.session.Start()
	m, _ = m.Update(CommentsLoadedMsg{Req: req, Page: app.Page[*domain.Comment]{Items: []*domain.Comment{makeComment("1", false)}}})

	m, cmd := press(m, "enter")
	if m.session.State().Mode != domain.ModeThread {
		t.Fatalf("expected thread mode, got %s", m.session.State().Mode)
	}
	m, _ = m.Update(collect(cmd)[0])
	if got := rowIDs(m); fmt.Sprint(got) != "[1 r1]" {
		t.Fatalf("unexpected thread rows %v", got)
	}

	m, cmd = m.Update(SubmitMsg{Op: OpReply, ID: "r1", Content: "deep reply"})
	if m.Pending("local-1") {
		t.Fatalf("expected no local node in thread mode")
	}
	done := collect(cmd)
	m, cmd = m.Update(done[0])
	if cmd == nil {
		t.Fatalf("expected thread reload after write")
	}
	msgs := collect(cmd)
	reload, ok := msgs[0].(ThreadLoadedMsg)
	if !ok || reload.Req.FocalID != "1" {
		t.Fatalf("expected thread reload for 1, got %#v", msgs[0])
	}
	m, _ = m.Update(reload)
	if _, ok := m.session.Thread(); !ok {
		t.Fatalf("expected reloaded thread to apply")
	}

	m, _ = press(m, "esc")
	if m.session.State().Mode != domain.ModeAll {
		t.Fatalf("expected back to return to all, got %s", m.session.State().Mode)
	}
}

func TestCollapseHidesReplies(t *testing.T) {
	m := loaded(t, false, makeComment("1", false, makeComment("2", false)))

	m, _ = press(m, " ")
	if got := rowIDs(m); fmt.Sprint(got) != "[1]" {
		t.Fatalf("expected replies hidden, got %v", got)
	}
	if !strings.Contains(m.View(), "[+] 1 hidden") {
		t.Fatalf("expected hidden count in view")
	}
	m, _ = press(m, " ")
	if got := rowIDs(m); fmt.Sprint(got) != "[1 2]" {
		t.Fatalf("expected replies shown, got %v", got)
	}

	m, _ = press(m, "j", " ")
	if got := rowIDs(m); fmt.Sprint(got) != "[1 2]" {
		t.Fatalf("expected collapse on a leaf to be a no-op, got %v", got)
	}
}

func TestSearchInputSubmitsQuery(t *testing.T) {
	m := loaded(t, false, makeComment("1", false))

	m, _ = press(m, "/")
	if !m.Typing() {
		t.Fatalf("expected search input focused")
	}
	m, _ = press(m, "foo", "tab")
	m, cmd := press(m, "enter")

	st := m.session.State()
	if st.Mode != domain.ModeSearch || st.SearchQuery != "foo" || st.SearchType != domain.SearchAuthor {
		t.Fatalf("unexpected state %#v", st)
	}
	if m.Typing() {
		t.Fatalf("expected input to close after submit")
	}

	var sawPrefs, sawSearch bool
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case PrefsChangedMsg:
			sawPrefs = msg.SearchType == domain.SearchAuthor
		case SearchLoadedMsg:
			sawSearch = msg.Req.Query == "foo"
		}
	}
	if !sawPrefs || !sawSearch {
		t.Fatalf("expected search fetch and prefs change, got prefs=%v search=%v", sawPrefs, sawSearch)
	}
}

func TestSearchEscapeCancels(t *testing.T) {
	m := loaded(t, false, makeComment("1", false))

	m, _ = press(m, "/", "x", "esc")
	if m.Typing() {
		t.Fatalf("expected input closed")
	}
	if m.session.State().Mode != domain.ModeAll {
		t.Fatalf("expected to stay in all mode")
	}
}

func TestTraceMovesToParent(t *testing.T) {
	m := loaded(t, false, makeComment("1", false, makeComment("2", false)))

	m, _ = press(m, "j", "t")
	if id, ok := m.session.Annotations().Highlight(); !ok || id != "1" {
		t.Fatalf("expected parent highlighted, got %q", id)
	}
	if m.Cursor() != 0 {
		t.Fatalf("expected cursor on parent, got %d", m.Cursor())
	}

	m, _ = press(m, "t")
	if m.Notice() != "Top-level comment." {
		t.Fatalf("unexpected notice %q", m.Notice())
	}
}

func TestHighlightSurvivesModeSwitches(t *testing.T) {
	m := loaded(t, false, makeComment("1", false, makeComment("2", false)))

	m, _ = press(m, "j", "t", "j", "enter")
	if m.session.State().Mode != domain.ModeThread {
		t.Fatalf("expected thread mode, got %v", m.session.State().Mode)
	}
	if id, ok := m.session.Annotations().Highlight(); !ok || id != "1" {
		t.Fatalf("highlight lost entering thread: %q", id)
	}

	m, _ = press(m, "esc")
	if m.session.State().Mode != domain.ModeAll {
		t.Fatalf("expected all mode after back, got %v", m.session.State().Mode)
	}
	if id, ok := m.session.Annotations().Highlight(); !ok || id != "1" {
		t.Fatalf("highlight lost going back: %q", id)
	}
}

func TestEditAndReplyKeysEmitComposeRequests(t *testing.T) {
	m := loaded(t, false, makeComment("1", true), makeComment("2", false))

	_, cmd := press(m, "e")
	edit, ok := collect(cmd)[0].(EditCommentMsg)
	if !ok || edit.Comment.ID != "1" || edit.UseInline {
		t.Fatalf("unexpected edit request %#v", edit)
	}

	_, cmd = press(m, "C")
	reply, ok := collect(cmd)[0].(ReplyCommentMsg)
	if !ok || reply.ParentID != "1" || reply.Author != "@user1" || !reply.UseInline {
		t.Fatalf("unexpected reply request %#v", reply)
	}

	m, _ = press(m, "j")
	if _, cmd = press(m, "e"); cmd != nil {
		t.Fatalf("expected edit to be refused on someone else's comment")
	}
}

func TestUnauthorizedLoadShowsLoginHint(t *testing.T) {
	m := newTestModel(t, stubService{})
	req := m.session.Start()

	m, _ = m.Update(LoadErrorMsg{Req: req, Err: fmt.Errorf("list: %w", domain.ErrUnauthorized)})
	if !strings.Contains(m.Notice(), "threadline login") {
		t.Fatalf("unexpected notice %q", m.Notice())
	}
	if !strings.Contains(m.View(), "Press r to retry") {
		t.Fatalf("expected retry hint in view")
	}
}

func TestViewRendersComments(t *testing.T) {
	m := loaded(t, false, makeComment("1", true, makeComment("2", false)))

	out := m.View()
	for _, want := range []string{"Threadline", "ALL", "@user1", "(you)", "content 1", "content 2", "1 of 40"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, out)
		}
	}
}

func TestViewEmptyState(t *testing.T) {
	m := loaded(t, false)

	if !strings.Contains(m.View(), "No comments yet") {
		t.Fatalf("expected empty state")
	}
}

func TestIsSafeExternalURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"HTTPS://example.com", true},
		{"javascript:alert(1)", false},
		{"file:///etc/passwd", false},
		{"https://", false},
		{"not a url", false},
	}
	for _, tc := range cases {
		if got := isSafeExternalURL(tc.in); got != tc.want {
			t.Fatalf("isSafeExternalURL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
