package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/domain"
)

type staticToken string

func (s staticToken) AccessToken() (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) AccessToken() (string, error) { return "", errors.New("no token") }

func newTestService(t *testing.T, h http.HandlerFunc) *commentService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCommentService(NewClient(srv.URL, staticToken("tok")), "me")
}

func TestListComments_MapsNestedReplies(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/comments" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer token: %q", got)
		}
		q := r.URL.Query()
		if q.Get("target") != "poll-9" || q.Get("sort") != "top" || q.Get("page") != "2" || q.Get("page_size") != "20" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{
			"comments": [{
				"id": "1", "content": "root\u001b[31m", "author": {"id": "me", "username": "alice"},
				"likes": 3, "reply_count": 5, "created_at": "2024-05-01T10:00:00Z",
				"replies": [{"id": "2", "content": "child", "author": {"id": "b", "username": "bob", "display_name": "Bob"},
					"replies": [{"id": "3", "content": "grandchild", "is_deleted": true}]}]
			}],
			"total": 21, "has_next": true
		}`)
	})

	page, err := svc.ListComments(context.Background(), app.ListQuery{TargetRef: "poll-9", Sort: domain.SortTop, Page: 2, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !page.HasNext || page.Total != 21 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %#v", page)
	}
	root := page.Items[0]
	if root.Content != "root" {
		t.Fatalf("expected escape sequences stripped, got %q", root.Content)
	}
	if !root.IsOwn || root.Reactions.Likes != 3 || root.ReplyCount != 5 || root.CreatedAt.IsZero() {
		t.Fatalf("unexpected root mapping: %#v", root)
	}
	if len(root.Children) != 1 || root.Children[0].ParentID != "1" || root.Children[0].Author.Name() != "Bob" {
		t.Fatalf("unexpected child mapping: %#v", root.Children)
	}
	gc := root.Children[0].Children
	if len(gc) != 1 || !gc[0].IsDeleted || gc[0].ParentID != "2" {
		t.Fatalf("unexpected grandchild mapping: %#v", gc)
	}
}

func TestSearchComments(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/v1/comments/search" || q.Get("q") != "ai" || q.Get("type") != "author" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"results":[{"id":"s1","content":"hit","context":{"kind":"poll","id":"p1","title":"Best editor?"}}],"total":1}`)
	})

	page, err := svc.SearchComments(context.Background(), app.SearchQuery{Query: " ai ", Type: domain.SearchAuthor, Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Context == nil || page.Items[0].Context.Title != "Best editor?" {
		t.Fatalf("unexpected results: %#v", page.Items)
	}
}

func TestSearchComments_BlankQuerySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	page, err := svc.SearchComments(context.Background(), app.SearchQuery{Query: "  "})
	if err != nil || len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %#v err=%v", page, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("blank query must not hit the API")
	}
}

func TestGetThread_FlatDescendants(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/comments/f/thread" || r.URL.Query().Get("reply_depth") != "6" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{
			"focal": {"id": "f", "parent_id": "p"},
			"ancestors": [{"id": "p", "parent_id": "r"}, {"id": "r"}],
			"descendants": [{"id": "a", "parent_id": "f"}, {"id": "a1", "parent_id": "a"}, {"id": "b", "parent_id": "f"}]
		}`)
	})

	view, err := svc.GetThread(context.Background(), "f", 3, 6)
	if err != nil {
		t.Fatalf("thread failed: %v", err)
	}
	if view.Focal == nil || len(view.Focal.Children) != 2 || len(view.Focal.Children[0].Children) != 1 {
		t.Fatalf("unexpected focal tree: %#v", view.Focal)
	}
	if len(view.ParentContext) != 2 || view.ParentContext[0].ID != "r" || view.ParentContext[1].ID != "p" {
		t.Fatalf("ancestors must be root-first: %#v", view.ParentContext)
	}
}

func TestGetThread_NestedFocal(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"focal": {"id": "f", "replies": [{"id": "c"}]}}`)
	})
	view, err := svc.GetThread(context.Background(), "f", 3, 6)
	if err != nil {
		t.Fatalf("thread failed: %v", err)
	}
	if len(view.Focal.Children) != 1 || view.Focal.Children[0].ParentID != "f" {
		t.Fatalf("unexpected nested focal: %#v", view.Focal)
	}
}

func TestCreateComment_SendsJSONAndValidates(t *testing.T) {
	var got createRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"id":"srv-1","parent_id":"9","content":"hello","author":{"id":"me"}}`)
	})

	c, err := svc.CreateComment(context.Background(), app.CreateInput{TargetRef: "poll-1", ParentID: "9", Content: "  hello \n"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got.Content != "hello" || got.ParentID != "9" || got.TargetRef != "poll-1" {
		t.Fatalf("unexpected request body: %#v", got)
	}
	if c.ID != "srv-1" || !c.IsOwn {
		t.Fatalf("unexpected comment: %#v", c)
	}

	if _, err := svc.CreateComment(context.Background(), app.CreateInput{Content: "   "}); !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	long := strings.Repeat("x", domain.MaxContentLength+1)
	if _, err := svc.UpdateComment(context.Background(), "1", app.UpdateInput{Content: long}); !errors.Is(err, domain.ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			if r.URL.Path != "/api/v1/comments/7" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = io.WriteString(w, `{"id":"7","content":"edited","is_edited":true}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	c, err := svc.UpdateComment(context.Background(), "7", app.UpdateInput{Content: "edited"})
	if err != nil || !c.IsEdited || c.Content != "edited" {
		t.Fatalf("unexpected update result: %#v err=%v", c, err)
	}
	if err := svc.DeleteComment(context.Background(), "7"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "search") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.Error(w, "bad token", http.StatusUnauthorized)
	})

	_, err := svc.ListComments(context.Background(), app.ListQuery{})
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.SearchComments(context.Background(), app.SearchQuery{Query: "x"})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
	if IsUnauthorized(err) {
		t.Fatalf("500 must not look unauthorized")
	}
}

func TestClient_TokenAndContextErrors(t *testing.T) {
	c := NewClient("https://example.invalid", failingToken{})
	if err := c.Get(context.Background(), "/x", nil); err == nil || !strings.Contains(err.Error(), "auth") {
		t.Fatalf("expected auth error, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewClient(srv.URL, staticToken("t")).Get(ctx, "/x", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestSanitizeText(t *testing.T) {
	in := "ok\x1b[31mred\x1b[0m\x1b]8;;http://x\x07bad\x01\x02\nnext"
	got := sanitizeText(in)
	if strings.ContainsRune(got, '\x1b') || strings.ContainsRune(got, '\x01') || strings.ContainsRune(got, '\x02') {
		t.Fatalf("expected escapes and controls removed: %q", got)
	}
	if !strings.Contains(got, "okred") || !strings.Contains(got, "\nnext") {
		t.Fatalf("expected plain text preserved: %q", got)
	}
}
