package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
)

// commentService implements app.CommentService against the HTTP API.
type commentService struct {
	client *Client
	m      mapper
}

var _ app.CommentService = (*commentService)(nil)

// NewCommentService creates a CommentService backed by the HTTP API.
// Pass currentAccountID to mark the user's own comments.
func NewCommentService(client *Client, currentAccountID string) *commentService {
	return &commentService{client: client, m: mapper{ownID: currentAccountID}}
}

func (s *commentService) ListComments(ctx context.Context, q app.ListQuery) (app.Page[*domain.Comment], error) {
	v := url.Values{}
	v.Set("target", q.TargetRef)
	v.Set("sort", q.Sort.String())
	setPaging(v, q.Page, q.PageSize)

	var resp listResponse
	if err := s.client.Get(ctx, "/api/v1/comments?"+v.Encode(), &resp); err != nil {
		return app.Page[*domain.Comment]{}, fmt.Errorf("fetching comments: %w", err)
	}
	return app.Page[*domain.Comment]{
		Items:   s.m.comments(resp.Comments),
		Total:   resp.Total,
		HasNext: resp.HasNext,
	}, nil
}

func (s *commentService) SearchComments(ctx context.Context, q app.SearchQuery) (app.Page[*domain.SearchResult], error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return app.Page[*domain.SearchResult]{Items: []*domain.SearchResult{}}, nil
	}
	v := url.Values{}
	v.Set("q", query)
	v.Set("type", q.Type.String())
	v.Set("sort", q.Sort.String())
	if q.Scope != "" {
		v.Set("scope", q.Scope)
	}
	setPaging(v, q.Page, q.PageSize)

	var resp searchResponse
	if err := s.client.Get(ctx, "/api/v1/comments/search?"+v.Encode(), &resp); err != nil {
		return app.Page[*domain.SearchResult]{}, fmt.Errorf("searching comments: %w", err)
	}
	items := make([]*domain.SearchResult, 0, len(resp.Results))
	for _, w := range resp.Results {
		if w == nil || w.ID == "" {
			continue
		}
		items = append(items, s.m.result(w))
	}
	return app.Page[*domain.SearchResult]{Items: items, Total: resp.Total, HasNext: resp.HasNext}, nil
}

func (s *commentService) GetThread(ctx context.Context, focalID string, parentLevels, replyDepth int) (domain.ThreadView, error) {
	v := url.Values{}
	v.Set("parent_levels", strconv.Itoa(parentLevels))
	v.Set("reply_depth", strconv.Itoa(replyDepth))
	path := fmt.Sprintf("/api/v1/comments/%s/thread?%s", url.PathEscape(focalID), v.Encode())

	var resp threadResponse
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return domain.ThreadView{}, fmt.Errorf("fetching thread: %w", err)
	}
	if resp.Focal == nil || resp.Focal.ID == "" {
		return domain.ThreadView{}, fmt.Errorf("fetching thread: response has no focal comment")
	}

	ancestors := s.m.flats(resp.Ancestors)
	if len(resp.Descendants) > 0 {
		view, _ := discussion.ThreadFromFlat(s.m.flat(resp.Focal), ancestors, s.m.flats(resp.Descendants), parentLevels, replyDepth)
		s.client.log.Debug("thread from flat descendants",
			zap.String("focal", focalID),
			zap.Int("descendants", len(resp.Descendants)),
		)
		return view, nil
	}
	return domain.ThreadView{Focal: s.m.comment(resp.Focal), ParentContext: ancestors}, nil
}

func (s *commentService) CreateComment(ctx context.Context, in app.CreateInput) (*domain.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if err := validateContent(content, in.Media != nil || in.Link != nil); err != nil {
		return nil, err
	}
	body := createRequest{
		TargetRef: in.TargetRef,
		ParentID:  in.ParentID,
		Content:   content,
		Media:     toWireMedia(in.Media),
		Link:      toWireLink(in.Link),
	}

	var resp wireComment
	if err := s.client.Post(ctx, "/api/v1/comments", body, &resp); err != nil {
		if in.ParentID != "" {
			return nil, fmt.Errorf("replying to comment: %w", err)
		}
		return nil, fmt.Errorf("posting comment: %w", err)
	}
	return s.parseComment(&resp)
}

func (s *commentService) UpdateComment(ctx context.Context, id string, in app.UpdateInput) (*domain.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if err := validateContent(content, in.Media != nil || in.Link != nil); err != nil {
		return nil, err
	}
	body := updateRequest{
		Content: content,
		Media:   toWireMedia(in.Media),
		Link:    toWireLink(in.Link),
	}

	var resp wireComment
	path := fmt.Sprintf("/api/v1/comments/%s", url.PathEscape(id))
	if err := s.client.Patch(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("editing comment: %w", err)
	}
	return s.parseComment(&resp)
}

func (s *commentService) DeleteComment(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/comments/%s", url.PathEscape(id))
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func (s *commentService) parseComment(w *wireComment) (*domain.Comment, error) {
	c := s.m.comment(w)
	if c == nil {
		return nil, fmt.Errorf("parsing comment response: missing id")
	}
	return c, nil
}

func setPaging(v url.Values, page, size int) {
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if size > 0 {
		v.Set("page_size", strconv.Itoa(size))
	}
}

func validateContent(content string, hasAttachment bool) error {
	if content == "" && !hasAttachment {
		return domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return domain.ErrContentTooLong
	}
	return nil
}
