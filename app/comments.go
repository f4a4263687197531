package app

import (
	"context"

	"github.com/CrestNiraj12/threadline/domain"
)

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items   []T
	Total   int
	HasNext bool
}

// ListQuery selects a page of top-level comments on a target.
type ListQuery struct {
	TargetRef string
	Sort      domain.Sort
	Page      int
	PageSize  int
}

// SearchQuery selects a page of full-text search hits.
type SearchQuery struct {
	Query    string
	Type     domain.SearchType
	Scope    string // Optional target ref to restrict the search to
	Sort     domain.Sort
	Page     int
	PageSize int
}

// CreateInput describes a new comment or reply.
type CreateInput struct {
	TargetRef string
	Content   string
	Media     *domain.Media
	Link      *domain.Link
	ParentID  string // Empty for top-level comments
}

// UpdateInput carries the editable fields of a comment.
type UpdateInput struct {
	Content string
	Media   *domain.Media
	Link    *domain.Link
}

// CommentService reads and writes comments on the discussion backend.
type CommentService interface {
	// ListComments returns a page of top-level comments with their resolved replies.
	ListComments(ctx context.Context, q ListQuery) (Page[*domain.Comment], error)

	// SearchComments returns a page of flat search hits.
	SearchComments(ctx context.Context, q SearchQuery) (Page[*domain.SearchResult], error)

	// GetThread returns a comment with its ancestors and bounded replies.
	GetThread(ctx context.Context, focalID string, parentLevels, replyDepth int) (domain.ThreadView, error)

	// CreateComment publishes a comment or reply.
	CreateComment(ctx context.Context, in CreateInput) (*domain.Comment, error)

	// UpdateComment edits an existing comment.
	UpdateComment(ctx context.Context, id string, in UpdateInput) (*domain.Comment, error)

	// DeleteComment soft-deletes a comment.
	DeleteComment(ctx context.Context, id string) error
}
