package domain

import "time"

// Author is the public identity attached to a comment.
type Author struct {
	ID          string
	Username    string
	DisplayName string
}

// Name returns the display name, falling back to the username.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// Media references an uploaded attachment (image, gif, video).
type Media struct {
	ID         string
	Type       string
	URL        string
	PreviewURL string
}

// Link is an external link preview attached to a comment.
type Link struct {
	URL   string
	Title string
}

// Reactions holds the aggregate counts plus the viewer's own flags.
type Reactions struct {
	Likes    int
	Dislikes int
	Liked    bool
	Disliked bool
}

// Comment is a node of the discussion tree.
// Children are resolved by the server up to a declared depth; ReplyCount may
// exceed len(Children).
type Comment struct {
	ID               string
	ParentID         string // Empty for top-level comments
	TargetRef        string // Poll or post the thread hangs off
	Content          string
	Author           Author
	Media            *Media
	Link             *Link
	Reactions        Reactions
	ReplyCount       int
	Children         []*Comment
	HasMoreReplies   bool
	DefaultCollapsed bool // Server-suggested initial UI state
	IsDeleted        bool
	IsEdited         bool
	IsOwn            bool
	CreatedAt        time.Time
}

// Key returns the comment's stable identity.
func (c *Comment) Key() string {
	return c.ID
}

// IsTombstone reports whether the comment was soft-deleted but still carries replies.
func (c *Comment) IsTombstone() bool {
	return c.IsDeleted && len(c.Children) > 0
}

// ContentRef points at the top-level content a search hit belongs to.
type ContentRef struct {
	Kind  string // "poll", "post", ...
	ID    string
	Title string
}

// SearchResult is the flat projection returned by full-text search.
type SearchResult struct {
	ID         string
	ParentID   string
	Content    string
	Author     Author
	Reactions  Reactions
	ReplyCount int
	IsDeleted  bool
	IsOwn      bool
	CreatedAt  time.Time
	Context    *ContentRef
}

// Key returns the result's stable identity.
func (r *SearchResult) Key() string {
	return r.ID
}

// ThreadView is a single comment with its ancestors and a bounded reply subtree.
type ThreadView struct {
	Focal         *Comment
	ParentContext []*Comment // Root-first
}
