package api

import (
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/threadline/domain"
)

// wireComment is the JSON shape of a comment. Replies nest up to the depth
// the server resolved.
type wireComment struct {
	ID               string         `json:"id"`
	ParentID         string         `json:"parent_id,omitempty"`
	TargetRef        string         `json:"target_ref,omitempty"`
	Content          string         `json:"content"`
	Author           wireAuthor     `json:"author"`
	Media            *wireMedia     `json:"media,omitempty"`
	Link             *wireLink      `json:"link,omitempty"`
	Likes            int            `json:"likes"`
	Dislikes         int            `json:"dislikes"`
	Liked            bool           `json:"liked"`
	Disliked         bool           `json:"disliked"`
	ReplyCount       int            `json:"reply_count"`
	Replies          []*wireComment `json:"replies,omitempty"`
	HasMoreReplies   bool           `json:"has_more_replies"`
	DefaultCollapsed bool           `json:"default_collapsed"`
	IsDeleted        bool           `json:"is_deleted"`
	IsEdited         bool           `json:"is_edited"`
	IsOwn            bool           `json:"is_own"`
	CreatedAt        string         `json:"created_at"`
}

type wireAuthor struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type wireMedia struct {
	ID         string `json:"id"`
	Type       string `json:"type,omitempty"`
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

type wireLink struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type wireSearchResult struct {
	ID         string          `json:"id"`
	ParentID   string          `json:"parent_id,omitempty"`
	Content    string          `json:"content"`
	Author     wireAuthor      `json:"author"`
	Likes      int             `json:"likes"`
	Dislikes   int             `json:"dislikes"`
	Liked      bool            `json:"liked"`
	Disliked   bool            `json:"disliked"`
	ReplyCount int             `json:"reply_count"`
	IsDeleted  bool            `json:"is_deleted"`
	IsOwn      bool            `json:"is_own"`
	CreatedAt  string          `json:"created_at"`
	Context    *wireContentRef `json:"context,omitempty"`
}

type wireContentRef struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listResponse struct {
	Comments []*wireComment `json:"comments"`
	Total    int            `json:"total"`
	HasNext  bool           `json:"has_next"`
}

type searchResponse struct {
	Results []*wireSearchResult `json:"results"`
	Total   int                 `json:"total"`
	HasNext bool                `json:"has_next"`
}

// threadResponse carries either a nested focal comment or a flat descendant
// list linked by parent_id.
type threadResponse struct {
	Focal       *wireComment   `json:"focal"`
	Ancestors   []*wireComment `json:"ancestors"`
	Descendants []*wireComment `json:"descendants"`
}

type createRequest struct {
	TargetRef string     `json:"target_ref"`
	ParentID  string     `json:"parent_id,omitempty"`
	Content   string     `json:"content"`
	Media     *wireMedia `json:"media,omitempty"`
	Link      *wireLink  `json:"link,omitempty"`
}

type updateRequest struct {
	Content string     `json:"content"`
	Media   *wireMedia `json:"media,omitempty"`
	Link    *wireLink  `json:"link,omitempty"`
}

// mapper converts wire structs into domain values. ownID marks the viewer's
// comments when the server leaves is_own unset.
type mapper struct {
	ownID string
}

func (m mapper) author(a wireAuthor) domain.Author {
	return domain.Author{
		ID:          a.ID,
		Username:    sanitizeText(a.Username),
		DisplayName: sanitizeText(a.DisplayName),
	}
}

func (m mapper) isOwn(flag bool, authorID string) bool {
	return flag || (m.ownID != "" && authorID == m.ownID)
}

// flat converts a single wire comment without its replies.
func (m mapper) flat(w *wireComment) *domain.Comment {
	c := &domain.Comment{
		ID:               w.ID,
		ParentID:         w.ParentID,
		TargetRef:        w.TargetRef,
		Content:          sanitizeText(w.Content),
		Author:           m.author(w.Author),
		Reactions:        domain.Reactions{Likes: w.Likes, Dislikes: w.Dislikes, Liked: w.Liked, Disliked: w.Disliked},
		ReplyCount:       w.ReplyCount,
		HasMoreReplies:   w.HasMoreReplies,
		DefaultCollapsed: w.DefaultCollapsed,
		IsDeleted:        w.IsDeleted,
		IsEdited:         w.IsEdited,
		IsOwn:            m.isOwn(w.IsOwn, w.Author.ID),
		CreatedAt:        parseTime(w.CreatedAt),
	}
	if w.Media != nil {
		c.Media = &domain.Media{ID: w.Media.ID, Type: w.Media.Type, URL: w.Media.URL, PreviewURL: w.Media.PreviewURL}
	}
	if w.Link != nil {
		c.Link = &domain.Link{URL: w.Link.URL, Title: sanitizeText(w.Link.Title)}
	}
	if len(w.Replies) > c.ReplyCount {
		c.ReplyCount = len(w.Replies)
	}
	return c
}

// comment converts a nested wire comment. Reply chains can be deep, so the
// walk keeps its own stack.
func (m mapper) comment(w *wireComment) *domain.Comment {
	if w == nil || w.ID == "" {
		return nil
	}
	type frame struct {
		src *wireComment
		dst *domain.Comment
	}
	root := m.flat(w)
	stack := []frame{{src: w, dst: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(f.src.Replies) == 0 {
			continue
		}
		f.dst.Children = make([]*domain.Comment, 0, len(f.src.Replies))
		for _, r := range f.src.Replies {
			if r == nil || r.ID == "" {
				continue
			}
			child := m.flat(r)
			child.ParentID = f.dst.ID
			if child.TargetRef == "" {
				child.TargetRef = f.dst.TargetRef
			}
			f.dst.Children = append(f.dst.Children, child)
			stack = append(stack, frame{src: r, dst: child})
		}
	}
	return root
}

func (m mapper) comments(ws []*wireComment) []*domain.Comment {
	out := make([]*domain.Comment, 0, len(ws))
	for _, w := range ws {
		if c := m.comment(w); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (m mapper) flats(ws []*wireComment) []*domain.Comment {
	out := make([]*domain.Comment, 0, len(ws))
	for _, w := range ws {
		if w == nil || w.ID == "" {
			continue
		}
		out = append(out, m.flat(w))
	}
	return out
}

func (m mapper) result(w *wireSearchResult) *domain.SearchResult {
	r := &domain.SearchResult{
		ID:         w.ID,
		ParentID:   w.ParentID,
		Content:    sanitizeText(w.Content),
		Author:     m.author(w.Author),
		Reactions:  domain.Reactions{Likes: w.Likes, Dislikes: w.Dislikes, Liked: w.Liked, Disliked: w.Disliked},
		ReplyCount: w.ReplyCount,
		IsDeleted:  w.IsDeleted,
		IsOwn:      m.isOwn(w.IsOwn, w.Author.ID),
		CreatedAt:  parseTime(w.CreatedAt),
	}
	if w.Context != nil {
		r.Context = &domain.ContentRef{Kind: w.Context.Kind, ID: w.Context.ID, Title: sanitizeText(w.Context.Title)}
	}
	return r
}

func toWireMedia(m *domain.Media) *wireMedia {
	if m == nil {
		return nil
	}
	return &wireMedia{ID: m.ID, Type: m.Type, URL: m.URL, PreviewURL: m.PreviewURL}
}

func toWireLink(l *domain.Link) *wireLink {
	if l == nil {
		return nil
	}
	return &wireLink{URL: l.URL, Title: l.Title}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// sanitizeText removes terminal escape sequences and control characters from
// server-supplied text. Newlines and tabs are kept.
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
