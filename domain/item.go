package domain

// ItemKind tags the variant held by an Item.
type ItemKind int

const (
	ItemComment ItemKind = iota + 1
	ItemSearchResult
)

func (k ItemKind) String() string {
	switch k {
	case ItemComment:
		return "comment"
	case ItemSearchResult:
		return "search_result"
	default:
		return "unknown"
	}
}

// Item is what a list view renders: either a Comment or a SearchResult.
// Exactly one of Comment / Result is set, matching Kind.
type Item struct {
	Kind    ItemKind
	Comment *Comment
	Result  *SearchResult
}

// CommentItem wraps a comment.
func CommentItem(c *Comment) Item {
	return Item{Kind: ItemComment, Comment: c}
}

// SearchItem wraps a search result.
func SearchItem(r *SearchResult) Item {
	return Item{Kind: ItemSearchResult, Result: r}
}

// ID returns the id of the wrapped variant.
func (i Item) ID() string {
	switch i.Kind {
	case ItemComment:
		if i.Comment != nil {
			return i.Comment.ID
		}
	case ItemSearchResult:
		if i.Result != nil {
			return i.Result.ID
		}
	}
	return ""
}
