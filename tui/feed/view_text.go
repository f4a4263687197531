package feed

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/threadline/domain"
	"github.com/CrestNiraj12/threadline/tui/common"
)

const previewLines = 2

func (m Model) renderRow(r row, selected, highlighted bool, now time.Time) string {
	ann := m.session.Annotations()
	id := r.id()
	guide := common.GuideStyle.Render(common.Indent(r.depth))
	width := m.width - 4 - 2*r.depth
	if width < 20 {
		width = 20
	}

	// Header
	head := renderAuthor(r.author(), r.isOwn())
	if r.isOwn() {
		head += common.OwnBadgeStyle.Render("(you)")
	}
	if ts := common.RelativeTime(createdAt(r), now); ts != "" {
		head += "  " + common.TimestampStyle.Render(ts)
	}
	if r.comment != nil && r.comment.IsEdited && !r.isDeleted() {
		head += common.TimestampStyle.Render(" · edited")
	}
	if p, ok := m.pending[id]; ok {
		head += common.ConfirmStyle.Render(pendingLabel(p.op))
	}

	// Body
	var body string
	switch {
	case r.isDeleted():
		body = common.DeletedStyle.Render("[deleted]")
	default:
		text := contentOf(r)
		if !ann.IsExpanded(id) {
			var cut bool
			text, cut = truncateToLines(text, width, previewLines)
			if cut {
				text += common.TimestampStyle.Render(" (m: more)")
			}
		} else {
			text = lipgloss.NewStyle().Width(width).Render(text)
		}
		body = common.ContentStyle.Render(text)
	}

	lines := []string{head}
	lines = append(lines, strings.Split(body, "\n")...)
	if extra := attachmentLine(r); extra != "" {
		lines = append(lines, extra)
	}
	lines = append(lines, m.metaLine(r))

	marker := "  "
	switch {
	case selected:
		marker = common.CursorStyle.Render("▌ ")
	case highlighted:
		marker = common.HighlightStyle.Render("◆ ")
	}
	for i, ln := range lines {
		prefix := "  "
		if i == 0 {
			prefix = marker
		}
		if r.ancestor {
			ln = common.AncestorStyle.Render(ansi.Strip(ln))
		}
		lines[i] = prefix + guide + ln
	}
	return clampLinesToWidth(strings.Join(lines, "\n"), m.width)
}

func (m Model) metaLine(r row) string {
	var re domain.Reactions
	replies := 0
	if r.result != nil {
		re, replies = r.result.Reactions, r.result.ReplyCount
	} else if r.comment != nil {
		re, replies = r.comment.Reactions, r.comment.ReplyCount
	}

	likeIcon, likeStyle := "♡", common.MetadataStyle
	if re.Liked {
		likeIcon, likeStyle = "♥", common.LikeActiveStyle
	}
	dislikeStyle := common.MetadataStyle
	if re.Disliked {
		dislikeStyle = common.LikeActiveStyle
	}
	meta := fmt.Sprintf("%s %d  %s %d  %s",
		likeStyle.Render(likeIcon), re.Likes,
		dislikeStyle.Render("▽"), re.Dislikes,
		common.MetadataStyle.Render(fmt.Sprintf("↩ %d", replies)))

	switch {
	case r.result != nil:
		if ctx := r.result.Context; ctx != nil && ctx.Title != "" {
			meta += common.MetadataStyle.Render("  in " + common.Truncate(ctx.Title, 40))
		}
	case r.comment != nil && !r.ancestor:
		c := r.comment
		switch {
		case len(c.Children) > 0 && m.session.Annotations().IsCollapsed(c.ID):
			meta += common.ConfirmStyle.Render(fmt.Sprintf("  [+] %d hidden", hiddenCount(c)))
		case c.HasMoreReplies || c.ReplyCount > len(c.Children):
			meta += common.TimestampStyle.Render("  ↳ more replies (enter)")
		}
	}
	return common.MetadataStyle.Render(meta)
}

func pendingLabel(op Op) string {
	switch op {
	case OpEdit:
		return " (saving...)"
	case OpDelete:
		return " (deleting...)"
	}
	return " (posting...)"
}

func contentOf(r row) string {
	if r.result != nil {
		return r.result.Content
	}
	if r.comment != nil {
		return r.comment.Content
	}
	return ""
}

func createdAt(r row) time.Time {
	if r.result != nil {
		return r.result.CreatedAt
	}
	if r.comment != nil {
		return r.comment.CreatedAt
	}
	return time.Time{}
}

func attachmentLine(r row) string {
	if r.comment == nil || r.comment.IsDeleted {
		return ""
	}
	var parts []string
	if md := r.comment.Media; md != nil {
		kind := md.Type
		if kind == "" {
			kind = "media"
		}
		parts = append(parts, "["+kind+"]")
	}
	if l := r.comment.Link; l != nil {
		label := l.Title
		if label == "" {
			label = l.URL
		}
		parts = append(parts, "🔗 "+common.Truncate(label, 50)+" (o)")
	}
	if len(parts) == 0 {
		return ""
	}
	return common.TimestampStyle.Render(strings.Join(parts, "  "))
}

// hiddenCount counts the visible replies under a collapsed comment.
func hiddenCount(c *domain.Comment) int {
	n := 0
	stack := append([]*domain.Comment(nil), c.Children...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		n++
		stack = append(stack, cur.Children...)
	}
	return n
}

func truncateToLines(text string, width, max int) (string, bool) {
	wrapped := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(text))
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= max {
		return wrapped, false
	}
	return strings.Join(lines[:max], "\n") + "…", true
}

func authorStyleFor(username string, isOwn bool) lipgloss.Style {
	if isOwn {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6DA95"))
	}
	palette := []string{
		"#7DC4E4", "#8BD5CA", "#F5A97F", "#C6A0F6", "#EBA0AC",
		"#F9E2AF", "#89B4FA", "#F38BA8", "#94E2D5",
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(username))))
	idx := int(h.Sum32() % uint32(len(palette)))
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(palette[idx]))
}

func renderAuthor(a domain.Author, isOwn bool) string {
	name := a.Username
	if name == "" {
		name = "unknown"
	}
	out := authorStyleFor(name, isOwn).Render("@" + name)
	if a.DisplayName != "" && a.DisplayName != a.Username {
		out += " " + common.TimestampStyle.Render(common.Truncate(a.DisplayName, 24))
	}
	return out
}

func clampLinesToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if ansi.StringWidth(ln) <= width {
			continue
		}
		lines[i] = ansi.Cut(ln, 0, width)
	}
	return strings.Join(lines, "\n")
}
