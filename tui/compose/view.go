package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CrestNiraj12/threadline/domain"
	"github.com/CrestNiraj12/threadline/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	if m.err != nil {
		return common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render("threadline"))
		b.WriteString("  " + m.heading() + "\n\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n\n")

		if m.status != "" {
			b.WriteString(common.StatusBarStyle.Render(m.status))
		} else {
			b.WriteString(common.StatusBarStyle.Render(
				fmt.Sprintf("  ctrl+d: publish • esc: cancel • %d/%d chars",
					utf8.RuneCountInString(m.textarea.Value()), domain.MaxContentLength),
			))
		}

		return b.String()
	}

	return ""
}

func (m Model) heading() string {
	switch m.target.Kind {
	case KindEdit:
		return "Edit comment"
	case KindReply:
		if m.target.ReplyTo != "" {
			return "Reply to " + m.target.ReplyTo
		}
		return "Reply"
	}
	return "New comment"
}
