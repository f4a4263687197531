package compose

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/threadline/domain"
	"github.com/CrestNiraj12/threadline/infra/editor"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// Kind says what the composed text becomes.
type Kind int

const (
	KindCreate Kind = iota
	KindEdit
	KindReply
)

// Target describes what is being composed. ID is the edited comment for
// KindEdit and the parent for KindReply.
type Target struct {
	Kind    Kind
	ID      string
	ReplyTo string // Author shown in the header when replying
	Content string // Initial content when editing
}

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	Target  Target
	Content string // Empty if cancelled
	Err     error
}

// Cancelled reports whether the user left without producing text.
func (d DoneMsg) Cancelled() bool {
	return d.Err == nil && d.Content == ""
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	mode     mode
	editor   *editor.EnvEditor
	target   Target
	status   string
	err      error
	textarea textarea.Model // Only used in inline mode
	tmpPath  string         // Temp file path for editor mode
}

// NewEditor creates a compose model that opens $EDITOR via tea.Exec.
func NewEditor(ed *editor.EnvEditor, target Target) Model {
	return Model{
		mode:   editorMode,
		editor: ed,
		target: target,
		status: "Opening editor...",
	}
}

// NewInline creates a compose model with an inline Bubble Tea textarea.
func NewInline(target Target) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder(target)
	ta.CharLimit = domain.MaxContentLength
	ta.SetWidth(72)
	ta.SetHeight(6)
	if target.Content != "" {
		ta.SetValue(target.Content)
	}
	ta.Focus()

	return Model{
		mode:     inlineMode,
		target:   target,
		textarea: ta,
	}
}

func placeholder(t Target) string {
	switch t.Kind {
	case KindReply:
		return "Write a reply..."
	case KindEdit:
		return ""
	}
	return "Join the discussion..."
}

// Target returns what this composer produces.
func (m Model) Target() Target {
	return m.target
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.Exec to suspend
// Bubble Tea's raw terminal mode while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.target.Content, m.target.ReplyTo)
	if err != nil {
		target := m.target
		return func() tea.Msg {
			return DoneMsg{Target: target, Err: fmt.Errorf("preparing editor: %w", err)}
		}
	}
	m.tmpPath = tmpPath

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- Editor mode messages ---

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Target: m.target, Err: fmt.Errorf("editor: %w", msg.err)})
		}

		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Target: m.target, Err: err})
		}
		return m, done(m.result(content))

	// --- Inline mode messages ---

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}

		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{Target: m.target})

		case "ctrl+d":
			return m, done(m.result(m.textarea.Value()))
		}

		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	return m, nil
}

// result turns submitted text into a DoneMsg. Blank or unchanged text cancels.
func (m Model) result(content string) DoneMsg {
	content = strings.TrimSpace(content)
	if content == "" || content == strings.TrimSpace(m.target.Content) {
		return DoneMsg{Target: m.target}
	}
	return DoneMsg{Target: m.target, Content: content}
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
