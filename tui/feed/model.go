package feed

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
	"github.com/CrestNiraj12/threadline/tui/common"
)

// prefetchTrigger is how close to the last row the cursor must get before
// the next page is requested.
const prefetchTrigger = 3

// Op is a user-initiated write.
type Op int

const (
	OpCreate Op = iota + 1
	OpReply
	OpEdit
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpReply:
		return "reply"
	case OpEdit:
		return "edit"
	case OpDelete:
		return "delete"
	}
	return "create"
}

// --- Messages ---

// CommentsLoadedMsg carries a page of top-level comments.
type CommentsLoadedMsg struct {
	Req  discussion.Request
	Page app.Page[*domain.Comment]
}

// SearchLoadedMsg carries a page of search hits.
type SearchLoadedMsg struct {
	Req  discussion.Request
	Page app.Page[*domain.SearchResult]
}

// ThreadLoadedMsg carries a focused thread.
type ThreadLoadedMsg struct {
	Req  discussion.Request
	View domain.ThreadView
}

// LoadErrorMsg is sent when any fetch fails.
type LoadErrorMsg struct {
	Req discussion.Request
	Err error
}

// EditCommentMsg asks the root to open the composer on an own comment.
type EditCommentMsg struct {
	Comment   *domain.Comment
	UseInline bool
}

// ReplyCommentMsg asks the root to open the composer for a reply.
type ReplyCommentMsg struct {
	ParentID  string
	Author    string
	UseInline bool
}

// SubmitMsg hands composed text back to the feed. ID is the edited comment
// for OpEdit and the parent for OpReply.
type SubmitMsg struct {
	Op      Op
	ID      string
	Content string
}

// MutationDoneMsg is the server's answer to an optimistic write. ID is the
// id the optimistic change was applied under (a local id for creates).
type MutationDoneMsg struct {
	Op      Op
	ID      string
	Comment *domain.Comment
	Err     error
}

// PrefsChangedMsg is emitted when sort or search type change.
type PrefsChangedMsg struct {
	Sort       domain.Sort
	SearchType domain.SearchType
}

type pendingOp struct {
	op       Op
	parentID string
	original *domain.Comment // Restored when an edit or delete fails
}

// --- Model ---

// Model holds the state for the comment feed.
type Model struct {
	svc           app.CommentService
	session       *discussion.Session
	log           *zap.Logger
	target        string
	keys          common.KeyMap
	help          help.Model
	spinner       spinner.Model
	search        textinput.Model
	searching     bool
	searchType    domain.SearchType
	cursor        int
	offset        int // First rendered row
	width         int
	height        int
	confirmDelete bool
	pending       map[string]pendingOp
	notice        string
	newID         func() string
}

// New creates a feed model driving session and fetching through svc.
func New(svc app.CommentService, session *discussion.Session, target string, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	ti := textinput.New()
	ti.Placeholder = "search comments"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	return Model{
		svc:        svc,
		session:    session,
		log:        log,
		target:     target,
		keys:       common.DefaultKeyMap(),
		help:       help.New(),
		spinner:    s,
		search:     ti,
		searchType: session.State().SearchType,
		width:      80,
		height:     24,
		pending:    make(map[string]pendingOp),
		newID:      func() string { return "local-" + uuid.NewString() },
	}
}

// Init starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetch(m.session.Start()),
		m.spinner.Tick,
	)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CommentsLoadedMsg, SearchLoadedMsg, ThreadLoadedMsg, LoadErrorMsg:
		return m.handleLoadingMsg(msg)

	case SubmitMsg, MutationDoneMsg:
		return m.handleOptimisticMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.searching {
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Session exposes the underlying view-model.
func (m Model) Session() *discussion.Session {
	return m.session
}

// Typing reports whether key presses currently go to a text input.
func (m Model) Typing() bool {
	return m.searching
}

// AtHome reports whether the feed shows the default listing with no
// navigation history, which is where q quits.
func (m Model) AtHome() bool {
	return m.session.State().Mode == domain.ModeAll && m.session.HistoryDepth() == 0 && !m.confirmDelete
}

// Cursor returns the selected row index.
func (m Model) Cursor() int {
	return m.cursor
}

// Pending reports whether an optimistic write on id is awaiting the server.
func (m Model) Pending(id string) bool {
	_, ok := m.pending[id]
	return ok
}

// Notice returns the transient status line.
func (m Model) Notice() string {
	return m.notice
}
