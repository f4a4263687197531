package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/app"
	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/infra/config"
	"github.com/CrestNiraj12/threadline/infra/editor"
	"github.com/CrestNiraj12/threadline/tui/common"
	"github.com/CrestNiraj12/threadline/tui/compose"
	"github.com/CrestNiraj12/threadline/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Service   app.CommentService
	Session   *discussion.Session
	Editor    *editor.EnvEditor
	Target    string
	Log       *zap.Logger
	StatePath string // Empty disables preference persistence
}

type activeView int

const (
	feedView activeView = iota
	composeView
)

// prefsSavedMsg reports the outcome of persisting preferences.
type prefsSavedMsg struct {
	err error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	feed    feed.Model
	compose compose.Model
	keys    common.KeyMap
	status  string // Transient status message (e.g. "Cancelled.")
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Session == nil {
		deps.Session = discussion.NewSession(nil, discussion.WithTarget(deps.Target), discussion.WithLogger(deps.Log))
	}
	return App{
		deps:   deps,
		active: feedView,
		feed:   feed.New(deps.Service, deps.Session, deps.Target, deps.Log),
		keys:   common.DefaultKeyMap(),
	}
}

// Init delegates to the feed.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.active == feedView && !a.feed.Typing() {
			switch {
			case key.Matches(msg, a.keys.Quit) && a.feed.AtHome():
				return a, tea.Quit
			case key.Matches(msg, a.keys.NewEditor):
				return a.openCompose(compose.Target{Kind: compose.KindCreate}, false)
			case key.Matches(msg, a.keys.NewInline):
				return a.openCompose(compose.Target{Kind: compose.KindCreate}, true)
			}
		}

	case tea.WindowSizeMsg:
		// The feed keeps its layout even while composing.
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		if a.active == composeView {
			var ccmd tea.Cmd
			a.compose, ccmd = a.compose.Update(msg)
			return a, tea.Batch(cmd, ccmd)
		}
		return a, cmd

	case feed.EditCommentMsg:
		return a.openCompose(compose.Target{
			Kind:    compose.KindEdit,
			ID:      msg.Comment.ID,
			Content: msg.Comment.Content,
		}, msg.UseInline)

	case feed.ReplyCommentMsg:
		return a.openCompose(compose.Target{
			Kind:    compose.KindReply,
			ID:      msg.ParentID,
			ReplyTo: msg.Author,
		}, msg.UseInline)

	case compose.DoneMsg:
		a.active = feedView
		if msg.Err != nil {
			a.deps.Log.Warn("compose failed", zap.Error(msg.Err))
			a.status = "Error: " + msg.Err.Error()
			return a, nil
		}
		if msg.Cancelled() {
			a.status = "Cancelled."
			return a, nil
		}
		a.status = ""
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(submitFor(msg))
		return a, cmd

	case feed.PrefsChangedMsg:
		return a, a.savePrefs(msg)

	case prefsSavedMsg:
		if msg.err != nil {
			a.deps.Log.Warn("saving preferences", zap.Error(msg.err))
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case feed.CommentsLoadedMsg, feed.SearchLoadedMsg, feed.ThreadLoadedMsg,
		feed.LoadErrorMsg, feed.MutationDoneMsg:
		// Async results belong to the feed whichever view is active.
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd
	}

	// Delegate to the active sub-model.
	switch a.active {
	case feedView:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		if _, ok := msg.(tea.KeyMsg); ok {
			a.status = ""
		}
		return a, cmd
	case composeView:
		updated, cmd := a.compose.Update(msg)
		a.compose = updated
		return a, cmd
	}

	return a, nil
}

func (a App) openCompose(target compose.Target, inline bool) (tea.Model, tea.Cmd) {
	a.active = composeView
	a.status = ""
	if inline || a.deps.Editor == nil {
		a.compose = compose.NewInline(target)
	} else {
		a.compose = compose.NewEditor(a.deps.Editor, target)
	}
	return a, a.compose.Init()
}

func submitFor(msg compose.DoneMsg) feed.SubmitMsg {
	op := feed.OpCreate
	switch msg.Target.Kind {
	case compose.KindEdit:
		op = feed.OpEdit
	case compose.KindReply:
		op = feed.OpReply
	}
	return feed.SubmitMsg{Op: op, ID: msg.Target.ID, Content: msg.Content}
}

func (a App) savePrefs(msg feed.PrefsChangedMsg) tea.Cmd {
	path := a.deps.StatePath
	if path == "" {
		return nil
	}
	st := config.UIState{Sort: msg.Sort.String(), SearchType: msg.SearchType.String()}
	return func() tea.Msg {
		return prefsSavedMsg{err: config.SaveUIState(path, st)}
	}
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	}

	// Append transient status if present.
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
