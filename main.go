package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/threadline/discussion"
	"github.com/CrestNiraj12/threadline/domain"
	"github.com/CrestNiraj12/threadline/infra/api"
	"github.com/CrestNiraj12/threadline/infra/auth"
	"github.com/CrestNiraj12/threadline/infra/config"
	"github.com/CrestNiraj12/threadline/infra/editor"
	"github.com/CrestNiraj12/threadline/infra/logging"
	"github.com/CrestNiraj12/threadline/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// accessTokenEnv holds a raw token and takes precedence over the token file.
const accessTokenEnv = "THREADLINE_ACCESS_TOKEN"

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliLogin
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	case "login":
		return cliLogin, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: threadline [login|--version|-version|-v|--help|-h]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("threadline %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	// 1. Load config from defaults, file and environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if mode == cliLogin {
		if err := runLogin(cfg, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "login: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "no discussion target: set THREADLINE_TARGET or target in config.yaml")
		os.Exit(1)
	}

	// 2. Build infrastructure.
	tokens := auth.Chain{
		auth.NewEnvTokenProvider(accessTokenEnv),
		auth.NewFileTokenProvider(cfg.TokenPath),
	}
	client := api.NewClient(cfg.APIURL, tokens, api.WithLogger(log))
	accountID := resolveAccountID(cfg, tokens, log)
	commentSvc := api.NewCommentService(client, accountID)

	// 3. Restore preferences and build the view-model.
	uiState, err := config.LoadUIState(cfg.StatePath)
	if err != nil {
		log.Warn("ignoring ui state", zap.Error(err))
	}
	session := discussion.NewSession(nil,
		discussion.WithLogger(log),
		discussion.WithTarget(cfg.Target),
		discussion.WithPageSize(cfg.PageSize),
		discussion.WithThreadDepth(cfg.ParentLevels, cfg.ReplyDepth),
		discussion.WithPreferences(domain.ParseSort(uiState.Sort), domain.ParseSearchType(uiState.SearchType)),
	)

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Service:   commentSvc,
		Session:   session,
		Editor:    editor.NewEnvEditor(),
		Target:    cfg.Target,
		Log:       log,
		StatePath: cfg.StatePath,
	})

	// 5. Run.
	log.Info("starting", zap.String("api", cfg.APIURL), zap.String("target", cfg.Target))
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "threadline: %v\n", err)
		os.Exit(1)
	}
}

// resolveAccountID returns the configured account id, or asks the backend
// who the token belongs to. Ownership badges are lost when neither works.
func resolveAccountID(cfg config.Config, tokens auth.TokenProvider, log *zap.Logger) string {
	if cfg.AccountID != "" {
		return cfg.AccountID
	}
	tok, err := tokens.AccessToken()
	if err != nil {
		log.Warn("no access token", zap.Error(err))
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := auth.VerifyToken(ctx, cfg.APIURL, tok)
	if err != nil {
		log.Warn("resolving account", zap.Error(err))
		return ""
	}
	return id
}

// runLogin reads a token from in, checks it against the backend and stores it.
func runLogin(cfg config.Config, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Paste an access token for %s: ", cfg.APIURL)
	token, err := readToken(in)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	accountID, err := auth.VerifyToken(ctx, cfg.APIURL, token)
	if err != nil {
		return err
	}
	if err := auth.SaveToken(cfg.TokenPath, token); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nLogged in as account %s. Token saved to %s\n", accountID, cfg.TokenPath)
	return nil
}

func readToken(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("no token given")
	}
	return token, nil
}
