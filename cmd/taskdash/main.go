package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdash/internal/api"
	"github.com/sandeepkv93/taskdash/internal/config"
	"github.com/sandeepkv93/taskdash/internal/exitcode"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/storage"
	"github.com/sandeepkv93/taskdash/internal/update"
)

const usage = `usage: taskdash [command]

commands:
  (none)     open the dashboard
  register   -first NAME -last NAME -mail MAIL -password PASS
  login      -mail MAIL -password PASS
  logout     forget the stored credentials
  tasks      print the task list
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app holds what every subcommand needs once config and storage are open.
type app struct {
	cfg     config.RuntimeConfig
	logger  *slog.Logger
	session *storage.Session
	client  *api.Client
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "", "register", "login", "logout", "tasks":
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return exitcode.Success
	default:
		fmt.Fprintf(errOut, "error: unknown command: %s\n\n%s", cmd, usage)
		return exitcode.UserError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "error: load config: %v\n", err)
		return exitcode.UserError
	}
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: create config dir: %v\n", err)
		return exitcode.BackendError
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: open log: %v\n", err)
		return exitcode.BackendError
	}
	defer closeLog()

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: open session store: %v\n", err)
		return exitcode.BackendError
	}
	defer repo.Close()

	session := storage.NewSession(repo)
	a := app{
		cfg:     cfg,
		logger:  logger,
		session: session,
		client: api.New(ctx, cfg.APIURL,
			api.WithTokenStore(session),
			api.WithLogger(logger),
			api.WithTimeout(cfg.HTTPTimeout),
		),
	}

	switch cmd {
	case "register":
		return a.register(ctx, args, out, errOut)
	case "login":
		return a.login(ctx, args, out, errOut)
	case "logout":
		return a.logout(ctx, out, errOut)
	case "tasks":
		return a.tasks(ctx, out, errOut)
	default:
		return a.dashboard(ctx, errOut)
	}
}

// newLogger writes debug logs to a file when enabled; stdout belongs to the
// dashboard.
func newLogger(cfg config.RuntimeConfig) (*slog.Logger, func(), error) {
	if !cfg.Debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := tea.LogToFile(cfg.LogPath(), config.AppName)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a app) register(ctx context.Context, args []string, out, errOut io.Writer) int {
	var in api.RegisterRequest
	fs := newFlagSet("register")
	fs.StringVar(&in.FirstName, "first", "", "")
	fs.StringVar(&in.LastName, "last", "", "")
	fs.StringVar(&in.Mail, "mail", "", "")
	fs.StringVar(&in.Password, "password", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if in.FirstName == "" || in.LastName == "" || in.Mail == "" || in.Password == "" {
		fmt.Fprintln(errOut, "error: register requires -first, -last, -mail and -password")
		return exitcode.UserError
	}

	res := a.client.Register(ctx, in)
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.BackendError
	}
	fmt.Fprintf(out, "Registered %s. Run `taskdash login` to sign in.\n", in.Mail)
	return exitcode.Success
}

func (a app) login(ctx context.Context, args []string, out, errOut io.Writer) int {
	var in api.Credentials
	fs := newFlagSet("login")
	fs.StringVar(&in.Mail, "mail", "", "")
	fs.StringVar(&in.Password, "password", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if in.Mail == "" || in.Password == "" {
		fmt.Fprintln(errOut, "error: login requires -mail and -password")
		return exitcode.UserError
	}

	res := a.client.Login(ctx, in)
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.AuthError
	}
	if err := a.session.SaveUser(ctx, res.Data.User); err != nil {
		a.logger.Warn("save user", "err", err)
	}
	name := res.Data.User.DisplayName()
	if name == "" {
		name = res.Data.User.Mail
	}
	fmt.Fprintf(out, "Signed in as %s.\n", name)
	return exitcode.Success
}

func (a app) logout(ctx context.Context, out, errOut io.Writer) int {
	if err := a.client.Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	if err := a.session.Clear(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	fmt.Fprintln(out, "Signed out.")
	return exitcode.Success
}

func (a app) tasks(ctx context.Context, out, errOut io.Writer) int {
	if !a.client.Authenticated() {
		fmt.Fprintln(errOut, "error: not signed in; run `taskdash login`")
		return exitcode.AuthError
	}
	res := a.client.GetAllTasks(ctx)
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.BackendError
	}
	if len(res.Data) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return exitcode.Success
	}
	now := time.Now()
	for _, t := range res.Data {
		line := fmt.Sprintf("%-6s %-12s %s", t.ID, t.Status, t.Title)
		if t.DueDate != "" {
			line += fmt.Sprintf("  (%s at %s)", t.DueDate, t.DueTime)
		}
		if t.DueSoon(now) {
			line += "  due soon"
		}
		fmt.Fprintln(out, line)
	}
	return exitcode.Success
}

func (a app) dashboard(ctx context.Context, errOut io.Writer) int {
	var user model.User
	if _, err := a.session.LoadUser(ctx, &user); err != nil {
		a.logger.Warn("load user", "err", err)
	}

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if a.cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(update.Options{
		Service:              a.client,
		Profile:              a.session,
		User:                 user,
		Context:              ctx,
		Notifier:             notifier,
		DesktopNotifications: a.cfg.DesktopNotifications,
		RefreshInterval:      a.cfg.RefreshInterval,
		Logger:               a.logger,
	})

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(errOut, "taskdash failed: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
