package update

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/taskdash/internal/api"
	"github.com/sandeepkv93/taskdash/internal/model"
)

const (
	defaultWidth          = 80
	defaultListHeight     = 18
	defaultRefreshEvery   = time.Minute
	maxNotifications      = 40
	dashboardTitle        = "Task Dashboard"
	fallbackTaskKeyPrefix = "title:"
)

// TaskService is the backend the dashboard talks to. *api.Client satisfies it.
type TaskService interface {
	GetAllTasks(ctx context.Context) api.Result[[]model.Task]
	CreateTask(ctx context.Context, in model.NewTask) api.Result[model.Task]
	Login(ctx context.Context, in api.Credentials) api.Result[api.Session]
	Register(ctx context.Context, in api.RegisterRequest) api.Result[json.RawMessage]
	Logout(ctx context.Context) error
}

// ProfileStore keeps the signed-in user between runs.
type ProfileStore interface {
	SaveUser(ctx context.Context, v any) error
	Clear(ctx context.Context) error
}

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Options wires the dashboard to its collaborators. Service is required.
type Options struct {
	Service TaskService
	Profile ProfileStore
	User    model.User

	// Context is handed to every backend call; cancel it to abandon
	// in-flight requests when the program exits.
	Context context.Context

	Notifier             DesktopNotifier
	DesktopNotifications bool
	RefreshInterval      time.Duration
	Now                  func() time.Time
	Logger               *slog.Logger
}

type Model struct {
	Board          Board
	Form           TaskForm
	Palette        CommandPaletteState
	User           model.User
	Cursor         int
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Quitting       bool
	LastError      error

	svc          TaskService
	profile      ProfileStore
	notifier     DesktopNotifier
	ctx          context.Context
	now          func() time.Time
	logger       *slog.Logger
	refreshEvery time.Duration
	dueNotified  map[string]bool
	markdown     map[string]string
	keys         keyMap

	commandInput textinput.Model
	spinner      spinner.Model
	progress     progress.Model
	helpModel    help.Model
	viewport     viewport.Model
	width        int
}

// TasksLoadedMsg carries the answer to a fetch.
type TasksLoadedMsg struct {
	Result api.Result[[]model.Task]
}

// TaskCreatedMsg carries the answer to a create. FromForm routes the outcome
// back to the form so it can reset or show the reason.
type TaskCreatedMsg struct {
	Result   api.Result[model.Task]
	FromForm bool
}

type LoginDoneMsg struct {
	Result api.Result[api.Session]
}

type RegisterDoneMsg struct {
	Mail   string
	Result api.Result[json.RawMessage]
}

type LogoutDoneMsg struct {
	Err  error
	Quit bool
}

// DueCheckMsg re-evaluates the due-soon rule as the clock moves.
type DueCheckMsg struct {
	At time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(opts Options) Model {
	m := Model{
		Board:          NewBoard(),
		Form:           NewTaskForm(),
		User:           opts.User,
		DesktopEnabled: opts.DesktopNotifications,
		svc:            opts.Service,
		profile:        opts.Profile,
		notifier:       opts.Notifier,
		ctx:            opts.Context,
		now:            opts.Now,
		logger:         opts.Logger,
		refreshEvery:   opts.RefreshInterval,
		dueNotified:    make(map[string]bool),
		markdown:       make(map[string]string),
		keys:           newKeyMap(),
		width:          defaultWidth,
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.refreshEvery <= 0 {
		m.refreshEvery = defaultRefreshEvery
	}
	m.initBubbleComponents()
	m.sync()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add Pay rent due:2026-02-10 at:09:00"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 56

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.progress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.helpModel = help.New()

	m.viewport = viewport.New(defaultWidth, defaultListHeight)
}
