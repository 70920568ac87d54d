package update

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdash/internal/api"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/views"
)

var testNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

type fakeService struct {
	mu        sync.Mutex
	fetch     api.Result[[]model.Task]
	create    api.Result[model.Task]
	login     api.Result[api.Session]
	register  api.Result[json.RawMessage]
	logoutErr error
	created   []model.NewTask
	fetches   int
	logouts   int
}

func (f *fakeService) GetAllTasks(context.Context) api.Result[[]model.Task] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.fetch
}

func (f *fakeService) CreateTask(_ context.Context, in model.NewTask) api.Result[model.Task] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return f.create
}

func (f *fakeService) Login(context.Context, api.Credentials) api.Result[api.Session] {
	return f.login
}

func (f *fakeService) Register(context.Context, api.RegisterRequest) api.Result[json.RawMessage] {
	return f.register
}

func (f *fakeService) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return f.logoutErr
}

type fakeProfile struct {
	saved   any
	cleared bool
}

func (p *fakeProfile) SaveUser(_ context.Context, v any) error {
	p.saved = v
	return nil
}

func (p *fakeProfile) Clear(context.Context) error {
	p.cleared = true
	return nil
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newTestModel(svc *fakeService, profile *fakeProfile) Model {
	opts := Options{
		Service:         svc,
		Now:             func() time.Time { return testNow },
		RefreshInterval: time.Millisecond,
	}
	if profile != nil {
		opts.Profile = profile
	}
	return NewModel(opts)
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "1", Title: "Pay rent", Category: "Home", Status: model.StatusPending, DueDate: "2026-02-10", DueTime: model.TimeOf("09:00")},
		{ID: "2", Title: "Read book", Status: model.StatusCompleted},
		{ID: "3", Title: "Ship release", Status: model.StatusInProgress, DueDate: "2026-03-01"},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return next, cmd
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("expected %T among %d messages", zero, len(msgs))
	return zero
}

func loaded(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := newTestModel(svc, nil)
	m, _ = step(t, m, findMsg[TasksLoadedMsg](t, collect(m.Init())))
	return m
}

func TestNewModelStartsLoading(t *testing.T) {
	m := newTestModel(&fakeService{}, nil)
	if !m.Board.Loading() {
		t.Fatalf("expected loading board, got %s", m.Board.Phase())
	}
	if !strings.Contains(m.View(), views.LoadingText) {
		t.Fatalf("expected loading placeholder in view")
	}
}

func TestInitFetchesTasks(t *testing.T) {
	svc := &fakeService{fetch: api.Result[[]model.Task]{Success: true, Data: sampleTasks()}}
	m := loaded(t, svc)
	if svc.fetches != 1 {
		t.Fatalf("expected one fetch, got %d", svc.fetches)
	}
	if m.Board.Phase() != PhaseLoaded || m.Board.Len() != 3 {
		t.Fatalf("unexpected board: %s with %d tasks", m.Board.Phase(), m.Board.Len())
	}
	if m.Status.Text != "loaded 3 tasks" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestFetchFailureClearsListAndShowsError(t *testing.T) {
	svc := &fakeService{fetch: api.Result[[]model.Task]{Success: true, Data: sampleTasks()}}
	m := loaded(t, svc)

	svc.fetch = api.Result[[]model.Task]{Error: "Failed to fetch tasks"}
	m, cmd := step(t, m, keyRunes("r"))
	if !m.Board.Loading() {
		t.Fatalf("expected refresh to enter loading")
	}
	m, _ = step(t, m, findMsg[TasksLoadedMsg](t, collect(cmd)))
	if m.Board.Phase() != PhaseFailed || m.Board.Len() != 0 {
		t.Fatalf("expected failed empty board, got %s with %d", m.Board.Phase(), m.Board.Len())
	}
	if !m.Status.IsError || m.Status.Text != "Failed to fetch tasks" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	view := m.View()
	if !strings.Contains(view, "Failed to fetch tasks") || strings.Contains(view, "Pay rent") {
		t.Fatalf("expected error alert without stale cards: %q", view)
	}
}

func TestViewShowsStatsAndCards(t *testing.T) {
	m := loaded(t, &fakeService{fetch: api.Result[[]model.Task]{Success: true, Data: sampleTasks()}})
	view := m.View()
	for _, want := range []string{"Task Dashboard", "Total Tasks", "In Progress", "Pay rent", "[Pending]", "#Home", "2026-02-10 at 09:00", "Read book", "at —", "33%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view: %q", want, view)
		}
	}
	stats := m.Board.Stats()
	if stats != (model.Stats{Total: 3, Completed: 1, InProgress: 1, Pending: 1}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDueSoonAlertAndNotificationOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := &fakeService{fetch: api.Result[[]model.Task]{Success: true, Data: sampleTasks()}}
	m := NewModel(Options{
		Service:              svc,
		Now:                  func() time.Time { return testNow },
		Notifier:             notifier,
		DesktopNotifications: true,
		RefreshInterval:      time.Millisecond,
	})
	m, _ = step(t, m, m.fetchCmd()())
	if strings.Count(m.View(), views.DueSoonAlert) != 1 {
		t.Fatalf("expected one due-soon card: %q", m.View())
	}

	m, cmd := step(t, m, DueCheckMsg{At: testNow})
	if cmd == nil {
		t.Fatal("expected due check to re-arm")
	}
	dueSoon := 0
	for _, n := range notifier.sent {
		if n.Title == "Due soon" {
			dueSoon++
			if !strings.Contains(n.Body, "Pay rent") {
				t.Fatalf("unexpected due-soon body: %q", n.Body)
			}
		}
	}
	if dueSoon != 1 {
		t.Fatalf("expected a single due-soon notification, got %d", dueSoon)
	}
}

func TestFormCreateSuccessAppendsAndResets(t *testing.T) {
	created := model.Task{ID: "100", Title: "Write report", Status: model.StatusPending, DueDate: "2026-02-12", DueTime: model.TimeOf("17:30:00")}
	svc := &fakeService{
		fetch:  api.Result[[]model.Task]{Success: true, Data: sampleTasks()},
		create: api.Result[model.Task]{Success: true, Data: created},
	}
	m := loaded(t, svc)

	m, _ = step(t, m, keyRunes("n"))
	if !m.Form.Active {
		t.Fatal("expected form to open")
	}
	m.Form.SetValues(model.NewTask{Title: "Write report", Status: model.StatusPending, DueDate: "2026-02-12", DueTime: "17:30"})
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil || !m.Form.Submitting {
		t.Fatal("expected submit to start a create")
	}
	msg := cmd()
	if len(svc.created) != 1 || svc.created[0].DueTime != "17:30" {
		t.Fatalf("unexpected create input: %+v", svc.created)
	}

	m, _ = step(t, m, msg)
	if m.Board.Len() != 4 {
		t.Fatalf("expected appended task, got %d", m.Board.Len())
	}
	if last := m.Board.Tasks()[3]; last.ID != "100" || last.DueTime.String() != "17:30" {
		t.Fatalf("unexpected appended task: %+v", last)
	}
	if m.Form.Active || m.Form.Err != "" {
		t.Fatalf("expected form reset, got active=%v err=%q", m.Form.Active, m.Form.Err)
	}
	if _, err := m.Form.Value(); !errors.Is(err, model.ErrTitleRequired) {
		t.Fatalf("expected cleared fields, got %v", err)
	}
	if m.Board.Stats().Total != 4 || m.Cursor != 3 {
		t.Fatalf("unexpected stats/cursor: %+v %d", m.Board.Stats(), m.Cursor)
	}
}

func TestFormCreateFailureKeepsInput(t *testing.T) {
	svc := &fakeService{
		fetch:  api.Result[[]model.Task]{Success: true, Data: sampleTasks()},
		create: api.Result[model.Task]{Error: "Failed to create task"},
	}
	m := loaded(t, svc)
	m, _ = step(t, m, keyRunes("n"))
	m.Form.SetValues(model.NewTask{Title: "Write report"})
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = step(t, m, cmd())

	if m.Board.Len() != 3 || m.Board.Phase() != PhaseLoaded {
		t.Fatalf("expected list untouched, got %d %s", m.Board.Len(), m.Board.Phase())
	}
	if m.Board.Err() != "Failed to create task" || !m.Status.IsError {
		t.Fatalf("expected create error, got %q %+v", m.Board.Err(), m.Status)
	}
	if !m.Form.Active || m.Form.Submitting || m.Form.Err != "Failed to create task" {
		t.Fatalf("expected form kept open with error: %+v", m.Form)
	}
	if in, err := m.Form.Value(); err != nil || in.Title != "Write report" {
		t.Fatalf("expected input kept, got %+v %v", in, err)
	}
}

func TestFormValidationBlocksSubmit(t *testing.T) {
	svc := &fakeService{fetch: api.Result[[]model.Task]{Success: true}}
	m := loaded(t, svc)
	m, _ = step(t, m, keyRunes("n"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected no create for empty title")
	}
	if m.Form.Err != model.ErrTitleRequired.Error() {
		t.Fatalf("unexpected form error: %q", m.Form.Err)
	}
	if len(svc.created) != 0 {
		t.Fatalf("expected no backend call, got %d", len(svc.created))
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Form.Active {
		t.Fatal("expected esc to close form")
	}
}

func TestPaletteAddCreatesTask(t *testing.T) {
	svc := &fakeService{
		fetch:  api.Result[[]model.Task]{Success: true},
		create: api.Result[model.Task]{Success: true, Data: model.Task{ID: "7", Title: "Pay rent"}},
	}
	m := loaded(t, svc)
	m, _ = step(t, m, keyRunes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m, _ = step(t, m, keyRunes("add Pay rent due:2026-02-10 at:09:00"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	if cmd == nil {
		t.Fatalf("expected create command, status: %+v", m.Status)
	}
	msg, ok := cmd().(TaskCreatedMsg)
	if !ok || msg.FromForm {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if got := svc.created[0]; got.Title != "Pay rent" || got.DueDate != "2026-02-10" || got.DueTime != "09:00" || got.Status != model.StatusPending {
		t.Fatalf("unexpected create input: %+v", got)
	}
	m, _ = step(t, m, msg)
	if m.Board.Len() != 1 {
		t.Fatalf("expected created task on board, got %d", m.Board.Len())
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	m := loaded(t, &fakeService{fetch: api.Result[[]model.Task]{Success: true}})
	for _, input := range []string{"frobnicate", "add Pay rent at:9am"} {
		m, _ = step(t, m, keyRunes("/"))
		m, _ = step(t, m, keyRunes(input))
		var cmd tea.Cmd
		m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil || !m.Status.IsError {
			t.Fatalf("expected rejected input %q, status %+v", input, m.Status)
		}
	}
}

func TestLoginStoresUserAndRefetches(t *testing.T) {
	profile := &fakeProfile{}
	svc := &fakeService{fetch: api.Result[[]model.Task]{Success: true}}
	m := newTestModel(svc, profile)
	m, _ = step(t, m, m.fetchCmd()())

	user := model.User{FirstName: "Ada", LastName: "Lovelace", Mail: "ada@example.com"}
	m, cmd := step(t, m, LoginDoneMsg{Result: api.Result[api.Session]{Success: true, Data: api.Session{User: user}}})
	if m.User != user {
		t.Fatalf("unexpected user: %+v", m.User)
	}
	if saved, ok := profile.saved.(model.User); !ok || saved != user {
		t.Fatalf("expected profile saved, got %#v", profile.saved)
	}
	if !m.Board.Loading() {
		t.Fatal("expected a reload after login")
	}
	findMsg[TasksLoadedMsg](t, collect(cmd))
	if !strings.Contains(m.View(), "Welcome back, Ada Lovelace!") {
		t.Fatalf("expected welcome line: %q", m.View())
	}

	m, _ = step(t, m, LoginDoneMsg{Result: api.Result[api.Session]{Error: "Login failed. Invalid credentials."}})
	if !m.Status.IsError || m.User != user {
		t.Fatalf("expected failed login to keep user and report error: %+v", m.Status)
	}
}

func TestLogoutKeyClearsAndQuits(t *testing.T) {
	profile := &fakeProfile{}
	svc := &fakeService{fetch: api.Result[[]model.Task]{Success: true}}
	m := newTestModel(svc, profile)
	m.User = model.User{FirstName: "Ada"}

	m, cmd := step(t, m, keyRunes("L"))
	if cmd == nil {
		t.Fatal("expected logout command")
	}
	msg := cmd()
	if svc.logouts != 1 || !profile.cleared {
		t.Fatalf("expected token and profile cleared, logouts=%d cleared=%v", svc.logouts, profile.cleared)
	}
	m, cmd = step(t, m, msg)
	if !m.Quitting || m.User.DisplayName() != "" {
		t.Fatalf("expected quitting without user, got %+v", m.User)
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit command")
	}
}

func TestLogoutFailureReportsError(t *testing.T) {
	svc := &fakeService{logoutErr: errors.New("storage: disk full")}
	m := newTestModel(svc, &fakeProfile{})
	m, cmd := step(t, m, keyRunes("L"))
	m, _ = step(t, m, cmd())
	if m.Quitting || !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected logout error surfaced: %+v", m.Status)
	}
}

func TestCursorMovesWithinList(t *testing.T) {
	m := loaded(t, &fakeService{fetch: api.Result[[]model.Task]{Success: true, Data: sampleTasks()}})
	for i := 0; i < 5; i++ {
		m, _ = step(t, m, keyRunes("j"))
	}
	if m.Cursor != 2 {
		t.Fatalf("expected cursor clamped at 2, got %d", m.Cursor)
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.Cursor)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(&fakeService{}, nil)
	m, _ = step(t, m, SetStatusMsg{Text: "ready", IsError: false})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m, _ = step(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", m.LastError)
	}
	if !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m, _ = step(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestHelpToggleAndQuitKey(t *testing.T) {
	m := newTestModel(&fakeService{}, nil)
	m, _ = step(t, m, keyRunes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "/login") {
		t.Fatalf("expected help panel listing palette commands")
	}
	m, cmd := step(t, m, keyRunes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}
