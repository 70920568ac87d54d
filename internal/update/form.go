package update

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/views"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldCategory
	fieldStatus
	fieldDueDate
	fieldDueTime
	fieldCount
)

var (
	errBadDueDate = errors.New("due date must be YYYY-MM-DD")
	errBadDueTime = errors.New("due time must be HH:MM")
)

// TaskForm collects a new task. It validates its own fields and resets only
// after the dashboard reports a successful create.
type TaskForm struct {
	Active     bool
	Submitting bool
	Err        string

	focus       formField
	title       textinput.Model
	description textarea.Model
	category    textinput.Model
	status      textinput.Model
	dueDate     textinput.Model
	dueTime     textinput.Model
}

func NewTaskForm() TaskForm {
	newInput := func(prompt, placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Prompt = prompt
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 40
		return in
	}
	f := TaskForm{
		title:    newInput("title>    ", "Write the report", 256),
		category: newInput("category> ", "Work", 64),
		status:   newInput("status>   ", string(model.StatusPending), 16),
		dueDate:  newInput("due date> ", "YYYY-MM-DD", 10),
		dueTime:  newInput("due time> ", "HH:MM", 5),
	}
	f.description = textarea.New()
	f.description.SetWidth(48)
	f.description.SetHeight(3)
	f.description.ShowLineNumbers = false
	f.description.Placeholder = "Description (markdown)"
	return f
}

func (f *TaskForm) Open() {
	f.Active = true
	f.Err = ""
	f.setFocus(fieldTitle)
}

func (f *TaskForm) Close() {
	f.Active = false
	f.Submitting = false
	f.blurAll()
}

// Reset clears every field and closes the form.
func (f *TaskForm) Reset() {
	f.title.Reset()
	f.description.Reset()
	f.category.Reset()
	f.status.Reset()
	f.dueDate.Reset()
	f.dueTime.Reset()
	f.Err = ""
	f.Close()
}

// SetValues fills the fields, mostly for tests and prefilled palette input.
func (f *TaskForm) SetValues(in model.NewTask) {
	f.title.SetValue(in.Title)
	f.description.SetValue(in.Description)
	f.category.SetValue(in.Category)
	f.status.SetValue(string(in.Status))
	f.dueDate.SetValue(in.DueDate)
	f.dueTime.SetValue(in.DueTime)
}

// Value validates the fields and returns the creation input.
func (f TaskForm) Value() (model.NewTask, error) {
	status, err := model.ParseStatus(f.status.Value())
	if err != nil {
		return model.NewTask{}, err
	}
	out := model.NewTask{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.description.Value()),
		Category:    strings.TrimSpace(f.category.Value()),
		Status:      status,
		DueDate:     strings.TrimSpace(f.dueDate.Value()),
		DueTime:     strings.TrimSpace(f.dueTime.Value()),
	}
	if err := validateNewTask(out); err != nil {
		return model.NewTask{}, err
	}
	return out, nil
}

// validateNewTask applies the form's checks to input from any source.
func validateNewTask(in model.NewTask) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.DueDate != "" {
		if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
			return errBadDueDate
		}
	}
	if in.DueTime != "" {
		if _, err := time.Parse("15:04", in.DueTime); err != nil || len(in.DueTime) != 5 {
			return errBadDueTime
		}
	}
	return nil
}

// HandleOutcome is the submit callback's answer: reset on success, keep the
// input and show the reason on failure.
func (f *TaskForm) HandleOutcome(out CreateOutcome) {
	f.Submitting = false
	if out.Success {
		f.Reset()
		return
	}
	f.Err = out.Error
}

func (f *TaskForm) Next() { f.setFocus((f.focus + 1) % fieldCount) }
func (f *TaskForm) Prev() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

func (f TaskForm) OnLastField() bool { return f.focus == fieldCount-1 }

// Update forwards a key to the focused field.
func (f TaskForm) Update(msg tea.Msg) (TaskForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldCategory:
		f.category, cmd = f.category.Update(msg)
	case fieldStatus:
		f.status, cmd = f.status.Update(msg)
	case fieldDueDate:
		f.dueDate, cmd = f.dueDate.Update(msg)
	case fieldDueTime:
		f.dueTime, cmd = f.dueTime.Update(msg)
	}
	return f, cmd
}

func (f TaskForm) View() string {
	if !f.Active {
		return ""
	}
	hint := "[tab] next field  [ctrl+s] create  [esc] cancel"
	if f.Submitting {
		hint = "creating task..."
	}
	return views.RenderForm(views.FormData{
		Title: "New Task",
		Fields: []string{
			f.title.View(),
			f.description.View(),
			f.category.View(),
			f.status.View(),
			f.dueDate.View(),
			f.dueTime.View(),
		},
		Error: f.Err,
		Hint:  hint,
	})
}

func (f *TaskForm) setFocus(field formField) {
	f.blurAll()
	f.focus = field
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	case fieldCategory:
		f.category.Focus()
	case fieldStatus:
		f.status.Focus()
	case fieldDueDate:
		f.dueDate.Focus()
	case fieldDueTime:
		f.dueTime.Focus()
	}
}

func (f *TaskForm) blurAll() {
	f.title.Blur()
	f.description.Blur()
	f.category.Blur()
	f.status.Blur()
	f.dueDate.Blur()
	f.dueTime.Blur()
}
