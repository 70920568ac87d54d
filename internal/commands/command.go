package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskdash/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeRefresh  Type = "refresh"
	TypeLogin    Type = "login"
	TypeLogout   Type = "logout"
	TypeRegister Type = "register"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries a new task. Title words are free text; the other fields
// come from key:value tokens (due:, at:, cat:, status:, desc:).
type AddArgs struct {
	Task model.NewTask
}

type LoginArgs struct {
	Mail     string
	Password string
}

type RegisterArgs struct {
	FirstName string
	LastName  string
	Mail      string
	Password  string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Login    *LoginArgs
	Register *RegisterArgs
}

// Names lists the palette commands in help order.
func Names() []Type {
	return []Type{TypeAdd, TypeRefresh, TypeLogin, TypeRegister, TypeLogout}
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRefresh, "reload":
		return Command{Type: TypeRefresh, Raw: input}, nil
	case TypeLogin:
		return parseLogin(input, args)
	case TypeLogout:
		return Command{Type: TypeLogout, Raw: input}, nil
	case TypeRegister:
		return parseRegister(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var task model.NewTask
	title := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok || value == "" {
			title = append(title, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "due", "date":
			task.DueDate = value
		case "at", "time":
			task.DueTime = value
		case "cat", "category":
			task.Category = value
		case "desc":
			task.Description = strings.ReplaceAll(value, "_", " ")
		case "status":
			status, err := model.ParseStatus(strings.ReplaceAll(value, "_", " "))
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			task.Status = status
		default:
			title = append(title, arg)
		}
	}
	task.Title = strings.TrimSpace(strings.Join(title, " "))
	if task.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Task: task}}, nil
}

func parseLogin(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "login requires mail and password"}
	}
	return Command{Type: TypeLogin, Raw: raw, Login: &LoginArgs{Mail: args[0], Password: args[1]}}, nil
}

func parseRegister(raw string, args []string) (Command, error) {
	if len(args) != 4 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "register requires first name, last name, mail and password"}
	}
	return Command{Type: TypeRegister, Raw: raw, Register: &RegisterArgs{
		FirstName: args[0],
		LastName:  args[1],
		Mail:      args[2],
		Password:  args[3],
	}}, nil
}
