package api

import (
	"context"
	"net/http"

	"github.com/sandeepkv93/taskdash/internal/model"
)

const (
	msgFetchFailed  = "Failed to fetch tasks"
	msgCreateFailed = "Failed to create task"
)

// createPayload is the wire form of a new task. Nil pointers go out as null.
type createPayload struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Status      model.Status `json:"status,omitempty"`
	DueDate     *string      `json:"dueDate"`
	DueTime     any          `json:"dueTime"`
}

func (c *Client) GetAllTasks(ctx context.Context) Result[[]model.Task] {
	var tasks []model.Task
	if _, err := c.do(ctx, http.MethodGet, pathTasks, nil, &tasks); err != nil {
		c.logger.Info("fetch tasks failed", "err", err)
		return failResult[[]model.Task](reason(err, msgFetchFailed))
	}
	return okResult(tasks)
}

// CreateTask sends in to the backend and returns the task as the backend
// stored it, including its generated id.
func (c *Client) CreateTask(ctx context.Context, in model.NewTask) Result[model.Task] {
	payload := createPayload{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		DueTime:     ExpandDueTime(in.DueTime),
	}
	if in.DueDate != "" {
		date := in.DueDate
		payload.DueDate = &date
	}

	var created model.Task
	if _, err := c.do(ctx, http.MethodPost, pathTasks, payload, &created); err != nil {
		c.logger.Info("create task failed", "title", in.Title, "err", err)
		return failResult[model.Task](reason(err, msgCreateFailed))
	}
	return okResult(created)
}

// ExpandDueTime turns a bare "HH:MM" into "HH:MM:SS" for the backend. Empty
// input becomes nil (no due time); anything else is passed through.
func ExpandDueTime(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			return nil
		}
		if len(typed) == 5 {
			return typed + ":00"
		}
		return typed
	default:
		return typed
	}
}
