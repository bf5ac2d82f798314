// Package services implements the account and todo operations on top of the
// repositories. Every todo operation is scoped to the owner passed in by the
// caller, which must come from an authenticated identity.
package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/opt"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/repomanager"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/todos"
	"github.com/ruchidavda1/todoapp/internal/server/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// titleRule mirrors the title tag on CreateTodoInput.
var titleRule = "required,max=" + strconv.Itoa(models.TitleMaxLength)

const dueDateDetail = "dueDate must be a date (YYYY-MM-DD)"

// ListQuery carries the raw list parameters; empty strings mean "not given".
type ListQuery struct {
	Page      string
	Limit     string
	Completed string
	Priority  string
	Search    string
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ListResult struct {
	Todos      []*models.Todo `json:"todos"`
	Pagination Pagination     `json:"pagination"`
}

type CreateTodoInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description *string         `json:"description"`
	Priority    models.Priority `json:"priority" validate:"omitempty,priority"`
	DueDate     string          `json:"dueDate" validate:"omitempty,date"`
}

// UpdateTodoInput is a partial update. For description and dueDate an
// explicit null or empty string clears the value.
type UpdateTodoInput struct {
	Title       opt.Field[string]          `json:"title"`
	Description opt.Field[string]          `json:"description"`
	Completed   opt.Field[bool]            `json:"completed"`
	Priority    opt.Field[models.Priority] `json:"priority"`
	DueDate     opt.Field[string]          `json:"dueDate"`
}

type TodoService struct {
	todos     todos.Repository
	validator *validation.Validator
	now       func() time.Time
	newID     func() string
}

func NewTodoService(m repomanager.RepositoryManager) *TodoService {
	return &TodoService{
		todos:     m.Todos(),
		validator: validation.New(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func positiveInt(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return n, true
}

func parseListQuery(ownerID string, q ListQuery) (todos.ListFilter, int, int, error) {
	var details []string

	page, ok := positiveInt(q.Page, DefaultPage)
	if !ok {
		details = append(details, "page must be a positive integer")
	}
	limit, ok := positiveInt(q.Limit, DefaultLimit)
	if !ok {
		details = append(details, "limit must be a positive integer")
	}
	limit = min(limit, MaxLimit)

	f := todos.ListFilter{OwnerID: ownerID, Search: q.Search}

	if q.Completed != "" {
		b, err := strconv.ParseBool(q.Completed)
		if err != nil {
			details = append(details, "completed must be true or false")
		} else {
			f.Completed = &b
		}
	}

	if q.Priority != "" {
		p := models.Priority(q.Priority)
		if !p.Valid() {
			details = append(details, "priority must be one of: low, medium, high")
		}
		f.Priority = p
	}

	if len(details) > 0 {
		return todos.ListFilter{}, 0, 0, common.NewValidationError(details...)
	}

	f.Limit = limit
	f.Offset = (page - 1) * limit

	return f, page, limit, nil
}

// List returns one page of the owner's todos, newest first. The total is the
// number of matches before paging.
func (s *TodoService) List(ctx context.Context, ownerID string, q ListQuery) (*ListResult, error) {
	f, page, limit, err := parseListQuery(ownerID, q)
	if err != nil {
		return nil, err
	}

	items, total, err := s.todos.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Todos: items,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// validID reports whether id could name a todo. Anything else is treated as
// absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *TodoService) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}
	return s.todos.FindByID(ctx, id, ownerID)
}

// Create stores a new todo owned by ownerID with defaults applied.
func (s *TodoService) Create(ctx context.Context, ownerID string, in CreateTodoInput) (*models.Todo, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	todo := &models.Todo{
		ID:        s.newID(),
		UserID:    ownerID,
		Title:     in.Title,
		Priority:  in.Priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil && *in.Description != "" {
		desc := *in.Description
		todo.Description = &desc
	}
	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}
	if in.DueDate != "" {
		d, err := models.ParseDate(in.DueDate)
		if err != nil {
			return nil, common.NewValidationError(dueDateDetail)
		}
		todo.DueDate = &d
	}

	return s.todos.Create(ctx, todo)
}

// Update applies the fields present in in to the owner's todo.
func (s *TodoService) Update(ctx context.Context, ownerID, id string, in UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(todo, in); err != nil {
		return nil, err
	}
	todo.UpdatedAt = s.now().UTC()

	return s.todos.Update(ctx, todo)
}

func (s *TodoService) apply(todo *models.Todo, in UpdateTodoInput) error {
	var details []string

	if in.Title.Set {
		var ve *common.ValidationError
		if in.Title.Null {
			details = append(details, "title is required")
		} else if err := s.validator.Var("title", in.Title.Value, titleRule); errors.As(err, &ve) {
			details = append(details, ve.Details...)
		} else if err != nil {
			return err
		} else {
			todo.Title = in.Title.Value
		}
	}

	if in.Description.Set {
		if v, ok := in.Description.Get(); ok && v != "" {
			todo.Description = &v
		} else {
			todo.Description = nil
		}
	}

	if in.Completed.Set {
		if in.Completed.Null {
			details = append(details, "completed must be true or false")
		} else {
			todo.Completed = in.Completed.Value
		}
	}

	if in.Priority.Set {
		if in.Priority.Null || !in.Priority.Value.Valid() {
			details = append(details, "priority must be one of: low, medium, high")
		} else {
			todo.Priority = in.Priority.Value
		}
	}

	if in.DueDate.Set {
		if v, ok := in.DueDate.Get(); ok && v != "" {
			d, err := models.ParseDate(v)
			if err != nil {
				details = append(details, dueDateDetail)
			} else {
				todo.DueDate = &d
			}
		} else {
			todo.DueDate = nil
		}
	}

	if len(details) > 0 {
		return common.NewValidationError(details...)
	}
	return nil
}

// Toggle flips completed. Two calls in a row restore the original state.
func (s *TodoService) Toggle(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}
	return s.todos.Toggle(ctx, id, ownerID, s.now().UTC())
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}
	return s.todos.Delete(ctx, id, ownerID)
}

// DeleteCompleted removes all of the owner's completed todos and returns
// the count, which may be zero.
func (s *TodoService) DeleteCompleted(ctx context.Context, ownerID string) (int64, error) {
	return s.todos.DeleteCompleted(ctx, ownerID)
}
