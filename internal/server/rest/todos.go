package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/ruchidavda1/todoapp/internal/server/services"
)

type todoResponse struct {
	Message string       `json:"message,omitempty"`
	Todo    *models.Todo `json:"todo"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type deleteCompletedResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// decode reads a JSON request body into v. An empty body leaves v untouched.
func decode(c echo.Context, v any) error {
	err := c.Echo().JSONSerializer.Deserialize(c, v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return common.NewValidationError("request body must be valid JSON")
}

func (s *RESTServer) listTodos(c echo.Context) error {
	res, err := s.todos.List(c.Request().Context(), currentUser(c).ID, services.ListQuery{
		Page:      c.QueryParam("page"),
		Limit:     c.QueryParam("limit"),
		Completed: c.QueryParam("completed"),
		Priority:  c.QueryParam("priority"),
		Search:    c.QueryParam("search"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

func (s *RESTServer) getTodo(c echo.Context) error {
	todo, err := s.todos.Get(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todoResponse{Todo: todo})
}

func (s *RESTServer) createTodo(c echo.Context) error {
	var in services.CreateTodoInput
	if err := decode(c, &in); err != nil {
		return err
	}

	todo, err := s.todos.Create(c.Request().Context(), currentUser(c).ID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, todoResponse{Message: "Todo created successfully", Todo: todo})
}

func (s *RESTServer) updateTodo(c echo.Context) error {
	var in services.UpdateTodoInput
	if err := decode(c, &in); err != nil {
		return err
	}

	todo, err := s.todos.Update(c.Request().Context(), currentUser(c).ID, c.Param("id"), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todoResponse{Message: "Todo updated successfully", Todo: todo})
}

func (s *RESTServer) toggleTodo(c echo.Context) error {
	todo, err := s.todos.Toggle(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todoResponse{Message: "Todo status updated successfully", Todo: todo})
}

func (s *RESTServer) deleteTodo(c echo.Context) error {
	if err := s.todos.Delete(c.Request().Context(), currentUser(c).ID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}

func (s *RESTServer) deleteCompletedTodos(c echo.Context) error {
	n, err := s.todos.DeleteCompleted(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteCompletedResponse{
		Message:      fmt.Sprintf("%d completed todos deleted successfully", n),
		DeletedCount: n,
	})
}
