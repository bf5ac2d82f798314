// Package rest exposes the account and todo operations over HTTP using echo.
// All routes live under /api; todo and profile routes sit behind the bearer
// token gate.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ruchidavda1/todoapp/internal/logging"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/ruchidavda1/todoapp/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Users is the account capability required by the REST layer.
type Users interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, in services.ProfileInput) (*models.User, error)
}

// Todos is the todo capability required by the REST layer.
type Todos interface {
	List(ctx context.Context, ownerID string, q services.ListQuery) (*services.ListResult, error)
	Get(ctx context.Context, ownerID, id string) (*models.Todo, error)
	Create(ctx context.Context, ownerID string, in services.CreateTodoInput) (*models.Todo, error)
	Update(ctx context.Context, ownerID, id string, in services.UpdateTodoInput) (*models.Todo, error)
	Toggle(ctx context.Context, ownerID, id string) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
	DeleteCompleted(ctx context.Context, ownerID string) (int64, error)
}

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RESTServer struct {
	address string
	logger  logging.Logger
	users   Users
	todos   Todos
	store   Pinger
	echo    *echo.Echo
	now     func() time.Time
}

// NewRESTServer builds the router. Metrics are registered on reg and served
// from /metrics; requestTimeout bounds the work of each request when positive.
func NewRESTServer(address string, l logging.Logger, us Users, ts Todos, store Pinger, reg *prometheus.Registry, requestTimeout time.Duration) (*RESTServer, error) {
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	s := &RESTServer{
		address: address,
		logger:  l.With("module", "rest_server"),
		users:   us,
		todos:   ts,
		store:   store,
		now:     time.Now,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(metrics.Middleware())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogRoutePath:  true,
		LogStatus:     true,
		LogLatency:    true,
		LogRequestID:  true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: s.logRequest,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if requestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: requestTimeout,
			// Let storage timeouts reach handleError as RepositoryUnavailable.
			ErrorHandler: func(err error, _ echo.Context) error { return err },
		}))
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/health", s.health)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.signup)
	authGroup.POST("/login", s.login)
	authGroup.GET("/profile", s.getProfile, s.authenticate)
	authGroup.PUT("/profile", s.updateProfile, s.authenticate)

	todos := api.Group("/todos", s.authenticate)
	todos.GET("", s.listTodos)
	todos.POST("", s.createTodo)
	todos.DELETE("/completed/all", s.deleteCompletedTodos)
	todos.GET("/:id", s.getTodo)
	todos.PUT("/:id", s.updateTodo)
	todos.PATCH("/:id/toggle", s.toggleTodo)
	todos.DELETE("/:id", s.deleteTodo)

	s.echo = e
	return s, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *RESTServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "REST server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *RESTServer) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	args := []any{
		"method", v.Method,
		"uri", v.URI,
		"route", v.RoutePath,
		"status", v.Status,
		"latency", v.Latency,
		"request_id", v.RequestID,
	}
	if v.Error != nil {
		args = append(args, "error", v.Error.Error())
	}
	s.logger.Info(c.Request().Context(), "request", args...)
	return nil
}
