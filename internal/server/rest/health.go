package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *RESTServer) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	ts := s.now().UTC().Format(time.RFC3339)

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "DOWN", Timestamp: ts})
	}

	return c.JSON(http.StatusOK, healthResponse{Status: "OK", Timestamp: ts})
}
