package rest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/server/models"
	"github.com/ruchidavda1/todoapp/internal/server/services"
)

const userKey = "user"

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate is the gate in front of every profile and todo route. The
// resolved user is the only trusted identity downstream.
func (s *RESTServer) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return common.ErrUnauthenticated
		}

		user, err := s.users.Authenticate(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(userKey, user)
		return next(c)
	}
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func (s *RESTServer) signup(c echo.Context) error {
	var in services.SignupInput
	if err := decode(c, &in); err != nil {
		return err
	}

	res, err := s.users.Signup(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Message: "User created successfully", Token: res.Token, User: res.User})
}

func (s *RESTServer) login(c echo.Context) error {
	var in services.LoginInput
	if err := decode(c, &in); err != nil {
		return err
	}

	res, err := s.users.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Message: "Login successful", Token: res.Token, User: res.User})
}

func (s *RESTServer) getProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse{User: currentUser(c)})
}

func (s *RESTServer) updateProfile(c echo.Context) error {
	var in services.ProfileInput
	if err := decode(c, &in); err != nil {
		return err
	}

	user, err := s.users.UpdateProfile(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{Message: "Profile updated successfully", User: user})
}
