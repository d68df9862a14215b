// Package handlers turns routed requests into service calls and JSON
// responses. Handlers are plain http.Handler values and hold no mutable
// state.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/lookup/app/models"
	"github.com/shashiranjanraj/lookup/app/services"
	"github.com/shashiranjanraj/lookup/pkg/logger"
	"github.com/shashiranjanraj/lookup/pkg/response"
	"github.com/shashiranjanraj/lookup/pkg/router"
)

// ScreenNameParam is the placeholder the user route binds.
const ScreenNameParam = "screen_name"

// UserFinder is the lookup capability UserHandler needs.
type UserFinder interface {
	GetUser(ctx context.Context, screenName string) (models.User, error)
}

// UserHandler serves GET /users/{screen_name}.
type UserHandler struct {
	users UserFinder
}

func NewUserHandler(users UserFinder) *UserHandler {
	return &UserHandler{users: users}
}

type userBody struct {
	User models.User `json:"user"`
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	screenName := router.Param(r, ScreenNameParam)

	user, err := h.users.GetUser(r.Context(), screenName)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case err != nil:
		logger.WithCtx(r.Context()).Error("user lookup failed",
			"screen_name", screenName,
			"error", err,
		)
		response.InternalError(w)
	default:
		response.OK(w, userBody{User: user})
	}
}
