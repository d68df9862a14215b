package handlers

import (
	"net/http"

	"github.com/shashiranjanraj/lookup/pkg/response"
)

// HomeHandler answers every request with a fixed greeting.
type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"message": "Hello World!"})
}
