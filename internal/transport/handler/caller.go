package handler

import (
	"net/http"

	"github.com/chronetask/backend/internal/transport/middleware"
	"github.com/chronetask/backend/internal/usecase/service"
)

// callerFrom достает идентичность вызывающего, положенную Auth middleware.
// Отсутствие идентичности означает неправильно собранный роутер
func callerFrom(w http.ResponseWriter, r *http.Request) (service.Caller, bool) {
	identity, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{
				Code:    "UNAUTHORIZED",
				Message: "missing caller identity",
			},
		})
		return service.Caller{}, false
	}
	return service.Caller{
		Id:   identity.UserId,
		Name: identity.Name,
	}, true
}
