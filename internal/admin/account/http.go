// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/deptsite/internal/platform/middleware"
	requestutil "github.com/taibuivan/deptsite/internal/platform/request"
	"github.com/taibuivan/deptsite/internal/platform/respond"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// Handler serves the admin sign-in endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /auth.
//
// # Endpoints
//   - POST /login : exchanges email and password for an access token.
//   - GET  /me    : returns the signed-in admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.With(middleware.RequireRole(sec.RoleEditor)).Get("/me", handler.me)

	return router
}

/*
POST /api/v1/auth/login.

Request:
  - email, password: string

Response:
  - 200: Session
  - 401: unknown email, wrong password or disabled account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Me(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
