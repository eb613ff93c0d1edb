// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/deptsite/internal/platform/middleware"
	requestutil "github.com/taibuivan/deptsite/internal/platform/request"
	"github.com/taibuivan/deptsite/internal/platform/respond"
	"github.com/taibuivan/deptsite/internal/platform/sec"
	"github.com/taibuivan/deptsite/pkg/pagination"
)

// Handler serves the audit log to admins.
type Handler struct {
	service *Service
}

// NewHandler constructs an activity [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /activity. Every route requires the admin role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.listLogs)
	router.Get("/stats", handler.stats)
	router.Delete("/", handler.cleanup)

	return router
}

/*
GET /api/v1/activity.

Request:
  - action: string
  - resource_type: string
  - limit, offset (or page): int

Response:
  - 200: []Log with pagination meta (total honours the filters)
*/
func (handler *Handler) listLogs(writer http.ResponseWriter, request *http.Request) {
	window := pagination.FromRequest(request)

	page, err := handler.service.GetActivityLogs(request.Context(), Filter{
		Action:       requestutil.Query(request, "action"),
		ResourceType: requestutil.Query(request, "resource_type"),
		Limit:        window.Limit,
		Offset:       window.Offset,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Data, pagination.NewMeta(window, page.Count))
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.GetActivityStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

/*
DELETE /api/v1/activity?older_than_days=90.

Response:
  - 200: {"deleted": n}
*/
func (handler *Handler) cleanup(writer http.ResponseWriter, request *http.Request) {
	days, err := requestutil.QueryInt(request, "older_than_days", 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.service.CleanupOldLogs(request.Context(), days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{"deleted": deleted})
}
