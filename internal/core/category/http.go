// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/middleware"
	requestutil "github.com/taibuivan/deptsite/internal/platform/request"
	"github.com/taibuivan/deptsite/internal/platform/respond"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

var errCategoryWrite = errors.New("category write failed")

// Handler exposes categories over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /categories.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listActive)
	router.Get("/with-counts", handler.listWithCounts)
	router.Get("/slug-available", handler.slugAvailable)
	router.Get("/by-slug/{slug}", handler.getBySlug)
	router.Get("/{id}", handler.getByID)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleEditor))
		r.Get("/all", handler.listAll)
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Put("/order", handler.reorder)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Delete("/{id}", handler.delete)
	})

	return router
}

// # Reads

func (handler *Handler) listActive(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.GetActiveCategories(request.Context()))
}

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.GetAllCategories(request.Context()))
}

func (handler *Handler) listWithCounts(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.GetCategoriesWithEventCounts(request.Context()))
}

func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	c := handler.service.GetCategoryByID(request.Context(), requestutil.Param(request, "id"))
	if c == nil {
		respond.Error(writer, request, apperr.NotFound("Category"))
		return
	}
	respond.OK(writer, c)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	c := handler.service.GetCategoryBySlug(request.Context(), requestutil.Param(request, "slug"))
	if c == nil {
		respond.Error(writer, request, apperr.NotFound("Category"))
		return
	}
	respond.OK(writer, c)
}

/*
GET /api/v1/categories/slug-available?slug=workshops&exclude_id=...

Response:
  - 200: {"available": bool}
*/
func (handler *Handler) slugAvailable(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Query(request, "slug")
	if slug == "" {
		respond.Error(writer, request, apperr.ValidationError("Invalid query parameter",
			apperr.FieldError{Field: FieldSlug, Message: "Required"}))
		return
	}

	available := handler.service.IsSlugAvailable(request.Context(), slug, requestutil.Query(request, "exclude_id"))
	respond.OK(writer, map[string]bool{"available": available})
}

// # Writes

/*
POST /api/v1/categories.

Response:
  - 201: Category
  - 400: invalid payload
  - 409: slug already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !handler.service.IsSlugAvailable(request.Context(), input.Slug, "") {
		respond.Error(writer, request, apperr.Conflict("Category slug is already in use"))
		return
	}

	c := handler.service.CreateCategory(request.Context(), input)
	if c == nil {
		respond.Error(writer, request, apperr.Internal(errCategoryWrite))
		return
	}
	respond.Created(writer, c)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var p Patch
	if err := requestutil.DecodeJSON(request, &p); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := p.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if p.Slug != nil && !handler.service.IsSlugAvailable(request.Context(), *p.Slug, id) {
		respond.Error(writer, request, apperr.Conflict("Category slug is already in use"))
		return
	}

	c := handler.service.UpdateCategory(request.Context(), id, p)
	if c == nil {
		respond.Error(writer, request, apperr.NotFound("Category"))
		return
	}
	respond.OK(writer, c)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if !handler.service.DeleteCategory(request.Context(), requestutil.Param(request, "id")) {
		respond.Error(writer, request, apperr.NotFound("Category"))
		return
	}
	respond.NoContent(writer)
}

/*
PUT /api/v1/categories/order.

Request:
  - ids: []string, in display order

Response:
  - 204
*/
func (handler *Handler) reorder(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !handler.service.ReorderCategories(request.Context(), body.IDs) {
		respond.Error(writer, request, apperr.Internal(errCategoryWrite))
		return
	}
	respond.NoContent(writer)
}
