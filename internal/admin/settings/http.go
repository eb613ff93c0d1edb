// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/deptsite/internal/platform/middleware"
	requestutil "github.com/taibuivan/deptsite/internal/platform/request"
	"github.com/taibuivan/deptsite/internal/platform/respond"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// Handler exposes site settings over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a settings [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /settings. Only /public is anonymous.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/public", handler.public)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.formatted)
		r.Put("/", handler.save)
		r.Get("/{key}", handler.getSetting)
		r.Put("/{key}", handler.updateSetting)
	})

	return router
}

func (handler *Handler) public(writer http.ResponseWriter, request *http.Request) {
	values, err := handler.service.GetPublicSettings(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, values)
}

func (handler *Handler) formatted(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.service.GetFormattedSettings(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, data)
}

/*
PUT /api/v1/settings.

Request: the full Data object. Every key is written.

Response:
  - 200: Data as saved
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	var data Data
	if err := requestutil.DecodeJSON(request, &data); err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.SaveFormattedSettings(request.Context(), data)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, saved)
}

func (handler *Handler) getSetting(writer http.ResponseWriter, request *http.Request) {
	setting, err := handler.service.GetSetting(request.Context(), requestutil.Param(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, setting)
}

/*
PUT /api/v1/settings/{key}.

Request: {"value": <string | number | boolean | [string] | {string: string}>}
*/
func (handler *Handler) updateSetting(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Value Value `json:"value"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.UpdateSetting(request.Context(), requestutil.Param(request, "key"), body.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, setting)
}
