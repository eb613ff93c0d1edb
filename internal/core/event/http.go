// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/middleware"
	requestutil "github.com/taibuivan/deptsite/internal/platform/request"
	"github.com/taibuivan/deptsite/internal/platform/respond"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// Handler exposes the event calendar over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs an event [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /events.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listEvents)
	router.Get("/upcoming", handler.listUpcoming)
	router.Get("/featured", handler.listFeatured)
	router.Get("/by-type/{type}", handler.listByType)
	router.Get("/stream", handler.stream)
	router.Get("/{id}", handler.getEvent)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleEditor))
		r.Post("/", handler.createEvent)
		r.Patch("/{id}", handler.updateEvent)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Delete("/{id}", handler.deleteEvent)
	})

	return router
}

// # Reads

/*
GET /api/v1/events.

Request:
  - status, type, category_id: string
  - featured, upcoming: bool
  - limit: int

Anonymous callers only ever see published events; status is honoured for
editors and above.

Response:
  - 200: []Event ordered by date
*/
func (handler *Handler) listEvents(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !ctxutil.HasRole(request.Context(), sec.RoleEditor) {
		filter.Status = StatusPublished
	}

	events, err := handler.service.GetEvents(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

func parseFilter(request *http.Request) (Filter, error) {
	filter := Filter{
		Status:     Status(requestutil.Query(request, "status")),
		Type:       Type(requestutil.Query(request, "type")),
		CategoryID: requestutil.Query(request, "category_id"),
	}

	featured, err := requestutil.QueryBool(request, "featured")
	if err != nil {
		return filter, err
	}
	filter.Featured = featured

	upcoming, err := requestutil.QueryBool(request, "upcoming")
	if err != nil {
		return filter, err
	}
	filter.Upcoming = upcoming != nil && *upcoming

	filter.Limit, err = requestutil.QueryInt(request, "limit", 0)
	return filter, err
}

func (handler *Handler) listUpcoming(writer http.ResponseWriter, request *http.Request) {
	limit, err := requestutil.QueryInt(request, "limit", 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	events, err := handler.service.GetUpcomingEvents(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

func (handler *Handler) listFeatured(writer http.ResponseWriter, request *http.Request) {
	limit, err := requestutil.QueryInt(request, "limit", 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	events, err := handler.service.GetFeaturedEvents(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

func (handler *Handler) listByType(writer http.ResponseWriter, request *http.Request) {
	eventType := Type(requestutil.Param(request, "type"))
	if !eventType.Valid() {
		respond.Error(writer, request, apperr.ValidationError("Invalid event type",
			apperr.FieldError{Field: FieldType, Message: "Unknown event type"}))
		return
	}

	limit, err := requestutil.QueryInt(request, "limit", 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	events, err := handler.service.GetEventsByType(request.Context(), eventType, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

func (handler *Handler) getEvent(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	e, err := handler.service.GetEvent(ctx, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Unpublished rows do not exist as far as the public is concerned.
	if e.Status != StatusPublished && !ctxutil.HasRole(ctx, sec.RoleEditor) {
		respond.Error(writer, request, apperr.NotFound("Event"))
		return
	}
	respond.OK(writer, e)
}

/*
GET /api/v1/events/stream.

Server-Sent Events. Sends the published calendar once on connect, then again
after every change, as "event: events" frames.
*/
func (handler *Handler) stream(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)
	controller := http.NewResponseController(writer)

	// The global write timeout does not apply to a long-lived stream.
	_ = controller.SetWriteDeadline(time.Time{})

	initial, err := handler.service.GetEvents(ctx, Filter{Status: StatusPublished})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/event-stream")
	writer.Header().Set("Cache-Control", "no-cache")
	writer.Header().Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)

	send := func(events []*Event) {
		payload, err := json.Marshal(events)
		if err != nil {
			logger.WarnContext(ctx, "event_stream_encode_failed", slog.Any("error", err))
			return
		}
		if _, err := fmt.Fprintf(writer, "event: events\ndata: %s\n\n", payload); err != nil {
			return
		}
		_ = controller.Flush()
	}

	send(initial)

	if err := handler.service.SubscribeToEvents(ctx, send); err != nil {
		logger.WarnContext(ctx, "event_stream_closed", slog.Any("error", err))
	}
}

// # Writes

/*
POST /api/v1/events.

Response:
  - 201: Event
  - 400: invalid payload
*/
func (handler *Handler) createEvent(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	e, err := handler.service.CreateEvent(request.Context(), input, ctxutil.ActorID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, e)
}

func (handler *Handler) updateEvent(writer http.ResponseWriter, request *http.Request) {
	var p Patch
	if err := requestutil.DecodeJSON(request, &p); err != nil {
		respond.Error(writer, request, err)
		return
	}

	e, err := handler.service.UpdateEvent(request.Context(), requestutil.Param(request, "id"), p)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, e)
}

func (handler *Handler) deleteEvent(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteEvent(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
