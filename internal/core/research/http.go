// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/middleware"
	requestutil "github.com/taibuivan/deptsite/internal/platform/request"
	"github.com/taibuivan/deptsite/internal/platform/respond"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// Handler exposes the publication record over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a research [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /research.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/papers", handler.listPapers)
	router.Get("/papers/{id}", handler.getPaper)
	router.Get("/stats", handler.stats)
	router.Get("/authors/search", handler.searchAuthors)
	router.Get("/journals/search", handler.searchJournals)
	router.Get("/categories", handler.listCategories)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleEditor))

		r.Post("/papers", handler.createPaper)
		r.Patch("/papers/{id}", handler.updatePaper)

		r.Get("/authors", handler.listAuthors)
		r.Get("/authors/{id}", handler.getAuthor)
		r.Post("/authors", handler.createAuthor)
		r.Put("/authors/{id}", handler.updateAuthor)

		r.Get("/journals", handler.listJournals)
		r.Get("/journals/{id}", handler.getJournal)
		r.Post("/journals", handler.createJournal)
		r.Put("/journals/{id}", handler.updateJournal)

		r.Post("/categories", handler.createCategory)
		r.Put("/categories/{id}", handler.updateCategory)

		r.Get("/doi/*", handler.lookupDOI)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Delete("/papers/{id}", handler.deletePaper)
		r.Delete("/authors/{id}", handler.deleteAuthor)
		r.Delete("/journals/{id}", handler.deleteJournal)
		r.Delete("/categories/{id}", handler.deleteCategory)
	})

	return router
}

// # Papers

/*
GET /api/v1/research/papers.

Request:
  - status, journal_id, q: string
  - featured: bool
  - year_from, year_to, limit, offset: int

Anonymous callers only ever see published papers.

Response:
  - 200: []Paper, newest publication first
*/
func (handler *Handler) listPapers(writer http.ResponseWriter, request *http.Request) {
	filter, err := parsePaperFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !ctxutil.HasRole(request.Context(), sec.RoleEditor) {
		filter.Status = PaperPublished
	}

	papers, err := handler.service.GetResearchPapers(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, papers)
}

func parsePaperFilter(request *http.Request) (PaperFilter, error) {
	filter := PaperFilter{
		Status:    requestutil.Query(request, "status"),
		JournalID: requestutil.Query(request, "journal_id"),
		Search:    requestutil.Query(request, "q"),
	}

	var err error
	if filter.IsFeatured, err = requestutil.QueryBool(request, "featured"); err != nil {
		return filter, err
	}
	if filter.YearFrom, err = requestutil.QueryInt(request, "year_from", 0); err != nil {
		return filter, err
	}
	if filter.YearTo, err = requestutil.QueryInt(request, "year_to", 0); err != nil {
		return filter, err
	}
	if filter.Limit, err = requestutil.QueryInt(request, "limit", 0); err != nil {
		return filter, err
	}
	filter.Offset, err = requestutil.QueryInt(request, "offset", 0)
	return filter, err
}

func (handler *Handler) getPaper(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	paper, err := handler.service.GetResearchPaper(ctx, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if paper.Status != PaperPublished && !ctxutil.HasRole(ctx, sec.RoleEditor) {
		respond.Error(writer, request, apperr.NotFound("Research paper"))
		return
	}
	respond.OK(writer, paper)
}

func (handler *Handler) createPaper(writer http.ResponseWriter, request *http.Request) {
	var input PaperInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	paper, err := handler.service.CreateResearchPaper(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, paper)
}

/*
PATCH /api/v1/research/papers/{id}.

Omitted fields are untouched. "authors": [] removes every author link;
omitting "authors" keeps them. The same holds for "category_ids".
*/
func (handler *Handler) updatePaper(writer http.ResponseWriter, request *http.Request) {
	var p PaperPatch
	if err := requestutil.DecodeJSON(request, &p); err != nil {
		respond.Error(writer, request, err)
		return
	}

	paper, err := handler.service.UpdateResearchPaper(request.Context(), requestutil.Param(request, "id"), p)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, paper)
}

func (handler *Handler) deletePaper(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteResearchPaper(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.GetResearchStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

/*
GET /api/v1/research/doi/{doi}.

The DOI keeps its slashes, e.g. /research/doi/10.1145/3290605.3300857.

Response:
  - 200: PaperInput prefilled from CrossRef
  - 404: lookup failed
*/
func (handler *Handler) lookupDOI(writer http.ResponseWriter, request *http.Request) {
	doi := chi.URLParam(request, "*")
	if doi == "" {
		respond.Error(writer, request, apperr.ValidationError("DOI is required"))
		return
	}

	input := handler.service.LookupDOI(request.Context(), doi)
	if input == nil {
		respond.Error(writer, request, apperr.NotFound("DOI metadata"))
		return
	}
	respond.OK(writer, input)
}

// # Authors

func lookupFilter(request *http.Request) LookupFilter {
	return LookupFilter{
		Search: requestutil.Query(request, "q"),
		Status: requestutil.Query(request, "status"),
	}
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	authors, err := handler.service.GetAuthors(request.Context(), lookupFilter(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, authors)
}

func (handler *Handler) searchAuthors(writer http.ResponseWriter, request *http.Request) {
	authors, err := handler.service.SearchAuthors(request.Context(), requestutil.Query(request, "q"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, authors)
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	author, err := handler.service.GetAuthor(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input AuthorInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.CreateAuthor(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	var input AuthorInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.UpdateAuthor(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteAuthor(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Journals

func (handler *Handler) listJournals(writer http.ResponseWriter, request *http.Request) {
	journals, err := handler.service.GetJournals(request.Context(), lookupFilter(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, journals)
}

func (handler *Handler) searchJournals(writer http.ResponseWriter, request *http.Request) {
	journals, err := handler.service.SearchJournals(request.Context(), requestutil.Query(request, "q"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, journals)
}

func (handler *Handler) getJournal(writer http.ResponseWriter, request *http.Request) {
	journal, err := handler.service.GetJournal(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, journal)
}

func (handler *Handler) createJournal(writer http.ResponseWriter, request *http.Request) {
	var input JournalInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	journal, err := handler.service.CreateJournal(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, journal)
}

func (handler *Handler) updateJournal(writer http.ResponseWriter, request *http.Request) {
	var input JournalInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	journal, err := handler.service.UpdateJournal(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, journal)
}

func (handler *Handler) deleteJournal(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteJournal(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Research categories

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.GetResearchCategories(request.Context(), requestutil.Query(request, "status"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CategoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.CreateResearchCategory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, c)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var input CategoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.UpdateResearchCategory(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, c)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteResearchCategory(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
