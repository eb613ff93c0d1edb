// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/pkg/sanitize"
)

// # Service Layer

// Service implements the publication record.
type Service struct {
	repo     Repository
	metadata MetadataSource
	activity activity.Recorder
	atomic   bool
	logger   *slog.Logger
}

// NewService constructs a research [Service].
//
// With atomic set, a paper and its join rows are written in one transaction.
// Without it, join failures during create are logged and the paper row is
// kept. metadata and recorder may be nil.
func NewService(repo Repository, metadata MetadataSource, recorder activity.Recorder, atomic bool, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		metadata: metadata,
		activity: recorder,
		atomic:   atomic,
		logger:   logger,
	}
}

func (service *Service) record(ctx context.Context, action, resourceType, id string, details map[string]any) {
	activity.Record(ctx, service.activity, service.logger, action, resourceType, id, details)
}

// # Papers

// GetResearchPapers lists papers with their journal, authors and categories.
func (service *Service) GetResearchPapers(ctx context.Context, filter PaperFilter) ([]*Paper, error) {
	papers, err := service.repo.ListPapers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := service.repo.LoadRelations(ctx, papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// GetResearchPaper returns one paper with its relations, or a not-found error.
func (service *Service) GetResearchPaper(ctx context.Context, id string) (*Paper, error) {
	paper, err := service.repo.FindPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.repo.LoadRelations(ctx, []*Paper{paper}); err != nil {
		return nil, err
	}
	return paper, nil
}

// CreateResearchPaper inserts a paper and its join rows, then returns it
// re-read with relations.
func (service *Service) CreateResearchPaper(ctx context.Context, input PaperInput) (*Paper, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input.Abstract = sanitize.RichTextPtr(input.Abstract)

	var id string
	var err error
	if service.atomic {
		err = service.repo.WithTx(ctx, func(tx Repository) error {
			var txErr error
			if id, txErr = tx.InsertPaper(ctx, input); txErr != nil {
				return txErr
			}
			if len(input.Authors) > 0 {
				if txErr = tx.ReplaceAuthors(ctx, id, input.Authors); txErr != nil {
					return txErr
				}
			}
			if len(input.CategoryIDs) > 0 {
				return tx.ReplaceCategories(ctx, id, input.CategoryIDs)
			}
			return nil
		})
	} else {
		id, err = service.createLoose(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "research_paper_created",
		slog.String("paper_id", id),
		slog.Int("authors", len(input.Authors)),
		slog.Int("categories", len(input.CategoryIDs)),
	)
	service.record(ctx, activity.ActionResearchCreated, activity.ResourceResearchPaper, id,
		map[string]any{"title": input.Title, "status": input.Status})

	return service.GetResearchPaper(ctx, id)
}

// createLoose writes the paper row first and keeps it even when a join
// insert fails afterwards.
func (service *Service) createLoose(ctx context.Context, input PaperInput) (string, error) {
	id, err := service.repo.InsertPaper(ctx, input)
	if err != nil {
		return "", err
	}

	if len(input.Authors) > 0 {
		if err := service.repo.ReplaceAuthors(ctx, id, input.Authors); err != nil {
			service.logger.WarnContext(ctx, "research_paper_authors_failed",
				slog.String("paper_id", id),
				slog.Any("error", err),
			)
		}
	}
	if len(input.CategoryIDs) > 0 {
		if err := service.repo.ReplaceCategories(ctx, id, input.CategoryIDs); err != nil {
			service.logger.WarnContext(ctx, "research_paper_categories_failed",
				slog.String("paper_id", id),
				slog.Any("error", err),
			)
		}
	}
	return id, nil
}

// UpdateResearchPaper applies a patch.
//
// A nil Authors or CategoryIDs leaves those joins alone. A non-nil slice,
// empty included, replaces every join row of that kind.
func (service *Service) UpdateResearchPaper(ctx context.Context, id string, p PaperPatch) (*Paper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Abstract.Set && !p.Abstract.Null {
		p.Abstract.Value = sanitize.RichText(p.Abstract.Value)
	}

	write := func(repo Repository) error {
		if p.HasColumns() {
			if err := repo.UpdatePaper(ctx, id, p); err != nil {
				return err
			}
		} else if _, err := repo.FindPaper(ctx, id); err != nil {
			return err
		}

		if p.Authors != nil {
			if err := repo.ReplaceAuthors(ctx, id, p.Authors); err != nil {
				return err
			}
		}
		if p.CategoryIDs != nil {
			return repo.ReplaceCategories(ctx, id, p.CategoryIDs)
		}
		return nil
	}

	var err error
	if service.atomic {
		err = service.repo.WithTx(ctx, write)
	} else {
		err = write(service.repo)
	}
	if err != nil {
		return nil, err
	}

	paper, err := service.GetResearchPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "research_paper_updated", slog.String("paper_id", id))
	service.record(ctx, activity.ActionResearchUpdated, activity.ResourceResearchPaper, id,
		map[string]any{"title": paper.Title})

	return paper, nil
}

// DeleteResearchPaper hard-deletes a paper. Join rows go with it.
func (service *Service) DeleteResearchPaper(ctx context.Context, id string) error {
	deleted, err := service.repo.DeletePaper(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Research paper")
	}

	service.logger.InfoContext(ctx, "research_paper_deleted", slog.String("paper_id", id))
	service.record(ctx, activity.ActionResearchDeleted, activity.ResourceResearchPaper, id, nil)
	return nil
}

// GetResearchStats runs the aggregate counts concurrently and combines them.
func (service *Service) GetResearchStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		stats.TotalPapers, err = service.repo.CountPapers(groupCtx, "")
		return err
	})
	group.Go(func() (err error) {
		stats.PublishedPapers, err = service.repo.CountPapers(groupCtx, PaperPublished)
		return err
	})
	group.Go(func() (err error) {
		stats.InReviewPapers, err = service.repo.CountPapers(groupCtx, PaperInReview)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalAuthors, err = service.repo.CountAuthors(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalJournals, err = service.repo.CountJournals(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalCitations, err = service.repo.SumCitations(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.PapersByYear, err = service.repo.PublishedByYear(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		stats.PapersByTopic, err = service.repo.PapersByCategory(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// LookupDOI prefills a paper from DOI metadata. It returns nil when the
// lookup fails for any reason.
func (service *Service) LookupDOI(ctx context.Context, doi string) *PaperInput {
	if service.metadata == nil {
		return nil
	}

	input, err := service.metadata.Lookup(ctx, doi)
	if err != nil {
		service.logger.WarnContext(ctx, "doi_lookup_failed",
			slog.String("doi", doi),
			slog.Any("error", err),
		)
		return nil
	}
	return input
}

// # Authors

func (service *Service) GetAuthors(ctx context.Context, filter LookupFilter) ([]*Author, error) {
	return service.repo.ListAuthors(ctx, filter)
}

func (service *Service) GetAuthor(ctx context.Context, id string) (*Author, error) {
	return service.repo.FindAuthor(ctx, id)
}

// SearchAuthors is the typeahead lookup: active authors only, by name.
func (service *Service) SearchAuthors(ctx context.Context, query string) ([]*Author, error) {
	return service.repo.SearchAuthors(ctx, query, constants.TypeaheadLimit)
}

func (service *Service) CreateAuthor(ctx context.Context, input AuthorInput) (*Author, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	author, err := service.repo.CreateAuthor(ctx, input)
	if err != nil {
		return nil, err
	}
	service.record(ctx, activity.ActionResearchCreated, activity.ResourceAuthor, author.ID,
		map[string]any{"name": author.Name})
	return author, nil
}

// UpdateAuthor replaces every field of an author.
func (service *Service) UpdateAuthor(ctx context.Context, id string, input AuthorInput) (*Author, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	author, err := service.repo.UpdateAuthor(ctx, id, input)
	if err != nil {
		return nil, err
	}
	service.record(ctx, activity.ActionResearchUpdated, activity.ResourceAuthor, id,
		map[string]any{"name": author.Name})
	return author, nil
}

func (service *Service) DeleteAuthor(ctx context.Context, id string) error {
	deleted, err := service.repo.DeleteAuthor(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Author")
	}
	service.record(ctx, activity.ActionResearchDeleted, activity.ResourceAuthor, id, nil)
	return nil
}

// # Journals

func (service *Service) GetJournals(ctx context.Context, filter LookupFilter) ([]*Journal, error) {
	return service.repo.ListJournals(ctx, filter)
}

func (service *Service) GetJournal(ctx context.Context, id string) (*Journal, error) {
	return service.repo.FindJournal(ctx, id)
}

// SearchJournals is the typeahead lookup: active journals only, highest
// impact factor first.
func (service *Service) SearchJournals(ctx context.Context, query string) ([]*Journal, error) {
	return service.repo.SearchJournals(ctx, query, constants.TypeaheadLimit)
}

func (service *Service) CreateJournal(ctx context.Context, input JournalInput) (*Journal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	journal, err := service.repo.CreateJournal(ctx, input)
	if err != nil {
		return nil, err
	}
	service.record(ctx, activity.ActionResearchCreated, activity.ResourceJournal, journal.ID,
		map[string]any{"name": journal.Name})
	return journal, nil
}

func (service *Service) UpdateJournal(ctx context.Context, id string, input JournalInput) (*Journal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	journal, err := service.repo.UpdateJournal(ctx, id, input)
	if err != nil {
		return nil, err
	}
	service.record(ctx, activity.ActionResearchUpdated, activity.ResourceJournal, id,
		map[string]any{"name": journal.Name})
	return journal, nil
}

func (service *Service) DeleteJournal(ctx context.Context, id string) error {
	deleted, err := service.repo.DeleteJournal(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Journal")
	}
	service.record(ctx, activity.ActionResearchDeleted, activity.ResourceJournal, id, nil)
	return nil
}

// # Research categories

// GetResearchCategories lists categories, optionally only those with status.
func (service *Service) GetResearchCategories(ctx context.Context, status string) ([]*Category, error) {
	return service.repo.ListCategories(ctx, status)
}

func (service *Service) CreateResearchCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	c, err := service.repo.CreateCategory(ctx, input)
	if err != nil {
		return nil, err
	}
	service.record(ctx, activity.ActionResearchCreated, activity.ResourceResearchCategory, c.ID,
		map[string]any{"name": c.Name})
	return c, nil
}

func (service *Service) UpdateResearchCategory(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	c, err := service.repo.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, err
	}
	service.record(ctx, activity.ActionResearchUpdated, activity.ResourceResearchCategory, id,
		map[string]any{"name": c.Name})
	return c, nil
}

func (service *Service) DeleteResearchCategory(ctx context.Context, id string) error {
	deleted, err := service.repo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Research category")
	}
	service.record(ctx, activity.ActionResearchDeleted, activity.ResourceResearchCategory, id, nil)
	return nil
}
