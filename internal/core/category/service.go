// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
)

// # Service Layer

// Service exposes category operations to the site and the admin panel.
//
// # Error policy
//
// Every method fails soft. Storage errors are logged and turned into a
// sentinel (nil, false or an empty slice), so callers cannot tell "absent"
// from "query failed". Methods therefore have no error result.
type Service struct {
	repo     Repository
	activity activity.Recorder
	logger   *slog.Logger
}

// NewService constructs a category [Service]. recorder may be nil.
func NewService(repo Repository, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activity: recorder, logger: logger}
}

func (service *Service) fail(ctx context.Context, op string, err error, attrs ...any) {
	service.logger.ErrorContext(ctx, "category_query_failed",
		append([]any{slog.String("op", op), slog.Any("error", err)}, attrs...)...)
}

// # Reads

// GetActiveCategories returns active categories ordered by sort_order.
func (service *Service) GetActiveCategories(ctx context.Context) []*Category {
	categories, err := service.repo.List(ctx, true)
	if err != nil {
		service.fail(ctx, "get_active_categories", err)
		return []*Category{}
	}
	return categories
}

// GetAllCategories returns every category, active or not, for admin listings.
func (service *Service) GetAllCategories(ctx context.Context) []*Category {
	categories, err := service.repo.List(ctx, false)
	if err != nil {
		service.fail(ctx, "get_all_categories", err)
		return []*Category{}
	}
	return categories
}

// GetCategoryByID returns the category or nil.
func (service *Service) GetCategoryByID(ctx context.Context, id string) *Category {
	c, err := service.repo.FindByID(ctx, id)
	if err != nil {
		service.fail(ctx, "get_category_by_id", err, slog.String("category_id", id))
		return nil
	}
	return c
}

// GetCategoryBySlug returns the category or nil.
func (service *Service) GetCategoryBySlug(ctx context.Context, slug string) *Category {
	c, err := service.repo.FindBySlug(ctx, slug)
	if err != nil {
		service.fail(ctx, "get_category_by_slug", err, slog.String("slug", slug))
		return nil
	}
	return c
}

// GetCategoriesWithEventCounts returns active categories with their event totals.
func (service *Service) GetCategoriesWithEventCounts(ctx context.Context) []*WithCount {
	result, err := service.repo.ListWithEventCounts(ctx)
	if err != nil {
		service.fail(ctx, "get_categories_with_event_counts", err)
		return []*WithCount{}
	}
	return result
}

// IsSlugAvailable reports whether no other category owns slug.
//
// The check is not atomic with a following create; the unique index on
// categories.slug is what finally rejects a duplicate. A failed lookup
// reports the slug as taken.
func (service *Service) IsSlugAvailable(ctx context.Context, slug, excludeID string) bool {
	exists, err := service.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		service.fail(ctx, "is_slug_available", err, slog.String("slug", slug))
		return false
	}
	return !exists
}

// FindByIDs loads categories for event hydration.
// Unlike the rest of the service it returns the error, so the event layer
// can apply its own policy.
func (service *Service) FindByIDs(ctx context.Context, ids []string) (map[string]*Category, error) {
	return service.repo.FindByIDs(ctx, ids)
}

// # Writes

// CreateCategory inserts a category and returns it, or nil on any failure.
func (service *Service) CreateCategory(ctx context.Context, input Input) *Category {
	input.Normalize()
	if err := input.Validate(); err != nil {
		service.fail(ctx, "create_category", err, slog.String("name", input.Name))
		return nil
	}

	c, err := service.repo.Create(ctx, input, ctxutil.ActorID(ctx))
	if err != nil {
		service.fail(ctx, "create_category", err, slog.String("slug", input.Slug))
		return nil
	}

	service.logger.InfoContext(ctx, "category_created",
		slog.String("category_id", c.ID),
		slog.String("slug", c.Slug),
	)

	activity.Record(ctx, service.activity, service.logger, activity.ActionCategoryCreated,
		activity.ResourceCategory, c.ID, map[string]any{"name": c.Name, "slug": c.Slug})

	return c
}

// UpdateCategory applies a sparse patch. Omitted fields keep their stored
// values. An empty patch writes nothing and returns the current row.
func (service *Service) UpdateCategory(ctx context.Context, id string, p Patch) *Category {
	if p.Empty() {
		return service.GetCategoryByID(ctx, id)
	}

	if err := p.Validate(); err != nil {
		service.fail(ctx, "update_category", err, slog.String("category_id", id))
		return nil
	}

	c, err := service.repo.Update(ctx, id, p)
	if err != nil {
		service.fail(ctx, "update_category", err, slog.String("category_id", id))
		return nil
	}

	service.logger.InfoContext(ctx, "category_updated", slog.String("category_id", id))

	activity.Record(ctx, service.activity, service.logger, activity.ActionCategoryUpdated,
		activity.ResourceCategory, id, map[string]any{"name": c.Name})

	return c
}

// DeleteCategory hard-deletes a category and reports success.
// Events pointing at it keep working; the foreign key sets their category_id to NULL.
func (service *Service) DeleteCategory(ctx context.Context, id string) bool {
	deleted, err := service.repo.Delete(ctx, id)
	if err != nil {
		service.fail(ctx, "delete_category", err, slog.String("category_id", id))
		return false
	}
	if !deleted {
		return false
	}

	service.logger.InfoContext(ctx, "category_deleted", slog.String("category_id", id))

	activity.Record(ctx, service.activity, service.logger, activity.ActionCategoryDeleted,
		activity.ResourceCategory, id, nil)

	return true
}

// ReorderCategories sets sort_order to each ID's index in ids.
func (service *Service) ReorderCategories(ctx context.Context, ids []string) bool {
	if err := service.repo.Reorder(ctx, ids); err != nil {
		service.fail(ctx, "reorder_categories", err, slog.Int("count", len(ids)))
		return false
	}

	service.logger.InfoContext(ctx, "categories_reordered", slog.Int("count", len(ids)))
	return true
}
