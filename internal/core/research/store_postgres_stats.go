// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"context"
	"fmt"

	"github.com/taibuivan/deptsite/internal/platform/dberr"
)

// # Aggregates

func (repository *postgresRepository) count(ctx context.Context, action, query string, args ...any) (int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, action)
	}
	return total, nil
}

func (repository *postgresRepository) CountPapers(ctx context.Context, status string) (int, error) {
	if status == "" {
		return repository.count(ctx, "count_research_papers",
			fmt.Sprintf(`SELECT COUNT(*) FROM %s`, paperTable.Table))
	}
	return repository.count(ctx, "count_research_papers",
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, paperTable.Table, paperTable.Status), status)
}

func (repository *postgresRepository) CountAuthors(ctx context.Context) (int, error) {
	return repository.count(ctx, "count_authors", fmt.Sprintf(`SELECT COUNT(*) FROM %s`, authorTable.Table))
}

func (repository *postgresRepository) CountJournals(ctx context.Context) (int, error) {
	return repository.count(ctx, "count_journals", fmt.Sprintf(`SELECT COUNT(*) FROM %s`, journalTable.Table))
}

func (repository *postgresRepository) SumCitations(ctx context.Context) (int, error) {
	return repository.count(ctx, "sum_citations", fmt.Sprintf(
		`SELECT COALESCE(SUM(%s), 0)::int FROM %s WHERE %s IS NOT NULL`,
		paperTable.CitationCount, paperTable.Table, paperTable.CitationCount))
}

// PublishedByYear counts published papers per publication year. Papers
// without a date are not counted.
func (repository *postgresRepository) PublishedByYear(ctx context.Context) (map[int]int, error) {
	query := fmt.Sprintf(`
		SELECT EXTRACT(YEAR FROM %s)::int AS year, COUNT(*)::int
		FROM %s
		WHERE %s = $1 AND %s IS NOT NULL
		GROUP BY year
	`, paperTable.PublicationDate, paperTable.Table, paperTable.Status, paperTable.PublicationDate)

	rows, err := repository.db.Query(ctx, query, PaperPublished)
	if err != nil {
		return nil, dberr.Wrap(err, "papers_by_year")
	}
	defer rows.Close()

	result := map[int]int{}
	for rows.Next() {
		var year, total int
		if err := rows.Scan(&year, &total); err != nil {
			return nil, dberr.Wrap(err, "scan_papers_by_year")
		}
		result[year] = total
	}
	return result, dberr.Wrap(rows.Err(), "papers_by_year")
}

// PapersByCategory counts papers per research category name.
func (repository *postgresRepository) PapersByCategory(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, COUNT(*)::int
		FROM %s j
		JOIN %s c ON c.%s = j.%s
		GROUP BY c.%s
	`,
		categoryTable.Name,
		paperTopics.Table,
		categoryTable.Table, categoryTable.ID, paperTopics.CategoryID,
		categoryTable.Name,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "papers_by_category")
	}
	defer rows.Close()

	result := map[string]int{}
	for rows.Next() {
		var name string
		var total int
		if err := rows.Scan(&name, &total); err != nil {
			return nil, dberr.Wrap(err, "scan_papers_by_category")
		}
		result[name] = total
	}
	return result, dberr.Wrap(rows.Err(), "papers_by_category")
}
