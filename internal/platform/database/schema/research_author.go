// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ResearchAuthorTable represents the 'authors' table
type ResearchAuthorTable struct {
	Table       string
	ID          string
	Name        string
	Email       string
	Affiliation string
	Orcid       string
	Bio         string
	Website     string
	Photo       string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// ResearchAuthor is the schema definition for authors
var ResearchAuthor = ResearchAuthorTable{
	Table:       "authors",
	ID:          "id",
	Name:        "name",
	Email:       "email",
	Affiliation: "affiliation",
	Orcid:       "orcid",
	Bio:         "bio",
	Website:     "website",
	Photo:       "photo",
	Status:      "status",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t ResearchAuthorTable) Columns() string {
	return list(t.ID, t.Name, t.Email, t.Affiliation, t.Orcid, t.Bio, t.Website,
		t.Photo, t.Status, t.CreatedAt, t.UpdatedAt)
}

// Prefixed lists every column qualified with alias, in [ResearchAuthorTable.Columns] order.
func (t ResearchAuthorTable) Prefixed(alias string) string {
	return prefixed(alias, t.ID, t.Name, t.Email, t.Affiliation, t.Orcid, t.Bio, t.Website,
		t.Photo, t.Status, t.CreatedAt, t.UpdatedAt)
}
