// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ResearchJournalTable represents the 'journals' table
type ResearchJournalTable struct {
	Table        string
	ID           string
	Name         string
	Publisher    string
	ImpactFactor string
	ISSN         string
	Website      string
	Description  string
	Status       string
	CreatedAt    string
	UpdatedAt    string
}

// ResearchJournal is the schema definition for journals
var ResearchJournal = ResearchJournalTable{
	Table:        "journals",
	ID:           "id",
	Name:         "name",
	Publisher:    "publisher",
	ImpactFactor: "impact_factor",
	ISSN:         "issn",
	Website:      "website",
	Description:  "description",
	Status:       "status",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

func (t ResearchJournalTable) Columns() string {
	return list(t.ID, t.Name, t.Publisher, t.ImpactFactor, t.ISSN, t.Website,
		t.Description, t.Status, t.CreatedAt, t.UpdatedAt)
}
