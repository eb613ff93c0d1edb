// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/pkg/pointer"
	"github.com/taibuivan/deptsite/pkg/sanitize"
)

// MetadataSource resolves a DOI into a partial paper payload.
type MetadataSource interface {
	Lookup(ctx context.Context, doi string) (*PaperInput, error)
}

// # CrossRef Client

// CrossRefClient reads work metadata from the public CrossRef REST API.
type CrossRefClient struct {
	baseURL string
	mailto  string
	http    *http.Client
}

// NewCrossRefClient builds a client. mailto, when set, is sent so requests
// land in CrossRef's polite pool.
func NewCrossRefClient(baseURL, mailto string, timeout time.Duration) *CrossRefClient {
	return &CrossRefClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		mailto:  mailto,
		http:    &http.Client{Timeout: timeout},
	}
}

type crossRefDate struct {
	DateParts [][]int `json:"date-parts"`
}

type crossRefWork struct {
	Title          []string      `json:"title"`
	Abstract       string        `json:"abstract"`
	DOI            string        `json:"DOI"`
	Volume         string        `json:"volume"`
	Issue          string        `json:"issue"`
	Page           string        `json:"page"`
	URL            string        `json:"URL"`
	Published      *crossRefDate `json:"published"`
	PublishedPrint *crossRefDate `json:"published-print"`
	PublishedOnln  *crossRefDate `json:"published-online"`
}

type crossRefResponse struct {
	Status  string       `json:"status"`
	Message crossRefWork `json:"message"`
}

// NormalizeDOI strips resolver prefixes such as https://doi.org/ and doi:.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}

// Lookup fetches /works/{doi}. A non-200 answer is an error.
func (client *CrossRefClient) Lookup(ctx context.Context, doi string) (*PaperInput, error) {
	doi = NormalizeDOI(doi)
	if doi == "" {
		return nil, fmt.Errorf("crossref: empty doi")
	}

	endpoint := client.baseURL + "/works/" + url.PathEscape(doi)
	if client.mailto != "" {
		endpoint += "?mailto=" + url.QueryEscape(client.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crossref: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", client.userAgent())

	resp, err := client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crossref: request %s: %w", doi, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref: %s returned status %d", doi, resp.StatusCode)
	}

	var body crossRefResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("crossref: decode %s: %w", doi, err)
	}

	return body.Message.toInput(doi), nil
}

func (client *CrossRefClient) userAgent() string {
	agent := constants.AppName + "/" + constants.AppVersion
	if client.mailto != "" {
		agent += " (mailto:" + client.mailto + ")"
	}
	return agent
}

// toInput maps the subset of a CrossRef work that a paper form can prefill.
func (work crossRefWork) toInput(requested string) *PaperInput {
	in := &PaperInput{
		DOI:             nonEmpty(work.DOI),
		PublicationDate: work.publicationDate(),
		ExternalURL:     nonEmpty(work.URL),
		Volume:          nonEmpty(work.Volume),
		Issue:           nonEmpty(work.Issue),
		Pages:           nonEmpty(work.Page),
	}
	if len(work.Title) > 0 {
		in.Title = strings.TrimSpace(work.Title[0])
	}
	if work.Abstract != "" {
		in.Abstract = nonEmpty(sanitize.PlainText(work.Abstract))
	}
	if in.DOI == nil {
		in.DOI = &requested
	}
	return in
}

// publicationDate prefers published, then print, then online. Missing month
// or day parts become 01. A source without a positive year is skipped;
// CrossRef sends [[null]] for unknown dates.
func (work crossRefWork) publicationDate() *string {
	for _, date := range []*crossRefDate{work.Published, work.PublishedPrint, work.PublishedOnln} {
		if date == nil || len(date.DateParts) == 0 || len(date.DateParts[0]) == 0 || date.DateParts[0][0] <= 0 {
			continue
		}
		parts := date.DateParts[0]
		month, day := 1, 1
		if len(parts) > 1 && parts[1] > 0 {
			month = parts[1]
		}
		if len(parts) > 2 && parts[2] > 0 {
			day = parts[2]
		}
		formatted := fmt.Sprintf("%04d-%02d-%02d", parts[0], month, day)
		return &formatted
	}
	return nil
}

func nonEmpty(s string) *string {
	return pointer.NonZero(strings.TrimSpace(s))
}
