package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/models"
)

// Fetcher implementiert das Provider-Interface für die Open Library Search API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen Open Library Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		client: &http.Client{Timeout: cfg.LookupTimeout()},
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "openlibrary"
}

// Lookup fragt die Search API mit Titel und optional Autor ab und mappt den
// besten Treffer auf einen CitationRecord. Kein Treffer liefert (nil, nil).
func (f *Fetcher) Lookup(ctx context.Context, title, author string) (*models.CitationRecord, error) {
	query := strings.TrimSpace(author + " " + title)
	if query == "" {
		return nil, nil
	}

	v := url.Values{}
	v.Set("q", query)
	v.Set("limit", "1")
	searchURL := fmt.Sprintf("%s/search.json?%s", f.Config.OpenLibraryBaseURL, v.Encode())

	log := f.Logger.With(zap.String("query", query))
	log.Debug("Calling Open Library search API", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary request failed with status: %d", resp.StatusCode)
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if len(sr.Docs) == 0 {
		log.Debug("No Open Library match found")
		return nil, nil
	}

	rec := mapDocToRecord(&sr.Docs[0])
	log.Debug("Open Library match found", zap.String("title", models.Str(rec.Title)))
	return rec, nil
}

// mapDocToRecord konvertiert ein Open Library Dokument in unseren CitationRecord.
func mapDocToRecord(doc *Doc) *models.CitationRecord {
	rec := &models.CitationRecord{}
	models.Set(&rec.Title, doc.Title)
	if len(doc.AuthorName) > 0 {
		models.Set(&rec.Author, doc.AuthorName[0])
	}
	if len(doc.Publisher) > 0 {
		models.Set(&rec.Publisher, doc.Publisher[0])
	}
	if len(doc.PublishPlace) > 0 {
		models.Set(&rec.Place, doc.PublishPlace[0])
	}
	if doc.FirstPublishYear > 0 {
		models.Set(&rec.Year, strconv.Itoa(doc.FirstPublishYear))
	}
	return rec
}
