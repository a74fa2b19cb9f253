package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/models"
)

var publishedYearRE = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Fetcher implementiert das Provider-Interface für die Google Books Volumes API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen Google Books Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		client: &http.Client{Timeout: cfg.LookupTimeout()},
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "googlebooks"
}

// Lookup sucht über intitle/inauthor und mappt den besten Treffer.
// Kein Treffer liefert (nil, nil).
func (f *Fetcher) Lookup(ctx context.Context, title, author string) (*models.CitationRecord, error) {
	var qparts []string
	if strings.TrimSpace(title) != "" {
		qparts = append(qparts, "intitle:"+strings.TrimSpace(title))
	}
	if strings.TrimSpace(author) != "" {
		qparts = append(qparts, "inauthor:"+strings.TrimSpace(author))
	}
	if len(qparts) == 0 {
		return nil, nil
	}

	v := url.Values{}
	v.Set("q", strings.Join(qparts, " "))
	v.Set("maxResults", "1")
	searchURL := fmt.Sprintf("%s/volumes?%s", f.Config.GoogleBooksBaseURL, v.Encode())

	log := f.Logger.With(zap.String("title", title), zap.String("author", author))
	log.Debug("Calling Google Books API", zap.String("url", searchURL))

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
		return nil, fmt.Errorf("googlebooks request failed with status: %d", resp.StatusCode)
	}

	var vr VolumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, err
	}
	if len(vr.Items) == 0 {
		log.Debug("No Google Books match found")
		return nil, nil
	}

	return mapVolumeToRecord(&vr.Items[0].VolumeInfo), nil
}

// mapVolumeToRecord konvertiert ein VolumeInfo in unseren CitationRecord.
// Google Books liefert keinen Erscheinungsort; Place bleibt absichtlich leer.
func mapVolumeToRecord(vi *VolumeInfo) *models.CitationRecord {
	rec := &models.CitationRecord{}
	models.Set(&rec.Title, vi.Title)
	if len(vi.Authors) > 0 {
		models.Set(&rec.Author, vi.Authors[0])
	}
	models.Set(&rec.Publisher, vi.Publisher)
	if y := publishedYearRE.FindString(vi.PublishedDate); y != "" {
		models.Set(&rec.Year, y)
	}
	return rec
}
