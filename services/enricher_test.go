package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"note-hand/models"
)

// stubProvider liefert pro Lookup ein festes Ergebnis bzw. einen festen Fehler.
type stubProvider struct {
	rec   *models.CitationRecord
	err   error
	calls int
}

func (s *stubProvider) Lookup(_ context.Context, _, _ string) (*models.CitationRecord, error) {
	s.calls++
	return s.rec, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func TestEnrichFillsOnlyMissingFields(t *testing.T) {
	provider := &stubProvider{rec: &models.CitationRecord{
		Author:    str("Jones, Bob"),
		Publisher: str("Acme Press"),
		Year:      str("1990"),
	}}
	e := NewEnricher(provider, zap.NewNop())

	rec := &models.CitationRecord{Author: str("Smith, John"), Title: str("History of Rome")}
	filled, failed := e.Enrich(context.Background(), rec)

	assert.False(t, failed)
	assert.Equal(t, 2, filled)
	assert.Equal(t, str("Smith, John"), rec.Author, "parsed fields must never be overwritten")
	assert.Equal(t, str("Acme Press"), rec.Publisher)
	assert.Equal(t, str("1990"), rec.Year)
}

func TestEnrichSkipsCompleteRecords(t *testing.T) {
	provider := &stubProvider{rec: &models.CitationRecord{Place: str("Berlin")}}
	e := NewEnricher(provider, zap.NewNop())

	rec := &models.CitationRecord{
		Author:    str("Smith, John"),
		Title:     str("History of Rome"),
		Publisher: str("Acme Press"),
		Year:      str("1990"),
	}
	filled, failed := e.Enrich(context.Background(), rec)

	assert.Zero(t, filled)
	assert.False(t, failed)
	assert.Zero(t, provider.calls, "complete records trigger no lookup")
}

func TestEnrichFailsOpenOnProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	e := NewEnricher(provider, zap.NewNop())

	rec := &models.CitationRecord{Title: str("History of Rome")}
	filled, failed := e.Enrich(context.Background(), rec)

	assert.Zero(t, filled)
	assert.True(t, failed)
	assert.Equal(t, str("History of Rome"), rec.Title)
	assert.Nil(t, rec.Author)
}

func TestEnrichNoMatchIsNotAFailure(t *testing.T) {
	provider := &stubProvider{}
	e := NewEnricher(provider, zap.NewNop())

	rec := &models.CitationRecord{Title: str("History of Rome")}
	filled, failed := e.Enrich(context.Background(), rec)

	assert.Zero(t, filled)
	assert.False(t, failed)
	assert.Equal(t, 1, provider.calls)
}

func TestEnrichWithoutProvider(t *testing.T) {
	e := NewEnricher(nil, zap.NewNop())

	rec := &models.CitationRecord{Title: str("History of Rome")}
	filled, failed := e.Enrich(context.Background(), rec)

	assert.Zero(t, filled)
	assert.False(t, failed)
}

func TestEnrichSkipsRecordsWithoutQueryFields(t *testing.T) {
	provider := &stubProvider{rec: &models.CitationRecord{Title: str("Guessed")}}
	e := NewEnricher(provider, zap.NewNop())

	rec := &models.CitationRecord{Page: str("44")}
	filled, failed := e.Enrich(context.Background(), rec)

	assert.Zero(t, filled)
	assert.False(t, failed)
	assert.Zero(t, provider.calls)
	assert.Nil(t, rec.Title)
}
