package services

import (
	"context"

	"go.uber.org/zap"

	"note-hand/models"
	"note-hand/providers"
)

// Enricher füllt fehlende Felder eines CitationRecord über genau eine
// Katalog-Anfrage auf. Best-effort: jeder Fehler wird geschluckt, der Record
// geht unverändert weiter; vom Parser belegte Felder werden nie überschrieben.
type Enricher struct {
	Provider providers.Provider
	Logger   *zap.Logger
}

// NewEnricher erstellt einen neuen Enricher; provider darf nil sein
// (Anreicherung deaktiviert).
func NewEnricher(provider providers.Provider, logger *zap.Logger) *Enricher {
	return &Enricher{Provider: provider, Logger: logger}
}

// Enrich führt höchstens einen Lookup aus und merged nur in fehlende Felder.
// Gibt die Anzahl gefüllter Felder zurück und ob der Lookup fehlgeschlagen ist.
func (e *Enricher) Enrich(ctx context.Context, rec *models.CitationRecord) (filled int, failed bool) {
	if e.Provider == nil || rec == nil || rec.Complete() {
		return 0, false
	}

	title := models.Str(rec.Title)
	author := models.Str(rec.Author)
	if title == "" && author == "" {
		return 0, false
	}

	result, err := e.Provider.Lookup(ctx, title, author)
	if err != nil {
		e.Logger.Warn("Citation lookup failed, keeping parsed fields",
			zap.String("provider", e.Provider.Name()),
			zap.String("title", title),
			zap.Error(err))
		return 0, true
	}
	if result == nil {
		return 0, false
	}

	filled = rec.Merge(result)
	if filled > 0 {
		e.Logger.Debug("Citation enriched",
			zap.String("provider", e.Provider.Name()),
			zap.Int("fields_filled", filled))
	}
	return filled, false
}
