package providers

import (
	"context"

	"note-hand/models"
)

// Provider ist das Interface, das jeder Katalog-Provider (z.B. Open Library,
// Google Books) implementieren muss.
type Provider interface {
	// Lookup sucht einen Katalogeintrag zu Titel und optional Autor und gibt
	// einen standardisierten CitationRecord zurück. Kein Treffer wird als
	// (nil, nil) gemeldet, nicht als Fehler.
	Lookup(ctx context.Context, title, author string) (*models.CitationRecord, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "openlibrary").
	Name() string
}
