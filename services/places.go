package services

import (
	"strings"

	"note-hand/models"
)

// Gazetteer mappt Verlagsnamen auf ihren üblichen Erscheinungsort. Die Tabelle
// wird einmal beim Prozessstart aufgebaut und danach nur noch gelesen.
type Gazetteer struct {
	places map[string]string
}

// defaultPublisherPlaces ist die statische Verlags-Ort-Tabelle.
var defaultPublisherPlaces = map[string]string{
	"Harvard University Press":       "Cambridge",
	"MIT Press":                      "Cambridge",
	"Yale University Press":          "New Haven",
	"Princeton University Press":     "Princeton",
	"Stanford University Press":      "Stanford",
	"University of California Press": "Berkeley",
	"University of Chicago Press":    "Chicago",
	"Columbia University Press":      "New York",
	"Cornell University Press":       "Ithaca",
	"Duke University Press":          "Durham",
	"Johns Hopkins University Press": "Baltimore",
	"Oxford University Press":        "Oxford",
	"Cambridge University Press":     "Cambridge",
	"Penguin":                        "New York",
	"Random House":                   "New York",
	"HarperCollins":                  "New York",
	"Simon & Schuster":               "New York",
}

// NewGazetteer baut den Gazetteer aus der eingebauten Tabelle auf.
func NewGazetteer() *Gazetteer {
	return NewGazetteerFromTable(defaultPublisherPlaces)
}

// NewGazetteerFromTable baut einen Gazetteer aus einer eigenen Tabelle auf;
// die Schlüssel werden case-insensitiv normalisiert.
func NewGazetteerFromTable(table map[string]string) *Gazetteer {
	places := make(map[string]string, len(table))
	for publisher, place := range table {
		places[normalizePublisherKey(publisher)] = place
	}
	return &Gazetteer{places: places}
}

// Infer füllt Place, wenn der Verlag bekannt und der Ort noch unbelegt ist.
// Deterministischer, exakter Lookup (case-insensitiv, getrimmt) — kein
// Fuzzy-Matching, kein Netzwerk. Gibt true zurück, wenn Place gesetzt wurde.
func (g *Gazetteer) Infer(rec *models.CitationRecord) bool {
	if rec == nil || rec.Place != nil || rec.Publisher == nil {
		return false
	}
	place, ok := g.places[normalizePublisherKey(*rec.Publisher)]
	if !ok {
		return false
	}
	models.Set(&rec.Place, place)
	return true
}

// Lookup gibt den Ort für einen Verlagsnamen zurück, falls bekannt.
func (g *Gazetteer) Lookup(publisher string) (string, bool) {
	place, ok := g.places[normalizePublisherKey(publisher)]
	return place, ok
}

func normalizePublisherKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
