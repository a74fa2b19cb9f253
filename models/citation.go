package models

import "strings"

// CitationRecord repräsentiert die aus einer Endnote extrahierten bibliografischen Felder.
// Nil bedeutet "Feld nicht erkannt" und ist bewusst von einem leeren String unterschieden:
// der Enricher darf nur nil-Felder füllen, nie vom Parser belegte.
type CitationRecord struct {
	Author    *string `json:"author,omitempty"`
	Title     *string `json:"title,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
	Place     *string `json:"place,omitempty"`
	Year      *string `json:"year,omitempty"`
	Page      *string `json:"page,omitempty"`
}

// Str liefert den Wert eines Feldes oder "" falls es fehlt.
func Str(f *string) string {
	if f == nil {
		return ""
	}
	return *f
}

// Set belegt ein Feld mit einem getrimmten Wert; leere Werte werden ignoriert.
func Set(f **string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	*f = &v
}

// SetIfAbsent belegt ein Feld nur, wenn es noch fehlt. Gibt true zurück, wenn geschrieben wurde.
func SetIfAbsent(f **string, v string) bool {
	if *f != nil {
		return false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	*f = &v
	return true
}

// Merge übernimmt aus other nur die Felder, die im Record noch fehlen.
// Gibt die Anzahl der übernommenen Felder zurück.
func (r *CitationRecord) Merge(other *CitationRecord) int {
	if other == nil {
		return 0
	}
	filled := 0
	pairs := []struct {
		dst **string
		src *string
	}{
		{&r.Author, other.Author},
		{&r.Title, other.Title},
		{&r.Publisher, other.Publisher},
		{&r.Place, other.Place},
		{&r.Year, other.Year},
		{&r.Page, other.Page},
	}
	for _, p := range pairs {
		if p.src != nil && SetIfAbsent(p.dst, *p.src) {
			filled++
		}
	}
	return filled
}

// Complete meldet, ob alle für eine Anreicherung interessanten Felder belegt sind.
// Place zählt nicht (lokal über die Verlagstabelle ableitbar), Page ebenfalls nicht:
// Seitenzahlen stammen immer aus der Endnote selbst, nie aus dem Katalog.
func (r *CitationRecord) Complete() bool {
	return r.Author != nil && r.Title != nil && r.Publisher != nil && r.Year != nil
}
