package services

import (
	"fmt"
	"strings"

	"note-hand/models"
)

// Style ist eine der vier unterstützten Zitierweisen.
type Style string

const (
	StyleChicago  Style = "chicago"
	StyleMLA      Style = "mla"
	StyleAPA      Style = "apa"
	StyleBluebook Style = "bluebook"
)

// ParseStyle mappt den Request-Parameter auf einen Style; unbekannte Werte
// fallen auf Chicago zurück.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleMLA:
		return StyleMLA
	case StyleAPA:
		return StyleAPA
	case StyleBluebook:
		return StyleBluebook
	default:
		return StyleChicago
	}
}

// Mode bestimmt die Darstellungsform der Note.
type Mode string

const (
	ModeTraditional Mode = "traditional"
	ModeIncipit     Mode = "incipit"
)

// ParseMode mappt den Request-Parameter auf einen Mode; Standard ist traditional.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeIncipit {
		return ModeIncipit
	}
	return ModeTraditional
}

// FormatCitation rendert einen fertigen CitationRecord als Zitat-String.
// Reine Funktion: identische Eingaben liefern identische Ausgaben. Fehlende
// Felder entfallen samt zugehöriger Trennzeichen; es entstehen weder leere
// Klammerpaare noch hängende Separatoren.
func FormatCitation(rec *models.CitationRecord, style Style, mode Mode) string {
	var formatted string
	switch style {
	case StyleMLA:
		formatted = formatMLA(rec)
	case StyleAPA:
		formatted = formatAPA(rec)
	case StyleBluebook:
		formatted = formatBluebook(rec)
	default:
		formatted = formatChicago(rec)
	}
	if mode == ModeIncipit {
		formatted = applyIncipit(rec, formatted)
	}
	return formatted
}

// formatChicago: Author, Title (Place: Publisher, Year), Page.
func formatChicago(rec *models.CitationRecord) string {
	out := joinNonEmpty(", ", models.Str(rec.Author), models.Str(rec.Title))

	place, publisher, year := models.Str(rec.Place), models.Str(rec.Publisher), models.Str(rec.Year)
	if place != "" || publisher != "" || year != "" {
		var paren strings.Builder
		paren.WriteString("(")
		if place != "" {
			paren.WriteString(place)
			if publisher != "" || year != "" {
				paren.WriteString(": ")
			}
		}
		if publisher != "" {
			paren.WriteString(publisher)
			if year != "" {
				paren.WriteString(", ")
			}
		}
		paren.WriteString(year)
		paren.WriteString(")")
		out = joinNonEmpty(" ", out, paren.String())
	}

	if page := models.Str(rec.Page); page != "" {
		out = joinNonEmpty(", ", out, page)
	}
	return out + "."
}

// formatMLA: Author. Title. Publisher, Year, pp. Page. — Autorname invertiert.
func formatMLA(rec *models.CitationRecord) string {
	out := joinNonEmpty(". ", invertName(models.Str(rec.Author)), models.Str(rec.Title), models.Str(rec.Publisher))
	if year := models.Str(rec.Year); year != "" {
		out = joinNonEmpty(", ", out, year)
	}
	if page := models.Str(rec.Page); page != "" {
		out = joinNonEmpty(", ", out, "pp. "+page)
	}
	return out + "."
}

// formatAPA: Author (Year). Title. Place: Publisher, pp. Page. — Vornamen als Initialen.
func formatAPA(rec *models.CitationRecord) string {
	out := initialsName(models.Str(rec.Author))
	if year := models.Str(rec.Year); year != "" {
		out = strings.TrimSpace(out + " (" + year + ").")
	}
	if title := models.Str(rec.Title); title != "" {
		out = joinNonEmpty(" ", out, title)
	}
	place, publisher := models.Str(rec.Place), models.Str(rec.Publisher)
	switch {
	case place != "" && publisher != "":
		out = joinNonEmpty(". ", out, place+": "+publisher)
	case publisher != "":
		out = joinNonEmpty(". ", out, publisher)
	}
	if page := models.Str(rec.Page); page != "" {
		out = joinNonEmpty(", ", out, "pp. "+page)
	}
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// formatBluebook: Author, TITLE Page (Publisher Year). — Titel in Versalien.
func formatBluebook(rec *models.CitationRecord) string {
	out := joinNonEmpty(", ", models.Str(rec.Author), strings.ToUpper(models.Str(rec.Title)))
	if page := models.Str(rec.Page); page != "" {
		out = joinNonEmpty(" ", out, page)
	}
	inner := joinNonEmpty(" ", models.Str(rec.Publisher), models.Str(rec.Year))
	if inner != "" {
		out = joinNonEmpty(" ", out, "("+inner+")")
	}
	return out + "."
}

// applyIncipit stellt dem Zitat die Anfangsworte des Werktitels als
// beschreibende Note voran; ohne Titel bleibt das Zitat unverändert.
func applyIncipit(rec *models.CitationRecord, formatted string) string {
	title := models.Str(rec.Title)
	if title == "" {
		return formatted
	}
	return fmt.Sprintf("“%s,” in %s", titleIncipit(title), formatted)
}

// titleIncipit liefert die ersten fünf Worte des Titels, gekürzt mit Ellipse.
func titleIncipit(title string) string {
	words := strings.Fields(title)
	if len(words) <= 5 {
		return title
	}
	return strings.Join(words[:5], " ") + "…"
}

// invertName stellt "First Last" zu "Last, First" um. Bereits invertierte
// Namen (mit Komma) und Einzelnamen bleiben unverändert.
func invertName(author string) string {
	if author == "" || strings.Contains(author, ",") {
		return author
	}
	words := strings.Fields(author)
	if len(words) < 2 {
		return author
	}
	return words[len(words)-1] + ", " + strings.Join(words[:len(words)-1], " ")
}

// initialsName kürzt Vornamen zu Initialen: "John Maynard Smith" → "Smith, J. M."
func initialsName(author string) string {
	if author == "" {
		return ""
	}
	family, given := author, ""
	if i := strings.Index(author, ","); i >= 0 {
		family = strings.TrimSpace(author[:i])
		given = strings.TrimSpace(author[i+1:])
	} else {
		words := strings.Fields(author)
		if len(words) < 2 {
			return author
		}
		family = words[len(words)-1]
		given = strings.Join(words[:len(words)-1], " ")
	}
	if given == "" {
		return family
	}
	var initials []string
	for _, w := range strings.Fields(given) {
		r, _ := firstRune(w)
		initials = append(initials, string(r)+".")
	}
	return family + ", " + strings.Join(initials, " ")
}

// joinNonEmpty verbindet die nicht-leeren Teile mit dem Separator.
func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
