package services

import (
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"note-hand/models"
)

// CitationParser extrahiert bibliografische Felder aus rohem Endnoten-Text.
// Die Heuristiken sind eine geordnete Liste unabhängiger Matcher; pro Feld
// gewinnt der erste Treffer, gefüllt wird nur bei erkanntem Muster — nie geraten.
type CitationParser struct {
	Logger *zap.Logger
}

// NewCitationParser erstellt einen neuen Parser.
func NewCitationParser(logger *zap.Logger) *CitationParser {
	return &CitationParser{Logger: logger}
}

var (
	leadingNumberRE = regexp.MustCompile(`^\s*\d+\s*`)
	yearRE          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	pureYearRE      = regexp.MustCompile(`^(19|20)\d{2}$`)
	// Chicago-Klammer: (Ort: Verlag, Jahr)
	parenFullRE = regexp.MustCompile(`\(([^():,]+):\s*([^(),]+),\s*((?:19|20)\d{2})\)`)
	// (Verlag, Jahr) bzw. (Verlag Jahr) bzw. (Jahr)
	parenPubYearRE   = regexp.MustCompile(`\(([^():,]+?),?\s+((?:19|20)\d{2})\)`)
	parenYearRE      = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)
	parenAnyRE       = regexp.MustCompile(`\([^()]*\)`)
	pageExplicitRE   = regexp.MustCompile(`\bpp?\.\s*(\d+(?:[-–]\d+)?)`)
	pageTrailingRE   = regexp.MustCompile(`(\d+(?:[-–]\d+)?)\s*\.?\s*$`)
	pageSuffixRE     = regexp.MustCompile(`\s*,\s*\d+(?:[-–]\d+)?\s*\.?$`)
	quotedTitleRE    = regexp.MustCompile("[\"“‘']([^\"“”‘’']{3,})[\"”’']")
	publisherHintRE  = regexp.MustCompile(`(?i)\b(press|publish\w*|books|university|verlag|editions?)\b`)
	pubYearSegmentRE = regexp.MustCompile(`^(.*\S),\s*(?:19|20)\d{2}\s*\.?$`)
	givenNameRE      = regexp.MustCompile(`^\p{Lu}\p{Ll}+\.?$`)
)

// parseCtx bündelt den vorverarbeiteten Endnoten-Text für die Matcher.
type parseCtx struct {
	// text ist der volle normalisierte Text, core derselbe Text ohne
	// Klammerausdrücke (die der Klammer-Matcher separat auswertet).
	text       string
	core       string
	italicSpan string
	// segs sind die mit ". " getrennten Satz-Segmente von core, commaParts
	// die Komma-Segmente als Rückfallebene für Notizen ohne Satztrennung.
	segs       []string
	commaParts []string
	// commaAuthor fasst ein führendes "Nachname, Vorname"-Paar der Komma-
	// Segmente zusammen; commaTitleIdx zeigt auf das Titel-Kandidaten-Segment.
	commaAuthor   string
	commaTitleIdx int
}

type matcher func(parseCtx) *models.CitationRecord

// Parse wandelt eine Endnote in einen CitationRecord um. Felder, für die kein
// Muster greift, bleiben nil; ohne erkennbare Trenner wird als letzte
// Rückfallebene nur der Titel mit dem vollen Text belegt.
func (p *CitationParser) Parse(note models.Endnote) *models.CitationRecord {
	text := NormalizeNoteText(note.Text)
	core := strings.Join(strings.Fields(parenAnyRE.ReplaceAllString(text, " ")), " ")

	ctx := parseCtx{
		text:       text,
		core:       core,
		italicSpan: NormalizeNoteText(note.ItalicSpan),
		segs:       splitSentenceSegments(core),
		commaParts: splitTrimmed(core, ","),
	}
	ctx.commaAuthor, ctx.commaTitleIdx = analyzeCommaParts(ctx.commaParts)

	rec := &models.CitationRecord{}
	matchers := []matcher{
		matchParenthetical,
		matchYear,
		matchPage,
		matchItalicTitle,
		matchQuotedTitle,
		matchAuthor,
		matchTitle,
		matchPublisher,
	}
	for _, m := range matchers {
		rec.Merge(m(ctx))
	}

	if rec.Title == nil && rec.Author == nil {
		// Keine erkennbaren Trenner: kompletter Text als Titel.
		models.Set(&rec.Title, strings.TrimSuffix(text, "."))
	}

	if p.Logger != nil {
		p.Logger.Debug("Endnote parsed",
			zap.String("note_id", note.ID),
			zap.Bool("has_author", rec.Author != nil),
			zap.Bool("has_title", rec.Title != nil),
			zap.Bool("has_year", rec.Year != nil))
	}
	return rec
}

// NormalizeNoteText bereinigt Rohtext vor dem Matching: Ligaturen auflösen,
// NFC-Normalisierung, Whitespace verdichten, führende Notenziffer entfernen.
func NormalizeNoteText(s string) string {
	replacer := strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
		"ﬆ", "st",
	)
	s = replacer.Replace(s)
	normalized, _, _ := transform.String(transform.Chain(norm.NFC), s)
	normalized = strings.Join(strings.Fields(normalized), " ")
	return strings.TrimSpace(leadingNumberRE.ReplaceAllString(normalized, ""))
}

func matchParenthetical(ctx parseCtx) *models.CitationRecord {
	rec := &models.CitationRecord{}
	if m := parenFullRE.FindStringSubmatch(ctx.text); m != nil {
		models.Set(&rec.Place, m[1])
		models.Set(&rec.Publisher, m[2])
		models.Set(&rec.Year, m[3])
		return rec
	}
	if m := parenPubYearRE.FindStringSubmatch(ctx.text); m != nil {
		models.Set(&rec.Publisher, m[1])
		models.Set(&rec.Year, m[2])
		return rec
	}
	if m := parenYearRE.FindStringSubmatch(ctx.text); m != nil {
		models.Set(&rec.Year, m[1])
		return rec
	}
	return nil
}

func matchYear(ctx parseCtx) *models.CitationRecord {
	m := yearRE.FindString(ctx.text)
	if m == "" {
		return nil
	}
	rec := &models.CitationRecord{}
	models.Set(&rec.Year, m)
	return rec
}

// matchPage greift bei expliziten Seitenangaben (p./pp.) oder einer nackten
// Zahl am Ende. Eine alleinstehende Jahreszahl am Ende ist keine Seite.
func matchPage(ctx parseCtx) *models.CitationRecord {
	rec := &models.CitationRecord{}
	if m := pageExplicitRE.FindStringSubmatch(ctx.text); m != nil {
		models.Set(&rec.Page, m[1])
		return rec
	}
	if m := pageTrailingRE.FindStringSubmatch(ctx.text); m != nil && !pureYearRE.MatchString(m[1]) {
		models.Set(&rec.Page, m[1])
		return rec
	}
	return nil
}

// matchItalicTitle nutzt den kursiv formatierten Run als Titel-Hinweis.
// Best-effort: die Kursiv-Erkennung auf Run-Ebene ist nicht autoritativ.
func matchItalicTitle(ctx parseCtx) *models.CitationRecord {
	if ctx.italicSpan == "" {
		return nil
	}
	rec := &models.CitationRecord{}
	models.Set(&rec.Title, strings.Trim(ctx.italicSpan, " .,"))
	return rec
}

func matchQuotedTitle(ctx parseCtx) *models.CitationRecord {
	m := quotedTitleRE.FindStringSubmatch(ctx.text)
	if m == nil {
		return nil
	}
	rec := &models.CitationRecord{}
	models.Set(&rec.Title, strings.Trim(m[1], " .,"))
	return rec
}

func matchAuthor(ctx parseCtx) *models.CitationRecord {
	var candidate string
	switch {
	case len(ctx.segs) >= 2 && authorLike(ctx.segs[0]):
		candidate = ctx.segs[0]
	case ctx.commaAuthor != "":
		candidate = ctx.commaAuthor
	default:
		return nil
	}
	rec := &models.CitationRecord{}
	models.Set(&rec.Author, candidate)
	return rec
}

func matchTitle(ctx parseCtx) *models.CitationRecord {
	var candidate string
	switch {
	case len(ctx.segs) >= 2 && authorLike(ctx.segs[0]):
		candidate = ctx.segs[1]
	case len(ctx.segs) >= 2:
		candidate = ctx.segs[0]
	case ctx.commaTitleIdx >= 0 && ctx.commaTitleIdx < len(ctx.commaParts):
		candidate = ctx.commaParts[ctx.commaTitleIdx]
	default:
		return nil
	}
	candidate = cleanTitleCandidate(candidate)
	// Verlag/Jahr-Segmente sind keine Titel.
	if candidate == "" || yearRE.MatchString(candidate) {
		return nil
	}
	rec := &models.CitationRecord{}
	models.Set(&rec.Title, candidate)
	return rec
}

func matchPublisher(ctx parseCtx) *models.CitationRecord {
	segments := ctx.segs
	start := 1
	if len(segments) < 2 {
		segments = ctx.commaParts
		start = ctx.commaTitleIdx + 1
	}
	if start < 0 {
		start = 0
	}
	rec := &models.CitationRecord{}
	for i := start; i < len(segments); i++ {
		if m := pubYearSegmentRE.FindStringSubmatch(segments[i]); m != nil {
			models.Set(&rec.Publisher, m[1])
			return rec
		}
	}
	for i := start; i < len(segments); i++ {
		trimmed := strings.Trim(segments[i], " .,")
		if publisherHintRE.MatchString(trimmed) && !yearRE.MatchString(trimmed) {
			models.Set(&rec.Publisher, trimmed)
			return rec
		}
	}
	return nil
}

// analyzeCommaParts bestimmt Autor- und Titel-Kandidat aus Komma-Segmenten.
// Ein führendes "Nachname, Vorname"-Paar wird zu einem invertierten
// Autornamen zusammengefasst.
func analyzeCommaParts(parts []string) (author string, titleIdx int) {
	if len(parts) < 2 || !authorLike(parts[0]) {
		return "", -1
	}
	if len(parts) >= 3 && len(strings.Fields(parts[0])) == 1 && givenNameRE.MatchString(parts[1]) {
		return parts[0] + ", " + parts[1], 2
	}
	return parts[0], 1
}

// authorLike erkennt typische Autoren-Segmente: beginnt mit Großbuchstaben,
// keine Ziffern, entweder invertiert ("Nachname, Vorname") oder höchstens
// drei durchgehend großgeschriebene Wörter.
func authorLike(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 || strings.ContainsAny(s, "0123456789") {
		return false
	}
	first, ok := firstRune(s)
	if !ok || !unicode.IsUpper(first) {
		return false
	}
	if strings.Contains(s, ",") {
		return true
	}
	words := strings.Fields(s)
	if len(words) > 3 {
		return false
	}
	for _, w := range words {
		r, _ := firstRune(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func splitSentenceSegments(s string) []string {
	var segs []string
	for _, seg := range strings.Split(s, ". ") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

func splitTrimmed(s, sep string) []string {
	var parts []string
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// cleanTitleCandidate entfernt Anführungszeichen und eine nachgestellte
// Seitenangabe vom Titel-Kandidaten.
func cleanTitleCandidate(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "\"'“”‘’")
	if stripped := pageSuffixRE.ReplaceAllString(s, ""); strings.TrimSpace(stripped) != "" {
		s = stripped
	}
	return strings.Trim(s, " .,")
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
