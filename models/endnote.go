package models

// Endnote ist ein einzelner Endnoten-Eintrag in Dokumentenreihenfolge.
// Die ID entspricht dem w:id-Attribut aus endnotes.xml; die Separator-Einträge
// (-1 und 0) tauchen hier nie auf.
type Endnote struct {
	ID string `json:"id"`
	// Text ist der zusammengefügte Inhalt aller Text-Runs der Endnote.
	Text string `json:"text"`
	// ItalicSpan enthält den Text kursiv formatierter Runs, falls vorhanden.
	// Best-effort Hinweis für die Titel-Erkennung, nicht autoritativ.
	ItalicSpan string `json:"italic_span,omitempty"`
}
