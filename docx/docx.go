// Package docx liest und schreibt den Endnoten-Teil eines Word-Containers.
// Alle anderen Zip-Einträge werden beim Speichern byte-identisch übernommen.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"note-hand/models"
)

const endnotesPath = "word/endnotes.xml"

// ErrNoEndnotes zeigt an, dass das Dokument keinen Endnoten-Teil enthält.
var ErrNoEndnotes = errors.New("document contains no endnotes part")

// Document hält den geöffneten Container und den geparsten Endnoten-Baum.
type Document struct {
	archive *zip.Reader
	tree    *etree.Document
	// noteElems referenziert die w:endnote-Elemente in Dokumentenreihenfolge,
	// parallel zu den von Endnotes() gelieferten Einträgen.
	noteElems []*etree.Element
	notes     []models.Endnote
}

// Open liest einen .docx-Container aus dem Speicher und parst endnotes.xml.
// Fehlt der Endnoten-Teil, wird ErrNoEndnotes zurückgegeben; ein kaputter
// Container oder kaputtes XML führt zu einem umschlossenen Parse-Fehler.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	var endnotesFile *zip.File
	for _, f := range zr.File {
		if f.Name == endnotesPath {
			endnotesFile = f
			break
		}
	}
	if endnotesFile == nil {
		return nil, ErrNoEndnotes
	}

	rc, err := endnotesFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", endnotesPath, err)
	}
	defer rc.Close()

	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", endnotesPath, err)
	}

	doc := &Document{archive: zr, tree: tree}
	doc.collectNotes()
	return doc, nil
}

// collectNotes sammelt alle echten Endnoten in Dokumentenreihenfolge ein.
// Die IDs -1 und 0 sind die Separator-Definitionen von Word und werden übersprungen.
func (d *Document) collectNotes() {
	for _, note := range d.tree.FindElements("//w:endnote") {
		id := note.SelectAttrValue("w:id", "")
		if id == "" || id == "-1" || id == "0" {
			continue
		}

		var text, italic strings.Builder
		for _, run := range note.FindElements(".//w:r") {
			runIsItalic := run.FindElement("w:rPr/w:i") != nil
			for _, t := range run.FindElements("w:t") {
				text.WriteString(t.Text())
				if runIsItalic {
					italic.WriteString(t.Text())
				}
			}
		}

		d.noteElems = append(d.noteElems, note)
		d.notes = append(d.notes, models.Endnote{
			ID:         id,
			Text:       text.String(),
			ItalicSpan: strings.TrimSpace(italic.String()),
		})
	}
}

// Endnotes gibt die Endnoten in Dokumentenreihenfolge zurück.
func (d *Document) Endnotes() []models.Endnote {
	return d.notes
}

// Rewrite ersetzt den Text der i-ten Endnote durch die formatierte Zitierung.
// Alle Text-Runs werden geleert, der erste erhält den neuen Inhalt; die übrige
// Struktur der Endnote bleibt unverändert.
func (d *Document) Rewrite(i int, formatted string) error {
	if i < 0 || i >= len(d.noteElems) {
		return fmt.Errorf("endnote index %d out of range (have %d)", i, len(d.noteElems))
	}
	ts := d.noteElems[i].FindElements(".//w:t")
	if len(ts) == 0 {
		// Endnote ohne Text-Run: nichts zu ersetzen.
		return nil
	}
	for _, t := range ts {
		t.SetText("")
	}
	ts[0].SetText(formatted)
	return nil
}

// Save serialisiert den Container: der mutierte Endnoten-Baum wird neu
// geschrieben, jeder andere Eintrag wird roh aus dem Original kopiert.
func (d *Document) Save(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, f := range d.archive.File {
		if f.Name == endnotesPath {
			fw, err := zw.CreateHeader(&zip.FileHeader{Name: endnotesPath, Method: zip.Deflate})
			if err != nil {
				return fmt.Errorf("write %s: %w", endnotesPath, err)
			}
			if _, err := d.tree.WriteTo(fw); err != nil {
				return fmt.Errorf("serialize %s: %w", endnotesPath, err)
			}
			continue
		}
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize container: %w", err)
	}
	return nil
}
