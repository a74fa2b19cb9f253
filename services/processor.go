package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/docx"
	"note-hand/models"
	"note-hand/storage"
)

// ProcessService orchestriert die Pipeline für ein hochgeladenes Dokument:
// Extraktion → Parsing → Anreicherung → Ortsableitung → Formatierung →
// Rückschreiben. Strikt sequenziell, kein Zustand über Requests hinweg.
type ProcessService struct {
	Config    *config.Config
	Logger    *zap.Logger
	Parser    *CitationParser
	Enricher  *Enricher
	Gazetteer *Gazetteer

	// History und S3Client sind optional; beide Schreibpfade sind best-effort
	// und können die Verarbeitung nie scheitern lassen.
	History  *storage.HistoryStore
	S3Client *s3.Client
}

// NewProcessService erstellt eine neue Instanz des ProcessService.
func NewProcessService(cfg *config.Config, logger *zap.Logger, enricher *Enricher, history *storage.HistoryStore, s3Client *s3.Client) *ProcessService {
	return &ProcessService{
		Config:    cfg,
		Logger:    logger,
		Parser:    NewCitationParser(logger),
		Enricher:  enricher,
		Gazetteer: NewGazetteer(),
		History:   history,
		S3Client:  s3Client,
	}
}

// NoteLog protokolliert die Verarbeitung einer einzelnen Endnote.
type NoteLog struct {
	ID           string `json:"id"`
	Original     string `json:"original"`
	Formatted    string `json:"formatted"`
	LookupFailed bool   `json:"lookup_failed,omitempty"`
}

// ProcessResult bündelt das Ergebnis eines Verarbeitungslaufs.
type ProcessResult struct {
	Output         []byte    `json:"-"`
	EndnoteCount   int       `json:"endnotes_processed"`
	LookupFailures int       `json:"lookup_failures"`
	Log            []NoteLog `json:"log"`
	S3Link         string    `json:"s3_link,omitempty"`
}

// Process verarbeitet ein Dokument vollständig. Fehler beim Öffnen/Parsen und
// beim Serialisieren sind fatal; fehlgeschlagene Lookups nicht. Jede Endnote
// der Eingabe ergibt genau eine formatierte Endnote der Ausgabe, in
// Dokumentenreihenfolge.
func (s *ProcessService) Process(ctx context.Context, filename string, data []byte, style Style, mode Mode) (*ProcessResult, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return nil, err
	}

	notes := doc.Endnotes()
	result := &ProcessResult{EndnoteCount: len(notes)}

	for i, note := range notes {
		rec := s.Parser.Parse(note)

		_, failed := s.Enricher.Enrich(ctx, rec)
		if failed {
			result.LookupFailures++
		}
		s.Gazetteer.Infer(rec)

		formatted := FormatCitation(rec, style, mode)
		if err := doc.Rewrite(i, formatted); err != nil {
			return nil, err
		}

		result.Log = append(result.Log, NoteLog{
			ID:           note.ID,
			Original:     preview(note.Text, 100),
			Formatted:    preview(formatted, 100),
			LookupFailed: failed,
		})
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	result.Output = buf.Bytes()

	s.archive(ctx, filename, result)
	s.record(filename, style, mode, result)

	s.Logger.Info("Document processed",
		zap.String("filename", filename),
		zap.String("style", string(style)),
		zap.String("mode", string(mode)),
		zap.Int("endnotes", result.EndnoteCount),
		zap.Int("lookup_failures", result.LookupFailures))
	return result, nil
}

// archive lädt das Ergebnis best-effort ins S3-Archiv hoch.
func (s *ProcessService) archive(ctx context.Context, filename string, result *ProcessResult) {
	if s.S3Client == nil || !s.Config.ArchiveEnabled() {
		return
	}
	key := fmt.Sprintf("formatted/%s-%s", time.Now().UTC().Format("2006-01-02T15-04-05Z"), filename)
	link, err := storage.UploadFile(ctx, s.S3Client, s.Config.ArchiveS3Bucket, key, result.Output, s.Config)
	if err != nil {
		s.Logger.Warn("Archive upload failed", zap.String("key", key), zap.Error(err))
		return
	}
	result.S3Link = link
}

// record schreibt best-effort einen Verlaufs-Eintrag.
func (s *ProcessService) record(filename string, style Style, mode Mode, result *ProcessResult) {
	if s.History == nil {
		return
	}
	entry := &models.ProcessedDocument{
		Filename:       filename,
		Style:          string(style),
		Mode:           string(mode),
		EndnoteCount:   result.EndnoteCount,
		LookupFailures: result.LookupFailures,
		S3Link:         result.S3Link,
	}
	if err := s.History.Record(entry); err != nil {
		s.Logger.Warn("Failed to record processing history", zap.String("filename", filename), zap.Error(err))
	}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
