package services

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/docx"
)

const testEndnotesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:endnotes xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:endnote w:type="separator" w:id="-1"><w:p><w:r><w:separator/></w:r></w:p></w:endnote><w:endnote w:id="2"><w:p><w:r><w:t>Smith, John. History of Rome. Acme Press, 1990.</w:t></w:r></w:p></w:endnote><w:endnote w:id="3"><w:p><w:r><w:t>Unknown Title</w:t></w:r></w:p></w:endnote></w:endnotes>`

func buildTestDocx(t *testing.T, withEndnotes bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body/></w:document>`,
	}
	if withEndnotes {
		entries["word/endnotes.xml"] = testEndnotesXML
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestService() *ProcessService {
	logger := zap.NewNop()
	enricher := NewEnricher(nil, logger)
	return NewProcessService(&config.Config{}, logger, enricher, nil, nil)
}

func TestProcessRewritesEveryEndnote(t *testing.T) {
	svc := newTestService()
	input := buildTestDocx(t, true)

	result, err := svc.Process(context.Background(), "thesis.docx", input, StyleChicago, ModeTraditional)
	require.NoError(t, err)

	assert.Equal(t, 2, result.EndnoteCount)
	assert.Zero(t, result.LookupFailures)
	assert.Empty(t, result.S3Link)
	require.Len(t, result.Log, 2)
	assert.Equal(t, "2", result.Log[0].ID)
	assert.Equal(t, "3", result.Log[1].ID)

	doc, err := docx.Open(result.Output)
	require.NoError(t, err)
	notes := doc.Endnotes()
	require.Len(t, notes, 2, "output must carry the same endnotes in the same order")
	assert.Equal(t, "Smith, John, History of Rome (Acme Press, 1990).", notes[0].Text)
	assert.Equal(t, "Unknown Title.", notes[1].Text)
}

func TestProcessMLAPreservesAlreadyFormattedNote(t *testing.T) {
	svc := newTestService()
	input := buildTestDocx(t, true)

	result, err := svc.Process(context.Background(), "thesis.docx", input, StyleMLA, ModeTraditional)
	require.NoError(t, err)

	doc, err := docx.Open(result.Output)
	require.NoError(t, err)
	assert.Equal(t, "Smith, John. History of Rome. Acme Press, 1990.", doc.Endnotes()[0].Text)
}

func TestProcessWithoutEndnotesPart(t *testing.T) {
	svc := newTestService()
	input := buildTestDocx(t, false)

	_, err := svc.Process(context.Background(), "thesis.docx", input, StyleChicago, ModeTraditional)
	assert.ErrorIs(t, err, docx.ErrNoEndnotes)
}

func TestProcessRejectsCorruptContainer(t *testing.T) {
	svc := newTestService()

	_, err := svc.Process(context.Background(), "thesis.docx", []byte("not a docx"), StyleChicago, ModeTraditional)
	assert.Error(t, err)
}
