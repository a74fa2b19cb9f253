package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"note-hand/models"
)

func str(s string) *string { return &s }

func TestParseInvertedAuthorWithSegments(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	rec := parser.Parse(models.Endnote{ID: "2", Text: "Smith, John. History of Rome. Acme Press, 1990."})

	require.NotNil(t, rec)
	assert.Equal(t, str("Smith, John"), rec.Author)
	assert.Equal(t, str("History of Rome"), rec.Title)
	assert.Equal(t, str("Acme Press"), rec.Publisher)
	assert.Equal(t, str("1990"), rec.Year)
	assert.Nil(t, rec.Place)
	assert.Nil(t, rec.Page, "a trailing year must not be mistaken for a page number")
}

func TestParseChicagoParenthetical(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	rec := parser.Parse(models.Endnote{
		ID:   "3",
		Text: "Doe, Jane, Fall of Carthage (Oxford: Oxford University Press, 2001), 44.",
	})

	assert.Equal(t, str("Doe, Jane"), rec.Author)
	assert.Equal(t, str("Fall of Carthage"), rec.Title)
	assert.Equal(t, str("Oxford"), rec.Place)
	assert.Equal(t, str("Oxford University Press"), rec.Publisher)
	assert.Equal(t, str("2001"), rec.Year)
	assert.Equal(t, str("44"), rec.Page)
}

func TestParseItalicSpanWinsAsTitle(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	rec := parser.Parse(models.Endnote{
		ID:         "4",
		Text:       "Doe, Jane, Fall of Carthage (Oxford University Press, 2001).",
		ItalicSpan: "Fall of Carthage",
	})

	assert.Equal(t, str("Fall of Carthage"), rec.Title)
	assert.Equal(t, str("Oxford University Press"), rec.Publisher)
	assert.Equal(t, str("2001"), rec.Year)
}

func TestParseQuotedTitle(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	rec := parser.Parse(models.Endnote{ID: "5", Text: "“The Waste Land,” in Collected Poems (1963)."})

	assert.Equal(t, str("The Waste Land"), rec.Title)
	assert.Equal(t, str("1963"), rec.Year)
}

func TestParseFallbackTitleOnly(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	rec := parser.Parse(models.Endnote{ID: "6", Text: "Unknown Title"})

	assert.Equal(t, str("Unknown Title"), rec.Title)
	assert.Nil(t, rec.Author)
	assert.Nil(t, rec.Publisher)
	assert.Nil(t, rec.Year)
	assert.Nil(t, rec.Place)
	assert.Nil(t, rec.Page)
}

func TestParseExplicitPageMarkers(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	tests := []struct {
		name string
		text string
		page *string
	}{
		{"single page", "Smith, John. History of Rome. Acme Press, 1990, p. 44.", str("44")},
		{"page range", "Smith, John. History of Rome. Acme Press, 1990, pp. 10-12.", str("10-12")},
		{"trailing bare number", "Doe, Jane, Fall of Carthage (2001), 7.", str("7")},
		{"trailing year is not a page", "Smith, John. History of Rome. Acme Press, 1990.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parser.Parse(models.Endnote{ID: "1", Text: tt.text})
			assert.Equal(t, tt.page, rec.Page)
		})
	}
}

func TestNormalizeNoteText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading note number", "12 Smith, John. History of Rome.", "Smith, John. History of Rome."},
		{"whitespace collapse", "Smith, John.\n  History   of Rome.", "Smith, John. History of Rome."},
		{"ligature folding", "Conﬂict and Conﬁdence", "Conflict and Confidence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNoteText(tt.in))
		})
	}
}

func TestParseNeverFabricatesFields(t *testing.T) {
	parser := NewCitationParser(zap.NewNop())

	rec := parser.Parse(models.Endnote{ID: "7", Text: "ibid., 23."})

	assert.Nil(t, rec.Author)
	assert.Nil(t, rec.Publisher)
	assert.Nil(t, rec.Year)
	assert.Nil(t, rec.Place)
}

func TestAuthorLike(t *testing.T) {
	assert.True(t, authorLike("Smith, John"))
	assert.True(t, authorLike("John Maynard Smith"))
	assert.False(t, authorLike("a history of everything in four volumes"))
	assert.False(t, authorLike("Report 2001"))
	assert.False(t, authorLike(""))
}
