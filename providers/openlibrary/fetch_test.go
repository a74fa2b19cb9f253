package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/models"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{OpenLibraryBaseURL: baseURL, LookupTimeoutSecs: 2}
}

func TestLookupMapsBestMatch(t *testing.T) {
	var gotQuery, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"key": "/works/OL123W",
				"title": "History of Rome",
				"author_name": ["John Smith", "Someone Else"],
				"publisher": ["Acme Press"],
				"publish_place": ["New York"],
				"first_publish_year": 1990
			}]
		}`))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), zap.NewNop())
	rec, err := f.Lookup(context.Background(), "History of Rome", "Smith")

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Smith History of Rome", gotQuery)
	assert.Equal(t, "1", gotLimit)
	assert.Equal(t, "History of Rome", models.Str(rec.Title))
	assert.Equal(t, "John Smith", models.Str(rec.Author))
	assert.Equal(t, "Acme Press", models.Str(rec.Publisher))
	assert.Equal(t, "New York", models.Str(rec.Place))
	assert.Equal(t, "1990", models.Str(rec.Year))
}

func TestLookupNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"numFound": 0, "docs": []}`))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), zap.NewNop())
	rec, err := f.Lookup(context.Background(), "Nonexistent Work", "")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), zap.NewNop())
	_, err := f.Lookup(context.Background(), "History of Rome", "")

	assert.Error(t, err)
}

func TestLookupEmptyQuerySkipsRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), zap.NewNop())
	rec, err := f.Lookup(context.Background(), "", "  ")

	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, calls)
}

func TestMapDocIgnoresEmptyFields(t *testing.T) {
	rec := mapDocToRecord(&Doc{Title: "History of Rome"})

	assert.Equal(t, "History of Rome", models.Str(rec.Title))
	assert.Nil(t, rec.Author)
	assert.Nil(t, rec.Publisher)
	assert.Nil(t, rec.Place)
	assert.Nil(t, rec.Year)
}
