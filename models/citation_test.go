package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestSetIgnoresEmptyValues(t *testing.T) {
	var f *string
	Set(&f, "  ")
	assert.Nil(t, f)

	Set(&f, " Acme Press ")
	assert.Equal(t, ptr("Acme Press"), f)
}

func TestSetIfAbsent(t *testing.T) {
	var f *string
	assert.True(t, SetIfAbsent(&f, "first"))
	assert.False(t, SetIfAbsent(&f, "second"))
	assert.Equal(t, ptr("first"), f)
}

func TestMergeFillsOnlyMissingFields(t *testing.T) {
	rec := &CitationRecord{Author: ptr("Smith, John"), Title: ptr("History of Rome")}
	other := &CitationRecord{Author: ptr("Jones, Bob"), Publisher: ptr("Acme Press"), Year: ptr("1990")}

	filled := rec.Merge(other)

	assert.Equal(t, 2, filled)
	assert.Equal(t, ptr("Smith, John"), rec.Author)
	assert.Equal(t, ptr("Acme Press"), rec.Publisher)
	assert.Equal(t, ptr("1990"), rec.Year)
}

func TestMergeNilOther(t *testing.T) {
	rec := &CitationRecord{Title: ptr("History of Rome")}
	assert.Zero(t, rec.Merge(nil))
}

func TestComplete(t *testing.T) {
	rec := &CitationRecord{
		Author:    ptr("Smith, John"),
		Title:     ptr("History of Rome"),
		Publisher: ptr("Acme Press"),
		Year:      ptr("1990"),
	}
	assert.True(t, rec.Complete(), "place and page are not required for completeness")

	rec.Year = nil
	assert.False(t, rec.Complete())
}
