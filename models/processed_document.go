package models

import "time"

// ProcessedDocument ist der optionale Verlaufs-Eintrag pro verarbeitetem Dokument.
type ProcessedDocument struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Filename string `json:"filename" gorm:"index"`
	Style    string `json:"style"`
	Mode     string `json:"mode"`

	EndnoteCount   int `json:"endnote_count"`
	LookupFailures int `json:"lookup_failures"`

	S3Link string `json:"s3_link,omitempty"`
}
