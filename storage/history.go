package storage

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"note-hand/models"
)

// HistoryStore persistiert Verlaufs-Einträge verarbeiteter Dokumente.
// Der Kern des Dienstes bleibt ohne diesen Store voll funktionsfähig.
type HistoryStore struct {
	db *gorm.DB
}

// OpenHistory verbindet sich mit der Verlaufs-Datenbank und migriert das Schema.
func OpenHistory(dsn string) (*HistoryStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.ProcessedDocument{}); err != nil {
		return nil, err
	}
	return &HistoryStore{db: db}, nil
}

// Record legt einen Verlaufs-Eintrag an.
func (h *HistoryStore) Record(doc *models.ProcessedDocument) error {
	return h.db.Create(doc).Error
}

// Recent liefert die letzten Einträge, neueste zuerst.
func (h *HistoryStore) Recent(limit int) ([]models.ProcessedDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	var docs []models.ProcessedDocument
	err := h.db.Order("created_at desc").Limit(limit).Find(&docs).Error
	return docs, err
}
