package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort     string `envconfig:"HTTP_PORT" default:"8080"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Lookup-Konfiguration: genau ein Provider pro Prozess, "none" deaktiviert
	// die Anreicherung komplett.
	LookupProvider     string `envconfig:"LOOKUP_PROVIDER" default:"openlibrary"`
	OpenLibraryBaseURL string `envconfig:"OPENLIBRARY_BASE_URL" default:"https://openlibrary.org"`
	GoogleBooksBaseURL string `envconfig:"GOOGLEBOOKS_BASE_URL" default:"https://www.googleapis.com/books/v1"`
	LookupTimeoutSecs  int    `envconfig:"LOOKUP_TIMEOUT_SECONDS" default:"5"`

	MaxUploadMB int    `envconfig:"MAX_UPLOAD_MB" default:"16"`
	WorkDir     string `envconfig:"WORK_DIR"`

	// Aufräum-Job für abgelegte Ausgabedateien im WorkDir.
	CleanupSchedule  string `envconfig:"CLEANUP_SCHEDULE" default:"*/30 * * * *"`
	RetentionMinutes int    `envconfig:"RETENTION_MINUTES" default:"60"`

	// Optionaler Verlaufs-Speicher; leer lassen, um ohne Datenbank zu laufen.
	HistoryDSN string `envconfig:"HISTORY_DSN"`

	// Optionales S3-Archiv für formatierte Dokumente; leerer Bucket deaktiviert es.
	ArchiveS3Key    string `envconfig:"ARCHIVE_S3_KEY"`
	ArchiveS3Secret string `envconfig:"ARCHIVE_S3_SECRET"`
	ArchiveS3URL    string `envconfig:"ARCHIVE_S3_URL"`
	ArchiveS3Region string `envconfig:"ARCHIVE_S3_REGION"`
	ArchiveS3Bucket string `envconfig:"ARCHIVE_S3_BUCKET"`
}

// LookupTimeout gibt den Timeout für Katalog-Anfragen als Duration zurück.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutSecs) * time.Second
}

// ResolvedWorkDir gibt das Arbeitsverzeichnis zurück, standardmäßig das System-Tempdir.
func (c *Config) ResolvedWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return os.TempDir()
}

// ArchiveEnabled meldet, ob das S3-Archiv konfiguriert ist.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveS3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
