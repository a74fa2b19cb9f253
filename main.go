package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/docx"
	"note-hand/models"
	"note-hand/providers"
	"note-hand/providers/googlebooks"
	"note-hand/providers/openlibrary"
	"note-hand/services"
	"note-hand/storage"
)

const wordMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	documentsProcessedCounter prometheus.Counter
	endnotesFormattedCounter  prometheus.Counter
	lookupFailuresCounter     prometheus.Counter
)

func init() {
	documentsProcessedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "documents_processed_total",
			Help: "Total number of documents processed successfully.",
		},
	)
	endnotesFormattedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "endnotes_formatted_total",
			Help: "Total number of endnotes rewritten across all documents.",
		},
	)
	lookupFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "citation_lookup_failures_total",
			Help: "Total number of failed bibliographic catalog lookups.",
		},
	)
	prometheus.MustRegister(documentsProcessedCounter, endnotesFormattedCounter, lookupFailuresCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Lookup-Provider (genau einer pro Prozess)
	provider := selectProvider(cfg, logging)
	if provider != nil {
		logging.Info("Lookup provider active", zap.String("provider", provider.Name()))
	} else {
		logging.Info("Citation enrichment disabled")
	}

	// Optionaler Verlaufs-Speicher
	var history *storage.HistoryStore
	if cfg.HistoryDSN != "" {
		history, err = storage.OpenHistory(cfg.HistoryDSN)
		if err != nil {
			logging.Warn("History store unavailable, continuing without it", zap.Error(err))
			history = nil
		} else {
			logging.Info("Successfully connected to history database.")
		}
	}

	// Optionales S3-Archiv
	var s3Client *s3.Client
	if cfg.ArchiveEnabled() {
		s3Client, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		logging.Info("Document archive enabled", zap.String("bucket", cfg.ArchiveS3Bucket))
	}

	enricher := services.NewEnricher(provider, logging)
	processService := services.NewProcessService(cfg, logging, enricher, history, s3Client)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupProcessRoutes(router, processService, cfg, logging)
	setupCitationRoutes(router, logging)
	setupHistoryRoutes(router, history, logging)

	// Setup Cron: regelmäßiges Ausräumen abgelegter Ausgabedateien
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CleanupSchedule, func() {
		removed := cleanupWorkDir(cfg.ResolvedWorkDir(), time.Duration(cfg.RetentionMinutes)*time.Minute, logging)
		if removed > 0 {
			logging.Info("Cleanup job completed", zap.Int("files_removed", removed))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// selectProvider wählt den konfigurierten Katalog-Provider aus.
func selectProvider(cfg *config.Config, log *zap.Logger) providers.Provider {
	switch strings.ToLower(cfg.LookupProvider) {
	case "openlibrary":
		return openlibrary.NewFetcher(cfg, log)
	case "googlebooks":
		return googlebooks.NewFetcher(cfg, log)
	case "none", "":
		return nil
	default:
		log.Warn("Unknown lookup provider in config, disabling enrichment",
			zap.String("provider_name", cfg.LookupProvider))
		return nil
	}
}

func setupProcessRoutes(router *gin.Engine, svc *services.ProcessService, cfg *config.Config, log *zap.Logger) {
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})

	router.POST("/process", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		filename := filepath.Base(fileHeader.Filename)
		if filename == "" || filename == "." {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
			return
		}
		if !strings.EqualFold(filepath.Ext(filename), ".docx") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .docx files are supported"})
			return
		}
		if fileHeader.Size > int64(cfg.MaxUploadMB)<<20 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File exceeds %d MB limit", cfg.MaxUploadMB)})
			return
		}

		style := services.ParseStyle(c.PostForm("style"))
		mode := services.ParseMode(c.PostForm("format"))

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
			return
		}

		result, err := svc.Process(c.Request.Context(), filename, data, style, mode)
		if err != nil {
			if errors.Is(err, docx.ErrNoEndnotes) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No endnotes found in document"})
				return
			}
			log.Error("Document processing failed", zap.String("filename", filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed: " + err.Error()})
			return
		}

		documentsProcessedCounter.Inc()
		endnotesFormattedCounter.Add(float64(result.EndnoteCount))
		lookupFailuresCounter.Add(float64(result.LookupFailures))

		outputFilename := strings.TrimSuffix(filename, filepath.Ext(filename)) + "_formatted.docx"
		outputPath := filepath.Join(cfg.ResolvedWorkDir(), outputFilename)
		if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
			// Antwort direkt aus dem Speicher, wenn das WorkDir nicht beschreibbar ist.
			log.Warn("Could not persist output file", zap.String("path", outputPath), zap.Error(err))
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename))
		c.Data(http.StatusOK, wordMIME, result.Output)
	})
}

// setupCitationRoutes konfiguriert die JSON-Endpunkte zum Parsen und
// Formatieren einzelner Zitierungen ohne Dokument-Upload.
func setupCitationRoutes(router *gin.Engine, log *zap.Logger) {
	rg := router.Group("/citations")
	parser := services.NewCitationParser(log)

	rg.POST("/parse", func(c *gin.Context) {
		type ParseRequest struct {
			Text string `json:"text" binding:"required"`
		}
		var req ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'text' field is required."})
			return
		}
		rec := parser.Parse(models.Endnote{Text: req.Text})
		c.JSON(http.StatusOK, gin.H{"citation": rec})
	})

	rg.POST("/format", func(c *gin.Context) {
		type FormatRequest struct {
			Citation models.CitationRecord `json:"citation" binding:"required"`
			Style    string                `json:"style"`
			Mode     string                `json:"mode"`
		}
		var req FormatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'citation' field is required."})
			return
		}
		formatted := services.FormatCitation(&req.Citation, services.ParseStyle(req.Style), services.ParseMode(req.Mode))
		c.JSON(http.StatusOK, gin.H{"formatted": formatted})
	})
}

// setupHistoryRoutes konfiguriert den Verlaufs-Endpunkt; ohne konfigurierten
// Store liefert er eine leere Liste.
func setupHistoryRoutes(router *gin.Engine, history *storage.HistoryStore, log *zap.Logger) {
	router.GET("/history", func(c *gin.Context) {
		if history == nil {
			c.JSON(http.StatusOK, []models.ProcessedDocument{})
			return
		}
		limit := 50
		if v := c.Query("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		docs, err := history.Recent(limit)
		if err != nil {
			log.Error("History query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, docs)
	})
}

// cleanupWorkDir entfernt abgelegte Ausgabedateien, die älter als maxAge sind.
func cleanupWorkDir(dir string, maxAge time.Duration, log *zap.Logger) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("Cleanup: cannot read work dir", zap.String("dir", dir), zap.Error(err))
		return 0
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_formatted.docx") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Warn("Cleanup: cannot remove file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>note-hand</title>
</head>
<body>
  <h1>Endnote Citation Formatter</h1>
  <form action="/process" method="post" enctype="multipart/form-data">
    <p><input type="file" name="file" accept=".docx" required></p>
    <p>
      <label>Style:
        <select name="style">
          <option value="chicago">Chicago</option>
          <option value="mla">MLA</option>
          <option value="apa">APA</option>
          <option value="bluebook">Bluebook</option>
        </select>
      </label>
    </p>
    <p>
      <label>Format:
        <select name="format">
          <option value="traditional">Traditional</option>
          <option value="incipit">Incipit</option>
        </select>
      </label>
    </p>
    <p><button type="submit">Format citations</button></p>
  </form>
</body>
</html>
`
