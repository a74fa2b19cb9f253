package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"note-hand/config"
	"note-hand/providers"
	"note-hand/providers/googlebooks"
	"note-hand/providers/openlibrary"
	"note-hand/services"
)

// notefmt formatiert die Endnoten einer .docx-Datei ohne den Web-Layer.
// Die Lookup-Konfiguration kommt wie beim Server aus Umgebungsvariablen.
func main() {
	inputPath := flag.String("in", "", "path to the .docx file to process")
	outputPath := flag.String("out", "", "output path (default: <name>_formatted.docx next to input)")
	styleFlag := flag.String("style", "chicago", "citation style: chicago|mla|apa|bluebook")
	modeFlag := flag.String("format", "traditional", "note format: traditional|incipit")
	noLookup := flag.Bool("no-lookup", false, "skip catalog enrichment")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -in flag")
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	var provider providers.Provider
	if !*noLookup {
		switch strings.ToLower(cfg.LookupProvider) {
		case "openlibrary":
			provider = openlibrary.NewFetcher(cfg, logger)
		case "googlebooks":
			provider = googlebooks.NewFetcher(cfg, logger)
		}
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("cannot read input file: %v", err)
	}

	enricher := services.NewEnricher(provider, logger)
	svc := services.NewProcessService(cfg, logger, enricher, nil, nil)

	style := services.ParseStyle(*styleFlag)
	mode := services.ParseMode(*modeFlag)

	result, err := svc.Process(context.Background(), filepath.Base(*inputPath), data, style, mode)
	if err != nil {
		log.Fatalf("processing failed: %v", err)
	}

	out := *outputPath
	if out == "" {
		ext := filepath.Ext(*inputPath)
		out = strings.TrimSuffix(*inputPath, ext) + "_formatted.docx"
	}
	if err := os.WriteFile(out, result.Output, 0o644); err != nil {
		log.Fatalf("cannot write output file: %v", err)
	}

	log.Printf("formatted %d endnotes (%d lookup failures) -> %s",
		result.EndnoteCount, result.LookupFailures, out)
}
