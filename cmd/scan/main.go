package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/lead-scanner/internal/config"
	"github.com/octobees/lead-scanner/internal/database"
	"github.com/octobees/lead-scanner/internal/export"
	"github.com/octobees/lead-scanner/internal/extract"
	"github.com/octobees/lead-scanner/internal/message"
	"github.com/octobees/lead-scanner/internal/repository"
	"github.com/octobees/lead-scanner/internal/scrape"
	"github.com/octobees/lead-scanner/internal/service"
	"github.com/octobees/lead-scanner/internal/webcheck"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	city := flag.String("city", cfg.City, "city to scan")
	industries := flag.String("industries", "", "comma separated industries, defaults to the configured list")
	max := flag.Int("max", cfg.MaxPerIndustry, "maximum results per industry")
	format := flag.String("format", cfg.OutputFormat, "output format, csv or json")
	outputDir := flag.String("out", cfg.OutputDir, "output directory")
	skipMessages := flag.Bool("no-messages", false, "skip the outreach message file")
	flag.Parse()

	list := cfg.Industries
	if strings.TrimSpace(*industries) != "" {
		list = nil
		for _, part := range strings.Split(*industries, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				list = append(list, trimmed)
			}
		}
	}
	if len(list) == 0 {
		log.Fatalf("no industries to scan")
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatalf("failed to load rules: %v", err)
	}

	extractor := extract.New(rules)
	classifier := webcheck.NewClassifier(rules)
	checker := webcheck.NewChecker(rules, webcheck.WithTimeout(cfg.CheckTimeout))

	client := scrape.NewClient(cfg.RequestDelay)
	assembler := scrape.NewAssembler(extractor, classifier)
	sources := []service.Source{
		scrape.NewPanoramaScraper(client, assembler, ""),
		scrape.NewPKTScraper(client, assembler, ""),
		scrape.NewWebSearchScraper(client, assembler, ""),
	}

	scanner := service.NewScannerService(sources, checker, *city, *max)

	exporter, err := export.New(*outputDir, *format)
	if err != nil {
		log.Fatalf("failed to configure exporter: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("level=info msg=\"starting scan\" city=%s industries=%d", *city, len(list))
	summary, err := scanner.Scan(ctx, list, func(u service.ScanUpdate) {
		log.Printf("level=info msg=\"industry scanned\" industry=%q done=%d total=%d found=%d without_website=%d",
			u.Industry, u.Done, u.Total, u.TotalFound, u.WithoutWebsite)
	})
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	path, err := exporter.Write(summary)
	if err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	summaryPath, err := exporter.WriteSummary(summary, stem)
	if err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}

	var messagesPath string
	if !*skipMessages {
		generator := message.NewGenerator(cfg.Sender, *city)
		messagesPath = filepath.Join(*outputDir, stem+"_wiadomosci.txt")
		f, err := os.Create(messagesPath)
		if err != nil {
			log.Fatalf("failed to create messages file: %v", err)
		}
		if err := generator.WriteAll(f, summary.Businesses, time.Now()); err != nil {
			f.Close()
			log.Fatalf("failed to write messages: %v", err)
		}
		f.Close()
	}

	if cfg.SheetsSpreadsheet != "" {
		sheetsExporter, err := export.NewSheetsExporter(ctx, cfg.SheetsSpreadsheet)
		if err != nil {
			log.Printf("level=warn msg=\"sheets export unavailable\" err=%v", err)
		} else if err := sheetsExporter.Export(ctx, summary); err != nil {
			log.Printf("level=warn msg=\"sheets export failed\" err=%v", err)
		} else {
			log.Printf("level=info msg=\"sheets export complete\" spreadsheet=%s", cfg.SheetsSpreadsheet)
		}
	}

	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Printf("level=warn msg=\"database unavailable, results kept in files\" err=%v", err)
		} else {
			repo := repository.NewPGXBusinessesRepository(pool)
			saved, err := repo.SaveScanCounted(ctx, summary.Businesses)
			if err != nil {
				log.Printf("level=warn msg=\"failed to save scan\" err=%v", err)
			} else {
				log.Printf("level=info msg=\"scan saved\" inserted=%d updated=%d", saved.Inserted, saved.Updated)
			}
			pool.Close()
		}
	}

	log.Printf("level=info msg=\"scan complete\" businesses=%d without_website=%d file=%s summary=%s",
		len(summary.Businesses), summary.WithoutWebsite, path, summaryPath)
	if messagesPath != "" {
		log.Printf("level=info msg=\"messages written\" file=%s", messagesPath)
	}
}
