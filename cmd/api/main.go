package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/lead-scanner/internal/auth"
	"github.com/octobees/lead-scanner/internal/config"
	"github.com/octobees/lead-scanner/internal/database"
	"github.com/octobees/lead-scanner/internal/export"
	"github.com/octobees/lead-scanner/internal/extract"
	"github.com/octobees/lead-scanner/internal/handler"
	"github.com/octobees/lead-scanner/internal/message"
	middlewarepkg "github.com/octobees/lead-scanner/internal/middleware"
	"github.com/octobees/lead-scanner/internal/repository"
	"github.com/octobees/lead-scanner/internal/router"
	"github.com/octobees/lead-scanner/internal/scrape"
	"github.com/octobees/lead-scanner/internal/service"
	"github.com/octobees/lead-scanner/internal/webcheck"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
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

	scanner := service.NewScannerService(sources, checker, cfg.City, cfg.MaxPerIndustry)

	exporter, err := export.New(cfg.OutputDir, cfg.OutputFormat)
	if err != nil {
		log.Fatalf("failed to configure exporter: %v", err)
	}

	var businessesHandler *handler.BusinessesHandler
	var store service.BusinessStore
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()

		repo := repository.NewPGXBusinessesRepository(pool)
		store = repo
		businessesHandler = handler.NewBusinessesHandler(repo)
	} else {
		log.Printf("level=warn msg=\"DATABASE_URL not set, scan results are written to files only\"")
	}

	jobs := service.NewJobManager(scanner, exporter, store)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, jwtManager)
	generator := message.NewGenerator(cfg.Sender, cfg.City)

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Scan:       handler.NewScanHandler(jobs, cfg.Industries),
		Businesses: businessesHandler,
		Messages:   handler.NewMessagesHandler(jobs, generator),
		Check:      handler.NewCheckHandler(checker),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
