package main

import (
	"log"
	"log/slog"

	"github.com/akapur/autosplit/internal/config"
	"github.com/akapur/autosplit/internal/db"
	"github.com/akapur/autosplit/internal/extract"
	claudeextract "github.com/akapur/autosplit/internal/extract/claude"
	tessdextract "github.com/akapur/autosplit/internal/extract/tessd"
	"github.com/akapur/autosplit/internal/logging"
	"github.com/akapur/autosplit/internal/payments"
	"github.com/akapur/autosplit/internal/scanstore/local"
	"github.com/akapur/autosplit/internal/service"
	"github.com/akapur/autosplit/internal/store"
	"github.com/akapur/autosplit/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	groupStore := store.NewGroupStore(database)
	billStore := store.NewBillStore(database)
	itemStore := store.NewItemStore(database)
	assignStore := store.NewAssignmentStore(database)

	extractor := newTextExtractor(cfg, logger)
	if extractor == nil {
		return
	}

	scanStg, err := local.NewLocalScanStore(cfg.ScanPath)
	if err != nil {
		logger.Error("failed to initialize scan store", "error", err)
		return
	}

	var stripe *payments.StripeClient
	if cfg.StripeSecretKey != "" {
		stripe = payments.NewStripeClient(cfg.StripeSecretKey)
	} else {
		logger.Info("stripe payments disabled, STRIPE_SECRET_KEY not set")
	}

	server := web.NewServer(
		service.NewGroupService(groupStore, billStore, assignStore, logger),
		service.NewBillService(groupStore, billStore, extractor, scanStg, logger),
		service.NewSplitService(itemStore, assignStore, logger),
		stripe,
		cfg.StripePublicKey,
		cfg.Currency,
		cfg.AllowedOrigin,
		logger,
	)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newTextExtractor(cfg *config.Config, logger *slog.Logger) extract.TextExtractor {
	switch cfg.ExtractBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when EXTRACT_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude extraction backend")
		return claudeextract.NewClaudeExtractor(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		logger.Info("using tesseract extraction backend", "host", cfg.TessdHost)
		return tessdextract.NewTessdExtractor(cfg.TessdHost)
	}
}
