package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fintrackhq/fintrack-backend/internal/adapter/httpapi"
	"github.com/fintrackhq/fintrack-backend/internal/adapter/repository/postgres"
	"github.com/fintrackhq/fintrack-backend/internal/config"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/assets"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/deposit"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/goal"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/holding"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/sip"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/summary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg.LogLevel)

	// 1. Database
	db, err := postgres.NewDB(cfg.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	// 2. Repositories and ledgers
	accountRepo := postgres.NewAccountRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	coverRepo := postgres.NewCoverRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	fixedRepo := postgres.NewFixedDepositRepository(db)
	recurringRepo := postgres.NewRecurringDepositRepository(db)
	sipRepo := postgres.NewSIPRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)

	accountLedger := postgres.NewAccountSnapshotLedger(db)
	assetLedger := postgres.NewAssetSnapshotLedger(db)
	coverLedger := postgres.NewCoverSnapshotLedger(db)
	goalLedger := postgres.NewGoalSnapshotLedger(db)
	fixedLedger := postgres.NewFixedDepositLedger(db)
	recurringLedger := postgres.NewRecurringDepositLedger(db)
	sipLedger := postgres.NewSIPLedger(db)
	holdingLedger := postgres.NewHoldingLedger(db)

	// 3. Services
	accountService := assets.NewAccountService(accountRepo, accountLedger, db, log)
	assetService := assets.NewAssetService(assetRepo, assetLedger, db, log)
	coverService := assets.NewCoverService(coverRepo, coverLedger, db, log)
	goalService := goal.NewService(goalRepo, goalLedger, db, log)
	fixedService := deposit.NewFixedService(fixedRepo, fixedLedger, db, log)
	recurringService := deposit.NewRecurringService(recurringRepo, recurringLedger, db, log)
	sipService := sip.NewService(sipRepo, sipLedger, db, log)
	holdingService := holding.NewService(holdingRepo, holdingLedger, db, log)
	summaryService := summary.NewService(accountRepo, assetRepo, coverRepo, goalRepo,
		fixedRepo, recurringRepo, sipRepo, holdingRepo)

	// 4. HTTP server
	defaultOwner := uuid.Nil
	if cfg.DefaultOwnerID != "" {
		defaultOwner, err = uuid.Parse(cfg.DefaultOwnerID)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid DEFAULT_OWNER_ID")
		}
	}

	server := httpapi.New(httpapi.Config{
		Port:         cfg.HTTPPort,
		APIToken:     cfg.APIToken,
		DefaultOwner: defaultOwner,
		Log:          log,
		Accounts:     accountService,
		Assets:       assetService,
		Covers:       coverService,
		Goals:        goalService,
		Fixed:        fixedService,
		Recurring:    recurringService,
		SIPs:         sipService,
		Holdings:     holdingService,
		Summary:      summaryService,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	waitForShutdown(server, log)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *httpapi.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
