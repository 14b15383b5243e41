package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/moradafish/dashboard/internal/config"
	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/repository/memory"
	"github.com/moradafish/dashboard/internal/repository/mongodb"
	"github.com/moradafish/dashboard/internal/repository/sheets"
	"github.com/moradafish/dashboard/internal/scheduler"
	"github.com/moradafish/dashboard/internal/server/handlers"
	"github.com/moradafish/dashboard/internal/server/router"
	importersvc "github.com/moradafish/dashboard/internal/service/importer"
	ledgersvc "github.com/moradafish/dashboard/internal/service/ledger"
	"github.com/moradafish/dashboard/internal/service/live"
	"github.com/moradafish/dashboard/internal/service/notify"
	reportingsvc "github.com/moradafish/dashboard/internal/service/reporting"
	"github.com/moradafish/dashboard/internal/service/staff"
	whatsappclient "github.com/moradafish/dashboard/pkg/clients/whatsapp"
	"github.com/moradafish/dashboard/pkg/logger"
)

// store is what every backend selectable by STORE_DRIVER provides.
type store interface {
	UpsertLedger(ctx context.Context, rec models.LedgerRecord) (bool, error)
	GetLedger(ctx context.Context, key string) (models.LedgerRecord, error)
	DeleteLedger(ctx context.Context, key string) error
	ListLedger(ctx context.Context, from, to string) ([]models.LedgerRecord, error)
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
	ListSamples(ctx context.Context, from, to string) ([]models.ScalingSample, error)
	SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error
	Watch(ctx context.Context, collection string) (<-chan struct{}, error)
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db store
	switch cfg.Store.Driver {
	case config.StoreMemory:
		baseLogger.Warn("using in-memory store, data is lost on restart")
		db = memory.NewStore()
	default:
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		db = mongoRepo
	}

	var sheetsRepo *sheets.GoogleSheetRepository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger)
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("google sheets credentials missing, sheet import and report export disabled")
	}

	var notifier notify.Notifier = notify.NewLogNotifier(baseLogger)
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = notify.NewWhatsAppNotifier(whatsClient, cfg.WhatsApp.ReportTo, baseLogger)
		baseLogger.Info("whatsapp report delivery enabled")
	}

	projector := live.NewProjector(db, baseLogger)
	if err := projector.Refresh(ctx); err != nil {
		baseLogger.Error("initial projection failed", zap.Error(err))
	}
	go func() {
		if err := projector.Run(ctx); err != nil {
			baseLogger.Error("live projections stopped", zap.Error(err))
		}
	}()

	resolver := staff.NewResolver(cfg.Import.FuzzyTolerance)
	importOpts := importersvc.Options{MaxErrors: cfg.Import.MaxErrors, PendingTTL: cfg.Import.PendingTTL}

	// Assigning a nil *GoogleSheetRepository would produce a non-nil interface.
	var grids importersvc.GridReader
	var reportSheet reportingsvc.RowWriter
	if sheetsRepo != nil {
		grids = sheetsRepo
		reportSheet = sheetsRepo
	}

	importSvc := importersvc.NewService(db, projector, resolver, grids, importOpts, baseLogger)
	ledgerSvc := ledgersvc.NewService(db, projector, baseLogger)
	reportingSvc := reportingsvc.NewService(ledgerSvc, db, reportSheet, cfg.Sheets.ReportRange, notifier, baseLogger)

	reportLoc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid reporting timezone", zap.Error(err))
	}

	yieldHandler := handlers.NewYieldHandler(importSvc, ledgerSvc, projector, resolver, reportingSvc, baseLogger).
		WithLocation(reportLoc)
	engine := router.New(yieldHandler, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
