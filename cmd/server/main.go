package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"trimatch/internal/automation"
	"trimatch/internal/config"
	"trimatch/internal/email/noop"
	"trimatch/internal/email/ses"
	"trimatch/internal/handler"
	"trimatch/internal/match"
	"trimatch/internal/port"
	"trimatch/internal/repository/postgres"
	"trimatch/internal/router"
	"trimatch/internal/service"
	"trimatch/internal/similarity"
	s3storage "trimatch/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	poRepo := postgres.NewPurchaseOrderRepo(db)
	grnRepo := postgres.NewGoodsReceiptRepo(db)
	tolRepo := postgres.NewVendorToleranceRepo(db)
	ruleRepo := postgres.NewAutomationRuleRepo(db)
	dupFinder := postgres.NewDuplicateFinderRepo(db)

	// Initialize the match engine
	engine := match.NewEngine(
		invoiceRepo, poRepo, grnRepo, tolRepo, dupFinder,
		similarity.NewTokenSort(),
		match.Tolerances{
			PricePercent:    cfg.Match.PriceTolerancePercent,
			QuantityPercent: cfg.Match.QuantityTolerancePercent,
		},
	)

	// Initialize notification and archival collaborators
	var sender port.EmailSender
	if cfg.Email.Provider == "ses" {
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		sender = noop.NewNoopSender()
	}
	notifier := service.NewNotifier(sender, cfg.Email.ReviewersTo)

	var archiver *service.TraceArchiver
	if cfg.Archive.Bucket != "" {
		s3Client, err := s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		archiver = service.NewTraceArchiver(s3Client, invoiceRepo, cfg.Archive.Bucket)
	}

	// Initialize services
	executor := automation.NewExecutor(ruleRepo)
	classifier := automation.NewClassifier(cfg.Match.UrgentDueDays, cfg.Match.UrgentAmountThreshold)
	matchSvc := service.NewMatchService(invoiceRepo, engine, executor, classifier, notifier, archiver)
	ingestSvc := service.NewIngestService(poRepo, grnRepo, matchSvc)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(matchSvc)
	poH := handler.NewPurchaseOrderHandler(ingestSvc)
	grnH := handler.NewGoodsReceiptHandler(ingestSvc)
	tolH := handler.NewToleranceHandler(tolRepo)
	ruleH := handler.NewRuleHandler(ruleRepo)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, invoiceH, poH, grnH, tolH, ruleH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the match queue worker
	worker := service.NewMatchQueueWorker(invoiceRepo, matchSvc, service.MatchQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	log.Printf("Shutdown complete")
	return nil
}
