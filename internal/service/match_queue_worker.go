package service

import (
	"context"
	"log"
	"sync"
	"time"

	"trimatch/internal/port"
)

// MatchQueueConfig holds settings for the match queue worker.
type MatchQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// MatchQueueWorker polls for pending invoices and dispatches them to the
// match service.
type MatchQueueWorker struct {
	invoiceRepo  port.InvoiceRepository
	matchService MatchService
	cfg          MatchQueueConfig
	wg           sync.WaitGroup
}

// NewMatchQueueWorker creates a new MatchQueueWorker.
func NewMatchQueueWorker(invoiceRepo port.InvoiceRepository, matchService MatchService, cfg MatchQueueConfig) *MatchQueueWorker {
	return &MatchQueueWorker{
		invoiceRepo:  invoiceRepo,
		matchService: matchService,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight match runs have finished.
func (w *MatchQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("matchQueueWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("matchQueueWorker: shutting down, waiting for in-flight runs...")
			w.wg.Wait()
			log.Printf("matchQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			invoices, err := w.invoiceRepo.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("matchQueueWorker: ClaimPending error: %v", err)
				continue
			}

			for i := range invoices {
				inv := invoices[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight runs complete even during shutdown.
					runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
					defer cancel()

					log.Printf("matchQueueWorker: dispatching invoice %s (%s)", inv.ID, inv.InvoiceNumber)
					w.matchService.RunMatch(runCtx, &inv)
				}()
			}
		}
	}
}
