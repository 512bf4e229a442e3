package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"trimatch/internal/domain"
	"trimatch/internal/service"
	"trimatch/mocks"
)

func TestMatchQueueWorker_DispatchesClaimedInvoices(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := new(mocks.MockMatchService)

	claimed := domain.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-100",
		Status:        domain.StatusMatching,
	}
	repo.On("ClaimPending", mock.Anything, 2).
		Return([]domain.Invoice{claimed}, nil).Once()
	repo.On("ClaimPending", mock.Anything, 2).
		Return([]domain.Invoice{}, nil)

	dispatched := make(chan uuid.UUID, 1)
	svc.On("RunMatch", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) {
			dispatched <- args.Get(1).(*domain.Invoice).ID
		}).
		Once()

	worker := service.NewMatchQueueWorker(repo, svc, service.MatchQueueConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	select {
	case id := <-dispatched:
		assert.Equal(t, claimed.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("worker never dispatched the claimed invoice")
	}

	cancel()
	wg.Wait()
	svc.AssertExpectations(t)
}

func TestMatchQueueWorker_StopsOnCancel(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := new(mocks.MockMatchService)
	repo.On("ClaimPending", mock.Anything, mock.Anything).Return([]domain.Invoice{}, nil)

	worker := service.NewMatchQueueWorker(repo, svc, service.MatchQueueConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
	svc.AssertNotCalled(t, "RunMatch", mock.Anything, mock.Anything)
}
