package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// TransactionRepository is the slice of storage the service needs.
type TransactionRepository interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Get(ctx context.Context, id string) (core.Transaction, error)
	Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
	Update(ctx context.Context, id string, patch storage.TransactionPatch) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher emits change notifications for the export pipeline.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService persists first, then publishes a best-effort change
// event. A publish failure never fails the request: the write already
// succeeded and the worker reconciles from storage.
type TransactionService struct {
	repo      TransactionRepository
	publisher EventPublisher
}

func NewTransactionService(repo TransactionRepository, publisher EventPublisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.repo.List(ctx)
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.repo.Get(ctx, id)
}

// Create validates, assigns a fresh id and persists the transaction.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = core.NewTransactionID()

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionEvent(created.ID, amqp.OpCreated, created.Version))
	return created, nil
}

// Update applies a partial update addressed by id.
func (s *TransactionService) Update(ctx context.Context, id string, patch storage.TransactionPatch) (core.Transaction, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.NewTransactionEvent(updated.ID, amqp.OpUpdated, updated.Version))
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.NewTransactionEvent(id, amqp.OpDeleted, 0))
	return nil
}

func (s *TransactionService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", event.ID, "op", event.Op, "error", err)
	}
}
