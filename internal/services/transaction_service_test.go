package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakeRepo struct {
	transactions map[string]core.Transaction
	createErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{transactions: make(map[string]core.Transaction)}
}

func (f *fakeRepo) List(ctx context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (core.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	t.Version = 1
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, patch storage.TransactionPatch) (core.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	t.Version++
	f.transactions[id] = t
	return t, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

type fakePublisher struct {
	events []*amqp.TransactionEvent
	err    error
}

func (f *fakePublisher) PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func validInput() core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: -5000},
		Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: "Groceries",
		Category:    "Food",
	}
}

func TestCreateAssignsIDAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewTransactionService(repo, pub)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("no id assigned")
	}

	other, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if other.ID == created.ID {
		t.Error("ids must be fresh per create")
	}

	if len(pub.events) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.events))
	}
	if pub.events[0].Op != amqp.OpCreated || pub.events[0].ID != created.ID {
		t.Errorf("event = %+v", pub.events[0])
	}
}

func TestCreateDefaultsCategory(t *testing.T) {
	svc := NewTransactionService(newFakeRepo(), nil)

	in := validInput()
	in.Category = ""
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Category != core.DefaultCategory {
		t.Errorf("category = %q, want %q", created.Category, core.DefaultCategory)
	}
}

func TestCreateValidationSkipsRepo(t *testing.T) {
	repo := newFakeRepo()
	svc := NewTransactionService(repo, nil)

	in := validInput()
	in.Description = ""
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("Create = %v, want ErrEmptyDescription", err)
	}
	if len(repo.transactions) != 0 {
		t.Error("invalid transaction reached the repository")
	}
}

func TestCreatePublishFailureTolerated(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(repo, pub)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create = %v, publish failures must not fail the request", err)
	}
	if _, ok := repo.transactions[created.ID]; !ok {
		t.Error("transaction not persisted")
	}
}

func TestUpdatePublishes(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewTransactionService(repo, pub)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pub.events = nil

	desc := "Restaurant"
	updated, err := svc.Update(context.Background(), created.ID, storage.TransactionPatch{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "Restaurant" {
		t.Errorf("description = %q", updated.Description)
	}
	if len(pub.events) != 1 || pub.events[0].Op != amqp.OpUpdated || pub.events[0].Version != updated.Version {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestUpdateNotFoundNoEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(newFakeRepo(), pub)

	desc := "x"
	if _, err := svc.Update(context.Background(), "missing", storage.TransactionPatch{Description: &desc}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Update = %v, want ErrNotFound", err)
	}
	if len(pub.events) != 0 {
		t.Error("failed update must not publish")
	}
}

func TestDeletePublishes(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewTransactionService(repo, pub)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pub.events = nil

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Op != amqp.OpDeleted {
		t.Errorf("events = %+v", pub.events)
	}

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
