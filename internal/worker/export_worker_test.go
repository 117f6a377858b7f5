package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/metrics"
)

type fakeGetter struct {
	transactions map[string]core.Transaction
	err          error
}

func (f *fakeGetter) Get(ctx context.Context, id string) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

type fakeAppender struct {
	appended []core.Transaction
	err      error
}

func (f *fakeAppender) AppendTransaction(ctx context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, t)
	return nil
}

func storedTx(id string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      core.Money{Cents: -5000},
		Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: "Groceries",
		Category:    "Food",
		Version:     2,
	}
}

func TestHandleEventExportsCreated(t *testing.T) {
	getter := &fakeGetter{transactions: map[string]core.Transaction{"tx-1": storedTx("tx-1")}}
	appender := &fakeAppender{}
	m := metrics.New()
	w := NewExportWorker(getter, appender, m)

	ev := amqp.NewTransactionEvent("tx-1", amqp.OpCreated, 1)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(appender.appended) != 1 || appender.appended[0].ID != "tx-1" {
		t.Errorf("appended = %+v", appender.appended)
	}
	// The current row is exported even when the event version is stale.
	if appender.appended[0].Version != 2 {
		t.Errorf("exported version = %d, want current row version 2", appender.appended[0].Version)
	}
	if got := testutil.ToFloat64(m.ExportsTotal.WithLabelValues("exported")); got != 1 {
		t.Errorf("exported counter = %v, want 1", got)
	}
}

func TestHandleEventDeletedSkipsExport(t *testing.T) {
	appender := &fakeAppender{}
	w := NewExportWorker(&fakeGetter{}, appender, nil)

	ev := amqp.NewTransactionEvent("tx-1", amqp.OpDeleted, 0)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Error("delete events must not append rows")
	}
}

func TestHandleEventVanishedRow(t *testing.T) {
	getter := &fakeGetter{transactions: map[string]core.Transaction{}}
	appender := &fakeAppender{}
	w := NewExportWorker(getter, appender, nil)

	ev := amqp.NewTransactionEvent("gone", amqp.OpUpdated, 1)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent = %v, vanished rows are not retryable", err)
	}
	if len(appender.appended) != 0 {
		t.Error("nothing should be appended for a vanished row")
	}
}

func TestHandleEventStorageErrorRetries(t *testing.T) {
	getter := &fakeGetter{err: errors.New("database is locked")}
	w := NewExportWorker(getter, &fakeAppender{}, nil)

	ev := amqp.NewTransactionEvent("tx-1", amqp.OpCreated, 1)
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Fatal("storage errors must propagate so the consumer requeues")
	}
}

func TestHandleEventAppendErrorRetries(t *testing.T) {
	getter := &fakeGetter{transactions: map[string]core.Transaction{"tx-1": storedTx("tx-1")}}
	appender := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewExportWorker(getter, appender, nil)

	ev := amqp.NewTransactionEvent("tx-1", amqp.OpCreated, 1)
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Fatal("append errors must propagate so the consumer requeues")
	}
}

func TestHandleEventUnknownOpDropped(t *testing.T) {
	appender := &fakeAppender{}
	w := NewExportWorker(&fakeGetter{}, appender, nil)

	ev := amqp.NewTransactionEvent("tx-1", "archived", 1)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent = %v, unknown ops are dropped", err)
	}
	if len(appender.appended) != 0 {
		t.Error("unknown ops must not append rows")
	}
}
