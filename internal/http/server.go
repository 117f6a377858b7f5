package http

import (
	"context"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/metrics"
	"fintrack/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// TransactionStore is the inbound port the transaction handlers use.
type TransactionStore interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
	Update(ctx context.Context, id string, patch storage.TransactionPatch) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// CategoryStore is the inbound port the category handlers use.
type CategoryStore interface {
	List() []string
	Add(name string) ([]string, error)
}

// Suggester proposes a category for a description. Optional.
type Suggester interface {
	Suggest(ctx context.Context, description string, categories []string) (string, error)
}

type Server struct {
	http.Server

	transactions TransactionStore
	categories   CategoryStore
	suggester    Suggester
	metrics      *metrics.Metrics
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Suggester      Suggester
	AllowedOrigins []string
}

// NewServer wires routes, CORS and observability, returning a
// ready-to-run server.
func NewServer(addr string, txs TransactionStore, cats CategoryStore, m *metrics.Metrics, opts Options) *Server {
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		transactions: txs,
		categories:   cats,
		suggester:    opts.Suggester,
		metrics:      m,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)
	mux.HandleFunc("POST /api/categories/suggest", s.handleSuggestCategory)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: c.Handler(s.withObservability(mux)),
	}
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady verifies the storage dependency with a cheap list call.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.transactions.List(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
