package sheets

import (
	"context"

	"fintrack/internal/core"
)

// TransactionAppender writes one exported transaction row.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
}
