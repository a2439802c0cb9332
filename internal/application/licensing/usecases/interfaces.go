package usecases

import "context"

// TransactionManager runs a function inside a database transaction. The
// shared db.TransactionManager satisfies this; tests substitute a fake that
// simply invokes the function.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
