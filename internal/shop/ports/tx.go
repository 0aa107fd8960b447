package ports

import "context"

// Transactor runs fn atomically. Repository calls made with the context passed
// to fn join the same transaction; when fn returns an error everything rolls
// back. Every composite lifecycle operation runs under InTx so stock and
// aggregate writes commit or vanish together.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
