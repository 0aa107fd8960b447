package ports

import "context"

// StoredResponse contains the response data to replay for a reused key.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	OrderID    string
}

// IdempotencyStore lets checkout requests be retried safely. A caller first
// reserves the key; the single request that wins the reservation runs the
// checkout and saves its response, every other request replays the stored
// response once it appears.
type IdempotencyStore interface {
	// Reserve claims the key for the calling request. It reports false when
	// the key is already reserved or completed.
	Reserve(ctx context.Context, key string) (bool, error)

	// Get returns the completed response for a key, or nil when the key is
	// absent or still reserved by an in-flight request.
	Get(ctx context.Context, key string) (*StoredResponse, error)

	// Save completes a reserved key with the response to replay.
	Save(ctx context.Context, key string, response StoredResponse) error

	// Release frees a reserved key after a failed checkout so a retry can
	// claim it again. Completed keys are never released.
	Release(ctx context.Context, key string) error
}
