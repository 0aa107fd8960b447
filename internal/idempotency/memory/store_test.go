package memory_test

import (
	"context"
	"testing"

	"github.com/jshop/jshop/internal/idempotency/memory"
	"github.com/jshop/jshop/internal/shop/ports"
)

func TestStoreReserve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	acquired, err := store.Reserve(ctx, "key-1")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !acquired {
		t.Fatal("expected first reservation to win")
	}

	acquired, err = store.Reserve(ctx, "key-1")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if acquired {
		t.Error("expected second reservation to lose")
	}

	// A reserved key has no response to replay yet.
	resp, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp != nil {
		t.Errorf("expected nil response for a pending key, got %+v", resp)
	}
}

func TestStoreSaveCompletesReservation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	if _, err := store.Reserve(ctx, "key-1"); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	response := ports.StoredResponse{StatusCode: 201, Body: []byte(`{"order":{"id":"order-1"}}`), OrderID: "order-1"}
	if err := store.Save(ctx, "key-1", response); err != nil {
		t.Fatalf("save: %v", err)
	}

	resp, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp == nil || resp.OrderID != "order-1" {
		t.Fatalf("expected stored response, got %+v", resp)
	}

	// A completed key can neither be re-reserved nor overwritten.
	acquired, err := store.Reserve(ctx, "key-1")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if acquired {
		t.Error("expected completed key to stay claimed")
	}
	if err := store.Save(ctx, "key-1", ports.StoredResponse{StatusCode: 200, OrderID: "order-2"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	resp, err = store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.OrderID != "order-1" {
		t.Errorf("expected first response preserved, got order ID %s", resp.OrderID)
	}
}

func TestStoreReleaseFreesPendingKeyOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	if _, err := store.Reserve(ctx, "key-1"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := store.Release(ctx, "key-1"); err != nil {
		t.Fatalf("release: %v", err)
	}

	acquired, err := store.Reserve(ctx, "key-1")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !acquired {
		t.Error("expected released key to be reservable again")
	}

	if err := store.Save(ctx, "key-1", ports.StoredResponse{StatusCode: 201, OrderID: "order-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Release(ctx, "key-1"); err != nil {
		t.Fatalf("release: %v", err)
	}

	resp, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp == nil {
		t.Error("expected completed response to survive a release")
	}
}
