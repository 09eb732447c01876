package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: store, ttl: time.Hour}, store
}

func TestManagerGenerateAndRotate(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	token, err := manager.Generate(ctx, "access-123", userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stored := store.data[store.AccessSessionKey("access-123")]; stored != userID.String()+"|"+token {
		t.Fatalf("unexpected stored value %q", stored)
	}

	if _, _, err := manager.Rotate(ctx, "access-123", userID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}
	if _, _, err := manager.Rotate(ctx, "access-123", uuid.New(), token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected refresh by another user to fail, got %v", err)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, "access-123", userID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, exists := store.data[store.AccessSessionKey("access-123")]; exists {
		t.Fatalf("old access key left behind")
	}
	if stored := store.data[store.AccessSessionKey(newAccessID)]; stored != userID.String()+"|"+newToken {
		t.Fatalf("expected new token stored, got %q", stored)
	}

	if _, _, err := manager.Rotate(ctx, "access-123", userID, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected replayed refresh to fail, got %v", err)
	}
}

func TestManagerHasSessionAndRevoke(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "jti", uuid.New()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := manager.HasSession(ctx, "jti")
	if err != nil || !ok {
		t.Fatalf("expected live session, got %v %v", ok, err)
	}
	if err := manager.Revoke(ctx, "jti"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, "jti")
	if err != nil || ok {
		t.Fatalf("expected revoked session, got %v %v", ok, err)
	}
	if _, err := manager.HasSession(ctx, " "); err == nil {
		t.Fatalf("expected blank access id to error")
	}
}

func TestManagerGenerateValidation(t *testing.T) {
	manager, _ := newTestManager()
	if _, err := manager.Generate(context.Background(), "", uuid.New()); err == nil {
		t.Fatalf("expected missing access id error")
	}
	if _, err := manager.Generate(context.Background(), "jti", uuid.Nil); err == nil {
		t.Fatalf("expected missing user id error")
	}
}
