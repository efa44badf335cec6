package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestLock_OwnerID_Unique(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)

	if lock1.OwnerID() == "" {
		t.Error("expected non-empty owner ID")
	}
	if lock1.OwnerID() == lock2.OwnerID() {
		t.Errorf("expected unique owner IDs, got same: %s", lock1.OwnerID())
	}
}

func TestLock_Acquire(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	acquired, err := lock1.Acquire(ctx, "session-sweeper", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatal("expected first lock to acquire")
	}

	acquired, err = lock2.Acquire(ctx, "session-sweeper", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Error("expected second lock to fail")
	}

	acquired, _ = lock1.Acquire(ctx, "session-sweeper", 10*time.Second)
	if acquired {
		t.Error("expected reentrant acquire to fail")
	}

	// The lock expires on its own.
	mr.FastForward(11 * time.Second)
	acquired, _ = lock2.Acquire(ctx, "session-sweeper", 10*time.Second)
	if !acquired {
		t.Error("expected acquire after TTL expiry")
	}
}

func TestLock_Release(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	lock1 := NewLock(client)
	lock2 := NewLock(client)
	ctx := context.Background()

	if err := lock1.Release(ctx, "not-held"); err != nil {
		t.Errorf("unexpected error releasing unheld lock: %v", err)
	}

	_, _ = lock1.Acquire(ctx, "session-sweeper", 10*time.Second)

	// Another owner cannot release it.
	if err := lock2.Release(ctx, "session-sweeper"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists(lockPrefix + "session-sweeper") {
		t.Fatal("expected lock to survive release by another owner")
	}

	if err := lock1.Release(ctx, "session-sweeper"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(lockPrefix + "session-sweeper") {
		t.Error("expected lock to be released")
	}
}

func TestLock_Ping(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	if err := NewLock(client).Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
