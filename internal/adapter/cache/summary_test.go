package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if got := key("workshop"); got != "summary:workshop" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestGetUnreachableRedisIsMiss(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	c := New("127.0.0.1:1", time.Second, logger)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if summary, ok := c.Get(ctx, "workshop"); ok || summary != nil {
		t.Fatalf("expected miss on unreachable redis, got %v %v", summary, ok)
	}
}

func TestSetUnreachableRedisDoesNotPanic(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	c := New("127.0.0.1:1", time.Second, logger)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	c.Set(ctx, "workshop", nil)
}
