package ctxutil

import (
	"context"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")
	if got := RunIDFromContext(ctx); got != "run-123" {
		t.Errorf("RunIDFromContext = %q, want %q", got, "run-123")
	}
}

func TestRunIDFromContext_Unset(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("RunIDFromContext = %q, want empty", got)
	}
}

func TestClientRoundTrip(t *testing.T) {
	ctx := WithClient(context.Background(), "acme")
	if got := ClientFromContext(ctx); got != "acme" {
		t.Errorf("ClientFromContext = %q, want %q", got, "acme")
	}
	if got := ClientFromContext(context.Background()); got != "" {
		t.Errorf("ClientFromContext = %q, want empty", got)
	}
}
