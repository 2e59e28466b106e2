package callcontext

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestBegin(t *testing.T) {
	ctx := Begin(context.Background(), "create")

	id, ok := GetCallID(ctx)
	if !ok || id == uuid.Nil {
		t.Fatalf("expected call id, got %v", id)
	}
	if method, _ := GetAPIMethod(ctx); method != "create" {
		t.Fatalf("unexpected method %q", method)
	}
	if Elapsed(ctx) < 0 {
		t.Fatalf("negative elapsed")
	}
	if got := len(Fields(ctx)); got != 3 {
		t.Fatalf("expected 3 fields, got %d", got)
	}
}

func TestBeginKeepsCallID(t *testing.T) {
	outer := Begin(context.Background(), "getMeetings")
	inner := Begin(outer, "end")

	a, _ := GetCallID(outer)
	b, _ := GetCallID(inner)
	if a != b {
		t.Fatalf("call id changed: %s != %s", a, b)
	}
	if method, _ := GetAPIMethod(inner); method != "end" {
		t.Fatalf("unexpected method %q", method)
	}
}

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetCallID(ctx); ok {
		t.Fatalf("unexpected call id")
	}
	if Elapsed(ctx) != 0 {
		t.Fatalf("expected zero elapsed")
	}
	if len(Fields(ctx)) != 0 {
		t.Fatalf("expected no fields")
	}
}
