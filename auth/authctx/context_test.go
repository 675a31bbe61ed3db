package authctx

import (
	"context"
	"testing"
	"time"

	"github.com/busline/gateway/auth"
)

func TestSetGet(t *testing.T) {
	claims := auth.NewClaims("alice", []string{"user"}, nil, time.Hour, time.Now())
	p := &Principal{Claims: claims, Source: auth.SourceBearer}

	ctx := Set(context.Background(), p)

	got, ok := Get(ctx)
	if !ok {
		t.Fatal("expected principal in context")
	}
	if got.Claims.Subject != "alice" {
		t.Errorf("expected subject alice, got %s", got.Claims.Subject)
	}
	if got.Source != auth.SourceBearer {
		t.Errorf("expected bearer source, got %s", got.Source)
	}
}

func TestGetMissing(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("expected no principal in empty context")
	}
	if _, err := GetOrError(context.Background()); err != ErrNoPrincipal {
		t.Errorf("expected ErrNoPrincipal, got %v", err)
	}
}

func TestMustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing principal")
		}
	}()
	MustGet(context.Background())
}
