package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/service/token"
	tokenstore "github.com/pandodao/walletflow/store/token"
)

type failingTokens struct{}

func (failingTokens) List(context.Context) ([]*core.TokenRef, error) {
	return nil, errors.New("provider down")
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := tokenstore.New()

	tokenz := token.New(token.Config{Tokens: []token.Entry{
		{Symbol: "XL3", Name: "XL3 Token", Balance: "100.50", USDValue: "2"},
		{Symbol: "USDC", Balance: "1500000", Atomic: true, Decimals: 6},
	}})

	w := New(tokenz, tokens, logger, Config{Interval: time.Minute})
	if err := w.Sync(ctx); err != nil {
		t.Fatalf("Sync() err = %v", err)
	}

	list, err := tokens.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List() = %v, %v", list, err)
	}

	usdc, err := tokens.Find(ctx, "usdc")
	if err != nil || usdc.Balance != "1.5" {
		t.Errorf("Find(usdc) = %+v, %v", usdc, err)
	}

	// a failing provider keeps the last snapshot
	if err := New(failingTokens{}, tokens, logger, Config{Interval: time.Minute}).Sync(ctx); err == nil {
		t.Error("Sync() with failing provider err = nil")
	}

	if list, _ := tokens.List(ctx); len(list) != 2 {
		t.Errorf("snapshot lost after failed sync: %d tokens", len(list))
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tokens := tokenstore.New()
	w := New(token.New(token.Config{Tokens: []token.Entry{{Symbol: "XL3", Balance: "1"}}}),
		tokens, slog.New(slog.NewTextHandler(io.Discard, nil)), Config{Interval: time.Hour})

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for {
		if list, _ := tokens.List(ctx); len(list) == 1 {
			break
		}

		if time.Now().After(deadline) {
			t.Fatal("Run() never synced")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() err = %v", err)
	}
}
