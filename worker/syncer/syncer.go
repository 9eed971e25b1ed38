package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/walletflow/core"
)

type Config struct {
	Interval time.Duration `valid:"required"`
}

func New(
	tokenz core.TokenService,
	tokens core.TokenStore,
	logger *slog.Logger,
	cfg Config,
) *Syncer {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &Syncer{
		tokenz: tokenz,
		tokens: tokens,
		logger: logger.With("worker", "syncer"),
		cfg:    cfg,
	}
}

// Syncer refreshes the token snapshot from the balance provider.
type Syncer struct {
	tokenz core.TokenService
	tokens core.TokenStore
	logger *slog.Logger
	cfg    Config
}

func (w *Syncer) Run(ctx context.Context) error {
	w.logger.Info("syncer start", "interval", w.cfg.Interval)

	for {
		dur := w.cfg.Interval
		if w.Sync(ctx) != nil {
			dur = time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
		}
	}
}

// Sync replaces the stored token list with the provider's current list.
func (w *Syncer) Sync(ctx context.Context) error {
	tokens, err := w.tokenz.List(ctx)
	if err != nil {
		w.logger.Error("tokenz.List", "err", err)
		return err
	}

	if len(tokens) == 0 {
		return fmt.Errorf("no tokens listed")
	}

	if err := w.tokens.Save(ctx, tokens); err != nil {
		w.logger.Error("tokens.Save", "err", err)
		return err
	}

	w.logger.Debug("tokens synced", "count", len(tokens))
	return nil
}
