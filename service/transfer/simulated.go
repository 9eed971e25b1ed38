package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pandodao/walletflow/core"
)

var ErrRejected = errors.New("transfer rejected by backend")

type Config struct {
	Latency time.Duration
	// Reject makes every submission fail, to exercise the failure path.
	Reject bool
}

// NewSimulated stands in for the wallet backend: it waits Latency and returns a
// receipt whose hash is derived from the trace id.
func NewSimulated(cfg Config) core.TransferService {
	return &simulated{cfg: cfg}
}

type simulated struct {
	cfg Config
}

func (s *simulated) Submit(ctx context.Context, transfer *core.Transfer) (*core.Receipt, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.cfg.Latency):
	}

	if s.cfg.Reject {
		return nil, ErrRejected
	}

	hash := crypto.Keccak256Hash([]byte(transfer.TraceID), []byte(transfer.Recipient), []byte(transfer.Amount.String()))
	return &core.Receipt{
		TraceID:     transfer.TraceID,
		TxHash:      hash.Hex(),
		SubmittedAt: time.Now(),
	}, nil
}
