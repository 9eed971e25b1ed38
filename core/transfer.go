package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Transfer struct {
	TraceID   string          `json:"trace_id"`
	CreatedAt time.Time       `json:"created_at"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token,omitempty"`
	Memo      string          `json:"memo,omitempty"`
}

type Receipt struct {
	TraceID     string    `json:"trace_id"`
	TxHash      string    `json:"tx_hash"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TransferService hands a confirmed transfer to the wallet backend.
type TransferService interface {
	Submit(ctx context.Context, transfer *Transfer) (*Receipt, error)
}
