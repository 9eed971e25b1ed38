package transfer

import (
	"context"
	"sync"

	"github.com/pandodao/walletflow/core"
	"github.com/zyedidia/generic/cache"
	"golang.org/x/sync/singleflight"
)

// Dedupe collapses submissions sharing a trace id: concurrent calls share one
// backend call and a retried trace id that already succeeded gets the cached receipt.
func Dedupe(next core.TransferService) core.TransferService {
	return &dedupe{
		next:     next,
		receipts: cache.New[string, *core.Receipt](256),
	}
}

type dedupe struct {
	next core.TransferService
	sf   singleflight.Group

	receipts *cache.Cache[string, *core.Receipt]
	mux      sync.Mutex
}

func (s *dedupe) Submit(ctx context.Context, transfer *core.Transfer) (*core.Receipt, error) {
	s.mux.Lock()
	v, ok := s.receipts.Get(transfer.TraceID)
	s.mux.Unlock()

	if ok {
		return v, nil
	}

	r, err, _ := s.sf.Do(transfer.TraceID, func() (interface{}, error) {
		receipt, err := s.next.Submit(ctx, transfer)
		if err != nil {
			return nil, err
		}

		s.mux.Lock()
		s.receipts.Put(transfer.TraceID, receipt)
		s.mux.Unlock()

		return receipt, nil
	})

	if err != nil {
		return nil, err
	}

	return r.(*core.Receipt), nil
}
