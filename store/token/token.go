package token

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pandodao/generic"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/store"
)

// New returns the in-memory token snapshot the syncer keeps fresh.
func New() core.TokenStore {
	return &tokenStore{}
}

type tokenStore struct {
	mux    sync.RWMutex
	tokens []*core.TokenRef
	index  map[string]int
}

func cloneToken(t *core.TokenRef) *core.TokenRef {
	v := *t
	return &v
}

func (s *tokenStore) Save(_ context.Context, tokens []*core.TokenRef) error {
	index := make(map[string]int, len(tokens))
	for i, t := range tokens {
		key := strings.ToUpper(t.Symbol)
		if _, ok := index[key]; ok {
			return fmt.Errorf("duplicate token symbol %s", t.Symbol)
		}

		index[key] = i
	}

	snapshot := generic.MapSlice(tokens, cloneToken)

	s.mux.Lock()
	s.tokens = snapshot
	s.index = index
	s.mux.Unlock()

	return nil
}

func (s *tokenStore) List(_ context.Context) ([]*core.TokenRef, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return generic.MapSlice(s.tokens, cloneToken), nil
}

func (s *tokenStore) Find(_ context.Context, symbol string) (*core.TokenRef, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	idx, ok := s.index[strings.ToUpper(symbol)]
	if !ok {
		return nil, store.ErrNotFound
	}

	return cloneToken(s.tokens[idx]), nil
}
