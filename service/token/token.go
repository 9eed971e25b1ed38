package token

import (
	"context"
	"fmt"

	"github.com/pandodao/walletflow/core"
	"github.com/shopspring/decimal"
)

// Entry is one configured token. Atomic balances are integers in the
// token's smallest unit and are normalised with Decimals.
type Entry struct {
	Symbol          string `mapstructure:"symbol"`
	Name            string `mapstructure:"name"`
	Balance         string `mapstructure:"balance"`
	Atomic          bool   `mapstructure:"atomic"`
	USDValue        string `mapstructure:"usd_value"`
	ContractAddress string `mapstructure:"contract_address"`
	Decimals        int32  `mapstructure:"decimals"`
}

type Config struct {
	Tokens []Entry
}

// New returns a balance provider backed by configuration, standing in for the
// wallet backend.
func New(cfg Config) core.TokenService {
	return &service{cfg: cfg}
}

type service struct {
	cfg Config
}

func (s *service) List(_ context.Context) ([]*core.TokenRef, error) {
	tokens := make([]*core.TokenRef, 0, len(s.cfg.Tokens))
	for _, e := range s.cfg.Tokens {
		t, err := e.tokenRef()
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", e.Symbol, err)
		}

		tokens = append(tokens, t)
	}

	return tokens, nil
}

func (e Entry) tokenRef() (*core.TokenRef, error) {
	balance := e.Balance
	if balance == "" {
		balance = "0"
	}

	if e.Decimals < 0 || e.Decimals > core.MaxAmountScale {
		return nil, fmt.Errorf("decimals %d out of range", e.Decimals)
	}

	if e.Atomic {
		b, err := Normalize(balance, e.Decimals)
		if err != nil {
			return nil, err
		}

		balance = b.String()
	} else if d, err := core.ParseAmount(balance); err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", balance, err)
	} else if d.IsNegative() {
		return nil, fmt.Errorf("negative balance %q", balance)
	}

	usd := decimal.Zero
	if e.USDValue != "" {
		v, err := core.ParseAmount(e.USDValue)
		if err != nil {
			return nil, fmt.Errorf("invalid usd value %q: %w", e.USDValue, err)
		}

		usd = v
	}

	if e.ContractAddress != "" && !core.IsValidAddress(e.ContractAddress) {
		return nil, fmt.Errorf("contract address %q: %w", e.ContractAddress, core.ErrInvalidAddressFormat)
	}

	return &core.TokenRef{
		Symbol:          e.Symbol,
		Name:            e.Name,
		Balance:         balance,
		USDValue:        usd,
		ContractAddress: e.ContractAddress,
		Decimals:        e.Decimals,
	}, nil
}
