package core

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// TokenRef is a token balance of the active wallet, supplied by the balance provider.
type TokenRef struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name,omitempty"`
	Balance         string          `json:"balance"`
	USDValue        decimal.Decimal `json:"usd_value"`
	ContractAddress string          `json:"contract_address,omitempty"`
	Decimals        int32           `json:"decimals,omitempty"`
}

func (t *TokenRef) BalanceDecimal() (decimal.Decimal, error) {
	return ParseAmount(t.Balance)
}

// Value estimates the USD value of amount units of the token.
func (t *TokenRef) Value(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(t.USDValue)
}

// Matches reports whether query is a case-insensitive substring of the name or symbol.
func (t *TokenRef) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Symbol), q)
}

type TokenService interface {
	List(ctx context.Context) ([]*TokenRef, error)
}

type TokenStore interface {
	Save(ctx context.Context, tokens []*TokenRef) error
	List(ctx context.Context) ([]*TokenRef, error)
	Find(ctx context.Context, symbol string) (*TokenRef, error)
}
