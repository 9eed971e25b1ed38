package core

import "github.com/shopspring/decimal"

// PaymentRequest is a request to receive funds, carried by a scannable code.
type PaymentRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Token   string `json:"token"`
}

func (p *PaymentRequest) AmountDecimal() (decimal.Decimal, error) {
	return ParseAmount(p.Amount)
}

func (p *PaymentRequest) Route() *Route {
	return &Route{
		Target:    RouteSend,
		Recipient: p.Address,
		Amount:    p.Amount,
		Token:     p.Token,
	}
}
