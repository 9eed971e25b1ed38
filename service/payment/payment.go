package payment

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pandodao/walletflow/core"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("positive_decimal", validatePositiveDecimal)
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := core.ParseAmount(fl.Field().String())
	return err == nil && d.IsPositive()
}

// payload is the scannable payment request schema.
type payload struct {
	Address string `json:"address" validate:"required,eth_addr"`
	Amount  string `json:"amount" validate:"required,positive_decimal"`
	Token   string `json:"token" validate:"required,max=32"`
}

// Decode parses a scanned payment request. Every failure wraps core.ErrInvalidPayloadFormat.
func Decode(data string) (*core.PaymentRequest, error) {
	var p payload

	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidPayloadFormat, err)
	}

	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", core.ErrInvalidPayloadFormat)
	}

	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidPayloadFormat, err)
	}

	return &core.PaymentRequest{
		Address: p.Address,
		Amount:  p.Amount,
		Token:   p.Token,
	}, nil
}

// Encode renders req as the QR payload read back by Decode.
func Encode(req *core.PaymentRequest) (string, error) {
	p := payload{
		Address: req.Address,
		Amount:  req.Amount,
		Token:   req.Token,
	}

	if err := validate.Struct(&p); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidPayloadFormat, err)
	}

	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
