package send

import (
	"fmt"
	"strings"

	"github.com/pandodao/walletflow/core"
)

type Field string

const (
	FieldRecipient Field = "recipient"
	FieldAmount    Field = "amount"
	FieldMemo      Field = "memo"
)

type Form struct {
	Recipient string         `json:"recipient"`
	Amount    string         `json:"amount"`
	Token     *core.TokenRef `json:"token,omitempty"`
	Memo      string         `json:"memo,omitempty"`
}

func (f Form) clone() Form {
	if f.Token != nil {
		t := *f.Token
		f.Token = &t
	}

	return f
}

// key identifies the form content a trace id was issued for. Balance refreshes
// of the selected token do not change it.
func (f Form) key() string {
	var symbol string
	if f.Token != nil {
		symbol = strings.ToUpper(f.Token.Symbol)
	}

	return fmt.Sprintf("%s|%s|%s|%s", f.Recipient, f.Amount, symbol, f.Memo)
}

// Result holds every validation error of a form, keyed by field.
type Result struct {
	Errors map[Field]error
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r Result) Messages() map[Field]string {
	m := make(map[Field]string, len(r.Errors))
	for field, err := range r.Errors {
		m[field] = core.Message(err)
	}

	return m
}

func (r Result) clone() Result {
	errs := make(map[Field]error, len(r.Errors))
	for k, v := range r.Errors {
		errs[k] = v
	}

	return Result{Errors: errs}
}

// validate applies every rule independently; one error per field at most.
func validate(f Form, memoLimit int) Result {
	errs := map[Field]error{}

	switch {
	case f.Recipient == "":
		errs[FieldRecipient] = core.ErrMissingRecipient
	case !core.IsValidAddress(f.Recipient):
		errs[FieldRecipient] = core.ErrInvalidAddressFormat
	}

	if err := validateAmount(f.Amount, f.Token); err != nil {
		errs[FieldAmount] = err
	}

	if memoLimit > 0 && len(f.Memo) > memoLimit {
		errs[FieldMemo] = core.ErrMemoTooLong
	}

	return Result{Errors: errs}
}

func validateAmount(s string, token *core.TokenRef) error {
	if s == "" {
		return core.ErrMissingAmount
	}

	amount, err := core.ParseAmount(s)
	if err != nil {
		return err
	}

	if !amount.IsPositive() {
		return core.ErrNonPositiveAmount
	}

	if token == nil {
		return nil
	}

	balance, err := token.BalanceDecimal()
	if err != nil {
		return fmt.Errorf("%w: unreadable %s balance %q", core.ErrInsufficientBalance, token.Symbol, token.Balance)
	}

	if amount.GreaterThan(balance) {
		return core.ErrInsufficientBalance
	}

	if token.Decimals > 0 && amount.Truncate(token.Decimals).LessThan(amount) {
		return core.ErrAmountPrecision
	}

	return nil
}
