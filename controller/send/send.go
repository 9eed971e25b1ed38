package send

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/pandodao/generic"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/metrics"
	"github.com/shopspring/decimal"
)

type State uint8

const (
	StateIdle State = iota
	StateAwaitingConfirmation
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

var (
	ErrInvalidForm      = errors.New("send form is invalid")
	ErrFormLocked       = errors.New("send form is locked")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrUnknownToken     = errors.New("unknown token")
)

type EventKind uint8

const (
	EventConfirmationRequested EventKind = iota + 1
	EventSucceeded
	EventFailed
	// EventDismissed fires when the success window is over; the caller navigates to Route.
	EventDismissed
)

type Event struct {
	Kind    EventKind
	State   State
	Receipt *core.Receipt
	Err     error
	Route   *core.Route
}

type Config struct {
	SuccessWindow time.Duration `valid:"required"`
	MemoLimit     int
}

// View is a copy of the controller state for rendering.
type View struct {
	State     State
	Form      Form
	Errors    map[Field]string
	Pending   *core.Transfer
	Receipt   *core.Receipt
	Failure   error
	Dismissed bool
}

type Controller struct {
	transfers core.TransferService
	logger    *slog.Logger
	metrics   metrics.Recorder
	cfg       Config
	events    chan Event

	mux       sync.Mutex
	state     State
	form      Form
	result    Result
	pending   *core.Transfer
	trace     string
	traceKey  string
	receipt   *core.Receipt
	failure   error
	dismissed bool
	timer     *time.Timer
}

func New(
	transfers core.TransferService,
	logger *slog.Logger,
	recorder metrics.Recorder,
	cfg Config,
) *Controller {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &Controller{
		transfers: transfers,
		logger:    logger.With("controller", "send"),
		metrics:   recorder,
		cfg:       cfg,
		events:    make(chan Event, 16),
		result:    Result{Errors: map[Field]error{}},
	}
}

var labels = map[string]string{"flow": "send"}

func (c *Controller) Events() <-chan Event {
	return c.events
}

func (c *Controller) emit(e Event) {
	select {
	case c.events <- e:
	default:
		c.logger.Warn("event dropped", "kind", e.Kind)
	}
}

func (c *Controller) mutate(fn func(f *Form)) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	switch c.state {
	case StateSubmitting, StateSucceeded, StateFailed:
		return fmt.Errorf("%w: state %s", ErrFormLocked, c.state)
	case StateAwaitingConfirmation:
		// the confirmation shows the old values
		c.state = StateIdle
		c.pending = nil
	}

	fn(&c.form)
	return nil
}

func (c *Controller) SetRecipient(v string) error {
	return c.mutate(func(f *Form) { f.Recipient = v })
}

func (c *Controller) SetAmount(v string) error {
	return c.mutate(func(f *Form) { f.Amount = v })
}

func (c *Controller) SetMemo(v string) error {
	return c.mutate(func(f *Form) { f.Memo = v })
}

// SelectToken selects token, nil clears the selection. The token is copied.
func (c *Controller) SelectToken(token *core.TokenRef) error {
	return c.mutate(func(f *Form) {
		if token == nil {
			f.Token = nil
			return
		}

		t := *token
		f.Token = &t
	})
}

// SetMax copies the selected token balance into the amount verbatim.
func (c *Controller) SetMax() error {
	return c.mutate(func(f *Form) {
		if f.Token != nil {
			f.Amount = f.Token.Balance
		}
	})
}

// Prefill applies a route produced by the scan flow. The token is matched by
// symbol among tokens; an unknown symbol leaves the selection untouched and
// returns ErrUnknownToken after recipient and amount were applied.
func (c *Controller) Prefill(route *core.Route, tokens []*core.TokenRef) error {
	if route.Target != core.RouteSend {
		return fmt.Errorf("%w: route to %s", ErrInvalidState, route.Target)
	}

	var (
		token   *core.TokenRef
		unknown bool
	)

	if route.Token != "" {
		for _, t := range tokens {
			if strings.EqualFold(t.Symbol, route.Token) {
				token = t
				break
			}
		}

		unknown = token == nil
	}

	if err := c.mutate(func(f *Form) {
		if route.Recipient != "" {
			f.Recipient = route.Recipient
		}

		if route.Amount != "" {
			f.Amount = route.Amount
		}

		if token != nil {
			t := *token
			f.Token = &t
		}
	}); err != nil {
		return err
	}

	if unknown {
		return fmt.Errorf("%w: %s", ErrUnknownToken, route.Token)
	}

	return nil
}

// Validate recomputes the error map from the current form.
func (c *Controller) Validate() Result {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.result = validate(c.form, c.cfg.MemoLimit)
	return c.result.clone()
}

// RequestSend validates the form and, when valid, moves to AwaitingConfirmation
// with a snapshot of the form as the pending transfer.
func (c *Controller) RequestSend() (Result, error) {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.state != StateIdle {
		return c.result.clone(), fmt.Errorf("%w: request send in state %s", ErrInvalidState, c.state)
	}

	c.result = validate(c.form, c.cfg.MemoLimit)
	if !c.result.Valid() {
		c.metrics.IncCounter("invalid", labels)
		return c.result.clone(), ErrInvalidForm
	}

	// an unchanged form keeps its trace id so a retried send can be recognised
	if key := c.form.key(); c.trace == "" || key != c.traceKey {
		c.trace = uuid.NewString()
		c.traceKey = key
	}

	var symbol string
	if c.form.Token != nil {
		symbol = c.form.Token.Symbol
	}

	c.pending = &core.Transfer{
		TraceID:   c.trace,
		CreatedAt: time.Now(),
		Recipient: c.form.Recipient,
		Amount:    generic.Must(core.ParseAmount(c.form.Amount)),
		Token:     symbol,
		Memo:      c.form.Memo,
	}

	c.state = StateAwaitingConfirmation
	c.metrics.IncCounter("requested", labels)
	c.emit(Event{Kind: EventConfirmationRequested, State: c.state})

	return c.result.clone(), nil
}

// CancelConfirmation returns to Idle keeping the form for editing.
func (c *Controller) CancelConfirmation() error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.state != StateAwaitingConfirmation {
		return fmt.Errorf("%w: cancel in state %s", ErrInvalidState, c.state)
	}

	c.state = StateIdle
	c.pending = nil
	return nil
}

// Confirm submits the pending transfer. It blocks until the submitter answers;
// a Confirm issued meanwhile returns ErrSubmitInProgress without submitting.
// Once dispatched the submission ignores cancellation of ctx: the backend may
// already have acted on it.
func (c *Controller) Confirm(ctx context.Context) (*core.Receipt, error) {
	c.mux.Lock()
	switch c.state {
	case StateAwaitingConfirmation:
	case StateSubmitting:
		c.mux.Unlock()
		return nil, ErrSubmitInProgress
	default:
		state := c.state
		c.mux.Unlock()
		return nil, fmt.Errorf("%w: confirm in state %s", ErrInvalidState, state)
	}

	transfer := c.pending
	c.state = StateSubmitting
	c.mux.Unlock()

	logger := c.logger.With("transfer", transfer.TraceID)
	logger.Info("submit transfer",
		"token", transfer.Token,
		"amount", transfer.Amount,
		"recipient", core.ShortAddress(transfer.Recipient),
	)

	start := time.Now()
	receipt, err := c.transfers.Submit(context.WithoutCancel(ctx), transfer)
	c.metrics.ObserveLatency("submit", time.Since(start), labels)

	c.mux.Lock()
	defer c.mux.Unlock()

	if err != nil {
		logger.Error("transfers.Submit", "err", err)
		c.state = StateFailed
		c.failure = fmt.Errorf("%w: %w", core.ErrSubmissionFailed, err)
		c.metrics.IncCounter("failed", labels)
		c.emit(Event{Kind: EventFailed, State: c.state, Err: c.failure})
		return nil, c.failure
	}

	logger.Info("transfer submitted", "tx", receipt.TxHash)
	c.state = StateSucceeded
	c.receipt = receipt
	c.metrics.IncCounter("succeeded", labels)
	c.emit(Event{Kind: EventSucceeded, State: c.state, Receipt: receipt})

	c.timer = time.AfterFunc(c.cfg.SuccessWindow, func() {
		c.mux.Lock()
		c.dismissed = true
		c.mux.Unlock()

		c.emit(Event{Kind: EventDismissed, State: StateSucceeded, Route: &core.Route{Target: core.RouteHome}})
	})

	return receipt, nil
}

// Acknowledge dismisses a submission failure and returns to Idle with the form kept.
func (c *Controller) Acknowledge() error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.state != StateFailed {
		return fmt.Errorf("%w: acknowledge in state %s", ErrInvalidState, c.state)
	}

	c.state = StateIdle
	c.pending = nil
	c.failure = nil
	return nil
}

// Estimate is the USD value of the entered amount of the selected token.
func (c *Controller) Estimate() (decimal.Decimal, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.form.Token == nil {
		return decimal.Zero, false
	}

	amount, err := core.ParseAmount(c.form.Amount)
	if err != nil {
		return decimal.Zero, false
	}

	return c.form.Token.Value(amount), true
}

// Pending is a copy of the transfer awaiting confirmation or being submitted.
func (c *Controller) Pending() *core.Transfer {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.pending == nil {
		return nil
	}

	p := *c.pending
	return &p
}

func (c *Controller) State() State {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.state
}

func (c *Controller) Snapshot() View {
	c.mux.Lock()
	defer c.mux.Unlock()

	v := View{
		State:     c.state,
		Form:      c.form.clone(),
		Errors:    c.result.Messages(),
		Receipt:   c.receipt,
		Failure:   c.failure,
		Dismissed: c.dismissed,
	}

	if c.pending != nil {
		p := *c.pending
		v.Pending = &p
	}

	return v
}

// Close stops the success window timer.
func (c *Controller) Close() {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
}
