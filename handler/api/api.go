package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pandodao/walletflow/controller/send"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/metrics"
	"github.com/pandodao/walletflow/service/payment"
	"golang.org/x/sync/singleflight"
)

func New(
	tokens core.TokenStore,
	transferz core.TransferService,
	recorder metrics.Recorder,
	logger *slog.Logger,
	cfg send.Config,
) *Server {
	return &Server{
		tokens:    tokens,
		transferz: transferz,
		metrics:   recorder,
		logger:    logger.With("server", "api"),
		cfg:       cfg,
		sf:        &singleflight.Group{},
	}
}

// Server exposes the scan and send flows over JSON for clients without a
// native runtime.
type Server struct {
	tokens    core.TokenStore
	transferz core.TransferService
	metrics   metrics.Recorder
	logger    *slog.Logger
	cfg       send.Config
	sf        *singleflight.Group
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/tokens", s.listTokens)
	r.Post("/addresses/validate", s.validateAddress)

	r.Route("/payments", func(r chi.Router) {
		r.Post("/decode", s.decodePayment)
		r.Post("/encode", s.encodePayment)
	})

	r.Post("/sends", s.createSend)

	return r
}

func (s *Server) listTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.tokens.List(r.Context())
	if err != nil {
		s.logger.Error("tokens.List", "err", err)
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		matched := tokens[:0]
		for _, t := range tokens {
			if t.Matches(q) {
				matched = append(matched, t)
			}
		}

		tokens = matched
	}

	renderJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

type addressView struct {
	Valid    bool   `json:"valid"`
	Checksum string `json:"checksum,omitempty"`
	Short    string `json:"short,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (s *Server) validateAddress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Address string `json:"address"`
	}

	if err := decodeBody(w, r, &body); err != nil {
		renderJSON(w, http.StatusBadRequest, errorView{Code: "bad_request", Message: err.Error()})
		return
	}

	view := addressView{}
	if checksum, ok := core.ChecksumAddress(body.Address); ok {
		view.Valid = true
		view.Checksum = checksum
		view.Short = core.ShortAddress(checksum)
	} else {
		err := core.ErrInvalidAddressFormat
		if body.Address == "" {
			err = core.ErrMissingRecipient
		}

		view.Code = core.Code(err)
		view.Message = core.Message(err)
	}

	renderJSON(w, http.StatusOK, view)
}

func (s *Server) decodePayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Payload string `json:"payload"`
	}

	if err := decodeBody(w, r, &body); err != nil {
		renderJSON(w, http.StatusBadRequest, errorView{Code: "bad_request", Message: err.Error()})
		return
	}

	req, err := payment.Decode(body.Payload)
	if err != nil {
		s.metrics.IncCounter("decode_error", map[string]string{"flow": "api"})
		renderError(w, http.StatusUnprocessableEntity, err)
		return
	}

	route := req.Route()
	renderJSON(w, http.StatusOK, map[string]any{
		"request": req,
		"route":   route,
		"path":    route.Path(),
	})
}

func (s *Server) encodePayment(w http.ResponseWriter, r *http.Request) {
	var req core.PaymentRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderJSON(w, http.StatusBadRequest, errorView{Code: "bad_request", Message: err.Error()})
		return
	}

	payload, err := payment.Encode(&req)
	if err != nil {
		renderError(w, http.StatusUnprocessableEntity, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]string{"payload": payload})
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Token     string `json:"token"`
	Memo      string `json:"memo"`
	Max       bool   `json:"max"`
}

type sendView struct {
	Transfer *core.Transfer `json:"transfer"`
	Receipt  *core.Receipt  `json:"receipt"`
}

// createSend runs one send form from prefill to submission. Requests sharing
// an Idempotency-Key while one is in flight share its outcome.
func (s *Server) createSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderJSON(w, http.StatusBadRequest, errorView{Code: "bad_request", Message: err.Error()})
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		s.submit(w, r, req)
		return
	}

	v, _, _ := s.sf.Do(key, func() (any, error) {
		rec := &recorder{header: http.Header{}}
		s.submit(rec, r, req)
		return rec, nil
	})

	v.(*recorder).replay(w)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, req sendRequest) {
	ctx := r.Context()

	tokens, err := s.tokens.List(ctx)
	if err != nil {
		s.logger.Error("tokens.List", "err", err)
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	ctrl := send.New(s.transferz, s.logger, s.metrics, s.cfg)
	defer ctrl.Close()

	if req.Token == "" {
		renderJSON(w, http.StatusBadRequest, errorView{Code: "unknown_token", Message: "Token is required"})
		return
	}

	route := &core.Route{Target: core.RouteSend, Recipient: req.Recipient, Amount: req.Amount, Token: req.Token}
	if err := ctrl.Prefill(route, tokens); err != nil {
		renderJSON(w, http.StatusBadRequest, errorView{Code: "unknown_token", Message: err.Error()})
		return
	}

	_ = ctrl.SetMemo(req.Memo)
	if req.Max {
		_ = ctrl.SetMax()
	}

	result, err := ctrl.RequestSend()
	if errors.Is(err, send.ErrInvalidForm) {
		fields := make(map[string]string, len(result.Errors))
		for field, msg := range result.Messages() {
			fields[string(field)] = msg
		}

		renderJSON(w, http.StatusUnprocessableEntity, errorView{
			Code:    "invalid_form",
			Message: "Please fix the highlighted fields",
			Fields:  fields,
		})
		return
	} else if err != nil {
		renderError(w, http.StatusConflict, err)
		return
	}

	transfer := ctrl.Pending()
	receipt, err := ctrl.Confirm(ctx)
	if err != nil {
		renderError(w, http.StatusBadGateway, err)
		return
	}

	renderJSON(w, http.StatusOK, sendView{Transfer: transfer, Receipt: receipt})
}
