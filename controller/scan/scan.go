package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/metrics"
	"github.com/pandodao/walletflow/service/payment"
)

type Mode string

const (
	ModeAddress Mode = "address"
	ModePayment Mode = "payment"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAddress, ModePayment:
		return m, nil
	default:
		return "", fmt.Errorf("unknown scan mode %q", s)
	}
}

type State uint8

const (
	StateIdle State = iota
	StateRequestingPermission
	StateScanning
	StateDecoding
	StateDenied
	StateRouted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingPermission:
		return "requesting_permission"
	case StateScanning:
		return "scanning"
	case StateDecoding:
		return "decoding"
	case StateDenied:
		return "denied"
	case StateRouted:
		return "routed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Terminal states hold no camera.
func (s State) Terminal() bool {
	return s == StateDenied || s == StateRouted || s == StateClosed
}

var (
	ErrInvalidState = errors.New("invalid scan state")
	ErrClosed       = errors.New("scan session closed")
)

type EventKind uint8

const (
	EventScanning EventKind = iota + 1
	EventDenied
	EventDecodeError
	EventErrorCleared
	EventRouted
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventScanning:
		return "scanning"
	case EventDenied:
		return "denied"
	case EventDecodeError:
		return "decode_error"
	case EventErrorCleared:
		return "error_cleared"
	case EventRouted:
		return "routed"
	case EventClosed:
		return "closed"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

type Event struct {
	Kind  EventKind
	State State
	Err   error
	Route *core.Route
}

type Config struct {
	// ErrorWindow is how long a decode error stays visible.
	ErrorWindow time.Duration `valid:"required"`
}

type View struct {
	State      State
	Mode       Mode
	Permission core.Permission
	FlashOn    bool
	Err        error
}

// Message is the user facing text of the visible error, if any.
func (v View) Message() string {
	return core.Message(v.Err)
}

var cameraOptions = core.CameraOptions{
	Facing: core.FacingEnvironment,
	Width:  1280,
	Height: 720,
}

var labels = map[string]string{"flow": "scan"}

// Session is one scan screen. It owns the camera stream from a granted Start
// until the session reaches a terminal state.
type Session struct {
	camera  core.Camera
	logger  *slog.Logger
	metrics metrics.Recorder
	cfg     Config
	events  chan Event

	// flash is taken before mux by torch toggles and by every path that
	// releases the stream.
	flash sync.Mutex

	mux        sync.Mutex
	state      State
	mode       Mode
	permission core.Permission
	flashOn    bool
	err        error
	stream     core.CameraStream
	cancelOpen context.CancelFunc
	errGen     uint64
	errTimer   *time.Timer
}

func New(
	camera core.Camera,
	logger *slog.Logger,
	recorder metrics.Recorder,
	cfg Config,
) *Session {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &Session{
		camera:  camera,
		logger:  logger.With("controller", "scan"),
		metrics: recorder,
		cfg:     cfg,
		events:  make(chan Event, 16),
	}
}

func (s *Session) Events() <-chan Event {
	return s.events
}

func (s *Session) emit(e Event) {
	s.metrics.IncCounter(e.Kind.String(), labels)

	select {
	case s.events <- e:
	default:
		s.logger.Warn("event dropped", "kind", e.Kind)
	}
}

// Start asks for the camera and begins scanning in mode. The permission
// prompt is awaited without holding the session; if the session is stopped
// meanwhile, a stream that still arrives is closed right away.
func (s *Session) Start(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	s.mux.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mux.Unlock()
		return fmt.Errorf("%w: start in state %s", ErrInvalidState, state)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.state = StateRequestingPermission
	s.mode = mode
	s.cancelOpen = cancel
	s.mux.Unlock()

	start := time.Now()
	stream, err := s.camera.Open(ctx, cameraOptions)
	s.metrics.ObserveLatency("open", time.Since(start), labels)

	s.mux.Lock()
	defer s.mux.Unlock()

	s.cancelOpen = nil

	if s.state != StateRequestingPermission {
		if stream != nil {
			s.logger.Info("camera arrived after close")
			s.closeStream(stream)
		}

		return ErrClosed
	}

	switch {
	case err == nil:
	case errors.Is(err, core.ErrPermissionDenied):
		s.state = StateDenied
		s.permission = core.PermissionDenied
		s.err = err
		s.emit(Event{Kind: EventDenied, State: s.state, Err: err})
		return err
	case errors.Is(err, core.ErrCameraBusy):
		s.state = StateIdle
		return err
	case ctx.Err() != nil:
		s.state = StateClosed
		s.emit(Event{Kind: EventClosed, State: s.state})
		return err
	default:
		s.logger.Error("camera.Open", "err", err)
		s.state = StateIdle
		return err
	}

	s.stream = stream
	s.permission = core.PermissionGranted
	s.state = StateScanning
	s.logger.Info("scanning", "mode", mode, "torch", stream.Torch() != nil)
	s.emit(Event{Kind: EventScanning, State: s.state})
	return nil
}

// Stop closes the session. It is a no-op before Start and after a terminal state.
func (s *Session) Stop() {
	s.flash.Lock()
	defer s.flash.Unlock()

	s.mux.Lock()
	defer s.mux.Unlock()

	switch s.state {
	case StateRequestingPermission, StateScanning, StateDecoding:
		s.close()
	}
}

// Manual leaves the scan screen for manual entry.
func (s *Session) Manual() *core.Route {
	s.flash.Lock()
	defer s.flash.Unlock()

	s.mux.Lock()
	defer s.mux.Unlock()

	if !s.state.Terminal() && s.state != StateIdle {
		s.close()
	}

	if s.mode == ModePayment {
		return &core.Route{Target: core.RouteHome}
	}

	return &core.Route{Target: core.RouteSend}
}

func (s *Session) close() {
	if s.cancelOpen != nil {
		s.cancelOpen()
		s.cancelOpen = nil
	}

	s.stopErrTimer()
	s.release()
	s.state = StateClosed
	s.emit(Event{Kind: EventClosed, State: s.state})
}

func (s *Session) release() {
	if s.stream == nil {
		return
	}

	s.closeStream(s.stream)
	s.stream = nil
	s.flashOn = false
}

func (s *Session) closeStream(stream core.CameraStream) {
	if err := stream.Close(); err != nil {
		s.logger.Error("stream.Close", "err", err)
	}
}

func (s *Session) stopErrTimer() {
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

// ToggleFlash flips the torch. Devices without one return core.ErrFlashUnsupported.
func (s *Session) ToggleFlash(ctx context.Context) error {
	s.flash.Lock()
	defer s.flash.Unlock()

	s.mux.Lock()
	if s.state != StateScanning {
		state := s.state
		s.mux.Unlock()
		return fmt.Errorf("%w: toggle flash in state %s", ErrInvalidState, state)
	}

	torch, on := s.stream.Torch(), !s.flashOn
	s.mux.Unlock()

	if torch == nil {
		return core.ErrFlashUnsupported
	}

	if err := torch.SetTorch(ctx, on); err != nil {
		s.logger.Error("torch.SetTorch", "err", err)
		return err
	}

	s.mux.Lock()
	s.flashOn = on
	s.mux.Unlock()

	return nil
}

// OnDecode classifies a decoded payload. A valid one routes and releases the
// camera; an invalid one keeps scanning and shows the error for the error window.
func (s *Session) OnDecode(data string) (*core.Route, error) {
	s.flash.Lock()
	defer s.flash.Unlock()

	s.mux.Lock()
	defer s.mux.Unlock()

	if s.state != StateScanning {
		return nil, fmt.Errorf("%w: decode in state %s", ErrInvalidState, s.state)
	}

	s.state = StateDecoding
	route, err := classify(s.mode, data)
	if err != nil {
		s.logger.Info("decode rejected", "mode", s.mode, "err", err)
		s.state = StateScanning
		s.showError(err)
		s.emit(Event{Kind: EventDecodeError, State: s.state, Err: err})
		return nil, err
	}

	s.stopErrTimer()
	s.err = nil
	s.release()
	s.state = StateRouted
	s.emit(Event{Kind: EventRouted, State: s.state, Route: route})
	return route, nil
}

func (s *Session) showError(err error) {
	s.stopErrTimer()
	s.err = err
	s.errGen++

	gen := s.errGen
	s.errTimer = time.AfterFunc(s.cfg.ErrorWindow, func() {
		s.clearError(gen)
	})
}

func (s *Session) clearError(gen uint64) {
	s.mux.Lock()
	defer s.mux.Unlock()

	// a newer error restarted the window
	if gen != s.errGen || s.err == nil || s.state != StateScanning {
		return
	}

	s.err = nil
	s.errTimer = nil
	s.emit(Event{Kind: EventErrorCleared, State: s.state})
}

func classify(mode Mode, data string) (*core.Route, error) {
	switch mode {
	case ModeAddress:
		if !core.IsValidAddress(data) {
			return nil, core.ErrInvalidAddressFormat
		}

		return &core.Route{Target: core.RouteSend, Recipient: data}, nil
	case ModePayment:
		req, err := payment.Decode(data)
		if err != nil {
			return nil, err
		}

		return req.Route(), nil
	default:
		return nil, fmt.Errorf("unknown scan mode %q", mode)
	}
}

func (s *Session) State() State {
	s.mux.Lock()
	defer s.mux.Unlock()

	return s.state
}

func (s *Session) Snapshot() View {
	s.mux.Lock()
	defer s.mux.Unlock()

	return View{
		State:      s.state,
		Mode:       s.mode,
		Permission: s.permission,
		FlashOn:    s.flashOn,
		Err:        s.err,
	}
}
