package camera

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/walletflow/core"
)

type Config struct {
	Permission  string `valid:"in(granted|denied),required"`
	Torch       bool
	PromptDelay time.Duration
}

// Virtual is a capture device without frames: decoded payloads come from an
// external decoder (zbarcam, a phone bridge) and only the permission and torch
// behaviour of a real device are modelled.
type Virtual struct {
	cfg Config
}

func NewVirtual(cfg Config) *Virtual {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &Virtual{cfg: cfg}
}

func (v *Virtual) Open(ctx context.Context, _ core.CameraOptions) (core.CameraStream, error) {
	if v.cfg.PromptDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(v.cfg.PromptDelay):
		}
	}

	if v.cfg.Permission == "denied" {
		return nil, core.ErrPermissionDenied
	}

	s := &virtualStream{}
	if v.cfg.Torch {
		s.torch = &virtualTorch{}
	}

	return s, nil
}

type virtualStream struct {
	torch *virtualTorch
}

func (s *virtualStream) Torch() core.Torch {
	if s.torch == nil {
		return nil
	}

	return s.torch
}

func (s *virtualStream) Close() error {
	return nil
}

type virtualTorch struct {
	mux sync.Mutex
	on  bool
}

func (t *virtualTorch) SetTorch(_ context.Context, on bool) error {
	t.mux.Lock()
	t.on = on
	t.mux.Unlock()
	return nil
}
