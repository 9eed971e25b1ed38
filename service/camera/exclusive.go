package camera

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pandodao/walletflow/core"
)

// Exclusive makes cam single owner. While one stream is open, or one
// acquisition is pending, Open fails fast with core.ErrCameraBusy.
func Exclusive(cam core.Camera) core.Camera {
	return &exclusive{cam: cam}
}

type exclusive struct {
	cam  core.Camera
	held atomic.Bool
}

func (e *exclusive) Open(ctx context.Context, opts core.CameraOptions) (core.CameraStream, error) {
	if !e.held.CompareAndSwap(false, true) {
		return nil, core.ErrCameraBusy
	}

	stream, err := e.cam.Open(ctx, opts)
	if err != nil {
		e.held.Store(false)
		return nil, err
	}

	return &lease{
		CameraStream: stream,
		release:      func() { e.held.Store(false) },
	}, nil
}

type lease struct {
	core.CameraStream
	release func()

	once sync.Once
	err  error
}

func (l *lease) Close() error {
	l.once.Do(func() {
		l.err = l.CameraStream.Close()
		l.release()
	})

	return l.err
}
