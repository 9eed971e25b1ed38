package core

import "context"

type Facing string

const (
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

type CameraOptions struct {
	Facing Facing
	Width  int
	Height int
}

type Permission uint8

const (
	PermissionUnknown Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Camera is the platform capture provider. Open may block until the user
// answers the permission prompt and must return ErrPermissionDenied on refusal.
type Camera interface {
	Open(ctx context.Context, opts CameraOptions) (CameraStream, error)
}

type CameraStream interface {
	// Torch returns nil when the device has no torch capability.
	Torch() Torch
	Close() error
}

type Torch interface {
	SetTorch(ctx context.Context, on bool) error
}
