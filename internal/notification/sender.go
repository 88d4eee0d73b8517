package notification

import (
	"context"
	"errors"
)

// ErrNotConfigured means the delivery transport is missing required
// settings. Callers must treat dispatch as failed, never as silently done.
var ErrNotConfigured = errors.New("notification transport not configured")

// Sender delivers a message to an address. Implementations own their
// transport timeouts.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Disabled is a Sender for deployments without delivery settings. Every
// send fails with ErrNotConfigured so one-time codes are never stored
// without having been delivered.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) error {
	return ErrNotConfigured
}
