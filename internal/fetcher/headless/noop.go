package headless

import (
	"context"
	"errors"

	"channelwatch/internal/watch"
)

// ErrDisabled is returned by the noop renderer.
var ErrDisabled = errors.New("headless rendering is disabled")

// Noop satisfies watch.PageFetcher where headless rendering is turned off.
type Noop struct{}

// Fetch always fails with ErrDisabled.
func (Noop) Fetch(context.Context, string) (watch.PageResponse, error) {
	return watch.PageResponse{}, ErrDisabled
}

// Close is a no-op.
func (Noop) Close() {}
