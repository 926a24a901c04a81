package cacheinfra

import (
	"context"
	"time"
)

// NoopBackend never stores anything. Every Get is a miss.
type NoopBackend struct{}

// NewNoopBackend returns a backend that disables caching.
func NewNoopBackend() NoopBackend {
	return NoopBackend{}
}

func (NoopBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopBackend) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NoopBackend) Delete(context.Context, string) error {
	return nil
}

func (NoopBackend) Close() error {
	return nil
}
