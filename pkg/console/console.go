package console

import (
	core "github.com/goliatone/go-admin-console/components/console"
)

// Service exposes the underlying components/console.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
