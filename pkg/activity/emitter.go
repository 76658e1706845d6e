package activity

import "context"

// Config toggles activity emission.
type Config struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Channel string `json:"channel" yaml:"channel"`
}

// Emitter applies Config defaults before delegating to Hooks.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter builds an emitter. A nil receiver or empty hook set disables it.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled reports whether Emit will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit sends evt to the hooks, defaulting its channel.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" {
		evt.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, evt)
}
