package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-admin-console/components/console"
)

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "ADMIN_CONSOLE_"

const (
	AllocatorSequence = "sequence"
	AllocatorLength   = "length"
)

// Config captures the runtime settings of the console server and CLI.
type Config struct {
	Addr                 string
	BasePath             string
	SeedPath             string
	LogLevel             string
	LogFormat            string
	IDAllocator          string
	EnforceRoleReference bool
	ChartTheme           string
	ChartTTL             time.Duration
	ActivityLimit        int
	AnalyticsURL         string
	AnalyticsKey         string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:          ":9876",
		BasePath:      "/admin",
		LogLevel:      "info",
		LogFormat:     "console",
		IDAllocator:   AllocatorSequence,
		ChartTTL:      5 * time.Minute,
		ActivityLimit: 10,
	}
}

// Load reads optional .env files and then the process environment. Missing
// env files are ignored.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, falling back to Default.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}
	var errs []error

	if v, ok := get("ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := get("BASE_PATH"); ok {
		cfg.BasePath = v
	}
	if v, ok := get("SEED_PATH"); ok {
		cfg.SeedPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := get("ID_ALLOCATOR"); ok {
		cfg.IDAllocator = strings.ToLower(v)
	}
	if v, ok := get("ENFORCE_ROLE_REFERENCE"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: ENFORCE_ROLE_REFERENCE: %w", err))
		}
		cfg.EnforceRoleReference = parsed
	}
	if v, ok := get("CHART_THEME"); ok {
		cfg.ChartTheme = v
	}
	if v, ok := get("CHART_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: CHART_TTL: %w", err))
		} else {
			cfg.ChartTTL = parsed
		}
	}
	if v, ok := get("ACTIVITY_LIMIT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: ACTIVITY_LIMIT: %w", err))
		} else {
			cfg.ActivityLimit = parsed
		}
	}
	if v, ok := get("ANALYTICS_URL"); ok {
		cfg.AnalyticsURL = v
	}
	if v, ok := get("ANALYTICS_KEY"); ok {
		cfg.AnalyticsKey = v
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot honor.
func (c Config) Validate() error {
	switch c.IDAllocator {
	case AllocatorSequence, AllocatorLength:
	default:
		return fmt.Errorf("config: unknown id allocator %q", c.IDAllocator)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.ActivityLimit < 0 {
		return fmt.Errorf("config: activity limit must not be negative")
	}
	return nil
}

// IDs returns the allocator factory matching IDAllocator.
func (c Config) IDs() func() console.IDAllocator {
	if c.IDAllocator == AllocatorLength {
		return func() console.IDAllocator { return console.LengthIDs{} }
	}
	return func() console.IDAllocator { return &console.SequenceIDs{} }
}

// ServiceOptions maps the settings onto console service options. The seed,
// hooks and telemetry are left for the caller.
func (c Config) ServiceOptions() console.Options {
	return console.Options{
		IDs:                  c.IDs(),
		EnforceRoleReference: c.EnforceRoleReference,
		ChartCache:           console.NewChartCache(c.ChartTTL),
		ChartTheme:           c.ChartTheme,
	}
}
