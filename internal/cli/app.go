package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/aretw0/hexwire"
	"github.com/aretw0/hexwire/internal/config"
	"github.com/aretw0/hexwire/internal/crash"
	"github.com/aretw0/hexwire/internal/logging"
	"github.com/aretw0/hexwire/pkg/adapters/file"
	"github.com/aretw0/hexwire/pkg/adapters/loam"
	"github.com/aretw0/hexwire/pkg/adapters/memory"
	"github.com/aretw0/hexwire/pkg/adapters/redis"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/observability"
	"github.com/aretw0/hexwire/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds the collaborators shared by every command.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Client   *hexwire.Client
	Logs     ports.LogStore
	Crashes  ports.FaultSink
	Crash    *crash.Handler
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	// PresetStore overrides the loam repository under Config.Presets.Dir.
	PresetStore ports.PresetStore

	closers []io.Closer
}

// NewApp builds the stores, logger and client described by cfg.
// In debug mode the logger writes to stderr and stage transitions are narrated.
func NewApp(cfg config.Config, debug bool) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg}

	logs, err := app.newLogStore()
	if err != nil {
		return nil, err
	}
	app.Logs = logs

	crashes, err := file.NewCrashSink(cfg.Crash.Dir)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error opening crash directory: %w", err)
	}
	app.Crashes = crashes

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Logger = slog.New(logging.NewStoreHandler(logs, "hexwire", level, createHandler(debug)))
	app.Crash = crash.NewHandler(crashes, crash.WithLogger(app.Logger))

	app.Registry = prometheus.NewRegistry()
	app.Metrics, err = observability.NewMetrics(app.Registry)
	if err != nil {
		app.Close()
		return nil, err
	}

	hooks := app.Metrics.Hooks()
	if debug {
		hooks = domain.ChainHooks(hooks, observability.DebugHooks(app.Logger))
	}
	opts := []hexwire.Option{
		hexwire.WithLogger(app.Logger),
		hexwire.WithLifecycleHooks(hooks),
		hexwire.WithDefaultTimeout(cfg.Timeout),
	}
	if cfg.ResolveHostnames {
		opts = append(opts, hexwire.WithResolver(net.DefaultResolver))
	}
	app.Client = hexwire.New(opts...)

	return app, nil
}

func (a *App) newLogStore() (ports.LogStore, error) {
	switch a.Config.Log.Backend {
	case config.BackendMemory:
		return memory.NewLogStore(), nil
	case config.BackendRedis:
		r := a.Config.Redis
		store := redis.New(r.Addr, r.Password, r.DB, redis.WithPrefix(r.Prefix), redis.WithTTL(r.TTL))
		if err := store.Ping(context.Background()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("error connecting to redis at %s: %w", r.Addr, err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		store, err := file.NewLogStore(a.Config.Log.Dir)
		if err != nil {
			return nil, fmt.Errorf("error opening log directory: %w", err)
		}
		return store, nil
	}
}

// Presets opens the preset repository.
func (a *App) Presets() (ports.PresetStore, error) {
	if a.PresetStore != nil {
		return a.PresetStore, nil
	}
	store, err := loam.NewPresetStore(a.Config.Presets.Dir)
	if err != nil {
		return nil, fmt.Errorf("error opening presets: %w", err)
	}
	a.PresetStore = store
	return store, nil
}

// Close releases backend connections.
func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}
