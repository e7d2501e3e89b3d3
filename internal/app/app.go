package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/capreg/internal/assets"
	"github.com/vk/capreg/internal/ctxlog"
	"github.com/vk/capreg/internal/entity"
	"github.com/vk/capreg/internal/manifest"
	"github.com/vk/capreg/internal/module"
	"github.com/vk/capreg/internal/registry"
)

// App encapsulates the host's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	modules  []module.Module
	provider assets.Provider
	registry *registry.Registry

	closers    []func() error
	httpServer *http.Server
}

// Option customizes an App.
type Option func(*App)

// WithProvider replaces the asset provider built from the configuration.
func WithProvider(p assets.Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithModules replaces the compiled module list.
func WithModules(modules ...module.Module) Option {
	return func(a *App) { a.modules = modules }
}

// NewApp is the constructor for the host application. It returns a fully
// initialized App instance, including its own isolated logger, asset
// provider and an Empty registry.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	a := &App{
		outW:    outW,
		config:  cfg,
		logger:  newLogger(cfg, outW),
		modules: coreModules,
	}
	for _, opt := range opts {
		opt(a)
	}
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Logger configured successfully.")

	if a.provider == nil {
		provider, closer, err := newProvider(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to set up asset provider: %w", err)
		}
		a.provider = provider
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}
	if cfg.RenderThread {
		q := assets.NewRenderQueue()
		a.provider = assets.OnRenderQueue(q, a.provider)
		a.closers = append(a.closers, func() error { q.Close(); return nil })
		a.logger.Debug("Texture resolution pinned to the render thread.")
	}

	a.registry = registry.New(a.provider)
	a.logger.Debug("Registry created.", "compiled_modules", len(a.modules))
	return a, nil
}

// newProvider builds the asset provider described by cfg: a remote render
// host when one is configured, the assets directory otherwise. The returned
// closer, if any, releases the provider.
func newProvider(ctx context.Context, cfg *Config) (assets.Provider, func() error, error) {
	if cfg.RenderHostURL != "" {
		remote, err := assets.DialRemote(ctx, assets.RemoteConfig{
			URL:       cfg.RenderHostURL,
			Namespace: cfg.RenderHostNamespace,
			Timeout:   cfg.LoadTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return remote, remote.Close, nil
	}

	dir, err := assets.NewDir(ctx, cfg.AssetsPath)
	if err != nil {
		return nil, nil, err
	}
	return dir, nil, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Initializer returns an entity initializer bound to the registry.
func (a *App) Initializer() *entity.Initializer {
	return entity.NewInitializer(a.registry)
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Load discovers the manifest modules, merges them with the compiled ones
// and loads the registry, bounded by the configured load timeout.
func (a *App) Load(ctx context.Context) (*registry.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.LoadTimeout)
		defer cancel()
	}

	manifests, err := manifest.Discover(ctx, a.config.ModulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to discover module manifests: %w", err)
	}

	modules := mergeModules(a.modules, manifests)
	a.logger.Debug("Loading modules...", "compiled", len(a.modules), "manifests", len(manifests), "total", len(modules))

	return a.registry.Load(ctx, modules...)
}

// Close unloads the registry and releases the asset provider and HTTP server.
func (a *App) Close() error {
	a.logger.Debug("Closing application...")
	var errs []error
	if err := a.closeHealthCheckServer(context.Background()); err != nil {
		errs = append(errs, err)
	}
	a.registry.Unload()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
