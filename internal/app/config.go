package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesPath string // directory of HCL module manifests
	AssetsPath  string // directory of texture files

	// RenderHostURL switches texture resolution to a remote render host.
	RenderHostURL       string
	RenderHostNamespace string
	// RenderThread resolves textures on a dedicated, OS-thread-locked goroutine.
	RenderThread bool

	LoadTimeout     time.Duration
	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// Defaults used when a field is left empty.
const (
	DefaultModulesPath = "modules"
	DefaultAssetsPath  = "assets"
	DefaultLoadTimeout = 30 * time.Second
)

// NewConfig validates cfg, fills defaults and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulesPath == "" {
		cfg.ModulesPath = DefaultModulesPath
	}
	if cfg.AssetsPath == "" && cfg.RenderHostURL == "" {
		cfg.AssetsPath = DefaultAssetsPath
	}
	if cfg.RenderHostURL != "" && cfg.RenderHostNamespace == "" {
		cfg.RenderHostNamespace = "/"
	}
	if cfg.LoadTimeout == 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var errs []error
	if cfg.LoadTimeout < 0 {
		errs = append(errs, fmt.Errorf("load timeout must not be negative, got %s", cfg.LoadTimeout))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("healthcheck port %d out of range", cfg.HealthcheckPort))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &cfg, nil
}
