// Package integration_tests holds end-to-end tests that drive the full
// application: manifests and textures on disk, compiled modules, and the
// registry they produce.
package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/capreg/internal/app"
	"github.com/vk/capreg/internal/module"
	"github.com/vk/capreg/internal/registry"
	"github.com/vk/capreg/internal/testutil"
)

// Result holds the outcomes of an integration test run.
type Result struct {
	LogOutput string
	Report    *registry.Report
	Err       error
	App       *app.App
}

// Run writes files into a fresh root directory and loads the given modules
// with a default background context. Paths in files are relative to the
// root: manifests go under "modules/", textures under "assets/".
func Run(t *testing.T, files map[string]string, modules ...module.Module) *Result {
	t.Helper()
	return RunWithConfig(context.Background(), t, files, app.Config{}, modules...)
}

// RunWithConfig is Run with a caller supplied context and configuration.
// The modules and assets paths of cfg are always replaced by the test root.
func RunWithConfig(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, modules ...module.Module) *Result {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "modules"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "assets"), 0755))
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}

	cfg.ModulesPath = filepath.Join(root, "modules")
	cfg.AssetsPath = filepath.Join(root, "assets")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := app.NewApp(ctx, logBuffer, config, app.WithModules(modules...))
	require.NoError(t, err)
	t.Cleanup(func() { _ = testApp.Close() })

	report, runErr := testApp.Load(ctx)

	if os.Getenv("CAPREG_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &Result{
		LogOutput: logBuffer.String(),
		Report:    report,
		Err:       runErr,
		App:       testApp,
	}
}
