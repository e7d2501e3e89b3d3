package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fixture lays out a modules and assets directory where the Hero body
// texture exists and a manifest module "Forest" declares one source.
func fixture(t *testing.T, withHeroTexture bool) (modules, assets string) {
	t.Helper()
	root := t.TempDir()
	modules = filepath.Join(root, "modules")
	assets = filepath.Join(root, "assets")

	files := map[string]string{
		"modules/Forest/trees.hcl": `
source "Trees" {
  cell_size = [64, 96]
  track "sway" {
    frames = [0, 1]
  }
}
`,
		"assets/Forest/Trees.png": "png",
	}
	if withHeroTexture {
		files["assets/Hero/Sprites/Body.png"] = "png"
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return modules, assets
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	err := Execute(context.Background(), args, out, logs)
	return out.String(), logs.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

func TestInspect_Text(t *testing.T) {
	modules, assets := fixture(t, true)

	out, _, err := execute(t, "inspect", "--modules-path", modules, "--assets-path", assets)
	require.NoError(t, err)

	assert.Contains(t, out, "registry (loaded)")
	assert.Contains(t, out, "source: Hero.Sprites.Body")
	assert.Contains(t, out, "controller: Hero.Animator")
	assert.Contains(t, out, "unit: Hero.Dash")
	assert.Contains(t, out, "cell size: 64x96")
	assert.Contains(t, out, "sources without controller", "the Forest module has no controller")
}

func TestInspect_YAML(t *testing.T) {
	modules, assets := fixture(t, true)

	out, _, err := execute(t, "inspect", "-o", "yaml", "--modules-path", modules, "--assets-path", assets)
	require.NoError(t, err)

	var doc inspection
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "loaded", doc.State)

	var names []string
	for _, m := range doc.Modules {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Hero", "Ambient", "Forest"}, names)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "warning", doc.Diagnostics[0].Severity)
	assert.Equal(t, "Forest", doc.Diagnostics[0].Module)
}

func TestInspect_Source(t *testing.T) {
	modules, assets := fixture(t, true)

	out, _, err := execute(t, "inspect", "--source", "Forest/Trees", "--modules-path", modules, "--assets-path", assets)
	require.NoError(t, err)
	assert.Contains(t, out, "Forest.Trees")
	assert.Contains(t, out, "module: Forest")
	assert.Contains(t, out, "tracks: sway")

	_, _, err = execute(t, "inspect", "--source", "Nope.Nothing", "--modules-path", modules, "--assets-path", assets)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestInspect_Strict(t *testing.T) {
	modules, assets := fixture(t, false)

	_, _, err := execute(t, "inspect", "--modules-path", modules, "--assets-path", assets)
	require.NoError(t, err, "registration errors are reported, not fatal")

	_, _, err = execute(t, "inspect", "--strict", "--modules-path", modules, "--assets-path", assets)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.ErrorContains(t, err, "Hero.Sprites.Body")
}

func TestInspect_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "output format", args: []string{"inspect", "-o", "xml"}, want: "invalid output format"},
		{name: "log level", args: []string{"inspect", "--log-level", "loud"}, want: "invalid log level"},
		{name: "unknown flag", args: []string{"inspect", "--bogus"}, want: "unknown flag"},
		{name: "missing config file", args: []string{"inspect", "--config", "/nonexistent/capreg.yaml"}, want: "failed to read config file"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(t, err))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestConfigFile(t *testing.T) {
	modules, assets := fixture(t, true)
	cfgPath := filepath.Join(t.TempDir(), "capreg.yaml")
	content := "modules-path: " + modules + "\nassets-path: " + assets + "\nlog-level: debug\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	out, logs, err := execute(t, "inspect", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Forest.Trees")
	assert.Contains(t, logs, "level=DEBUG")
}

func TestEnvironment(t *testing.T) {
	modules, assets := fixture(t, true)
	t.Setenv("CAPREG_MODULES_PATH", modules)
	t.Setenv("CAPREG_ASSETS_PATH", assets)
	t.Setenv("CAPREG_LOG_FORMAT", "json")

	out, logs, err := execute(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "Forest.Trees")
	assert.Contains(t, logs, `"component":"capreg"`)
}
