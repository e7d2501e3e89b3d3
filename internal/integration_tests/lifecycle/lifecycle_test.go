package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/capreg/internal/app"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/integration_tests"
	"github.com/vk/capreg/internal/module"
	"github.com/vk/capreg/internal/registry"
	"github.com/vk/capreg/internal/testutil"
	"github.com/vk/capreg/modules/ambient"
	"github.com/vk/capreg/modules/hero"
)

// slowSource takes longer to load than the configured load timeout.
type slowSource struct {
	testutil.FakeSource
	delay time.Duration
}

func (s *slowSource) Load(path *string) bool {
	time.Sleep(s.delay)
	return s.FakeSource.Load(path)
}

// Test for: exceeding the load timeout leaves the registry empty
func TestLifecycle_LoadTimeout_LeavesRegistryEmpty(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	compiled := module.New("Slow",
		capability.NewSource("Slow.Sprite", func() capability.Source {
			return &slowSource{FakeSource: *testutil.ValidSource(), delay: 200 * time.Millisecond}
		}),
		testutil.ControllerOf("Slow.Animator", nil),
	)
	files := map[string]string{"assets/Slow/Sprite.png": "png"}
	cfg := app.Config{LoadTimeout: 20 * time.Millisecond}

	// --- Act ---
	result := integration_tests.RunWithConfig(context.Background(), t, files, cfg, &hero.Module{}, compiled)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	assert.Nil(t, result.Report)

	reg := result.App.Registry()
	assert.Equal(t, registry.StateEmpty, reg.State())
	assert.Empty(t, reg.Modules(), "modules published before the timeout are discarded")
	assert.Contains(t, result.LogOutput, "Registry load cancelled, registry reset.")
}

// Test for: unloading and loading again reproduces the same registry
func TestLifecycle_UnloadThenLoad_IsIdempotent(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{"assets/Hero/Sprites/Body.png": "png"}
	result := integration_tests.Run(t, files, &hero.Module{}, &ambient.Module{})
	require.NoError(t, result.Err)
	reg := result.App.Registry()
	before := reg.Snapshot()

	// --- Act ---
	reg.Unload()
	reg.Unload()
	assert.Equal(t, registry.StateEmpty, reg.State())
	_, err := result.App.Load(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(before, reg.Snapshot()); diff != "" {
		t.Errorf("snapshot after reload mismatch (-before +after):\n%s", diff)
	}
}

// Test for: entities get fresh behavior instances from every loaded module
func TestLifecycle_EntitiesGetFreshBehavior(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	files := map[string]string{"assets/Hero/Sprites/Body.png": "png"}
	result := integration_tests.Run(t, files, &hero.Module{}, &ambient.Module{})
	require.NoError(t, result.Err)
	initializer := result.App.Initializer()

	// --- Act ---
	first, err := initializer.Init(context.Background(), testutil.Entity("player-1"))
	require.NoError(t, err)
	second, err := initializer.Init(context.Background(), testutil.Entity("player-2"))
	require.NoError(t, err)

	// --- Assert ---
	require.Len(t, first.Behaviors, 2)
	a, ok := first.Behavior(hero.Name)
	require.True(t, ok)
	b, ok := second.Behavior(hero.Name)
	require.True(t, ok)

	assert.NotSame(t, a.Controller, b.Controller)
	assert.Len(t, a.Sources, 1)
	assert.Len(t, a.Units, 2)

	amb, ok := first.Behavior(ambient.Name)
	require.True(t, ok)
	assert.Empty(t, amb.Sources, "the rain overlay is disabled by default")
}
