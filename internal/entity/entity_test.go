package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/capreg/internal/assets"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/module"
	"github.com/vk/capreg/internal/registry"
	"github.com/vk/capreg/internal/testutil"
)

func loadedRegistry(t *testing.T, modules ...module.Module) *registry.Registry {
	t.Helper()
	ctx, _ := testutil.NewContext(t)
	reg := registry.New(assets.NewMemory("Alpha/Hero", "Orphan/Sprite"))
	_, err := reg.Load(ctx, modules...)
	require.NoError(t, err)
	return reg
}

func TestInit_BuildsBehaviorPerModule(t *testing.T) {
	log := &testutil.Attachments{}
	reg := loadedRegistry(t,
		module.New("Alpha",
			testutil.SourceOf("Alpha.Hero", *testutil.ValidSource()),
			testutil.ControllerOf("Alpha.Animator", log),
			testutil.ManagerOf("Alpha.Abilities", log),
			testutil.UnitOf("Alpha.Dash"),
			testutil.UnitOf("Alpha.Jump"),
		),
		module.New("Orphan", testutil.SourceOf("Orphan.Sprite", *testutil.ValidSource())),
		module.New("Loose", testutil.UnitOf("Loose.Dash")),
	)

	ctx, _ := testutil.NewContext(t)
	state, err := NewInitializer(reg).Init(ctx, testutil.Entity("player-1"))
	require.NoError(t, err)

	require.Len(t, state.Behaviors, 1, "modules without controller or manager contribute nothing")
	b, ok := state.Behavior("Alpha")
	require.True(t, ok)
	assert.Len(t, b.Sources, 1)
	require.Len(t, b.Units, 2)
	assert.Equal(t, "Alpha.Jump", b.Units[1].Name())
	assert.Equal(t, b.Units, b.Manager.(*testutil.FakeManager).Units)

	assert.Equal(t, []string{"Alpha.Animator->player-1", "Alpha.Abilities->player-1"}, log.Calls())

	_, ok = state.Behavior("Orphan")
	assert.False(t, ok)
}

func TestInit_FreshInstancesPerEntity(t *testing.T) {
	reg := loadedRegistry(t, module.New("Alpha", testutil.ControllerOf("Alpha.Animator", nil)))
	initializer := NewInitializer(reg)
	ctx := context.Background()

	a, err := initializer.Init(ctx, testutil.Entity("a"))
	require.NoError(t, err)
	b, err := initializer.Init(ctx, testutil.Entity("b"))
	require.NoError(t, err)

	assert.NotSame(t, a.Behaviors[0].Controller, b.Behaviors[0].Controller)
}

func TestInit_AttachFailureIsScopedToModule(t *testing.T) {
	failing := capability.NewController("Bad.Animator", func() capability.Controller {
		return &testutil.FakeController{Name: "Bad.Animator", Err: errors.New("no skeleton")}
	})
	reg := loadedRegistry(t,
		module.New("Bad", failing),
		module.New("Good", testutil.ControllerOf("Good.Animator", nil)),
	)

	state, err := NewInitializer(reg).Init(context.Background(), testutil.Entity("e"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no skeleton")

	_, ok := state.Behavior("Good")
	assert.True(t, ok)
	_, ok = state.Behavior("Bad")
	assert.False(t, ok)
}

func TestInit_RequiresLoadedRegistry(t *testing.T) {
	reg := registry.New(assets.NewMemory())
	_, err := NewInitializer(reg).Init(context.Background(), testutil.Entity("e"))
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestInit_PanicIsScopedToModule(t *testing.T) {
	badController := capability.NewController("Bad.Animator", func() capability.Controller {
		return panickingController{}
	})
	panickingUnit := capability.NewUnit("Worse.Dash", func() capability.Unit { panic("unit table missing") })
	reg := loadedRegistry(t,
		module.New("Bad", badController),
		module.New("Worse", testutil.ManagerOf("Worse.Abilities", nil), panickingUnit),
		module.New("Good", testutil.ControllerOf("Good.Animator", nil)),
	)

	state, err := NewInitializer(reg).Init(context.Background(), testutil.Entity("e"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skeleton exploded")
	assert.Contains(t, err.Error(), "unit table missing")

	_, ok := state.Behavior("Good")
	assert.True(t, ok)
	_, ok = state.Behavior("Bad")
	assert.False(t, ok)
	_, ok = state.Behavior("Worse")
	assert.False(t, ok)
}

type panickingController struct{}

func (panickingController) Attach(context.Context, capability.Entity) error {
	panic("skeleton exploded")
}
