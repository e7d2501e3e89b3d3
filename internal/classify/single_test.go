package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/testutil"
)

func TestSingle(t *testing.T) {
	ctx, _ := testutil.NewContext(t)

	res := Single(ctx, "Alpha", capability.KindController, nil)
	assert.Equal(t, NotApplicable, res.Status)

	res = Single(ctx, "Alpha", capability.KindController, []capability.Descriptor{testutil.ControllerOf("Alpha.Anim", nil)})
	ref, ok := res.Get()
	require.True(t, ok)
	assert.Equal(t, "Alpha.Anim", ref.Name())
	assert.Equal(t, "Alpha", ref.Module)

	c, ok := ref.NewController()
	require.True(t, ok)
	assert.NotNil(t, c)
}

func TestSingle_DuplicateDeclaration(t *testing.T) {
	ctx, logs := testutil.NewContext(t)

	res := Single(ctx, "Beta", capability.KindManager, []capability.Descriptor{
		testutil.ManagerOf("Beta.First", nil),
		testutil.ManagerOf("Beta.Second", nil),
	})

	assert.Equal(t, Failed, res.Status)
	require.ErrorIs(t, res.Err, ErrDuplicateDeclaration)
	assert.Contains(t, res.Err.Error(), "Beta.First, Beta.Second")
	_, ok := res.Get()
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "duplicate declaration")
}

func TestSingle_PanicsOnMultiValuedKind(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	assert.Panics(t, func() { Single(ctx, "Alpha", capability.KindUnit, nil) })
}

func TestOrphaned(t *testing.T) {
	ctx, _ := testutil.NewContext(t)

	assert.NoError(t, Orphaned(ctx, "Alpha", 0, false))
	assert.NoError(t, Orphaned(ctx, "Alpha", 2, true))

	err := Orphaned(ctx, "Alpha", 2, false)
	require.ErrorIs(t, err, ErrOrphanedSources)
	assert.Equal(t, SeverityWarning, SeverityOf(err))
}

func TestUnits(t *testing.T) {
	ctx, _ := testutil.NewContext(t)

	assert.Nil(t, Units(ctx, "Alpha", nil))

	refs := Units(ctx, "Alpha", []capability.Descriptor{testutil.UnitOf("Alpha.Dash"), testutil.UnitOf("Alpha.Jump")})
	require.Len(t, refs, 2)
	assert.Equal(t, "Alpha.Jump", refs[1].Name())
	assert.Equal(t, capability.KindUnit, refs[1].Kind())
}

func TestResult(t *testing.T) {
	assert.Equal(t, "found", Ok(1).Status.String())
	assert.Equal(t, "not_applicable", Skip[int]().Status.String())
	assert.Equal(t, "failed", Fail[int](ErrInvalidSource).Status.String())
}
