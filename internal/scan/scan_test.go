package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/module"
)

type noopUnit struct{}

func (noopUnit) Name() string { return "noop" }

func TestScan_GroupsByFamily(t *testing.T) {
	calls := 0
	newUnit := func() capability.Unit {
		calls++
		return noopUnit{}
	}

	mod := module.New("Alpha",
		capability.NewUnit("Alpha.A", newUnit),
		capability.NewSource("Alpha.S", func() capability.Source { return nil }),
		capability.NewUnit("Alpha.B", newUnit),
	)

	c := Scan(context.Background(), mod)

	require.Len(t, c.Units, 2)
	require.Len(t, c.Sources, 1)
	assert.Empty(t, c.Controllers)
	assert.Empty(t, c.Managers)
	assert.Equal(t, "Alpha.A", c.Units[0].Name())
	assert.Equal(t, "Alpha.B", c.Units[1].Name())
	assert.Equal(t, 3, c.Len())
	assert.Zero(t, calls, "scanning must not construct instances")
}

func TestScan_FiltersNonCandidates(t *testing.T) {
	mod := module.New("Beta",
		capability.Descriptor{},
		capability.NewUnit("", func() capability.Unit { return noopUnit{} }),
		capability.NewUnit("Beta.Abstract", nil),
		capability.NewUnit("Beta.Template", func() capability.Unit { return noopUnit{} }).AsGeneric(),
	)

	c := Scan(context.Background(), mod)

	assert.True(t, c.Empty())
	assert.Equal(t, "Beta", c.Module)
}

func TestCandidates_Of(t *testing.T) {
	c := &Candidates{Managers: []capability.Descriptor{capability.NewUnit("x", nil)}}
	assert.Len(t, c.Of(capability.KindManager), 1)
	assert.Nil(t, c.Of(capability.KindInvalid))
}
