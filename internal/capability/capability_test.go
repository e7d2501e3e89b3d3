package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubController struct{}

func (stubController) Attach(context.Context, Entity) error { return nil }

func TestResourcePath(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Foo.Bar.Baz", "Foo/Bar/Baz"},
		{"Single", "Single"},
		{"", ""},
		{"Trailing.", "Trailing/"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ResourcePath(tc.in))
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("Controller")
	require.NoError(t, err)
	assert.Equal(t, KindController, got)

	_, err = ParseKind("widget")
	require.Error(t, err)
}

func TestKind_SingleValued(t *testing.T) {
	assert.False(t, KindSource.SingleValued())
	assert.True(t, KindController.SingleValued())
	assert.True(t, KindManager.SingleValued())
	assert.False(t, KindUnit.SingleValued())
	assert.False(t, KindInvalid.Valid())
}

func TestDescriptor_TaggedVariant(t *testing.T) {
	d := NewController("Alpha.Anim", func() Controller { return stubController{} })

	require.NoError(t, d.Validate())
	assert.Equal(t, KindController, d.Kind())
	assert.True(t, d.Concrete())
	assert.False(t, d.Generic())

	_, ok := d.Source()
	assert.False(t, ok, "a controller descriptor must not produce a source")

	c, ok := d.Controller()
	require.True(t, ok)
	assert.NotNil(t, c)
}

func TestDescriptor_Invalid(t *testing.T) {
	var zero Descriptor
	require.Error(t, zero.Validate())
	assert.False(t, zero.Concrete())

	require.Error(t, NewUnit("", nil).Validate())
	assert.False(t, NewUnit("Alpha.Dash", nil).Concrete())
	assert.True(t, NewUnit("Alpha.Dash", nil).AsGeneric().Generic())
}
