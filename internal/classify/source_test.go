package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/capreg/internal/assets"
	"github.com/vk/capreg/internal/capability"
	"github.com/vk/capreg/internal/testutil"
)

func TestSources_RegistersValidSource(t *testing.T) {
	ctx, logs := testutil.NewContext(t)
	provider := assets.NewMemory("Alpha/Sprites/Hero")

	results, err := Sources(ctx, provider, "Alpha", []capability.Descriptor{
		testutil.SourceOf("Alpha.Sprites.Hero", *testutil.ValidSource()),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	src, ok := results[0].Get()
	require.True(t, ok)
	assert.Equal(t, "Alpha", src.Module)
	assert.Equal(t, "Alpha.Sprites.Hero", src.Name)
	assert.Equal(t, "Alpha/Sprites/Hero", src.Path)
	assert.Equal(t, capability.Size{W: 16, H: 16}, src.CellSize)
	assert.Equal(t, "Alpha/Sprites/Hero", src.Texture.Path)
	assert.Equal(t, "Alpha/Sprites/Hero", src.Instance.(*testutil.FakeSource).SeenPath)
	assert.Contains(t, logs.String(), "Source registered.")
}

func TestSources_LoadHookMayRewritePath(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	provider := assets.NewMemory("shared/hero")

	tmpl := *testutil.ValidSource()
	tmpl.Rewrite = "shared/hero"
	results, err := Sources(ctx, provider, "Alpha", []capability.Descriptor{testutil.SourceOf("Alpha.Hero", tmpl)})
	require.NoError(t, err)

	src, ok := results[0].Get()
	require.True(t, ok)
	assert.Equal(t, "shared/hero", src.Path)
}

func TestSources_Rejections(t *testing.T) {
	declined := *testutil.ValidSource()
	declined.Decline = true

	noTracks := *testutil.ValidSource()
	noTracks.TrackList = nil

	zeroSize := *testutil.ValidSource()
	zeroSize.Size = capability.Size{W: 16, H: 0}

	testCases := []struct {
		name       string
		descriptor capability.Descriptor
		wantStatus Status
		wantErr    error
	}{
		{"declined", testutil.SourceOf("M.Declined", declined), NotApplicable, nil},
		{"empty tracks", testutil.SourceOf("M.NoTracks", noTracks), Failed, ErrInvalidSource},
		{"zero size", testutil.SourceOf("M.Zero", zeroSize), Failed, ErrInvalidSource},
		{"missing texture", testutil.SourceOf("M.Missing", *testutil.ValidSource()), Failed, ErrMissingResource},
		{"panicking factory", capability.NewSource("M.Panics", func() capability.Source { panic("boom") }), Failed, ErrInvalidSource},
		{"nil instance", capability.NewSource("M.Nil", func() capability.Source { return nil }), Failed, ErrInvalidSource},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.NewContext(t)
			results, err := Sources(ctx, assets.NewMemory(), "M", []capability.Descriptor{tc.descriptor})
			require.NoError(t, err)
			require.Len(t, results, 1)

			res := results[0]
			assert.Equal(t, tc.wantStatus, res.Status)
			if tc.wantErr == nil {
				assert.NoError(t, res.Err)
				return
			}
			require.ErrorIs(t, res.Err, tc.wantErr)

			var cerr *Error
			require.True(t, errors.As(res.Err, &cerr))
			assert.Equal(t, "M", cerr.Module)
			assert.Equal(t, capability.KindSource, cerr.Capability)
			assert.Equal(t, tc.descriptor.Name(), cerr.Type)
		})
	}
}

func TestSources_OtherCandidatesStillProcessed(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	provider := assets.NewMemory("M/Good")

	results, err := Sources(ctx, provider, "M", []capability.Descriptor{
		testutil.SourceOf("M.Missing", *testutil.ValidSource()),
		testutil.SourceOf("M.Good", *testutil.ValidSource()),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Failed, results[0].Status)
	assert.Equal(t, Found, results[1].Status)
}

func TestSources_ProviderFailureIsNotReportedAsMissing(t *testing.T) {
	ctx, logs := testutil.NewContext(t)
	provider := assets.ProviderFunc(func(context.Context, string) (assets.Handle, error) {
		return assets.Handle{}, errors.New("render host unreachable")
	})

	results, err := Sources(ctx, provider, "M", []capability.Descriptor{
		testutil.SourceOf("M.Hero", *testutil.ValidSource()),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.ErrorIs(t, results[0].Err, ErrMissingResource)
	assert.Contains(t, results[0].Err.Error(), "render host unreachable")
	assert.Contains(t, logs.String(), "Source rejected: texture resolution failed.")
	assert.NotContains(t, logs.String(), "texture not found")
}

func TestSources_MissingTextureLogged(t *testing.T) {
	ctx, logs := testutil.NewContext(t)

	_, err := Sources(ctx, assets.NewMemory(), "M", []capability.Descriptor{
		testutil.SourceOf("M.Hero", *testutil.ValidSource()),
	})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Source rejected: texture not found.")
}

func TestGuard(t *testing.T) {
	require.NoError(t, Guard(func() {}))

	err := Guard(func() { panic("type table init failed") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type table init failed")
}

func TestSources_CancelledContextAborts(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	ctx, cancel := context.WithCancel(ctx)

	provider := assets.ProviderFunc(func(ctx context.Context, path string) (assets.Handle, error) {
		cancel()
		return assets.Handle{}, ctx.Err()
	})

	_, err := Sources(ctx, provider, "M", []capability.Descriptor{
		testutil.SourceOf("M.A", *testutil.ValidSource()),
		testutil.SourceOf("M.B", *testutil.ValidSource()),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, SeverityWarning, SeverityOf(ErrInvalidSource))
	assert.Equal(t, SeverityWarning, SeverityOf(ErrOrphanedSources))
	assert.Equal(t, SeverityError, SeverityOf(ErrMissingResource))
	assert.Equal(t, SeverityError, (&Error{Err: ErrDuplicateDeclaration}).Severity())
}
