package manseg_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/manseg"
	"github.com/hupe1980/manseg/resource"
	"github.com/hupe1980/manseg/segment"
)

// Values whose mantissa fits in the head survive mirroring exactly;
// everything else mirrors at head precision.
func TestBuildMirror_HeadRepresentableValues(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(4)
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	// 5^10 needs 23 mantissa bits, so 1e10 carries a nonzero tail and
	// is the one value here the head cannot hold exactly.
	values := []float64{1.0, -2.0, 0.0, 1e10}
	for i, v := range values {
		require.NoError(t, arr.SetFull(i, v))
	}

	require.NoError(t, arr.BuildMirror(ctx))
	assert.True(t, arr.HasMirror())

	mirror, err := arr.Mirror()
	require.NoError(t, err)

	for i, v := range values {
		assert.Equal(t, segment.DecodeHead(segment.EncodeHead(v)), mirror[i], "element %d", i)
	}
	assert.Equal(t, []float64{1.0, -2.0, 0.0}, mirror[:3])
	assert.InEpsilon(t, 1e10, mirror[3], segment.MaxSingleSegmentPrecision)
}

func TestBuildMirror_DecodesHeadOnly(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(1)
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	// Both cells hold pi, but the mirror upgrades from the reduced
	// view and ignores the tail.
	require.NoError(t, arr.SetFull(0, math.Pi))
	require.NoError(t, arr.BuildMirror(ctx))

	mirror, err := arr.Mirror()
	require.NoError(t, err)
	assert.Equal(t, segment.DecodeHead(segment.EncodeHead(math.Pi)), mirror[0])
	assert.NotEqual(t, math.Pi, mirror[0])
}

func TestBuildMirror_Independence(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(2)
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	require.NoError(t, arr.Set(0, 1.0))
	require.NoError(t, arr.BuildMirror(ctx))

	mirror, err := arr.Mirror()
	require.NoError(t, err)

	// Storage mutation must not leak into the mirror.
	require.NoError(t, arr.Set(0, 7.0))
	assert.Equal(t, 1.0, mirror[0])

	// Mirror mutation must not leak into storage.
	mirror[1] = 42.0
	got, err := arr.Read(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestBuildMirror_RejectsRebuild(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(2)
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	require.NoError(t, arr.BuildMirror(ctx))
	assert.ErrorIs(t, arr.BuildMirror(ctx), manseg.ErrMirrorExists)

	// After an explicit release the mirror may be rebuilt.
	require.NoError(t, arr.ReleaseMirror())
	assert.False(t, arr.HasMirror())
	require.NoError(t, arr.BuildMirror(ctx))
	require.NoError(t, arr.ReleaseMirror())
}

func TestReleaseMirror_Errors(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(1)
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	// Releasing before building.
	assert.ErrorIs(t, arr.ReleaseMirror(), manseg.ErrNoMirror)
	_, err = arr.Mirror()
	assert.ErrorIs(t, err, manseg.ErrNoMirror)

	require.NoError(t, arr.BuildMirror(ctx))
	require.NoError(t, arr.ReleaseMirror())

	// Double release and use after release.
	assert.ErrorIs(t, arr.ReleaseMirror(), manseg.ErrDoubleRelease)
	_, err = arr.Mirror()
	assert.ErrorIs(t, err, manseg.ErrReleased)
}

func TestBuildMirror_AfterStorageRelease(t *testing.T) {
	arr, err := manseg.New(1)
	require.NoError(t, err)
	require.NoError(t, arr.ReleaseStorage())

	assert.ErrorIs(t, arr.BuildMirror(context.Background()), manseg.ErrReleased)
}

// The mirror outlives released storage: it is an independent owner.
func TestMirror_SurvivesStorageRelease(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(2)
	require.NoError(t, err)

	require.NoError(t, arr.Set(0, 2.5))
	require.NoError(t, arr.BuildMirror(ctx))
	require.NoError(t, arr.ReleaseStorage())

	mirror, err := arr.Mirror()
	require.NoError(t, err)
	assert.Equal(t, 2.5, mirror[0])

	require.NoError(t, arr.ReleaseMirror())
}

func TestBuildMirror_ManyWorkers(t *testing.T) {
	ctx := context.Background()

	const n = 4096
	arr, err := manseg.New(n, manseg.WithFillWorkers(8))
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	for i := 0; i < n; i++ {
		require.NoError(t, arr.Set(i, float64(i)*0.5))
	}

	require.NoError(t, arr.BuildMirror(ctx))

	mirror, err := arr.Mirror()
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		want, err := arr.Read(i)
		require.NoError(t, err)
		assert.Equal(t, want, mirror[i], "element %d", i)
	}
}

func TestBuildMirrorAsync(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(1024, manseg.WithFillWorkers(4))
	require.NoError(t, err)
	defer arr.ReleaseStorage() //nolint:errcheck

	for i := 0; i < arr.Len(); i++ {
		require.NoError(t, arr.Set(i, float64(i)))
	}

	build, err := arr.BuildMirrorAsync(ctx)
	require.NoError(t, err)
	require.NoError(t, build.Wait())

	mirror, err := arr.Mirror()
	require.NoError(t, err)
	assert.Equal(t, 1023.0, mirror[1023])
}

func TestBuildMirrorAsync_PreconditionErrors(t *testing.T) {
	ctx := context.Background()

	arr, err := manseg.New(2)
	require.NoError(t, err)

	require.NoError(t, arr.BuildMirror(ctx))
	_, err = arr.BuildMirrorAsync(ctx)
	assert.ErrorIs(t, err, manseg.ErrMirrorExists)

	require.NoError(t, arr.ReleaseMirror())
	require.NoError(t, arr.ReleaseStorage())
	_, err = arr.BuildMirrorAsync(ctx)
	assert.ErrorIs(t, err, manseg.ErrReleased)
}

func TestBuildMirror_MemoryLimit(t *testing.T) {
	ctx := context.Background()

	// Room for the segment buffer (8 bytes/element) but not for the
	// mirror on top.
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 12 * 8})

	arr, err := manseg.New(10, manseg.WithResourceController(ctrl))
	require.NoError(t, err)

	err = arr.BuildMirror(ctx)
	assert.ErrorIs(t, err, manseg.ErrAllocationFailure)

	// Releasing storage frees budget; the mirror then fits.
	require.NoError(t, arr.ReleaseStorage())
	assert.Equal(t, int64(0), ctrl.MemoryUsage())
}
