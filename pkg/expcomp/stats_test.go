package expcomp

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/expcomp/pkg/ecolor"
	"github.com/abworrall/expcomp/pkg/emath"
)

func scanParams(workers int) ScanParams {
	return ScanParams{Intensity: ecolor.RGBMean, TileWidth: 3, TileHeight: 2, Workers: workers}
}

func TestCollectStatisticsPaired(t *testing.T) {
	// Three cameras, 10x4 bands. 0 overlaps 1 on x in [6,10) and 2 on x in
	// [0,4); 1 and 2 don't overlap at all.
	regions := []image.Rectangle{
		image.Rect(0, 0, 10, 4),
		image.Rect(6, 0, 10, 4),
		image.Rect(0, 0, 4, 4),
	}
	img := newFrame(10, 4,
		ecolor.Pack(90, 90, 90, 255),
		ecolor.Pack(30, 60, 90, 255),
		ecolor.Pack(10, 10, 10, 255),
	)
	// Knock out a pixel in camera 1's band inside the 0-1 overlap; the
	// matching pixel in camera 0 must not count either.
	ecolor.Store(img.Pix[img.PixOffset(7, 4+2):], ecolor.NoData)

	ov := Intersect(regions)
	st := CollectStatistics(img, 4, ov, scanParams(3))

	assert.Equal(t, uint32(15), st.Cnt(0, 1))
	assert.Equal(t, 90.0, st.I(0, 1))
	assert.Equal(t, 60.0, st.I(1, 0))

	// 1 and 2 intersect on [6,10) x [0,4) vs [0,4) x [0,4): nothing
	assert.Equal(t, uint32(1), st.Cnt(1, 2))
	assert.Equal(t, 0.0, st.I(1, 2))
	assert.Equal(t, uint32(16), st.Cnt(0, 2))
	assert.Equal(t, 90.0, st.I(0, 2))
	assert.Equal(t, 10.0, st.I(2, 0))

	// Diagonal stays count 1 intensity 0, self scan goes on the side
	for i := 0; i < 3; i++ {
		assert.Equal(t, uint32(1), st.Cnt(i, i))
		assert.Equal(t, 0.0, st.I(i, i))
	}
	assert.Equal(t, uint32(40), st.SelfCount[0])
	assert.Equal(t, uint32(15), st.SelfCount[1])
	assert.Equal(t, 60.0, st.SelfIntensity[1])
	assert.Equal(t, 10.0, st.SelfIntensity[2])
}

func TestCollectStatisticsSymmetricCounts(t *testing.T) {
	regions := []image.Rectangle{
		image.Rect(0, 0, 20, 8),
		image.Rect(5, 1, 25, 8),
		image.Rect(12, 0, 30, 6),
		image.Rect(0, 3, 30, 5),
	}
	img := newFrame(30, 8,
		ecolor.Pack(200, 100, 50, 255),
		ecolor.Pack(20, 40, 60, 128),
		ecolor.Pack(1, 2, 3, 4),
		ecolor.Pack(255, 255, 255, 255),
	)
	// Sprinkle some NoData around
	for k := 0; k < img.Rect.Dx()*img.Rect.Dy(); k += 7 {
		ecolor.Store(img.Pix[img.PixOffset(k%30, k/30):], ecolor.NoData)
	}

	st := CollectStatistics(img, 8, Intersect(regions), scanParams(0))
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.Equal(t, st.Cnt(i, j), st.Cnt(j, i), "n[%d][%d]", i, j)
			assert.GreaterOrEqual(t, st.Cnt(i, j), uint32(1))
		}
	}
}

func TestCollectStatisticsAllNoData(t *testing.T) {
	regions := []image.Rectangle{image.Rect(0, 0, 4, 4), image.Rect(0, 0, 4, 4)}
	img := newFrame(4, 4, ecolor.NoData, ecolor.Pack(80, 80, 80, 255))

	st := CollectStatistics(img, 4, Intersect(regions), scanParams(1))
	assert.Equal(t, uint32(1), st.Cnt(0, 1))
	assert.Equal(t, uint32(1), st.Cnt(1, 0))
	assert.Equal(t, 0.0, st.I(0, 1))
	assert.Equal(t, 0.0, st.I(1, 0))
	assert.Equal(t, uint32(0), st.SelfCount[0])
	assert.Equal(t, uint32(16), st.SelfCount[1])

	g, err := emath.SolveGauss(BuildSystem(st, 0.5, 1.0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, g[0], 1e-12)
	assert.InDelta(t, 1.0, g[1], 1e-12)
}

func TestCollectStatisticsHonoursStride(t *testing.T) {
	regions := []image.Rectangle{image.Rect(0, 0, 7, 5), image.Rect(2, 1, 9, 5)}
	tight := newFrame(9, 5, ecolor.Pack(100, 110, 120, 255), ecolor.Pack(10, 20, 30, 255))
	ecolor.Store(tight.Pix[tight.PixOffset(3, 5+2):], ecolor.NoData)
	padded := withPadding(tight, 12)
	require.NotEqual(t, tight.Stride, padded.Stride)

	ov := Intersect(regions)
	want := CollectStatistics(tight, 5, ov, scanParams(2))
	got := CollectStatistics(padded, 5, ov, scanParams(2))
	assert.Equal(t, want, got)
	assert.Equal(t, uint32(19), got.Cnt(0, 1))

	// Same again through a sub-image, whose bounds don't start at 0,0
	big := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fillRect(big, big.Rect, ecolor.Pack(255, 0, 0, 255))
	sub := big.SubImage(image.Rect(5, 7, 14, 17)).(*image.RGBA)
	for y := 0; y < 10; y++ {
		for x := 0; x < 9; x++ {
			ecolor.Store(sub.Pix[sub.PixOffset(5+x, 7+y):], at(tight, x, y))
		}
	}
	got = CollectStatistics(sub, 5, ov, scanParams(2))
	assert.Equal(t, want, got)
}

func TestStatisticsMatrices(t *testing.T) {
	st := NewStatistics(2)
	st.Count[1], st.Count[2] = 9, 9
	st.Intensity[1], st.Intensity[2] = 12.5, 40

	cm := st.CountMatrix()
	assert.Equal(t, 1.0, cm.At(0, 0))
	assert.Equal(t, 9.0, cm.At(1, 0))

	im := st.IntensityMatrix()
	assert.Equal(t, 12.5, im.At(0, 1))
	assert.Equal(t, 40.0, im.At(1, 0))

	// A copy, not a view
	im.Set(0, 1, 0)
	assert.Equal(t, 12.5, st.I(0, 1))
	assert.Contains(t, st.String(), "cam0 vs cam1: n=9")
}
