package downsample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sineSeries builds n points of a sine wave, which exercises the
// shape-preserving selection.
func sineSeries(n int) []Point {
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		points[i] = Point{Distance: x, Voltage: 230 + 10*math.Sin(x/8)}
	}
	return points
}

func TestLTTBReducesToThreshold(t *testing.T) {
	t.Parallel()

	data := sineSeries(100)
	out := LTTB(data, 20)

	require.Len(t, out, 20)
	assert.Equal(t, data[0], out[0], "first point preserved")
	assert.Equal(t, data[99], out[19], "last point preserved")
}

func TestLTTBDegenerateThresholds(t *testing.T) {
	t.Parallel()

	data := sineSeries(50)

	// threshold >= len returns the input unchanged, including the boundary.
	assert.Equal(t, data, LTTB(data, 50))
	assert.Equal(t, data, LTTB(data, 51))
	assert.Equal(t, data, LTTB(data, 0))
	assert.Equal(t, data, LTTB(data, 1))

	out := LTTB(data, 2)
	require.Len(t, out, 2)
	assert.Equal(t, data[0], out[0])
	assert.Equal(t, data[49], out[1])
}

func TestLTTBEndpointsForAnyLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 3, 5, 10, 57, 100} {
		for _, threshold := range []int{2, 3, 4, 10, 20} {
			data := sineSeries(n)
			out := LTTB(data, threshold)
			require.NotEmpty(t, out, "n=%d threshold=%d", n, threshold)
			assert.Equal(t, data[0], out[0], "n=%d threshold=%d", n, threshold)
			assert.Equal(t, data[n-1], out[len(out)-1], "n=%d threshold=%d", n, threshold)
		}
	}
}

func TestLTTBIsMonotoneInX(t *testing.T) {
	t.Parallel()

	out := LTTB(sineSeries(200), 30)
	for i := 1; i < len(out); i++ {
		assert.Greater(t, out[i].Distance, out[i-1].Distance, "selected points stay ordered")
	}
}

func TestMinMaxKeepsExtrema(t *testing.T) {
	t.Parallel()

	data := sineSeries(100)
	minPoint, maxPoint := data[0], data[0]
	for _, p := range data {
		if p.Voltage < minPoint.Voltage {
			minPoint = p
		}
		if p.Voltage > maxPoint.Voltage {
			maxPoint = p
		}
	}

	out := MinMax(data, 10)
	require.LessOrEqual(t, len(out), 10)
	assert.Contains(t, out, minPoint, "global minimum survives")
	assert.Contains(t, out, maxPoint, "global maximum survives")
	assert.Equal(t, data[0], out[0])
	assert.Equal(t, data[99], out[len(out)-1])

	// Output is sorted by distance.
	for i := 1; i < len(out); i++ {
		assert.Greater(t, out[i].Distance, out[i-1].Distance)
	}
}

func TestMinMaxDegenerateThresholds(t *testing.T) {
	t.Parallel()

	data := sineSeries(30)
	assert.Equal(t, data, MinMax(data, 0))
	assert.Equal(t, data, MinMax(data, 30))
	assert.Equal(t, data, MinMax(data, 100))
}

func TestEveryNth(t *testing.T) {
	t.Parallel()

	data := sineSeries(100)
	out := EveryNth(data, 25)
	require.LessOrEqual(t, len(out), 25)
	assert.Equal(t, data[0], out[0])

	// Stride of 4 over 100 points.
	assert.Equal(t, data[4], out[1])

	assert.Equal(t, data, EveryNth(data, 0))
	assert.Equal(t, data, EveryNth(data, 100))
}

func TestEstimateOptimalPointCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		widthPx    int
		complexity float64
		want       int
	}{
		{800, 1, 80},
		{1000, 1.5, 150},
		{100, 1, 20},     // clamped to minimum
		{50, 1, 20},      // clamped to minimum
		{4000, 1, 200},   // clamped to maximum
		{1000, 5, 200},   // clamped to maximum
		{800, 0, 80},     // zero complexity treated as 1
		{800, -2.5, 80},  // negative complexity treated as 1
		{805, 1, 80},     // floor, not round
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateOptimalPointCount(tt.widthPx, tt.complexity),
			"width=%d complexity=%g", tt.widthPx, tt.complexity)
	}
}

func TestGenerateProfile(t *testing.T) {
	t.Parallel()

	profile := GenerateProfile(230, 7.0, 100, 101)
	require.Len(t, profile, 101)

	assert.Equal(t, Point{Distance: 0, Voltage: 230}, profile[0])
	assert.InDelta(t, 223.0, profile[100].Voltage, 1e-9)
	assert.InDelta(t, 100.0, profile[100].Distance, 1e-9)

	// Midpoint drops half the total under the linear assumption.
	assert.InDelta(t, 226.5, profile[50].Voltage, 1e-9)

	// Degenerate n is raised to two points.
	short := GenerateProfile(230, 7.0, 100, 1)
	require.Len(t, short, 2)
}

func TestAxisLabels(t *testing.T) {
	t.Parallel()

	profile := GenerateProfile(230, 7.0, 100, 11)
	labels := AxisLabels(profile, 5)
	require.Len(t, labels, 5)
	assert.Equal(t, "0 ft", labels[0])
	assert.Equal(t, "100 ft", labels[4])

	assert.Nil(t, AxisLabels(nil, 5))
	assert.Nil(t, AxisLabels(profile, 0))
}
