// Package downsample reduces large analytically generated point series to a
// bounded, render-friendly count while preserving visual shape or extremes.
// The reducers never fail: a degenerate threshold degrades to returning the
// original series, because rendering must not break on a bad size hint.
package downsample

import (
	"math"
	"sort"
)

// Point is one sample of the voltage profile along the conductor.
type Point struct {
	Distance float64 `json:"distance"` // feet from the source
	Voltage  float64 `json:"voltage"`  // volts at that distance
}

// LTTB reduces the series with Largest-Triangle-Three-Buckets: the first and
// last points are always kept, the remainder is partitioned into threshold-2
// near-equal buckets, and each bucket contributes the point forming the
// largest triangle with the previously selected point and the average of the
// next bucket. Shape is preserved perceptually.
//
// A threshold of 0, 1, or >= len(data) returns the input unchanged.
func LTTB(data []Point, threshold int) []Point {
	if threshold <= 1 || threshold >= len(data) {
		return data
	}
	if threshold == 2 {
		return []Point{data[0], data[len(data)-1]}
	}

	sampled := make([]Point, 0, threshold)
	sampled = append(sampled, data[0])

	// Bucket size over the interior points.
	every := float64(len(data)-2) / float64(threshold-2)
	selected := 0

	for i := 0; i < threshold-2; i++ {
		// Average of the next bucket is the third triangle vertex.
		avgStart := int(float64(i+1)*every) + 1
		avgEnd := int(float64(i+2)*every) + 1
		if avgEnd > len(data) {
			avgEnd = len(data)
		}
		if avgStart >= avgEnd {
			avgStart = avgEnd - 1
		}

		var avgX, avgY float64
		for j := avgStart; j < avgEnd; j++ {
			avgX += data[j].Distance
			avgY += data[j].Voltage
		}
		n := float64(avgEnd - avgStart)
		avgX /= n
		avgY /= n

		// Current bucket range.
		rangeStart := int(float64(i)*every) + 1
		rangeEnd := int(float64(i+1)*every) + 1
		if rangeEnd > len(data)-1 {
			rangeEnd = len(data) - 1
		}
		if rangeStart >= rangeEnd {
			rangeStart = rangeEnd - 1
		}

		anchor := data[selected]
		maxArea := -1.0
		maxIndex := rangeStart

		for j := rangeStart; j < rangeEnd; j++ {
			area := math.Abs(
				(anchor.Distance-avgX)*(data[j].Voltage-anchor.Voltage)-
					(anchor.Distance-data[j].Distance)*(avgY-anchor.Voltage)) / 2
			if area > maxArea {
				maxArea = area
				maxIndex = j
			}
		}

		sampled = append(sampled, data[maxIndex])
		selected = maxIndex
	}

	sampled = append(sampled, data[len(data)-1])
	return sampled
}

// MinMax retains the first, last, global-minimum and global-maximum points
// (deduplicated against first/last), fills the remaining budget with evenly
// spaced points, and re-sorts by distance. Extrema survive any reduction.
//
// A threshold of 0 or >= len(data) returns the input unchanged.
func MinMax(data []Point, threshold int) []Point {
	if threshold <= 0 || threshold >= len(data) {
		return data
	}

	minIndex, maxIndex := 0, 0
	for i := range data {
		if data[i].Voltage < data[minIndex].Voltage {
			minIndex = i
		}
		if data[i].Voltage > data[maxIndex].Voltage {
			maxIndex = i
		}
	}

	keep := map[int]struct{}{
		0:             {},
		len(data) - 1: {},
		minIndex:      {},
		maxIndex:      {},
	}

	// Fill the remaining budget with evenly spaced points.
	if remaining := threshold - len(keep); remaining > 0 {
		step := float64(len(data)) / float64(remaining+1)
		for i := 1; i <= remaining; i++ {
			keep[int(float64(i)*step)] = struct{}{}
		}
	}

	indices := make([]int, 0, len(keep))
	for i := range keep {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]Point, 0, len(indices))
	for _, i := range indices {
		out = append(out, data[i])
	}
	return out
}

// EveryNth is naive stride sampling: fastest, weakest shape fidelity, and an
// explicit opt-in fallback when neither shape nor extremes matter.
//
// A threshold of 0 or >= len(data) returns the input unchanged.
func EveryNth(data []Point, threshold int) []Point {
	if threshold <= 0 || threshold >= len(data) {
		return data
	}

	stride := (len(data) + threshold - 1) / threshold
	out := make([]Point, 0, threshold)
	for i := 0; i < len(data); i += stride {
		out = append(out, data[i])
	}
	return out
}

// Point budget clamps tying the reduction to available rendering width.
const (
	defaultPixelsPerPoint = 10
	minPointBudget        = 20
	maxPointBudget        = 200
)

// EstimateOptimalPointCount converts a chart container width into a point
// budget: one point per ten pixels scaled by a complexity factor, clamped to
// [20, 200]. A complexity of zero or below is treated as 1.
func EstimateOptimalPointCount(containerWidthPx int, complexity float64) int {
	if complexity <= 0 {
		complexity = 1
	}
	budget := int(math.Floor(float64(containerWidthPx) / defaultPixelsPerPoint * complexity))
	if budget < minPointBudget {
		return minPointBudget
	}
	if budget > maxPointBudget {
		return maxPointBudget
	}
	return budget
}
