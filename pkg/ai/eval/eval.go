// Package eval scores a board.Grid with a Cobb-Douglas utility built from
// four heuristics: monotonicity, emptiness, mergeability, and progress
// toward the largest tile.
package eval

import (
	"math"
	"math/bits"

	"github.com/tilestack/slide2048/pkg/board"
)

const (
	// MonoWeight, EmptyWeight, MergeWeight, and the implied progress weight
	// (1 - their sum) are the Cobb-Douglas exponent weights.
	MonoWeight  = 0.40
	EmptyWeight = 0.20
	MergeWeight = 0.15
	// ProgressWeight is the remaining share of the Cobb-Douglas weights.
	ProgressWeight = 1 - MonoWeight - EmptyWeight - MergeWeight

	// HomogeneityDegree is the Cobb-Douglas function's degree: exponents are
	// HomogeneityDegree times each weight.
	HomogeneityDegree = 8

	// GapSensitivity scales the mergeability clutter penalty.
	GapSensitivity = 0.8

	// maxTileProgressDivisor normalizes log2(max tile) to roughly [0, 1];
	// log2(2048) == 11 is exactly 1.
	maxTileProgressDivisor = 11

	// totMonotonicityDivisor is D = 2*n*(n-1) for a board.GridSide=4 board.
	totMonotonicityDivisor = 2 * board.GridSide * (board.GridSide - 1)
)

func log2(v uint32) int {
	return bits.TrailingZeros32(v)
}

// Heuristics scores the grid's monotonicity, emptiness, mergeability, and
// max-tile progress, each roughly in [0, 1].
func Heuristics(g board.Grid) (mono, empty, merge, progress float64) {
	tiles := board.DecodeGrid(g)
	mono = monotonicity(tiles)
	empty = float64(g.ZeroCount()) / float64(board.GridSide*board.GridSide)
	merge = mergeability(tiles)
	progress = maxTileProgress(tiles)
	return
}

// monotonicity counts non-strictly-increasing and non-strictly-decreasing
// adjacent pairs over all rows and, separately, over all columns, takes the
// larger of the two counts on each axis, sums the two axes, and rescales against the all-pairs total so a perfectly
// monotone board (in both axes) scores 1.
func monotonicity(tiles [board.GridSide][board.GridSide]uint32) float64 {
	var incH, decH, incV, decV int
	for i := 0; i < board.GridSide; i++ {
		for j := 0; j < board.GridSide-1; j++ {
			a, b := tiles[i][j], tiles[i][j+1]
			if a <= b {
				incH++
			}
			if a >= b {
				decH++
			}
		}
	}
	for j := 0; j < board.GridSide; j++ {
		for i := 0; i < board.GridSide-1; i++ {
			a, b := tiles[i][j], tiles[i+1][j]
			if a <= b {
				incV++
			}
			if a >= b {
				decV++
			}
		}
	}

	d := float64(totMonotonicityDivisor)
	sum := float64(max(incH, decH) + max(incV, decV))
	return (sum - d/2) / (d / 2)
}

// mergeability penalizes a board that holds many distinct tile values at
// once (few merge opportunities) relative to one dominated by a small set of
// repeated values.
func mergeability(tiles [board.GridSide][board.GridSide]uint32) float64 {
	var seen [32]bool
	maxLog := 0
	for _, row := range tiles {
		for _, v := range row {
			if v == 0 {
				continue
			}
			l := log2(v)
			seen[l] = true
			if l > maxLog {
				maxLog = l
			}
		}
	}
	if maxLog <= 1 {
		return 1
	}

	count := 0
	for _, s := range seen {
		if s {
			count++
		}
	}
	clutter := float64(count) / (float64(maxLog) * float64(maxLog+1) / 2)
	return 1 - GapSensitivity*clutter
}

// maxTileProgress measures how close the board's largest tile is to
// board.VictoryThreshold.
func maxTileProgress(tiles [board.GridSide][board.GridSide]uint32) float64 {
	var maxTile uint32
	for _, row := range tiles {
		for _, v := range row {
			if v > maxTile {
				maxTile = v
			}
		}
	}
	if maxTile == 0 {
		return 0
	}
	return float64(log2(maxTile)) / maxTileProgressDivisor
}

// Utility combines the four heuristics into a single Cobb-Douglas score.
// Returns +Inf once progress reaches 1 (a tile at or past VictoryThreshold):
// any board with a winning tile outranks any non-winning board.
func Utility(g board.Grid) float64 {
	mono, empty, merge, progress := Heuristics(g)
	if progress >= 1 {
		return math.Inf(1)
	}
	return math.Pow(mono, HomogeneityDegree*MonoWeight) *
		math.Pow(empty, HomogeneityDegree*EmptyWeight) *
		math.Pow(merge, HomogeneityDegree*MergeWeight) *
		math.Pow(progress, HomogeneityDegree*ProgressWeight)
}
