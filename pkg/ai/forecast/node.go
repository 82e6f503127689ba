// Package forecast builds a shallow stochastic forecast tree over possible
// future boards and picks the move with the highest expected utility.
package forecast

import (
	"math"

	"github.com/tilestack/slide2048/pkg/board"
)

const (
	// DefaultTreeDepth is the forecast tree's target depth (in player moves).
	DefaultTreeDepth = 6
	// TreeSizeThreshold caps the BFS frontier size before forcing a cutoff.
	TreeSizeThreshold = 1200
	// PathProbabilityThreshold is the minimum per-move geometric-mean
	// probability a path must retain, beyond depth 2, to keep expanding.
	PathProbabilityThreshold = 0.25
)

// Node is one board in the forecast tree: a grid reached after Depth
// player moves and some number of random spawns, along with the probability
// of reaching it and the direction that originated its branch from the root.
type Node struct {
	Grid            board.Grid
	Move            board.Direction
	HasMove         bool
	DeltaScore      uint32
	PathProbability float64
	Depth           int
}

// shouldExpand reports whether n's subtree is still worth exploring: the
// first two levels always expand: beyond that, a path must retain a
// per-move geometric-mean survival probability of at least
// PathProbabilityThreshold.
func shouldExpand(n Node) bool {
	if n.Depth <= 2 {
		return true
	}
	return math.Pow(n.PathProbability, 1.0/float64(n.Depth)) >= PathProbabilityThreshold
}
