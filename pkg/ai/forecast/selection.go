package forecast

import (
	"math"

	"github.com/tilestack/slide2048/pkg/ai/eval"
	"github.com/tilestack/slide2048/pkg/board"
)

// MoveEvaluation aggregates the forecast tree's leaves that originated from
// one direction.
type MoveEvaluation struct {
	ExpectedUtility float64
	LeafCount       int
}

// SelectMove aggregates leaves by their originating direction, weighting
// each leaf's utility by its path probability, then dividing by
// count/ln(count+1) to damp directions that merely produced more leaves.
// Returns the direction with the highest normalized score among directions
// that produced at least one leaf, or ok=false if there is nothing to pick
// from (an empty forecast, or a tree that never left the root).
func SelectMove(leaves []Node) (board.Direction, bool) {
	if len(leaves) == 0 || (len(leaves) == 1 && leaves[0].Depth == 0) {
		return 0, false
	}

	var buckets [4]MoveEvaluation
	for _, leaf := range leaves {
		if !leaf.HasMove {
			continue
		}
		buckets[leaf.Move].ExpectedUtility += leaf.PathProbability * eval.Utility(leaf.Grid)
		buckets[leaf.Move].LeafCount++
	}

	best := board.Up
	bestScore := math.Inf(-1)
	found := false
	for _, dir := range board.Directions() {
		b := buckets[dir]
		if b.LeafCount == 0 {
			continue
		}
		normalizer := float64(b.LeafCount) / math.Log(float64(b.LeafCount)+1)
		score := b.ExpectedUtility / normalizer
		if !found || score > bestScore {
			best, bestScore, found = dir, score, true
		}
	}
	return best, found
}
