package forecast

import (
	"context"

	"github.com/tilestack/slide2048/pkg/board"
	"github.com/tilestack/slide2048/pkg/board/stack"
)

// spawnValues are the two tile values a random spawn can produce.
var spawnValues = [2]uint32{2, 4}

// GenerateLeaves explores the forecast tree rooted at grid via a breadth-first
// expansion of (move, spawn) pairs, returning the resulting frontier of
// terminal nodes. A node that has no effective move at all becomes a leaf; a
// node rejected by shouldExpand (too deep and too improbable) is discarded
// outright and contributes nothing to the result.
//
// The spawn-probability estimate is computed once from the root grid and
// moveCount and reused for every child at every depth, matching the
// single-estimate scope the algorithm is defined against.
//
// Expansion is capped three ways: if ctx is cancelled (the worker was asked
// to shut down mid-computation), if the frontier grows past
// TreeSizeThreshold, or if a node's depth would exceed maxDepth. Cancellation
// is checked before each node is dequeued; the two other caps stop expansion
// mid-pass and requeue the node that triggered them. In all three cases
// whatever has accumulated (finished leaves plus the remaining frontier) is
// returned as-is. If the whole tree terminates before producing
// a single leaf, the search retries one level shallower; at maxDepth == 0 the
// root itself is considered too deep to explore and the result is empty.
func GenerateLeaves(ctx context.Context, grid board.Grid, moveCount uint32, maxDepth int, table stack.Table) []Node {
	if maxDepth <= 0 {
		return nil
	}

	p2 := BayesSpawnProbability(grid, moveCount)

	queue := []Node{{Grid: grid, PathProbability: 1}}
	var leaves []Node
	currentDepth := 0

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return append(leaves, queue...)
		}

		node := queue[0]
		queue = queue[1:]

		if !shouldExpand(node) {
			continue
		}

		produced := false
		for _, dir := range board.Directions() {
			result := stack.Apply(dir, node.Grid, table)
			if !result.IsEffective() {
				continue
			}

			originating := dir
			if node.HasMove {
				originating = node.Move
			}

			zeros := result.New.ZeroCount()
			childDepth := node.Depth + 1

			for k := 0; k < zeros; k++ {
				for _, spawn := range spawnValues {
					if currentDepth != childDepth {
						if len(queue) > TreeSizeThreshold || childDepth > maxDepth {
							queue = append([]Node{node}, queue...)
							out := make([]Node, 0, len(leaves)+len(queue))
							out = append(out, leaves...)
							out = append(out, queue...)
							return out
						}
						currentDepth = childDepth
					}

					child := Node{
						Move:       originating,
						HasMove:    true,
						DeltaScore: node.DeltaScore + result.DeltaScore,
						Depth:      childDepth,
					}
					child.Grid = result.New
					child.Grid.InsertAtKthEmpty(spawn, k)
					if spawn == 2 {
						child.PathProbability = node.PathProbability * p2
					} else {
						child.PathProbability = node.PathProbability * (1 - p2)
					}
					produced = true
					queue = append(queue, child)
				}
			}
		}

		if !produced {
			leaves = append(leaves, node)
		}
	}

	if len(leaves) == 0 {
		return GenerateLeaves(ctx, grid, moveCount, maxDepth-1, table)
	}
	return leaves
}
