package stack

import "github.com/tilestack/slide2048/pkg/board"

// MoveResult is the outcome of applying a direction to a full grid: the
// resulting grid, the total score gained, and the per-cell displacement each
// tile underwent (in the original, un-normalized orientation).
type MoveResult struct {
	New           board.Grid
	DeltaScore    uint32
	Displacements board.DisplacementGrid
}

// IsEffective reports whether the move changed the board: whether any tile
// moved or merged.
func (r MoveResult) IsEffective() bool {
	return r.Displacements.IsEffective()
}

// Apply stacks grid g in direction dir using the precomputed table t. Every
// direction reduces to a left stack by normalizing the grid (Up transposes,
// Right reverses, Down transposes then reverses, Left is already normal),
// looking up each row in t, and then undoing the normalization on both the
// resulting grid and its displacement grid.
func Apply(dir board.Direction, g board.Grid, t Table) MoveResult {
	normalized := normalize(dir, g)

	var newGrid board.Grid
	var disp board.DisplacementGrid
	var delta uint32
	for i, row := range normalized {
		if lr, ok := t[row]; ok {
			newGrid[i] = lr.New
			disp[i] = lr.Displacements
			delta += lr.DeltaScore
		} else {
			newGrid[i] = row
		}
	}

	unnormalize(dir, &newGrid, &disp)
	return MoveResult{New: newGrid, DeltaScore: delta, Displacements: disp}
}

func normalize(dir board.Direction, g board.Grid) board.Grid {
	switch dir {
	case board.Up:
		g.Transpose()
	case board.Right:
		g.Reverse()
	case board.Down:
		g.Transpose()
		g.Reverse()
	}
	return g
}

// unnormalize undoes normalize's transform on both the new grid and its
// displacement grid, in reverse order, then flips displacement sign for the
// two directions (Right, Down) whose leftward stack motion is rightward or
// downward in the original orientation.
func unnormalize(dir board.Direction, g *board.Grid, d *board.DisplacementGrid) {
	switch dir {
	case board.Up:
		g.Transpose()
		d.Transpose()
	case board.Right:
		g.Reverse()
		d.Reverse()
		d.ChangeSign()
	case board.Down:
		g.Reverse()
		d.Reverse()
		g.Transpose()
		d.Transpose()
		d.ChangeSign()
	}
}
