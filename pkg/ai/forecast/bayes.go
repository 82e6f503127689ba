package forecast

import "github.com/tilestack/slide2048/pkg/board"

const (
	// BayesAlpha and BayesBeta are the Beta-prior hyperparameters for the
	// spawn-probability posterior: a prior favoring mostly-2 spawns,
	// consistent with the game's actual 0.9 probability.
	BayesAlpha = 9.0
	BayesBeta  = 1.0
)

// BayesSpawnProbability estimates, from a board's current tile sum and how
// many moves have been played to reach it, the probability that the next
// spawn is a 2 rather than a 4. It inverts the expectation of the tile sum
// under repeated spawns: every spawn adds 2 or 4, so the running sum
// constrains a posterior over how often 2s have been chosen so far.
func BayesSpawnProbability(g board.Grid, moveCount uint32) float64 {
	n := float64(moveCount) + 1
	s := tileSum(g)
	return (BayesAlpha + 2*n - s/2) / (BayesAlpha + BayesBeta + n)
}

func tileSum(g board.Grid) float64 {
	decoded := board.DecodeGrid(g)
	var sum uint64
	for _, row := range decoded {
		for _, v := range row {
			sum += uint64(v)
		}
	}
	return float64(sum)
}
