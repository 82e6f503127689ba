package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tilestack/slide2048/pkg/board"
	"github.com/tilestack/slide2048/pkg/board/stack"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	tbl := stack.NewTable()
	g := New(&tbl)
	g.rand = rand.New(rand.NewSource(1))
	return g
}

func TestNewSpawnsInitialTiles(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	assert.Equal(t, InitialTileCount, board.GridSide*board.GridSide-g.Grid(ctx).ZeroCount())
	assert.Equal(t, New, g.State(ctx).Status)
}

func TestReset(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.ProcessMove(ctx, board.Left)
	g.Reset(ctx)

	assert.Equal(t, State{Status: New}, g.State(ctx))
	assert.Equal(t, InitialTileCount, board.GridSide*board.GridSide-g.Grid(ctx).ZeroCount())
}

func TestProcessMoveOrdinaryState(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.grid = board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 2, 4, 8},
		{16, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	g.state = State{Status: New, MoveCount: 5, Score: 5000}

	_, ok := g.ProcessMove(ctx, board.Left)
	assert.True(t, ok)
	assert.Equal(t, uint32(6), g.state.MoveCount)
	assert.Equal(t, uint32(5004), g.state.Score)
	assert.Equal(t, Playing, g.state.Status)
}

func TestProcessMoveIneffectiveIsNoop(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.grid = board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 4, 8, 16},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	before := g.grid
	g.state = State{Status: Playing, MoveCount: 9, Score: 42}

	data, ok := g.ProcessMove(ctx, board.Left)
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.Equal(t, before, g.grid)
	assert.Equal(t, uint32(9), g.state.MoveCount)
}

func TestProcessMoveVictoryWithMovesRemainingStaysPlaying(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.grid = board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	g.state = State{Status: Playing, MoveCount: 20, Score: 10000}

	_, ok := g.ProcessMove(ctx, board.Left)
	assert.True(t, ok)
	assert.Equal(t, uint32(12048), g.state.Score)
	assert.True(t, g.state.Victory)
	// Victory is tracked independently of Status: a near-empty board still
	// has plenty of legal moves, so Status must stay Playing.
	assert.Equal(t, Playing, g.state.Status)
}

func TestProcessMoveVictoryAndGameOverCanCoincide(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	// A full board where Left merges a 1024 pair into 2048 and shifts row 0
	// so its 8 and 16 no longer match the tiles below them, and whichever
	// tile spawns into the freed slot (2 or 4), the
	// result is frozen in all four directions: Status must be decided from
	// isGameOver alone, not short-circuited by the Victory flag.
	g.grid = board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{1024, 1024, 8, 16},
		{8, 16, 8, 16},
		{16, 8, 16, 8},
		{8, 16, 8, 16},
	})
	g.state = State{Status: Playing, MoveCount: 20, Score: 10000}

	_, ok := g.ProcessMove(ctx, board.Left)
	assert.True(t, ok)
	assert.Equal(t, uint32(12048), g.state.Score)
	assert.True(t, g.state.Victory)
	assert.Equal(t, Over, g.state.Status)
}

func TestProcessMoveHistoryOverflow(t *testing.T) {
	g := newTestGame(t)
	g.grid = board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	for i := 0; i < HistoryLength+5; i++ {
		g.grid.InsertAtKthEmpty(2, 0)
		g.pushHistory()
	}
	assert.LessOrEqual(t, len(g.history), HistoryLength)
}

func TestUndoLastMoveEmpty(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	assert.False(t, g.UndoLastMove(ctx))
}

func TestUndoLastMoveRestoresPriorState(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.grid = board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 2, 4, 8},
		{16, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	g.state = State{Status: New, MoveCount: 5, Score: 5000}
	before := g.grid
	beforeState := g.state

	g.ProcessMove(ctx, board.Left)
	assert.True(t, g.UndoLastMove(ctx))
	assert.Equal(t, before, g.grid)
	assert.Equal(t, beforeState, g.state)
}

func TestGameOverOnSparseGridIsNotOver(t *testing.T) {
	g := board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 4, 8, 16},
		{0, 2, 4, 8},
		{2, 4, 8, 16},
		{2, 4, 8, 16},
	})
	tbl := stack.NewTable()
	assert.False(t, isGameOver(g, tbl))
}

func TestGameOverOnFullBoardWithNoMoves(t *testing.T) {
	g := board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	tbl := stack.NewTable()
	assert.True(t, isGameOver(g, tbl))
}

func TestGameOverOnFullBoardWithAMoveIsNotOver(t *testing.T) {
	g := board.EncodeGrid([board.GridSide][board.GridSide]uint32{
		{2, 2, 4, 8},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	tbl := stack.NewTable()
	assert.False(t, isGameOver(g, tbl))
}
