// Package game implements the 2048 game engine: grid state, move processing,
// victory/game-over detection, and bounded undo history.
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/tilestack/slide2048/pkg/board"
	"github.com/tilestack/slide2048/pkg/board/stack"
)

const (
	// ProbTile2 is the probability that a spawned tile is a 2 rather than a 4.
	ProbTile2 = 0.9
	// HistoryLength bounds how many prior (grid, state) pairs Undo can reach.
	HistoryLength = 20
	// InitialTileCount is how many tiles Reset spawns on a fresh board.
	InitialTileCount = 2
)

// Status is the game's coarse lifecycle state.
type Status int

const (
	New Status = iota
	Playing
	Over
)

func (s Status) String() string {
	switch s {
	case New:
		return "New"
	case Playing:
		return "Playing"
	case Over:
		return "Over"
	default:
		return "Unknown"
	}
}

// State is the game's score and lifecycle snapshot, independent of the grid.
type State struct {
	Status    Status
	MoveCount uint32
	Score     uint32
	Victory   bool
}

type historyItem struct {
	grid  board.Grid
	state State
}

// AnimationData describes a single processed move for client-side animation:
// the board immediately after stacking (before the new tile spawns), the
// displacement each tile underwent, and the spawned tile's value and
// position.
type AnimationData struct {
	StackedGrid   board.Grid
	Displacements board.DisplacementGrid
	SpawnedTile   uint32
	SpawnRow      int
	SpawnCol      int
}

// Game is a mutex-guarded 2048 board. Every exported method takes a
// context.Context, even though none currently block, and logs its state
// transitions.
type Game struct {
	mu sync.Mutex

	table *stack.Table
	rand  *rand.Rand

	grid    board.Grid
	state   State
	history []historyItem
}

// New creates a fresh game on a freshly spawned board, using t as the
// precomputed move table.
func New(t *stack.Table) *Game {
	g := &Game{
		table: t,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.reset()
	return g
}

// Grid returns the current board.
func (g *Game) Grid(ctx context.Context) board.Grid {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid
}

// State returns the current score and lifecycle state.
func (g *Game) State(ctx context.Context) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset clears the board, score, and history, and spawns InitialTileCount
// tiles on an empty grid.
func (g *Game) Reset(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	logw.Infof(ctx, "Reset")
	g.reset()
}

func (g *Game) reset() {
	g.grid = board.Grid{}
	g.state = State{Status: New}
	g.history = nil
	for i := 0; i < InitialTileCount; i++ {
		g.spawnTile()
	}
}

// ProcessMove stacks the grid in dir, and if the move actually changes the
// board, commits the new grid, adds the score delta, spawns a new tile, and
// recomputes status. Returns (nil, false) if the move had no effect.
func (g *Game) ProcessMove(ctx context.Context, dir board.Direction) (*AnimationData, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := stack.Apply(dir, g.grid, *g.table)
	if !result.IsEffective() {
		logw.Debugf(ctx, "ProcessMove %v: ineffective", dir)
		return nil, false
	}

	g.pushHistory()

	g.grid = result.New
	g.state.Score += result.DeltaScore
	g.state.MoveCount++
	g.state.Victory = g.state.Victory || g.grid.IsVictory()

	spawnRow, spawnCol, spawnValue := g.spawnTile()

	if isGameOver(g.grid, *g.table) {
		g.state.Status = Over
	} else {
		g.state.Status = Playing
	}

	logw.Debugf(ctx, "ProcessMove %v: score=%d moveCount=%d status=%v", dir, g.state.Score, g.state.MoveCount, g.state.Status)
	return &AnimationData{
		StackedGrid:   result.New,
		Displacements: result.Displacements,
		SpawnedTile:   spawnValue,
		SpawnRow:      spawnRow,
		SpawnCol:      spawnCol,
	}, true
}

// UndoLastMove restores the most recently pushed (grid, state) pair, if any.
func (g *Game) UndoLastMove(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.history) == 0 {
		logw.Debugf(ctx, "UndoLastMove: history empty")
		return false
	}

	item := g.history[0]
	g.history = g.history[1:]
	g.grid = item.grid
	g.state = item.state

	logw.Infof(ctx, "UndoLastMove: restored moveCount=%d", g.state.MoveCount)
	return true
}

func (g *Game) pushHistory() {
	g.history = append([]historyItem{{grid: g.grid, state: g.state}}, g.history...)
	if len(g.history) > HistoryLength {
		g.history = g.history[:HistoryLength]
	}
}

// spawnTile inserts a tile (2 with probability ProbTile2, else 4) at a
// uniformly chosen empty slot and returns its position and value.
func (g *Game) spawnTile() (row, col int, value uint32) {
	zeros := g.grid.ZeroCount()
	if zeros == 0 {
		return 0, 0, 0
	}

	value = uint32(4)
	if g.rand.Float64() < ProbTile2 {
		value = 2
	}

	k := g.rand.Intn(zeros)
	row, col = g.grid.KthEmptyPosition(k)
	g.grid.InsertAtKthEmpty(value, k)
	return row, col, value
}

// isGameOver reports whether the grid is full and no direction produces an
// effective move.
func isGameOver(g board.Grid, t stack.Table) bool {
	if g.ZeroCount() > 0 {
		return false
	}
	for _, dir := range board.Directions() {
		if stack.Apply(dir, g, t).IsEffective() {
			return false
		}
	}
	return true
}
