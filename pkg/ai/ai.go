// Package ai is the facade wiring the game engine to the background worker:
// toggling AI control, applying moves (player- or AI-chosen), and shutting
// down cleanly.
package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tilestack/slide2048/pkg/ai/worker"
	"github.com/tilestack/slide2048/pkg/board"
	"github.com/tilestack/slide2048/pkg/board/stack"
	"github.com/tilestack/slide2048/pkg/game"
)

var version = build.NewVersion(0, 1, 0)

// State reports whether the AI is currently driving moves.
type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "Active"
	}
	return "Inactive"
}

// AI wraps a game.Game and a worker.Worker, presenting a single
// mutex-guarded facade: while Active, Move ignores its direction argument and
// instead applies the worker's current recommendation.
type AI struct {
	mu sync.Mutex

	game     *game.Game
	work     *worker.Worker
	state    State
	maxDepth lang.Optional[int]
}

// New wires a fresh game and worker over a shared move table.
func New(ctx context.Context, t *stack.Table) *AI {
	return &AI{
		game: game.New(t),
		work: worker.New(ctx, t),
	}
}

// SetMaxDepth overrides the forecast tree depth the worker plans to,
// starting from the next CmdWork dispatch. A depth of zero clears the
// override and restores forecast.DefaultTreeDepth.
func (a *AI) SetMaxDepth(depth int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if depth <= 0 {
		a.maxDepth = lang.Optional[int]{}
		return
	}
	a.maxDepth = lang.Some(depth)
}

// ToggleAI flips between Active and Inactive, running the pause/work
// handshake against the background worker, and returns the new state.
func (a *AI) ToggleAI(ctx context.Context) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == Active {
		a.work.In <- worker.CmdPause{}
		a.drainUntilPaused()
		a.state = Inactive
		logw.Infof(ctx, "ai: deactivated")
		return a.state
	}

	a.state = Active
	a.work.In <- worker.CmdWork{Grid: a.game.Grid(ctx), MoveCount: a.game.State(ctx).MoveCount, MaxDepth: a.maxDepth}
	logw.Infof(ctx, "ai: activated")
	return a.state
}

// drainUntilPaused discards events until EvtPaused is observed, per the
// pause discipline: no stale optimal move may survive a pause.
func (a *AI) drainUntilPaused() {
	for evt := range a.work.Out {
		if _, ok := evt.(worker.EvtPaused); ok {
			return
		}
	}
}

// Move processes one move. If the AI is Active, dir is ignored and the
// worker's next optimal move is used instead; if the worker has no viable
// move, this is a no-op. Returns the resulting animation and whether the
// move had any effect.
func (a *AI) Move(ctx context.Context, dir board.Direction) (*game.AnimationData, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == Active {
		var evt worker.EvtOptimalMove
		for e := range a.work.Out {
			if m, ok := e.(worker.EvtOptimalMove); ok {
				evt = m
				break
			}
		}
		a.work.In <- worker.CmdMoveReceived{}
		if !evt.HasMove {
			return nil, false
		}
		dir = evt.Move
	}

	data, effective := a.game.ProcessMove(ctx, dir)
	if effective && a.state == Active {
		a.work.In <- worker.CmdWork{Grid: a.game.Grid(ctx), MoveCount: a.game.State(ctx).MoveCount, MaxDepth: a.maxDepth}
	}
	return data, effective
}

// Grid returns the current board.
func (a *AI) Grid(ctx context.Context) board.Grid {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game.Grid(ctx)
}

// State returns the current game state.
func (a *AI) State(ctx context.Context) game.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game.State(ctx)
}

// Reset restarts the game in place, leaving AI activation unchanged.
func (a *AI) Reset(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.game.Reset(ctx)
}

// Undo reverts the last processed move, if any.
func (a *AI) Undo(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game.UndoLastMove(ctx)
}

// Close shuts the background worker down and blocks until it exits.
func (a *AI) Close(ctx context.Context) {
	logw.Infof(ctx, "ai: closing")
	a.work.Shutdown(ctx)
}

// Name returns the engine name and version.
func Name() string {
	return fmt.Sprintf("slide2048 %v", version)
}
