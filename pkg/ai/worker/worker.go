// Package worker runs the AI's forecast computation on a background
// goroutine, decoupling move selection from the foreground game loop.
package worker

import (
	"context"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"

	"github.com/tilestack/slide2048/pkg/ai/forecast"
	"github.com/tilestack/slide2048/pkg/board"
	"github.com/tilestack/slide2048/pkg/board/stack"
)

// MovesQueueCapacity is the maximum number of unacknowledged EvtOptimalMove
// events the worker will buffer before it switches to Waiting.
const MovesQueueCapacity = 20

// State is the worker's internal dispatch state.
type State int

const (
	Paused State = iota
	Working
	Waiting
	Terminating
)

func (s State) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Working:
		return "Working"
	case Waiting:
		return "Waiting"
	case Terminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// Command is a message sent from the foreground to the worker.
type Command interface{ isCommand() }

// CmdWork tells the worker to start (or restart) planning from grid at
// moveCount. It always carries the latest board; the worker never resumes
// partial state from a prior CmdWork.
type CmdWork struct {
	Grid      board.Grid
	MoveCount uint32
	// MaxDepth overrides forecast.DefaultTreeDepth when set.
	MaxDepth lang.Optional[int]
}

// CmdPause tells the worker to stop planning and acknowledge with EvtPaused.
type CmdPause struct{}

// CmdShutdown tells the worker to exit its loop.
type CmdShutdown struct{}

// CmdMoveReceived acknowledges that the foreground consumed one
// EvtOptimalMove, making room in the backpressure counter.
type CmdMoveReceived struct{}

func (CmdWork) isCommand()         {}
func (CmdPause) isCommand()        {}
func (CmdShutdown) isCommand()     {}
func (CmdMoveReceived) isCommand() {}

// Event is a message sent from the worker to the foreground.
type Event interface{ isEvent() }

// EvtOptimalMove reports the worker's current recommendation. HasMove is
// false when the forecast tree found no viable direction.
type EvtOptimalMove struct {
	Move    board.Direction
	HasMove bool
}

// EvtBufferFull reports that the worker has MovesQueueCapacity unacknowledged
// moves outstanding and is pausing production until the foreground catches
// up. It is emitted once per transition into Waiting.
type EvtBufferFull struct{}

// EvtPaused acknowledges a CmdPause. It acts as a fence: any EvtOptimalMove
// observed after EvtPaused belongs to a later CmdWork session.
type EvtPaused struct{}

func (EvtOptimalMove) isEvent() {}
func (EvtBufferFull) isEvent()  {}
func (EvtPaused) isEvent()      {}

// Worker computes optimal moves on a single background goroutine, started
// from New and exited via a CmdShutdown command.
type Worker struct {
	In  chan Command
	Out chan Event

	table *stack.Table
	done  iox.AsyncCloser
	// quit is closed by Shutdown before it sends CmdShutdown, ahead of done,
	// so an in-flight computeOptimalMove can be cancelled via its context
	// rather than run to completion.
	quit iox.AsyncCloser

	active        atomic.Bool
	bufferedCount atomic.Uint32
}

// New starts a Worker's run loop on a background goroutine and returns
// immediately. The worker begins in the Paused state.
func New(ctx context.Context, t *stack.Table) *Worker {
	w := &Worker{
		In:    make(chan Command, 4),
		Out:   make(chan Event, MovesQueueCapacity*2),
		table: t,
	}
	go w.run(ctx)
	return w
}

// Shutdown sends CmdShutdown and blocks until the run loop has exited.
func (w *Worker) Shutdown(ctx context.Context) {
	logw.Infof(ctx, "worker: shutdown requested")
	w.quit.Close()
	w.In <- CmdShutdown{}
	<-w.done.Closed()
}

func (w *Worker) run(ctx context.Context) {
	wctx, cancel := contextx.WithQuitCancel(ctx, w.quit.Closed())
	defer cancel()

	var grid board.Grid
	var moveCount uint32
	maxDepth := forecast.DefaultTreeDepth
	state := Paused

	for {
		// Paused and Waiting have nothing to compute, so block for the next
		// command instead of spinning; Working drains pending commands
		// without blocking so a CmdPause or CmdWork can interrupt it between
		// computed moves. A closed In is handled as CmdShutdown.
		if state == Paused || state == Waiting {
			w.active.Store(false)
			cmd, ok := <-w.In
			if !ok {
				cmd = CmdShutdown{}
			}
			state = w.applyCommand(ctx, cmd, &grid, &moveCount, &maxDepth, state)
			if state == Waiting && w.bufferedCount.Load() < MovesQueueCapacity {
				state = Working
			}
			continue
		}

		for drained := false; !drained && state != Terminating; {
			select {
			case cmd, ok := <-w.In:
				if !ok {
					cmd = CmdShutdown{}
				}
				state = w.applyCommand(ctx, cmd, &grid, &moveCount, &maxDepth, state)
			default:
				drained = true
			}
		}

		switch state {
		case Working:
			w.active.Store(true)
			if w.bufferedCount.Load() < MovesQueueCapacity {
				dir, ok := w.computeOptimalMove(wctx, grid, moveCount, maxDepth)
				w.bufferedCount.Inc()
				w.Out <- EvtOptimalMove{Move: dir, HasMove: ok}
			} else {
				w.Out <- EvtBufferFull{}
				state = Waiting
			}
		case Terminating:
			w.active.Store(false)
			w.done.Close()
			logw.Infof(ctx, "worker: terminated")
			return
		default:
			// Paused/Waiting handled above.
		}
	}
}

func (w *Worker) applyCommand(ctx context.Context, cmd Command, grid *board.Grid, moveCount *uint32, maxDepth *int, state State) State {
	switch c := cmd.(type) {
	case CmdWork:
		*grid = c.Grid
		*moveCount = c.MoveCount
		if d, ok := c.MaxDepth.V(); ok {
			*maxDepth = d
		} else {
			*maxDepth = forecast.DefaultTreeDepth
		}
		w.bufferedCount.Store(0)
		logw.Debugf(ctx, "worker: CmdWork moveCount=%d maxDepth=%d", c.MoveCount, *maxDepth)
		return Working
	case CmdPause:
		w.Out <- EvtPaused{}
		logw.Debugf(ctx, "worker: CmdPause")
		return Paused
	case CmdMoveReceived:
		if w.bufferedCount.Load() > 0 {
			w.bufferedCount.Dec()
		}
		return state
	case CmdShutdown:
		logw.Debugf(ctx, "worker: CmdShutdown")
		return Terminating
	default:
		return state
	}
}

func (w *Worker) computeOptimalMove(ctx context.Context, grid board.Grid, moveCount uint32, maxDepth int) (board.Direction, bool) {
	leaves := forecast.GenerateLeaves(ctx, grid, moveCount, maxDepth, *w.table)
	return forecast.SelectMove(leaves)
}
