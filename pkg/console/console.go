// Package console implements a line-oriented REPL driver for the game:
// read a command line, apply it, print the resulting board.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/tilestack/slide2048/pkg/ai"
	"github.com/tilestack/slide2048/pkg/board"
)

// ProtocolName identifies this driver when a front end selects among
// protocols by its first stdin line.
const ProtocolName = "console"

// Driver reads commands from in and writes rendered board state to its
// output channel until "quit" or in closes.
type Driver struct {
	quit iox.AsyncCloser

	ai *ai.AI
}

// NewDriver starts a driver reading commands for a from in, and returns the
// driver along with the channel of lines it writes in response.
func NewDriver(ctx context.Context, a *ai.AI, in <-chan string) (*Driver, <-chan string) {
	d := &Driver{ai: a}
	out := make(chan string)

	go func() {
		defer close(out)
		defer d.quit.Close()

		out <- ai.Name()
		d.printBoard(ctx, out)
		for line := range in {
			if !d.dispatch(ctx, out, line) {
				return
			}
		}
	}()

	return d, out
}

// Closed reports, via the returned channel, when the driver has exited.
func (d *Driver) Closed() <-chan struct{} {
	return d.quit.Closed()
}

// dispatch applies one command and reports whether the driver should keep
// running.
func (d *Driver) dispatch(ctx context.Context, out chan<- string, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "up", "u":
		d.move(ctx, out, board.Up)
	case "down":
		d.move(ctx, out, board.Down)
	case "left", "l":
		d.move(ctx, out, board.Left)
	case "right", "r":
		d.move(ctx, out, board.Right)
	case "reset":
		d.ai.Reset(ctx)
		d.printBoard(ctx, out)
	case "undo":
		d.ai.Undo(ctx)
		d.printBoard(ctx, out)
	case "ai":
		state := d.ai.ToggleAI(ctx)
		out <- fmt.Sprintf("ai: %v", state)
	case "depth":
		// depth <n>: overrides the forecast tree depth the worker plans to;
		// depth 0 restores the default.
		if len(args) > 0 {
			depth, _ := strconv.Atoi(args[0])
			d.ai.SetMaxDepth(depth)
		}
	case "print", "p":
		d.printBoard(ctx, out)
	case "quit", "q":
		d.ai.Close(ctx)
		return false
	default:
		logw.Debugf(ctx, "console: unrecognized command %q", line)
	}
	return true
}

func (d *Driver) move(ctx context.Context, out chan<- string, dir board.Direction) {
	if _, ok := d.ai.Move(ctx, dir); !ok {
		out <- "no effect"
	}
	d.printBoard(ctx, out)
}

func (d *Driver) printBoard(ctx context.Context, out chan<- string) {
	tiles := board.DecodeGrid(d.ai.Grid(ctx))
	for _, row := range tiles {
		out <- fmt.Sprintf("%6d%6d%6d%6d", row[0], row[1], row[2], row[3])
	}
	state := d.ai.State(ctx)
	out <- fmt.Sprintf("score=%d status=%v", state.Score, state.Status)
}
