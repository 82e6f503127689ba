package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tilestack/slide2048/pkg/board"
	"github.com/tilestack/slide2048/pkg/board/stack"
)

func newTestAI(t *testing.T) (*AI, context.Context) {
	t.Helper()
	tbl := stack.NewTable()
	ctx := context.Background()
	return New(ctx, &tbl), ctx
}

func TestNewStartsInactive(t *testing.T) {
	a, ctx := newTestAI(t)
	defer a.Close(ctx)
	assert.Equal(t, Inactive, a.state)
}

func TestMoveWhileInactiveAppliesGivenDirection(t *testing.T) {
	a, ctx := newTestAI(t)
	defer a.Close(ctx)

	before := a.State(ctx).MoveCount
	_, ok := a.Move(ctx, board.Left)
	after := a.State(ctx).MoveCount

	if ok {
		assert.Equal(t, before+1, after)
	} else {
		assert.Equal(t, before, after)
	}
}

func TestToggleAIActivatesAndDeactivates(t *testing.T) {
	a, ctx := newTestAI(t)
	defer a.Close(ctx)

	state := a.ToggleAI(ctx)
	assert.Equal(t, Active, state)

	done := make(chan State, 1)
	go func() { done <- a.ToggleAI(ctx) }()

	select {
	case s := <-done:
		assert.Equal(t, Inactive, s)
	case <-time.After(2 * time.Second):
		t.Fatal("ToggleAI(deactivate) did not return")
	}
}

func TestSetMaxDepthAffectsSubsequentCmdWork(t *testing.T) {
	a, ctx := newTestAI(t)
	defer a.Close(ctx)

	a.SetMaxDepth(3)
	if d, ok := a.maxDepth.V(); ok {
		assert.Equal(t, 3, d)
	} else {
		t.Fatal("expected maxDepth override to be set")
	}

	a.SetMaxDepth(0)
	_, ok := a.maxDepth.V()
	assert.False(t, ok)
}

func TestCloseShutsDownWorker(t *testing.T) {
	a, ctx := newTestAI(t)
	done := make(chan struct{})
	go func() {
		a.Close(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}
