package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNarrative(t *testing.T) *Narrative {
	t.Helper()
	g, err := DefaultGraph()
	require.NoError(t, err)
	idx, err := NewIndex(g)
	require.NoError(t, err)
	return NewNarrative(idx)
}

func TestNarrativeStartsAtLanding(t *testing.T) {
	n := newTestNarrative(t)
	assert.Equal(t, "landing", n.Current())
	assert.Empty(t, n.History())
	assert.True(t, n.Visited("landing"))
	assert.Equal(t, 1, n.VisitedCount())
	assert.Empty(t, n.Choices())
	assert.False(t, n.CanGoBack())
	// landing has a next, so forward is available straight away
	assert.True(t, n.CanGoNext())
}

func TestNextThenBackScenario(t *testing.T) {
	n := newTestNarrative(t)
	n.GoNext()
	assert.Equal(t, "guide-intro", n.Current())
	assert.Equal(t, []string{"landing"}, n.History())
	assert.True(t, n.CanGoBack())
	assert.Equal(t, Forward, n.Direction())

	n.GoBack()
	assert.Equal(t, "landing", n.Current())
	assert.Empty(t, n.History())
	assert.False(t, n.CanGoBack())
	assert.Equal(t, Backward, n.Direction())
}

func TestGoToThenBackRestores(t *testing.T) {
	n := newTestNarrative(t)
	n.GoNext()
	n.GoNext()
	before := n.Current()
	depth := n.HistoryDepth()

	require.NoError(t, n.GoTo("cheat-sheet"))
	n.GoBack()

	assert.Equal(t, before, n.Current())
	assert.Equal(t, depth, n.HistoryDepth())
}

func TestGoToSameSceneStillPushesHistory(t *testing.T) {
	n := newTestNarrative(t)
	require.NoError(t, n.GoTo("landing"))
	assert.Equal(t, []string{"landing"}, n.History())
	assert.Equal(t, "landing", n.Current())
}

func TestGoToUnknownLeavesStateUntouched(t *testing.T) {
	n := newTestNarrative(t)
	n.GoNext()
	err := n.GoTo("no-such-scene")
	require.ErrorIs(t, err, ErrUnknownScene)
	assert.Equal(t, "guide-intro", n.Current())
	assert.Equal(t, []string{"landing"}, n.History())
	assert.False(t, n.Visited("no-such-scene"))
}

func TestChooseRecordsAndNavigates(t *testing.T) {
	n := newTestNarrative(t)
	require.NoError(t, n.GoTo("ui-intro"))
	require.NoError(t, n.Choose("ui-choice", "Hosted Checkout", "hosted-checkout"))
	label, ok := n.Choice("ui-choice")
	assert.True(t, ok)
	assert.Equal(t, "Hosted Checkout", label)
	assert.Equal(t, "hosted-checkout", n.Current())

	// revisiting the decision overwrites it
	n.GoBack()
	require.NoError(t, n.Choose("ui-choice", "Payment Element", "payment-element"))
	assert.Equal(t, "Payment Element", n.Choices()["ui-choice"])
}

func TestChooseUnknownTargetRecordsNothing(t *testing.T) {
	n := newTestNarrative(t)
	err := n.Choose("ui-choice", "Nope", "missing")
	require.ErrorIs(t, err, ErrUnknownScene)
	_, ok := n.Choice("ui-choice")
	assert.False(t, ok)
	assert.Equal(t, "landing", n.Current())
}

func TestBranchOnlyNodeHasNoNext(t *testing.T) {
	g := NewGraph(
		SceneNode{ID: "fork", Act: 1, Branches: []Branch{{Label: "A", Target: "x"}, {Label: "B", Target: "y"}}},
		SceneNode{ID: "x", Act: 1},
		SceneNode{ID: "y", Act: 1},
	)
	idx, err := NewIndex(g)
	require.NoError(t, err)
	n := NewNarrative(idx)
	assert.Equal(t, "fork", n.Current())
	assert.False(t, n.CanGoNext())

	n.GoNext()
	assert.Equal(t, "fork", n.Current())
	assert.Zero(t, n.HistoryDepth())
}

func TestBackOnEmptyHistoryIsNoop(t *testing.T) {
	n := newTestNarrative(t)
	var fired int
	n.Subscribe(func(Transition) { fired++ })
	n.GoBack()
	assert.Equal(t, "landing", n.Current())
	assert.Zero(t, fired)
}

func TestTerminalNodeStopsForward(t *testing.T) {
	n := newTestNarrative(t)
	require.NoError(t, n.GoTo("cheat-sheet"))
	assert.False(t, n.CanGoNext())
	assert.True(t, n.CurrentNode().Terminal())
	n.GoNext()
	assert.Equal(t, "cheat-sheet", n.Current())
}

func TestVisitedNeverShrinks(t *testing.T) {
	n := newTestNarrative(t)
	last := n.VisitedCount()
	steps := []func(){
		n.GoNext, n.GoNext, n.GoBack, n.GoBack, n.GoBack,
		func() { _ = n.GoTo("ui-intro") },
		func() { _ = n.Choose("ui-choice", "Embedded Checkout", "embedded-checkout") },
		n.GoBack, n.GoNext, n.GoBack,
		func() { _ = n.GoTo("missing") },
	}
	for i, step := range steps {
		step()
		if n.VisitedCount() < last {
			t.Fatalf("visited shrank at step %d: %d -> %d", i, last, n.VisitedCount())
		}
		last = n.VisitedCount()
	}
	assert.True(t, n.Visited("embedded-checkout"))
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	n := newTestNarrative(t)
	var got []Transition
	cancel := n.Subscribe(func(tr Transition) { got = append(got, tr) })
	n.GoNext()
	n.GoBack()
	cancel()
	n.GoNext()

	require.Len(t, got, 2)
	assert.Equal(t, Transition{From: "landing", To: "guide-intro", Direction: Forward, Cause: CauseNext}, got[0])
	assert.Equal(t, Transition{From: "guide-intro", To: "landing", Direction: Backward, Cause: CauseBack}, got[1])
}

func TestProgress(t *testing.T) {
	n := newTestNarrative(t)
	total := n.Index().Len()
	assert.InDelta(t, 1.0/float64(total), n.Progress(), 1e-9)
	n.GoNext()
	n.GoBack()
	assert.InDelta(t, 2.0/float64(total), n.Progress(), 1e-9)
}
