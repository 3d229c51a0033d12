package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGraphClosure(t *testing.T) {
	g, err := DefaultGraph()
	require.NoError(t, err)
	idx, err := NewIndex(g)
	require.NoError(t, err)

	for _, n := range idx.Nodes() {
		if !idx.Reachable(n.ID) {
			continue
		}
		if n.Next != "" && !idx.Has(n.Next) {
			t.Fatalf("%s: next %s does not resolve", n.ID, n.Next)
		}
		for _, b := range n.Branches {
			if !idx.Has(b.Target) {
				t.Fatalf("%s: branch %s does not resolve", n.ID, b.Target)
			}
		}
	}
	assert.Equal(t, "landing", idx.Start())
	assert.Equal(t, idx.Len(), idx.ReachableCount())
}

func TestDefaultGraphActGroups(t *testing.T) {
	g, err := DefaultGraph()
	require.NoError(t, err)
	idx, err := NewIndex(g)
	require.NoError(t, err)

	groups := idx.ActGroups()
	acts := make([]int, len(groups))
	total := 0
	for i, gr := range groups {
		acts[i] = gr.Act
		total += len(gr.Scenes)
	}
	assert.Equal(t, []int{1, 2, 3, 5}, acts)
	assert.Equal(t, idx.Len(), total)
	assert.Equal(t, "landing", groups[0].Scenes[0].ID)
}

func TestDefaultGraphBranches(t *testing.T) {
	g, err := DefaultGraph()
	require.NoError(t, err)
	idx, err := NewIndex(g)
	require.NoError(t, err)

	assert.Equal(t, []string{"hosted-checkout", "embedded-checkout", "payment-element"}, idx.BranchTargets())
	assert.True(t, idx.IsBranchTarget("payment-element"))
	assert.False(t, idx.IsBranchTarget("ui-comparison"))

	meta, ok := idx.BranchMeta("embedded-checkout")
	require.True(t, ok)
	assert.Equal(t, "Embedded Checkout", meta.Label)
	assert.Equal(t, "🧩", meta.Emoji)

	fork, ok := idx.Node("ui-intro")
	require.True(t, ok)
	assert.Equal(t, "ui-choice", fork.DecisionKey())
	assert.False(t, fork.Terminal())
}

func TestNonContiguousActMakesSecondGroup(t *testing.T) {
	idx, err := NewIndex(NewGraph(
		SceneNode{ID: "a", Act: 1, Next: "b"},
		SceneNode{ID: "b", Act: 2, Next: "c"},
		SceneNode{ID: "c", Act: 1},
	))
	require.NoError(t, err)
	groups := idx.ActGroups()
	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].Act)
	assert.Equal(t, 1, groups[2].Act)
}

func TestBranchMetaLastWriterWins(t *testing.T) {
	idx, err := NewIndex(NewGraph(
		SceneNode{ID: "a", Act: 1, Branches: []Branch{{Label: "first", Target: "c"}}, Next: "b"},
		SceneNode{ID: "b", Act: 1, Branches: []Branch{{Label: "second", Target: "c", Emoji: "x"}}},
		SceneNode{ID: "c", Act: 1},
	))
	require.NoError(t, err)
	meta, ok := idx.BranchMeta("c")
	require.True(t, ok)
	assert.Equal(t, "second", meta.Label)
}

func TestIndexRejectsDuplicates(t *testing.T) {
	_, err := NewIndex(NewGraph(
		SceneNode{ID: "a", Act: 1, Next: "b"},
		SceneNode{ID: "b", Act: 1},
		SceneNode{ID: "a", Act: 2},
	))
	require.ErrorIs(t, err, ErrDuplicateScene)
}

func TestIndexRejectsDanglingReference(t *testing.T) {
	_, err := NewIndex(NewGraph(
		SceneNode{ID: "a", Act: 1, Next: "ghost"},
	))
	require.ErrorIs(t, err, ErrUnknownScene)

	_, err = NewIndex(NewGraph(
		SceneNode{ID: "a", Act: 1, Branches: []Branch{{Label: "x", Target: "ghost"}}},
	))
	require.ErrorIs(t, err, ErrUnknownScene)
}

func TestIndexRejectsEmptyGraph(t *testing.T) {
	_, err := NewIndex(NewGraph())
	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestStartIsFirstNodeWithoutIncomingEdge(t *testing.T) {
	idx, err := NewIndex(NewGraph(
		SceneNode{ID: "b", Act: 1, Next: "c"},
		SceneNode{ID: "a", Act: 1, Next: "b"},
		SceneNode{ID: "c", Act: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "a", idx.Start())
}

func TestLoadGraphValidation(t *testing.T) {
	_, err := LoadGraph(strings.NewReader("scenes: []\n"))
	require.ErrorIs(t, err, ErrEmptyGraph)

	_, err = LoadGraph(strings.NewReader("scenes:\n  - id: a\n    act: 0\n"))
	require.Error(t, err)

	_, err = LoadGraph(strings.NewReader("scenes:\n  - id: a\n    act: 1\n    colour: red\n"))
	require.Error(t, err, "unknown fields are rejected")

	g, err := LoadGraph(strings.NewReader("scenes:\n  - id: a\n    act: 1\n    next: b\n  - id: b\n    act: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestGraphNodesAreCopies(t *testing.T) {
	g := NewGraph(SceneNode{ID: "a", Act: 1, Branches: []Branch{{Label: "x", Target: "a"}}})
	nodes := g.Nodes()
	nodes[0].ID = "changed"
	assert.Equal(t, "a", g.Nodes()[0].ID)
}
