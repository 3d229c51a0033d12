package engine

import (
	"github.com/pkg/errors"
)

// Transition describes one completed move of the narrative.
type Transition struct {
	From      string
	To        string
	Direction Direction
	Cause     Cause
}

// Narrative owns the position of the user in the guide. It is the only
// sanctioned way to mutate that position. Calls are expected from a single
// goroutine (the UI update loop); there is no locking.
type Narrative struct {
	index     *Index
	current   string
	history   []string
	visited   map[string]struct{}
	choices   map[string]string
	direction Direction

	observers map[int]func(Transition)
	nextObs   int
}

// NewNarrative starts a session at the index's start scene.
func NewNarrative(idx *Index) *Narrative {
	start := idx.Start()
	return &Narrative{
		index:     idx,
		current:   start,
		visited:   map[string]struct{}{start: {}},
		choices:   map[string]string{},
		direction: Forward,
		observers: map[int]func(Transition){},
	}
}

// Index exposes the scene index the narrative validates against.
func (n *Narrative) Index() *Index { return n.index }

// Current is the active scene id.
func (n *Narrative) Current() string { return n.current }

// CurrentNode returns the active scene. current always names an indexed node.
func (n *Narrative) CurrentNode() SceneNode {
	node, _ := n.index.Node(n.current)
	return node
}

// History returns previously visited ids, most recent last.
func (n *Narrative) History() []string { return append([]string(nil), n.history...) }

// HistoryDepth is len(History()).
func (n *Narrative) HistoryDepth() int { return len(n.history) }

// Visited reports whether id was ever current.
func (n *Narrative) Visited(id string) bool {
	_, ok := n.visited[id]
	return ok
}

// VisitedCount is the size of the visited set.
func (n *Narrative) VisitedCount() int { return len(n.visited) }

// Progress is the visited share of all scenes, in [0,1].
func (n *Narrative) Progress() float64 {
	total := n.index.Len()
	if total == 0 {
		return 0
	}
	return float64(len(n.visited)) / float64(total)
}

// Choices returns a copy of the recorded branch decisions.
func (n *Narrative) Choices() map[string]string {
	out := make(map[string]string, len(n.choices))
	for k, v := range n.choices {
		out[k] = v
	}
	return out
}

// Choice returns the label recorded for key.
func (n *Narrative) Choice(key string) (string, bool) {
	v, ok := n.choices[key]
	return v, ok
}

// Direction of the last transition.
func (n *Narrative) Direction() Direction { return n.direction }

// CanGoBack reports whether history is non-empty.
func (n *Narrative) CanGoBack() bool { return len(n.history) > 0 }

// CanGoNext reports whether the current node has a linear successor.
// Branches do not count.
func (n *Narrative) CanGoNext() bool { return n.CurrentNode().Next != "" }

// GoTo jumps to target unconditionally. An unknown target is rejected and
// leaves the state untouched.
func (n *Narrative) GoTo(target string) error {
	return n.goTo(target, CauseGoTo)
}

func (n *Narrative) goTo(target string, cause Cause) error {
	if !n.index.Has(target) {
		return errors.Wrapf(ErrUnknownScene, "goto %q", target)
	}
	from := n.current
	n.history = append(n.history, from)
	n.current = target
	n.visited[target] = struct{}{}
	n.direction = Forward
	n.notify(Transition{From: from, To: target, Direction: Forward, Cause: cause})
	return nil
}

// GoNext follows the current node's Next edge, if any.
func (n *Narrative) GoNext() {
	next := n.CurrentNode().Next
	if next == "" {
		return
	}
	// Next was validated when the index was built.
	_ = n.goTo(next, CauseNext)
}

// GoBack restores the most recent history entry. There is no redo.
func (n *Narrative) GoBack() {
	if len(n.history) == 0 {
		return
	}
	from := n.current
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = prev
	n.visited[prev] = struct{}{}
	n.direction = Backward
	n.notify(Transition{From: from, To: prev, Direction: Backward, Cause: CauseBack})
}

// Choose records label under key and moves to target. Target is not required
// to be one of the current node's branches.
func (n *Narrative) Choose(key, label, target string) error {
	if !n.index.Has(target) {
		return errors.Wrapf(ErrUnknownScene, "choose %q", target)
	}
	n.choices[key] = label
	return n.goTo(target, CauseChoose)
}

// Subscribe registers fn to run after every transition. The returned func
// removes it.
func (n *Narrative) Subscribe(fn func(Transition)) (cancel func()) {
	id := n.nextObs
	n.nextObs++
	n.observers[id] = fn
	return func() { delete(n.observers, id) }
}

func (n *Narrative) notify(t Transition) {
	for i := 0; i < n.nextObs; i++ {
		if fn, ok := n.observers[i]; ok {
			fn(t)
		}
	}
}
