package engine

import (
	"github.com/pkg/errors"
)

// ActGroup is a contiguous run of scenes sharing an act, in graph order.
type ActGroup struct {
	Act    int
	Scenes []SceneNode
}

// Index holds lookup structures derived once from a Graph. It is immutable.
type Index struct {
	nodes         []SceneNode
	byID          map[string]int
	groups        []ActGroup
	branchTargets map[string]struct{}
	branchMeta    map[string]Branch
	start         string
	reachable     map[string]struct{}
}

// NewIndex builds the index. Duplicate ids and references to missing nodes
// are authoring errors and fail here rather than at lookup time.
func NewIndex(g *Graph) (*Index, error) {
	if g == nil || g.Len() == 0 {
		return nil, ErrEmptyGraph
	}
	nodes := g.Nodes()
	idx := &Index{
		nodes:         nodes,
		byID:          make(map[string]int, len(nodes)),
		branchTargets: make(map[string]struct{}),
		branchMeta:    make(map[string]Branch),
	}
	for i, n := range nodes {
		if _, dup := idx.byID[n.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateScene, "scene %q", n.ID)
		}
		idx.byID[n.ID] = i
	}

	incoming := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.Next != "" {
			if _, ok := idx.byID[n.Next]; !ok {
				return nil, errors.Wrapf(ErrUnknownScene, "scene %q: next %q", n.ID, n.Next)
			}
			incoming[n.Next]++
		}
		for _, b := range n.Branches {
			if _, ok := idx.byID[b.Target]; !ok {
				return nil, errors.Wrapf(ErrUnknownScene, "scene %q: branch %q -> %q", n.ID, b.Label, b.Target)
			}
			incoming[b.Target]++
			idx.branchTargets[b.Target] = struct{}{}
			idx.branchMeta[b.Target] = b
		}
	}

	currentAct := -1
	for _, n := range nodes {
		if n.Act != currentAct {
			idx.groups = append(idx.groups, ActGroup{Act: n.Act})
			currentAct = n.Act
		}
		last := &idx.groups[len(idx.groups)-1]
		last.Scenes = append(last.Scenes, n)
	}

	idx.start = nodes[0].ID
	for _, n := range nodes {
		if incoming[n.ID] == 0 {
			idx.start = n.ID
			break
		}
	}
	idx.reachable = idx.walk(idx.start)
	return idx, nil
}

func (idx *Index) walk(from string) map[string]struct{} {
	seen := map[string]struct{}{from: {}}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := idx.nodes[idx.byID[id]]
		targets := make([]string, 0, len(n.Branches)+1)
		if n.Next != "" {
			targets = append(targets, n.Next)
		}
		for _, b := range n.Branches {
			targets = append(targets, b.Target)
		}
		for _, t := range targets {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			queue = append(queue, t)
		}
	}
	return seen
}

// Node looks a scene up by id.
func (idx *Index) Node(id string) (SceneNode, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return SceneNode{}, false
	}
	return idx.nodes[i], true
}

// Has reports whether id names a scene.
func (idx *Index) Has(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// Nodes returns all scenes in graph order.
func (idx *Index) Nodes() []SceneNode {
	out := make([]SceneNode, len(idx.nodes))
	copy(out, idx.nodes)
	return out
}

// Len is the total scene count.
func (idx *Index) Len() int { return len(idx.nodes) }

// Start is the designated start scene: the first node nothing points at.
func (idx *Index) Start() string { return idx.start }

// ActGroups returns the act groupings in graph order.
func (idx *Index) ActGroups() []ActGroup {
	out := make([]ActGroup, len(idx.groups))
	for i, g := range idx.groups {
		out[i] = ActGroup{Act: g.Act, Scenes: append([]SceneNode(nil), g.Scenes...)}
	}
	return out
}

// IsBranchTarget reports whether some branch anywhere points at id.
func (idx *Index) IsBranchTarget(id string) bool {
	_, ok := idx.branchTargets[id]
	return ok
}

// BranchTargets lists branch destinations in graph order.
func (idx *Index) BranchTargets() []string {
	out := make([]string, 0, len(idx.branchTargets))
	for _, n := range idx.nodes {
		if _, ok := idx.branchTargets[n.ID]; ok {
			out = append(out, n.ID)
		}
	}
	return out
}

// BranchMeta returns the branch that points at target. When several branches
// share a target the last one in graph order wins.
func (idx *Index) BranchMeta(target string) (Branch, bool) {
	b, ok := idx.branchMeta[target]
	return b, ok
}

// Reachable reports whether id can be reached from the start scene.
func (idx *Index) Reachable(id string) bool {
	_, ok := idx.reachable[id]
	return ok
}

// ReachableCount is the number of scenes reachable from the start scene.
func (idx *Index) ReachableCount() int { return len(idx.reachable) }
