package engine

import (
	"bytes"
	_ "embed"
	errs "errors"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownScene is returned when an id does not name a node of the graph.
	ErrUnknownScene = errs.New("unknown scene id")
	// ErrDuplicateScene is a fatal graph authoring error detected by NewIndex.
	ErrDuplicateScene = errs.New("duplicate scene id")
	// ErrEmptyGraph is returned when a graph has no nodes at all.
	ErrEmptyGraph = errs.New("scene graph has no nodes")
)

//go:embed graph.yaml
var defaultGraphYAML []byte

// Branch is a labeled edge offered as a choice instead of automatic progression.
type Branch struct {
	Label  string `yaml:"label" json:"label"`
	Target string `yaml:"target" json:"target"`
	Emoji  string `yaml:"emoji,omitempty" json:"emoji,omitempty"`
}

// SceneNode is one step of the guide.
type SceneNode struct {
	ID   string `yaml:"id" json:"id"`
	Act  int    `yaml:"act" json:"act"`
	Next string `yaml:"next,omitempty" json:"next,omitempty"`
	// Branches take precedence over Next when presenting choices.
	Branches []Branch `yaml:"branches,omitempty" json:"branches,omitempty"`
	// ChoiceKey names the decision recorded when a branch is taken here.
	ChoiceKey string `yaml:"choice_key,omitempty" json:"choice_key,omitempty"`
}

// HasBranches reports whether the node offers choices.
func (n SceneNode) HasBranches() bool { return len(n.Branches) > 0 }

// Terminal reports whether the node has no outgoing edge at all.
func (n SceneNode) Terminal() bool { return n.Next == "" && len(n.Branches) == 0 }

// DecisionKey returns the key a branch decision at this node is stored under.
func (n SceneNode) DecisionKey() string {
	if n.ChoiceKey != "" {
		return n.ChoiceKey
	}
	return n.ID
}

// Graph is the authored topology, in definition order. Read-only after construction.
type Graph struct {
	nodes []SceneNode
}

// NewGraph copies nodes into a new graph.
func NewGraph(nodes ...SceneNode) *Graph {
	g := &Graph{nodes: make([]SceneNode, len(nodes))}
	for i, n := range nodes {
		n.Branches = append([]Branch(nil), n.Branches...)
		g.nodes[i] = n
	}
	return g
}

// Nodes returns the nodes in definition order. The slice is a copy.
func (g *Graph) Nodes() []SceneNode {
	out := make([]SceneNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

type graphFile struct {
	Scenes []SceneNode `yaml:"scenes"`
}

// LoadGraph parses a YAML scene list.
func LoadGraph(r io.Reader) (*Graph, error) {
	var f graphFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode scene graph")
	}
	if len(f.Scenes) == 0 {
		return nil, ErrEmptyGraph
	}
	for _, n := range f.Scenes {
		if n.ID == "" {
			return nil, errors.New("scene without id")
		}
		if n.Act <= 0 {
			return nil, errors.Errorf("scene %q: act must be positive, got %d", n.ID, n.Act)
		}
	}
	return NewGraph(f.Scenes...), nil
}

// DefaultGraph returns the guide's shipped topology.
func DefaultGraph() (*Graph, error) {
	return LoadGraph(bytes.NewReader(defaultGraphYAML))
}
