package types

import (
	"fmt"
	"sort"
)

// NodeKind identifies what a tree node represents.
type NodeKind string

const (
	NodeKindFeature  NodeKind = "feature"
	NodeKindRule     NodeKind = "rule"
	NodeKindScenario NodeKind = "scenario"
	NodeKindExample  NodeKind = "example"
)

// FeatureNode is one node in the caller-held tree of test nodes. Every node
// carries its own (feature, line) pair; parent/child relationships are
// explicit pointers rather than compound string keys, so nodes at line 5 and
// line 57 can never collide by substring.
//
// A node with children is a container (the feature file itself, or a rule
// grouping scenarios). A childless node with a line is a leaf that can
// receive a verdict. The tree is owned by its builder; batch correlation only
// ever writes Status, Message and SourceLine, never restructures.
type FeatureNode struct {
	ID      string
	Feature string
	Line    int
	Name    string
	Kind    NodeKind

	Children []*FeatureNode
	parent   *FeatureNode

	// Verdict fields, written by correlation.
	Status     TestStatus
	Message    string
	SourceLine int
}

// AddChild appends a child node and wires its parent pointer.
func (n *FeatureNode) AddChild(child *FeatureNode) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the parent node, nil for the root.
func (n *FeatureNode) Parent() *FeatureNode {
	return n.parent
}

// IsLeaf reports whether the node can receive a verdict directly.
func (n *FeatureNode) IsLeaf() bool {
	return len(n.Children) == 0 && n.Line > 0
}

// SetVerdict records a pass/fail outcome on the node. For failures the
// message combines the failure label and detail, and SourceLine points at the
// report line the failure should be surfaced on, which is not necessarily the
// node's own line.
func (n *FeatureNode) SetVerdict(status TestStatus, message string, sourceLine int) {
	n.Status = status
	n.Message = message
	n.SourceLine = sourceLine
}

// Walk visits the node and all descendants depth-first.
func (n *FeatureNode) Walk(visit func(*FeatureNode)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Leaves returns all verdict-receiving descendants in document order.
func (n *FeatureNode) Leaves() []*FeatureNode {
	var leaves []*FeatureNode
	n.Walk(func(node *FeatureNode) {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	})
	return leaves
}

// FeatureTree is an arena of nodes keyed by stable ID. It owns the node
// storage; batch correlation receives nodes from it and mutates verdict
// fields only.
type FeatureTree struct {
	nodes map[string]*FeatureNode
	roots []*FeatureNode
}

// NewFeatureTree creates an empty tree arena.
func NewFeatureTree() *FeatureTree {
	return &FeatureTree{
		nodes: make(map[string]*FeatureNode),
	}
}

// NodeID builds the stable arena key for a (feature, line) pair.
func NodeID(feature string, line int) string {
	return fmt.Sprintf("%s#%d", feature, line)
}

// AddRoot registers a feature-level root node.
func (t *FeatureTree) AddRoot(node *FeatureNode) error {
	if err := t.register(node); err != nil {
		return err
	}
	t.roots = append(t.roots, node)
	return nil
}

// AddNode registers a node under an existing parent.
func (t *FeatureTree) AddNode(parentID string, node *FeatureNode) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return fmt.Errorf("parent node %q not found", parentID)
	}
	if err := t.register(node); err != nil {
		return err
	}
	parent.AddChild(node)
	return nil
}

// Adopt registers a fully built node graph as a new root. Useful when the
// tree shape comes from an outline scan rather than incremental insertion.
func (t *FeatureTree) Adopt(root *FeatureNode) error {
	var firstErr error
	root.Walk(func(node *FeatureNode) {
		if err := t.register(node); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	if firstErr != nil {
		return firstErr
	}
	t.roots = append(t.roots, root)
	return nil
}

func (t *FeatureTree) register(node *FeatureNode) error {
	if node.ID == "" {
		node.ID = NodeID(node.Feature, node.Line)
	}
	if _, exists := t.nodes[node.ID]; exists {
		return fmt.Errorf("duplicate node %q", node.ID)
	}
	t.nodes[node.ID] = node
	return nil
}

// Node looks up a node by ID.
func (t *FeatureTree) Node(id string) (*FeatureNode, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// Root returns the feature-level root for a file identity, matched by exact
// Feature string. Callers needing path-tolerant matching resolve the identity
// before the lookup.
func (t *FeatureTree) Root(feature string) (*FeatureNode, bool) {
	for _, root := range t.roots {
		if root.Feature == feature {
			return root, true
		}
	}
	return nil, false
}

// Roots returns the feature-level roots sorted by file identity for
// deterministic iteration.
func (t *FeatureTree) Roots() []*FeatureNode {
	roots := make([]*FeatureNode, len(t.roots))
	copy(roots, t.roots)
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Feature < roots[j].Feature
	})
	return roots
}

// Len returns the number of registered nodes.
func (t *FeatureTree) Len() int {
	return len(t.nodes)
}
