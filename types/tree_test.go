package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleTree(t *testing.T) (*FeatureTree, *FeatureNode) {
	t.Helper()

	tree := NewFeatureTree()
	root := &FeatureNode{Feature: "features/login.feature", Line: 1, Name: "Login", Kind: NodeKindFeature}
	require.NoError(t, tree.AddRoot(root))

	scenario := &FeatureNode{Feature: "features/login.feature", Line: 5, Name: "Valid login", Kind: NodeKindScenario}
	require.NoError(t, tree.AddNode(root.ID, scenario))

	outline := &FeatureNode{Feature: "features/login.feature", Line: 10, Name: "Invalid login", Kind: NodeKindScenario}
	require.NoError(t, tree.AddNode(root.ID, outline))
	example := &FeatureNode{Feature: "features/login.feature", Line: 14, Name: "Invalid login (row 1)", Kind: NodeKindExample}
	require.NoError(t, tree.AddNode(outline.ID, example))

	return tree, root
}

func TestFeatureTree_Structure(t *testing.T) {
	tree, root := buildSampleTree(t)

	assert.Equal(t, 4, tree.Len())
	assert.Len(t, root.Children, 2)

	example, ok := tree.Node(NodeID("features/login.feature", 14))
	require.True(t, ok)
	assert.Equal(t, "Invalid login", example.Parent().Name)
	assert.True(t, example.IsLeaf())

	outline, ok := tree.Node(NodeID("features/login.feature", 10))
	require.True(t, ok)
	assert.False(t, outline.IsLeaf(), "a node with children is a container, not a leaf")
}

func TestFeatureTree_DuplicateNodeRejected(t *testing.T) {
	tree, root := buildSampleTree(t)

	dup := &FeatureNode{Feature: "features/login.feature", Line: 5, Kind: NodeKindScenario}
	err := tree.AddNode(root.ID, dup)
	assert.Error(t, err)
}

func TestFeatureTree_UnknownParentRejected(t *testing.T) {
	tree := NewFeatureTree()
	err := tree.AddNode("missing#1", &FeatureNode{Feature: "a.feature", Line: 2})
	assert.Error(t, err)
}

func TestFeatureNode_Leaves(t *testing.T) {
	_, root := buildSampleTree(t)

	leaves := root.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, 5, leaves[0].Line)
	assert.Equal(t, 14, leaves[1].Line)
}

func TestFeatureNode_SetVerdict(t *testing.T) {
	node := &FeatureNode{Feature: "a.feature", Line: 10, Kind: NodeKindScenario}
	assert.Equal(t, TestStatusPending, node.Status)

	node.SetVerdict(TestStatusFail, "Before Hook Failed: hooks.Setup: boom", 10)
	assert.Equal(t, TestStatusFail, node.Status)
	assert.Equal(t, 10, node.SourceLine)
	assert.Contains(t, node.Message, "Before Hook Failed")
}

func TestFeatureTree_RootsSorted(t *testing.T) {
	tree := NewFeatureTree()
	require.NoError(t, tree.AddRoot(&FeatureNode{Feature: "b.feature", Line: 1, Kind: NodeKindFeature}))
	require.NoError(t, tree.AddRoot(&FeatureNode{Feature: "a.feature", Line: 1, Kind: NodeKindFeature}))

	roots := tree.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "a.feature", roots[0].Feature)

	_, ok := tree.Root("b.feature")
	assert.True(t, ok)
	_, ok = tree.Root("c.feature")
	assert.False(t, ok)
}
