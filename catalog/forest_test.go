package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(name string, parent *uuid.UUID, order int) CategoryNode {
	return CategoryNode{ID: uuid.New(), ParentID: parent, Name: name, SortOrder: order}
}

// sampleForest builds:
//
//	chemicals
//	  sanitizers
//	    chlorine
//	  balancers
//	equipment
//	  pumps
func sampleForest() ([]CategoryNode, map[string]uuid.UUID) {
	chemicals := node("chemicals", nil, 0)
	equipment := node("equipment", nil, 1)
	sanitizers := node("sanitizers", &chemicals.ID, 0)
	balancers := node("balancers", &chemicals.ID, 1)
	chlorine := node("chlorine", &sanitizers.ID, 0)
	pumps := node("pumps", &equipment.ID, 0)

	// deliberately shuffled: children listed before their parents
	nodes := []CategoryNode{pumps, chlorine, balancers, equipment, sanitizers, chemicals}
	ids := map[string]uuid.UUID{}
	for _, n := range nodes {
		ids[n.Name] = n.ID
	}
	return nodes, ids
}

func names(flat []FlatCategory) []string {
	out := make([]string, len(flat))
	for i, f := range flat {
		out[i] = f.Name
	}
	return out
}

func TestFlattenPreOrderWithDepth(t *testing.T) {
	nodes, _ := sampleForest()
	flat, err := BuildForest(nodes).Flatten(nil)
	require.NoError(t, err)

	assert.Len(t, flat, len(nodes))
	assert.Equal(t, []string{"chemicals", "sanitizers", "chlorine", "balancers", "equipment", "pumps"}, names(flat))

	depths := map[string]int{}
	for _, f := range flat {
		depths[f.Name] = f.Depth
	}
	assert.Equal(t, map[string]int{
		"chemicals": 0, "sanitizers": 1, "chlorine": 2, "balancers": 1, "equipment": 0, "pumps": 1,
	}, depths)
}

func TestFlattenParentsPrecedeChildren(t *testing.T) {
	nodes, _ := sampleForest()
	flat, err := BuildForest(nodes).Flatten(nil)
	require.NoError(t, err)

	position := map[uuid.UUID]int{}
	for i, f := range flat {
		position[f.ID] = i
	}
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		assert.Less(t, position[*n.ParentID], position[n.ID], "%s must come after its parent", n.Name)
	}
}

func TestFlattenEmpty(t *testing.T) {
	flat, err := BuildForest(nil).Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, flat)
}

func TestFlattenExcludesEditedSubtree(t *testing.T) {
	nodes, ids := sampleForest()
	sanitizers := ids["sanitizers"]

	flat, err := BuildForest(nodes).Flatten(&sanitizers)
	require.NoError(t, err)
	assert.Equal(t, []string{"chemicals", "balancers", "equipment", "pumps"}, names(flat))
}

func TestFlattenSiblingOrder(t *testing.T) {
	a := node("a", nil, 2)
	b := node("b", nil, 1)
	c := node("c", nil, 1)

	flat, err := BuildForest([]CategoryNode{a, b, c}).Flatten(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names(flat))
}

func TestFlattenSiblingsTieBreakOnName(t *testing.T) {
	pumps := node("pumps", nil, 0)
	filters := node("filters", nil, 0)
	heaters := node("heaters", nil, 0)

	flat, err := BuildForest([]CategoryNode{pumps, heaters, filters}).Flatten(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"filters", "heaters", "pumps"}, names(flat))
}

func TestFlattenDetectsCycles(t *testing.T) {
	root := node("root", nil, 0)
	x := CategoryNode{ID: uuid.New(), Name: "x"}
	y := CategoryNode{ID: uuid.New(), Name: "y"}
	x.ParentID = &y.ID
	y.ParentID = &x.ID

	self := CategoryNode{ID: uuid.New(), Name: "self"}
	self.ParentID = &self.ID

	cases := []struct {
		name  string
		nodes []CategoryNode
	}{
		{"two node loop", []CategoryNode{root, x, y}},
		{"self parent", []CategoryNode{root, self}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flat, err := BuildForest(tc.nodes).Flatten(nil)
			assert.ErrorIs(t, err, ErrCycle)
			assert.Equal(t, []string{"root"}, names(flat))
		})
	}
}

func TestOrphanBecomesRoot(t *testing.T) {
	missing := uuid.New()
	orphan := node("orphan", &missing, 0)

	flat, err := BuildForest([]CategoryNode{orphan}).Flatten(nil)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, 0, flat[0].Depth)
}

func TestCanBeParent(t *testing.T) {
	nodes, ids := sampleForest()
	f := BuildForest(nodes)
	unknown := uuid.New()

	chlorine := ids["chlorine"]
	pumps := ids["pumps"]
	sanitizers := ids["sanitizers"]

	assert.True(t, f.CanBeParent(ids["chemicals"], nil))
	assert.False(t, f.CanBeParent(sanitizers, &sanitizers), "self")
	assert.False(t, f.CanBeParent(sanitizers, &chlorine), "descendant")
	assert.False(t, f.CanBeParent(ids["chemicals"], &chlorine), "deep descendant")
	assert.True(t, f.CanBeParent(sanitizers, &pumps))
	assert.False(t, f.CanBeParent(sanitizers, &unknown))
}

func TestHasChildrenAndDescendants(t *testing.T) {
	nodes, ids := sampleForest()
	f := BuildForest(nodes)

	assert.True(t, f.HasChildren(ids["chemicals"]))
	assert.False(t, f.HasChildren(ids["chlorine"]))
	assert.ElementsMatch(t, []uuid.UUID{ids["sanitizers"], ids["balancers"], ids["chlorine"]}, f.Descendants(ids["chemicals"]))
	assert.Empty(t, f.Descendants(uuid.New()))
}

func TestTree(t *testing.T) {
	nodes, _ := sampleForest()
	tree := BuildForest(nodes).Tree()

	require.Len(t, tree, 2)
	assert.Equal(t, "chemicals", tree[0].Name)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "sanitizers", tree[0].Children[0].Name)
	assert.Equal(t, 2, tree[0].Children[0].Children[0].Depth)
	assert.Empty(t, tree[1].Children[0].Children)

	assert.True(t, tree[0].HasChildren)
	assert.True(t, tree[0].Children[0].HasChildren)
	assert.False(t, tree[0].Children[1].HasChildren, "balancers is a leaf")
	assert.False(t, tree[1].Children[0].HasChildren, "pumps is a leaf")
}
