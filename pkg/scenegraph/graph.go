// Package scenegraph rebuilds a node tree from the flat (name, level) stream
// of a 3DS keyframer section.
//
// Nodes live in a single slice owned by Graph; edges are indices. Children
// are owned by their parent, and the parent index is only a back-reference
// used when walking up the tree.
package scenegraph

import (
	"cmp"
	"slices"

	"github.com/Faultbox/max3ds/pkg/math"
)

// NodeID indexes Graph.Nodes.
type NodeID int

// Root is the ID of the implicit root node every graph starts with.
const Root NodeID = 0

// NoParent marks the root's parent.
const NoParent NodeID = -1

// RootLevel is the root's hierarchy level. It is below any level a file can
// encode, since stored levels are raw+1 wrapped to 16 bits.
const RootLevel = -1

// VectorKey is a position or scaling key.
type VectorKey struct {
	Frame uint16
	Value math.Vec3
}

// QuatKey is a rotation key.
type QuatKey struct {
	Frame uint16
	Value math.Quat
}

// Tracks holds a node's animation keys, each track in ascending frame order.
// A track keeps at most one key per frame; the first key seen for a frame
// wins.
type Tracks struct {
	Position []VectorKey
	Rotation []QuatKey
	Scaling  []VectorKey
}

// Empty reports whether no track has any key.
func (t *Tracks) Empty() bool {
	return len(t.Position) == 0 && len(t.Rotation) == 0 && len(t.Scaling) == 0
}

// AddPosition inserts a position key unless its frame is already present.
func (t *Tracks) AddPosition(k VectorKey) bool {
	var ok bool
	t.Position, ok = insertKey(t.Position, k, vectorFrame)
	return ok
}

// AddScaling inserts a scaling key unless its frame is already present.
func (t *Tracks) AddScaling(k VectorKey) bool {
	var ok bool
	t.Scaling, ok = insertKey(t.Scaling, k, vectorFrame)
	return ok
}

// AddRotation inserts a rotation key unless its frame is already present.
func (t *Tracks) AddRotation(k QuatKey) bool {
	var ok bool
	t.Rotation, ok = insertKey(t.Rotation, k, func(k QuatKey) uint16 { return k.Frame })
	return ok
}

func vectorFrame(k VectorKey) uint16 { return k.Frame }

// insertKey places k in frame order. It reports false, leaving keys
// unchanged, if a key for the same frame exists.
func insertKey[K any](keys []K, k K, frame func(K) uint16) ([]K, bool) {
	i, found := slices.BinarySearchFunc(keys, frame(k), func(e K, f uint16) int {
		return cmp.Compare(frame(e), f)
	})
	if found {
		return keys, false
	}
	return slices.Insert(keys, i, k), true
}

// Node is one entry of the hierarchy.
type Node struct {
	Name     string
	Level    int    // raw level + 1; RootLevel for the root
	Index    int    // creation order, 0 for the root
	Parent   NodeID // NoParent for the root
	Children []NodeID
	Pivot    math.Vec3
	Tracks   Tracks
}

// Graph is an arena of nodes. Nodes[Root] always exists.
type Graph struct {
	Nodes []Node
}

// New returns a graph holding only the root node.
func New() *Graph {
	return &Graph{
		Nodes: []Node{{Level: RootLevel, Parent: NoParent}},
	}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) *Node {
	return &g.Nodes[id]
}

// Len returns the number of nodes, root included.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Children returns the child nodes of id in insertion order.
func (g *Graph) Children(id NodeID) []*Node {
	ids := g.Nodes[id].Children
	children := make([]*Node, len(ids))
	for i, c := range ids {
		children[i] = &g.Nodes[c]
	}
	return children
}

// FindByName returns the first non-root node with the given name.
func (g *Graph) FindByName(name string) (NodeID, bool) {
	for i := 1; i < len(g.Nodes); i++ {
		if g.Nodes[i].Name == name {
			return NodeID(i), true
		}
	}
	return 0, false
}

// Depth returns the number of edges between id and the root.
func (g *Graph) Depth(id NodeID) int {
	depth := 0
	for p := g.Nodes[id].Parent; p != NoParent; p = g.Nodes[p].Parent {
		depth++
	}
	return depth
}

// Walk visits every node depth-first in child order, starting at the root.
// Returning false from fn skips that node's subtree.
func (g *Graph) Walk(fn func(id NodeID, n *Node) bool) {
	stack := []NodeID{Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &g.Nodes[id]
		if !fn(id, n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

func (g *Graph) attach(parent NodeID, name string, level int) NodeID {
	id := NodeID(len(g.Nodes))
	g.Nodes = append(g.Nodes, Node{
		Name:   name,
		Level:  level,
		Index:  int(id),
		Parent: parent,
	})
	g.Nodes[parent].Children = append(g.Nodes[parent].Children, id)
	return id
}
