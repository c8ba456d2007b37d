package scenegraph

import (
	"testing"
)

type levelEntry struct {
	name  string
	level int
}

func build(entries []levelEntry) *Graph {
	b := NewBuilder()
	for _, e := range entries {
		b.Add(e.name, e.level)
	}
	return b.Graph()
}

func childNames(g *Graph, id NodeID) []string {
	var names []string
	for _, c := range g.Children(id) {
		names = append(names, c.Name)
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustFind(t *testing.T, g *Graph, name string) NodeID {
	t.Helper()
	id, ok := g.FindByName(name)
	if !ok {
		t.Fatalf("node %q not found", name)
	}
	return id
}

func TestAdd_SiblingDeepenBacktrack(t *testing.T) {
	g := build([]levelEntry{{"A", 0}, {"B", 1}, {"C", 1}, {"D", 0}})

	if got := childNames(g, Root); !equalNames(got, []string{"A", "D"}) {
		t.Errorf("root children = %v, want [A D]", got)
	}
	if got := childNames(g, mustFind(t, g, "A")); !equalNames(got, []string{"B", "C"}) {
		t.Errorf("A children = %v, want [B C]", got)
	}
	if got := childNames(g, mustFind(t, g, "D")); len(got) != 0 {
		t.Errorf("D children = %v, want none", got)
	}
}

func TestAdd_BacktrackToAncestorSibling(t *testing.T) {
	g := build([]levelEntry{{"A", 1}, {"B", 2}, {"C", 3}, {"D", 2}, {"E", 1}})

	tests := []struct {
		parent string
		want   []string
	}{
		{"", []string{"A", "E"}},
		{"A", []string{"B", "D"}},
		{"B", []string{"C"}},
		{"C", nil},
	}

	for _, tt := range tests {
		id := Root
		if tt.parent != "" {
			id = mustFind(t, g, tt.parent)
		}
		if got := childNames(g, id); !equalNames(got, tt.want) {
			t.Errorf("children of %q = %v, want %v", tt.parent, got, tt.want)
		}
	}
}

func TestAdd_BacktrackWithoutMatchGoesToRoot(t *testing.T) {
	g := build([]levelEntry{{"A", 2}, {"B", 3}, {"C", 1}})

	if got := childNames(g, Root); !equalNames(got, []string{"A", "C"}) {
		t.Errorf("root children = %v, want [A C]", got)
	}
	if p := g.Node(mustFind(t, g, "C")).Parent; p != Root {
		t.Errorf("C parent = %d, want root", p)
	}
}

func TestAdd_StateIsExplicit(t *testing.T) {
	g := New()
	s := Start()
	if s.Current != Root || s.LastLevel != RootLevel {
		t.Fatalf("Start() = %+v", s)
	}

	s, a := g.Add(s, "A", 1)
	if s.Current != a || s.LastLevel != 1 {
		t.Errorf("after deepen: %+v", s)
	}

	s, b := g.Add(s, "B", 1)
	if s.Current != b || s.LastLevel != 2 {
		t.Errorf("after sibling: %+v", s)
	}
	if g.Node(b).Parent != Root {
		t.Errorf("sibling of a root child should attach to root, got parent %d", g.Node(b).Parent)
	}
}

func TestAdd_CreationIndexAndDepth(t *testing.T) {
	g := build([]levelEntry{{"A", 1}, {"B", 2}, {"C", 3}})

	for i, name := range []string{"A", "B", "C"} {
		n := g.Node(mustFind(t, g, name))
		if n.Index != i+1 {
			t.Errorf("%s.Index = %d, want %d", name, n.Index, i+1)
		}
		if d := g.Depth(mustFind(t, g, name)); d != i+1 {
			t.Errorf("Depth(%s) = %d, want %d", name, d, i+1)
		}
	}
	if g.Len() != 4 {
		t.Errorf("Len() = %d, want 4", g.Len())
	}
}

func TestBuilderCurrent(t *testing.T) {
	b := NewBuilder()
	if b.Current().Level != RootLevel {
		t.Error("Current() should be the root before any node is added")
	}
	b.Add("Box01", 1)
	if b.Current().Name != "Box01" {
		t.Errorf("Current().Name = %q", b.Current().Name)
	}
}

func TestWalkOrder(t *testing.T) {
	g := build([]levelEntry{{"A", 0}, {"B", 1}, {"C", 1}, {"D", 0}})

	var order []string
	g.Walk(func(id NodeID, n *Node) bool {
		if id != Root {
			order = append(order, n.Name)
		}
		return true
	})
	if !equalNames(order, []string{"A", "B", "C", "D"}) {
		t.Errorf("Walk order = %v, want [A B C D]", order)
	}

	order = nil
	g.Walk(func(id NodeID, n *Node) bool {
		if id != Root {
			order = append(order, n.Name)
		}
		return n.Name != "A"
	})
	if !equalNames(order, []string{"A", "D"}) {
		t.Errorf("Walk with pruning = %v, want [A D]", order)
	}
}

func TestTracksDeduplicateByFrame(t *testing.T) {
	var tr Tracks
	if !tr.Empty() {
		t.Error("new Tracks should be empty")
	}

	tr.AddPosition(VectorKey{Frame: 0})
	if tr.AddPosition(VectorKey{Frame: 0}) {
		t.Error("duplicate position frame should be dropped")
	}
	tr.AddPosition(VectorKey{Frame: 5})

	tr.AddRotation(QuatKey{Frame: 3})
	if tr.AddRotation(QuatKey{Frame: 3}) {
		t.Error("duplicate rotation frame should be dropped")
	}

	tr.AddScaling(VectorKey{Frame: 1})
	if tr.AddScaling(VectorKey{Frame: 1}) {
		t.Error("duplicate scaling frame should be dropped")
	}

	if len(tr.Position) != 2 || len(tr.Rotation) != 1 || len(tr.Scaling) != 1 {
		t.Errorf("key counts = %d/%d/%d, want 2/1/1", len(tr.Position), len(tr.Rotation), len(tr.Scaling))
	}
	if tr.Empty() {
		t.Error("Tracks with keys should not be empty")
	}
}
