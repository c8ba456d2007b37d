package scenegraph

// State is the traversal state of hierarchy reconstruction: the last node
// added and the running level watermark. It is threaded explicitly through
// Add so the algorithm has no hidden fields.
type State struct {
	Current   NodeID
	LastLevel int
}

// Start returns the initial state: positioned at the root, with a watermark
// below any valid level.
func Start() State {
	return State{Current: Root, LastLevel: RootLevel}
}

// Add places a new node after the previously added one, using only the level
// relationship between them:
//
//   - same level as the current node: sibling of the current node;
//   - level at or above the watermark: child of the current node;
//   - otherwise walk up from the current node to the nearest node at the same
//     level and become its sibling, or a child of the root if none matches.
//
// A sibling of the root is attached under the root itself.
func (g *Graph) Add(s State, name string, level int) (State, NodeID) {
	cur := &g.Nodes[s.Current]

	var id NodeID
	switch {
	case cur.Level == level:
		id = g.attach(g.siblingParent(s.Current), name, level)
		s.LastLevel++
	case level >= s.LastLevel:
		id = g.attach(s.Current, name, level)
		s.LastLevel = level
	default:
		id = g.attach(g.backtrack(s.Current, level), name, level)
		s.LastLevel++
	}

	s.Current = id
	return s, id
}

// siblingParent returns the node a sibling of id is attached to.
func (g *Graph) siblingParent(id NodeID) NodeID {
	if p := g.Nodes[id].Parent; p != NoParent {
		return p
	}
	return id
}

// backtrack walks parent links from id looking for a node at level and
// returns where a sibling of it belongs.
func (g *Graph) backtrack(id NodeID, level int) NodeID {
	for n := id; n != NoParent; n = g.Nodes[n].Parent {
		if g.Nodes[n].Level == level {
			return g.siblingParent(n)
		}
	}
	return Root
}

// Builder wraps a Graph and its State for callers that add nodes one at a
// time while decoding.
type Builder struct {
	graph *Graph
	state State
}

// NewBuilder returns a builder over a fresh graph.
func NewBuilder() *Builder {
	return &Builder{graph: New(), state: Start()}
}

// Add appends a node with the given name and level (already incremented
// from its raw encoding).
func (b *Builder) Add(name string, level int) NodeID {
	var id NodeID
	b.state, id = b.graph.Add(b.state, name, level)
	return id
}

// Current returns the most recently added node, or the root before any add.
func (b *Builder) Current() *Node {
	return b.graph.Node(b.state.Current)
}

// State returns the current traversal state.
func (b *Builder) State() State {
	return b.state
}

// Graph returns the graph being built.
func (b *Builder) Graph() *Graph {
	return b.graph
}
