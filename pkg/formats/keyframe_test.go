package formats

import (
	"testing"

	"github.com/Faultbox/max3ds/pkg/chunk"
	"github.com/Faultbox/max3ds/pkg/math"
	"github.com/Faultbox/max3ds/pkg/scenegraph"
)

func makeNodeHeader(name string, rawLevel int16) []byte {
	return makeChunk(tagNodeHeader, cstr(name), u16(0, 0, uint16(rawLevel)))
}

type vectorKey struct {
	frame   uint16
	x, y, z float32
}

// makeVectorTrack encodes a position or scaling track.
func makeVectorTrack(tag chunk.Tag, keys ...vectorKey) []byte {
	parts := [][]byte{make([]byte, 10), u16(uint16(len(keys)), 0)}
	for _, k := range keys {
		parts = append(parts, u16(k.frame), u32(0), f32(k.x, k.y, k.z))
	}
	return makeChunk(tag, parts...)
}

func makeHierarchy(children ...[]byte) []byte {
	return makeFile(makeChunk(tagKeyframer, makeChunk(tagTrackInfo, children...)))
}

func childNames(g *scenegraph.Graph, id scenegraph.NodeID) []string {
	var names []string
	for _, n := range g.Children(id) {
		names = append(names, n.Name)
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

func TestKeyframer_Hierarchy(t *testing.T) {
	scene := decode(t, makeHierarchy(
		makeNodeHeader("A", -1),
		makeChunk(tagPivot, f32(1, 2, 3)),
		makeNodeHeader("B", 0),
		makeNodeHeader("C", 0),
		makeNodeHeader("D", -1),
	), Options{})

	g := scene.Nodes
	if g.Len() != 5 {
		t.Fatalf("expected root plus 4 nodes, got %d", g.Len())
	}
	if got := childNames(g, scenegraph.Root); !equalNames(got, []string{"A", "D"}) {
		t.Errorf("expected root children [A D], got %v", got)
	}
	a, ok := g.FindByName("A")
	if !ok {
		t.Fatal("expected node A")
	}
	if got := childNames(g, a); !equalNames(got, []string{"B", "C"}) {
		t.Errorf("expected A children [B C], got %v", got)
	}
	if pivot := g.Node(a).Pivot; pivot != (math.Vec3{X: 1, Y: 3, Z: 2}) {
		t.Errorf("expected pivot with Y and Z swapped, got %+v", pivot)
	}
}

func TestKeyframer_WrappedLevels(t *testing.T) {
	// Raw 0xFFFF stores level 0; raw 0xFFFE stores 65535, deeper than A.
	scene := decode(t, makeHierarchy(
		makeNodeHeader("A", -1),
		makeNodeHeader("B", -2),
	), Options{})

	g := scene.Nodes
	a, _ := g.FindByName("A")
	b, ok := g.FindByName("B")
	if !ok {
		t.Fatal("expected node B")
	}
	if lvl := g.Node(a).Level; lvl != 0 {
		t.Errorf("expected A at level 0, got %d", lvl)
	}
	if lvl := g.Node(b).Level; lvl != 65535 {
		t.Errorf("expected B at level 65535, got %d", lvl)
	}
	if p := g.Node(b).Parent; p != a {
		t.Errorf("expected B under A, got parent %d", p)
	}
}

func TestKeyframer_PivotBeforeNode(t *testing.T) {
	opts, logs := observedOptions()
	scene := decode(t, makeHierarchy(makeChunk(tagPivot, f32(1, 2, 3))), opts)

	if scene.Nodes.Node(scenegraph.Root).Pivot != (math.Vec3{}) {
		t.Error("expected the root pivot to stay zero")
	}
	if logs.FilterMessage("pivot before any node header, ignoring").Len() != 1 {
		t.Error("expected a pivot warning")
	}
}

func TestKeyframer_TruncatedNodeHeader(t *testing.T) {
	opts, logs := observedOptions()
	scene := decode(t, makeHierarchy(
		makeChunk(tagNodeHeader, cstr("Broken"), u16(0)),
		makeNodeHeader("Whole", -1),
	), opts)

	if _, ok := scene.Nodes.FindByName("Broken"); ok {
		t.Error("expected the truncated node to be skipped")
	}
	if _, ok := scene.Nodes.FindByName("Whole"); !ok {
		t.Error("expected the following node to be added")
	}
	if logs.FilterMessage("node header without hierarchy level, skipping node").Len() != 1 {
		t.Error("expected a skipped node warning")
	}
}

func TestKeyframer_Tracks(t *testing.T) {
	rotation := makeChunk(tagRotTrack,
		make([]byte, 10), u16(1, 0),
		u16(0), u32(0), f32(1.5, 0, 0, 2),
	)
	data := makeHierarchy(
		makeNodeHeader("Box", -1),
		makeVectorTrack(tagPosTrack,
			vectorKey{0, 1, 2, 3},
			vectorKey{10, 4, 5, 6},
			vectorKey{10, 7, 8, 9},
		),
		rotation,
		makeVectorTrack(tagScaleTrack, vectorKey{0, 1, 1, 1}, vectorKey{5, 0, 0, 0}),
	)

	scene := decode(t, data, Options{})
	if !scene.HasAnimation() {
		t.Fatal("expected animation")
	}
	id, _ := scene.Nodes.FindByName("Box")
	tracks := scene.Nodes.Node(id).Tracks

	if len(tracks.Position) != 2 {
		t.Fatalf("expected 2 position keys after dedupe, got %d", len(tracks.Position))
	}
	if tracks.Position[1].Frame != 10 || tracks.Position[1].Value != (math.Vec3{X: 4, Y: 5, Z: 6}) {
		t.Errorf("expected the first key for frame 10 to win, got %+v", tracks.Position[1])
	}

	if len(tracks.Rotation) != 1 {
		t.Fatalf("expected 1 rotation key, got %d", len(tracks.Rotation))
	}
	want := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 1.5)
	if got := tracks.Rotation[0].Value; !near(got.Z, want.Z) || !near(got.W, want.W) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if len(tracks.Scaling) != 2 {
		t.Errorf("expected a mixed scaling track to be kept, got %d keys", len(tracks.Scaling))
	}
}

func TestKeyframer_AllZeroScaling(t *testing.T) {
	opts, logs := observedOptions()
	data := makeHierarchy(
		makeNodeHeader("Flat", -1),
		makeVectorTrack(tagScaleTrack, vectorKey{0, 0, 0, 0}, vectorKey{10, 0, 0, 0}),
	)

	scene := decode(t, data, opts)
	id, _ := scene.Nodes.FindByName("Flat")

	if n := len(scene.Nodes.Node(id).Tracks.Scaling); n != 0 {
		t.Errorf("expected an empty scaling track, got %d keys", n)
	}
	if logs.FilterMessage("all scaling keys are zero, discarding track").Len() != 1 {
		t.Error("expected a discard warning")
	}
}

func TestKeyframer_SkipKeyframes(t *testing.T) {
	data := makeHierarchy(
		makeNodeHeader("Box", -1),
		makeVectorTrack(tagPosTrack, vectorKey{0, 1, 2, 3}),
	)

	scene := decode(t, data, Options{SkipKeyframes: true})

	if _, ok := scene.Nodes.FindByName("Box"); !ok {
		t.Error("expected the hierarchy to be built")
	}
	if scene.HasAnimation() {
		t.Error("expected no tracks")
	}
}
