package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/max3ds/internal/assets"
	"github.com/Faultbox/max3ds/internal/config"
	"github.com/Faultbox/max3ds/pkg/formats"
	"github.com/Faultbox/max3ds/pkg/math"
	"github.com/Faultbox/max3ds/pkg/scenegraph"
)

func testScene() *formats.Scene {
	b := scenegraph.NewBuilder()
	b.Add("Body", 0)
	arm := b.Add("Arm", 1)
	b.Graph().Node(arm).Tracks.AddPosition(scenegraph.VectorKey{Frame: 0, Value: math.Vec3{X: 2}})

	mat := formats.Material{Name: "Steel", Shading: formats.ShadingPhong, Diffuse: formats.Gray(0.5)}
	mat.Textures[formats.SlotBump] = &formats.Texture{MapName: "dents.png", Blend: 1}

	return &formats.Scene{
		Version:     3,
		MasterScale: 1,
		Materials:   []formats.Material{mat},
		Meshes: []formats.Mesh{{
			Name:          "Body",
			Transform:     math.Identity(),
			Positions:     []math.Vec3{{}, {X: 1}, {Y: 1}},
			Faces:         []formats.Face{{Indices: [3]uint16{0, 1, 2}}, {Indices: [3]uint16{2, 1, 0}}},
			FaceMaterials: []formats.MaterialIndex{0, formats.NoMaterial},
		}},
		Nodes: b.Graph(),
	}
}

func TestInfoReport(t *testing.T) {
	r := newInfoReport("robot.3ds", testScene())

	if r.Vertices != 3 || r.Faces != 2 || r.Unresolved != 1 {
		t.Errorf("unexpected counts %+v", r)
	}
	if r.Nodes != 2 {
		t.Errorf("expected 2 nodes without the root, got %d", r.Nodes)
	}
	if !r.Animated {
		t.Error("expected the scene to be animated")
	}

	var buf bytes.Buffer
	if err := emit(&buf, config.FormatText, r); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Faces:        2 (1 without material)") {
		t.Errorf("unexpected text output:\n%s", buf.String())
	}
}

func TestMaterialReportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := emit(&buf, config.FormatYAML, newMaterialReports(testScene())); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	var decoded []materialReport
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid yaml: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 || decoded[0].Name != "Steel" || decoded[0].Shading != "Phong" {
		t.Fatalf("unexpected materials %+v", decoded)
	}
	if len(decoded[0].Textures) != 1 || decoded[0].Textures[0].Slot != "Bump" {
		t.Errorf("expected one bump texture, got %+v", decoded[0].Textures)
	}
}

func TestMeshReportText(t *testing.T) {
	var buf bytes.Buffer
	if err := emit(&buf, config.FormatText, newMeshReports(testScene())); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if fields := strings.Fields(lines[1]); fields[0] != "Body" || fields[3] != "2" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestNodeTree(t *testing.T) {
	nodes := newNodeReports(testScene(), 0)

	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[1].Name != "Arm" || nodes[1].Parent != "Body" || nodes[1].Depth != 2 {
		t.Errorf("unexpected node %+v", nodes[1])
	}
	if nodes[1].World != [3]float32{2, 0, 0} {
		t.Errorf("expected world position (2, 0, 0), got %v", nodes[1].World)
	}

	var buf bytes.Buffer
	printTree(&buf, testScene(), 0)
	want := "Body (0, 0, 0)\n  Arm (2, 0, 0) [1 keys]\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestDumpReport(t *testing.T) {
	r := newDumpReport("robot.3ds", testScene())

	if len(r.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(r.Meshes))
	}
	m := r.Meshes[0]
	if len(m.Positions) != 3 || len(m.Faces) != 2 {
		t.Errorf("unexpected geometry %+v", m)
	}
	if m.FaceMaterials[1] != -1 {
		t.Errorf("expected unresolved face to dump as -1, got %d", m.FaceMaterials[1])
	}

	var buf bytes.Buffer
	if err := writeYAML(&buf, r); err != nil {
		t.Fatalf("writeYAML failed: %v", err)
	}
	if !strings.Contains(buf.String(), "file: robot.3ds") {
		t.Errorf("expected file name in dump:\n%s", buf.String())
	}
}

func TestTextureMapReports(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	f, err := os.Create(filepath.Join(dir, "DENTS.PNG"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	scene := testScene()
	scene.Materials[0].Textures[formats.SlotOpacity] = &formats.Texture{MapName: "MISSING.TGA", Blend: 1}

	mgr := assets.NewManager()
	if err := mgr.AddDir(dir); err != nil {
		t.Fatal(err)
	}
	reports := newTextureMapReports(scene, mgr)
	if len(reports) != 2 {
		t.Fatalf("expected 2 texture maps, got %+v", reports)
	}

	// Slots are reported in slot order: opacity before bump.
	missing, found := reports[0], reports[1]
	if missing.Error == "" || missing.Path != "" {
		t.Errorf("expected missing map to report an error, got %+v", missing)
	}
	if found.Format != "png" || found.Width != 16 || found.Height != 8 {
		t.Errorf("unexpected resolved map %+v", found)
	}

	var buf bytes.Buffer
	if err := reports.writeText(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "16x8 png") {
		t.Errorf("unexpected text output:\n%s", buf.String())
	}
}
