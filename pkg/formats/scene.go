package formats

import (
	"fmt"
	"strings"

	"github.com/Faultbox/max3ds/pkg/math"
	"github.com/Faultbox/max3ds/pkg/scenegraph"
)

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// Gray returns a color with all channels set to v.
func Gray(v float32) Color {
	return Color{v, v, v}
}

// Fallback colors for color chunks that are missing or unreadable.
var (
	FallbackReflective = Color{1, 1, 1}
	FallbackEmissive   = Color{0, 0, 0}
)

// MaterialIndex indexes Scene.Materials.
type MaterialIndex int32

// NoMaterial marks a face that no face-material chunk referenced, or one
// whose material name did not resolve. It never aliases a real index.
const NoMaterial MaterialIndex = -1

// Valid reports whether i refers to a material.
func (i MaterialIndex) Valid() bool {
	return i >= 0
}

// ShadingMode is the material shading type.
type ShadingMode uint16

const (
	ShadingWire    ShadingMode = 0
	ShadingFlat    ShadingMode = 1
	ShadingGouraud ShadingMode = 2
	ShadingPhong   ShadingMode = 3
	ShadingMetal   ShadingMode = 4
)

// String returns a human-readable shading mode name.
func (s ShadingMode) String() string {
	switch s {
	case ShadingWire:
		return "Wire"
	case ShadingFlat:
		return "Flat"
	case ShadingGouraud:
		return "Gouraud"
	case ShadingPhong:
		return "Phong"
	case ShadingMetal:
		return "Metal"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(s))
	}
}

// WrapMode selects how texture coordinates outside [0, 1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirror
	WrapClamp
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "Repeat"
	case WrapMirror:
		return "Mirror"
	case WrapClamp:
		return "Clamp"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// TextureSlot names one of the material's texture maps.
type TextureSlot int

const (
	SlotDiffuse TextureSlot = iota
	SlotSpecular
	SlotOpacity
	SlotBump
	SlotShininess
	SlotSelfIllumination

	NumTextureSlots
)

var slotNames = [NumTextureSlots]string{"Diffuse", "Specular", "Opacity", "Bump", "Shininess", "SelfIllumination"}

// String returns the slot name.
func (s TextureSlot) String() string {
	if s >= 0 && s < NumTextureSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// Texture is one texture map of a material. Scale, offset and rotation are
// stored as read; applying them to texture coordinates is left to consumers.
type Texture struct {
	MapName  string
	Blend    float32
	ScaleU   float32
	ScaleV   float32
	OffsetU  float32
	OffsetV  float32
	Rotation float32
	Wrap     WrapMode
}

func newTexture() *Texture {
	return &Texture{Blend: 1, ScaleU: 1, ScaleV: 1, Wrap: WrapRepeat}
}

// Material is a decoded material block.
type Material struct {
	Name     string
	Diffuse  Color
	Specular Color
	Ambient  Color
	Emissive Color

	// Transparency holds 1 - percent*65535/100, as legacy importers store it.
	Transparency      float32
	Shading           ShadingMode
	TwoSided          bool
	Shininess         float32
	ShininessStrength float32
	SelfIllumination  float32

	// Textures holds one entry per slot; nil means the slot is absent.
	Textures [NumTextureSlots]*Texture
}

func newMaterial() Material {
	return Material{
		Diffuse:           Gray(0.6),
		Transparency:      1,
		Shading:           ShadingGouraud,
		ShininessStrength: 1,
	}
}

// Texture returns the texture in the given slot, or nil.
func (m *Material) Texture(slot TextureSlot) *Texture {
	if slot < 0 || slot >= NumTextureSlots {
		return nil
	}
	return m.Textures[slot]
}

// Face is a triangle.
type Face struct {
	Indices     [3]uint16
	SmoothGroup uint32 // bit n set: face belongs to smoothing group n
}

// Mesh is a triangle mesh from an object block. Several mesh-data chunks in
// one block append to the same mesh; face indices are stored as read.
type Mesh struct {
	Name      string
	Transform math.Mat4 // local 4x3 affine transform, as stored in the file
	Positions []math.Vec3
	TexCoords []math.Vec2
	Faces     []Face

	// FaceMaterials is parallel to Faces.
	FaceMaterials []MaterialIndex

	// Mirrored is set when the transform has a negative determinant and the
	// positions were re-expressed to normalize handedness.
	Mirrored bool
}

// UnresolvedFaceCount returns the number of faces without a material.
func (m *Mesh) UnresolvedFaceCount() int {
	n := 0
	for _, idx := range m.FaceMaterials {
		if !idx.Valid() {
			n++
		}
	}
	return n
}

// Scene is everything decoded from one 3DS buffer.
type Scene struct {
	Version         uint16 // 0 if the file has no version chunk
	Meshes          []Mesh
	Materials       []Material
	Ambient         Color
	HasBackground   bool
	BackgroundImage string
	MasterScale     float32

	// IgnorePivot is copied from Options for the scene materializer.
	IgnorePivot bool

	// Nodes is the keyframer hierarchy. It always holds at least the root.
	Nodes *scenegraph.Graph
}

// TotalVertexCount returns the total number of vertices across all meshes.
func (s *Scene) TotalVertexCount() int {
	total := 0
	for _, m := range s.Meshes {
		total += len(m.Positions)
	}
	return total
}

// TotalFaceCount returns the total number of faces across all meshes.
func (s *Scene) TotalFaceCount() int {
	total := 0
	for _, m := range s.Meshes {
		total += len(m.Faces)
	}
	return total
}

// MeshByName returns the first mesh with the given name, or nil.
func (s *Scene) MeshByName(name string) *Mesh {
	for i := range s.Meshes {
		if s.Meshes[i].Name == name {
			return &s.Meshes[i]
		}
	}
	return nil
}

// MaterialByName returns the index of the first material whose name matches
// case-insensitively, or NoMaterial.
func (s *Scene) MaterialByName(name string) MaterialIndex {
	for i := range s.Materials {
		if strings.EqualFold(s.Materials[i].Name, name) {
			return MaterialIndex(i)
		}
	}
	return NoMaterial
}

// HasAnimation returns true if any node carries keyframes.
func (s *Scene) HasAnimation() bool {
	if s.Nodes == nil {
		return false
	}
	for i := range s.Nodes.Nodes {
		if !s.Nodes.Nodes[i].Tracks.Empty() {
			return true
		}
	}
	return false
}

// RootScale returns the uniform scale applied to the output root:
// 1/MasterScale, or 1 when MasterScale is zero.
func (s *Scene) RootScale() float32 {
	if s.MasterScale == 0 {
		return 1
	}
	return 1 / s.MasterScale
}

// RootTransform returns RootScale as a matrix.
func (s *Scene) RootTransform() math.Mat4 {
	f := s.RootScale()
	return math.Scale(f, f, f)
}
