package formats

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/max3ds/pkg/chunk"
	"github.com/Faultbox/max3ds/pkg/math"
)

// readObjectBlock decodes a named object. Every mesh-data chunk inside it
// contributes to the same mesh, which is finished once the block ends.
func (d *decoder) readObjectBlock(h chunk.Header, c *chunk.Cursor) error {
	d.object = d.str(c, h, "object name")
	defer func() { d.mesh = nil }()

	if err := d.walk(c, d.objectBlockTable, "object "+d.object); err != nil {
		return err
	}
	if d.mesh != nil {
		d.finishMesh(d.mesh)
	}
	return nil
}

func (d *decoder) readMeshData(_ chunk.Header, c *chunk.Cursor) error {
	if d.mesh == nil {
		d.mesh = &Mesh{
			Name:      d.object,
			Transform: math.Identity(),
		}
	}
	return d.walk(c, d.meshDataTable, "mesh "+d.mesh.Name)
}

// finishMesh normalizes handedness once the whole object is read, so the
// result does not depend on whether the matrix chunk precedes the vertex
// list, and appends the mesh to the scene.
func (d *decoder) finishMesh(m *Mesh) {
	if len(m.FaceMaterials) != len(m.Faces) {
		m.FaceMaterials = unresolved(len(m.Faces))
	}
	normalizeHandedness(m)

	d.log.Debug("decoded mesh",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Positions)),
		zap.Int("faces", len(m.Faces)),
		zap.Bool("mirrored", m.Mirrored))

	d.scene.Meshes = append(d.scene.Meshes, *m)
}

// normalizeHandedness re-expresses the positions of a mesh whose transform
// has a negative determinant through the transform with its X axis flipped.
// The transform itself is kept as read.
func normalizeHandedness(m *Mesh) {
	if m.Transform.Determinant() >= 0 {
		return
	}
	n := m.Transform.NegateColumn(0).Mul(m.Transform.Inverse())
	for i, p := range m.Positions {
		m.Positions[i] = n.TransformVec3(p)
	}
	m.Mirrored = true
}

func (d *decoder) readVertices(_ chunk.Header, c *chunk.Cursor) error {
	count := int(c.Uint16())
	positions := slices.Grow(d.mesh.Positions, min(count, c.Remaining()/12))
	for i := 0; i < count; i++ {
		v := math.Vec3{X: c.Float32(), Y: c.Float32(), Z: c.Float32()}
		if c.Err() != nil {
			break
		}
		positions = append(positions, v.SwapYZ())
	}
	d.mesh.Positions = positions
	return nil
}

func (d *decoder) readTexCoords(_ chunk.Header, c *chunk.Cursor) error {
	count := int(c.Uint16())
	uvs := slices.Grow(d.mesh.TexCoords, min(count, c.Remaining()/8))
	for i := 0; i < count; i++ {
		uv := math.Vec2{X: c.Float32(), Y: c.Float32()}
		if c.Err() != nil {
			break
		}
		uvs = append(uvs, uv)
	}
	d.mesh.TexCoords = uvs
	return nil
}

func (d *decoder) readMatrix(_ chunk.Header, c *chunk.Cursor) error {
	var v [12]float32
	for i := range v {
		v[i] = c.Float32()
	}
	if c.Err() == nil {
		d.mesh.Transform = math.FromAffine4x3(v)
	}
	return nil
}

// readFaceList reads the triangles, then the face list's own children:
// smoothing groups and face-material assignments.
func (d *decoder) readFaceList(_ chunk.Header, c *chunk.Cursor) error {
	count := int(c.Uint16())
	faces := slices.Grow(d.mesh.Faces, min(count, c.Remaining()/8))
	first := len(faces)
	for i := 0; i < count; i++ {
		var f Face
		f.Indices[0] = c.Uint16()
		f.Indices[1] = c.Uint16()
		f.Indices[2] = c.Uint16()
		c.Skip(2) // edge visibility flags
		if c.Err() != nil {
			break
		}
		faces = append(faces, f)
	}
	d.mesh.Faces = faces
	d.mesh.FaceMaterials = append(d.mesh.FaceMaterials, unresolved(len(faces)-first)...)

	if c.Err() != nil {
		return nil
	}
	return d.walk(c, d.faceListTable, "face list")
}

func unresolved(n int) []MaterialIndex {
	s := make([]MaterialIndex, n)
	for i := range s {
		s[i] = NoMaterial
	}
	return s
}

func (d *decoder) readSmoothingGroups(_ chunk.Header, c *chunk.Cursor) error {
	faces := d.mesh.Faces
	for i := range faces {
		v := c.Uint32()
		if c.Err() != nil {
			break
		}
		faces[i].SmoothGroup = v
	}
	return nil
}

// readFaceMaterial assigns a material to a list of faces. An index past the
// end of the face list overwrites the material of the last face.
func (d *decoder) readFaceMaterial(h chunk.Header, c *chunk.Cursor) error {
	name := d.str(c, h, "face material name")
	idx := d.scene.MaterialByName(name)
	if !idx.Valid() {
		d.log.Warn("face material not found",
			zap.String("mesh", d.mesh.Name),
			zap.String("material", name))
	}

	assigned := d.mesh.FaceMaterials
	count := int(c.Uint16())
	for i := 0; i < count; i++ {
		face := int(c.Uint16())
		if c.Err() != nil {
			break
		}
		if len(assigned) == 0 {
			continue
		}
		if face >= len(assigned) {
			d.log.Error("face material index out of range",
				zap.String("mesh", d.mesh.Name),
				zap.Int("face", face),
				zap.Int("faces", len(assigned)))
			face = len(assigned) - 1
		}
		assigned[face] = idx
	}
	return nil
}
