package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/max3ds/internal/assets"
	"github.com/Faultbox/max3ds/internal/config"
	"github.com/Faultbox/max3ds/pkg/formats"
	"github.com/Faultbox/max3ds/pkg/math"
	"github.com/Faultbox/max3ds/pkg/scenegraph"
)

// textReport is a report that can also print itself for humans.
type textReport interface {
	writeText(w io.Writer) error
}

// emit writes r as YAML or as text, depending on format.
func emit(w io.Writer, format string, r textReport) error {
	if format == config.FormatYAML {
		return writeYAML(w, r)
	}
	return r.writeText(w)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

type infoReport struct {
	File        string  `yaml:"file"`
	Version     uint16  `yaml:"version"`
	MasterScale float32 `yaml:"master_scale"`
	Meshes      int     `yaml:"meshes"`
	Vertices    int     `yaml:"vertices"`
	Faces       int     `yaml:"faces"`
	Unresolved  int     `yaml:"unresolved_faces"`
	Materials   int     `yaml:"materials"`
	Nodes       int     `yaml:"nodes"`
	Animated    bool    `yaml:"animated"`
	Background  string  `yaml:"background,omitempty"`
}

func newInfoReport(path string, s *formats.Scene) *infoReport {
	r := &infoReport{
		File:        path,
		Version:     s.Version,
		MasterScale: s.MasterScale,
		Meshes:      len(s.Meshes),
		Vertices:    s.TotalVertexCount(),
		Faces:       s.TotalFaceCount(),
		Materials:   len(s.Materials),
		Nodes:       s.Nodes.Len() - 1,
		Animated:    s.HasAnimation(),
	}
	for i := range s.Meshes {
		r.Unresolved += s.Meshes[i].UnresolvedFaceCount()
	}
	if s.HasBackground {
		r.Background = s.BackgroundImage
	}
	return r
}

func (r *infoReport) writeText(w io.Writer) error {
	fmt.Fprintf(w, "File:         %s\n", r.File)
	fmt.Fprintf(w, "Version:      %d\n", r.Version)
	fmt.Fprintf(w, "Master scale: %g\n", r.MasterScale)
	fmt.Fprintf(w, "Meshes:       %d\n", r.Meshes)
	fmt.Fprintf(w, "Vertices:     %d\n", r.Vertices)
	fmt.Fprintf(w, "Faces:        %d (%d without material)\n", r.Faces, r.Unresolved)
	fmt.Fprintf(w, "Materials:    %d\n", r.Materials)
	fmt.Fprintf(w, "Nodes:        %d\n", r.Nodes)
	fmt.Fprintf(w, "Animated:     %v\n", r.Animated)
	if r.Background != "" {
		fmt.Fprintf(w, "Background:   %s\n", r.Background)
	}
	return nil
}

type meshReport struct {
	Name       string `yaml:"name"`
	Vertices   int    `yaml:"vertices"`
	TexCoords  int    `yaml:"uvs"`
	Faces      int    `yaml:"faces"`
	Unresolved int    `yaml:"unresolved_faces"`
	Mirrored   bool   `yaml:"mirrored"`
}

type meshReports []meshReport

func newMeshReports(s *formats.Scene) meshReports {
	out := make(meshReports, 0, len(s.Meshes))
	for i := range s.Meshes {
		m := &s.Meshes[i]
		out = append(out, meshReport{
			Name:       m.Name,
			Vertices:   len(m.Positions),
			TexCoords:  len(m.TexCoords),
			Faces:      len(m.Faces),
			Unresolved: m.UnresolvedFaceCount(),
			Mirrored:   m.Mirrored,
		})
	}
	return out
}

func (r meshReports) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERTICES\tUVS\tFACES\tUNRESOLVED\tMIRRORED")
	for _, m := range r {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%v\n", m.Name, m.Vertices, m.TexCoords, m.Faces, m.Unresolved, m.Mirrored)
	}
	return tw.Flush()
}

type textureReport struct {
	Slot  string  `yaml:"slot"`
	Map   string  `yaml:"map"`
	Blend float32 `yaml:"blend"`
	Wrap  string  `yaml:"wrap"`
}

type materialReport struct {
	Name         string          `yaml:"name"`
	Diffuse      [3]float32      `yaml:"diffuse,flow"`
	Specular     [3]float32      `yaml:"specular,flow"`
	Shading      string          `yaml:"shading"`
	TwoSided     bool            `yaml:"two_sided"`
	Transparency float32         `yaml:"transparency"`
	Textures     []textureReport `yaml:"textures,omitempty"`
}

type materialReports []materialReport

func newMaterialReports(s *formats.Scene) materialReports {
	out := make(materialReports, 0, len(s.Materials))
	for i := range s.Materials {
		m := &s.Materials[i]
		r := materialReport{
			Name:         m.Name,
			Diffuse:      [3]float32{m.Diffuse.R, m.Diffuse.G, m.Diffuse.B},
			Specular:     [3]float32{m.Specular.R, m.Specular.G, m.Specular.B},
			Shading:      m.Shading.String(),
			TwoSided:     m.TwoSided,
			Transparency: m.Transparency,
		}
		for slot := formats.TextureSlot(0); slot < formats.NumTextureSlots; slot++ {
			if t := m.Texture(slot); t != nil {
				r.Textures = append(r.Textures, textureReport{
					Slot:  slot.String(),
					Map:   t.MapName,
					Blend: t.Blend,
					Wrap:  t.Wrap.String(),
				})
			}
		}
		out = append(out, r)
	}
	return out
}

func (r materialReports) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIFFUSE\tSHADING\tTWO-SIDED\tTEXTURES")
	for _, m := range r {
		maps := make([]string, 0, len(m.Textures))
		for _, t := range m.Textures {
			maps = append(maps, t.Slot+"="+t.Map)
		}
		fmt.Fprintf(tw, "%s\t%.3f %.3f %.3f\t%s\t%v\t%s\n",
			m.Name, m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], m.Shading, m.TwoSided, strings.Join(maps, " "))
	}
	return tw.Flush()
}

type textureMapReport struct {
	Material string `yaml:"material"`
	Slot     string `yaml:"slot"`
	Map      string `yaml:"map"`
	Path     string `yaml:"path,omitempty"`
	Format   string `yaml:"format,omitempty"`
	Width    int    `yaml:"width,omitempty"`
	Height   int    `yaml:"height,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

type textureMapReports []textureMapReport

func newTextureMapReports(s *formats.Scene, mgr *assets.Manager) textureMapReports {
	var out textureMapReports
	for i := range s.Materials {
		m := &s.Materials[i]
		for slot := formats.TextureSlot(0); slot < formats.NumTextureSlots; slot++ {
			t := m.Texture(slot)
			if t == nil || t.MapName == "" {
				continue
			}
			r := textureMapReport{Material: m.Name, Slot: slot.String(), Map: t.MapName}
			info, err := mgr.Probe(t.MapName)
			r.Path = info.Path
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Format, r.Width, r.Height = info.Format, info.Width, info.Height
			}
			out = append(out, r)
		}
	}
	return out
}

func (r textureMapReports) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tSLOT\tMAP\tFILE\tSIZE")
	for _, t := range r {
		size := t.Error
		if size == "" {
			size = fmt.Sprintf("%dx%d %s", t.Width, t.Height, t.Format)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Material, t.Slot, t.Map, t.Path, size)
	}
	return tw.Flush()
}

type nodeReport struct {
	Name         string     `yaml:"name"`
	Parent       string     `yaml:"parent,omitempty"`
	Depth        int        `yaml:"depth"`
	Pivot        [3]float32 `yaml:"pivot,flow"`
	World        [3]float32 `yaml:"world_position,flow"`
	PositionKeys int        `yaml:"position_keys,omitempty"`
	RotationKeys int        `yaml:"rotation_keys,omitempty"`
	ScalingKeys  int        `yaml:"scaling_keys,omitempty"`
}

// newNodeReports lists the hierarchy in depth-first order, without the root.
// World positions are sampled at frame.
func newNodeReports(s *formats.Scene, frame float32) []nodeReport {
	g := s.Nodes
	var out []nodeReport
	g.Walk(func(id scenegraph.NodeID, n *scenegraph.Node) bool {
		if id == scenegraph.Root {
			return true
		}
		r := nodeReport{
			Name:         n.Name,
			Depth:        g.Depth(id),
			Pivot:        [3]float32{n.Pivot.X, n.Pivot.Y, n.Pivot.Z},
			PositionKeys: len(n.Tracks.Position),
			RotationKeys: len(n.Tracks.Rotation),
			ScalingKeys:  len(n.Tracks.Scaling),
		}
		world := g.WorldTransform(id, frame, s.IgnorePivot).TransformVec3(math.Vec3{})
		r.World = [3]float32{world.X, world.Y, world.Z}
		if n.Parent != scenegraph.Root {
			r.Parent = g.Node(n.Parent).Name
		}
		out = append(out, r)
		return true
	})
	return out
}

func printTree(w io.Writer, s *formats.Scene, frame float32) {
	for _, n := range newNodeReports(s, frame) {
		fmt.Fprintf(w, "%s%s (%g, %g, %g)", strings.Repeat("  ", n.Depth-1), n.Name, n.World[0], n.World[1], n.World[2])
		if keys := n.PositionKeys + n.RotationKeys + n.ScalingKeys; keys > 0 {
			fmt.Fprintf(w, " [%d keys]", keys)
		}
		fmt.Fprintln(w)
	}
}

type dumpMesh struct {
	Name          string       `yaml:"name"`
	Transform     [16]float32  `yaml:"transform,flow"`
	Mirrored      bool         `yaml:"mirrored,omitempty"`
	Positions     [][3]float32 `yaml:"positions,flow"`
	TexCoords     [][2]float32 `yaml:"uvs,flow,omitempty"`
	Faces         [][3]uint16  `yaml:"faces,flow"`
	FaceMaterials []int32      `yaml:"face_materials,flow"`
	SmoothGroups  []uint32     `yaml:"smoothing_groups,flow"`
}

type dumpReport struct {
	Info      *infoReport     `yaml:"info"`
	Materials materialReports `yaml:"materials"`
	Meshes    []dumpMesh      `yaml:"meshes"`
	Nodes     []nodeReport    `yaml:"nodes"`
}

func newDumpReport(path string, s *formats.Scene) *dumpReport {
	r := &dumpReport{
		Info:      newInfoReport(path, s),
		Materials: newMaterialReports(s),
		Nodes:     newNodeReports(s, 0),
	}
	for i := range s.Meshes {
		m := &s.Meshes[i]
		d := dumpMesh{
			Name:      m.Name,
			Transform: m.Transform,
			Mirrored:  m.Mirrored,
		}
		for _, p := range m.Positions {
			d.Positions = append(d.Positions, [3]float32{p.X, p.Y, p.Z})
		}
		for _, uv := range m.TexCoords {
			d.TexCoords = append(d.TexCoords, [2]float32{uv.X, uv.Y})
		}
		for j, f := range m.Faces {
			d.Faces = append(d.Faces, f.Indices)
			d.FaceMaterials = append(d.FaceMaterials, int32(m.FaceMaterials[j]))
			d.SmoothGroups = append(d.SmoothGroups, f.SmoothGroup)
		}
		r.Meshes = append(r.Meshes, d)
	}
	return r
}
