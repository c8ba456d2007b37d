package formats

import (
	"go.uber.org/zap"

	"github.com/Faultbox/max3ds/pkg/chunk"
	"github.com/Faultbox/max3ds/pkg/math"
	"github.com/Faultbox/max3ds/pkg/scenegraph"
)

// readNodeHeader adds one node to the hierarchy. The payload is the node
// name, two flag words and the raw hierarchy level, where 0xFFFF marks a
// node directly under the root. The level is stored as raw+1 in 16 bits, so
// 0xFFFF wraps to 0 and every stored level stays above the root's.
func (d *decoder) readNodeHeader(h chunk.Header, c *chunk.Cursor) error {
	name := d.str(c, h, "node name")
	c.Skip(4)
	raw := c.Uint16()
	if c.Err() != nil {
		d.log.Warn("node header without hierarchy level, skipping node",
			zap.String("node", name),
			zap.Int("offset", h.Offset))
		return nil
	}

	id := d.nodes.Add(name, int(raw+1))
	n := d.nodes.Graph().Node(id)
	d.log.Debug("hierarchy node",
		zap.String("node", name),
		zap.Int("level", n.Level),
		zap.Int("parent", int(n.Parent)))
	return nil
}

func (d *decoder) readPivot(h chunk.Header, c *chunk.Cursor) error {
	v, ok := readVec3(c)
	if !ok {
		return nil
	}
	n := d.nodes.Current()
	if n.Index == int(scenegraph.Root) {
		d.log.Warn("pivot before any node header, ignoring", zap.Int("offset", h.Offset))
		return nil
	}
	n.Pivot = v.SwapYZ()
	return nil
}

// trackKeys reads the shared track preamble and calls fn once per key with
// the frame number. fn reads the key value and returns false to stop.
func trackKeys(c *chunk.Cursor, fn func(frame uint16) bool) {
	c.Skip(10)
	count := int(c.Uint16())
	c.Skip(2)
	for i := 0; i < count && c.Err() == nil; i++ {
		frame := c.Uint16()
		c.Skip(4)
		if c.Err() != nil || !fn(frame) {
			return
		}
	}
}

func readVec3(c *chunk.Cursor) (math.Vec3, bool) {
	v := math.Vec3{X: c.Float32(), Y: c.Float32(), Z: c.Float32()}
	return v, c.Err() == nil
}

func (d *decoder) readPositionTrack(h chunk.Header, c *chunk.Cursor) error {
	n := d.nodes.Current()
	dropped := 0
	trackKeys(c, func(frame uint16) bool {
		v, ok := readVec3(c)
		if !ok {
			return false
		}
		if !n.Tracks.AddPosition(scenegraph.VectorKey{Frame: frame, Value: v}) {
			dropped++
		}
		return true
	})
	d.logDuplicates(h, n, dropped)
	return nil
}

func (d *decoder) readRotationTrack(h chunk.Header, c *chunk.Cursor) error {
	n := d.nodes.Current()
	dropped := 0
	trackKeys(c, func(frame uint16) bool {
		angle := c.Float32()
		axis, ok := readVec3(c)
		if !ok {
			return false
		}
		q := math.QuatFromAxisAngle(axis, angle)
		if !n.Tracks.AddRotation(scenegraph.QuatKey{Frame: frame, Value: q}) {
			dropped++
		}
		return true
	})
	d.logDuplicates(h, n, dropped)
	return nil
}

// readScaleTrack reads scaling keys. A track in which every key is zero
// would collapse the node, so all its keys are discarded.
func (d *decoder) readScaleTrack(h chunk.Header, c *chunk.Cursor) error {
	n := d.nodes.Current()
	read, zero, dropped := 0, 0, 0
	trackKeys(c, func(frame uint16) bool {
		v, ok := readVec3(c)
		if !ok {
			return false
		}
		read++
		if v.IsZero() {
			zero++
		}
		if !n.Tracks.AddScaling(scenegraph.VectorKey{Frame: frame, Value: v}) {
			dropped++
		}
		return true
	})
	if read > 0 && zero == read {
		d.log.Warn("all scaling keys are zero, discarding track", zap.String("node", n.Name))
		n.Tracks.Scaling = nil
		return nil
	}
	d.logDuplicates(h, n, dropped)
	return nil
}

func (d *decoder) logDuplicates(h chunk.Header, n *scenegraph.Node, dropped int) {
	if dropped == 0 {
		return
	}
	d.log.Debug("dropped keys with duplicate frames",
		zap.String("node", n.Name),
		zap.Stringer("track", h.Tag),
		zap.Int("keys", dropped))
}
