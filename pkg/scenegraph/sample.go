package scenegraph

import "github.com/Faultbox/max3ds/pkg/math"

// bracket finds the keys surrounding frame in a track and the blend factor
// between them. Tracks are kept in frame order by the Add methods.
// prev == next outside the track's range.
func bracket(n int, frameOf func(i int) uint16, frame float32) (prev, next int, t float32) {
	for i := 0; i < n; i++ {
		if float32(frameOf(i)) > frame {
			next = i
			if i == 0 {
				return 0, 0, 0
			}
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return prev, next, 0
	}
	f0, f1 := float32(frameOf(prev)), float32(frameOf(next))
	return prev, next, (frame - f0) / (f1 - f0)
}

// PositionAt returns the interpolated position at frame. ok is false when
// the track has no keys.
func (t *Tracks) PositionAt(frame float32) (v math.Vec3, ok bool) {
	return vectorAt(t.Position, frame)
}

// ScalingAt returns the interpolated scale at frame. ok is false when the
// track has no keys.
func (t *Tracks) ScalingAt(frame float32) (v math.Vec3, ok bool) {
	return vectorAt(t.Scaling, frame)
}

func vectorAt(keys []VectorKey, frame float32) (math.Vec3, bool) {
	if len(keys) == 0 {
		return math.Vec3{}, false
	}
	prev, next, f := bracket(len(keys), func(i int) uint16 { return keys[i].Frame }, frame)
	return keys[prev].Value.Lerp(keys[next].Value, f), true
}

// RotationAt returns the slerped orientation at frame. ok is false when the
// track has no keys.
func (t *Tracks) RotationAt(frame float32) (math.Quat, bool) {
	keys := t.Rotation
	if len(keys) == 0 {
		return math.QuatIdentity(), false
	}
	prev, next, f := bracket(len(keys), func(i int) uint16 { return keys[i].Frame }, frame)
	if prev == next {
		return keys[prev].Value, true
	}
	return keys[prev].Value.Slerp(keys[next].Value, f), true
}

// LocalTransform returns the node's animated transform at frame:
// translation * rotation * scale, followed by moving the pivot to the
// origin unless ignorePivot is set. Missing tracks contribute identity.
func (g *Graph) LocalTransform(id NodeID, frame float32, ignorePivot bool) math.Mat4 {
	n := &g.Nodes[id]
	m := math.Identity()
	if p, ok := n.Tracks.PositionAt(frame); ok {
		m = m.Mul(math.Translate(p.X, p.Y, p.Z))
	}
	if q, ok := n.Tracks.RotationAt(frame); ok {
		m = m.Mul(q.ToMat4())
	}
	if s, ok := n.Tracks.ScalingAt(frame); ok {
		m = m.Mul(math.Scale(s.X, s.Y, s.Z))
	}
	if !ignorePivot && !n.Pivot.IsZero() {
		m = m.Mul(math.Translate(-n.Pivot.X, -n.Pivot.Y, -n.Pivot.Z))
	}
	return m
}

// WorldTransform composes the local transforms from the root down to id.
func (g *Graph) WorldTransform(id NodeID, frame float32, ignorePivot bool) math.Mat4 {
	m := g.LocalTransform(id, frame, ignorePivot)
	for p := g.Nodes[id].Parent; p != NoParent; p = g.Nodes[p].Parent {
		m = g.LocalTransform(p, frame, ignorePivot).Mul(m)
	}
	return m
}
