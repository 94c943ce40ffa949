package builder

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/game"
	"github.com/oomph-ac/blueprint/oerror"
	"github.com/oomph-ac/blueprint/scaffolder"
	"github.com/oomph-ac/blueprint/settings"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/surface"
	"github.com/oomph-ac/blueprint/world"
	"github.com/zyedidia/generic/heap"
)

// sequencer orders the placements of a scaffolder output so that an agent walking on the region can perform
// them. It tracks the region as it is built in a surface, and only places a block if the agent can stand
// within reach of it both before and after, without losing its way back to the anchor.
type sequencer struct {
	settings settings.Settings
	out      *scaffolder.Output
	graph    *dependency.Graph
	bounds   world.Bounds
	surface  *surface.Surface
	anchor   cube.Pos
	origin   cube.Pos

	rank   []int
	placed []bool
	queued []bool
	plan   *Plan
}

// stand is a position the agent can perform a step from.
type stand struct {
	pos  cube.Pos
	eye  mgl32.Vec3
	dist float32
}

func newSequencer(s settings.Settings, out *scaffolder.Output, anchor, origin cube.Pos) *sequencer {
	g := out.Graph()
	b := g.Bounds()
	seq := &sequencer{
		settings: s,
		out:      out,
		graph:    g,
		bounds:   b,
		surface:  surface.New(world.FillWithAir(b).Snapshot(), s.Physics),
		anchor:   anchor,
		origin:   origin,
		rank:     make([]int, b.Volume()),
		placed:   make([]bool, b.Volume()),
		queued:   make([]bool, b.Volume()),
		plan:     &Plan{ScaffoldCount: out.ScaffoldCount(), Origin: origin, Anchor: origin.Add(anchor)},
	}
	for i, pos := range out.Order() {
		seq.rank[b.Index(pos)] = i
	}
	return seq
}

func (s *sequencer) run() (*Plan, error) {
	if !s.bounds.InRange(s.anchor) {
		return nil, fmt.Errorf("%w: anchor %v", oerror.ErrOutOfBounds, s.plan.Anchor)
	}
	if !s.surface.Standable(s.anchor) {
		return nil, fmt.Errorf("%w: the agent cannot stand at anchor %v", oerror.ErrUnreachable, s.plan.Anchor)
	}

	ready := heap.New(func(a, b int) bool {
		return s.rank[a] < s.rank[b]
	})
	order := s.out.Order()
	for _, pos := range order {
		if i := s.bounds.Index(pos); s.graph.GroundedAt(i) {
			s.queued[i] = true
			ready.Push(i)
		}
	}

	remaining := len(order)
	var deferred []int
	for remaining > 0 {
		progressed := false
		for ready.Size() > 0 {
			i, _ := ready.Pop()
			if !s.place(i) {
				deferred = append(deferred, i)
				continue
			}
			remaining--
			progressed = true
			s.release(i, ready)
		}
		if remaining == 0 {
			break
		}
		if !progressed || len(deferred) == 0 {
			return nil, fmt.Errorf("%w: %d of %d blocks cannot be placed, first at %v", oerror.ErrUnreachable, remaining, len(order), s.origin.Add(s.firstUnplaced(deferred)))
		}
		for _, i := range deferred {
			ready.Push(i)
		}
		deferred = deferred[:0]
	}

	s.removeScaffolding()
	return s.plan, nil
}

func (s *sequencer) firstUnplaced(deferred []int) cube.Pos {
	if len(deferred) > 0 {
		return s.bounds.Pos(slices.MinFunc(deferred, func(a, b int) int { return s.rank[a] - s.rank[b] }))
	}
	for _, pos := range s.out.Order() {
		if !s.placed[s.bounds.Index(pos)] {
			return pos
		}
	}
	return cube.Pos{}
}

// release queues every unplaced neighbour that can be placed against the block just placed at index.
func (s *sequencer) release(index int, ready *heap.Heap[int]) {
	for _, face := range cube.Faces() {
		n, ok := s.bounds.Neighbour(index, face)
		if !ok || s.queued[n] || !s.out.Overlay().RealAt(n) || s.graph.Outgoing(n)&(1<<face.Opposite()) == 0 {
			continue
		}
		s.queued[n] = true
		ready.Push(n)
	}
}

// place tries to place the block at index, returning false and leaving the region untouched if the agent
// cannot do so.
func (s *sequencer) place(index int) bool {
	pos := s.bounds.Pos(index)
	d := s.graph.DataAt(index)
	stands := s.stands(pos)
	if len(stands) == 0 {
		return false
	}

	s.surface.PlaceBlock(pos, d)
	if s.surface.Standable(s.anchor) {
		for _, st := range stands {
			if !s.surface.Connected(st.pos, s.anchor) {
				continue
			}
			face, click, ok := s.against(index, st.eye)
			if !ok {
				continue
			}
			action := PlaceReal
			if s.graph.Air(index) {
				action = PlaceScaffold
			}
			s.placed[index] = true
			s.emit(pos, action, face, click, st.pos, d)
			return true
		}
	}
	s.surface.RemoveBlock(pos)
	return false
}

// against returns the face of the block at index to click with the agent's eye at eye: the face with a
// placed neighbour the block can be placed against nearest to the eye.
func (s *sequencer) against(index int, eye mgl32.Vec3) (cube.Face, mgl32.Vec3, bool) {
	pos := s.bounds.Pos(index)
	var (
		best     cube.Face
		bestDist float32 = math32.Inf(1)
		click    mgl32.Vec3
	)
	for _, face := range cube.Faces() {
		n := pos.Side(face)
		if s.bounds.InRange(n) {
			if !s.graph.OutgoingEdge(pos, face) || !s.placed[s.bounds.Index(n)] {
				continue
			}
		} else if face != cube.FaceDown || !s.graph.GroundedAt(index) {
			continue
		}
		c := faceCentre(pos, face)
		if s.settings.Planner.LineOfSight && !s.visible(eye, c, pos, n) {
			continue
		}
		if dist := c.Sub(eye).Len(); dist < bestDist {
			best, bestDist, click = face, dist, c
		}
	}
	return best, click, !math32.IsInf(bestDist, 1)
}

// visible returns whether the ray from eye to point passes only through air, ignoring the voxels passed.
func (s *sequencer) visible(eye, point mgl32.Vec3, ignore ...cube.Pos) bool {
	for v := range game.VoxelsBetween(eye, point) {
		if slices.Contains(ignore, v) || !s.bounds.InRange(v) {
			continue
		}
		if s.surface.Block(v).CollidesWithPlayer {
			return false
		}
	}
	return true
}

// stands returns every position connected to the anchor from which the agent can reach the block at pos,
// nearest first.
func (s *sequencer) stands(pos cube.Pos) []stand {
	reach := s.settings.Planner.Reach
	bpb := s.settings.Physics.BlipsPerBlock
	r := int(math32.Ceil(reach)) + 1
	box := game.BlockBox(pos)

	var out []stand
	for dy := -r - 2; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				sp := pos.Add(cube.Pos{dx, dy, dz})
				if !s.surface.Standable(sp) {
					continue
				}
				feet := s.surface.FeetBlips(sp)
				if s.inBody(pos, sp, feet) {
					continue
				}
				eye := game.EyePosition(sp, feet, bpb)
				dist := game.AABBVectorDistance(box, eye)
				if dist > reach || !s.surface.Connected(sp, s.anchor) {
					continue
				}
				out = append(out, stand{pos: sp, eye: eye, dist: dist})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b stand) int {
		return cmp.Compare(a.dist, b.dist)
	})
	return out
}

// inBody returns whether pos is one of the voxels the agent occupies standing at sp with its feet feet
// blips up.
func (s *sequencer) inBody(pos, sp cube.Pos, feet int) bool {
	if pos.X() != sp.X() || pos.Z() != sp.Z() {
		return false
	}
	bpb := s.settings.Physics.BlipsPerBlock
	top := sp.Y() + (feet+s.settings.Physics.PlayerHeightBlips-1)/bpb
	return pos.Y() >= sp.Y() && pos.Y() <= top
}

// removeScaffolding breaks the scaffold blocks in the reverse order they were placed in, leaving behind
// those the agent cannot reach.
func (s *sequencer) removeScaffolding() {
	var scaffolds []Step
	for _, step := range s.plan.Steps {
		if step.Action == PlaceScaffold {
			scaffolds = append(scaffolds, step)
		}
	}
	for k := len(scaffolds) - 1; k >= 0; k-- {
		pos := scaffolds[k].Pos
		if !s.settings.Planner.RemoveScaffolding || !s.remove(pos.Sub(s.origin)) {
			s.plan.LeftBehind = append(s.plan.LeftBehind, pos)
		}
	}
}

func (s *sequencer) remove(pos cube.Pos) bool {
	stands := s.stands(pos)
	if len(stands) == 0 {
		return false
	}
	s.surface.RemoveBlock(pos)
	if s.surface.Standable(s.anchor) {
		for _, st := range stands {
			if !s.surface.Connected(st.pos, s.anchor) {
				continue
			}
			face := facing(pos, st.eye)
			s.emit(pos, RemoveScaffold, face, faceCentre(pos, face), st.pos, state.Scaffolding)
			return true
		}
	}
	s.surface.PlaceBlock(pos, state.Scaffolding)
	return false
}

func (s *sequencer) emit(pos cube.Pos, action Action, face cube.Face, click mgl32.Vec3, stand cube.Pos, d state.Data) {
	o := s.origin
	s.plan.Steps = append(s.plan.Steps, Step{
		Pos:     o.Add(pos),
		Action:  action,
		Against: face,
		Click:   game.Vec32To64(click).Add(mgl64.Vec3{float64(o.X()), float64(o.Y()), float64(o.Z())}),
		Stand:   o.Add(stand),
		Data:    d,
	})
}

// faceCentre returns the centre of the face of the voxel at pos.
func faceCentre(pos cube.Pos, face cube.Face) mgl32.Vec3 {
	d := pos.Side(face).Sub(pos)
	return mgl32.Vec3{
		float32(pos.X()) + 0.5 + float32(d.X())*0.5,
		float32(pos.Y()) + 0.5 + float32(d.Y())*0.5,
		float32(pos.Z()) + 0.5 + float32(d.Z())*0.5,
	}
}

// facing returns the face of the voxel at pos that points most towards eye.
func facing(pos cube.Pos, eye mgl32.Vec3) cube.Face {
	centre := mgl32.Vec3{float32(pos.X()) + 0.5, float32(pos.Y()) + 0.5, float32(pos.Z()) + 0.5}
	dir := eye.Sub(centre)
	best, bestDot := cube.FaceUp, math32.Inf(-1)
	for _, face := range cube.Faces() {
		d := pos.Side(face).Sub(pos)
		if dot := dir.Dot(mgl32.Vec3{float32(d.X()), float32(d.Y()), float32(d.Z())}); dot > bestDot {
			best, bestDot = face, dot
		}
	}
	return best
}
