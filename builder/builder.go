package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/oerror"
	"github.com/oomph-ac/blueprint/scaffolder"
	"github.com/oomph-ac/blueprint/schematic"
	"github.com/oomph-ac/blueprint/settings"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
	"github.com/oomph-ac/blueprint/worker"
	"github.com/sirupsen/logrus"
)

// Builder turns schematics into plans: the scaffolding needed to place every block, and the order an agent
// standing on the ground can place and later remove it in.
type Builder struct {
	settings settings.Settings
	palette  *state.Palette
	log      *logrus.Logger
	strategy scaffolder.Strategy
}

// New returns a Builder resolving schematic tokens through the palette passed. A nil logger discards
// everything logged.
func New(s settings.Settings, p *state.Palette, log *logrus.Logger) *Builder {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	if p == nil {
		p = state.NewPalette()
	}
	return &Builder{settings: s, palette: p, log: log, strategy: scaffolder.Dijkstra{}}
}

// Plan plans the schematic for an agent starting at anchor, a position relative to the minimum corner of the
// schematic. The anchor may lie in the padding around the schematic.
func (b *Builder) Plan(schem *schematic.Schematic, anchor cube.Pos) (*Plan, error) {
	start := time.Now()
	pad := cube.Pos{b.settings.Planner.HorizontalPadding, 0, b.settings.Planner.HorizontalPadding}
	sb := schem.Bounds()
	bounds := world.NewBounds(sb.SizeX()+2*pad.X(), sb.SizeY()+b.settings.Planner.Headroom, sb.SizeZ()+2*pad.Z())

	local := schem.Resolve(b.palette)
	target := world.NewCuboid(bounds, func(pos cube.Pos) state.Data {
		if p := pos.Sub(pad); sb.InRange(p) {
			return local.At(p)
		}
		return state.Air
	})
	g := dependency.New(target)
	out, err := scaffolder.Run(g, b.strategy)
	if err != nil {
		return nil, err
	}
	b.log.WithFields(logrus.Fields{
		"blocks":    out.Overlay().RealCount() - out.ScaffoldCount(),
		"scaffolds": out.ScaffoldCount(),
		"took":      time.Since(start),
	}).Debug("scaffolding solved")

	origin := schem.Origin().Sub(pad)
	for el := out.Resolved().Front(); el != nil; el = el.Next() {
		b.log.WithFields(logrus.Fields{
			"component": el.Key.Add(origin),
			"scaffolds": el.Value,
		}).Trace("component scaffolded")
	}
	seqStart := time.Now()
	seq := newSequencer(b.settings, out, anchor.Add(pad), origin)
	plan, err := seq.run()
	if err != nil {
		return nil, err
	}
	b.log.WithFields(logrus.Fields{
		"steps":       len(plan.Steps),
		"left_behind": len(plan.LeftBehind),
		"took":        time.Since(seqStart),
	}).Debug("placements sequenced")
	return plan, nil
}

// PlanCandidates plans the schematic for every anchor passed concurrently, and returns the plan needing the
// fewest scaffold blocks. Ties go to the anchor passed first. If no anchor can be planned for, the errors of
// all of them are returned.
func (b *Builder) PlanCandidates(ctx context.Context, schem *schematic.Schematic, anchors []cube.Pos) (*Plan, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: no anchors to plan from", oerror.ErrUnreachable)
	}
	chans := make([]<-chan worker.Result[*Plan], len(anchors))
	for i, anchor := range anchors {
		chans[i] = worker.Do(func() (*Plan, error) {
			return b.Plan(schem, anchor)
		})
	}

	var (
		best *Plan
		errs []error
	)
	for i, ch := range chans {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("anchor %v: %w", anchors[i], res.Err))
				continue
			}
			if best == nil || res.Value.ScaffoldCount < best.ScaffoldCount {
				best = res.Value
			}
		}
	}
	if best == nil {
		return nil, errors.Join(errs...)
	}
	return best, nil
}
