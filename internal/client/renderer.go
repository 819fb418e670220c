package client

import (
	"go.uber.org/zap"

	"stepsync/internal/game"
)

// LogRenderer satisfies lockstep.Renderer for headless runs: every logEvery
// frames it samples the world under the active sync strategy and logs the
// result. It stands in for a real rendering subsystem, which is outside this
// client's scope.
type LogRenderer struct {
	log      *zap.SugaredLogger
	world    *game.World
	logEvery int
	frames   int
}

func NewLogRenderer(log *zap.SugaredLogger, world *game.World, logEvery int) *LogRenderer {
	if logEvery <= 0 {
		logEvery = 60
	}
	return &LogRenderer{log: log, world: world, logEvery: logEvery}
}

func (r *LogRenderer) Init() error {
	r.log.Infof("renderer ready")
	return nil
}

func (r *LogRenderer) Draw() {
	r.frames++
	if r.frames%r.logEvery != 0 {
		return
	}
	for _, v := range r.world.EntityViews() {
		r.log.Debugf("frame %d step %d: %s at (%.1f, %.1f)",
			r.frames, r.world.CurrentStep(), v.ID, v.Pos.X, v.Pos.Y)
	}
}
