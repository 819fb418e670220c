package game

import (
	"fmt"
	"sort"

	"stepsync/internal/lockstep"
)

type syncMode int

const (
	modeInterpolate syncMode = iota
	modeExtrapolate
	modeFrameSync
)

// MoveInput is the payload of a locally issued move command.
type MoveInput struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Entity is one simulated object: a locally predicted position plus the ring
// of authoritative snapshots the sync strategies sample from.
type Entity struct {
	ID      string
	Pos     Vec2
	Vel     Vec2
	history *History
}

// EntityView is a render-ready sample of one entity under the active sync
// strategy.
type EntityView struct {
	ID  string
	Pos Vec2
}

// World is a small predicted simulation driven by the lockstep session: the
// session advances its step counter, feeds it delayed local input and hands
// it authoritative sync events. It also owns strategy activation for all of
// its objects.
type World struct {
	step    lockstep.Step
	dt      float64
	width   float64
	height  float64
	passive bool

	entities map[string]*Entity

	mode    syncMode
	reflect bool

	objectAdded func(id string)
}

func NewWorld(width, height float64) *World {
	return &World{
		dt:       1.0 / lockstep.DefaultTickHz,
		width:    width,
		height:   height,
		entities: map[string]*Entity{},
	}
}

// SetObjectAddedHook registers the callback fired when an entity first
// appears, locally or from an authoritative update.
func (w *World) SetObjectAddedHook(fn func(id string)) { w.objectAdded = fn }

// SetPassive switches the world into spectator mode: local input is ignored.
func (w *World) SetPassive(passive bool) { w.passive = passive }

/* ----------------------- lockstep.Simulation ----------------------- */

func (w *World) CurrentStep() lockstep.Step { return w.step }

// AdvanceOneStep integrates predicted positions by one fixed step.
func (w *World) AdvanceOneStep() {
	w.step++
	for _, e := range w.entities {
		e.Pos = e.Pos.Add(e.Vel.Scale(w.dt))
		e.Pos.X = Clamp(e.Pos.X, 0, w.width)
		e.Pos.Y = Clamp(e.Pos.Y, 0, w.height)
	}
}

// ForceStep jumps the step counter forward to an authoritative value. The
// session guarantees it never moves backward.
func (w *World) ForceStep(step lockstep.Step) { w.step = step }

func (w *World) Passive() bool { return w.passive }

// ProcessInput applies one player-originated action. Move payloads set the
// player entity's predicted velocity.
func (w *World) ProcessInput(payload any, player lockstep.PlayerID) {
	var move MoveInput
	switch v := payload.(type) {
	case MoveInput:
		move = v
	case *MoveInput:
		move = *v
	case map[string]any:
		if dx, ok := v["dx"].(float64); ok {
			move.DX = dx
		}
		if dy, ok := v["dy"].(float64); ok {
			move.DY = dy
		}
	default:
		return
	}
	e := w.ensureEntity(playerObjectID(player))
	dir := Vec2{X: move.DX, Y: move.DY}
	if l := dir.Len(); l > 0 {
		e.Vel = dir.Scale(MoveSpeed / l)
	} else {
		e.Vel = Vec2{}
	}
}

/* --------------------- lockstep.StrategyTarget ---------------------- */

func (w *World) ActivateInterpolation(reflect bool) {
	w.mode = modeInterpolate
	w.reflect = reflect
}

func (w *World) ActivateExtrapolation() { w.mode = modeExtrapolate }

func (w *World) ActivateFrameSync() { w.mode = modeFrameSync }

/* ------------------------- Authoritative sync ------------------------ */

// ApplySyncEvents feeds authoritative object states into the per-entity
// histories. Wired to the session's sync-received hook. Events without
// object data only contribute their step count and are skipped here.
// maxStep is the highest step count in the batch; events carrying no step of
// their own are keyed to it, since the hook fires before the session jumps the
// local counter to that value.
func (w *World) ApplySyncEvents(events []lockstep.SyncEvent, maxStep lockstep.Step) {
	batchStep := w.step
	if maxStep > batchStep {
		batchStep = maxStep
	}
	for _, ev := range events {
		data, ok := ev.Data.(map[string]any)
		if !ok {
			continue
		}
		id, ok := data["objectId"].(string)
		if !ok || id == "" {
			continue
		}
		snap := Snapshot{Step: float64(batchStep)}
		if ev.HasStep {
			snap.Step = float64(ev.StepCount)
		}
		if x, ok := data["x"].(float64); ok {
			snap.Pos.X = x
		}
		if y, ok := data["y"].(float64); ok {
			snap.Pos.Y = y
		}
		if vx, ok := data["vx"].(float64); ok {
			snap.Vel.X = vx
		}
		if vy, ok := data["vy"].(float64); ok {
			snap.Vel.Y = vy
		}
		e := w.ensureEntity(id)
		e.history.push(snap)
		if w.mode == modeFrameSync {
			// Lockstep display: authoritative state replaces prediction.
			e.Pos = snap.Pos
			e.Vel = snap.Vel
		}
	}
}

/* ----------------------------- Rendering ------------------------------ */

// EntityViews samples every entity under the active strategy at the current
// step, in stable ID order.
func (w *World) EntityViews() []EntityView {
	ids := make([]string, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	views := make([]EntityView, 0, len(ids))
	for _, id := range ids {
		views = append(views, EntityView{ID: id, Pos: w.renderPosition(w.entities[id])})
	}
	return views
}

func (w *World) renderPosition(e *Entity) Vec2 {
	latest, ok := e.history.Latest()
	if !ok {
		return e.Pos
	}
	switch w.mode {
	case modeExtrapolate:
		ahead := float64(w.step) - latest.Step
		if ahead < 0 {
			ahead = 0
		}
		return latest.Pos.Add(latest.Vel.Scale(ahead * w.dt))
	case modeFrameSync:
		return e.Pos
	default:
		if w.reflect {
			// Reflect shows the authoritative position directly.
			return latest.Pos
		}
		s, _ := e.history.GetAt(float64(w.step) - interpolationLag)
		return s.Pos
	}
}

func (w *World) ensureEntity(id string) *Entity {
	if e, ok := w.entities[id]; ok {
		return e
	}
	e := &Entity{ID: id, history: newHistory(historyKeepSteps)}
	w.entities[id] = e
	if w.objectAdded != nil {
		w.objectAdded(id)
	}
	return e
}

// Entity returns the entity with the given id, if present.
func (w *World) Entity(id string) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

func playerObjectID(player lockstep.PlayerID) string {
	return fmt.Sprintf("player-%d", player)
}
