package game

import (
	"testing"

	"stepsync/internal/lockstep"
)

func syncEvent(id string, step float64, x, y, vx, vy float64) lockstep.SyncEvent {
	return lockstep.SyncEvent{
		StepCount: lockstep.Step(step),
		HasStep:   true,
		Data: map[string]any{
			"objectId": id, "x": x, "y": y, "vx": vx, "vy": vy,
		},
	}
}

func TestProcessInputMovesPlayerEntity(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	w.ProcessInput(MoveInput{DX: 1, DY: 0}, 7)

	e, ok := w.Entity("player-7")
	if !ok {
		t.Fatal("expected player entity to spawn on first input")
	}
	if e.Vel.X != MoveSpeed || e.Vel.Y != 0 {
		t.Fatalf("expected velocity (%v, 0), got %+v", MoveSpeed, e.Vel)
	}

	start := e.Pos
	w.AdvanceOneStep()
	if e.Pos.X <= start.X {
		t.Fatalf("expected movement along +X, got %+v", e.Pos)
	}
	if w.CurrentStep() != 1 {
		t.Fatalf("expected step 1, got %d", w.CurrentStep())
	}
}

func TestProcessInputFromDecodedMap(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	w.ProcessInput(map[string]any{"dx": 0.0, "dy": -1.0}, 1)

	e, _ := w.Entity("player-1")
	if e == nil || e.Vel.Y != -MoveSpeed {
		t.Fatalf("expected velocity -Y from map payload, got %+v", e)
	}
}

func TestObjectAddedHookFiresOncePerEntity(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	var added []string
	w.SetObjectAddedHook(func(id string) { added = append(added, id) })

	w.ProcessInput(MoveInput{DX: 1}, 2)
	w.ProcessInput(MoveInput{DX: -1}, 2)
	w.ApplySyncEvents([]lockstep.SyncEvent{syncEvent("npc-1", 5, 0, 0, 0, 0)}, 0)

	if len(added) != 2 || added[0] != "player-2" || added[1] != "npc-1" {
		t.Fatalf("expected one notification per new entity, got %v", added)
	}
}

func TestInterpolationSamplesBehindCurrentStep(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	w.ActivateInterpolation(false)
	w.ForceStep(12)

	w.ApplySyncEvents([]lockstep.SyncEvent{
		syncEvent("npc-1", 0, 0, 0, 0, 0),
		syncEvent("npc-1", 20, 100, 0, 0, 0),
	}, 20)

	views := w.EntityViews()
	if len(views) != 1 {
		t.Fatalf("expected one view, got %d", len(views))
	}
	// Sampled at step 12-2=10, halfway through the 0..20 snapshot pair.
	if views[0].Pos.X != 50 {
		t.Fatalf("expected interpolated x=50, got %.2f", views[0].Pos.X)
	}
}

func TestReflectShowsAuthoritativePositionDirectly(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	w.ActivateInterpolation(true)
	w.ForceStep(12)

	w.ApplySyncEvents([]lockstep.SyncEvent{
		syncEvent("npc-1", 0, 0, 0, 0, 0),
		syncEvent("npc-1", 20, 100, 0, 0, 0),
	}, 20)

	views := w.EntityViews()
	if views[0].Pos.X != 100 {
		t.Fatalf("reflect should show the latest authoritative x=100, got %.2f", views[0].Pos.X)
	}
}

func TestExtrapolationProjectsForward(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	w.ActivateExtrapolation()
	w.ForceStep(70)

	w.ApplySyncEvents([]lockstep.SyncEvent{syncEvent("npc-1", 10, 100, 0, 60, 0)}, 0)

	// 60 steps ahead at 60 units/s and dt=1/60 => +60 units.
	views := w.EntityViews()
	if views[0].Pos.X != 160 {
		t.Fatalf("expected extrapolated x=160, got %.2f", views[0].Pos.X)
	}
}

func TestFrameSyncSnapsToAuthoritativeState(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	w.ActivateFrameSync()

	w.ApplySyncEvents([]lockstep.SyncEvent{syncEvent("npc-1", 4, 42, 24, 0, 0)}, 0)

	e, _ := w.Entity("npc-1")
	if e.Pos.X != 42 || e.Pos.Y != 24 {
		t.Fatalf("frameSync should snap positions, got %+v", e.Pos)
	}
	views := w.EntityViews()
	if views[0].Pos != e.Pos {
		t.Fatalf("frameSync view should equal snapped position, got %+v", views[0].Pos)
	}
}

func TestSteplessEventsKeyToBatchMaxStep(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	// The sync hook fires before the session forces the local counter up, so
	// the world still sits at an older step when the batch arrives.
	w.ForceStep(3)

	w.ApplySyncEvents([]lockstep.SyncEvent{
		{Data: map[string]any{"objectId": "npc-1", "x": 10.0}},
	}, 9)

	e, _ := w.Entity("npc-1")
	latest, ok := e.history.Latest()
	if !ok {
		t.Fatal("expected a snapshot from the stepless event")
	}
	if latest.Step != 9 {
		t.Fatalf("stepless snapshot should key to the batch max step 9, got %.0f", latest.Step)
	}
}

func TestPassiveWorldFlag(t *testing.T) {
	w := NewWorld(WorldW, WorldH)
	if w.Passive() {
		t.Fatal("world should start active")
	}
	w.SetPassive(true)
	if !w.Passive() {
		t.Fatal("SetPassive should flip the flag")
	}
}

func TestAdvanceClampsToWorldBounds(t *testing.T) {
	w := NewWorld(100, 100)
	w.ProcessInput(MoveInput{DX: -1}, 1)
	for i := 0; i < 200; i++ {
		w.AdvanceOneStep()
	}
	e, _ := w.Entity("player-1")
	if e.Pos.X != 0 {
		t.Fatalf("expected clamp at x=0, got %.2f", e.Pos.X)
	}
}
