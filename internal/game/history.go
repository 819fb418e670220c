package game

// Snapshot is one authoritative position sample, keyed by the step it was
// taken at.
type Snapshot struct {
	Step float64
	Pos  Vec2
	Vel  Vec2
}

// History is a fixed ring of authoritative snapshots per entity. Interpolation
// samples between the two snapshots bracketing a step; extrapolation projects
// forward from the newest.
type History struct {
	buf   []Snapshot
	head  int
	size  int
	limit int
}

func newHistory(limit int) *History {
	if limit < 2 {
		limit = 2
	}
	return &History{buf: make([]Snapshot, limit), limit: limit}
}

func (h *History) push(s Snapshot) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % h.limit
	if h.size < h.limit {
		h.size++
	}
}

// Latest returns the most recent snapshot.
func (h *History) Latest() (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	return h.buf[(h.head-1+h.limit)%h.limit], true
}

// GetAt returns the snapshot interpolated at step, clamping to the oldest or
// newest sample when step falls outside the retained window.
func (h *History) GetAt(step float64) (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	var before, after Snapshot
	haveBefore, haveAfter := false, false
	for i := 0; i < h.size; i++ {
		idx := (h.head - 1 - i + h.limit) % h.limit
		s := h.buf[idx]
		if s.Step >= step {
			after = s
			haveAfter = true
		}
		if s.Step <= step {
			before = s
			haveBefore = true
			break
		}
	}
	if !haveBefore {
		earliest := h.buf[(h.head-h.size+h.limit)%h.limit]
		return earliest, true
	}
	if !haveAfter {
		latest := h.buf[(h.head-1+h.limit)%h.limit]
		return latest, true
	}
	if after.Step == before.Step {
		return before, true
	}
	alpha := (step - before.Step) / (after.Step - before.Step)
	return Snapshot{
		Step: step,
		Pos:  lerpVec(before.Pos, after.Pos, alpha),
		Vel:  lerpVec(before.Vel, after.Vel, alpha),
	}, true
}
