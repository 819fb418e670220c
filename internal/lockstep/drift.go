package lockstep

// driftCorrector compares the local step count against the last authoritative
// step observed from the server and raises at most one of two corrections:
// skip the next local tick (client ran ahead) or perform a double step
// (client fell behind). The two conditions are mutually exclusive for any
// threshold >= 1. No correction happens before the first authoritative step
// arrives.
type driftCorrector struct {
	threshold     Step
	authoritative Step
	seen          bool
	skipNext      bool
	doubleStep    bool
}

func newDriftCorrector(threshold Step) *driftCorrector {
	if threshold < 1 {
		threshold = DefaultDriftThreshold
	}
	return &driftCorrector{threshold: threshold}
}

// observe records an authoritative step extracted from an inbound update.
func (d *driftCorrector) observe(authoritative Step) {
	d.authoritative = authoritative
	d.seen = true
}

// driftDecision reports what, if anything, check just raised.
type driftDecision int

const (
	driftNone driftDecision = iota
	driftSkipScheduled
	driftFellBehind
)

// check evaluates drift for the current tick and updates the correction
// flags. Called once per tick after inbound updates are drained.
func (d *driftCorrector) check(local Step) driftDecision {
	if !d.seen {
		return driftNone
	}
	switch {
	case local > d.authoritative+d.threshold:
		d.skipNext = true
		return driftSkipScheduled
	case d.authoritative > local+d.threshold:
		d.doubleStep = true
		return driftFellBehind
	}
	return driftNone
}

// consumeSkip reports whether the upcoming tick must not advance the
// simulation, clearing the flag.
func (d *driftCorrector) consumeSkip() bool {
	s := d.skipNext
	d.skipNext = false
	return s
}

// doubleStepPending reports whether the client has fallen behind far enough
// that the host should run an extra step. The corrector only raises the flag;
// catching up is the host's call.
func (d *driftCorrector) doubleStepPending() bool {
	return d.doubleStep
}

func (d *driftCorrector) consumeDoubleStep() bool {
	s := d.doubleStep
	d.doubleStep = false
	return s
}
