package lockstep

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

/* --------------------------- Collaborators --------------------------- */

// Simulation is the engine being stepped. The session is the sole writer of
// its step counter: AdvanceOneStep once per tick, ForceStep only forward when
// a larger authoritative step arrives.
type Simulation interface {
	CurrentStep() Step
	AdvanceOneStep()
	ForceStep(step Step)
	ProcessInput(payload any, player PlayerID)
	Passive() bool
	StrategyTarget
}

// Renderer is the per-frame output sink. A session without one is a fatal
// configuration error at startup, not per tick.
type Renderer interface {
	Init() error
	Draw()
}

// Deserializer decodes one raw authoritative update payload into sync events.
type Deserializer interface {
	Decode(payload []byte) ([]SyncEvent, error)
}

// Sender transmits one client-to-server message. Transmission is best effort:
// implementations must not block the tick loop waiting for acknowledgement.
type Sender interface {
	Send(command string, body any) error
}

// Logger is the minimal structured-logging surface the core needs.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NopSender discards outbound messages. Used for offline sessions.
type NopSender struct{}

func (NopSender) Send(string, any) error { return nil }

/* ------------------------------ Session ------------------------------ */

// Config is the resolved session configuration. Sync must come from
// ResolveSyncMode; the selection is immutable for the session's lifetime.
type Config struct {
	TickHz          float64
	DelayInputCount int
	DriftThreshold  Step
	Sync            StrategySelection
}

// Collaborators are the injected dependencies a session is built from.
type Collaborators struct {
	Simulation   Simulation
	Renderer     Renderer
	Deserializer Deserializer
	Sender       Sender
	Logger       Logger
	Clock        clock.Clock
}

// Session ties the tick loop, drift correction, input delay and the
// inbound/outbound queues together around one simulation. All tick-phase
// logic runs on the loop goroutine; the only cross-goroutine entry points are
// EnqueueUpdate and AssignPlayer, fed by the network reader.
type Session struct {
	id       string
	cfg      Config
	sim      Simulation
	renderer Renderer
	deser    Deserializer
	sender   Sender
	log      Logger
	clk      clock.Clock

	hooks    Hooks
	loop     *Loop
	delay    *delayQueue
	drift    *driftCorrector
	outbound outboundQueue

	// Pending inbound updates are drained in strict arrival order (FIFO),
	// which neither drops nor reorders intermediate updates.
	inbound chan []byte

	mu             sync.Mutex // guards player identity and sequence counter
	player         PlayerID
	playerAssigned bool
	seq            int64

	trace  []TraceEntry
	closed atomic.Bool
}

// NewSession validates configuration, activates the sync strategy and
// initializes the renderer. Missing collaborators are ConfigurationErrors.
func NewSession(cfg Config, col Collaborators) (*Session, error) {
	if col.Simulation == nil {
		return nil, configErrorf("no simulation configured")
	}
	if col.Renderer == nil {
		return nil, configErrorf("no renderer configured")
	}
	if col.Deserializer == nil {
		return nil, configErrorf("no deserializer configured")
	}
	if col.Sender == nil {
		col.Sender = NopSender{}
	}
	if col.Logger == nil {
		col.Logger = nopLogger{}
	}
	if col.Clock == nil {
		col.Clock = clock.New()
	}
	if cfg.DriftThreshold < 1 {
		cfg.DriftThreshold = DefaultDriftThreshold
	}
	if cfg.DelayInputCount < 0 {
		cfg.DelayInputCount = 0
	}

	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		sim:      col.Simulation,
		renderer: col.Renderer,
		deser:    col.Deserializer,
		sender:   col.Sender,
		log:      col.Logger,
		clk:      col.Clock,
		delay:    newDelayQueue(cfg.DelayInputCount),
		drift:    newDriftCorrector(cfg.DriftThreshold),
		inbound:  make(chan []byte, inboundQueueDepth),
	}
	s.loop = NewLoop(col.Clock, cfg.TickHz, s.Tick)

	cfg.Sync.Activate(s.sim)
	if err := s.renderer.Init(); err != nil {
		return nil, configErrorf("renderer init: %v", err)
	}
	s.log.Infof("session %s: sync=%s reflect=%v delay=%d drift-threshold=%d",
		s.id, cfg.Sync.Mode, cfg.Sync.Reflect, cfg.DelayInputCount, cfg.DriftThreshold)
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Hooks exposes the observer registration surface.
func (s *Session) Hooks() *Hooks { return &s.hooks }

// Loop exposes the fixed-timestep scheduler for hosts that drive frames
// themselves.
func (s *Session) Loop() *Loop { return s.loop }

/* --------------------------- Player identity -------------------------- */

// AssignPlayer sets the local player identity from the server's playerJoined
// message and seeds the sequence-number namespace. Write-once per session.
func (s *Session) AssignPlayer(id PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playerAssigned {
		return ErrPlayerAssigned
	}
	s.player = id
	s.playerAssigned = true
	s.seq = 0
	s.log.Infof("session %s: player %d joined", s.id, id)
	return nil
}

// Player returns the assigned identity, or zero before the join handshake.
func (s *Session) Player() PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Session) nextSequence() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return sequenceBase(s.player) + s.seq
}

/* ------------------------------- Input -------------------------------- */

// IssueInput creates an InputMessage for the local player and routes it both
// to transmission (always, this tick's flush) and to local apply (immediately
// with zero delay, otherwise delayInputCount ticks later). Must be called
// from the loop goroutine.
func (s *Session) IssueInput(command string, payload any, options map[string]any) InputMessage {
	msg := InputMessage{
		Command:      command,
		Sequence:     s.nextSequence(),
		IssuedAtStep: s.sim.CurrentStep(),
		Payload:      payload,
		Options:      options,
	}
	s.outbound.append(msg)
	if s.delay.passthrough() {
		s.applyInput(msg)
	} else {
		s.delay.push(msg)
	}
	return msg
}

func (s *Session) applyInput(msg InputMessage) {
	if s.sim.Passive() {
		return
	}
	s.hooks.fireBeforeInput(msg)
	s.sim.ProcessInput(msg.Payload, s.Player())
	s.hooks.fireAfterInput(msg)
}

/* ------------------------------ Inbound -------------------------------- */

// EnqueueUpdate hands one raw authoritative update to the session. Safe to
// call from the network reader goroutine; never blocks. If the queue is full
// the newest payload is dropped with a warning.
func (s *Session) EnqueueUpdate(payload []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.inbound <- payload:
	default:
		s.log.Warnf("session %s: inbound queue full, dropping update", s.id)
	}
}

func (s *Session) drainInbound() {
	for {
		select {
		case payload := <-s.inbound:
			s.handleUpdate(payload)
		default:
			return
		}
	}
}

func (s *Session) handleUpdate(payload []byte) {
	events, err := s.deser.Decode(payload)
	if err != nil {
		// Malformed payloads never crash the tick loop: drop and keep going.
		s.log.Warnf("session %s: %v", s.id, err)
		s.Tracef("dropped malformed update: %v", err)
		return
	}
	max := maxEventStep(events)
	s.hooks.fireSyncReceived(events, max)
	if max > 0 {
		s.drift.observe(max)
	}
	if max > s.sim.CurrentStep() {
		// Forward only. The local step count never decreases.
		s.sim.ForceStep(max)
	}
}

/* ------------------------------ Outbound ------------------------------- */

func (s *Session) flushOutbound() {
	for _, msg := range s.outbound.drain() {
		if err := s.sender.Send(msg.Command, msg.wireBody()); err != nil {
			s.log.Warnf("session %s: send %s: %v", s.id, msg.Command, err)
		}
	}
}

/* ------------------------------ Tick loop ------------------------------ */

// Tick runs one logical simulation step. Phase order is fixed: pre-step hook,
// inbound drain, drift check, outbound flush, delayed-input apply, simulation
// advance, post-step hook, trace flush.
func (s *Session) Tick() {
	if s.closed.Load() {
		return
	}
	start := s.clk.Now()

	if s.drift.consumeSkip() {
		// Bookkeeping-only tick: queues drain, the simulation stays put.
		s.log.Warnf("session %s: skipping step %d, ahead of server", s.id, s.sim.CurrentStep())
		s.Tracef("skipped step, local %d ahead of authoritative", s.sim.CurrentStep())
		s.drainInbound()
		s.flushOutbound()
		s.flushTrace()
		return
	}

	startStep := s.sim.CurrentStep()
	s.hooks.firePreStep(startStep)
	s.drainInbound()

	// Drift is judged against the step count the tick started with: an
	// authoritative jump applied during the inbound drain still counts as
	// having fallen behind.
	switch s.drift.check(startStep) {
	case driftSkipScheduled:
		s.log.Warnf("session %s: local step %d too far ahead, will skip next tick",
			s.id, startStep)
		s.Tracef("drift: skip scheduled at local step %d", startStep)
	case driftFellBehind:
		s.Tracef("drift: fell behind at local step %d, double step requested", startStep)
	}

	s.flushOutbound()

	for _, msg := range s.delay.takeDue() {
		s.applyInput(msg)
	}

	s.sim.AdvanceOneStep()
	s.hooks.firePostStep(s.sim.CurrentStep())

	if elapsed := s.clk.Since(start); elapsed > s.loop.Interval() {
		s.Tracef("tick overran interval: %s", elapsed)
	}
	s.flushTrace()
}

// DoubleStepPending reports whether the drift corrector has flagged that the
// client fell behind. The base contract only raises the flag; running the
// extra step is the host's decision.
func (s *Session) DoubleStepPending() bool { return s.drift.doubleStepPending() }

// ConsumeDoubleStep clears and returns the double-step flag.
func (s *Session) ConsumeDoubleStep() bool { return s.drift.consumeDoubleStep() }

/* ------------------------------- Frames -------------------------------- */

// OnFrame is the external frame-callback entry point: it runs every due
// logical tick, performs at most one catch-up step when the client fell
// behind, and draws a frame. Returns the number of ticks executed.
func (s *Session) OnFrame(now time.Time) int {
	n := s.loop.Advance(now)
	if s.ConsumeDoubleStep() {
		s.Tick()
		n++
	}
	s.renderer.Draw()
	return n
}

// Run self-drives frames from the session clock at frameHz until the context
// is cancelled, for hosts without an external frame source.
func (s *Session) Run(ctx context.Context, frameHz float64) error {
	if frameHz <= 0 {
		frameHz = DefaultFrameHz
	}
	ticker := s.clk.Ticker(time.Duration(float64(time.Second) / frameHz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.OnFrame(now)
		}
	}
}

// Close stops the session: further ticks are no-ops and inbound updates are
// discarded. Close does not drain pending queues.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.log.Infof("session %s: closed at step %d", s.id, s.sim.CurrentStep())
	}
}
