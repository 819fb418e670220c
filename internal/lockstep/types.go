package lockstep

// Step is one discrete advance of the logical simulation clock. It never
// decreases for the lifetime of a session.
type Step int64

// PlayerID is the server-assigned identity of a connected client.
type PlayerID int64

// sequenceBase returns the first sequence number of a player's namespace.
func sequenceBase(p PlayerID) int64 {
	return int64(p) << seqNamespaceBits
}

// InputMessage is one locally issued input. It is immutable once created and
// consumed exactly twice: once by local apply (possibly delayed) and once by
// network transmission.
type InputMessage struct {
	Command      string
	Sequence     int64
	IssuedAtStep Step
	Payload      any
	Options      map[string]any
}

// OutboundBody is the wire body of one transmitted InputMessage.
type OutboundBody struct {
	MessageIndex int64          `json:"messageIndex"`
	Step         Step           `json:"step"`
	Input        any            `json:"input"`
	Options      map[string]any `json:"options,omitempty"`
}

func (m InputMessage) wireBody() OutboundBody {
	return OutboundBody{
		MessageIndex: m.Sequence,
		Step:         m.IssuedAtStep,
		Input:        m.Payload,
		Options:      m.Options,
	}
}

// SyncEvent is one unit of authoritative state decoded from a server update.
// HasStep reports whether the event carried a step count; events without one
// never influence the authoritative-step computation.
type SyncEvent struct {
	StepCount Step
	HasStep   bool
	Data      any
}

// maxEventStep returns the largest step count carried by any event, or zero
// when none carries one.
func maxEventStep(events []SyncEvent) Step {
	var max Step
	for _, ev := range events {
		if ev.HasStep && ev.StepCount > max {
			max = ev.StepCount
		}
	}
	return max
}
