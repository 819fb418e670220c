package lockstep

import "fmt"

// TraceEntry is one diagnostic line accumulated during a tick.
type TraceEntry struct {
	Step    Step   `json:"step"`
	Message string `json:"message"`
}

type traceBody struct {
	SessionID string       `json:"sessionId"`
	Entries   []TraceEntry `json:"entries"`
}

// Tracef records a diagnostic for the current tick. All entries accumulated
// during a tick are flushed as a single trace message at tick end; ticks with
// no diagnostics send nothing. Trace is not part of the correctness contract.
func (s *Session) Tracef(format string, args ...any) {
	s.trace = append(s.trace, TraceEntry{
		Step:    s.sim.CurrentStep(),
		Message: fmt.Sprintf(format, args...),
	})
}

func (s *Session) flushTrace() {
	if len(s.trace) == 0 {
		return
	}
	body := traceBody{SessionID: s.id, Entries: s.trace}
	s.trace = nil
	if err := s.sender.Send("trace", body); err != nil {
		s.log.Debugf("trace send failed: %v", err)
	}
}
