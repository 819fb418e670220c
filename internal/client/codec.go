package client

import (
	"encoding/json"
	"fmt"

	"stepsync/internal/lockstep"
)

// ResolveCodec maps a declarative codec name to the deserializer the session
// runs inbound payloads through. "json" expects textual envelopes, "proto" the
// binary structpb framing some servers switch to under load.
func ResolveCodec(name string) (lockstep.Deserializer, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "proto":
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", lockstep.ErrConfiguration, name)
	}
}

// JSONCodec decodes worldUpdate payloads of the form
// {"events":[{"stepCount":7,"objectId":"npc-1","x":1,"y":2,...},...]}.
// Events keep their full decoded object as Data; stepCount is lifted out when
// present.
type JSONCodec struct{}

func (JSONCodec) Decode(payload []byte) ([]lockstep.SyncEvent, error) {
	var update struct {
		Events []map[string]any `json:"events"`
	}
	if err := json.Unmarshal(payload, &update); err != nil {
		return nil, lockstep.DecodeErrorf("world update: %v", err)
	}
	events := make([]lockstep.SyncEvent, 0, len(update.Events))
	for _, raw := range update.Events {
		ev := lockstep.SyncEvent{Data: raw}
		if v, ok := raw["stepCount"].(float64); ok {
			ev.StepCount = lockstep.Step(v)
			ev.HasStep = true
		}
		events = append(events, ev)
	}
	return events, nil
}
