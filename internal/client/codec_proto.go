package client

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"stepsync/internal/lockstep"
)

// ProtoCodec decodes worldUpdate payloads sent as binary protobuf frames.
// The payload is a structpb.Struct mirroring the JSON shape, so servers can
// switch framing without a schema change on either side.
type ProtoCodec struct{}

func (ProtoCodec) Decode(payload []byte) ([]lockstep.SyncEvent, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(payload, &st); err != nil {
		return nil, lockstep.DecodeErrorf("world update (proto): %v", err)
	}
	list := st.GetFields()["events"].GetListValue()
	events := make([]lockstep.SyncEvent, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		ev := lockstep.SyncEvent{Data: v.AsInterface()}
		if sc := v.GetStructValue().GetFields()["stepCount"]; sc != nil {
			if _, isNum := sc.GetKind().(*structpb.Value_NumberValue); isNum {
				ev.StepCount = lockstep.Step(sc.GetNumberValue())
				ev.HasStep = true
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// EncodeProtoUpdate builds the binary form of a world update from the same
// generic event maps JSONCodec consumes. Mostly useful to test servers and
// the codec itself.
func EncodeProtoUpdate(events []map[string]any) ([]byte, error) {
	values := make([]any, 0, len(events))
	for _, ev := range events {
		values = append(values, any(ev))
	}
	st, err := structpb.NewStruct(map[string]any{"events": values})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}
