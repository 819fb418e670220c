package client

import (
	"errors"
	"testing"

	"stepsync/internal/lockstep"
)

func TestProtoCodecRoundTrip(t *testing.T) {
	payload, err := EncodeProtoUpdate([]map[string]any{
		{"stepCount": 7.0, "objectId": "npc-1", "x": 1.5},
		{"objectId": "npc-2"},
	})
	if err != nil {
		t.Fatalf("EncodeProtoUpdate: %v", err)
	}

	events, err := ProtoCodec{}.Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].HasStep || events[0].StepCount != 7 {
		t.Fatalf("event 0: expected stepCount 7, got %+v", events[0])
	}
	if events[1].HasStep {
		t.Fatal("event 1 must not report a step count")
	}
	data := events[0].Data.(map[string]any)
	if data["objectId"] != "npc-1" {
		t.Fatalf("event data not preserved: %v", data)
	}
}

func TestProtoCodecMalformedIsDecodeError(t *testing.T) {
	_, err := ProtoCodec{}.Decode([]byte{0xff, 0xff, 0xff})
	if !errors.Is(err, lockstep.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestProtoAndJSONCodecsAgree(t *testing.T) {
	raw := []map[string]any{{"stepCount": 12.0, "objectId": "npc-9", "x": 3.0, "y": 4.0}}
	payload, err := EncodeProtoUpdate(raw)
	if err != nil {
		t.Fatalf("EncodeProtoUpdate: %v", err)
	}
	fromProto, err := ProtoCodec{}.Decode(payload)
	if err != nil {
		t.Fatalf("proto decode: %v", err)
	}
	fromJSON, err := JSONCodec{}.Decode([]byte(`{"events":[{"stepCount":12,"objectId":"npc-9","x":3,"y":4}]}`))
	if err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if fromProto[0].StepCount != fromJSON[0].StepCount || fromProto[0].HasStep != fromJSON[0].HasStep {
		t.Fatalf("codecs disagree on step: %+v vs %+v", fromProto[0], fromJSON[0])
	}
	pd := fromProto[0].Data.(map[string]any)
	jd := fromJSON[0].Data.(map[string]any)
	if pd["objectId"] != jd["objectId"] || pd["x"] != jd["x"] {
		t.Fatalf("codecs disagree on data: %v vs %v", pd, jd)
	}
}
