package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stepsync/internal/lockstep"
)

// envelope is the logical message framing shared with the server: a type tag
// plus an opaque payload.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type joinedPayload struct {
	PlayerID int64 `json:"playerId"`
}

// Transport is the websocket adapter between a session and the server. Sends
// are best effort: a failed write is reported but never blocks or aborts the
// tick loop.
type Transport struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger

	writeMu sync.Mutex
}

// Dial connects to the server.
func Dial(ctx context.Context, serverURL string, log *zap.SugaredLogger) (*Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}
	return &Transport{conn: conn, log: log}, nil
}

// Send implements lockstep.Sender.
func (t *Transport) Send(command string, body any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteJSON(outEnvelope{Type: command, Payload: body}); err != nil {
		return fmt.Errorf("write %s: %w", command, err)
	}
	return nil
}

// ReadPump consumes server messages until the connection drops or the context
// is cancelled: playerJoined assigns the session identity, worldUpdate feeds
// the pending-inbound queue. Binary frames carry no envelope; the whole frame
// is a world update for the session's deserializer. Unknown types are ignored.
func (t *Transport) ReadPump(ctx context.Context, session *lockstep.Session) error {
	for {
		msgType, data, err := t.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		if msgType == websocket.BinaryMessage {
			session.EnqueueUpdate(data)
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.log.Warnf("unparseable server frame: %v", err)
			continue
		}
		switch env.Type {
		case "playerJoined":
			var p joinedPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				t.log.Warnf("playerJoined: %v", err)
				continue
			}
			if err := session.AssignPlayer(lockstep.PlayerID(p.PlayerID)); err != nil {
				t.log.Warnf("playerJoined: %v", err)
			}
		case "worldUpdate":
			session.EnqueueUpdate([]byte(env.Payload))
		default:
			t.log.Debugf("ignoring server message type %q", env.Type)
		}
	}
}

// Close tears the connection down, unblocking ReadPump.
func (t *Transport) Close() error {
	return t.conn.Close()
}
