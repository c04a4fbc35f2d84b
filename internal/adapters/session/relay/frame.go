package relay

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bytedance/sonic"
)

const (
	frameConnect = "connect"
	frameSession = "session"
	framePacket  = "packet"
	frameEnd     = "end"
	frameError   = "error"
)

const (
	packetChat       = "chat"
	packetHeader     = "playerlist_header"
	packetWorldChunk = "map_chunk"
	packetTeams      = "teams"
)

// frame is the JSON envelope exchanged with the relay in both directions.
type frame struct {
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Options map[string]any  `json:"options,omitempty"`
}

type chatPacket struct {
	Message any `json:"message"`
}

type headerPacket struct {
	Header any `json:"header"`
}

type teamsPacket struct {
	Mode    int   `json:"mode"`
	Players []any `json:"players"`
}

func encodeFrame(f frame) ([]byte, error) {
	data, err := sonic.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.Type, err)
	}
	return data, nil
}

func decodeFrame(data []byte) (frame, error) {
	var f frame
	if err := sonic.Unmarshal(data, &f); err != nil {
		return frame{}, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type == "" {
		return frame{}, fmt.Errorf("decode frame: missing type")
	}
	return f, nil
}

// packetEvent translates a relayed packet. ok is false for packets the
// monitor does not consume.
func packetEvent(name string, data []byte) (domain.Event, bool, error) {
	switch name {
	case packetChat:
		var p chatPacket
		if err := sonic.Unmarshal(data, &p); err != nil {
			return domain.Event{}, false, fmt.Errorf("decode %s packet: %w", name, err)
		}
		text, err := componentText(p.Message)
		if err != nil {
			return domain.Event{}, false, err
		}
		return domain.ChatEvent(text), true, nil
	case packetHeader:
		var p headerPacket
		if err := sonic.Unmarshal(data, &p); err != nil {
			return domain.Event{}, false, fmt.Errorf("decode %s packet: %w", name, err)
		}
		text, err := componentText(p.Header)
		if err != nil {
			return domain.Event{}, false, err
		}
		return domain.HeaderEvent(text), true, nil
	case packetWorldChunk:
		return domain.WorldReadyEvent(), true, nil
	case packetTeams:
		var p teamsPacket
		if err := sonic.Unmarshal(data, &p); err != nil {
			return domain.Event{}, false, fmt.Errorf("decode %s packet: %w", name, err)
		}
		return domain.RosterEvent(domain.RosterMode(p.Mode), len(p.Players)), true, nil
	default:
		return domain.Event{}, false, nil
	}
}

// componentText returns chat components as their JSON text. Relays may send
// them either pre-serialized or as nested objects.
func componentText(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	default:
		text, err := sonic.MarshalString(value)
		if err != nil {
			return "", fmt.Errorf("encode chat component: %w", err)
		}
		return text, nil
	}
}
