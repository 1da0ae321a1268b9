package ws

import (
	"encoding/json"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgInput   uint8 = 0x01
	MsgCommand uint8 = 0x02
	MsgPing    uint8 = 0x04
)

// Server -> Client message types
const (
	MsgState    uint8 = 0x81 // binary: type byte + msgpack snapshot
	MsgWelcome  uint8 = 0x82
	MsgGameOver uint8 = 0x83
	MsgEvent    uint8 = 0x84
	MsgPong     uint8 = 0x86
)

// Lifecycle commands carried by MsgCommand
const (
	CmdPlay    = "play"
	CmdPause   = "pause"
	CmdResume  = "resume"
	CmdRestart = "restart"
	CmdQuit    = "quit"
)

var ErrNotState = errors.New("not a state frame")

type Message struct {
	Type    uint8           `json:"type"`
	Tick    uint32          `json:"tick"`
	Payload json.RawMessage `json:"payload"`
}

type InputPayload struct {
	Drag    float32 `json:"drag"`
	Tilt    float32 `json:"tilt"`
	HasTilt bool    `json:"hasTilt"`
}

type CommandPayload struct {
	Command string `json:"command"`
}

type PingPayload struct {
	ClientTime uint64 `json:"clientTime"`
}

type PongPayload struct {
	ClientTime uint64 `json:"clientTime"`
	ServerTime uint64 `json:"serverTime"`
}

type WelcomePayload struct {
	Profile   string `json:"profile"`
	HighScore int    `json:"highScore"`
	TickRate  int    `json:"tickRate"`
}

func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func Decode(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}

func NewMessage(typ uint8, tick uint32, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:    typ,
		Tick:    tick,
		Payload: json.RawMessage(data),
	}, nil
}

// EncodeState packs a snapshot into a binary state frame.
func EncodeState(state any) ([]byte, error) {
	body, err := msgpack.Marshal(state)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(body)+1)
	frame = append(frame, MsgState)
	return append(frame, body...), nil
}

// DecodeState unpacks a frame produced by EncodeState into v.
func DecodeState(data []byte, v any) error {
	if len(data) == 0 || data[0] != MsgState {
		return ErrNotState
	}
	return msgpack.Unmarshal(data[1:], v)
}
