package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vladimirvolkov/endlessdrop/internal/ws"
)

type fakeRecorder struct {
	best     int
	recorded chan RunSummary
}

func (f *fakeRecorder) RecordRun(profile string, sum RunSummary) (int, error) {
	f.best = max(f.best, sum.Score)
	f.recorded <- sum
	return f.best, nil
}

func (f *fakeRecorder) HighScore(string) int { return f.best }

func newTestRoom(t *testing.T, rec RunRecorder) *Room {
	t.Helper()
	conn := ws.NewConn(nil, "run-test", "127.0.0.1", nil)
	conn.Profile = "tester"
	r, err := NewRoom(conn, quietTuning(), rec, 1)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	return r
}

func message(t *testing.T, typ uint8, payload any) ws.Message {
	t.Helper()
	msg, err := ws.NewMessage(typ, 0, payload)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return msg
}

func TestRoomInputAccumulates(t *testing.T) {
	r := newTestRoom(t, nil)
	r.handleMessage(message(t, ws.MsgInput, ws.InputPayload{Drag: 30}))
	r.handleMessage(message(t, ws.MsgInput, ws.InputPayload{Drag: 1000, Tilt: 200, HasTilt: true}))

	in, _ := r.takeInput()
	if in.Drag != 430 {
		t.Fatalf("drag = %v, want 430", in.Drag)
	}
	if in.Tilt != 90 || !in.HasTilt {
		t.Fatalf("tilt = %v/%v, want clamped 90", in.Tilt, in.HasTilt)
	}

	in, _ = r.takeInput()
	if in.Drag != 0 || in.Tilt != 90 {
		t.Fatalf("second take: drag %v tilt %v", in.Drag, in.Tilt)
	}
}

func TestRoomCommands(t *testing.T) {
	r := newTestRoom(t, nil)
	for i := 0; i < maxQueuedCmds+3; i++ {
		r.handleMessage(message(t, ws.MsgCommand, ws.CommandPayload{Command: ws.CmdPause}))
	}
	if _, cmds := r.takeInput(); len(cmds) != maxQueuedCmds {
		t.Fatalf("queued %d commands, want %d", len(cmds), maxQueuedCmds)
	}

	r.handleMessage(message(t, ws.MsgCommand, ws.CommandPayload{Command: ws.CmdPlay}))
	r.tick()
	if r.session.Phase() != PhaseCountdown {
		t.Fatalf("phase = %v, want COUNTDOWN", r.session.Phase())
	}
	if r.events.Len() != 0 {
		t.Fatal("tick left events in the buffer")
	}
}

func TestRoomIgnoresMalformedPayload(t *testing.T) {
	r := newTestRoom(t, nil)
	r.handleMessage(ws.Message{Type: ws.MsgInput, Payload: json.RawMessage(`{"drag":"far"}`)})
	if in, _ := r.takeInput(); in.Drag != 0 {
		t.Fatalf("drag = %v from malformed input", in.Drag)
	}
}

func TestRoomRecordsFinishedRun(t *testing.T) {
	rec := &fakeRecorder{best: 10, recorded: make(chan RunSummary, 1)}
	r := newTestRoom(t, rec)
	s := r.session

	s.Play()
	for i := 0; i < 7; i++ {
		s.Update(0.5, Input{})
	}
	s.rings.Place(0, 0)
	s.Update(0, Input{})
	s.Update(0, Input{})
	s.rings.Place(0, 2)
	s.Update(0, Input{})
	r.flushEvents()

	select {
	case sum := <-rec.recorded:
		if sum.Score != 35 {
			t.Fatalf("recorded score %d, want 35", sum.Score)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run was never recorded")
	}
}
