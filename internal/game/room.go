package game

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/vladimirvolkov/endlessdrop/internal/ws"
)

const (
	maxDragPerMsg = float32(400) // px; larger deltas are clamped
	maxTilt       = float32(90)
	maxQueuedCmds = 8
)

// RunRecorder is the storage collaborator that persists finished runs.
type RunRecorder interface {
	RecordRun(profile string, sum RunSummary) (highScore int, err error)
	HighScore(profile string) int
}

type GameOverPayload struct {
	Summary   RunSummary `json:"summary"`
	HighScore int        `json:"highScore"`
	NewBest   bool       `json:"newBest"`
}

// Room hosts one Session for one connection. The game loop goroutine is the
// session's only owner; the read loop talks to it through the input fields.
type Room struct {
	conn     *ws.Conn
	session  *Session
	events   EventBuffer
	recorder RunRecorder
	snap     Snapshot

	inputMu sync.Mutex
	input   Input
	cmds    []string

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRoom(conn *ws.Conn, t Tuning, recorder RunRecorder, seed int64) (*Room, error) {
	r := &Room{conn: conn, recorder: recorder}
	s, err := NewSession(t, &r.events, seed)
	if err != nil {
		return nil, err
	}
	r.session = s
	return r, nil
}

func (r *Room) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	best := 0
	if r.recorder != nil {
		best = r.recorder.HighScore(r.conn.Profile)
	}
	msg, _ := ws.NewMessage(ws.MsgWelcome, 0, ws.WelcomePayload{
		Profile:   r.conn.Profile,
		HighScore: best,
		TickRate:  TickRate,
	})
	r.conn.Send(msg)

	go r.readLoop(ctx)

	go func() {
		r.gameLoop(ctx)
		close(r.done)
	}()
}

// Done returns a channel that closes when the room's game loop exits.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) readLoop(ctx context.Context) {
	msgs := r.conn.ReadLoop(ctx)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				log.Printf("ROOM %s: disconnected", r.conn.ID)
				r.cancel()
				return
			}
			r.handleMessage(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) handleMessage(msg ws.Message) {
	switch msg.Type {
	case ws.MsgInput:
		var in ws.InputPayload
		if err := json.Unmarshal(msg.Payload, &in); err != nil {
			return
		}
		r.inputMu.Lock()
		r.input.Drag += clampF(in.Drag, -maxDragPerMsg, maxDragPerMsg)
		r.input.Tilt = clampF(in.Tilt, -maxTilt, maxTilt)
		r.input.HasTilt = in.HasTilt
		r.inputMu.Unlock()

	case ws.MsgCommand:
		var cmd ws.CommandPayload
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			return
		}
		r.inputMu.Lock()
		if len(r.cmds) < maxQueuedCmds {
			r.cmds = append(r.cmds, cmd.Command)
		}
		r.inputMu.Unlock()

	case ws.MsgPing:
		var ping ws.PingPayload
		if err := json.Unmarshal(msg.Payload, &ping); err != nil {
			return
		}
		pong, _ := ws.NewMessage(ws.MsgPong, 0, ws.PongPayload{
			ClientTime: ping.ClientTime,
			ServerTime: uint64(time.Now().UnixMilli()),
		})
		r.conn.Send(pong)
	}
}

func (r *Room) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-ctx.Done():
			return
		}
	}
}

// takeInput drains the accumulated drag and queued commands. Tilt is a level,
// not a delta, so it stays until the client sends a new value.
func (r *Room) takeInput() (Input, []string) {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()
	in := r.input
	r.input.Drag = 0
	cmds := r.cmds
	r.cmds = nil
	return in, cmds
}

func (r *Room) tick() {
	in, cmds := r.takeInput()
	for _, c := range cmds {
		if err := r.command(c); err != nil {
			log.Printf("ROOM %s: %v", r.conn.ID, err)
		}
	}

	r.session.Update(DT, in)
	r.flushEvents()

	if r.session.Tick()%BroadcastEvery == 0 {
		r.broadcastState()
	}
}

func (r *Room) command(c string) error {
	switch c {
	case ws.CmdPlay:
		return r.session.Play()
	case ws.CmdPause:
		return r.session.Pause()
	case ws.CmdResume:
		return r.session.Resume()
	case ws.CmdRestart:
		return r.session.Restart()
	case ws.CmdQuit:
		return r.session.Quit()
	}
	log.Printf("ROOM %s: unknown command %q", r.conn.ID, c)
	return nil
}

func (r *Room) flushEvents() {
	for _, ev := range r.events.Drain() {
		msg, err := ws.NewMessage(ws.MsgEvent, ev.Tick, ev)
		if err != nil {
			log.Printf("ROOM %s: encode event: %v", r.conn.ID, err)
			continue
		}
		r.conn.Send(msg)
		if ev.Kind == EventGameOver && ev.Summary != nil {
			r.finishRun(ev.Tick, *ev.Summary)
		}
	}
}

// finishRun hands the summary to the recorder off the frame path and sends
// the game-over message once storage answers.
func (r *Room) finishRun(tick uint32, sum RunSummary) {
	go func() {
		best := sum.Score
		if r.recorder != nil {
			prev := r.recorder.HighScore(r.conn.Profile)
			hs, err := r.recorder.RecordRun(r.conn.Profile, sum)
			if err != nil {
				// Storage failure never touches the run; report the score we have.
				log.Printf("ROOM %s: record run: %v", r.conn.ID, err)
				hs = max(prev, sum.Score)
			}
			best = hs
		}
		msg, _ := ws.NewMessage(ws.MsgGameOver, tick, GameOverPayload{
			Summary:   sum,
			HighScore: best,
			NewBest:   sum.Score > 0 && sum.Score == best,
		})
		r.conn.Send(msg)
	}()
}

func (r *Room) broadcastState() {
	r.session.Snapshot(&r.snap)
	data, err := ws.EncodeState(&r.snap)
	if err != nil {
		log.Printf("ROOM %s: failed to encode state: %v", r.conn.ID, err)
		return
	}
	r.conn.SendBinary(data)
}
