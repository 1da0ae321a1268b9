package ws

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/vladimirvolkov/endlessdrop/internal/middleware"
)

const sendBuffer = 64

type frame struct {
	typ  websocket.MessageType
	data []byte
}

type Conn struct {
	ws      *websocket.Conn
	sendCh  chan frame
	done    chan struct{}
	once    sync.Once
	ID      string
	Profile string
	IP      string
	limiter *middleware.IPRateLimiter
}

func NewConn(ws *websocket.Conn, id string, ip string, limiter *middleware.IPRateLimiter) *Conn {
	return &Conn{
		ws:      ws,
		sendCh:  make(chan frame, sendBuffer),
		done:    make(chan struct{}),
		ID:      id,
		IP:      ip,
		limiter: limiter,
	}
}

func (c *Conn) enqueue(f frame) {
	select {
	case c.sendCh <- f:
	default:
		log.Printf("conn %s: send buffer full, dropping frame", c.ID)
	}
}

// Send queues a JSON text message. Never blocks the caller.
func (c *Conn) Send(msg Message) {
	data, err := Encode(msg)
	if err != nil {
		log.Printf("conn %s: encode error: %v", c.ID, err)
		return
	}
	c.enqueue(frame{typ: websocket.MessageText, data: data})
}

// SendBinary queues a pre-encoded binary frame.
func (c *Conn) SendBinary(data []byte) {
	c.enqueue(frame{typ: websocket.MessageBinary, data: data})
}

func (c *Conn) ReadLoop(ctx context.Context) <-chan Message {
	ch := make(chan Message, sendBuffer)
	go func() {
		defer close(ch)
		for {
			_, data, err := c.ws.Read(ctx)
			if err != nil {
				log.Printf("conn %s: read error: %v", c.ID, err)
				c.Close()
				return
			}
			if c.limiter != nil && !c.limiter.MessageAllowed(c.IP) {
				continue
			}
			msg, err := Decode(data)
			if err != nil {
				log.Printf("conn %s: decode error: %v", c.ID, err)
				continue
			}
			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (c *Conn) WriteLoop(ctx context.Context) {
	for {
		select {
		case f := <-c.sendCh:
			ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.ws.Write(ctx2, f.typ, f.data)
			cancel()
			if err != nil {
				log.Printf("conn %s: write error: %v", c.ID, err)
				c.Close()
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close(websocket.StatusNormalClosure, "")
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
