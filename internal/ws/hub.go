package ws

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/vladimirvolkov/endlessdrop/internal/middleware"
)

const (
	maxProfileRunes = 16
	defaultProfile  = "guest"
	readLimit       = 1024 // client messages are input/commands, well under this
)

// SanitizeProfile keeps letters, digits, underscore and dash, lowercased, so
// the result is safe to use as a save-file name.
func SanitizeProfile(raw string) string {
	if !utf8.ValidString(raw) {
		return defaultProfile
	}
	cleaned := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			cleaned = append(cleaned, r+('a'-'A'))
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) < 2 {
		return defaultProfile
	}
	if len(cleaned) > maxProfileRunes {
		cleaned = cleaned[:maxProfileRunes]
	}
	return string(cleaned)
}

// SessionCreator hosts a run for a freshly accepted connection. It must not
// block; the hub keeps the HTTP handler alive until the connection closes.
type SessionCreator interface {
	CreateSession(conn *Conn) error
}

// HubStats holds live server metrics.
type HubStats struct {
	ActiveSessions   int64  `json:"activeSessions"`
	TotalConnections uint64 `json:"totalConnections"`
	Rejected         uint64 `json:"rejected"`
}

type Hub struct {
	creator     SessionCreator
	nextID      atomic.Uint64
	maxSessions int64

	activeSessions   atomic.Int64
	totalConnections atomic.Uint64
	rejected         atomic.Uint64

	limiter        *middleware.IPRateLimiter
	originPatterns []string
}

func NewHub(creator SessionCreator, limiter *middleware.IPRateLimiter, originPatterns []string, maxSessions int) *Hub {
	return &Hub{
		creator:        creator,
		limiter:        limiter,
		originPatterns: originPatterns,
		maxSessions:    int64(maxSessions),
	}
}

// Stats returns a snapshot of current server metrics.
func (h *Hub) Stats() HubStats {
	return HubStats{
		ActiveSessions:   h.activeSessions.Load(),
		TotalConnections: h.totalConnections.Load(),
		Rejected:         h.rejected.Load(),
	}
}

// SessionEnded decrements the active session counter. Call when a room exits.
func (h *Hub) SessionEnded() {
	h.activeSessions.Add(-1)
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := middleware.RealIP(r)
	if h.limiter != nil && !h.limiter.ConnectAllowed(ip) {
		h.rejected.Add(1)
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}
	release := func() {
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		acceptOpts.OriginPatterns = h.originPatterns
	}

	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		release()
		log.Printf("ws accept error: %v", err)
		return
	}
	ws.SetReadLimit(readLimit)

	h.totalConnections.Add(1)
	id := fmt.Sprintf("run-%d", h.nextID.Add(1))
	conn := NewConn(ws, id, ip, h.limiter)
	conn.Profile = SanitizeProfile(r.URL.Query().Get("name"))
	log.Printf("new connection: %s [%s] from %s (total: %d)", id, conn.Profile, ip, h.totalConnections.Load())

	if h.activeSessions.Add(1) > h.maxSessions {
		h.activeSessions.Add(-1)
		h.rejected.Add(1)
		release()
		log.Printf("max sessions reached, rejecting %s", id)
		ws.Close(websocket.StatusTryAgainLater, "server full")
		return
	}

	// Background context so the connection outlives the HTTP handler's request context
	go conn.WriteLoop(context.Background())

	if err := h.creator.CreateSession(conn); err != nil {
		h.activeSessions.Add(-1)
		log.Printf("%s: create session: %v", id, err)
		conn.Close()
	}

	<-conn.Done()
	release()
	log.Printf("connection closed: %s", id)
}
