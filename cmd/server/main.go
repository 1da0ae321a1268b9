package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vladimirvolkov/endlessdrop/internal/config"
	"github.com/vladimirvolkov/endlessdrop/internal/game"
	"github.com/vladimirvolkov/endlessdrop/internal/middleware"
	"github.com/vladimirvolkov/endlessdrop/internal/progress"
	"github.com/vladimirvolkov/endlessdrop/internal/ws"
)

// securityHeaders wraps a handler with common security response headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// RunManager starts a Room for every accepted connection.
type RunManager struct {
	ctx      context.Context
	hub      *ws.Hub
	tuning   game.Tuning
	recorder game.RunRecorder
}

func (m *RunManager) CreateSession(conn *ws.Conn) error {
	room, err := game.NewRoom(conn, m.tuning, m.recorder, time.Now().UnixNano())
	if err != nil {
		return err
	}
	room.Start(m.ctx)
	go func() {
		select {
		case <-room.Done():
		case <-conn.Done():
		}
		conn.Close()
		<-room.Done()
		m.hub.SessionEnded()
	}()
	return nil
}

func main() {
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	store, err := progress.NewStore(cfg.ProfileDir)
	if err != nil {
		log.Fatalf("progress: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewIPRateLimiter(ctx, middleware.Limits{
		MaxConnsPerIP: cfg.MaxConnsPerIP,
		MsgRate:       cfg.MsgRate,
		MsgWindow:     cfg.MsgWindow,
	})

	manager := &RunManager{ctx: ctx, tuning: tuning, recorder: store}
	hub := ws.NewHub(manager, limiter, cfg.AllowedOrigins, cfg.MaxSessions)
	manager.hub = hub

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hub.Stats())
	})

	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}
		p, err := store.Profile(ws.SanitizeProfile(name))
		if err != nil {
			http.Error(w, "profile unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	})

	fs := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		fs.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	go func() {
		<-ctx.Done()
		log.Println("shutting down...")
		server.Close()
	}()

	log.Printf("endlessdrop server starting on :%s", cfg.Port)
	log.Printf("serving static files from %s, profiles in %s", cfg.StaticDir, cfg.ProfileDir)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}
