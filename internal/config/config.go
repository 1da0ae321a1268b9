package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/vladimirvolkov/endlessdrop/internal/game"
)

// Server is the process-level configuration for cmd/server.
type Server struct {
	Port           string
	StaticDir      string
	AllowedOrigins []string
	TuningFile     string
	ProfileDir     string
	MaxSessions    int
	MaxConnsPerIP  int
	MsgRate        int
	MsgWindow      time.Duration
}

// Load reads an optional env file, then the process environment.
// A missing env file is not an error; a malformed one is.
func Load(envFiles ...string) (Server, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Server{}, fmt.Errorf("load %s: %w", f, err)
		}
		log.Printf("loaded environment from %s", f)
	}

	cfg := Server{
		Port:       GetEnv("PORT", "8080"),
		StaticDir:  GetEnv("STATIC_DIR", "./web"),
		TuningFile: os.Getenv("TUNING_FILE"),
		ProfileDir: GetEnv("PROFILE_DIR", "./profiles"),
		MsgWindow:  time.Second,
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	if cfg.MaxSessions, err = intEnv("MAX_SESSIONS", 100); err != nil {
		return Server{}, err
	}
	if cfg.MaxConnsPerIP, err = intEnv("MAX_CONNS_PER_IP", 4); err != nil {
		return Server{}, err
	}
	if cfg.MsgRate, err = intEnv("MSG_RATE", 120); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// GetEnv returns the variable's value or def when it is unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s=%q: want a positive integer", key, raw)
	}
	return v, nil
}

// LoadTuning overlays the TOML file at path onto the default tuning and
// validates the result. An empty path yields the defaults.
func LoadTuning(path string) (game.Tuning, error) {
	t := game.DefaultTuning()
	if path == "" {
		return t, nil
	}
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return game.Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Printf("tuning %s: ignoring unknown keys %v", path, undecoded)
	}
	if err := t.Validate(); err != nil {
		return game.Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
