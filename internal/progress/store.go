package progress

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vladimirvolkov/endlessdrop/internal/game"
)

// Store keeps one TOML file per profile under dir and caches loaded profiles.
// Safe for concurrent use by many rooms.
type Store struct {
	dir string
	now func() time.Time

	mu       sync.Mutex
	profiles map[string]*Profile
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("profile dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now, profiles: make(map[string]*Profile)}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".toml")
}

// load returns the cached profile, reading it from disk on first use.
// Callers hold s.mu.
func (s *Store) load(name string) (*Profile, error) {
	if p, ok := s.profiles[name]; ok {
		return p, nil
	}
	p := &Profile{}
	if _, err := toml.DecodeFile(s.path(name), p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load profile %s: %w", name, err)
	}
	s.profiles[name] = p
	return p, nil
}

// Profile returns a copy of the stored profile.
func (s *Store) Profile(name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(name)
	if err != nil {
		return Profile{}, err
	}
	cp := *p
	cp.Tasks = append([]Task(nil), p.Tasks...)
	return cp, nil
}

func (s *Store) HighScore(name string) int {
	p, err := s.Profile(name)
	if err != nil {
		log.Printf("PROGRESS: %v", err)
		return 0
	}
	return p.HighScore
}

// RecordRun applies a finished run and writes the profile back to disk.
func (s *Store) RecordRun(name string, sum game.RunSummary) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(name)
	if err != nil {
		return 0, err
	}
	if reward := p.Apply(sum, s.now()); reward > 0 {
		log.Printf("PROGRESS: %s completed missions, +%d gems", name, reward)
	}
	if err := s.save(name, p); err != nil {
		return p.HighScore, err
	}
	return p.HighScore, nil
}

// save writes through a temp file so a crash never leaves half a profile.
func (s *Store) save(name string, p *Profile) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save profile %s: %w", name, err)
	}
	if err := toml.NewEncoder(tmp).Encode(p); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save profile %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save profile %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save profile %s: %w", name, err)
	}
	return nil
}
