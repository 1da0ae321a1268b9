package progress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vladimirvolkov/endlessdrop/internal/game"
)

var day1 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func task(p *Profile, id string) Task {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return Task{}
}

func TestApplyRun(t *testing.T) {
	p := &Profile{}
	reward := p.Apply(game.RunSummary{Score: 1200, Gems: 5, MaxCombo: 6, RingsPassed: 10, Perfects: 2}, day1)

	// combo_5 and score_1000 complete on the first run
	if reward != 20 {
		t.Fatalf("reward = %d, want 20", reward)
	}
	if p.HighScore != 1200 || p.LongestCombo != 6 || p.GamesPlayed != 1 {
		t.Fatalf("got %+v", p)
	}
	if p.TotalGems != 25 {
		t.Fatalf("total gems = %d, want 25", p.TotalGems)
	}
	if tk := task(p, "rings_50"); tk.Progress != 10 || tk.Completed {
		t.Fatalf("rings task %+v", tk)
	}

	reward = p.Apply(game.RunSummary{Score: 300, RingsPassed: 45}, day1.Add(time.Hour))
	if reward != 5 {
		t.Fatalf("second reward = %d, want 5", reward)
	}
	if tk := task(p, "rings_50"); tk.Progress != 50 || !tk.Completed {
		t.Fatalf("rings task %+v", tk)
	}
	if p.HighScore != 1200 {
		t.Fatalf("high score dropped to %d", p.HighScore)
	}
	if tk := task(p, "games_3"); tk.Progress != 2 {
		t.Fatalf("games task %+v", tk)
	}
}

func TestTasksRollOver(t *testing.T) {
	p := &Profile{}
	p.Apply(game.RunSummary{Score: 2000}, day1)
	if !task(p, "score_1000").Completed {
		t.Fatal("score task not completed")
	}
	p.Apply(game.RunSummary{Score: 10}, day1.AddDate(0, 0, 1))
	if p.TaskDay != "2026-03-15" {
		t.Fatalf("task day %q", p.TaskDay)
	}
	if tk := task(p, "score_1000"); tk.Completed || tk.Progress != 10 {
		t.Fatalf("score task not reset: %+v", tk)
	}
}

func TestStorePersists(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.now = func() time.Time { return day1 }

	if hs := s.HighScore("alice"); hs != 0 {
		t.Fatalf("fresh profile high score %d", hs)
	}
	hs, err := s.RecordRun("alice", game.RunSummary{Score: 420, Gems: 3, MaxCombo: 2})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if hs != 420 {
		t.Fatalf("high score %d, want 420", hs)
	}
	if _, err := os.Stat(filepath.Join(dir, "alice.toml")); err != nil {
		t.Fatalf("profile not written: %v", err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	p, err := reopened.Profile("alice")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.HighScore != 420 || p.GamesPlayed != 1 || p.LastRun.Score != 420 || p.TaskDay != "2026-03-14" {
		t.Fatalf("reloaded %+v", p)
	}
	if len(p.Tasks) != len(dailyTemplate) {
		t.Fatalf("reloaded %d tasks", len(p.Tasks))
	}

	p.Tasks[0].Progress = 999
	again, _ := reopened.Profile("alice")
	if again.Tasks[0].Progress == 999 {
		t.Fatal("Profile returned shared task slice")
	}
}

func TestStoreRejectsCorruptProfile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bob.toml"), []byte("high_score = \"lots\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.RecordRun("bob", game.RunSummary{Score: 1}); err == nil {
		t.Fatal("expected error for corrupt profile")
	}
	if hs := s.HighScore("bob"); hs != 0 {
		t.Fatalf("high score %d", hs)
	}
}
