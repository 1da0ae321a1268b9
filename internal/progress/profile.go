package progress

import (
	"time"

	"github.com/vladimirvolkov/endlessdrop/internal/game"
)

type TaskKind string

const (
	TaskRings   TaskKind = "rings"
	TaskPerfect TaskKind = "perfect"
	TaskCombo   TaskKind = "combo"
	TaskGems    TaskKind = "gems"
	TaskScore   TaskKind = "score"
	TaskGames   TaskKind = "games"
)

// Task is one daily mission. Counting kinds accumulate across runs; combo and
// score track the best single run of the day.
type Task struct {
	ID        string   `toml:"id"`
	Kind      TaskKind `toml:"kind"`
	Target    int      `toml:"target"`
	Progress  int      `toml:"progress"`
	Completed bool     `toml:"completed"`
	Reward    int      `toml:"reward"`
}

var dailyTemplate = []Task{
	{ID: "rings_50", Kind: TaskRings, Target: 50, Reward: 5},
	{ID: "perfect_10", Kind: TaskPerfect, Target: 10, Reward: 5},
	{ID: "combo_5", Kind: TaskCombo, Target: 5, Reward: 10},
	{ID: "gems_20", Kind: TaskGems, Target: 20, Reward: 5},
	{ID: "score_1000", Kind: TaskScore, Target: 1000, Reward: 10},
	{ID: "games_3", Kind: TaskGames, Target: 3, Reward: 3},
}

// Profile is everything kept between runs for one player.
type Profile struct {
	HighScore    int    `toml:"high_score"`
	TotalGems    int    `toml:"total_gems"`
	LongestCombo int    `toml:"longest_combo"`
	GamesPlayed  int    `toml:"games_played"`
	RingsPassed  int    `toml:"rings_passed"`
	Perfects     int    `toml:"perfects"`
	TaskDay      string `toml:"task_day"`
	Tasks        []Task `toml:"tasks"`

	LastRun game.RunSummary `toml:"last_run"`
}

func day(now time.Time) string {
	return now.Format(time.DateOnly)
}

// rollTasks replaces the task list when the calendar day changed.
func (p *Profile) rollTasks(now time.Time) {
	today := day(now)
	if p.TaskDay == today && len(p.Tasks) == len(dailyTemplate) {
		return
	}
	p.TaskDay = today
	p.Tasks = append(p.Tasks[:0], dailyTemplate...)
}

// Apply folds a finished run into the profile and returns the gem reward from
// missions completed by this run.
func (p *Profile) Apply(sum game.RunSummary, now time.Time) int {
	p.HighScore = max(p.HighScore, sum.Score)
	p.TotalGems += sum.Gems
	p.LongestCombo = max(p.LongestCombo, sum.MaxCombo)
	p.GamesPlayed++
	p.RingsPassed += sum.RingsPassed
	p.Perfects += sum.Perfects
	p.LastRun = sum

	p.rollTasks(now)
	reward := 0
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.Completed {
			continue
		}
		switch t.Kind {
		case TaskRings:
			t.Progress += sum.RingsPassed
		case TaskPerfect:
			t.Progress += sum.Perfects
		case TaskGems:
			t.Progress += sum.Gems
		case TaskGames:
			t.Progress++
		case TaskCombo:
			t.Progress = max(t.Progress, sum.MaxCombo)
		case TaskScore:
			t.Progress = max(t.Progress, sum.Score)
		}
		if t.Progress >= t.Target {
			t.Progress = t.Target
			t.Completed = true
			reward += t.Reward
		}
	}
	p.TotalGems += reward
	return reward
}
