package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vladimirvolkov/endlessdrop/internal/audio"
	"github.com/vladimirvolkov/endlessdrop/internal/config"
	"github.com/vladimirvolkov/endlessdrop/internal/game"
	"github.com/vladimirvolkov/endlessdrop/internal/progress"
	"github.com/vladimirvolkov/endlessdrop/internal/ws"
)

const (
	dragStep     = 25 // pointer pixels per arrow press
	ballRow      = 4
	colsPerUnit  = 6
	rowsPerUnit  = 1
	bannerFrames = 45
)

// hud keeps the short-lived text shown after notable events.
type hud struct {
	banner     string
	bannerLeft int
	color      tcell.Color
}

func (h *hud) show(text string, c tcell.Color) {
	h.banner = text
	h.bannerLeft = bannerFrames
	h.color = c
}

func (h *hud) Emit(ev game.Event) {
	switch ev.Kind {
	case game.EventPerfect:
		h.show(fmt.Sprintf("PERFECT x%d", ev.Combo), fxColor(ev, tcell.ColorAqua))
	case game.EventBonus:
		h.show("+"+ev.Subtype, fxColor(ev, tcell.ColorGold))
	case game.EventShield:
		h.show(fmt.Sprintf("SHIELD! %d left", ev.Value), tcell.ColorLightSkyBlue)
	case game.EventBiome:
		h.show("ENTERING "+ev.Subtype, fxColor(ev, tcell.ColorWhite))
	case game.EventCountdown:
		if ev.Value == 0 {
			h.show("GO!", tcell.ColorGreen)
		} else {
			h.show(fmt.Sprint(ev.Value), tcell.ColorYellow)
		}
	}
}

func (h *hud) tick() {
	if h.bannerLeft > 0 {
		h.bannerLeft--
	}
}

func fxColor(ev game.Event, def tcell.Color) tcell.Color {
	if ev.FX == nil || ev.FX.Color == 0 {
		return def
	}
	return tcell.NewHexColor(int32(ev.FX.Color))
}

// layout maps world coordinates onto terminal cells for one frame. Ring and
// lane widths come from the tuning the session runs with.
type layout struct {
	centerX int
	ballY   float32
	tuning  game.Tuning
}

func (l layout) col(x float32) int { return l.centerX + int(x*colsPerUnit) }

func (l layout) row(y float32) int { return ballRow + int((l.ballY-y)*rowsPerUnit) }

// walls returns the columns of the lane edges, leaving room for a ring
// centred at either bound.
func (l layout) walls() (int, int) {
	return l.col(l.tuning.XMin - l.tuning.OuterRadius), l.col(l.tuning.XMax + l.tuning.OuterRadius)
}

// ringSolid reports whether col falls on the ring's rim rather than its hole.
func (l layout) ringSolid(ringX float32, col int) bool {
	if col < l.col(ringX-l.tuning.OuterRadius) || col > l.col(ringX+l.tuning.OuterRadius) {
		return false
	}
	return col <= l.col(ringX-l.tuning.InnerRadius) || col >= l.col(ringX+l.tuning.InnerRadius)
}

// recordResult is the storage answer for one finished run.
type recordResult struct {
	run       int
	highScore int
}

type app struct {
	screen  tcell.Screen
	session *game.Session
	tuning  game.Tuning
	hud     *hud
	store   *progress.Store
	profile string

	pending  game.Input
	best     int
	newBest  bool
	runID    int // bumped whenever a new run starts or the player leaves one
	recorded chan recordResult
	snap     game.Snapshot
}

func main() {
	tuningFile := flag.String("tuning", "", "TOML tuning overrides")
	profileDir := flag.String("profiles", "./profiles", "profile save directory")
	name := flag.String("name", "guest", "profile name")
	seed := flag.Int64("seed", 0, "ring layout seed, 0 for time-based")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "droptui.log", "log file")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	tuning, err := config.LoadTuning(*tuningFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuning: %v\n", err)
		os.Exit(1)
	}
	store, err := progress.NewStore(*profileDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "progress: %v\n", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	sound := audio.NewSoundManager()
	if !*mute {
		if err := sound.Initialize(); err != nil {
			log.Printf("AUDIO: disabled: %v", err)
		}
		defer sound.Cleanup()
	}

	h := &hud{}
	session, err := game.NewSession(tuning, game.MultiSink{sound, h}, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	profile := ws.SanitizeProfile(*name)
	a := &app{
		screen:   screen,
		session:  session,
		tuning:   tuning,
		hud:      h,
		store:    store,
		profile:  profile,
		best:     store.HighScore(profile),
		recorded: make(chan recordResult, 1),
	}
	log.Printf("droptui started: profile=%s seed=%d", profile, *seed)
	a.run()
}

func (a *app) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / game.TickRate)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
		case res := <-a.recorded:
			a.applyRecord(res)
		case <-ticker.C:
			a.step()
			a.draw()
		}
	}
}

// handleEvent returns false when the player asked to exit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.pending.Drag -= dragStep
		case tcell.KeyRight:
			a.pending.Drag += dragStep
		case tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	var err error
	switch r {
	case 'h':
		a.pending.Drag -= dragStep
	case 'l':
		a.pending.Drag += dragStep
	case ' ':
		switch a.session.Phase() {
		case game.PhaseMenu:
			err = a.lifecycle(a.session.Play)
		case game.PhaseGameOver:
			err = a.lifecycle(a.session.Restart)
		}
	case 'p':
		switch a.session.Phase() {
		case game.PhasePlaying:
			err = a.session.Pause()
		case game.PhasePaused:
			err = a.session.Resume()
		}
	case 'r':
		if a.session.Phase() == game.PhasePaused {
			err = a.lifecycle(a.session.Restart)
		}
	case 'q':
		if a.session.Phase() == game.PhaseMenu {
			return false
		}
		err = a.lifecycle(a.session.Quit)
	}
	if err != nil {
		log.Printf("INPUT: %v", err)
	}
	return true
}

// lifecycle runs a transition that leaves the current run. A save result for
// the old run that lands afterwards only updates the best score.
func (a *app) lifecycle(op func() error) error {
	if err := op(); err != nil {
		return err
	}
	a.runID++
	a.newBest = false
	return nil
}

func (a *app) applyRecord(res recordResult) {
	if res.run != a.runID {
		a.best = max(a.best, res.highScore)
		return
	}
	a.newBest = res.highScore > a.best
	a.best = max(a.best, res.highScore)
}

func (a *app) step() {
	in := a.pending
	a.pending = game.Input{}

	before := a.session.Phase()
	a.session.Update(game.DT, in)
	a.hud.tick()

	if before != game.PhaseGameOver && a.session.Phase() == game.PhaseGameOver {
		if sum, ok := a.session.Summary(); ok {
			go a.record(a.runID, sum)
		}
	}
}

func (a *app) record(run int, sum game.RunSummary) {
	hs, err := a.store.RecordRun(a.profile, sum)
	if err != nil {
		log.Printf("PROGRESS: record %s: %v", a.profile, err)
	}
	a.recorded <- recordResult{run: run, highScore: hs}
}

func (a *app) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	a.session.Snapshot(&a.snap)
	snap := &a.snap

	biome := game.BiomeFor(snap.Biome)
	frame := tcell.StyleDefault.Foreground(tcell.NewHexColor(int32(biome.AmbientColor)))

	lay := layout{centerX: w / 2, ballY: snap.Ball.Pos.Y, tuning: a.tuning}
	leftWall, rightWall := lay.walls()
	for row := 1; row < h; row++ {
		putStr(s, leftWall, row, "|", frame)
		putStr(s, rightWall, row, "|", frame)
	}

	for _, r := range snap.Rings {
		row := lay.row(r.Y)
		if row < 1 || row >= h {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorOrange)
		switch {
		case r.Perfect:
			style = style.Foreground(tcell.ColorAqua)
		case r.Passed:
			style = style.Foreground(tcell.ColorGreen)
		}
		for col := lay.col(r.X - a.tuning.OuterRadius); col <= lay.col(r.X+a.tuning.OuterRadius); col++ {
			if lay.ringSolid(r.X, col) {
				s.SetContent(col, row, '=', nil, style)
			}
		}
	}

	for _, b := range snap.Bonuses {
		row := lay.row(b.Y)
		if row < 1 || row >= h {
			continue
		}
		glyph, color := '*', tcell.ColorGold
		switch b.Kind {
		case game.BonusShield:
			glyph, color = 'S', tcell.ColorLightSkyBlue
		case game.BonusSlowMo:
			glyph, color = 'T', tcell.ColorViolet
		}
		s.SetContent(lay.col(b.X), row, glyph, nil, tcell.StyleDefault.Foreground(color))
	}

	ballStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	if snap.Shields > 0 {
		ballStyle = ballStyle.Foreground(tcell.ColorLightSkyBlue)
	}
	s.SetContent(lay.col(snap.Ball.Pos.X), ballRow, 'O', nil, ballStyle)

	status := fmt.Sprintf(" %s  score %d  gems %d  combo %d  shields %d  spacing %.1f  best %d",
		biome.Name, snap.Run.Score, snap.Run.Gems, snap.Run.Combo, snap.Shields, snap.Spacing, a.best)
	if snap.SlowMo > 0 {
		status += fmt.Sprintf("  slow %.1fs", snap.SlowMo)
	}
	putStr(s, 0, 0, status, tcell.StyleDefault.Reverse(true))

	a.drawOverlay(w, h)
	s.Show()
}

func (a *app) drawOverlay(w, h int) {
	mid := h / 2
	bold := tcell.StyleDefault.Bold(true)
	switch a.snap.Phase {
	case game.PhaseMenu:
		putCentered(a.screen, w, mid-1, "ENDLESS DROP", bold)
		putCentered(a.screen, w, mid+1, "space: play   arrows/h/l: steer   p: pause   q: quit", tcell.StyleDefault)
	case game.PhasePaused:
		putCentered(a.screen, w, mid, "PAUSED  (p: resume  r: restart  q: menu)", bold)
	case game.PhaseGameOver:
		sum, _ := a.session.Summary()
		putCentered(a.screen, w, mid-2, "GAME OVER", bold.Foreground(tcell.ColorRed))
		putCentered(a.screen, w, mid, fmt.Sprintf("score %d  gems %d  max combo %d  rings %d",
			sum.Score, sum.Gems, sum.MaxCombo, sum.RingsPassed), tcell.StyleDefault)
		if a.newBest {
			putCentered(a.screen, w, mid+1, "NEW BEST!", bold.Foreground(tcell.ColorGold))
		}
		putCentered(a.screen, w, mid+3, "space: again   q: menu", tcell.StyleDefault)
	}
	if a.hud.bannerLeft > 0 {
		putCentered(a.screen, w, mid-4, a.hud.banner, bold.Foreground(a.hud.color))
	}
}

func putStr(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func putCentered(s tcell.Screen, w, y int, text string, style tcell.Style) {
	putStr(s, (w-len(text))/2, y, text, style)
}
