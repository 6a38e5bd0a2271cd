package gamedata

import (
	"aimtrainer/internal/clock"
	"aimtrainer/internal/events"
	"aimtrainer/internal/rating"
	"aimtrainer/internal/stats"
	"aimtrainer/internal/targets"
	"aimtrainer/internal/utility"
	"math/rand"
	"sync"
	"time"
)

type State string

const (
	StateIdle    = State("idle")
	StateRunning = State("running")
	StatePaused  = State("paused")
)

type Config struct {
	Shape          targets.Shape
	Bounds         targets.Bounds
	SpawnInterval  time.Duration
	RenderInterval time.Duration
	RemoveDelay    time.Duration
	HistorySize    int
}

func DefaultConfig() Config {
	return Config{
		Shape:          targets.ShapeCircle,
		Bounds:         targets.Bounds{Width: 800, Height: 500},
		SpawnInterval:  1000 * time.Millisecond,
		RenderInterval: 16 * time.Millisecond,
		RemoveDelay:    200 * time.Millisecond,
		HistorySize:    stats.DefaultHistorySize,
	}
}

// Deps are the injectable capabilities of a Game. Zero fields fall back to
// the wall clock and a time-seeded random source.
type Deps struct {
	Clock     clock.Clock
	Scheduler clock.Scheduler
	Rand      utility.Rand
}

// GameData is the presentation view of a Game.
type GameData struct {
	State   State             `json:"state"`
	Shape   targets.Shape     `json:"shape"`
	Tier    targets.SizeTier  `json:"tier"`
	Bounds  targets.Bounds    `json:"bounds"`
	Target  *targets.Target   `json:"target,omitempty"`
	Targets []*targets.Target `json:"targets"`
	Stats   stats.Snapshot    `json:"stats"`
	Rating  rating.Rating     `json:"rating"`
	History []stats.Entry     `json:"history"`
}

// ShotResult describes one click as seen by the hit tester.
type ShotResult struct {
	Counted    bool
	Hit        bool
	ReactionMs int64
	Point      targets.Point
	At         time.Time
	Target     *targets.Target
}

// Game is the game loop controller for one player session. Every event
// (command, click, tick, deferred removal) is applied under mu, so the
// session sees one event at a time.
type Game struct {
	mu      sync.Mutex
	state   State
	tier    targets.SizeTier
	bounds  targets.Bounds
	live    *targets.Target
	fading  *targets.Target
	cursor  *targets.Point
	stats   *stats.Session
	history *stats.History
	gen     *targets.Generator
	clock   clock.Clock
	sched   clock.Scheduler
	// epoch invalidates tick callbacks armed before the last transition.
	epoch   uint64
	cancels []clock.Cancel
	Events  *events.Bus
	Config  Config
}

func NewGame(bus *events.Bus, cfg Config, deps Deps) *Game {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Scheduler == nil {
		deps.Scheduler = clock.Real{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Shape == "" {
		cfg.Shape = targets.ShapeCircle
	}
	return &Game{
		state:   StateIdle,
		tier:    targets.TierMedium,
		bounds:  cfg.Bounds,
		stats:   stats.NewSession(),
		history: stats.NewHistory(cfg.HistorySize),
		gen:     targets.NewGenerator(cfg.Shape, deps.Rand),
		clock:   deps.Clock,
		sched:   deps.Scheduler,
		Events:  bus,
		Config:  cfg,
	}
}

func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Start moves Idle to Running. It is a no-op in any other state.
func (g *Game) Start() {
	g.mu.Lock()
	if g.state != StateIdle {
		g.mu.Unlock()
		return
	}
	g.state = StateRunning
	g.armLocked()
	g.mu.Unlock()

	g.Events.PublishState(events.StateChangeEvent{State: string(StateRunning)})
}

// Pause toggles between Running and Paused. It is a no-op while Idle.
func (g *Game) Pause() {
	g.mu.Lock()
	switch g.state {
	case StateRunning:
		g.state = StatePaused
		g.disarmLocked()
	case StatePaused:
		g.state = StateRunning
		g.armLocked()
	default:
		g.mu.Unlock()
		return
	}
	s := g.state
	frame := g.frameLocked()
	g.mu.Unlock()

	g.Events.PublishState(events.StateChangeEvent{State: string(s)})
	g.Events.PublishFrame(frame)
}

// Reset disarms the ticks, clears targets and stats and returns to Idle.
// The size tier survives a reset.
func (g *Game) Reset() {
	g.mu.Lock()
	g.disarmLocked()
	g.state = StateIdle
	g.live = nil
	g.fading = nil
	g.cursor = nil
	g.stats.Reset()
	g.history.Clear()
	g.gen.Reset()
	score := g.scoreLocked(false)
	frame := g.frameLocked()
	g.mu.Unlock()

	g.Events.PublishState(events.StateChangeEvent{State: string(StateIdle)})
	g.Events.PublishScore(score)
	g.Events.PublishFrame(frame)
}

// Click runs the hit tester. Clicks outside Running are ignored; otherwise
// every click counts one shot, and a hit is scored immediately.
func (g *Game) Click(p targets.Point) ShotResult {
	g.mu.Lock()
	if g.state != StateRunning {
		g.mu.Unlock()
		return ShotResult{Point: p}
	}

	now := g.clock.Now()
	res := ShotResult{Counted: true, Point: p, At: now}
	g.stats.RecordShot()

	if t := g.live; t != nil && !t.Hit && t.Contains(p) {
		t.Hit = true
		reaction := now.Sub(t.AppearedAt).Milliseconds()
		if reaction < 0 {
			reaction = 0
		}
		g.stats.RecordHit(reaction)
		g.history.Add(now, reaction)
		g.live = nil
		g.fading = t
		g.sched.After(g.Config.RemoveDelay, func() { g.remove(t) })

		res.Hit = true
		res.ReactionMs = reaction
	}
	if g.live != nil {
		cp := *g.live
		res.Target = &cp
	} else if g.fading != nil && res.Hit {
		cp := *g.fading
		res.Target = &cp
	}
	score := g.scoreLocked(res.Hit)
	g.mu.Unlock()

	g.Events.PublishScore(score)
	return res
}

// Move records the crosshair position. Only rectangular sessions draw one.
func (g *Game) Move(p targets.Point) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen.Shape() != targets.ShapeRect {
		return
	}
	g.cursor = &p
}

// SetSizeTier takes effect on the next spawn.
func (g *Game) SetSizeTier(tier targets.SizeTier) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tier = tier
}

func (g *Game) SizeTier() targets.SizeTier {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tier
}

// Resize changes the placement domain for the next spawn. The live target
// keeps its position.
func (g *Game) Resize(b targets.Bounds) {
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bounds = b
}

func (g *Game) Get() GameData {
	g.mu.Lock()
	defer g.mu.Unlock()
	data := GameData{
		State:   g.state,
		Shape:   g.gen.Shape(),
		Tier:    g.tier,
		Bounds:  g.bounds,
		Targets: make([]*targets.Target, 0, 2),
		Stats:   g.stats.Snapshot(),
		Rating:  g.ratingLocked(),
		History: g.history.List(),
	}
	if g.live != nil {
		cp := *g.live
		data.Target = &cp
		data.Targets = append(data.Targets, &cp)
	}
	if g.fading != nil {
		cp := *g.fading
		data.Targets = append(data.Targets, &cp)
	}
	return data
}

// LiveTargets counts un-hit targets. It is never more than one.
func (g *Game) LiveTargets() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.live != nil && !g.live.Hit {
		return 1
	}
	return 0
}

func (g *Game) Stats() stats.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats.Snapshot()
}

func (g *Game) Rating() rating.Rating {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ratingLocked()
}

func (g *Game) History() []stats.Entry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.List()
}

func (g *Game) armLocked() {
	g.epoch++
	epoch := g.epoch
	g.cancels = append(g.cancels,
		g.sched.Every(g.Config.SpawnInterval, func() { g.spawnTick(epoch) }),
		g.sched.Every(g.Config.RenderInterval, func() { g.renderTick(epoch) }),
	)
}

func (g *Game) disarmLocked() {
	g.epoch++
	for _, cancel := range g.cancels {
		cancel()
	}
	g.cancels = nil
}

func (g *Game) spawnTick(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || g.state != StateRunning {
		return
	}
	// An un-hit target expires silently; it is not a miss.
	g.fading = nil
	g.live = g.gen.Next(g.bounds, g.tier, g.clock.Now())
}

func (g *Game) renderTick(epoch uint64) {
	g.mu.Lock()
	if epoch != g.epoch || g.state != StateRunning {
		g.mu.Unlock()
		return
	}
	frame := g.frameLocked()
	g.mu.Unlock()

	g.Events.PublishFrame(frame)
}

// remove retires a hit target after the cosmetic delay. A reset or a newer
// spawn has already replaced it when the identity check fails.
func (g *Game) remove(t *targets.Target) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fading == t {
		g.fading = nil
	}
}

func (g *Game) ratingLocked() rating.Rating {
	return rating.Classify(g.stats.SampleCount(), g.stats.MeanReaction(), g.stats.AccuracyFraction())
}

func (g *Game) scoreLocked(hit bool) events.ScoreEvent {
	return events.ScoreEvent{
		Hit:     hit,
		Stats:   g.stats.Snapshot(),
		Rating:  g.ratingLocked(),
		History: g.history.List(),
	}
}

func (g *Game) frameLocked() events.FrameEvent {
	frame := events.FrameEvent{
		State:    string(g.state),
		Targets:  make([]*targets.Target, 0, 1),
		Hits:     g.stats.Hits(),
		Accuracy: g.stats.Accuracy(),
	}
	if g.live != nil && !g.live.Hit {
		cp := *g.live
		frame.Targets = append(frame.Targets, &cp)
		frame.VisibleFor = g.clock.Now().Sub(g.live.AppearedAt).Milliseconds()
	}
	if g.cursor != nil {
		c := *g.cursor
		frame.Cursor = &c
	}
	return frame
}
