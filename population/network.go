package population

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/eventlog"
	"github.com/pthm-cable/agievo/layout"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/runner"
	"github.com/pthm-cable/agievo/telemetry"
)

// MainID is the id of the main algorithm.
const MainID = "main"

// Member sizes
const (
	mainSize    = 40
	subSizeBase = 35
	subSizeStep = 3
	subSizeMin  = 15
)

// CycleStats summarises one learning cycle.
type CycleStats struct {
	Total        int
	Cycle        int
	Replacements int
}

// Network is the population engine. It is safe for concurrent use.
type Network struct {
	mu sync.Mutex

	cfg  *config.Config
	rand rng.Source
	log  *eventlog.Log

	world  *ecs.World
	mapper *ecs.Map2[Member, components.Position]
	filter *ecs.Filter1[Member]
	memMap *ecs.Map1[Member]
	posMap *ecs.Map1[components.Position]

	order []string
	byID  map[string]ecs.Entity

	nextSub      int
	cycle        int
	replacements int

	runner   *runner.Runner
	running  bool
	output   *telemetry.OutputManager
	logStats bool
}

// Option configures a Network.
type Option func(*Network)

// WithLog uses an existing event log.
func WithLog(l *eventlog.Log) Option {
	return func(n *Network) { n.log = l }
}

// WithOutput streams periodic statistics to population.csv.
func WithOutput(om *telemetry.OutputManager) Option {
	return func(n *Network) { n.output = om }
}

// WithStatsLogging logs periodic statistics through slog.
func WithStatsLogging(enabled bool) Option {
	return func(n *Network) { n.logStats = enabled }
}

// New creates an empty network. Call Initialize to add the main algorithm.
func New(cfg *config.Config, src rng.Source, opts ...Option) *Network {
	world := ecs.NewWorld()
	n := &Network{
		cfg:    cfg,
		rand:   src,
		world:  world,
		mapper: ecs.NewMap2[Member, components.Position](world),
		filter: ecs.NewFilter1[Member](world),
		memMap: ecs.NewMap1[Member](world),
		posMap: ecs.NewMap1[components.Position](world),
		byID:   make(map[string]ecs.Entity),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = eventlog.New(cfg.Log.Capacity)
	}
	n.runner = runner.New(cfg.Derived.PopulationTick, func() { n.RunCycle() })
	return n
}

// Initialize adds the main algorithm. A second call does nothing.
func (n *Network) Initialize() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.byID[MainID]; ok {
		return
	}
	n.add(Member{
		ID:             MainID,
		Main:           true,
		Efficiency:     n.cfg.Population.MainEfficiency,
		LearningRate:   rng.Between(n.rand, n.cfg.Population.LearningRateMin, n.cfg.Population.LearningRateRange),
		Size:           mainSize,
		Specialization: AdminSpecialization,
	})
	n.log.Successf("Main algorithm initialized")
}

func (n *Network) add(m Member) {
	pos := components.Position{}
	e := n.mapper.NewEntity(&m, &pos)
	n.byID[m.ID] = e
	n.order = append(n.order, m.ID)
}

func (n *Network) member(id string) *Member {
	e, ok := n.byID[id]
	if !ok {
		return nil
	}
	return n.memMap.Get(e)
}

// GenerateSubAlgorithm adds one child of a selected parent and returns its
// id. Reports false when there is no main algorithm.
func (n *Network) GenerateSubAlgorithm() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.generate()
}

func (n *Network) generate() (string, bool) {
	if _, ok := n.byID[MainID]; !ok {
		return "", false
	}
	cfg := n.cfg.Population
	parentID := n.selectParent()
	parent := n.member(parentID)

	n.nextSub++
	gen := parent.Generation + 1
	child := Member{
		ID:             fmt.Sprintf("sub-%d", n.nextSub),
		Parent:         parentID,
		Generation:     gen,
		Efficiency:     rng.Between(n.rand, cfg.EfficiencyMin, cfg.EfficiencyRange),
		LearningRate:   rng.Between(n.rand, cfg.LearningRateMin, cfg.LearningRateRange),
		Intensity:      rng.Between(n.rand, 0.5, 0.4),
		Size:           math.Max(subSizeMin, subSizeBase-float64(gen*subSizeStep)),
		Specialization: Specializations[n.rand.Intn(len(Specializations))],
	}
	n.add(child)

	// Adding an entity may move component storage; re-fetch the parent.
	parent = n.member(parentID)
	parent.Children = append(parent.Children, child.ID)
	return child.ID, true
}

// GenerateBatch adds up to count sub-algorithms and returns how many were added.
func (n *Network) GenerateBatch(count int) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	added := 0
	for i := 0; i < count; i++ {
		if _, ok := n.generate(); !ok {
			break
		}
		added++
	}
	return added
}

// SelectParent picks the parent for the next sub-algorithm.
func (n *Network) SelectParent() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selectParent()
}

// selectParent prefers main while the population is small and with a fixed
// baseline chance after that. Otherwise it picks uniformly among the top
// third (at most five) of members that still have room for children,
// ranked by generation-penalised efficiency.
func (n *Network) selectParent() string {
	cfg := n.cfg.Population
	if len(n.order) < cfg.MainBiasPopulation || rng.Chance(n.rand, cfg.MainBiasChance) {
		return MainID
	}

	var candidates []*Member
	for _, id := range n.order {
		m := n.member(id)
		if len(m.Children) < cfg.MaxChildren && m.Generation < cfg.MaxGeneration {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return MainID
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score(cfg.GenerationPenalty) > candidates[j].Score(cfg.GenerationPenalty)
	})
	top := max(1, min(cfg.TopCandidates, int(math.Ceil(float64(len(candidates))/3))))
	return candidates[n.rand.Intn(top)].ID
}

// RunCycle runs one learning cycle: every member learns, a child is spawned
// on the spawn cadence while under the cap, and at the cap the weakest
// member is replaced on the replace cadence. A panic inside the cycle ends
// it with an error entry and leaves the next cycle free to run.
func (n *Network) RunCycle() (cs CycleStats) {
	n.mu.Lock()
	defer n.mu.Unlock()

	cfg := n.cfg.Population
	n.cycle++
	defer func() {
		if r := recover(); r != nil {
			n.log.Errorf("Learning cycle %d failed: %v", n.cycle, r)
			slog.Error("recovered panic", "cycle", n.cycle, "panic", r)
			cs = CycleStats{Total: len(n.order), Cycle: n.cycle, Replacements: n.replacements}
		}
	}()

	for _, id := range n.order {
		n.member(id).Learn(cfg, n.rand)
	}

	if len(n.order) < cfg.Cap && n.cycle%cfg.SpawnEvery == 0 {
		n.generate()
	}
	if len(n.order) >= cfg.Cap && n.cycle%cfg.ReplaceEvery == 0 {
		n.replaceWeakest()
	}

	if cfg.StatsEvery > 0 && n.cycle%cfg.StatsEvery == 0 {
		n.reportStats()
	}

	return CycleStats{Total: len(n.order), Cycle: n.cycle, Replacements: n.replacements}
}

func (n *Network) reportStats() {
	stats := n.statistics()
	if n.logStats {
		stats.LogStats()
	}
	if n.output != nil {
		if err := n.output.WritePopulation(stats); err != nil {
			slog.Error("failed to write population stats", "error", err)
		}
	}
}

// ReplaceWeakest removes the least efficient sub-algorithm and spawns a
// replacement. Returns the removed and added ids, empty when there is no
// sub-algorithm to replace.
func (n *Network) ReplaceWeakest() (removed, added string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.replaceWeakest()
}

func (n *Network) replaceWeakest() (removed, added string) {
	var weakest *Member
	for _, id := range n.order {
		m := n.member(id)
		if m.Main {
			continue
		}
		if weakest == nil || m.Efficiency < weakest.Efficiency {
			weakest = m
		}
	}
	if weakest == nil {
		return "", ""
	}

	removed = weakest.ID
	if parent := n.member(weakest.Parent); parent != nil {
		parent.removeChild(removed)
	}
	for _, childID := range weakest.Children {
		if child := n.member(childID); child != nil {
			child.Parent = ""
		}
	}
	n.remove(removed)

	added, _ = n.generate()
	n.replacements++
	n.log.Warnf("Replaced weakest algorithm %s with %s", removed, added)
	return removed, added
}

func (n *Network) remove(id string) {
	e := n.byID[id]
	for i, o := range n.order {
		if o == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	delete(n.byID, id)
	n.world.RemoveEntity(e)
}

// Layout positions every member on the hexagonal lattice and returns the
// positions by id.
func (n *Network) Layout() map[string]components.Position {
	n.mu.Lock()
	defer n.mu.Unlock()

	nodes := make([]layout.HexNode, 0, len(n.order))
	for _, id := range n.order {
		m := n.member(id)
		nodes = append(nodes, layout.HexNode{ID: id, Children: m.Children, Efficiency: m.Efficiency})
	}
	positions := layout.Hex(layout.HexParamsFromConfig(n.cfg), n.rand, MainID, nodes)
	for id, p := range positions {
		*n.posMap.Get(n.byID[id]) = p
	}
	return positions
}

// At returns the member whose hexagon contains the canvas point.
func (n *Network) At(x, y float64) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(n.order) - 1; i >= 0; i-- {
		e := n.byID[n.order[i]]
		m, p := n.memMap.Get(e), n.posMap.Get(e)
		if layout.InHexagon(x, y, p.X, p.Y, m.Size) {
			return m.ID, true
		}
	}
	return "", false
}

// Info returns the inspector record for id.
func (n *Network) Info(id string) (Info, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	m := n.member(id)
	if m == nil {
		return Info{}, false
	}
	return m.Info(), true
}

// View is a member with its last laid-out position.
type View struct {
	Member
	X, Y float64
}

// Members returns copies of every member in insertion order.
func (n *Network) Members() []View {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]View, 0, len(n.order))
	for _, id := range n.order {
		e := n.byID[id]
		m := *n.memMap.Get(e)
		m.Children = append([]string(nil), m.Children...)
		p := n.posMap.Get(e)
		out = append(out, View{Member: m, X: p.X, Y: p.Y})
	}
	return out
}

// Len returns the population size including main.
func (n *Network) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.order)
}

// Cycle returns the number of completed cycles.
func (n *Network) Cycle() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cycle
}

// Replacements returns the turnover count.
func (n *Network) Replacements() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.replacements
}

// Start runs cycles on the population tick. Returns false if already running.
func (n *Network) Start() bool {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return false
	}
	n.running = true
	n.mu.Unlock()

	n.runner.Start()
	n.log.Successf("Population simulation started")
	return true
}

// Pause stops cycling. No cycle runs after Pause returns.
func (n *Network) Pause() bool {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return false
	}
	n.running = false
	n.mu.Unlock()

	n.runner.Stop()
	n.log.Infof("Population simulation paused")
	return true
}

// MainStatus is the label shown for the main algorithm's run state.
func (n *Network) MainStatus() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch {
	case n.running:
		return "Active"
	case n.cycle > 0:
		return "Paused"
	default:
		return "Inactive"
	}
}

// Log returns the event log.
func (n *Network) Log() *eventlog.Log { return n.log }
