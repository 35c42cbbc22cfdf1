package sim

import (
	"log/slog"
	"math"
	"time"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/rules"
	"github.com/pthm-cable/agievo/telemetry"
)

// step runs one tick. A panic inside a rule ends the tick with an error
// entry and leaves the next tick free to run.
func (s *Simulation) step() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Evolution step %d failed: %v", s.tick, r)
			slog.Error("recovered panic", "tick", s.tick, "panic", r)
		}
	}()

	s.tick++
	s.perf.StartTick()
	defer s.perf.EndTick()

	s.perf.StartPhase(telemetry.PhaseRelax)
	rules.Relax(s.env)

	algorithms := s.graph.AlgorithmIDs()
	switch primary := s.graph.Primary(); {
	case len(algorithms) == 0:
		s.log.Errorf("No algorithms found to evolve")
	case primary == "":
		s.log.Errorf("No primary algorithm found, skipping evolution")
	default:
		s.perf.StartPhase(telemetry.PhasePrimary)
		s.evolvePrimary(primary)

		s.perf.StartPhase(telemetry.PhaseAlgorithms)
		for _, id := range algorithms {
			if id != primary {
				s.evolveAlgorithm(id)
			}
		}
	}

	s.perf.StartPhase(telemetry.PhaseMetrics)
	s.updateMetrics()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
}

func (s *Simulation) chance(p float64) bool {
	return rng.Chance(s.rand, p)
}

// has re-resolves id, since any rule may have invalidated earlier pointers.
func (s *Simulation) has(id string, c components.Capability) bool {
	a := s.graph.Algorithm(id)
	return a != nil && a.Capabilities.Has(c)
}

// evolvePrimary boosts the primary, may grant it a capability and then runs
// one or two actions drawn from its capabilities.
func (s *Simulation) evolvePrimary(id string) {
	cfg := s.cfg.Primary
	p := s.graph.Algorithm(id)

	if s.chance(cfg.BoostChance) {
		p.Intelligence += rng.Between(s.rand, cfg.BoostMin, cfg.BoostRange)
		if s.chance(primaryAnnounceChance) {
			s.log.Successf("Primary algorithm intelligence increased to %.2f", p.Intelligence)
		}
	}

	if p.CanLearn() && s.chance(cfg.CapabilityChance) {
		if missing := p.Capabilities.Missing(); len(missing) > 0 {
			c := missing[s.rand.Intn(len(missing))]
			p.Learn(c)
			s.log.Successf("Primary algorithm gained %s capability!", c.Info().Name)
		}
	}

	actions := 1 + int(math.Floor(s.rand.Float64()*2))
	for i := 0; i < actions; i++ {
		action := s.rand.Float64()
		switch {
		case action < primaryTrainBelow && s.has(id, components.CapLearn):
			rules.Train(s.env, id)
		case action < primaryConnectBelow && s.has(id, components.CapConnect):
			rules.FindNewConnections(s.env, id)
		case action < primaryImproveBelow && s.has(id, components.CapImprove):
			rules.SelfImprove(s.env, id)
		case action < primaryCreateBelow && s.has(id, components.CapCreate) &&
			s.graph.Algorithm(id).Intelligence > cfg.CreateMinIntelligence:
			rules.CreateChild(s.env, id)
		}
	}
}

// evolveAlgorithm runs one non-primary algorithm's turn.
func (s *Simulation) evolveAlgorithm(id string) {
	a := s.graph.Algorithm(id)
	if a == nil || a.Crashed {
		return
	}
	ac := s.cfg.Algorithm

	if !a.HasHeadroom() {
		if s.chance(ac.FailedAttemptChance) {
			a.FailedAttempts++
			s.log.Warnf("%s reached resource limit (%.0f/%.0f)", id, a.ResourceUsage, a.ResourceLimit)
			if a.FailedAttempts > ac.FailedAttemptLimit && s.chance(ac.CrashChance) {
				rules.Crash(s.env, id)
			}
		}
		return
	}

	now := s.now()
	interval := time.Duration(float64(s.cfg.Derived.EvolveInterval) / (a.EvolutionSpeed * s.speed))
	if now.Sub(a.LastEvolvedAt) < interval {
		return
	}
	a.LastEvolvedAt = now

	sc := s.cfg.Scheduler
	if a.Specialization == components.SpecProcessing {
		if s.has(id, components.CapLearn) && s.chance(sc.TrainChance) {
			if _, err := rules.Train(s.env, id); err == nil {
				s.charge(id, sc.TrainCost)
			}
		}
		if s.has(id, components.CapConnect) && s.chance(sc.ConnectChance) {
			if _, err := rules.FindNewConnections(s.env, id); err == nil {
				s.charge(id, sc.ConnectCost)
			}
		}
	} else {
		if s.has(id, components.CapCreate) && s.graph.Algorithm(id).Intelligence > sc.CreateMinIntelligence &&
			s.chance(sc.CreateChance) {
			if _, err := rules.CreateChild(s.env, id); err == nil {
				s.charge(id, sc.CreateCost)
			}
		}
		if s.has(id, components.CapImprove) && s.chance(sc.ImproveChance) {
			if _, err := rules.SelfImprove(s.env, id); err == nil {
				s.charge(id, sc.ImproveCost)
			}
		}
	}

	if s.chance(ac.RecoveryChance) {
		if a := s.graph.Algorithm(id); a != nil {
			a.Recover(ac.RecoveryBase + a.Intelligence*ac.RecoveryPerIntelligence)
		}
	}
}

// charge applies a tick-level surcharge.
func (s *Simulation) charge(id string, cost float64) {
	if a := s.graph.Algorithm(id); a != nil {
		a.Spend(cost)
	}
}

// updateMetrics recomputes the weighted intelligence level and may advance
// the generation counter.
func (s *Simulation) updateMetrics() {
	cfg := s.cfg.Simulation
	s.intelligenceLevel = s.graph.IntelligenceLevel(primaryWeight)
	if s.intelligenceLevel > float64(s.generation)*cfg.GenerationFactor && s.chance(cfg.GenerationChance) {
		s.generation++
		s.log.Successf("Advanced to generation %d!", s.generation)
	}
}

// flushTelemetry closes the stats window when it is due.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sample())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		s.log.Infof("Milestone: %s", bm.Description)
		if s.logStats {
			bm.LogBookmark()
		}
		if s.output != nil {
			if err := s.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sample measures the end-of-window graph state.
func (s *Simulation) sample() telemetry.Sample {
	out := telemetry.Sample{
		Algorithms:        s.graph.AlgorithmCount(),
		Checkpoints:       s.graph.CheckpointCount(),
		Edges:             len(s.graph.Edges()),
		Generation:        s.generation,
		IntelligenceLevel: s.intelligenceLevel,
		TotalKnowledge:    s.graph.TotalKnowledge(),
	}
	for _, id := range s.graph.AlgorithmIDs() {
		a := s.graph.Algorithm(id)
		out.Intelligence = append(out.Intelligence, a.Intelligence)
		if !a.Primary && a.ResourceLimit > 0 {
			out.ResourceUse = append(out.ResourceUse, a.ResourceUsage/a.ResourceLimit)
		}
	}
	return out
}
