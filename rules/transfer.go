package rules

import (
	"fmt"

	"github.com/pthm-cable/agievo/components"
)

// LearnFromCheckpoint raises an algorithm's intelligence from a checkpoint's
// knowledge and may teach it one of the checkpoint's abilities.
// Returns the intelligence gained.
func LearnFromCheckpoint(env *Env, algoID, ckptID string) (float64, error) {
	a, err := env.algorithm(algoID)
	if err != nil {
		return 0, err
	}
	c, err := env.checkpoint(ckptID)
	if err != nil {
		return 0, err
	}
	if !a.Capabilities.Has(components.CapLearn) {
		return 0, fmt.Errorf("%s cannot learn: %w", algoID, ErrMissingCapability)
	}

	r := env.Cfg.Rules
	quality := c.Knowledge * (c.Accuracy / 100)
	gain := quality * r.LearnRate * a.LearningRate * (1 + a.Intelligence*r.LearnIntelligenceFactor)
	a.Intelligence += gain

	if a.CanLearn() {
		for _, ability := range c.TeachingAbilities {
			if !a.Capabilities.Has(ability) && env.chance(r.LearnCapabilityChance) {
				a.Learn(ability)
				env.Log.Successf("%s learned %s capability from checkpoint!", algoID, ability.Info().Name)
				break
			}
		}
	}
	return gain, nil
}

// Teach moves intelligence from a smarter teacher to a student and may pass
// on one of the teacher's capabilities. Returns the student's gain.
func Teach(env *Env, teacherID, studentID string) (float64, error) {
	t, err := env.algorithm(teacherID)
	if err != nil {
		return 0, err
	}
	s, err := env.algorithm(studentID)
	if err != nil {
		return 0, err
	}
	if !t.Capabilities.Has(components.CapTeach) {
		return 0, fmt.Errorf("%s cannot teach: %w", teacherID, ErrMissingCapability)
	}
	diff := t.Intelligence - s.Intelligence
	if diff <= 0 {
		return 0, fmt.Errorf("%s teaching %s: %w", teacherID, studentID, ErrNotSmarter)
	}

	r := env.Cfg.Rules
	gain := diff * r.TeachRate * s.LearningRate
	s.Intelligence += gain

	if s.CanLearn() {
		for _, ability := range t.Capabilities {
			if !s.Capabilities.Has(ability) && env.chance(r.TeachCapabilityChance) {
				s.Learn(ability)
				env.Log.Successf("%s taught %s capability to %s!", teacherID, ability.Info().Name, studentID)
				break
			}
		}
	}
	return gain, nil
}

// Train fires automatic signals along every incoming checkpoint edge and,
// with the teach capability, along outgoing edges to less intelligent
// algorithms. The transfer happens when each signal arrives. The trainee
// always gains a flat bonus. Returns the number of signals fired.
func Train(env *Env, id string) (int, error) {
	a, err := env.algorithm(id)
	if err != nil {
		return 0, err
	}

	var fire []string
	edges := env.Graph.EdgesOf(id)
	for _, e := range edges {
		if e.Source == id {
			continue
		}
		if kind, _ := env.Graph.Kind(e.Source); kind == components.KindCheckpoint {
			fire = append(fire, e.ID)
		}
	}
	if a.Capabilities.Has(components.CapTeach) {
		for _, e := range edges {
			if e.Source != id {
				continue
			}
			if peer := env.Graph.Algorithm(e.Target); peer != nil && peer.Intelligence < a.Intelligence {
				fire = append(fire, e.ID)
			}
		}
	}

	for _, edgeID := range fire {
		edgeID := edgeID
		env.Timeline.Signal(edgeID, env.Cfg.Derived.AutomaticSig, func() { Transfer(env, edgeID) })
	}

	if len(fire) > 0 {
		env.Log.Infof("%s trained with %d connections", id, len(fire))
	} else {
		env.Log.Infof("%s trained but found no useful connections", id)
	}

	a.Intelligence += env.Cfg.Rules.TrainBonus
	return len(fire), nil
}

// Transfer completes an automatic signal: it counts the transfer and applies
// learning (checkpoint to algorithm) or teaching (algorithm to algorithm).
// Edges removed while the signal was in flight are ignored.
func Transfer(env *Env, edgeID string) {
	edge := env.Graph.Edge(edgeID)
	if edge == nil {
		return
	}
	edge.TransferCount++
	env.record().RecordTransfer()
	source, target := edge.Source, edge.Target

	sk, _ := env.Graph.Kind(source)
	tk, _ := env.Graph.Kind(target)
	switch {
	case sk == components.KindCheckpoint && tk == components.KindAlgorithm:
		LearnFromCheckpoint(env, target, source)
	case sk == components.KindAlgorithm && tk == components.KindAlgorithm:
		Teach(env, source, target)
	}
}
