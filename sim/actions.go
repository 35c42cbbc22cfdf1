package sim

import (
	"fmt"

	"github.com/pthm-cable/agievo/graph"
	"github.com/pthm-cable/agievo/rng"
	"github.com/pthm-cable/agievo/rules"
)

// AddAlgorithm places a fresh algorithm at a random free spot and feeds it
// from a random checkpoint.
func (s *Simulation) AddAlgorithm() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit := s.cfg.Simulation.MaxAlgorithms; limit > 0 && s.graph.AlgorithmCount() >= limit {
		s.log.Warnf("Algorithm limit of %d reached", limit)
		return "", fmt.Errorf("add algorithm: %w", rules.ErrPopulationFull)
	}

	id, err := rules.NewAlgorithm(s.env, rules.AlgorithmParams{
		Intelligence: 1,
		Generation:   s.generation,
	})
	if err != nil {
		return "", err
	}
	if ckpts := s.graph.CheckpointIDs(); len(ckpts) > 0 {
		rules.Connect(s.env, ckpts[s.rand.Intn(len(ckpts))], id)
	}
	return id, nil
}

// AddCheckpoint places a checkpoint with default knowledge and random
// teaching abilities.
func (s *Simulation) AddCheckpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.NewCheckpoint(s.env, nil, s.cfg.Checkpoint.Knowledge, nil)
}

// Delete removes a node and its edges. A pending connect source that is
// deleted puts connect mode back to waiting for a source.
func (s *Simulation) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rules.Remove(s.env, id); err != nil {
		return err
	}
	if s.connectSource == id {
		s.connectSource = ""
		s.connect = ConnectAwaitingSource
	}
	return nil
}

// Train runs the training rule for one algorithm.
func (s *Simulation) Train(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := rules.Train(s.env, id)
	s.warnLookup("train", err)
	return n, err
}

// SelfImprove runs the self-improvement rule for one algorithm.
func (s *Simulation) SelfImprove(id string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gain, err := rules.SelfImprove(s.env, id)
	s.warnLookup("self-improve", err)
	return gain, err
}

// CreateChild spawns a child of the given algorithm.
func (s *Simulation) CreateChild(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	child, err := rules.CreateChild(s.env, id)
	s.warnLookup("create child", err)
	return child, err
}

// FindConnections runs connection discovery for one algorithm.
func (s *Simulation) FindConnections(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edges, err := rules.FindNewConnections(s.env, id)
	s.warnLookup("find connections", err)
	return len(edges), err
}

// BoostKnowledge adds a random amount of knowledge to a checkpoint.
func (s *Simulation) BoostKnowledge(id string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph.Checkpoint(id) == nil {
		_, err := s.graph.BoostKnowledge(id, 0)
		s.log.Warnf("Cannot boost knowledge: %v", err)
		return 0, err
	}
	cfg := s.cfg.Checkpoint
	amount := rng.Between(s.rand, cfg.BoostMin, cfg.BoostRange)
	if _, err := s.graph.BoostKnowledge(id, amount); err != nil {
		return 0, err
	}
	s.log.Infof("Boosted checkpoint knowledge by %.1f points", amount)
	return amount, nil
}

// TrainAll runs the training rule for every algorithm in set order.
func (s *Simulation) TrainAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.graph.AlgorithmIDs()
	if len(ids) == 0 {
		s.log.Warnf("No algorithms to train")
		return 0
	}
	for _, id := range ids {
		rules.Train(s.env, id)
	}
	s.log.Infof("Trained all %d algorithms", len(ids))
	return len(ids)
}

// ToggleConnectMode enters connect mode, or cancels it and any pending source.
func (s *Simulation) ToggleConnectMode() ConnectState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connect == ConnectIdle {
		s.connect = ConnectAwaitingSource
		s.log.Infof("Select source node to create connection")
	} else {
		s.connect = ConnectIdle
		s.connectSource = ""
	}
	return s.connect
}

// Click handles a node click: selection when idle, otherwise the next
// connect-mode transition. Clicking the pending source again does nothing.
// A pending source that has since been removed, for example by a crash, is
// dropped and the click selects a new source instead.
func (s *Simulation) Click(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropStaleConnectSource()
	switch s.connect {
	case ConnectAwaitingSource:
		if !s.graph.Has(id) {
			err := fmt.Errorf("connect source %s: %w", id, graph.ErrNotFound)
			s.log.Warnf("Cannot connect: %v", err)
			return err
		}
		s.connectSource = id
		s.connect = ConnectAwaitingTarget
		s.log.Infof("Selected %s as source. Now click on a target node.", id)
		return nil

	case ConnectAwaitingTarget:
		if id == s.connectSource {
			return nil
		}
		source := s.connectSource
		s.connect = ConnectIdle
		s.connectSource = ""
		_, err := rules.Connect(s.env, source, id)
		return err

	default:
		if err := s.graph.Select(id); err != nil {
			s.log.Warnf("Cannot select: %v", err)
			return err
		}
		return nil
	}
}

// dropStaleConnectSource returns connect mode to waiting for a source when
// the pending source no longer exists.
func (s *Simulation) dropStaleConnectSource() {
	if s.connect != ConnectAwaitingTarget || s.graph.Has(s.connectSource) {
		return
	}
	s.log.Warnf("Connection source %s no longer exists, select a new source", s.connectSource)
	s.connectSource = ""
	s.connect = ConnectAwaitingSource
}

// ClearSelection drops the current selection.
func (s *Simulation) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.ClearSelection()
}

// ClickEdge fires a purely visual signal along an edge.
func (s *Simulation) ClickEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph.Edge(id) == nil {
		err := fmt.Errorf("connection %s: %w", id, graph.ErrNotFound)
		s.log.Warnf("Cannot send signal: %v", err)
		return err
	}
	s.timeline.Signal(id, s.cfg.Derived.ManualSig, nil)
	return nil
}

// Move drags a node, keeping it inside the canvas.
func (s *Simulation) Move(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := s.graph.Body(id)
	if body == nil {
		return s.graph.SetPosition(id, x, y)
	}
	x, y = s.env.Layout.Bounds().Clamp(x, y, body.Size)
	return s.graph.SetPosition(id, x, y)
}

// EndDrag runs a relaxation pass once a dragged node is dropped.
func (s *Simulation) EndDrag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph.Has(id) {
		rules.Relax(s.env)
	}
}
