package rules

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/agievo/components"
)

// FindNewConnections scans unconnected nodes within the connection radius,
// nearest first, and links to each with a probability that favours
// checkpoints and smarter algorithms and fades with distance. Stops after one
// or two successes. Checkpoints are linked as the source so the algorithm can
// later train from them.
func FindNewConnections(env *Env, id string) ([]components.Edge, error) {
	a, err := env.algorithm(id)
	if err != nil {
		return nil, err
	}
	if !a.Capabilities.Has(components.CapConnect) {
		env.Log.Warnf("%s doesn't have connection capability", id)
		return nil, fmt.Errorf("%s: %w", id, ErrMissingCapability)
	}

	r := env.Cfg.Rules
	if !a.HasHeadroom() {
		env.Log.Warnf("%s has insufficient resources to find connections", id)
		return nil, fmt.Errorf("%s: %w", id, ErrInsufficientResources)
	}
	a.Spend(r.ConnectCost)
	intelligence := a.Intelligence

	ids, circles := Footprints(env.Graph)
	self := -1
	for i, other := range ids {
		if other == id {
			self = i
			break
		}
	}

	type candidate struct {
		index int
		dist  float64
	}
	var candidates []candidate
	for _, n := range env.Layout.Within(circles[self].X, circles[self].Y, r.ConnectRadius, circles, self) {
		d := math.Sqrt(n.DistSq)
		if d >= r.ConnectRadius || env.Graph.Connected(id, ids[n.Index]) {
			continue
		}
		candidates = append(candidates, candidate{index: n.Index, dist: d})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].index < candidates[j].index
	})

	limit := 1 + int(math.Floor(env.Rand.Float64()*2))
	var made []components.Edge
	for _, c := range candidates {
		other := ids[c.index]

		var p float64
		source, target := id, other
		if ckpt := env.Graph.Checkpoint(other); ckpt != nil {
			p = r.ConnectCheckpointChance
			source, target = other, id
		} else if peer := env.Graph.Algorithm(other); peer != nil && peer.Intelligence > intelligence {
			p = r.ConnectSmarterChance
		} else {
			p = r.ConnectOtherChance
		}
		p *= 1 - c.dist/r.ConnectRadius

		if !env.chance(p) {
			continue
		}
		edge, err := Connect(env, source, target)
		if err != nil {
			continue
		}
		made = append(made, edge)
		if len(made) >= limit {
			break
		}
	}

	if len(made) > 0 {
		env.Log.Infof("%s found %d new connection(s)", id, len(made))
	} else {
		env.Log.Infof("%s searched but found no new connections", id)
	}
	return made, nil
}
