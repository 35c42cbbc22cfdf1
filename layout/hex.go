package layout

import (
	"math"
	"sort"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/rng"
)

// HexNode is a lineage member as seen by the hexagonal layout.
type HexNode struct {
	ID         string
	Children   []string
	Efficiency float64
}

// HexParams holds hexagonal layout constants.
type HexParams struct {
	Height     float64
	Width      float64
	MaxLevel   int
	RingFactor float64 // orphan ring radius in hex heights
}

// HexParamsFromConfig extracts hex layout constants from the config.
func HexParamsFromConfig(cfg *config.Config) HexParams {
	return HexParams{
		Height:     cfg.Layout.HexHeight,
		Width:      cfg.Derived.HexWidth,
		MaxLevel:   cfg.Layout.HexMaxLevel,
		RingFactor: cfg.Layout.OrphanRingFactor,
	}
}

type hexKey struct{ x, y int64 }

func keyOf(x, y float64) hexKey {
	return hexKey{int64(math.Round(x)), int64(math.Round(y))}
}

// Hex places mainID at the origin and its descendants breadth-first on a
// hexagonal lattice. Each parent's children are visited by descending
// efficiency; a child takes the first free cell scanning the six directions
// from the one after its previous sibling, one level further out per sweep.
// Nodes not reachable from mainID are scattered on a ring around the origin.
func Hex(p HexParams, src rng.Source, mainID string, nodes []HexNode) map[string]components.Position {
	byID := make(map[string]*HexNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}
	if _, ok := byID[mainID]; !ok {
		return nil
	}

	w, h := p.Width, p.Height
	directions := [6]components.Position{
		{X: w * 2, Y: 0},
		{X: w, Y: h * 1.5},
		{X: -w, Y: h * 1.5},
		{X: -w * 2, Y: 0},
		{X: -w, Y: -h * 1.5},
		{X: w, Y: -h * 1.5},
	}

	positions := make(map[string]components.Position, len(nodes))
	positions[mainID] = components.Position{}
	occupied := map[hexKey]bool{{0, 0}: true}

	queue := []string{mainID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]
		parent := positions[parentID]

		children := make([]*HexNode, 0, len(byID[parentID].Children))
		for _, id := range byID[parentID].Children {
			if c, ok := byID[id]; ok {
				children = append(children, c)
			}
		}
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Efficiency > children[j].Efficiency
		})

		dirIdx := 0
		for _, child := range children {
			if _, done := positions[child.ID]; done {
				continue
			}

			var pos components.Position
			found := false
			for level := 1; level <= p.MaxLevel && !found; level++ {
				for i := 0; i < len(directions); i++ {
					dir := (dirIdx + i) % len(directions)
					pos = components.Position{
						X: parent.X + directions[dir].X*float64(level),
						Y: parent.Y + directions[dir].Y*float64(level),
					}
					k := keyOf(pos.X, pos.Y)
					if !occupied[k] {
						occupied[k] = true
						found = true
						dirIdx = (dir + 1) % len(directions)
						break
					}
				}
			}

			if !found {
				pos = components.Position{
					X: parent.X + (src.Float64()-0.5)*w*4,
					Y: parent.Y + (src.Float64()-0.5)*h*4,
				}
			}

			positions[child.ID] = pos
			queue = append(queue, child.ID)
		}
	}

	ring := h * p.RingFactor
	for _, n := range nodes {
		if _, done := positions[n.ID]; done {
			continue
		}
		angle := src.Float64() * 2 * math.Pi
		positions[n.ID] = components.Position{X: math.Cos(angle) * ring, Y: math.Sin(angle) * ring}
	}

	return positions
}

// InHexagon reports whether (px, py) lies inside a pointy hexagon of the
// given size centred at (hx, hy).
func InHexagon(px, py, hx, hy, size float64) bool {
	qx := math.Abs(px - hx)
	qy := math.Abs(py - hy)
	if qx > size*0.866 || qy > size {
		return false
	}
	return size*0.866*2*size-size*0.866*qy-size*qx >= 0
}
