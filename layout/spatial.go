package layout

// Neighbor holds a nearby footprint with precomputed spatial data.
type Neighbor struct {
	Index  int     // index into the slice the grid was built from
	DX, DY float64 // delta from query origin
	DistSq float64
}

type gridEntry struct {
	index int
	x, y  float64
}

// SpatialGrid buckets footprints into square cells for radius queries.
// Positions outside the canvas are bucketed into the nearest edge cell.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridEntry
}

// NewSpatialGrid creates a spatial grid covering the given canvas size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 100
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an indexed position to the grid.
func (g *SpatialGrid) Insert(index int, x, y float64) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{index: index, x: x, y: y})
}

// QueryRadiusInto appends every entry within radius of (x, y) to dst, skipping exclude.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude int) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(x, y)

	minCol, maxCol := clampInt(centerCol-cellRadius, 0, g.cols-1), clampInt(centerCol+cellRadius, 0, g.cols-1)
	minRow, maxRow := clampInt(centerRow-cellRadius, 0, g.rows-1), clampInt(centerRow+cellRadius, 0, g.rows-1)

	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if e.index == exclude {
					continue
				}
				dx, dy := e.x-x, e.y-y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Index: e.index, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cell returns the clamped column and row for a position.
func (g *SpatialGrid) cell(x, y float64) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)
	if x < 0 {
		col = -1
	}
	if y < 0 {
		row = -1
	}
	return clampInt(col, 0, g.cols-1), clampInt(row, 0, g.rows-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
