package components

// Body holds the layout footprint of an entity.
type Body struct {
	Size float64 // diameter in canvas pixels
}

// Radius returns half the footprint.
func (b Body) Radius() float64 {
	return b.Size / 2
}
