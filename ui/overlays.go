package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayLabels       OverlayID = "labels"
	OverlayEdgeStrength OverlayID = "edge_strength"
	OverlayLineage      OverlayID = "lineage"
	OverlayGrid         OverlayID = "grid"
	OverlayLog          OverlayID = "log"
	OverlayPerf         OverlayID = "perf"
	OverlayEffects      OverlayID = "effects"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID // Unique identifier
	Name     string    // Display name
	Key      int32     // Keyboard key to toggle (0 = no key)
	KeyLabel string    // Key label for display
	Default  bool      // Enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	for _, d := range []OverlayDescriptor{
		{ID: OverlayLabels, Name: "Labels", Key: rl.KeyL, KeyLabel: "L", Default: true},
		{ID: OverlayEdgeStrength, Name: "Edge Strength", Key: rl.KeyE, KeyLabel: "E", Default: true},
		{ID: OverlayLineage, Name: "Lineage", Key: rl.KeyN, KeyLabel: "N"},
		{ID: OverlayGrid, Name: "Grid", Key: rl.KeyG, KeyLabel: "G"},
		{ID: OverlayLog, Name: "Event Log", Key: rl.KeyO, KeyLabel: "O", Default: true},
		{ID: OverlayPerf, Name: "Performance", Key: rl.KeyF3, KeyLabel: "F3"},
		{ID: OverlayEffects, Name: "Effects", Key: rl.KeyP, KeyLabel: "P", Default: true},
	} {
		reg.Register(d)
	}
	return reg
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on or off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.enabled[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// Legend returns the key legend for the enabled-state line.
func (r *OverlayRegistry) Legend() string {
	s := ""
	for i, d := range r.descriptors {
		if i > 0 {
			s += "  "
		}
		mark := "-"
		if r.enabled[d.ID] {
			mark = "+"
		}
		s += "[" + d.KeyLabel + "]" + mark + d.Name
	}
	return s
}
