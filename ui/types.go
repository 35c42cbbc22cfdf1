// Package ui draws the simulation with raylib and turns mouse and keyboard
// input into simulation operations. Panels are described by metadata from
// the components package so new fields only need a descriptor.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/components"
)

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Primary        rl.Color
	Algorithm      rl.Color
	Checkpoint     rl.Color
	Crashed        rl.Color
	Selected       rl.Color
	ConnectSource  rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Color{R: 15, G: 18, B: 24, A: 255},
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Primary:        rl.Color{R: 255, G: 120, B: 60, A: 255},
		Algorithm:      rl.Color{R: 80, G: 150, B: 240, A: 255},
		Checkpoint:     rl.Color{R: 90, G: 200, B: 130, A: 255},
		Crashed:        rl.Color{R: 120, G: 120, B: 120, A: 255},
		Selected:       rl.White,
		ConnectSource:  rl.Gold,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     110,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// EdgeColor returns the stroke colour of an edge type.
func EdgeColor(t components.EdgeType) rl.Color {
	switch t {
	case components.EdgeLearning:
		return rl.Color{R: 120, G: 160, B: 255, A: 180}
	case components.EdgeKnowledge:
		return rl.Color{R: 110, G: 220, B: 150, A: 180}
	default:
		return rl.Color{R: 200, G: 200, B: 120, A: 180}
	}
}

// Button is a clickable control in a panel.
type Button struct {
	Label   string
	Action  Action
	Enabled bool
}

// Action is a user command produced by a panel or key binding.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionPause
	ActionReset
	ActionAddAlgorithm
	ActionAddCheckpoint
	ActionToggleConnect
	ActionTrainAll
	ActionTrain
	ActionSelfImprove
	ActionCreateChild
	ActionFindConnections
	ActionBoostKnowledge
	ActionDelete
)
