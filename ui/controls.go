package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/sim"
)

// Speed slider range.
const (
	minSpeed = 0.25
	maxSpeed = 5.0
)

// ControlsState is what the controls panel needs to decide which buttons
// are live.
type ControlsState struct {
	Scheduler sim.State
	Connect   sim.ConnectState
	Selected  *sim.EntityView
	Speed     float64
}

// ControlsPanel renders the left-side control buttons and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// buttons lists the panel's buttons for the current state.
func (c *ControlsPanel) buttons(st ControlsState) (global, entity []Button) {
	running := st.Scheduler == sim.Running
	connectLabel := "Connect Mode"
	if st.Connect != sim.ConnectIdle {
		connectLabel = "Cancel Connect"
	}
	global = []Button{
		{Label: "Start", Action: ActionStart, Enabled: !running},
		{Label: "Pause", Action: ActionPause, Enabled: running},
		{Label: "Reset", Action: ActionReset, Enabled: true},
		{Label: "Add Algorithm", Action: ActionAddAlgorithm, Enabled: true},
		{Label: "Add Checkpoint", Action: ActionAddCheckpoint, Enabled: true},
		{Label: connectLabel, Action: ActionToggleConnect, Enabled: true},
		{Label: "Train All", Action: ActionTrainAll, Enabled: true},
	}

	sel := st.Selected
	if sel == nil {
		return global, nil
	}
	if sel.Kind == components.KindCheckpoint {
		return global, []Button{
			{Label: "Boost Knowledge", Action: ActionBoostKnowledge, Enabled: true},
			{Label: "Delete", Action: ActionDelete, Enabled: true},
		}
	}
	live := !sel.Crashed
	return global, []Button{
		{Label: "Train", Action: ActionTrain, Enabled: live},
		{Label: "Self-Improve", Action: ActionSelfImprove, Enabled: live},
		{Label: "Create Child", Action: ActionCreateChild, Enabled: live},
		{Label: "Find Connections", Action: ActionFindConnections, Enabled: live},
		{Label: "Delete", Action: ActionDelete, Enabled: !sel.Primary},
	}
}

// Draw renders the panel and returns the action pressed this frame together
// with the slider's speed.
func (c *ControlsPanel) Draw(st ControlsState) (Action, float64) {
	r := c.renderer
	padding := r.Theme.Padding
	global, entity := c.buttons(st)

	const buttonH = 24
	rows := len(global) + len(entity)
	panelHeight := int32(rows)*(buttonH+4) + padding*4 + r.Theme.LineHeight*4
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	action := ActionNone
	bw := float32(c.width - padding*2)
	draw := func(buttons []Button) {
		for _, b := range buttons {
			bounds := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: bw, Height: buttonH}
			if r.DrawButton(bounds, b) {
				action = b.Action
			}
			y += buttonH + 4
		}
	}
	draw(global)

	y += 4
	rl.DrawText(fmt.Sprintf("Speed: %.2fx", st.Speed), c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	speed := gui.SliderBar(
		rl.Rectangle{X: float32(c.x + padding + 30), Y: float32(y), Width: bw - 60, Height: 16},
		"0.25", "5",
		float32(st.Speed), minSpeed, maxSpeed,
	)
	y += r.Theme.LineHeight + 8

	if len(entity) > 0 {
		y = r.DrawSectionHeader(c.x+padding, y, st.Selected.ID)
		draw(entity)
	}

	return action, float64(speed)
}
