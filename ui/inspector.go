package ui

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/components"
	"github.com/pthm-cable/agievo/sim"
)

// Inspector renders the selected entity's details.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// AlgorithmValue renders one algorithm descriptor for e.
func AlgorithmValue(fd components.FieldDescriptor, e *sim.EntityView) FieldValue {
	switch fd.ID {
	case "intelligence":
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.Intelligence), Zero: e.Intelligence == 0}
	case "learning_rate":
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.LearningRate), Zero: e.LearningRate == 0}
	case "generation":
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.Generation), Zero: e.Generation == 0}
	case "specialization":
		return FieldValue{Text: e.Specialization.String()}
	case "resources":
		if e.Primary || math.IsInf(e.ResourceLimit, 1) {
			return FieldValue{Text: "unlimited"}
		}
		var ratio float32
		if e.ResourceLimit > 0 {
			ratio = float32(e.ResourceUsage / e.ResourceLimit)
		}
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.ResourceUsage, e.ResourceLimit), Ratio: ratio}
	case "failed_attempts":
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.FailedAttempts), Zero: e.FailedAttempts == 0}
	case "capabilities":
		return FieldValue{Text: formatCount(len(e.Capabilities), e.MaxCapabilities)}
	}
	return FieldValue{Zero: true}
}

// CheckpointValue renders one checkpoint descriptor for e.
func CheckpointValue(fd components.FieldDescriptor, e *sim.EntityView) FieldValue {
	switch fd.ID {
	case "knowledge":
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.Knowledge), Zero: e.Knowledge == 0}
	case "accuracy":
		return FieldValue{Text: fmt.Sprintf(fd.Format, e.Accuracy), Ratio: float32(e.Accuracy / fd.Max)}
	case "teaching":
		return FieldValue{Text: capabilityNames(e.Capabilities), Zero: len(e.Capabilities) == 0}
	}
	return FieldValue{Zero: true}
}

func capabilityNames(caps []components.Capability) string {
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.Info().Name
	}
	return strings.Join(names, ", ")
}

// Draw renders the inspector panel for the given entity.
func (ins *Inspector) Draw(e *sim.EntityView) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, 300)
	y := ins.y + padding

	title := e.ID
	switch {
	case e.Primary:
		title += " (primary)"
	case e.Crashed:
		title += " (crashed)"
	}
	rl.DrawText(title, ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	if e.Kind == components.KindCheckpoint {
		for _, fd := range components.CheckpointFieldDescriptors() {
			y = r.DrawField(ins.x+padding, y, fd, CheckpointValue(fd, e), contentWidth)
		}
		return y
	}

	group := ""
	for _, fd := range components.AlgorithmFieldDescriptors() {
		if fd.Group != group {
			group = fd.Group
			y += 4
		}
		y = r.DrawField(ins.x+padding, y, fd, AlgorithmValue(fd, e), contentWidth)
	}

	// Capability list under the count.
	for _, c := range e.Capabilities {
		rl.DrawText("- "+c.Info().Name, ins.x+padding+8, y, r.Theme.FontSize, r.Theme.ValueColor)
		y += r.Theme.LineHeight - 2
	}

	if e.Parent != "" {
		y = r.DrawLabelValue(ins.x+padding, y+4, "Parent", e.Parent)
	}
	if len(e.Children) > 0 {
		y = r.DrawLabelValue(ins.x+padding, y, "Children", fmt.Sprintf("%d", len(e.Children)))
	}
	return y
}
