package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/agievo/components"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a ratio bar in [0, 1] with the given caption after it.
// Fill colour moves from high to low as the ratio grows when inverted,
// which suits usage-style values.
func (r *Renderer) DrawBar(x, y int32, label, caption string, ratio float32, inverted bool, width int32) int32 {
	ratio = clamp01(ratio)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 70

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	level := ratio
	if inverted {
		level = 1 - ratio
	}
	barColor := r.Theme.BarFillHigh
	if level < 0.3 {
		barColor = r.Theme.BarFillLow
	} else if level < 0.6 {
		barColor = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, barColor)

	rl.DrawText(caption, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// FieldValue is the rendered value of one descriptor.
type FieldValue struct {
	Text  string
	Ratio float32 // bar fill, used when the descriptor is a bar
	Zero  bool
}

// DrawField renders one descriptor row. Zero values are skipped unless the
// descriptor asks for them.
func (r *Renderer) DrawField(x, y int32, fd components.FieldDescriptor, v FieldValue, width int32) int32 {
	if v.Zero && !fd.ShowWhenZero {
		return y
	}
	if fd.IsBar {
		return r.DrawBar(x, y, fd.Label, v.Text, v.Ratio, fd.ID == "resources", width)
	}
	return r.DrawLabelValue(x, y, fd.Label, v.Text)
}

// DrawButton draws a clickable button and reports whether it was pressed.
// Disabled buttons are drawn dimmed and never report a press.
func (r *Renderer) DrawButton(bounds rl.Rectangle, b Button) bool {
	if !b.Enabled {
		rl.DrawRectangleRec(bounds, r.Theme.BarBg)
		rl.DrawRectangleLinesEx(bounds, 1, r.Theme.PanelBorder)
		tw := rl.MeasureText(b.Label, r.Theme.FontSize)
		rl.DrawText(b.Label, int32(bounds.X)+(int32(bounds.Width)-tw)/2,
			int32(bounds.Y)+(int32(bounds.Height)-r.Theme.FontSize)/2, r.Theme.FontSize, rl.Gray)
		return false
	}
	return gui.Button(bounds, b.Label)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatCount(have, max int) string {
	return fmt.Sprintf("%d/%d", have, max)
}
