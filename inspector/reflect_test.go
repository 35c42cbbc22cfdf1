package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID           string  `inspect:"skip"`
	Efficiency   float64 `inspect:"bar,max:100,fmt:%.1f%%"`
	LearningRate float64 `inspect:"label,fmt:%.3f"`
	Age          int     `inspect:"label,fmt:%d cycles,label:Lifetime"`
	Crashed      bool
	Status       string
	hidden       int
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:200", WidgetBar, map[string]string{"max": "200"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"unknown", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		widget, options := ParseTag(tt.tag)
		assert.Equal(t, tt.widget, widget, tt.tag)
		assert.Equal(t, tt.options, options, tt.tag)
	}
}

func TestExtractFields(t *testing.T) {
	s := sample{ID: "sub-1", Efficiency: 72.5, LearningRate: 0.125, Age: 4, Status: "Learning", hidden: 1}

	fields := ExtractFields(&s)
	require.Len(t, fields, 5)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Efficiency", "LearningRate", "Age", "Crashed", "Status"}, names)

	eff := fields[0]
	assert.Equal(t, WidgetBar, eff.Widget)
	assert.Equal(t, "72.5%", eff.Text())
	ratio, ok := eff.Ratio()
	require.True(t, ok)
	assert.InDelta(t, 0.725, ratio, 1e-9)

	assert.Equal(t, "Learning Rate", fields[1].Label)
	assert.Equal(t, "0.125", fields[1].Text())

	assert.Equal(t, "Lifetime", fields[2].Label)
	assert.Equal(t, "4 cycles", fields[2].Text())

	assert.Equal(t, WidgetBool, fields[3].Widget)
	assert.Equal(t, "no", fields[3].Text())

	_, ok = fields[4].Ratio()
	assert.False(t, ok)
	assert.Equal(t, "Learning", fields[4].Text())
}

func TestExtractFieldsNonStruct(t *testing.T) {
	assert.Nil(t, ExtractFields(42))
	assert.Nil(t, ExtractFields(nil))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Learning Rate", Humanize("LearningRate"))
	assert.Equal(t, "ID", Humanize("ID"))
	assert.Equal(t, "Age", Humanize("Age"))
}

func TestFieldRatioIntegers(t *testing.T) {
	r, ok := Field{Value: uint8(50), Options: map[string]string{"max": "200"}}.Ratio()
	require.True(t, ok)
	assert.InDelta(t, 0.25, r, 1e-9)

	r, ok = Field{Value: 3}.Ratio()
	require.True(t, ok)
	assert.InDelta(t, 3, r, 1e-9)
}
