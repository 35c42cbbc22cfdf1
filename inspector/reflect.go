// Package inspector turns tagged structs into rows for the UI inspector
// panels.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

// Field represents a struct field with rendering hints.
type Field struct {
	Name    string
	Label   string
	Value   any
	Widget  Widget
	Options map[string]string
}

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// ParseTag splits an inspect tag into its widget and key:value options.
// Unknown widget names fall back to WidgetAuto.
//
//	`inspect:"bar,max:100"`
//	`inspect:"label,fmt:%.1f,label:Last Change"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	name, rest, _ := strings.Cut(tag, ",")
	widget := widgetNames[strings.TrimSpace(name)]

	for rest != "" {
		var part string
		part, rest, _ = strings.Cut(rest, ",")
		if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields lists the exported fields of a struct (or pointer to one)
// in declaration order, dropping those tagged skip.
func ExtractFields(v any) []Field {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	t := rv.Type()
	var fields []Field
	for i := range t.NumField() {
		sf, fv := t.Field(i), rv.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		switch {
		case widget == WidgetSkip:
			continue
		case widget == WidgetAuto && fv.Kind() == reflect.Bool:
			widget = WidgetBool
		case widget == WidgetAuto:
			widget = WidgetLabel
		}

		f := Field{Name: sf.Name, Label: options["label"], Value: fv.Interface(), Widget: widget, Options: options}
		if f.Label == "" {
			f.Label = Humanize(sf.Name)
		}
		fields = append(fields, f)
	}
	return fields
}

// Humanize splits a Go identifier into words: "LearningRate" becomes
// "Learning Rate".
func Humanize(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Text formats the field value using its fmt option.
func (f Field) Text() string {
	if fmtStr, ok := f.Options["fmt"]; ok {
		return fmt.Sprintf(fmtStr, f.Value)
	}
	switch v := f.Value.(type) {
	case float32:
		return fmt.Sprintf("%.2f", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Max returns the max option as a float, defaulting to 1.0.
func (f Field) Max() float64 {
	if m, err := strconv.ParseFloat(f.Options["max"], 64); err == nil && m > 0 {
		return m
	}
	return 1
}

// Ratio returns the numeric value divided by Max, or false when the value
// is not numeric.
func (f Field) Ratio() (float64, bool) {
	rv := reflect.ValueOf(f.Value)
	switch {
	case rv.CanFloat():
		return rv.Float() / f.Max(), true
	case rv.CanInt():
		return float64(rv.Int()) / f.Max(), true
	case rv.CanUint():
		return float64(rv.Uint()) / f.Max(), true
	}
	return 0, false
}
