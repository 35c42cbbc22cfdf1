// Package population implements the hexagonal variant: a main algorithm
// supervising a capped population of sub-algorithms that learn with
// diminishing returns, spawn children from strong parents and are replaced
// when weak.
package population

import (
	"math"

	"github.com/pthm-cable/agievo/config"
	"github.com/pthm-cable/agievo/rng"
)

// Specializations sub-algorithms draw from. The main algorithm is always Admin.
var Specializations = []string{
	"Data Processing", "Pattern Recognition", "Optimization",
	"Decision Making", "Classification", "Prediction",
	"Clustering", "Feature Extraction", "Anomaly Detection",
}

// AdminSpecialization is the main algorithm's specialization.
const AdminSpecialization = "Admin"

// Member is one algorithm of the population.
type Member struct {
	ID              string
	Main            bool
	Parent          string // empty for main and orphans
	Children        []string
	Efficiency      float64
	LearningRate    float64
	Age             int
	Generation      int
	Size            float64
	Specialization  string
	LastImprovement float64
	Intensity       float64 // fill alpha for sub-algorithms
}

// Learn applies one learning step: gain = rate*(1 - e/max) plus noise in
// [-noise, noise), clamped to [0, max]. The main algorithm only ages.
func (m *Member) Learn(cfg config.PopulationConfig, src rng.Source) float64 {
	if !m.Main {
		prev := m.Efficiency
		gain := m.LearningRate * (1 - m.Efficiency/cfg.MaxEfficiency)
		noise := src.Float64()*2*cfg.Noise - cfg.Noise
		m.Efficiency = math.Max(0, math.Min(m.Efficiency+gain+noise, cfg.MaxEfficiency))
		m.LastImprovement = m.Efficiency - prev
	}
	m.Age++
	return m.Efficiency
}

// Score ranks a member as a prospective parent.
func (m *Member) Score(penalty float64) float64 {
	return m.Efficiency * (1 - float64(m.Generation)*penalty)
}

// Status returns the display label for the member's efficiency band.
func (m *Member) Status() string {
	switch {
	case m.Main:
		return "Supervising"
	case m.Efficiency > 90:
		return "Excellent"
	case m.Efficiency > 75:
		return "Efficient"
	case m.Efficiency > 50:
		return "Learning"
	default:
		return "Developing"
	}
}

func (m *Member) removeChild(id string) {
	for i, c := range m.Children {
		if c == id {
			m.Children = append(m.Children[:i], m.Children[i+1:]...)
			return
		}
	}
}

// Info is the inspector record of one member.
type Info struct {
	ID             string  `inspect:"skip"`
	Type           string  `inspect:"label"`
	Specialization string  `inspect:"label"`
	Efficiency     float64 `inspect:"bar,max:100,fmt:%.1f%%"`
	LearningRate   float64 `inspect:"label,fmt:%.3f"`
	Age            int     `inspect:"label,fmt:%d cycles"`
	Generation     int     `inspect:"label"`
	Status         string  `inspect:"label"`
	Improvement    float64 `inspect:"label,fmt:%+.3f,label:Last Change"`
}

// Info returns the inspector record.
func (m *Member) Info() Info {
	typ := "Sub-Algorithm"
	if m.Main {
		typ = "Main Algorithm"
	}
	return Info{
		ID:             m.ID,
		Type:           typ,
		Specialization: m.Specialization,
		Efficiency:     m.Efficiency,
		LearningRate:   m.LearningRate,
		Age:            m.Age,
		Generation:     m.Generation,
		Status:         m.Status(),
		Improvement:    m.LastImprovement,
	}
}
