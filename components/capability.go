package components

// Capability is an ability tag gating which rules an algorithm may perform.
type Capability string

const (
	CapLearn    Capability = "learn"
	CapTeach    Capability = "teach"
	CapCreate   Capability = "create"
	CapConnect  Capability = "connect"
	CapImprove  Capability = "improve"
	CapAnalyze  Capability = "analyze"
	CapAdapt    Capability = "adapt"
	CapOptimize Capability = "optimize"
)

// AllCapabilities lists the catalogue in display order.
var AllCapabilities = []Capability{
	CapLearn, CapTeach, CapCreate, CapConnect,
	CapImprove, CapAnalyze, CapAdapt, CapOptimize,
}

// CapabilityInfo describes a capability for display.
type CapabilityInfo struct {
	Name        string
	Description string
}

var capabilityInfo = map[Capability]CapabilityInfo{
	CapLearn:    {"Learning", "Can learn from checkpoints and other algorithms"},
	CapTeach:    {"Teaching", "Can teach other algorithms"},
	CapCreate:   {"Creation", "Can create new algorithms"},
	CapConnect:  {"Connection", "Can discover and form new connections"},
	CapImprove:  {"Self-Improvement", "Can improve its own parameters"},
	CapAnalyze:  {"Analysis", "Can analyze patterns in data"},
	CapAdapt:    {"Adaptation", "Can adapt to new environments"},
	CapOptimize: {"Optimization", "Can optimize resource usage"},
}

// Info returns display metadata for the capability.
func (c Capability) Info() CapabilityInfo {
	if info, ok := capabilityInfo[c]; ok {
		return info
	}
	return CapabilityInfo{Name: string(c)}
}

// Valid reports whether c is part of the catalogue.
func (c Capability) Valid() bool {
	_, ok := capabilityInfo[c]
	return ok
}

// CapabilitySet is an insertion-ordered set of capabilities.
type CapabilitySet []Capability

// NewCapabilitySet builds a set, dropping duplicates.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, 0, len(caps))
	for _, c := range caps {
		if !s.Has(c) {
			s = append(s, c)
		}
	}
	return s
}

// Has reports membership.
func (s CapabilitySet) Has(c Capability) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}

// Without returns a copy with c removed.
func (s CapabilitySet) Without(c Capability) CapabilitySet {
	out := make(CapabilitySet, 0, len(s))
	for _, x := range s {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s CapabilitySet) Clone() CapabilitySet {
	out := make(CapabilitySet, len(s))
	copy(out, s)
	return out
}

// Missing returns catalogue entries not in s, in catalogue order.
func (s CapabilitySet) Missing() []Capability {
	var out []Capability
	for _, c := range AllCapabilities {
		if !s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings returns the tags as plain strings.
func (s CapabilitySet) Strings() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = string(c)
	}
	return out
}
