package components

// FieldDescriptor describes an entity field for UI display.
type FieldDescriptor struct {
	ID           string  // Unique identifier
	Label        string  // Display name
	Format       string  // Printf format (e.g., "%.2f")
	Min          float64 // Minimum value (for bars)
	Max          float64 // Maximum value (for bars)
	IsBar        bool    // True to render as progress bar
	ShowWhenZero bool    // Show even when value is zero
	Group        string  // Logical grouping
}

// SpecializationNames returns the display names for all specializations.
// The order matches the Specialization constants.
func SpecializationNames() []string {
	return []string{"processing", "memory"}
}

// AlgorithmFieldDescriptors returns metadata for Algorithm fields.
func AlgorithmFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "intelligence", Label: "Intelligence", Format: "%.2f", ShowWhenZero: true, Group: "core"},
		{ID: "learning_rate", Label: "Learning Rate", Format: "%.3f", ShowWhenZero: true, Group: "core"},
		{ID: "generation", Label: "Generation", Format: "%d", ShowWhenZero: true, Group: "core"},
		{ID: "specialization", Label: "Specialization", Group: "core"},
		{ID: "resources", Label: "Resources", Format: "%.0f/%.0f", Min: 0, Max: 1, IsBar: true, Group: "budget"},
		{ID: "failed_attempts", Label: "Failed Attempts", Format: "%d", Group: "budget"},
		{ID: "capabilities", Label: "Capabilities", Format: "%d/%d", ShowWhenZero: true, Group: "abilities"},
	}
}

// CheckpointFieldDescriptors returns metadata for Checkpoint fields.
func CheckpointFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "knowledge", Label: "Knowledge", Format: "%.0f", ShowWhenZero: true, Group: "core"},
		{ID: "accuracy", Label: "Accuracy", Format: "%.1f%%", Min: 0, Max: 100, IsBar: true, ShowWhenZero: true, Group: "core"},
		{ID: "teaching", Label: "Teaches", Group: "abilities"},
	}
}
