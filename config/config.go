// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Simulation SimulationConfig `yaml:"simulation"`
	Primary    PrimaryConfig    `yaml:"primary"`
	Algorithm  AlgorithmConfig  `yaml:"algorithm"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Rules      RulesConfig      `yaml:"rules"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Signal     SignalConfig     `yaml:"signal"`
	Layout     LayoutConfig     `yaml:"layout"`
	Population PopulationConfig `yaml:"population"`
	Log        LogConfig        `yaml:"log"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the canvas bounds entities are laid out in.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimulationConfig holds free-form variant scheduling parameters.
type SimulationConfig struct {
	BaseTickMs          int     `yaml:"base_tick_ms"`       // Tick interval at speed 1
	EvolveIntervalMs    int     `yaml:"evolve_interval_ms"` // Per-entity evolve cadence at speed 1
	FrameMs             int     `yaml:"frame_ms"`           // Timeline (signal) cadence
	Speed               float64 `yaml:"speed"`
	MaxAlgorithms       int     `yaml:"max_algorithms"` // 0 = unlimited
	InitialCheckpoints  int     `yaml:"initial_checkpoints"`
	CheckpointRing      float64 `yaml:"checkpoint_ring"`
	PrimaryIntelligence float64 `yaml:"primary_intelligence"`
	GenerationFactor    float64 `yaml:"generation_factor"` // Advance when level > generation * this
	GenerationChance    float64 `yaml:"generation_chance"`
}

// PrimaryConfig holds parameters specific to the primary algorithm.
type PrimaryConfig struct {
	BaseSize              float64 `yaml:"base_size"`
	SizeVariation         int     `yaml:"size_variation"`
	LearningRate          float64 `yaml:"learning_rate"`
	EvolutionSpeed        float64 `yaml:"evolution_speed"`
	MaxCapabilities       int     `yaml:"max_capabilities"`
	BoostChance           float64 `yaml:"boost_chance"`
	BoostMin              float64 `yaml:"boost_min"`
	BoostRange            float64 `yaml:"boost_range"`
	CapabilityChance      float64 `yaml:"capability_chance"`
	CreateMinIntelligence float64 `yaml:"create_min_intelligence"`
}

// AlgorithmConfig holds parameters for non-primary algorithms.
type AlgorithmConfig struct {
	BaseSize                float64 `yaml:"base_size"`
	SizeVariation           int     `yaml:"size_variation"`
	LearningRateMin         float64 `yaml:"learning_rate_min"`
	LearningRateRange       float64 `yaml:"learning_rate_range"`
	EvolutionSpeedMin       float64 `yaml:"evolution_speed_min"`
	EvolutionSpeedRange     float64 `yaml:"evolution_speed_range"`
	ResourceBase            float64 `yaml:"resource_base"`
	ResourcePerIntelligence float64 `yaml:"resource_per_intelligence"`
	BaseCapabilities        int     `yaml:"base_capabilities"` // maxCapabilities = this + floor(intelligence/2)
	FailedAttemptChance     float64 `yaml:"failed_attempt_chance"`
	FailedAttemptLimit      int     `yaml:"failed_attempt_limit"`
	CrashChance             float64 `yaml:"crash_chance"`
	RecoveryChance          float64 `yaml:"recovery_chance"`
	RecoveryBase            float64 `yaml:"recovery_base"`
	RecoveryPerIntelligence float64 `yaml:"recovery_per_intelligence"`
}

// CheckpointConfig holds checkpoint creation parameters.
type CheckpointConfig struct {
	Knowledge            float64 `yaml:"knowledge"`
	AccuracyMin          float64 `yaml:"accuracy_min"`
	AccuracyRange        float64 `yaml:"accuracy_range"`
	SizeMin              float64 `yaml:"size_min"`
	SizeRange            int     `yaml:"size_range"`
	MaxTeachingAbilities int     `yaml:"max_teaching_abilities"`
	BoostMin             float64 `yaml:"boost_min"`
	BoostRange           float64 `yaml:"boost_range"`
}

// RulesConfig holds the constants of the interaction rules.
type RulesConfig struct {
	LearnRate                 float64 `yaml:"learn_rate"`
	LearnIntelligenceFactor   float64 `yaml:"learn_intelligence_factor"`
	LearnCapabilityChance     float64 `yaml:"learn_capability_chance"`
	TeachRate                 float64 `yaml:"teach_rate"`
	TeachCapabilityChance     float64 `yaml:"teach_capability_chance"`
	TrainBonus                float64 `yaml:"train_bonus"`
	ImproveBase               float64 `yaml:"improve_base"`
	ImproveRandomMin          float64 `yaml:"improve_random_min"`
	ImproveRandomRange        float64 `yaml:"improve_random_range"`
	ImproveIntelligenceFactor float64 `yaml:"improve_intelligence_factor"`
	ImproveLearningRateChance float64 `yaml:"improve_learning_rate_chance"`
	ImproveLearningRateGain   float64 `yaml:"improve_learning_rate_gain"`
	ImproveCost               float64 `yaml:"improve_cost"`
	CreateCost                float64 `yaml:"create_cost"`
	CreateDistanceMin         float64 `yaml:"create_distance_min"`
	CreateDistanceRange       float64 `yaml:"create_distance_range"`
	CreateIntelligenceMin     float64 `yaml:"create_intelligence_min"` // Child gets parent * U(min, 1)
	CreateIntelligenceFloor   float64 `yaml:"create_intelligence_floor"`
	ConnectCost               float64 `yaml:"connect_cost"`
	ConnectRadius             float64 `yaml:"connect_radius"`
	ConnectCheckpointChance   float64 `yaml:"connect_checkpoint_chance"`
	ConnectSmarterChance      float64 `yaml:"connect_smarter_chance"`
	ConnectOtherChance        float64 `yaml:"connect_other_chance"`
	CrashDelayMs              int     `yaml:"crash_delay_ms"`
	CrashRecoverChance        float64 `yaml:"crash_recover_chance"`
}

// SchedulerConfig holds per-tick action probabilities and surcharges for non-primary algorithms.
type SchedulerConfig struct {
	TrainChance           float64 `yaml:"train_chance"`
	ConnectChance         float64 `yaml:"connect_chance"`
	CreateChance          float64 `yaml:"create_chance"`
	CreateMinIntelligence float64 `yaml:"create_min_intelligence"`
	ImproveChance         float64 `yaml:"improve_chance"`
	TrainCost             float64 `yaml:"train_cost"`
	ConnectCost           float64 `yaml:"connect_cost"`
	CreateCost            float64 `yaml:"create_cost"`
	ImproveCost           float64 `yaml:"improve_cost"`
}

// SignalConfig holds transfer animation durations.
type SignalConfig struct {
	AutomaticMs int `yaml:"automatic_ms"`
	ManualMs    int `yaml:"manual_ms"`
}

// LayoutConfig holds layout engine parameters.
type LayoutConfig struct {
	Padding          float64 `yaml:"padding"`
	RingStep         float64 `yaml:"ring_step"`
	MaxAttempts      int     `yaml:"max_attempts"`
	MinSegments      int     `yaml:"min_segments"`
	SegmentSpacing   float64 `yaml:"segment_spacing"`
	Repulsion        float64 `yaml:"repulsion"`
	MinDistance      float64 `yaml:"min_distance"`
	GridCellSize     float64 `yaml:"grid_cell_size"`
	HexHeight        float64 `yaml:"hex_height"`
	HexMaxLevel      int     `yaml:"hex_max_level"`
	OrphanRingFactor float64 `yaml:"orphan_ring_factor"`
}

// PopulationConfig holds the hexagonal population variant parameters.
type PopulationConfig struct {
	Cap                int     `yaml:"cap"`
	InitialSubs        int     `yaml:"initial_subs"`
	SpawnEvery         int     `yaml:"spawn_every"`
	ReplaceEvery       int     `yaml:"replace_every"`
	TickMs             int     `yaml:"tick_ms"`
	MainBiasPopulation int     `yaml:"main_bias_population"` // Main is always chosen below this size
	MainBiasChance     float64 `yaml:"main_bias_chance"`
	MaxChildren        int     `yaml:"max_children"`
	MaxGeneration      int     `yaml:"max_generation"`
	GenerationPenalty  float64 `yaml:"generation_penalty"`
	TopCandidates      int     `yaml:"top_candidates"`
	MaxEfficiency      float64 `yaml:"max_efficiency"`
	Noise              float64 `yaml:"noise"`
	MainEfficiency     float64 `yaml:"main_efficiency"`
	EfficiencyMin      float64 `yaml:"efficiency_min"`
	EfficiencyRange    float64 `yaml:"efficiency_range"`
	LearningRateMin    float64 `yaml:"learning_rate_min"`
	LearningRateRange  float64 `yaml:"learning_rate_range"`
	StatsEvery         int     `yaml:"stats_every"`
}

// LogConfig holds event log parameters.
type LogConfig struct {
	Capacity int `yaml:"capacity"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BaseTick       time.Duration
	EvolveInterval time.Duration
	Frame          time.Duration
	CrashDelay     time.Duration
	AutomaticSig   time.Duration
	ManualSig      time.Duration
	PopulationTick time.Duration
	HexWidth       float64 // HexHeight * sqrt(3)/2
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.Simulation.Speed <= 0 {
		return fmt.Errorf("simulation speed must be positive, got %v", c.Simulation.Speed)
	}
	if c.Simulation.BaseTickMs <= 0 || c.Population.TickMs <= 0 {
		return fmt.Errorf("tick intervals must be positive")
	}
	if c.Simulation.MaxAlgorithms < 0 {
		return fmt.Errorf("max_algorithms must be >= 0, got %d", c.Simulation.MaxAlgorithms)
	}
	if c.Population.Cap < 1 {
		return fmt.Errorf("population cap must be >= 1, got %d", c.Population.Cap)
	}
	if c.Population.SpawnEvery < 1 || c.Population.ReplaceEvery < 1 {
		return fmt.Errorf("population spawn/replace cadence must be >= 1")
	}
	if c.Population.TopCandidates < 1 {
		return fmt.Errorf("top_candidates must be >= 1, got %d", c.Population.TopCandidates)
	}
	if c.Population.MaxChildren < 1 || c.Population.MaxGeneration < 1 {
		return fmt.Errorf("max_children and max_generation must be >= 1, got %d and %d",
			c.Population.MaxChildren, c.Population.MaxGeneration)
	}
	if c.Population.MaxEfficiency <= 0 {
		return fmt.Errorf("max_efficiency must be positive, got %v", c.Population.MaxEfficiency)
	}
	if c.Log.Capacity < 1 {
		return fmt.Errorf("log capacity must be >= 1, got %d", c.Log.Capacity)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
func (c *Config) ComputeDerived() {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	c.Derived.BaseTick = ms(c.Simulation.BaseTickMs)
	c.Derived.EvolveInterval = ms(c.Simulation.EvolveIntervalMs)
	c.Derived.Frame = ms(c.Simulation.FrameMs)
	if c.Derived.Frame <= 0 {
		c.Derived.Frame = 16 * time.Millisecond
	}
	c.Derived.CrashDelay = ms(c.Rules.CrashDelayMs)
	c.Derived.AutomaticSig = ms(c.Signal.AutomaticMs)
	c.Derived.ManualSig = ms(c.Signal.ManualMs)
	c.Derived.PopulationTick = ms(c.Population.TickMs)
	c.Derived.HexWidth = c.Layout.HexHeight * 0.866
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
