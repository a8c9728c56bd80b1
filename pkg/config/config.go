// pkg/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. STARSHIP_PHYSICS_GRAVITY.
const EnvPrefix = "STARSHIP"

// SimConfig contains the immutable tuning of a flight simulation
type SimConfig struct {
	Physics         PhysicsConfig         `json:"physics" mapstructure:"physics"`
	Booster         StageConfig           `json:"booster" mapstructure:"booster"`
	UpperStage      StageConfig           `json:"upperStage" mapstructure:"upperStage"`
	BoosterGuidance BoosterGuidanceConfig `json:"boosterGuidance" mapstructure:"boosterGuidance"`
	UpperGuidance   UpperGuidanceConfig   `json:"upperGuidance" mapstructure:"upperGuidance"`
	Landing         LandingConfig         `json:"landing" mapstructure:"landing"`
	World           WorldConfig           `json:"world" mapstructure:"world"`
	Telemetry       TelemetryConfig       `json:"telemetry" mapstructure:"telemetry"`
	Run             RunConfig             `json:"run" mapstructure:"run"`
}

// PhysicsConfig contains world physics constants, per tick
type PhysicsConfig struct {
	Gravity    float64 `json:"gravity" mapstructure:"gravity"`
	LaunchKick float64 `json:"launchKick" mapstructure:"launchKick"`
}

// StageConfig describes one stage's airframe and actuators
type StageConfig struct {
	Mass         float64 `json:"mass" mapstructure:"mass"`
	ThrustForce  float64 `json:"thrustForce" mapstructure:"thrustForce"`
	RotationRate float64 `json:"rotationRate" mapstructure:"rotationRate"`
	MainFuelRate float64 `json:"mainFuelRate" mapstructure:"mainFuelRate"`
	RCSFuelRate  float64 `json:"rcsFuelRate" mapstructure:"rcsFuelRate"`
	StartFuel    float64 `json:"startFuel" mapstructure:"startFuel"`
	Width        float64 `json:"width" mapstructure:"width"`
	Height       float64 `json:"height" mapstructure:"height"`
}

// BoosterGuidanceConfig contains the gains of the coarse booster return law
type BoosterGuidanceConfig struct {
	HorizontalPGain    float64 `json:"horizontalPGain" mapstructure:"horizontalPGain"`
	MaxTilt            float64 `json:"maxTilt" mapstructure:"maxTilt"`
	AngleTolerance     float64 `json:"angleTolerance" mapstructure:"angleTolerance"`
	RotationGain       float64 `json:"rotationGain" mapstructure:"rotationGain"`
	NearGroundAltitude float64 `json:"nearGroundAltitude" mapstructure:"nearGroundAltitude"`
	FarDescentSpeed    float64 `json:"farDescentSpeed" mapstructure:"farDescentSpeed"`
	NearDescentSpeed   float64 `json:"nearDescentSpeed" mapstructure:"nearDescentSpeed"`
	ThrustAlignFactor  float64 `json:"thrustAlignFactor" mapstructure:"thrustAlignFactor"`
}

// UpperGuidanceConfig contains the gain schedule of the upper stage autopilot.
// Descent speeds are positive magnitudes.
type UpperGuidanceConfig struct {
	AngleTolerance    float64 `json:"angleTolerance" mapstructure:"angleTolerance"`
	PosTolerance      float64 `json:"posTolerance" mapstructure:"posTolerance"`
	RotationGain      float64 `json:"rotationGain" mapstructure:"rotationGain"`
	HorizontalPGain   float64 `json:"horizontalPGain" mapstructure:"horizontalPGain"`
	HorizontalDGain   float64 `json:"horizontalDGain" mapstructure:"horizontalDGain"`
	MaxTilt           float64 `json:"maxTilt" mapstructure:"maxTilt"`
	ThrustAlignFactor float64 `json:"thrustAlignFactor" mapstructure:"thrustAlignFactor"`

	BrakeAltitude     float64 `json:"brakeAltitude" mapstructure:"brakeAltitude"`
	TouchdownAltitude float64 `json:"touchdownAltitude" mapstructure:"touchdownAltitude"`
	FastDescentSpeed  float64 `json:"fastDescentSpeed" mapstructure:"fastDescentSpeed"`
	SlowDescentSpeed  float64 `json:"slowDescentSpeed" mapstructure:"slowDescentSpeed"`
	DescentDeadband   float64 `json:"descentDeadband" mapstructure:"descentDeadband"`
	FinalDeadband     float64 `json:"finalDeadband" mapstructure:"finalDeadband"`
	SafeDescentMargin float64 `json:"safeDescentMargin" mapstructure:"safeDescentMargin"`

	FinalApproachAltitude       float64 `json:"finalApproachAltitude" mapstructure:"finalApproachAltitude"`
	FinalApproachMaxTilt        float64 `json:"finalApproachMaxTilt" mapstructure:"finalApproachMaxTilt"`
	FinalApproachAngleTolerance float64 `json:"finalApproachAngleTolerance" mapstructure:"finalApproachAngleTolerance"`
	FinalApproachRotationGain   float64 `json:"finalApproachRotationGain" mapstructure:"finalApproachRotationGain"`

	NoseDownAngle     float64 `json:"noseDownAngle" mapstructure:"noseDownAngle"`
	// NoseDownClimbRate is the sink rate below which a nose-down stage still fires
	NoseDownClimbRate float64 `json:"noseDownClimbRate" mapstructure:"noseDownClimbRate"`
}

// LandingConfig contains touchdown safety limits
type LandingConfig struct {
	MaxVerticalSpeed   float64 `json:"maxVerticalSpeed" mapstructure:"maxVerticalSpeed"`
	MaxHorizontalSpeed float64 `json:"maxHorizontalSpeed" mapstructure:"maxHorizontalSpeed"`
	MaxAngle           float64 `json:"maxAngle" mapstructure:"maxAngle"`
}

// WorldConfig contains the landing target geometry
type WorldConfig struct {
	GroundHeight float64 `json:"groundHeight" mapstructure:"groundHeight"`
	PadX         float64 `json:"padX" mapstructure:"padX"`
	PadWidth     float64 `json:"padWidth" mapstructure:"padWidth"`
	PadHeight    float64 `json:"padHeight" mapstructure:"padHeight"`
}

// TelemetryConfig contains flight recorder settings
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	Path        string `json:"path" mapstructure:"path"`
	SampleEvery int    `json:"sampleEvery" mapstructure:"sampleEvery"`
}

// RunConfig contains the driver loop settings
type RunConfig struct {
	TickRate int `json:"tickRate" mapstructure:"tickRate"`
	MaxTicks int `json:"maxTicks" mapstructure:"maxTicks"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() *SimConfig {
	const maxLandingSpeedV = 2.0
	return &SimConfig{
		Physics: PhysicsConfig{
			Gravity:    0.05,
			LaunchKick: 1.5,
		},
		Booster: StageConfig{
			Mass:         3,
			ThrustForce:  1.0,
			RotationRate: 0.0008,
			MainFuelRate: 0.15,
			RCSFuelRate:  0.03,
			StartFuel:    1500,
			Width:        28,
			Height:       90,
		},
		UpperStage: StageConfig{
			Mass:         1,
			ThrustForce:  0.18,
			RotationRate: 0.0011,
			MainFuelRate: 0.08,
			RCSFuelRate:  0.02,
			StartFuel:    800,
			Width:        20,
			Height:       60,
		},
		BoosterGuidance: BoosterGuidanceConfig{
			HorizontalPGain:    0.01,
			MaxTilt:            0.35,
			AngleTolerance:     0.001,
			RotationGain:       1,
			NearGroundAltitude: 200,
			FarDescentSpeed:    1,
			NearDescentSpeed:   0.5,
			ThrustAlignFactor:  1.15,
		},
		UpperGuidance: UpperGuidanceConfig{
			AngleTolerance:    0.001,
			PosTolerance:      5,
			RotationGain:      1.9,
			HorizontalPGain:   0.2,
			HorizontalDGain:   0.3,
			MaxTilt:           0.35,
			ThrustAlignFactor: 1.15,

			BrakeAltitude:     550,
			TouchdownAltitude: 50,
			FastDescentSpeed:  9,
			SlowDescentSpeed:  0.5,
			DescentDeadband:   0.1,
			FinalDeadband:     0.05,
			SafeDescentMargin: 0.5,

			FinalApproachAltitude:       65,
			FinalApproachMaxTilt:        0.07,
			FinalApproachAngleTolerance: 0.0005,
			FinalApproachRotationGain:   2.4,

			NoseDownAngle:     0.4,
			NoseDownClimbRate: 0.5,
		},
		Landing: LandingConfig{
			MaxVerticalSpeed:   maxLandingSpeedV,
			MaxHorizontalSpeed: 1.0,
			MaxAngle:           0.1,
		},
		World: WorldConfig{
			GroundHeight: 50,
			PadX:         0,
			PadWidth:     80,
			PadHeight:    10,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Path:        "flight.db",
			SampleEvery: 10,
		},
		Run: RunConfig{
			TickRate: 60,
			MaxTicks: 30000,
		},
	}
}

// LoadConfig loads a configuration file on top of the defaults, then applies
// STARSHIP_* environment overrides. JSON, YAML and TOML are accepted.
func LoadConfig(path string) (*SimConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			v.SetConfigType(ext)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

// LoadConfigFromEnv builds a configuration from the defaults and environment only.
func LoadConfigFromEnv() (*SimConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// newViper returns a viper instance seeded with every default key, so that
// AutomaticEnv can resolve nested keys during Unmarshal.
func newViper() (*viper.Viper, error) {
	defaults, err := json.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to seed defaults: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func decode(v *viper.Viper) (*SimConfig, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every inconsistent setting at once.
func (c *SimConfig) Validate() error {
	var errs []error

	if c.Physics.Gravity < 0 {
		errs = append(errs, fmt.Errorf("physics.gravity must not be negative, got %v", c.Physics.Gravity))
	}
	errs = append(errs, c.Booster.validate("booster")...)
	errs = append(errs, c.UpperStage.validate("upperStage")...)

	g := c.UpperGuidance
	if g.TouchdownAltitude >= g.BrakeAltitude {
		errs = append(errs, fmt.Errorf("upperGuidance.touchdownAltitude (%v) must be below brakeAltitude (%v)", g.TouchdownAltitude, g.BrakeAltitude))
	}
	if g.FinalApproachMaxTilt > g.MaxTilt {
		errs = append(errs, fmt.Errorf("upperGuidance.finalApproachMaxTilt (%v) must not exceed maxTilt (%v)", g.FinalApproachMaxTilt, g.MaxTilt))
	}
	if c.BoosterGuidance.MaxTilt <= 0 || g.MaxTilt <= 0 {
		errs = append(errs, errors.New("guidance maxTilt must be positive"))
	}

	l := c.Landing
	if l.MaxVerticalSpeed <= 0 || l.MaxHorizontalSpeed <= 0 || l.MaxAngle <= 0 {
		errs = append(errs, errors.New("landing limits must be positive"))
	}
	if c.Telemetry.Enabled && c.Telemetry.SampleEvery <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.sampleEvery must be positive, got %d", c.Telemetry.SampleEvery))
	}
	if c.Run.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("run.tickRate must be positive, got %d", c.Run.TickRate))
	}

	return errors.Join(errs...)
}

func (s StageConfig) validate(name string) []error {
	var errs []error
	if s.Mass <= 0 {
		errs = append(errs, fmt.Errorf("%s.mass must be positive, got %v", name, s.Mass))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("%s dimensions must be positive", name))
	}
	if s.ThrustForce < 0 || s.RotationRate < 0 || s.MainFuelRate < 0 || s.RCSFuelRate < 0 || s.StartFuel < 0 {
		errs = append(errs, fmt.Errorf("%s rates and fuel must not be negative", name))
	}
	return errs
}
