package game

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidParams is wrapped by every Params.Validate failure.
var ErrInvalidParams = errors.New("invalid shot parameters")

// Params configures one shot variant. The drag-to-shoot and click-to-shoot
// games are both presets of this struct.
type Params struct {
	Name            string       `json:"name" toml:"name"`
	BallRadius      float64      `json:"ball_radius" toml:"ball_radius"`
	Start           Vec3         `json:"start" toml:"start"`
	Target          TargetRegion `json:"target" toml:"target"`
	MaxDrag         float64      `json:"max_drag" toml:"max_drag"`
	DragScale       float64      `json:"drag_scale" toml:"drag_scale"`
	AimPreviewScale float64      `json:"aim_preview_scale" toml:"aim_preview_scale"`
	ClickOrigin     Vec2         `json:"click_origin" toml:"click_origin"`
	Gravity         float64      `json:"gravity" toml:"gravity"`
	FloorY          float64      `json:"floor_y" toml:"floor_y"`
	FieldMinX       float64      `json:"field_min_x" toml:"field_min_x"`
	FieldMaxX       float64      `json:"field_max_x" toml:"field_max_x"`
	MinFlight       float64      `json:"min_flight" toml:"min_flight"`
	MaxFlight       float64      `json:"max_flight" toml:"max_flight"`
	DisplayDelay    float64      `json:"display_delay" toml:"display_delay"`
	MaxTries        int          `json:"max_tries" toml:"max_tries"`
	SpinFactor      float64      `json:"spin_factor" toml:"spin_factor"`
	// Click marks variants aimed by a single click instead of a drag.
	Click bool `json:"click" toml:"click"`
}

// SlingshotParams is the drag-and-release variant: the ball sits on the left
// of the court and is flung at a large hoop on the right.
func SlingshotParams() Params {
	return Params{
		Name:            VariantSlingshot,
		BallRadius:      2,
		Start:           Vec3{X: -15, Y: 0, Z: 0},
		Target:          TargetRegion{Center: Vec3{X: 15, Y: 8, Z: 0}, Radius: 4},
		MaxDrag:         DefaultMaxDrag,
		DragScale:       DefaultDragScale,
		AimPreviewScale: DefaultAimPreview,
		ClickOrigin:     Vec2{X: -1, Y: -1},
		Gravity:         slingshotGravity,
		FloorY:          -3,
		FieldMinX:       -slingshotFieldHalfLen,
		FieldMaxX:       slingshotFieldHalfLen,
		MinFlight:       DefaultMinFlight,
		MaxFlight:       DefaultMaxFlight,
		DisplayDelay:    DefaultDisplayDelay,
		MaxTries:        DefaultMaxTries,
		SpinFactor:      DefaultSpinFactor,
	}
}

// ArcadeParams is the click-to-shoot variant: the ball starts under a small
// hoop and a click above the bottom-centre origin launches it upward.
func ArcadeParams() Params {
	return Params{
		Name:            VariantArcade,
		BallRadius:      1,
		Start:           Vec3{X: 0, Y: 0, Z: 0},
		Target:          TargetRegion{Center: Vec3{X: 0, Y: 8, Z: 0}, Radius: 2},
		MaxDrag:         DefaultMaxDrag,
		DragScale:       DefaultDragScale,
		AimPreviewScale: DefaultAimPreview,
		ClickOrigin:     Vec2{X: 0, Y: -1},
		Click:           true,
		Gravity:         arcadeGravity,
		FloorY:          -2,
		FieldMinX:       -arcadeFieldHalfLen,
		FieldMaxX:       arcadeFieldHalfLen,
		MinFlight:       DefaultMinFlight,
		MaxFlight:       DefaultMaxFlight,
		DisplayDelay:    DefaultDisplayDelay,
		MaxTries:        DefaultMaxTries,
		SpinFactor:      DefaultSpinFactor,
	}
}

// Presets returns the built-in variants keyed by name.
func Presets() map[string]Params {
	return map[string]Params{
		VariantSlingshot: SlingshotParams(),
		VariantArcade:    ArcadeParams(),
	}
}

// PresetNames returns the keys of a preset map in stable order.
func PresetNames(presets map[string]Params) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports the first unusable field.
func (p Params) Validate() error {
	switch {
	case p.Gravity >= 0:
		return fmt.Errorf("gravity must be negative, got %v: %w", p.Gravity, ErrInvalidParams)
	case p.MaxDrag <= 0:
		return fmt.Errorf("max drag must be positive, got %v: %w", p.MaxDrag, ErrInvalidParams)
	case p.DragScale <= 0:
		return fmt.Errorf("drag scale must be positive, got %v: %w", p.DragScale, ErrInvalidParams)
	case p.Target.Radius <= 0:
		return fmt.Errorf("target radius must be positive, got %v: %w", p.Target.Radius, ErrInvalidParams)
	case p.BallRadius <= 0:
		return fmt.Errorf("ball radius must be positive, got %v: %w", p.BallRadius, ErrInvalidParams)
	case p.MaxTries <= 0:
		return fmt.Errorf("max tries must be positive, got %d: %w", p.MaxTries, ErrInvalidParams)
	case p.FieldMinX >= p.FieldMaxX:
		return fmt.Errorf("field bounds inverted (%v >= %v): %w", p.FieldMinX, p.FieldMaxX, ErrInvalidParams)
	case p.MaxFlight <= 0 || p.MinFlight < 0 || p.MinFlight >= p.MaxFlight:
		return fmt.Errorf("flight window [%v, %v] unusable: %w", p.MinFlight, p.MaxFlight, ErrInvalidParams)
	case p.DisplayDelay < 0:
		return fmt.Errorf("display delay must not be negative, got %v: %w", p.DisplayDelay, ErrInvalidParams)
	}
	return nil
}

// DisplayDelayDuration is DisplayDelay as a time.Duration.
func (p Params) DisplayDelayDuration() time.Duration {
	return time.Duration(p.DisplayDelay * float64(time.Second))
}
