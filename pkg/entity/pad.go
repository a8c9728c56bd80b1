// pkg/entity/pad.go
package entity

import "github.com/opd-ai/go-starship/pkg/config"

// LandingPad is the read-only landing target
type LandingPad struct {
	X       float64
	Width   float64
	Height  float64
	GroundY float64
}

// NewLandingPad builds the pad from world geometry
func NewLandingPad(w config.WorldConfig) LandingPad {
	return LandingPad{
		X:       w.PadX,
		Width:   w.PadWidth,
		Height:  w.PadHeight,
		GroundY: w.GroundHeight,
	}
}

// Covers reports whether x lies over the pad surface
func (p LandingPad) Covers(x float64) bool {
	return x >= p.X-p.Width/2 && x <= p.X+p.Width/2
}
