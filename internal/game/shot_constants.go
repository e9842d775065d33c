package game

// Defaults shared by the built-in presets. Distances are scene units and
// times are seconds.
const (
	DefaultMaxTries       = 5
	DefaultMinFlight      = 1.0
	DefaultMaxFlight      = 5.0
	DefaultDisplayDelay   = 1.0
	DefaultMaxDrag        = 2.0 // NDC units; a full-diagonal drag is 2*sqrt(2)
	DefaultDragScale      = 5.0
	DefaultSpinFactor     = 0.6
	DefaultAimPreview     = 0.5
	VariantSlingshot      = "slingshot"
	VariantArcade         = "arcade"
	slingshotGravity      = -2.0
	arcadeGravity         = -4.0
	slingshotFieldHalfLen = 25.0
	arcadeFieldHalfLen    = 10.0
)
