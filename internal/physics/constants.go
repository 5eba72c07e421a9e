package physics

const (
	DefaultWalkSpeed    = 2.0
	DefaultRunSpeed     = 5.0
	DefaultFadeDuration = 0.2
	// DefaultTurnRate is the exponential turning rate in 1/s. At 60 Hz it
	// covers roughly a fifth of the remaining angle per frame.
	DefaultTurnRate     = 12.0
	DefaultMaxTickDelta = 0.1

	AngleEpsilon = 1e-9
)
