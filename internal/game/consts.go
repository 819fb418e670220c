package game

const (
	WorldW = 8000.0
	WorldH = 4500.0

	MoveSpeed = 250.0 // units/s at the default tick rate

	// historyKeepSteps is how many authoritative snapshots each entity keeps
	// for interpolation.
	historyKeepSteps = 128

	// interpolationLag is how many steps behind the local counter the
	// interpolated view runs so there is usually a bracketing snapshot pair.
	interpolationLag = 2.0
)
