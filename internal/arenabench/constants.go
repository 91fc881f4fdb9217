package arenabench

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)
