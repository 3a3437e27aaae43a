package setup

import (
	"time"

	"rsbackend/models"
)

// GateDecision is the outcome of the local setup-window check.
type GateDecision int

const (
	// GateAllowed means the window is open and setup has not completed.
	GateAllowed GateDecision = iota
	// GateAlreadyCompleted means setup already ran; terminal.
	GateAlreadyCompleted
	// GateWindowExpired means the window is absent or lapsed; terminal.
	GateWindowExpired
)

// CanSetup decides, from installation state and the current time alone,
// whether a setup action is permitted. Pure function, no I/O; it always runs
// before the remote GitHub verification so completed or expired
// installations never trigger a provider round-trip.
func CanSetup(installation *models.Installation, now time.Time) GateDecision {
	if installation.SetupCompleted {
		return GateAlreadyCompleted
	}
	if installation.SetupAllowedUntil == nil || now.After(*installation.SetupAllowedUntil) {
		return GateWindowExpired
	}
	return GateAllowed
}
