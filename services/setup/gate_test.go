package setup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rsbackend/models"
)

func TestCanSetup(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	t.Run("allowed_when_window_open", func(t *testing.T) {
		installation := &models.Installation{
			SetupCompleted:    false,
			SetupAllowedUntil: &future,
		}

		assert.Equal(t, GateAllowed, CanSetup(installation, now))
	})

	t.Run("already_completed_wins_regardless_of_window", func(t *testing.T) {
		// Completed installations are terminal even if a window value is
		// still present or in the future.
		for _, window := range []*time.Time{nil, &future, &past} {
			installation := &models.Installation{
				SetupCompleted:    true,
				SetupAllowedUntil: window,
			}

			assert.Equal(t, GateAlreadyCompleted, CanSetup(installation, now))
		}
	})

	t.Run("expired_when_window_in_past", func(t *testing.T) {
		installation := &models.Installation{
			SetupCompleted:    false,
			SetupAllowedUntil: &past,
		}

		assert.Equal(t, GateWindowExpired, CanSetup(installation, now))
	})

	t.Run("expired_when_window_absent", func(t *testing.T) {
		installation := &models.Installation{
			SetupCompleted:    false,
			SetupAllowedUntil: nil,
		}

		assert.Equal(t, GateWindowExpired, CanSetup(installation, now))
	})

	t.Run("boundary_exactly_at_window_end_is_allowed", func(t *testing.T) {
		installation := &models.Installation{
			SetupCompleted:    false,
			SetupAllowedUntil: &now,
		}

		assert.Equal(t, GateAllowed, CanSetup(installation, now))
	})
}
