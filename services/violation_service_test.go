package services

import (
	"testing"

	"codeclash/models"
)

func TestShouldLock(t *testing.T) {
	const threshold = 3

	tests := []struct {
		name          string
		count         int
		status        models.ChallengeStatus
		alreadyLocked bool
		want          bool
	}{
		{name: "below threshold", count: 2, status: models.ChallengeStatusActive, want: false},
		{name: "crossing threshold", count: 3, status: models.ChallengeStatusActive, want: true},
		{name: "above threshold first opportunity", count: 5, status: models.ChallengeStatusActive, want: true},
		{name: "already locked never refires", count: 4, status: models.ChallengeStatusActive, alreadyLocked: true, want: false},
		{name: "paused challenge records only", count: 3, status: models.ChallengeStatusPaused, want: false},
		{name: "completed challenge records only", count: 10, status: models.ChallengeStatusCompleted, want: false},
		{name: "draft challenge records only", count: 3, status: models.ChallengeStatusDraft, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldLock(tt.count, threshold, tt.status, tt.alreadyLocked)
			if got != tt.want {
				t.Errorf("shouldLock(%d, %d, %s, locked=%v) = %v, want %v",
					tt.count, threshold, tt.status, tt.alreadyLocked, got, tt.want)
			}
		})
	}
}

// Scenario: five consecutive violations with T=3. The third locks; the
// fourth and fifth keep counting without re-firing.
func TestLockoutEdgeTriggered(t *testing.T) {
	const threshold = 3
	locked := false
	fired := 0

	for count := 1; count <= 5; count++ {
		if shouldLock(count, threshold, models.ChallengeStatusActive, locked) {
			locked = true
			fired++
			if count != 3 {
				t.Errorf("lock fired at violation %d, want 3", count)
			}
		}
	}

	if fired != 1 {
		t.Errorf("lock fired %d times, want exactly once", fired)
	}
	if !locked {
		t.Error("participant never locked")
	}
}

func TestNewViolationServiceDefaultThreshold(t *testing.T) {
	s := NewViolationService(nil, NopBroadcaster{}, NewChallengeLocker(), 0)
	if s.Threshold() != DefaultViolationThreshold {
		t.Errorf("Threshold() = %d, want default %d", s.Threshold(), DefaultViolationThreshold)
	}

	s = NewViolationService(nil, NopBroadcaster{}, NewChallengeLocker(), 7)
	if s.Threshold() != 7 {
		t.Errorf("Threshold() = %d, want 7", s.Threshold())
	}
}
