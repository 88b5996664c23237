// services/violation_service.go - Focus-loss counting and lockout policy
//
// Violation events come from untrusted clients over an unreliable channel.
// Each delivered event counts as a genuine occurrence: repeated tab-blurs are
// repeated violations, so there is no deduplication. The counter never
// decrements and the lock never resets within a challenge.
package services

import (
	"errors"
	"log"

	"codeclash/models"

	"gorm.io/gorm"
)

// DefaultViolationThreshold is used when VIOLATION_THRESHOLD is unset.
const DefaultViolationThreshold = 3

type ViolationService struct {
	db        *gorm.DB
	hub       Broadcaster
	locker    *ChallengeLocker
	threshold int
}

func NewViolationService(db *gorm.DB, hub Broadcaster, locker *ChallengeLocker, threshold int) *ViolationService {
	if threshold <= 0 {
		threshold = DefaultViolationThreshold
	}
	return &ViolationService{db: db, hub: hub, locker: locker, threshold: threshold}
}

// shouldLock decides whether this violation fires the lockout. Edge-triggered:
// once a participant is locked, later violations keep counting for audit but
// never re-fire the lock. A challenge that is not active never locks anyone,
// since editing is already disallowed there.
func shouldLock(newCount, threshold int, status models.ChallengeStatus, alreadyLocked bool) bool {
	return !alreadyLocked && status == models.ChallengeStatusActive && newCount >= threshold
}

// RecordViolation increments the participant's focus-violation counter and
// applies the lockout policy. Returns the new count and whether this call
// locked the participant.
func (s *ViolationService) RecordViolation(participantID uint) (int, bool, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, models.ErrUnknownParticipant
		}
		return 0, false, err
	}

	// Lock decisions are linearized with lifecycle transitions so the
	// challenge status read below cannot be a stale mid-transition view.
	unlock := s.locker.Lock(participant.ChallengeID)
	defer unlock()

	var challenge models.Challenge
	if err := s.db.First(&challenge, participant.ChallengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, models.ErrUnknownChallenge
		}
		return 0, false, err
	}

	// Atomic increment; the database returns the post-increment count so
	// concurrent reports from the same client cannot read a stale value.
	var newCount int
	err := s.db.Raw(
		"UPDATE participants SET focus_violations = focus_violations + 1, updated_at = NOW() WHERE id = ? RETURNING focus_violations",
		participantID,
	).Scan(&newCount).Error
	if err != nil {
		return 0, false, err
	}

	if !shouldLock(newCount, s.threshold, challenge.Status, participant.IsLocked) {
		return newCount, false, nil
	}

	// The WHERE clause makes the lock edge-triggered even if two reports
	// cross the threshold at once: only one update flips the flag.
	res := s.db.Model(&models.Participant{}).
		Where("id = ? AND is_locked = ?", participantID, false).
		Update("is_locked", true)
	if res.Error != nil {
		return newCount, false, res.Error
	}
	if res.RowsAffected == 0 {
		return newCount, false, nil
	}

	log.Printf("🚫 Participant %d locked after %d focus violations (challenge %d)",
		participantID, newCount, participant.ChallengeID)

	// One notice reaches both the participant's own client (to freeze its
	// editor with an explicit disqualification message) and the admin
	// monitor. The last persisted html/css is already the frozen snapshot;
	// all further writes are rejected.
	s.hub.Publish(participant.ChallengeID, "participant_locked", map[string]interface{}{
		"participant_id":   participantID,
		"team_id":          participant.TeamID,
		"display_name":     participant.DisplayName,
		"focus_violations": newCount,
		"reason":           "disqualified",
	})

	return newCount, true, nil
}

// Threshold exposes the configured lockout threshold for the admin monitor.
func (s *ViolationService) Threshold() int {
	return s.threshold
}
