// services/session_service.go - Challenge lifecycle state machine
//
// The single authority over Challenge.Status and Challenge.EditingEnabled.
// Transitions are serialized per challenge through a ChallengeLocker and
// additionally guarded by a compare-and-swap on the previous status, so a
// pause and an end racing each other can never produce an inconsistent
// status/editing pair.
package services

import (
	"errors"
	"log"
	"time"

	"codeclash/models"

	"gorm.io/gorm"
)

// Lifecycle actions accepted from the admin console.
const (
	ActionStart  = "start"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionEnd    = "end"
)

type SessionService struct {
	db     *gorm.DB
	hub    Broadcaster
	locker *ChallengeLocker
}

func NewSessionService(db *gorm.DB, hub Broadcaster, locker *ChallengeLocker) *SessionService {
	return &SessionService{db: db, hub: hub, locker: locker}
}

// transitionTarget is the pure core of the state machine: which status an
// action moves to from a given status, and the editing flag it carries.
// ok is false when the action is not legal from that status.
func transitionTarget(action string, from models.ChallengeStatus) (to models.ChallengeStatus, editing bool, ok bool) {
	switch action {
	case ActionStart:
		if from == models.ChallengeStatusDraft {
			return models.ChallengeStatusActive, true, true
		}
	case ActionPause:
		if from == models.ChallengeStatusActive {
			return models.ChallengeStatusPaused, false, true
		}
	case ActionResume:
		if from == models.ChallengeStatusPaused {
			return models.ChallengeStatusActive, true, true
		}
	case ActionEnd:
		if from == models.ChallengeStatusActive || from == models.ChallengeStatusPaused {
			return models.ChallengeStatusCompleted, false, true
		}
	}
	return "", false, false
}

func (s *SessionService) Start(challengeID uint) (*models.Challenge, error) {
	return s.transition(challengeID, ActionStart)
}

func (s *SessionService) Pause(challengeID uint) (*models.Challenge, error) {
	return s.transition(challengeID, ActionPause)
}

func (s *SessionService) Resume(challengeID uint) (*models.Challenge, error) {
	return s.transition(challengeID, ActionResume)
}

func (s *SessionService) End(challengeID uint) (*models.Challenge, error) {
	return s.transition(challengeID, ActionEnd)
}

// transition applies one lifecycle action. The per-challenge lock serializes
// admin calls against each other and against lockout decisions; the CAS on
// status catches writers outside this process. The CAS is retried once with
// a fresh read before the failure is surfaced.
func (s *SessionService) transition(challengeID uint, action string) (*models.Challenge, error) {
	unlock := s.locker.Lock(challengeID)
	defer unlock()

	for attempt := 0; attempt < 2; attempt++ {
		var challenge models.Challenge
		if err := s.db.First(&challenge, challengeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrUnknownChallenge
			}
			return nil, err
		}

		to, editing, ok := transitionTarget(action, challenge.Status)
		if !ok {
			return nil, &models.InvalidTransitionError{Action: action, From: challenge.Status}
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":          to,
			"editing_enabled": editing,
			"updated_at":      now,
		}
		// started_at and ended_at are each set exactly once, on the
		// transition that reaches their state.
		if action == ActionStart {
			updates["started_at"] = now
		}
		if action == ActionEnd {
			updates["ended_at"] = now
		}

		res := s.db.Model(&models.Challenge{}).
			Where("id = ? AND status = ?", challengeID, challenge.Status).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the CAS to a concurrent writer; re-read and retry once.
			log.Printf("⚠️ Challenge %d: %s lost status CAS (attempt %d)", challengeID, action, attempt+1)
			continue
		}

		challenge.Status = to
		challenge.EditingEnabled = editing
		if action == ActionStart {
			challenge.StartedAt = &now
		}
		if action == ActionEnd {
			challenge.EndedAt = &now
			s.finalizeSubmissions(challengeID, now)
		}

		log.Printf("🎛️ Challenge %d: %s → %s (editing=%v)", challengeID, action, to, editing)

		s.hub.Publish(challengeID, "session_state", map[string]interface{}{
			"action":          action,
			"status":          to,
			"editing_enabled": editing,
		})
		return &challenge, nil
	}

	return nil, models.ErrTransitionConflict
}

// finalizeSubmissions stamps submitted_at for every participant who has not
// explicitly submitted, at the moment the challenge ends. First write wins;
// participants who submitted earlier keep their own timestamp. Locked
// participants are stamped too: is_locked takes precedence in the results
// view, so they still report as disqualified.
func (s *SessionService) finalizeSubmissions(challengeID uint, endedAt time.Time) {
	res := s.db.Model(&models.Participant{}).
		Where("challenge_id = ? AND submitted_at IS NULL", challengeID).
		Updates(map[string]interface{}{"submitted_at": endedAt, "updated_at": endedAt})
	if res.Error != nil {
		log.Printf("⚠️ Challenge %d: failed to finalize submissions: %v", challengeID, res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("📝 Challenge %d: stamped submitted_at for %d participants on end", challengeID, res.RowsAffected)
	}
}
