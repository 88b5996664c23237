// services/challenge_service.go - Durable challenge/team/participant store
package services

import (
	"crypto/subtle"
	"errors"
	"time"

	"codeclash/models"
	"codeclash/utils"

	"gorm.io/gorm"
)

const accessCodeLength = 8

type ChallengeService struct {
	db *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{db: db}
}

// TeamAssignment describes one team and its fixed membership, supplied by the
// admin "assign teams" action before the challenge starts.
type TeamAssignment struct {
	Name         string   `json:"name"`
	Color        string   `json:"color"`
	Participants []string `json:"participants"`
}

// CreateChallenge creates a new challenge in draft with a fresh access code.
func (s *ChallengeService) CreateChallenge(title, description, instructions string, durationMinutes int) (*models.Challenge, error) {
	if title == "" {
		return nil, errors.New("challenge title is required")
	}
	if durationMinutes <= 0 {
		durationMinutes = 60
	}

	challenge := &models.Challenge{
		Title:           title,
		Description:     description,
		Instructions:    instructions,
		AccessCode:      s.generateUniqueAccessCode(),
		DurationMinutes: durationMinutes,
		Status:          models.ChallengeStatusDraft,
		EditingEnabled:  false,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.db.Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

// generateUniqueAccessCode retries until the code does not collide. With an
// 8-character code over a 32-character alphabet collisions are rare; the loop
// exists for the day they are not.
func (s *ChallengeService) generateUniqueAccessCode() string {
	for {
		code := utils.GenerateAccessCode(accessCodeLength)
		var count int64
		s.db.Model(&models.Challenge{}).Where("access_code = ?", code).Count(&count)
		if count == 0 {
			return code
		}
	}
}

// AssignTeams creates the challenge's teams and participants in one
// transaction. Membership is fixed at assignment time: the operation is only
// legal while the challenge is still in draft, and it replaces any previous
// draft-stage assignment wholesale.
func (s *ChallengeService) AssignTeams(challengeID uint, assignments []TeamAssignment) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnknownChallenge
		}
		return nil, err
	}
	if challenge.Status != models.ChallengeStatusDraft {
		return nil, models.ErrTeamsFrozen
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", challengeID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", challengeID).Delete(&models.Team{}).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, a := range assignments {
			team := models.Team{
				ChallengeID: challengeID,
				Name:        a.Name,
				Color:       a.Color,
				CreatedAt:   now,
			}
			if err := tx.Create(&team).Error; err != nil {
				return err
			}
			for _, name := range a.Participants {
				participant := models.Participant{
					TeamID:      team.ID,
					ChallengeID: challengeID,
					DisplayName: name,
					JoinToken:   utils.GenerateSecureToken(),
					CreatedAt:   now,
				}
				if err := tx.Create(&participant).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetChallenge(challengeID)
}

// GetChallenge retrieves a challenge with its teams and participants.
func (s *ChallengeService) GetChallenge(challengeID uint) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.
		Preload("Teams", func(db *gorm.DB) *gorm.DB {
			return db.Order("teams.created_at, teams.id")
		}).
		Preload("Teams.Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.id")
		}).
		First(&challenge, challengeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnknownChallenge
		}
		return nil, err
	}
	return &challenge, nil
}

// GetChallengeByAccessCode resolves the public join path.
func (s *ChallengeService) GetChallengeByAccessCode(code string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.Where("access_code = ?", code).First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnknownChallenge
		}
		return nil, err
	}
	return &challenge, nil
}

// ListChallenges returns all challenges for the admin console, newest first.
func (s *ChallengeService) ListChallenges() ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := s.db.Order("created_at DESC, id DESC").Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// GetParticipant loads one participant row.
func (s *ChallengeService) GetParticipant(participantID uint) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnknownParticipant
		}
		return nil, err
	}
	return &participant, nil
}

// seatClaimAllowed decides a join against the seat's claim state. The first
// join may arrive without a token; afterwards only the holder of the seat's
// token may rejoin.
func seatClaimAllowed(claimed bool, storedToken, presentedToken string) bool {
	if presentedToken != "" {
		return subtle.ConstantTimeCompare([]byte(storedToken), []byte(presentedToken)) == 1
	}
	return !claimed
}

// ClaimSeat matches a join request (access code + display name) to the seat
// the admin created for that student. The first join claims the seat and is
// handed its join token; every later join must present that token, so a
// student cannot take another's seat by typing their name. The claim UPDATE
// repeats the claimed_at IS NULL guard so two first-joins racing on one seat
// admit exactly one.
func (s *ChallengeService) ClaimSeat(accessCode, displayName, joinToken string) (*models.Participant, error) {
	challenge, err := s.GetChallengeByAccessCode(accessCode)
	if err != nil {
		return nil, err
	}

	var participant models.Participant
	err = s.db.Where("challenge_id = ? AND display_name = ?", challenge.ID, displayName).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnknownParticipant
		}
		return nil, err
	}

	if !seatClaimAllowed(participant.ClaimedAt != nil, participant.JoinToken, joinToken) {
		return nil, models.ErrSeatClaimed
	}

	if participant.ClaimedAt == nil {
		now := time.Now().UTC()
		res := s.db.Model(&models.Participant{}).
			Where("id = ? AND claimed_at IS NULL", participant.ID).
			Updates(map[string]interface{}{"claimed_at": now, "updated_at": now})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 && joinToken == "" {
			// Lost the race to a concurrent first join from another device.
			return nil, models.ErrSeatClaimed
		}
		participant.ClaimedAt = &now
	}
	return &participant, nil
}

// SaveCode overwrites a participant's html/css buffers. The lock check comes
// first and is unconditional; the editing-window check follows. The UPDATE
// repeats the is_locked guard so an edit racing a lockout can never land
// after the freeze.
func (s *ChallengeService) SaveCode(participantID uint, htmlCode, cssCode string) error {
	participant, err := s.GetParticipant(participantID)
	if err != nil {
		return err
	}
	if participant.IsLocked {
		return models.ErrParticipantLocked
	}

	var challenge models.Challenge
	if err := s.db.First(&challenge, participant.ChallengeID).Error; err != nil {
		return models.ErrUnknownChallenge
	}
	if !challenge.EditingOpen() {
		return models.ErrEditingDisabled
	}

	res := s.db.Model(&models.Participant{}).
		Where("id = ? AND is_locked = ?", participantID, false).
		Updates(map[string]interface{}{
			"html_code":  htmlCode,
			"css_code":   cssCode,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrParticipantLocked
	}
	return nil
}

// Submit stamps submitted_at, first write wins. A challenge end that races an
// explicit submit resolves the same way: whichever write lands first keeps
// its timestamp.
func (s *ChallengeService) Submit(participantID uint) (*models.Participant, error) {
	participant, err := s.GetParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if participant.IsLocked {
		return nil, models.ErrParticipantLocked
	}

	var challenge models.Challenge
	if err := s.db.First(&challenge, participant.ChallengeID).Error; err != nil {
		return nil, models.ErrUnknownChallenge
	}
	if !challenge.EditingOpen() {
		return nil, models.ErrEditingDisabled
	}

	now := time.Now().UTC()
	res := s.db.Model(&models.Participant{}).
		Where("id = ? AND submitted_at IS NULL", participantID).
		Updates(map[string]interface{}{"submitted_at": now, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}

	return s.GetParticipant(participantID)
}

// DeleteChallenge hard-deletes a challenge and everything it owns. Rejected
// while the challenge is running.
func (s *ChallengeService) DeleteChallenge(challengeID uint) error {
	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrUnknownChallenge
		}
		return err
	}
	if !challenge.Deletable() {
		return models.ErrChallengeRunning
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", challengeID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", challengeID).Delete(&models.Team{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Challenge{}, challengeID).Error
	})
}
