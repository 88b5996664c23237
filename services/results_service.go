// services/results_service.go - Post-challenge results aggregation
//
// Stable grouping and ordering (team creation order, then participant id)
// makes repeated calls against unchanged data byte-identical, so the results
// screen can be reloaded or exported without visible reordering.
package services

import (
	"errors"
	"time"

	"codeclash/models"

	"gorm.io/gorm"
)

// Submission states as the results screen renders them. A locked participant
// is terminally disqualified regardless of anything else; "no submission" is
// never coerced into "completed".
const (
	SubmissionStateCompleted    = "completed"
	SubmissionStateDisqualified = "disqualified"
	SubmissionStateNone         = "no_submission"
)

type ParticipantResult struct {
	ParticipantID   uint       `json:"participant_id"`
	DisplayName     string     `json:"display_name"`
	HTMLCode        string     `json:"html_code"`
	CSSCode         string     `json:"css_code"`
	FocusViolations int        `json:"focus_violations"`
	IsLocked        bool       `json:"is_locked"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	SubmissionState string     `json:"submission_state"`
}

type TeamResult struct {
	TeamID       uint                `json:"team_id"`
	Name         string              `json:"name"`
	Color        string              `json:"color"`
	Participants []ParticipantResult `json:"participants"`
}

type ResultsService struct {
	db *gorm.DB
}

func NewResultsService(db *gorm.DB) *ResultsService {
	return &ResultsService{db: db}
}

// submissionState classifies one participant's terminal state.
func submissionState(p *models.Participant) string {
	if p.IsLocked {
		return SubmissionStateDisqualified
	}
	if p.SubmittedAt != nil {
		return SubmissionStateCompleted
	}
	return SubmissionStateNone
}

// buildTeamResults converts preloaded teams into the results payload. Pure:
// ordering is whatever the caller loaded, fields are copied verbatim.
func buildTeamResults(teams []models.Team) []TeamResult {
	results := make([]TeamResult, 0, len(teams))
	for _, team := range teams {
		tr := TeamResult{
			TeamID:       team.ID,
			Name:         team.Name,
			Color:        team.Color,
			Participants: make([]ParticipantResult, 0, len(team.Participants)),
		}
		for i := range team.Participants {
			p := &team.Participants[i]
			tr.Participants = append(tr.Participants, ParticipantResult{
				ParticipantID:   p.ID,
				DisplayName:     p.DisplayName,
				HTMLCode:        p.HTMLCode,
				CSSCode:         p.CSSCode,
				FocusViolations: p.FocusViolations,
				IsLocked:        p.IsLocked,
				SubmittedAt:     p.SubmittedAt,
				SubmissionState: submissionState(p),
			})
		}
		results = append(results, tr)
	}
	return results
}

// BuildResults assembles the per-team, per-participant results view.
func (s *ResultsService) BuildResults(challengeID uint) ([]TeamResult, error) {
	var teams []models.Team
	err := s.db.
		Where("challenge_id = ?", challengeID).
		Order("created_at, id").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.id")
		}).
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		var count int64
		s.db.Model(&models.Challenge{}).Where("id = ?", challengeID).Count(&count)
		if count == 0 {
			return nil, models.ErrUnknownChallenge
		}
	}
	return buildTeamResults(teams), nil
}

// MonitorRow is one line of the admin's live monitor table.
type MonitorRow struct {
	ParticipantID   uint   `json:"participant_id"`
	TeamID          uint   `json:"team_id"`
	TeamName        string `json:"team_name"`
	DisplayName     string `json:"display_name"`
	FocusViolations int    `json:"focus_violations"`
	IsLocked        bool   `json:"is_locked"`
	HasSubmitted    bool   `json:"has_submitted"`
}

// MonitorSnapshot builds the live per-participant violation/lock table the
// admin watches while a challenge runs. Same stable ordering as results.
func (s *ResultsService) MonitorSnapshot(challengeID uint) ([]MonitorRow, error) {
	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUnknownChallenge
		}
		return nil, err
	}

	var teams []models.Team
	err := s.db.
		Where("challenge_id = ?", challengeID).
		Order("created_at, id").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.id")
		}).
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	rows := make([]MonitorRow, 0)
	for _, team := range teams {
		for i := range team.Participants {
			p := &team.Participants[i]
			rows = append(rows, MonitorRow{
				ParticipantID:   p.ID,
				TeamID:          team.ID,
				TeamName:        team.Name,
				DisplayName:     p.DisplayName,
				FocusViolations: p.FocusViolations,
				IsLocked:        p.IsLocked,
				HasSubmitted:    p.SubmittedAt != nil,
			})
		}
	}
	return rows, nil
}
