// models/challenge.go - Live Coding Challenge Data Models
package models

import (
	"time"
)

// Challenge lifecycle constants
type ChallengeStatus string

const (
	ChallengeStatusDraft     ChallengeStatus = "draft"
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusPaused    ChallengeStatus = "paused"
	ChallengeStatusCompleted ChallengeStatus = "completed"
)

// Challenge represents one timed competitive coding exercise instance.
// AccessCode is the public join path; it is opaque and distinct from ID.
type Challenge struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Title           string          `json:"title" gorm:"not null;size:100"`
	Description     string          `json:"description" gorm:"type:text"`
	Instructions    string          `json:"instructions" gorm:"type:text"`
	AccessCode      string          `json:"access_code" gorm:"uniqueIndex;not null;size:32"`
	DurationMinutes int             `json:"duration_minutes" gorm:"not null;default:60"`
	Status          ChallengeStatus `json:"status" gorm:"not null;default:'draft';index"`
	EditingEnabled  bool            `json:"editing_enabled" gorm:"not null;default:false"`
	StartedAt       *time.Time      `json:"started_at"`
	EndedAt         *time.Time      `json:"ended_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Teams           []Team          `json:"teams,omitempty" gorm:"foreignKey:ChallengeID"`
}

// Team is a fixed group of participants competing together.
// Color carries no behavioral weight; it participates only in display ordering.
type Team struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	ChallengeID  uint          `json:"challenge_id" gorm:"not null;index"`
	Challenge    *Challenge    `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	Name         string        `json:"name" gorm:"not null;size:100"`
	Color        string        `json:"color" gorm:"size:20"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:TeamID"`
}

// Participant is one student's seat within a team. ChallengeID is denormalized
// so edit gating never needs a join. JoinToken is handed to the seat's own
// client on first join and required on every later join, so a student cannot
// take someone else's seat by typing their name; it is never exposed to other
// participants. ClaimedAt marks the first join.
type Participant struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	TeamID          uint       `json:"team_id" gorm:"not null;index"`
	Team            *Team      `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	ChallengeID     uint       `json:"challenge_id" gorm:"not null;index"`
	DisplayName     string     `json:"display_name" gorm:"not null;size:100"`
	JoinToken       string     `json:"-" gorm:"uniqueIndex;size:64"`
	ClaimedAt       *time.Time `json:"-"`
	HTMLCode        string     `json:"html_code" gorm:"type:text"`
	CSSCode         string     `json:"css_code" gorm:"type:text"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	FocusViolations int        `json:"focus_violations" gorm:"not null;default:0"`
	IsLocked        bool       `json:"is_locked" gorm:"not null;default:false"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

func (Team) TableName() string {
	return "teams"
}

func (Participant) TableName() string {
	return "participants"
}

// EditingOpen reports whether a write is allowed right now at the challenge
// level. This is the single predicate the whole engine gates edits on.
func (c *Challenge) EditingOpen() bool {
	return c.Status == ChallengeStatusActive && c.EditingEnabled
}

// Deletable reports whether a hard delete may proceed. Challenges that are
// running (active or paused) are never deletable.
func (c *Challenge) Deletable() bool {
	return c.Status == ChallengeStatusDraft || c.Status == ChallengeStatusCompleted
}
