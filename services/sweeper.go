// services/sweeper.go - Optional duration-expiry sweeper
//
// Ending on timer expiry is not automatic by default; `end` is an admin
// action. When AUTO_END_ENABLED=true this background worker ends overdue
// challenges by calling the exact same End transition the admin console
// uses, so the single-writer invariant holds on both paths.
package services

import (
	"log"
	"time"

	"codeclash/models"

	"gorm.io/gorm"
)

const sweepInterval = 30 * time.Second

type SweeperService struct {
	db       *gorm.DB
	sessions *SessionService
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeperService(db *gorm.DB, sessions *SessionService) *SweeperService {
	return &SweeperService{
		db:       db,
		sessions: sessions,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *SweeperService) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		log.Println("⏲️ Auto-end sweeper started")
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to finish.
func (s *SweeperService) Stop() {
	close(s.stop)
	<-s.done
	log.Println("⏲️ Auto-end sweeper stopped")
}

// sweep ends every active or paused challenge whose duration budget has
// elapsed. A pause does not stretch the budget; the classroom clock keeps
// running while the instructor talks.
func (s *SweeperService) sweep() {
	var overdue []models.Challenge
	err := s.db.
		Where("status IN ? AND started_at IS NOT NULL", []models.ChallengeStatus{
			models.ChallengeStatusActive,
			models.ChallengeStatusPaused,
		}).
		Where("started_at + (duration_minutes * interval '1 minute') < NOW()").
		Find(&overdue).Error
	if err != nil {
		log.Printf("⚠️ Sweeper query failed: %v", err)
		return
	}

	for _, challenge := range overdue {
		if _, err := s.sessions.End(challenge.ID); err != nil {
			// A concurrent admin end is fine; anything else is worth a line.
			if !models.IsInvalidTransition(err) {
				log.Printf("⚠️ Sweeper failed to end challenge %d: %v", challenge.ID, err)
			}
			continue
		}
		log.Printf("⏲️ Challenge %d auto-ended after %d minute budget", challenge.ID, challenge.DurationMinutes)
	}
}
