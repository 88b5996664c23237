package models

import (
	"errors"
	"testing"
)

func TestEditingOpen(t *testing.T) {
	tests := []struct {
		name    string
		status  ChallengeStatus
		editing bool
		want    bool
	}{
		{name: "active with editing", status: ChallengeStatusActive, editing: true, want: true},
		{name: "active frozen", status: ChallengeStatusActive, editing: false, want: false},
		{name: "paused", status: ChallengeStatusPaused, editing: false, want: false},
		{name: "draft", status: ChallengeStatusDraft, editing: false, want: false},
		{name: "completed", status: ChallengeStatusCompleted, editing: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Challenge{Status: tt.status, EditingEnabled: tt.editing}
			if got := c.EditingOpen(); got != tt.want {
				t.Errorf("EditingOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeletable(t *testing.T) {
	deletable := map[ChallengeStatus]bool{
		ChallengeStatusDraft:     true,
		ChallengeStatusActive:    false,
		ChallengeStatusPaused:    false,
		ChallengeStatusCompleted: true,
	}
	for status, want := range deletable {
		c := Challenge{Status: status}
		if got := c.Deletable(); got != want {
			t.Errorf("Deletable() for %s = %v, want %v", status, got, want)
		}
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := error(&InvalidTransitionError{Action: "start", From: ChallengeStatusActive})

	if msg := err.Error(); msg != "cannot start a active challenge" {
		t.Errorf("unexpected message: %q", msg)
	}
	if !IsInvalidTransition(err) {
		t.Error("IsInvalidTransition() = false for InvalidTransitionError")
	}
	if IsInvalidTransition(errors.New("boom")) {
		t.Error("IsInvalidTransition() = true for unrelated error")
	}

	var ite *InvalidTransitionError
	if !errors.As(err, &ite) || ite.From != ChallengeStatusActive {
		t.Error("errors.As failed to recover transition details")
	}
}
