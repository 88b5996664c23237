package services

import (
	"encoding/json"
	"testing"
	"time"

	"codeclash/models"
)

func TestSubmissionState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		p    models.Participant
		want string
	}{
		{name: "submitted", p: models.Participant{SubmittedAt: &now}, want: SubmissionStateCompleted},
		{name: "never submitted", p: models.Participant{}, want: SubmissionStateNone},
		{name: "locked", p: models.Participant{IsLocked: true}, want: SubmissionStateDisqualified},
		{name: "locked after submitting still disqualified", p: models.Participant{IsLocked: true, SubmittedAt: &now}, want: SubmissionStateDisqualified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := submissionState(&tt.p); got != tt.want {
				t.Errorf("submissionState() = %s, want %s", got, tt.want)
			}
		})
	}
}

func sampleTeams() []models.Team {
	submitted := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	return []models.Team{
		{
			ID: 1, Name: "Crimson", Color: "#d33",
			Participants: []models.Participant{
				{ID: 1, TeamID: 1, DisplayName: "Ada", HTMLCode: "<h1>a</h1>", CSSCode: "h1{}", SubmittedAt: &submitted},
				{ID: 2, TeamID: 1, DisplayName: "Bo", FocusViolations: 4, IsLocked: true},
			},
		},
		{
			ID: 2, Name: "Teal", Color: "#3aa",
			Participants: []models.Participant{
				{ID: 3, TeamID: 2, DisplayName: "Cy"},
			},
		},
	}
}

func TestBuildTeamResults(t *testing.T) {
	results := buildTeamResults(sampleTeams())

	if len(results) != 2 {
		t.Fatalf("got %d teams, want 2", len(results))
	}
	if results[0].Name != "Crimson" || results[1].Name != "Teal" {
		t.Errorf("team order changed: %s, %s", results[0].Name, results[1].Name)
	}

	crimson := results[0].Participants
	if len(crimson) != 2 {
		t.Fatalf("got %d participants, want 2", len(crimson))
	}
	if crimson[0].SubmissionState != SubmissionStateCompleted {
		t.Errorf("Ada state = %s, want %s", crimson[0].SubmissionState, SubmissionStateCompleted)
	}
	if crimson[1].SubmissionState != SubmissionStateDisqualified {
		t.Errorf("Bo state = %s, want %s", crimson[1].SubmissionState, SubmissionStateDisqualified)
	}
	if crimson[1].FocusViolations != 4 {
		t.Errorf("Bo violations = %d, want 4", crimson[1].FocusViolations)
	}
	if got := results[1].Participants[0].SubmissionState; got != SubmissionStateNone {
		t.Errorf("Cy state = %s, want %s", got, SubmissionStateNone)
	}

	// Final code survives into the results payload verbatim.
	if crimson[0].HTMLCode != "<h1>a</h1>" || crimson[0].CSSCode != "h1{}" {
		t.Error("final code not carried into results")
	}
}

// Repeated aggregation of unchanged data must be byte-identical; that is
// what makes the results screen safe to reload or export.
func TestBuildTeamResultsStable(t *testing.T) {
	first, err := json.Marshal(buildTeamResults(sampleTeams()))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(buildTeamResults(sampleTeams()))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("results serialization is not stable across calls")
	}
}
