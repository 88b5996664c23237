package services

import "testing"

func TestSeatClaimAllowed(t *testing.T) {
	const stored = "tok-for-this-seat"

	tests := []struct {
		name      string
		claimed   bool
		presented string
		want      bool
	}{
		{name: "first join without token", claimed: false, presented: "", want: true},
		{name: "first join with matching token", claimed: false, presented: stored, want: true},
		{name: "rejoin with matching token", claimed: true, presented: stored, want: true},
		{name: "rejoin without token", claimed: true, presented: "", want: false},
		{name: "rejoin with wrong token", claimed: true, presented: "tok-for-another-seat", want: false},
		{name: "unclaimed seat with wrong token", claimed: false, presented: "guess", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seatClaimAllowed(tt.claimed, stored, tt.presented)
			if got != tt.want {
				t.Errorf("seatClaimAllowed(%v, stored, %q) = %v, want %v", tt.claimed, tt.presented, got, tt.want)
			}
		})
	}
}
