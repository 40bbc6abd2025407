package match_test

import (
	"testing"

	"BetPool/internal/match"
)

func TestMatch_Validate(t *testing.T) {
	cases := []struct {
		name    string
		m       match.Match
		wantErr bool
	}{
		{
			name: "valid",
			m:    match.Match{ID: "m1", Team1: "SRH", Team2: "MI", Winner: "SRH"},
		},
		{
			name:    "missing team1",
			m:       match.Match{ID: "m2", Team2: "MI", Winner: "MI"},
			wantErr: true,
		},
		{
			name:    "missing team2",
			m:       match.Match{ID: "m3", Team1: "SRH", Winner: "SRH"},
			wantErr: true,
		},
		{
			name:    "missing winner",
			m:       match.Match{ID: "m4", Team1: "SRH", Team2: "MI"},
			wantErr: true,
		},
		{
			name:    "winner not in pair",
			m:       match.Match{ID: "m5", Team1: "SRH", Team2: "MI", Winner: "CSK"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			if tc.wantErr && err == nil {
				t.Error("want error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("want nil, got %v", err)
			}
		})
	}
}

func TestMatch_Label(t *testing.T) {
	m := match.Match{Team1: "SRH", Team2: "MI"}
	if got := m.Label(); got != "SRH vs MI" {
		t.Errorf("Label = %q, want %q", got, "SRH vs MI")
	}
}
