package model

import "testing"

func TestNormalizeClaimText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Paris is the capital of France.", "paris is the capital of france."},
		{"  Paris   is\tthe capital  ", "paris is the capital"},
		{"PARIS IS THE CAPITAL", "paris is the capital"},
	}
	for _, tc := range cases {
		if got := NormalizeClaimText(tc.in); got != tc.want {
			t.Errorf("NormalizeClaimText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClaimID_Stable(t *testing.T) {
	a := ClaimID("The Tower Is 324 Metres Tall.")
	b := ClaimID("the  tower is 324 metres tall.")
	if a != b {
		t.Errorf("Expected equal IDs for equivalent text, got %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("Expected 16 hex chars, got %d (%s)", len(a), a)
	}
	if a == ClaimID("a different claim entirely") {
		t.Error("Expected distinct IDs for distinct text")
	}
}

func TestCountDecisions(t *testing.T) {
	decisions := []Decision{
		{Action: ActionAccept},
		{Action: ActionAccept},
		{Action: ActionCorrect},
		{Action: ActionAbstain},
		{Action: ActionFlagForHuman},
	}

	got := CountDecisions(decisions)

	if got.Total != 5 {
		t.Errorf("Expected total 5, got %d", got.Total)
	}
	if got.Accepted != 2 || got.Corrected != 1 || got.Abstained != 1 || got.Flagged != 1 {
		t.Errorf("Unexpected breakdown: %+v", got)
	}
}

func TestSpan_Len(t *testing.T) {
	s := Span{Start: 10, End: 25}
	if s.Len() != 15 {
		t.Errorf("Expected length 15, got %d", s.Len())
	}
}
