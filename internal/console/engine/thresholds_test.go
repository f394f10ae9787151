package engine

import (
	"testing"

	"lead_console_backend/platform/apperr"
)

func TestThresholdsValidate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"hot below warm", func(th *Thresholds) { th.HotAt = 20; th.WarmAt = 30 }},
		{"hot equals warm", func(th *Thresholds) { th.HotAt = th.WarmAt }},
		{"negative warm", func(th *Thresholds) { th.WarmAt = -1; th.HotAt = 10 }},
		{"overlapping recency bands", func(th *Thresholds) { th.RecentContactDays = 14; th.StaleContactDays = 14 }},
		{"negative stalled days", func(th *Thresholds) { th.StalledAfterDays = -1 }},
		{"negative weight", func(th *Thresholds) { th.UnreadBonus = -5 }},
		{"negative stage score", func(th *Thresholds) { th.StageBaseScores[StageNew] = -30 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			thresholds := DefaultThresholds()
			tc.mutate(&thresholds)
			err := thresholds.Validate()
			if apperr.GetKind(err) != apperr.KindInvalidConfiguration {
				t.Fatalf("expected InvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestThresholdsValidate_DisabledBandsAreFine(t *testing.T) {
	thresholds := DefaultThresholds()
	thresholds.RecentContactDays = 0
	thresholds.StaleContactDays = 0
	if err := thresholds.Validate(); err != nil {
		t.Fatalf("zeroed bands must validate, got %v", err)
	}
}
