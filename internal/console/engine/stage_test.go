package engine

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func TestComputeLeadStage_TerminalStatusShortCircuits(t *testing.T) {
	cases := []struct {
		status string
		want   LeadStage
	}{
		{"Won", StageWon},
		{"Lost", StageLost},
		{"Cancelled", StageCancelled},
	}

	// A sent quote and stalled comms would otherwise classify differently;
	// terminal status must win regardless.
	quote := &QuoteSnapshot{Status: QuoteStatusSent}
	rollup := CommsRollup{DaysSinceCustomerContact: intPtr(30)}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			result := ComputeLeadStage(Opportunity{Status: tc.status}, quote, rollup, DefaultThresholds())
			if result.Stage != tc.want {
				t.Fatalf("expected stage %s, got %s", tc.want, result.Stage)
			}
			if result.IsActive {
				t.Fatal("terminal stages must be inactive")
			}
		})
	}
}

func TestComputeLeadStage_QuoteDerivedStages(t *testing.T) {
	cases := []struct {
		name  string
		quote *QuoteSnapshot
		want  LeadStage
	}{
		{"approved", &QuoteSnapshot{Status: QuoteStatusApproved}, StageQuoteApproved},
		{"sent", &QuoteSnapshot{Status: QuoteStatusSent}, StageQuoteSent},
		{"pricing received", &QuoteSnapshot{Status: QuoteStatusDraft, PricingReceived: true}, StageQuoteRequested},
		{"pricing requested", &QuoteSnapshot{Status: QuoteStatusDraft, PricingRequested: true}, StageQuoteRequested},
		{"approved beats pricing flags", &QuoteSnapshot{Status: QuoteStatusApproved, PricingRequested: true}, StageQuoteApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeLeadStage(Opportunity{Status: "New"}, tc.quote, CommsRollup{}, DefaultThresholds())
			if result.Stage != tc.want {
				t.Fatalf("expected stage %s, got %s", tc.want, result.Stage)
			}
			if !result.IsActive {
				t.Fatal("quote-derived stages must be active")
			}
		})
	}
}

func TestComputeLeadStage_BareDraftFallsThrough(t *testing.T) {
	quote := &QuoteSnapshot{Status: QuoteStatusDraft}
	result := ComputeLeadStage(Opportunity{}, quote, CommsRollup{}, DefaultThresholds())
	if result.Stage != StageNew {
		t.Fatalf("draft without pricing activity should stay new, got %s", result.Stage)
	}
}

func TestComputeLeadStage_StalledOnCustomerSilence(t *testing.T) {
	thresholds := DefaultThresholds()

	result := ComputeLeadStage(Opportunity{}, nil, CommsRollup{DaysSinceCustomerContact: intPtr(14)}, thresholds)
	if result.Stage != StageStalled {
		t.Fatalf("expected stalled at exactly the threshold, got %s", result.Stage)
	}

	result = ComputeLeadStage(Opportunity{}, nil, CommsRollup{DaysSinceCustomerContact: intPtr(13)}, thresholds)
	if result.Stage != StageNew {
		t.Fatalf("expected new below the threshold, got %s", result.Stage)
	}
}

func TestComputeLeadStage_NeverContactedStaysNew(t *testing.T) {
	result := ComputeLeadStage(Opportunity{}, nil, CommsRollup{}, DefaultThresholds())
	if result.Stage != StageNew {
		t.Fatalf("expected new for absent contact data, got %s", result.Stage)
	}
	if !result.IsActive {
		t.Fatal("new leads must be active")
	}
}

func TestComputeLeadStage_DisabledStalledThreshold(t *testing.T) {
	thresholds := DefaultThresholds()
	thresholds.StalledAfterDays = 0

	result := ComputeLeadStage(Opportunity{}, nil, CommsRollup{DaysSinceCustomerContact: intPtr(365)}, thresholds)
	if result.Stage != StageNew {
		t.Fatalf("zero threshold disables stalling, got %s", result.Stage)
	}
}

func TestComputeLeadStage_IsTotal(t *testing.T) {
	statuses := []string{"", "New", "Won", "Lost", "Cancelled", "Garbage"}
	quotes := []*QuoteSnapshot{nil, {Status: QuoteStatusDraft}, {Status: QuoteStatusSent}}
	rollups := []CommsRollup{{}, {DaysSinceCustomerContact: intPtr(100)}}

	known := map[LeadStage]bool{
		StageNew: true, StageStalled: true,
		StageQuoteRequested: true, StageQuoteSent: true, StageQuoteApproved: true,
		StageWon: true, StageLost: true, StageCancelled: true,
	}

	for _, status := range statuses {
		for _, quote := range quotes {
			for _, rollup := range rollups {
				result := ComputeLeadStage(Opportunity{Status: status}, quote, rollup, DefaultThresholds())
				if !known[result.Stage] {
					t.Fatalf("status %q produced unknown stage %q", status, result.Stage)
				}
				if result.IsActive == IsTerminalStage(result.Stage) {
					t.Fatalf("activity flag inconsistent for stage %s", result.Stage)
				}
			}
		}
	}
}
