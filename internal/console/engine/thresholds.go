package engine

import (
	"fmt"

	"lead_console_backend/platform/apperr"
)

// Thresholds supplies every numeric cutoff used by the classifier, scorer,
// and recommender stages. It is passed explicitly into every stage so the
// pipeline stays testable with synthetic tuning and reusable across tenants.
// A zero value for an individual field disables its contribution rather
// than crashing.
type Thresholds struct {
	// StalledAfterDays marks an opportunity without quote activity as
	// stalled once the customer has been silent this many days.
	StalledAfterDays int `yaml:"stalledAfterDays"`

	// ReplyOwedAfterDays is how many days a customer-last-touched
	// conversation may sit before a follow-up is recommended.
	ReplyOwedAfterDays int `yaml:"replyOwedAfterDays"`

	// FollowUpSLAHours sets the follow-up due date relative to the last
	// customer contact.
	FollowUpSLAHours int `yaml:"followUpSLAHours"`

	// Recency bands for the temperature scorer.
	RecentContactDays int `yaml:"recentContactDays"`
	StaleContactDays  int `yaml:"staleContactDays"`

	// Score weights. StageBaseScores is keyed by lead stage; stages absent
	// from the map contribute nothing.
	StageBaseScores     map[LeadStage]int `yaml:"stageBaseScores"`
	RecentContactBonus  int               `yaml:"recentContactBonus"`
	StaleContactPenalty int               `yaml:"staleContactPenalty"`
	UnreadBonus         int               `yaml:"unreadBonus"`
	UnassignedPenalty   int               `yaml:"unassignedPenalty"`

	// Bucket boundaries: hot at score >= HotAt, warm at score >= WarmAt,
	// cold below.
	HotAt  int `yaml:"hotAt"`
	WarmAt int `yaml:"warmAt"`
}

// DefaultThresholds returns the tuning used when the hosting application
// supplies none.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StalledAfterDays:   14,
		ReplyOwedAfterDays: 3,
		FollowUpSLAHours:   48,
		RecentContactDays:  2,
		StaleContactDays:   14,
		StageBaseScores: map[LeadStage]int{
			StageNew:            30,
			StageStalled:        10,
			StageQuoteRequested: 40,
			StageQuoteSent:      50,
			StageQuoteApproved:  70,
		},
		RecentContactBonus:  15,
		StaleContactPenalty: 20,
		UnreadBonus:         10,
		UnassignedPenalty:   10,
		HotAt:               60,
		WarmAt:              30,
	}
}

// Validate reports a configuration wiring bug as a typed error. Data-quality
// problems never reach here; a failing Validate means the hosting
// application assembled an impossible tuning and must not proceed.
func (t Thresholds) Validate() error {
	if t.HotAt <= t.WarmAt {
		return apperr.InvalidConfiguration(
			fmt.Sprintf("temperature buckets misordered: hotAt (%d) must exceed warmAt (%d)", t.HotAt, t.WarmAt))
	}
	if t.WarmAt < 0 {
		return apperr.InvalidConfiguration("warmAt must not be negative")
	}
	if t.RecentContactDays > 0 && t.StaleContactDays > 0 && t.RecentContactDays >= t.StaleContactDays {
		return apperr.InvalidConfiguration(
			fmt.Sprintf("recency bands overlap: recentContactDays (%d) must be below staleContactDays (%d)",
				t.RecentContactDays, t.StaleContactDays))
	}
	for _, v := range []struct {
		name  string
		value int
	}{
		{"stalledAfterDays", t.StalledAfterDays},
		{"replyOwedAfterDays", t.ReplyOwedAfterDays},
		{"followUpSLAHours", t.FollowUpSLAHours},
		{"recentContactDays", t.RecentContactDays},
		{"staleContactDays", t.StaleContactDays},
		{"recentContactBonus", t.RecentContactBonus},
		{"staleContactPenalty", t.StaleContactPenalty},
		{"unreadBonus", t.UnreadBonus},
		{"unassignedPenalty", t.UnassignedPenalty},
	} {
		if v.value < 0 {
			return apperr.InvalidConfiguration(v.name + " must not be negative")
		}
	}
	for stage, score := range t.StageBaseScores {
		if score < 0 {
			return apperr.InvalidConfiguration(fmt.Sprintf("stage base score for %q must not be negative", stage))
		}
	}
	return nil
}
