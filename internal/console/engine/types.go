// Package engine derives the lead console read-model from raw business
// records. Every function in this package is a pure computation: no I/O,
// no clocks, no mutation of its inputs. The composer recomputes the full
// view on every call, so identical inputs must always produce identical
// output.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is the read-only input record describing a sales opportunity.
// It is a normalized projection of the stored row; the engine never sees the
// database schema directly.
type Opportunity struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	CustomerName   string
	Status         string // lifecycle status, empty when unknown
	Deleted        bool
	Archived       bool
	PrimaryQuoteID *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Quote is the read-only input record describing a priced proposal.
type Quote struct {
	ID               uuid.UUID
	OpportunityID    uuid.UUID
	Status           string // draft, sent, approved
	Deleted          bool
	PricingRequested bool
	PricingReceived  bool
	CreatedAt        time.Time
}

// Quote status values as stored by the quoting module.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusApproved = "approved"
)

// EmailThread is the read-only input record describing one email
// conversation with the customer. A zero timestamp means "no message in
// that direction yet"; malformed source timestamps are mapped to zero
// before they reach the engine.
type EmailThread struct {
	ID                    uuid.UUID
	OpportunityID         uuid.UUID
	Subject               string
	Snippet               string
	Unread                bool
	AssigneeID            *uuid.UUID
	LastCustomerMessageAt time.Time
	LastInternalMessageAt time.Time
}

// QuoteSnapshot is the normalized projection of the resolved primary quote
// handed to the classifier stages. Downstream stages depend on this shape,
// never on Quote itself.
type QuoteSnapshot struct {
	ID               uuid.UUID
	Status           string
	PricingRequested bool
	PricingReceived  bool
	CreatedAt        time.Time
}

// TouchDirection identifies who sent the most recent message on an
// opportunity's conversations.
type TouchDirection string

const (
	TouchDirectionNone     TouchDirection = ""
	TouchDirectionCustomer TouchDirection = "customer"
	TouchDirectionInternal TouchDirection = "internal"
)

// CommsRollup aggregates an opportunity's email threads into per-opportunity
// contact statistics. Nil pointers mean "never happened".
type CommsRollup struct {
	ThreadCount              int
	HasUnread                bool
	IsAssigned               bool
	LastContactAt            *time.Time
	LastCustomerContactAt    *time.Time
	LastInternalContactAt    *time.Time
	LastTouchDirection       TouchDirection
	DaysSinceCustomerContact *int
}

// LeadStage is the discrete funnel position of an opportunity.
type LeadStage string

const (
	StageNew            LeadStage = "new"
	StageStalled        LeadStage = "stalled"
	StageQuoteRequested LeadStage = "quote_requested"
	StageQuoteSent      LeadStage = "quote_sent"
	StageQuoteApproved  LeadStage = "quote_approved"
	StageWon            LeadStage = "won"
	StageLost           LeadStage = "lost"
	StageCancelled      LeadStage = "cancelled"
)

// StageResult pairs the classified stage with its activity flag.
type StageResult struct {
	Stage    LeadStage
	IsActive bool
}

// TemperatureBucket is the coarse urgency classification of a lead.
type TemperatureBucket string

const (
	BucketHot  TemperatureBucket = "hot"
	BucketWarm TemperatureBucket = "warm"
	BucketCold TemperatureBucket = "cold"
)

// Temperature holds the explainable urgency score. Reasons are appended in
// rule evaluation order and form the explainability contract: identical
// input yields the identical list.
type Temperature struct {
	Score   int
	Bucket  TemperatureBucket
	Reasons []string
}

// NextAction is the single recommended operator action for a lead.
type NextAction string

const (
	ActionNone           NextAction = "none"
	ActionRequestPricing NextAction = "request_pricing"
	ActionFollowUp       NextAction = "follow_up_with_customer"
	ActionWait           NextAction = "wait"
)

// Recommendation is the output of the next-action stage.
type Recommendation struct {
	Action        NextAction
	Reason        string
	FollowUpDueAt *time.Time
}

// LeadView is the derived, ephemeral read-model for one opportunity. It is
// created fresh on every composition call and never persisted; every field
// is a pure function of the source opportunity, its resolved quote, and its
// communication rollup.
type LeadView struct {
	OpportunityID    uuid.UUID
	CustomerID       uuid.UUID
	CustomerName     string
	Stage            LeadStage
	IsActive         bool
	PrimaryQuote     *QuoteSnapshot
	Comms            CommsRollup
	Temperature      Temperature
	NextAction       NextAction
	NextActionReason string
	FollowUpDueAt    *time.Time
}

// TaskCreationRequest is the shape handed to the task-creation collaborator.
// The engine only constructs it; a separate caller submits it.
type TaskCreationRequest struct {
	Title         string
	Description   string
	DueAt         *time.Time
	OpportunityID uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string
}
