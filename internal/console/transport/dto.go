package transport

import (
	"time"

	"lead_console_backend/internal/console/engine"
	"lead_console_backend/internal/console/repository"
	"lead_console_backend/platform/phone"

	"github.com/google/uuid"
)

// CreateFollowUpTaskRequest carries the optional overrides a user can attach
// when dispatching a follow-up task. An empty body is valid; a due date
// override must lie in the future.
type CreateFollowUpTaskRequest struct {
	Note  string     `json:"note" validate:"omitempty,max=500"`
	DueAt *time.Time `json:"dueAt" validate:"omitempty,gt"`
}

// Response DTOs

type PrimaryQuoteResponse struct {
	QuoteID          uuid.UUID `json:"quoteId"`
	Status           string    `json:"status"`
	PricingRequested bool      `json:"pricingRequested"`
	PricingReceived  bool      `json:"pricingReceived"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CommsRollupResponse struct {
	ThreadCount              int        `json:"threadCount"`
	HasUnread                bool       `json:"hasUnread"`
	IsAssigned               bool       `json:"isAssigned"`
	LastContactAt            *time.Time `json:"lastContactAt"`
	LastCustomerContactAt    *time.Time `json:"lastCustomerContactAt"`
	LastInternalContactAt    *time.Time `json:"lastInternalContactAt"`
	LastTouchDirection       *string    `json:"lastTouchDirection"`
	DaysSinceCustomerContact *int       `json:"daysSinceCustomerContact"`
}

type TemperatureResponse struct {
	Score   int      `json:"score"`
	Bucket  string   `json:"bucket"`
	Reasons []string `json:"reasons"`
}

type LeadViewResponse struct {
	OpportunityID    uuid.UUID             `json:"opportunityId"`
	CustomerID       uuid.UUID             `json:"customerId"`
	CustomerName     string                `json:"customerName"`
	CustomerEmail    *string               `json:"customerEmail"`
	CustomerPhone    *string               `json:"customerPhone"`
	Stage            string                `json:"stage"`
	IsActive         bool                  `json:"isActive"`
	PrimaryQuote     *PrimaryQuoteResponse `json:"primaryQuote"`
	Comms            CommsRollupResponse   `json:"comms"`
	Temperature      TemperatureResponse   `json:"temperature"`
	NextAction       string                `json:"nextAction"`
	NextActionReason string                `json:"nextActionReason"`
	FollowUpDueAt    *time.Time            `json:"followUpDueAt"`
}

type FollowUpTaskResponse struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueAt         *time.Time `json:"dueAt"`
	OpportunityID uuid.UUID  `json:"opportunityId"`
	CustomerID    uuid.UUID  `json:"customerId"`
	CustomerName  string     `json:"customerName"`
}

// ToLeadViewResponses maps composed views to the API shape, joining back the
// customer contact details the engine does not carry. Row order follows the
// view order.
func ToLeadViewResponses(views []engine.LeadView, rows []repository.Opportunity) []LeadViewResponse {
	contacts := make(map[uuid.UUID]repository.Opportunity, len(rows))
	for _, row := range rows {
		contacts[row.ID] = row
	}

	responses := make([]LeadViewResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, toLeadViewResponse(view, contacts[view.OpportunityID]))
	}
	return responses
}

func toLeadViewResponse(view engine.LeadView, row repository.Opportunity) LeadViewResponse {
	resp := LeadViewResponse{
		OpportunityID: view.OpportunityID,
		CustomerID:    view.CustomerID,
		CustomerName:  view.CustomerName,
		CustomerEmail: row.CustomerEmail,
		CustomerPhone: normalizedPhone(row.CustomerPhone),
		Stage:         string(view.Stage),
		IsActive:      view.IsActive,
		Comms: CommsRollupResponse{
			ThreadCount:              view.Comms.ThreadCount,
			HasUnread:                view.Comms.HasUnread,
			IsAssigned:               view.Comms.IsAssigned,
			LastContactAt:            view.Comms.LastContactAt,
			LastCustomerContactAt:    view.Comms.LastCustomerContactAt,
			LastInternalContactAt:    view.Comms.LastInternalContactAt,
			LastTouchDirection:       touchDirection(view.Comms.LastTouchDirection),
			DaysSinceCustomerContact: view.Comms.DaysSinceCustomerContact,
		},
		Temperature: TemperatureResponse{
			Score:   view.Temperature.Score,
			Bucket:  string(view.Temperature.Bucket),
			Reasons: view.Temperature.Reasons,
		},
		NextAction:       string(view.NextAction),
		NextActionReason: view.NextActionReason,
		FollowUpDueAt:    view.FollowUpDueAt,
	}
	if view.PrimaryQuote != nil {
		resp.PrimaryQuote = &PrimaryQuoteResponse{
			QuoteID:          view.PrimaryQuote.ID,
			Status:           view.PrimaryQuote.Status,
			PricingRequested: view.PrimaryQuote.PricingRequested,
			PricingReceived:  view.PrimaryQuote.PricingReceived,
			CreatedAt:        view.PrimaryQuote.CreatedAt,
		}
	}
	if resp.Temperature.Reasons == nil {
		resp.Temperature.Reasons = []string{}
	}
	return resp
}

func ToFollowUpTaskResponse(request engine.TaskCreationRequest) FollowUpTaskResponse {
	return FollowUpTaskResponse{
		Title:         request.Title,
		Description:   request.Description,
		DueAt:         request.DueAt,
		OpportunityID: request.OpportunityID,
		CustomerID:    request.CustomerID,
		CustomerName:  request.CustomerName,
	}
}

func touchDirection(direction engine.TouchDirection) *string {
	if direction == engine.TouchDirectionNone {
		return nil
	}
	s := string(direction)
	return &s
}

func normalizedPhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}
