package service

import (
	"time"

	"lead_console_backend/internal/console/engine"
	"lead_console_backend/internal/console/repository"
)

func mapOpportunity(row repository.Opportunity) engine.Opportunity {
	return engine.Opportunity{
		ID:             row.ID,
		CustomerID:     row.CustomerID,
		CustomerName:   row.CustomerName,
		Status:         deref(row.Status),
		Deleted:        row.DeletedAt != nil,
		Archived:       row.Archived,
		PrimaryQuoteID: row.PrimaryQuoteID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func mapOpportunities(rows []repository.Opportunity) []engine.Opportunity {
	opps := make([]engine.Opportunity, 0, len(rows))
	for _, row := range rows {
		opps = append(opps, mapOpportunity(row))
	}
	return opps
}

func mapQuotes(rows []repository.Quote) []engine.Quote {
	quotes := make([]engine.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, engine.Quote{
			ID:               row.ID,
			OpportunityID:    row.OpportunityID,
			Status:           deref(row.Status),
			Deleted:          row.DeletedAt != nil,
			PricingRequested: row.PricingRequested,
			PricingReceived:  row.PricingReceived,
			CreatedAt:        row.CreatedAt,
		})
	}
	return quotes
}

func mapThreads(rows []repository.EmailThread) []engine.EmailThread {
	threads := make([]engine.EmailThread, 0, len(rows))
	for _, row := range rows {
		threads = append(threads, engine.EmailThread{
			ID:                    row.ID,
			OpportunityID:         row.OpportunityID,
			Subject:               deref(row.Subject),
			Snippet:               deref(row.Snippet),
			Unread:                row.Unread,
			AssigneeID:            row.AssigneeID,
			LastCustomerMessageAt: derefTime(row.LastCustomerMessageAt),
			LastInternalMessageAt: derefTime(row.LastInternalMessageAt),
		})
	}
	return threads
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
