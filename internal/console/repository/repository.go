package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("opportunity not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Opportunity is the stored sales opportunity row. The console only ever
// reads it; writes belong to the surrounding application.
type Opportunity struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	CustomerID     uuid.UUID
	CustomerName   string
	CustomerEmail  *string
	CustomerPhone  *string
	Status         *string
	DeletedAt      *time.Time
	Archived       bool
	PrimaryQuoteID *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Quote is the stored quote row joined to its opportunity.
type Quote struct {
	ID               uuid.UUID
	OpportunityID    uuid.UUID
	Status           *string
	DeletedAt        *time.Time
	PricingRequested bool
	PricingReceived  bool
	CreatedAt        time.Time
}

// EmailThread is the stored email conversation row.
type EmailThread struct {
	ID                    uuid.UUID
	OpportunityID         uuid.UUID
	Subject               *string
	Snippet               *string
	Unread                bool
	AssigneeID            *uuid.UUID
	LastCustomerMessageAt *time.Time
	LastInternalMessageAt *time.Time
}

const opportunityColumns = `
	id, organization_id, customer_id, customer_name, customer_email,
	customer_phone, status, deleted_at, archived, primary_quote_id,
	created_at, updated_at`

func scanOpportunity(row pgx.Row) (Opportunity, error) {
	var opp Opportunity
	err := row.Scan(
		&opp.ID, &opp.OrganizationID, &opp.CustomerID, &opp.CustomerName,
		&opp.CustomerEmail, &opp.CustomerPhone, &opp.Status, &opp.DeletedAt,
		&opp.Archived, &opp.PrimaryQuoteID, &opp.CreatedAt, &opp.UpdatedAt,
	)
	return opp, err
}

// ListOpportunities returns every opportunity for the organization in
// creation order. Soft-deleted rows are included; the composition engine
// filters them so that eligibility lives in exactly one place.
func (r *Repository) ListOpportunities(ctx context.Context, organizationID uuid.UUID) ([]Opportunity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+opportunityColumns+`
		FROM opportunities
		WHERE organization_id = $1
		ORDER BY created_at ASC, id ASC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Opportunity, 0)
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, opp)
	}
	return items, rows.Err()
}

// GetOpportunity fetches one opportunity scoped to the organization.
func (r *Repository) GetOpportunity(ctx context.Context, id, organizationID uuid.UUID) (Opportunity, error) {
	opp, err := scanOpportunity(r.pool.QueryRow(ctx, `
		SELECT `+opportunityColumns+`
		FROM opportunities
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Opportunity{}, ErrNotFound
	}
	return opp, err
}

// ListQuotes returns all quote rows for the organization's opportunities in
// one query; the composer groups them per opportunity in memory.
func (r *Repository) ListQuotes(ctx context.Context, organizationID uuid.UUID) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.opportunity_id, q.status, q.deleted_at,
		       q.pricing_requested, q.pricing_received, q.created_at
		FROM quotes q
		JOIN opportunities o ON o.id = q.opportunity_id
		WHERE o.organization_id = $1
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuotes(rows)
}

// ListQuotesForOpportunity returns the quote rows for a single opportunity.
func (r *Repository) ListQuotesForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, opportunity_id, status, deleted_at,
		       pricing_requested, pricing_received, created_at
		FROM quotes
		WHERE opportunity_id = $1
	`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuotes(rows)
}

func collectQuotes(rows pgx.Rows) ([]Quote, error) {
	items := make([]Quote, 0)
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.OpportunityID, &q.Status, &q.DeletedAt,
			&q.PricingRequested, &q.PricingReceived, &q.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	return items, rows.Err()
}

// ListEmailThreads returns all conversation rows for the organization's
// opportunities in one query.
func (r *Repository) ListEmailThreads(ctx context.Context, organizationID uuid.UUID) ([]EmailThread, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.opportunity_id, t.subject, t.snippet, t.unread,
		       t.assignee_id, t.last_customer_message_at, t.last_internal_message_at
		FROM email_threads t
		JOIN opportunities o ON o.id = t.opportunity_id
		WHERE o.organization_id = $1
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectThreads(rows)
}

// ListEmailThreadsForOpportunity returns the conversation rows for a single
// opportunity.
func (r *Repository) ListEmailThreadsForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]EmailThread, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, opportunity_id, subject, snippet, unread,
		       assignee_id, last_customer_message_at, last_internal_message_at
		FROM email_threads
		WHERE opportunity_id = $1
	`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectThreads(rows)
}

func collectThreads(rows pgx.Rows) ([]EmailThread, error) {
	items := make([]EmailThread, 0)
	for rows.Next() {
		var t EmailThread
		if err := rows.Scan(&t.ID, &t.OpportunityID, &t.Subject, &t.Snippet, &t.Unread,
			&t.AssigneeID, &t.LastCustomerMessageAt, &t.LastInternalMessageAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
