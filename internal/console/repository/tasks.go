package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FollowUpTask is the persisted outcome of a follow-up recommendation. It is
// written by the task worker, never by the composition engine.
type FollowUpTask struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	OpportunityID  uuid.UUID
	CustomerID     uuid.UUID
	Title          string
	Description    string
	DueAt          *time.Time
	CreatedAt      time.Time
}

// CreateFollowUpTaskParams holds the insert payload for a follow-up task.
type CreateFollowUpTaskParams struct {
	OrganizationID uuid.UUID
	OpportunityID  uuid.UUID
	CustomerID     uuid.UUID
	Title          string
	Description    string
	DueAt          *time.Time
}

// CreateFollowUpTask inserts a follow-up task row.
func (r *Repository) CreateFollowUpTask(ctx context.Context, params CreateFollowUpTaskParams) (FollowUpTask, error) {
	var task FollowUpTask
	err := r.pool.QueryRow(ctx, `
		INSERT INTO follow_up_tasks (organization_id, opportunity_id, customer_id, title, description, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, organization_id, opportunity_id, customer_id, title, description, due_at, created_at
	`, params.OrganizationID, params.OpportunityID, params.CustomerID,
		params.Title, params.Description, params.DueAt,
	).Scan(&task.ID, &task.OrganizationID, &task.OpportunityID, &task.CustomerID,
		&task.Title, &task.Description, &task.DueAt, &task.CreatedAt)
	return task, err
}

// AssigneeEmail returns the email address of the user assigned to the most
// recent conversation on the opportunity, when there is one.
func (r *Repository) AssigneeEmail(ctx context.Context, opportunityID uuid.UUID) (*string, error) {
	var email *string
	err := r.pool.QueryRow(ctx, `
		SELECT u.email
		FROM email_threads t
		JOIN users u ON u.id = t.assignee_id
		WHERE t.opportunity_id = $1 AND t.assignee_id IS NOT NULL
		ORDER BY GREATEST(
			COALESCE(t.last_customer_message_at, 'epoch'::timestamptz),
			COALESCE(t.last_internal_message_at, 'epoch'::timestamptz)
		) DESC
		LIMIT 1
	`, opportunityID).Scan(&email)
	if err != nil {
		return nil, err
	}
	return email, nil
}
