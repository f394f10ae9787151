package repository

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotReader provides the read-only record collections the composition
// engine consumes. Implementations must not mutate the underlying rows.
type SnapshotReader interface {
	ListOpportunities(ctx context.Context, organizationID uuid.UUID) ([]Opportunity, error)
	GetOpportunity(ctx context.Context, id, organizationID uuid.UUID) (Opportunity, error)
	ListQuotes(ctx context.Context, organizationID uuid.UUID) ([]Quote, error)
	ListQuotesForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]Quote, error)
	ListEmailThreads(ctx context.Context, organizationID uuid.UUID) ([]EmailThread, error)
	ListEmailThreadsForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]EmailThread, error)
}

// TaskWriter persists follow-up tasks produced by the task worker.
type TaskWriter interface {
	CreateFollowUpTask(ctx context.Context, params CreateFollowUpTaskParams) (FollowUpTask, error)
	AssigneeEmail(ctx context.Context, opportunityID uuid.UUID) (*string, error)
}
