package service

import (
	"context"
	"errors"
	"time"

	"lead_console_backend/internal/console/engine"
	"lead_console_backend/internal/console/repository"
	"lead_console_backend/internal/console/transport"
	"lead_console_backend/internal/followup"
	"lead_console_backend/platform/apperr"
	"lead_console_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

// TaskEnqueuer hands a follow-up task request to the background queue.
type TaskEnqueuer interface {
	EnqueueFollowUpTask(ctx context.Context, payload followup.CreateTaskPayload) error
}

// Service composes lead views from stored records and dispatches follow-up
// tasks. All derivation happens in the engine package; this layer only
// fetches, maps, and caches.
type Service struct {
	repo       repository.SnapshotReader
	enqueuer   TaskEnqueuer
	cache      *ViewCache
	thresholds engine.Thresholds
	log        *logger.Logger
	now        func() time.Time
}

func New(repo repository.SnapshotReader, enqueuer TaskEnqueuer, cache *ViewCache, thresholds engine.Thresholds, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		enqueuer:   enqueuer,
		cache:      cache,
		thresholds: thresholds,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListLeadViews returns the composed lead console for the organization.
// The three record collections are fetched concurrently; composition itself
// is synchronous and pure. Results are cached briefly per organization; a
// cache failure falls back to recomputation.
func (s *Service) ListLeadViews(ctx context.Context, organizationID uuid.UUID) ([]transport.LeadViewResponse, error) {
	if s.cache != nil {
		if views, ok := s.cache.Get(ctx, organizationID); ok {
			return views, nil
		}
	}

	opps, quotes, threads, err := s.fetchSnapshot(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	views, err := engine.ComputeLeadViews(
		mapOpportunities(opps), mapQuotes(quotes), mapThreads(threads),
		s.thresholds, s.now())
	if err != nil {
		return nil, err
	}

	responses := transport.ToLeadViewResponses(views, opps)
	if s.cache != nil {
		s.cache.Set(ctx, organizationID, responses)
	}
	return responses, nil
}

// CreateFollowUpTask recomputes the lead view for one opportunity and
// enqueues the resulting task request, applying the caller's optional due
// date and note overrides. The engine's InvalidState error (no actionable
// next step) propagates to the caller untouched.
func (s *Service) CreateFollowUpTask(ctx context.Context, organizationID, opportunityID uuid.UUID, overrides transport.CreateFollowUpTaskRequest) (transport.FollowUpTaskResponse, error) {
	oppRow, err := s.repo.GetOpportunity(ctx, opportunityID, organizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.FollowUpTaskResponse{}, ErrOpportunityNotFound
		}
		return transport.FollowUpTaskResponse{}, err
	}

	var quotes []repository.Quote
	var threads []repository.EmailThread
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quotes, err = s.repo.ListQuotesForOpportunity(gctx, opportunityID)
		return err
	})
	g.Go(func() error {
		var err error
		threads, err = s.repo.ListEmailThreadsForOpportunity(gctx, opportunityID)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.FollowUpTaskResponse{}, err
	}

	opp := mapOpportunity(oppRow)
	views, err := engine.ComputeLeadViews(
		[]engine.Opportunity{opp}, mapQuotes(quotes), mapThreads(threads),
		s.thresholds, s.now())
	if err != nil {
		return transport.FollowUpTaskResponse{}, err
	}
	if len(views) == 0 {
		return transport.FollowUpTaskResponse{}, ErrOpportunityNotFound
	}

	request, err := engine.NewFollowUpTask(views[0], opp)
	if err != nil {
		return transport.FollowUpTaskResponse{}, err
	}
	if overrides.DueAt != nil {
		request.DueAt = overrides.DueAt
	}
	if overrides.Note != "" {
		request.Description = request.Description + "\n\n" + overrides.Note
	}

	if s.enqueuer == nil {
		return transport.FollowUpTaskResponse{}, apperr.InvalidConfiguration("follow-up task queue is not configured")
	}
	if err := s.enqueuer.EnqueueFollowUpTask(ctx, followup.NewCreateTaskPayload(organizationID, request)); err != nil {
		return transport.FollowUpTaskResponse{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, organizationID)
	}

	return transport.ToFollowUpTaskResponse(request), nil
}

// FlushLeadViewCache drops the organization's cached console so the next
// listing recomputes from storage. A nil cache is a no-op.
func (s *Service) FlushLeadViewCache(ctx context.Context, organizationID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, organizationID)
	}
}

func (s *Service) fetchSnapshot(ctx context.Context, organizationID uuid.UUID) ([]repository.Opportunity, []repository.Quote, []repository.EmailThread, error) {
	var (
		opps    []repository.Opportunity
		quotes  []repository.Quote
		threads []repository.EmailThread
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opps, err = s.repo.ListOpportunities(gctx, organizationID)
		return err
	})
	g.Go(func() error {
		var err error
		quotes, err = s.repo.ListQuotes(gctx, organizationID)
		return err
	})
	g.Go(func() error {
		var err error
		threads, err = s.repo.ListEmailThreads(gctx, organizationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return opps, quotes, threads, nil
}
