package followup

import (
	"context"
	"errors"
	"fmt"

	"lead_console_backend/internal/console/repository"
	"lead_console_backend/internal/email"
	"lead_console_backend/platform/config"
	"lead_console_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.TaskWriter
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskCreateFollowUp, w.handleCreateFollowUp)

	return w, nil
}

func (w *Worker) handleCreateFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCreateTaskPayload(task)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return err
	}

	oppID, err := uuid.Parse(payload.OpportunityID)
	if err != nil {
		return err
	}

	customerID, err := uuid.Parse(payload.CustomerID)
	if err != nil {
		return err
	}

	created, err := w.repo.CreateFollowUpTask(ctx, repository.CreateFollowUpTaskParams{
		OrganizationID: orgID,
		OpportunityID:  oppID,
		CustomerID:     customerID,
		Title:          payload.Title,
		Description:    payload.Description,
		DueAt:          payload.DueAt,
	})
	if err != nil {
		return err
	}

	w.log.Info("follow-up task created",
		"taskId", created.ID,
		"opportunityId", oppID,
		"organizationId", orgID)

	w.notifyAssignee(ctx, oppID, payload)

	return nil
}

// notifyAssignee sends a reminder to the conversation assignee when one
// exists. Delivery problems are logged, not retried: the task row is the
// source of truth and is already persisted.
func (w *Worker) notifyAssignee(ctx context.Context, oppID uuid.UUID, payload CreateTaskPayload) {
	if w.sender == nil {
		return
	}

	assigneeEmail, err := w.repo.AssigneeEmail(ctx, oppID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			w.log.Warn("assignee lookup failed", "opportunityId", oppID, "error", err)
		}
		return
	}
	if assigneeEmail == nil || *assigneeEmail == "" {
		return
	}

	if err := w.sender.SendFollowUpReminderEmail(ctx, *assigneeEmail,
		payload.CustomerName, payload.Title, payload.Description, payload.DueAt); err != nil {
		w.log.Warn("follow-up reminder email failed", "opportunityId", oppID, "error", err)
	}
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("follow-up worker stopped", "error", err)
	}
}
