package followup

import (
	"encoding/json"
	"time"

	"lead_console_backend/internal/console/engine"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskCreateFollowUp = "followup.task.create"

type CreateTaskPayload struct {
	OrganizationID string     `json:"organizationId"`
	OpportunityID  string     `json:"opportunityId"`
	CustomerID     string     `json:"customerId"`
	CustomerName   string     `json:"customerName"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueAt          *time.Time `json:"dueAt,omitempty"`
}

func NewCreateTaskPayload(organizationID uuid.UUID, request engine.TaskCreationRequest) CreateTaskPayload {
	return CreateTaskPayload{
		OrganizationID: organizationID.String(),
		OpportunityID:  request.OpportunityID.String(),
		CustomerID:     request.CustomerID.String(),
		CustomerName:   request.CustomerName,
		Title:          request.Title,
		Description:    request.Description,
		DueAt:          request.DueAt,
	}
}

func NewCreateFollowUpTask(payload CreateTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCreateFollowUp, data), nil
}

func ParseCreateTaskPayload(task *asynq.Task) (CreateTaskPayload, error) {
	var payload CreateTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CreateTaskPayload{}, err
	}
	return payload, nil
}
