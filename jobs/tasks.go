package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSettlementFanOut expands the weekly cron tick into per-company runs.
	TaskSettlementFanOut = "settlement:fanout"
	// TaskSettlementRun settles one company's current week.
	TaskSettlementRun = "settlement:run"
)

// SettlementRunPayload identifies one company's weekly run.
type SettlementRunPayload struct {
	CompanyID    int64     `json:"company_id"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSettlementFanOutTask constructs the cron-triggered fan-out task.
func NewSettlementFanOutTask() *asynq.Task {
	return asynq.NewTask(TaskSettlementFanOut, nil, asynq.Queue(QueueDefault))
}

// NewSettlementRunTask constructs a per-company settlement task.
func NewSettlementRunTask(companyID int64, scheduledFor time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SettlementRunPayload{CompanyID: companyID, ScheduledFor: scheduledFor})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSettlementRun, body, asynq.Queue(QueueDefault)), nil
}
