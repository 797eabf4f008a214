// Package scheduler provides the asynq task queue integration for approval
// staging: task codecs, the enqueue client, the worker and the outbox
// dispatcher.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskApprovalStageDue = "approval.stage.due"

type ApprovalStageDuePayload struct {
	EntryID string `json:"entryId"`
}

func NewApprovalStageDueTask(payload ApprovalStageDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskApprovalStageDue, data), nil
}

func ParseApprovalStageDuePayload(task *asynq.Task) (ApprovalStageDuePayload, error) {
	var payload ApprovalStageDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ApprovalStageDuePayload{}, err
	}
	return payload, nil
}
