package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type stubSchedulerConfig struct {
	redisURL    string
	queue       string
	concurrency int
}

func (c stubSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c stubSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c stubSchedulerConfig) GetAsynqConcurrency() int  { return c.concurrency }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(stubSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestNewClientRejectsInvalidRedisURL(t *testing.T) {
	if _, err := NewClient(stubSchedulerConfig{redisURL: "not-a-url"}); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}

func TestEnqueueStage(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable: %v", err)
	}
	defer srv.Close()

	cfg := stubSchedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "staging"}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	entryID := uuid.New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.EnqueueStage(ctx, entryID); err != nil {
		t.Fatalf("EnqueueStage: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("staging")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskApprovalStageDue {
		t.Errorf("task type = %q, want %q", tasks[0].Type, TaskApprovalStageDue)
	}

	payload, err := ParseApprovalStageDuePayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseApprovalStageDuePayload: %v", err)
	}
	if payload.EntryID != entryID.String() {
		t.Errorf("payload entry id = %q, want %q", payload.EntryID, entryID)
	}
}

func TestParseApprovalStageDuePayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskApprovalStageDue, []byte("{"))
	if _, err := ParseApprovalStageDuePayload(task); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
