package queue

import (
	"context"
	"fmt"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	json "github.com/goccy/go-json"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

const DefaultTaskName = "insert_reports"

// TaskSender is the part of *machinery.Server used to publish tasks.
type TaskSender interface {
	SendTaskWithContext(ctx context.Context, signature *tasks.Signature) (*result.AsyncResult, error)
}

// TaskQueue hands each batch to the background workers as a single
// machinery task carrying the JSON encoded queue items.
type TaskQueue struct {
	sender   TaskSender
	taskName string
}

func NewTaskQueue(sender TaskSender, taskName string) *TaskQueue {
	if taskName == "" {
		taskName = DefaultTaskName
	}
	return &TaskQueue{
		sender:   sender,
		taskName: taskName,
	}
}

func (q *TaskQueue) Enqueue(ctx context.Context, metadata schema.SubmissionMetadata, reports []schema.Report) error {
	if len(reports) == 0 {
		return nil
	}

	signature, err := q.signature(schema.NewQueueItems(metadata, reports))
	if err != nil {
		return err
	}

	if _, err := q.sender.SendTaskWithContext(ctx, signature); err != nil {
		return fmt.Errorf("send task %s: %w", q.taskName, err)
	}

	log.WithField("task", q.taskName).Debugf("sent %d items", len(reports))
	return nil
}

func (q *TaskQueue) signature(items []schema.QueueItem) (*tasks.Signature, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode queue items: %w", err)
	}

	return &tasks.Signature{
		Name: q.taskName,
		Args: []tasks.Arg{
			{
				Name:  "items",
				Type:  "string",
				Value: string(payload),
			},
		},
	}, nil
}
