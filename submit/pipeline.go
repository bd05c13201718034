package submit

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

// Queue receives the accepted reports of one batch. Implementations must
// be safe for concurrent use and either store all reports or return an
// error.
type Queue interface {
	Enqueue(ctx context.Context, metadata schema.SubmissionMetadata, reports []schema.Report) error
}

// Result summarises an accepted batch.
type Result struct {
	Accepted int
	Dropped  int
}

// Pipeline validates submitted batches and hands them to a queue.
type Pipeline struct {
	normalizer *Normalizer
	queue      Queue
}

func NewPipeline(queue Queue, normalizer *Normalizer) *Pipeline {
	if normalizer == nil {
		normalizer = &Normalizer{}
	}
	return &Pipeline{
		normalizer: normalizer,
		queue:      queue,
	}
}

// Normalize runs every item through the normalizer in order. It stops at
// the first fatal fault and returns it as a *Rejection.
func (p *Pipeline) Normalize(items []interface{}) ([]schema.Report, int, error) {
	reports := make([]schema.Report, 0, len(items))
	dropped := 0
	for i, item := range items {
		report, fault := p.normalizer.Normalize(item)
		if fault.Fatal() {
			return nil, 0, &Rejection{Index: i, Fault: fault}
		}
		if fault != nil {
			dropped++
			continue
		}
		reports = append(reports, *report)
	}
	return reports, dropped, nil
}

// Submit validates the batch and enqueues all accepted reports in a single
// call. A rejected batch enqueues nothing. The enqueue is not cancelled
// when ctx is, so a batch is never half written because a client went away.
func (p *Pipeline) Submit(ctx context.Context, items []interface{}, apiKey *string) (Result, error) {
	reports, dropped, err := p.Normalize(items)
	if err != nil {
		return Result{}, err
	}

	metadata := schema.SubmissionMetadata{APIKey: apiKey}
	if err := p.queue.Enqueue(context.WithoutCancel(ctx), metadata, reports); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrQueue, err)
	}

	return Result{Accepted: len(reports), Dropped: dropped}, nil
}
