package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"mailgate-backend/internal/outbound/domain"
)

// countingPipeline records queue passes without touching storage.
type countingPipeline struct {
	passes atomic.Int64
}

func (p *countingPipeline) Enqueue(userID uint, sender string, recipients []string, message []byte) ([]string, error) {
	return nil, nil
}

func (p *countingPipeline) EnqueueAndSend(ctx context.Context, userID uint, sender string, recipients []string, message []byte) ([]string, error) {
	return nil, nil
}

func (p *countingPipeline) ProcessQueue(ctx context.Context) (int, error) {
	p.passes.Add(1)
	return 0, nil
}

func (p *countingPipeline) Receipt(id string) (*domain.DeliveryReceipt, error) {
	return nil, nil
}

func TestSweeperRunsImmediatelyAndOnTicks(t *testing.T) {
	pipeline := &countingPipeline{}
	sweeper := NewQueueSweeper(pipeline, 20*time.Millisecond)

	sweeper.Start()
	defer sweeper.Stop()

	deadline := time.After(2 * time.Second)
	for pipeline.passes.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("saw only %d queue passes before the deadline", pipeline.passes.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSweeperStops(t *testing.T) {
	pipeline := &countingPipeline{}
	sweeper := NewQueueSweeper(pipeline, 10*time.Millisecond)

	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()

	time.Sleep(30 * time.Millisecond)
	stopped := pipeline.passes.Load()
	time.Sleep(50 * time.Millisecond)
	if got := pipeline.passes.Load(); got != stopped {
		t.Errorf("sweeper kept running after Stop: %d passes grew to %d", stopped, got)
	}
}
