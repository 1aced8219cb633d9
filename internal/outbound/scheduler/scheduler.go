package scheduler

import (
	"context"
	"log"
	"time"

	"mailgate-backend/internal/outbound/usecase"
)

// QueueSweeper periodically runs the delivery pipeline's queue pass,
// independent of request handling. Retried deliveries become due again
// through their next_retry_at timestamps, so a fixed interval is enough.
type QueueSweeper struct {
	pipeline usecase.Pipeline
	interval time.Duration
	stopChan chan struct{}
}

// NewQueueSweeper creates a new sweeper
func NewQueueSweeper(pipeline usecase.Pipeline, interval time.Duration) *QueueSweeper {
	return &QueueSweeper{
		pipeline: pipeline,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *QueueSweeper) Start() {
	log.Printf("[QueueSweeper] Starting delivery queue sweeper (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				log.Println("[QueueSweeper] Sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper
func (s *QueueSweeper) Stop() {
	close(s.stopChan)
}

func (s *QueueSweeper) sweep() {
	processed, err := s.pipeline.ProcessQueue(context.Background())
	if err != nil {
		log.Printf("[QueueSweeper] Queue pass failed: %v", err)
		return
	}
	if processed > 0 {
		log.Printf("[QueueSweeper] Processed %d deliveries", processed)
	}
}
