package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/hotel-weather-analysis/internal/analysis"
	"github.com/i474232898/hotel-weather-analysis/internal/store"
)

const runTimeout = 10 * time.Minute

// Scheduler periodically executes the analysis pipeline and stores the results.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *analysis.Pipeline
	store     *store.MemoryStore
	interval  time.Duration
}

// New creates a new Scheduler.
func New(pipeline *analysis.Pipeline, st *store.MemoryStore, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pipeline:  pipeline,
		store:     st,
		interval:  interval,
	}
}

// Start schedules the periodic analysis job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running analysis job")

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		res, err := s.pipeline.Run(ctx)
		if err != nil {
			log.Printf("scheduler: analysis run failed: %v", err)
			return
		}
		s.store.SaveRun(res)
		log.Printf("scheduler: completed analysis run %s", res.ID)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
