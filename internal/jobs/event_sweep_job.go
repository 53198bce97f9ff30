package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/logging"
	"devcircle/rollcall/internal/metrics"
	"devcircle/rollcall/internal/services"
)

const sweepConcurrency = 4

// EventSweepJob ends active events whose end_time has passed, revoking any
// voice access still held by participants.
type EventSweepJob struct {
	events  *repositories.EventRepository
	access  *services.EventAccessService
	metrics *metrics.MetricsRegistry
}

func NewEventSweepJob(
	events *repositories.EventRepository,
	access *services.EventAccessService,
	metricsReg *metrics.MetricsRegistry,
) *EventSweepJob {
	return &EventSweepJob{
		events:  events,
		access:  access,
		metrics: metricsReg,
	}
}

// Run performs one sweep pass. Events are ended concurrently, a few at a
// time; one event failing does not stop the rest of the pass.
func (j *EventSweepJob) Run(ctx context.Context) error {
	overdue, err := j.events.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		logging.Error("Event sweep: listing overdue events failed", "error", err)
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	logging.Info("Event sweep: ending overdue events", "count", len(overdue))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for _, ev := range overdue {
		eventID := ev.ID
		g.Go(func() error {
			stats, err := j.access.EndEvent(gctx, eventID)
			if err != nil {
				logging.Error("Event sweep: ending event failed", "event_id", eventID, "error", err)
				// keep sweeping the remaining events
				return nil
			}
			j.metrics.IncEventCleaned()
			logging.Info("Event sweep: event ended",
				"event_id", eventID, "revoked", stats.Revoked, "failed", stats.Failed)
			return nil
		})
	}
	return g.Wait()
}

// RunScheduled runs the sweep on a fixed interval until ctx is cancelled.
func (j *EventSweepJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Error("Event sweep: initial run failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("Event sweep: scheduled run failed", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Event sweep: stopped")
			return
		}
	}
}
