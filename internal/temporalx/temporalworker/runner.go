package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/mevlabs/engagement-backend/internal/config"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/tasks"
	"github.com/mevlabs/engagement-backend/internal/temporalx/batchjobs"
)

// Runner hosts the two task-queue workers: maintenance carries the streak
// and badge jobs, notifications carries reminder dispatch so a slow
// recalculation cannot starve reminders.
type Runner struct {
	log   *logger.Logger
	tc    temporalsdkclient.Client
	cfg   config.TemporalConfig
	tasks *tasks.Service
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, cfg config.TemporalConfig, taskService *tasks.Service) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if taskService == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{log: log, tc: tc, cfg: cfg, tasks: taskService}, nil
}

func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	if err := r.startWorker(ctx, r.newMaintenanceWorker(), r.cfg.MaintenanceQueue); err != nil {
		return err
	}
	return r.startWorker(ctx, r.newNotificationsWorker(), r.cfg.NotificationsQueue)
}

func (r *Runner) startWorker(ctx context.Context, w worker.Worker, queue string) error {
	const (
		maxWait    = 60 * time.Second
		backoff    = 250 * time.Millisecond
		backoffMax = 5 * time.Second
	)
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			if r.log != nil {
				r.log.Info("Temporal worker started", "task_queue", queue, "attempts", attempt)
			}
			return nil
		}
		w.Stop()

		if time.Now().After(deadline) {
			return fmt.Errorf("temporal worker start failed (task_queue=%s): %w", queue, startErr)
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "task_queue", queue, "attempt", attempt, "error", startErr)
		}
		sleep := backoff
		for i := 1; i < attempt; i++ {
			sleep *= 2
			if sleep >= backoffMax {
				sleep = backoffMax
				break
			}
		}
		time.Sleep(sleep)
	}
}

func (r *Runner) workerOptions() worker.Options {
	concurrency := r.cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	}
}

func (r *Runner) newMaintenanceWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.MaintenanceQueue, r.workerOptions())
	acts := &batchjobs.Activities{Log: r.log, Tasks: r.tasks}
	w.RegisterWorkflowWithOptions(batchjobs.RecalculateStreaksWorkflow, workflow.RegisterOptions{Name: batchjobs.WorkflowRecalculateStreaks})
	w.RegisterWorkflowWithOptions(batchjobs.AssignBadgesWorkflow, workflow.RegisterOptions{Name: batchjobs.WorkflowAssignBadges})
	w.RegisterActivityWithOptions(acts.RecalculateStreaks, activity.RegisterOptions{Name: batchjobs.ActivityRecalculateStreaks})
	w.RegisterActivityWithOptions(acts.AssignBadges, activity.RegisterOptions{Name: batchjobs.ActivityAssignBadges})
	return w
}

func (r *Runner) newNotificationsWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.NotificationsQueue, r.workerOptions())
	acts := &batchjobs.Activities{Log: r.log, Tasks: r.tasks}
	w.RegisterWorkflowWithOptions(batchjobs.DispatchRemindersWorkflow, workflow.RegisterOptions{Name: batchjobs.WorkflowDispatchReminders})
	w.RegisterActivityWithOptions(acts.DispatchReminders, activity.RegisterOptions{Name: batchjobs.ActivityDispatchReminders})
	return w
}

// StartCronSchedules registers the recurring executions. Workflow IDs are
// fixed so redeploys reuse the existing cron chain instead of stacking a
// second one.
func (r *Runner) StartCronSchedules(ctx context.Context) error {
	crons := []struct {
		workflowID string
		workflow   string
		queue      string
		schedule   string
	}{
		{"cron-recalculate-streaks", batchjobs.WorkflowRecalculateStreaks, r.cfg.MaintenanceQueue, r.cfg.StreakRecalcCron},
		{"cron-assign-badges", batchjobs.WorkflowAssignBadges, r.cfg.MaintenanceQueue, r.cfg.BadgeAssignCron},
		{"cron-dispatch-reminders", batchjobs.WorkflowDispatchReminders, r.cfg.NotificationsQueue, r.cfg.ReminderCron},
	}

	for _, cron := range crons {
		opts := temporalsdkclient.StartWorkflowOptions{
			ID:           cron.workflowID,
			TaskQueue:    cron.queue,
			CronSchedule: cron.schedule,
		}
		_, err := r.tc.ExecuteWorkflow(ctx, opts, cron.workflow)
		if err != nil {
			var started *serviceerror.WorkflowExecutionAlreadyStarted
			if errors.As(err, &started) {
				continue
			}
			return fmt.Errorf("start cron %s: %w", cron.workflowID, err)
		}
		if r.log != nil {
			r.log.Info("Cron workflow scheduled", "workflow_id", cron.workflowID, "schedule", cron.schedule, "task_queue", cron.queue)
		}
	}
	return nil
}
