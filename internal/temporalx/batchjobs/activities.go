package batchjobs

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/tasks"
)

type Activities struct {
	Log   *logger.Logger
	Tasks *tasks.Service
}

func (a *Activities) RecalculateStreaks(ctx context.Context) (*tasks.StreakRecalcResult, error) {
	if a == nil || a.Tasks == nil {
		return nil, fmt.Errorf("batchjobs: activity not configured")
	}
	a.logAttempt(ctx, WorkflowRecalculateStreaks)
	return a.Tasks.RecalculateStreaks(ctx)
}

func (a *Activities) AssignBadges(ctx context.Context) (*tasks.BadgeAssignResult, error) {
	if a == nil || a.Tasks == nil {
		return nil, fmt.Errorf("batchjobs: activity not configured")
	}
	a.logAttempt(ctx, WorkflowAssignBadges)
	return a.Tasks.AssignBadges(ctx)
}

func (a *Activities) DispatchReminders(ctx context.Context) (*tasks.ReminderDispatchResult, error) {
	if a == nil || a.Tasks == nil {
		return nil, fmt.Errorf("batchjobs: activity not configured")
	}
	a.logAttempt(ctx, WorkflowDispatchReminders)
	return a.Tasks.DispatchScheduledReminders(ctx)
}

func (a *Activities) logAttempt(ctx context.Context, task string) {
	if a.Log == nil {
		return
	}
	info := activity.GetInfo(ctx)
	if info.Attempt > 1 {
		a.Log.Warn("Task retrying", "task", task, "attempt", info.Attempt)
	}
}
