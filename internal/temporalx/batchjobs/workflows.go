package batchjobs

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// activityOptions gives every batch job the same retry contract: capped
// exponential backoff with at most five attempts per scheduled run.
func activityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Minute,
			MaximumAttempts:    5,
		},
	}
}

func RecalculateStreaksWorkflow(ctx workflow.Context) error {
	ctx = workflow.WithActivityOptions(ctx, activityOptions())
	return workflow.ExecuteActivity(ctx, ActivityRecalculateStreaks).Get(ctx, nil)
}

func AssignBadgesWorkflow(ctx workflow.Context) error {
	ctx = workflow.WithActivityOptions(ctx, activityOptions())
	return workflow.ExecuteActivity(ctx, ActivityAssignBadges).Get(ctx, nil)
}

func DispatchRemindersWorkflow(ctx workflow.Context) error {
	ctx = workflow.WithActivityOptions(ctx, activityOptions())
	return workflow.ExecuteActivity(ctx, ActivityDispatchReminders).Get(ctx, nil)
}
