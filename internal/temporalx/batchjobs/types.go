package batchjobs

const (
	WorkflowRecalculateStreaks = "recalculate_streaks"
	WorkflowAssignBadges       = "assign_badges"
	WorkflowDispatchReminders  = "dispatch_scheduled_reminders"

	ActivityRecalculateStreaks = "recalculate_streaks_run"
	ActivityAssignBadges       = "assign_badges_run"
	ActivityDispatchReminders  = "dispatch_scheduled_reminders_run"
)
