package tasks

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/streaks"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ReminderDispatchResult struct {
	Reminders        int `json:"reminders"`
	StreakRiskAlerts int `json:"streak_risk_alerts"`
}

// DispatchScheduledReminders creates check-in reminders for active enrolled
// users without a check-in today, plus streak-risk alerts for users whose
// streak ended yesterday. At most one reminder per user per day; events are
// published to the notification bus only after the transaction commits.
func (s *Service) DispatchScheduledReminders(ctx context.Context) (*ReminderDispatchResult, error) {
	startedAt := time.Now()
	today := streaks.Day(time.Now().UTC())
	yesterday := today.AddDate(0, 0, -1)

	result := &ReminderDispatchResult{}
	var created []*types.NotificationEvent

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		created, txErr = s.dispatchReminders(dbctx.WithTx(ctx, tx), today, yesterday, result)
		return txErr
	})
	if err != nil {
		s.log.Error("Reminder dispatch failed", "error", err)
		return nil, &TaskError{Task: "dispatch_scheduled_reminders", Err: err}
	}

	if s.bus != nil {
		for _, event := range created {
			if err := s.bus.Publish(ctx, event); err != nil {
				s.log.Warn("Notification publish failed", "event_id", event.ID, "error", err)
			}
		}
	}

	s.log.Info("Reminder dispatch completed",
		"reminders", result.Reminders,
		"streak_risk_alerts", result.StreakRiskAlerts,
		"elapsed_seconds", time.Since(startedAt).Seconds(),
	)
	return result, nil
}

func (s *Service) dispatchReminders(dbc dbctx.Context, today, yesterday time.Time, result *ReminderDispatchResult) ([]*types.NotificationEvent, error) {
	var created []*types.NotificationEvent

	userIDs, err := s.userRepo.ListActiveEnrolledIDs(dbc)
	if err != nil {
		return nil, err
	}
	for _, userID := range userIDs {
		checkedInToday, err := s.checkInRepo.ExistsOnDate(dbc, userID, today)
		if err != nil {
			return nil, err
		}
		if checkedInToday {
			continue
		}

		alreadyReminded, err := s.notificationRepo.ExistsSince(dbc, userID, types.NotificationCheckInReminder, today)
		if err != nil {
			return nil, err
		}
		if !alreadyReminded {
			event := &types.NotificationEvent{
				UserID:    userID,
				EventType: types.NotificationCheckInReminder,
				EventData: eventData(map[string]string{"date": today.Format("2006-01-02"), "channel": "scheduled"}),
			}
			if err := s.notificationRepo.Create(dbc, event); err != nil {
				return nil, err
			}
			created = append(created, event)
			result.Reminders++
		}

		atRisk, err := s.streakRepo.HasActiveStreakEndingOn(dbc, userID, yesterday)
		if err != nil {
			return nil, err
		}
		if atRisk {
			event := &types.NotificationEvent{
				UserID:    userID,
				EventType: types.NotificationStreakRisk,
				EventData: eventData(map[string]string{"date": today.Format("2006-01-02"), "reason": "streak_break_risk"}),
			}
			if err := s.notificationRepo.Create(dbc, event); err != nil {
				return nil, err
			}
			created = append(created, event)
			result.StreakRiskAlerts++
		}
	}
	return created, nil
}

func eventData(fields map[string]string) datatypes.JSON {
	raw, err := json.Marshal(fields)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
