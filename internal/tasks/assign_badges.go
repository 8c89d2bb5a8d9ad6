package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type BadgeAssignResult struct {
	Awarded int `json:"awarded"`
}

// BadgeQualified reports whether the user's totals satisfy the badge's
// criteria. Structured criteria win when present; legacy rows without a
// criteria kind fall back to the free-text heuristic, where named tiers
// take precedence over generic streak and check-in phrases.
func BadgeQualified(badge *types.Badge, totalCheckIns, maxStreak int) bool {
	switch badge.CriteriaKind {
	case types.CriteriaKindCheckInCount:
		return totalCheckIns >= badge.CriteriaThreshold
	case types.CriteriaKindStreakLength:
		return maxStreak >= badge.CriteriaThreshold
	}

	name := strings.ToLower(badge.Name)
	criteria := strings.ToLower(badge.Criteria)

	if strings.Contains(name, "iniciante") || strings.Contains(criteria, "first") {
		return totalCheckIns >= 1
	}
	if strings.Contains(name, "consistente") || strings.Contains(criteria, "7") {
		return maxStreak >= 7
	}
	if strings.Contains(name, "dedicado") || strings.Contains(criteria, "30") {
		return maxStreak >= 30
	}
	if strings.Contains(name, "mestre") || strings.Contains(criteria, "100") {
		return totalCheckIns >= 100
	}

	if strings.Contains(criteria, "streak") {
		if n, ok := maxDigitToken(criteria); ok {
			return maxStreak >= n
		}
		return false
	}
	if strings.Contains(criteria, "check-in") || strings.Contains(criteria, "check in") {
		if n, ok := maxDigitToken(criteria); ok {
			return totalCheckIns >= n
		}
		return false
	}
	return false
}

func maxDigitToken(text string) (int, bool) {
	best := 0
	found := false
	for _, token := range strings.Fields(text) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			continue
		}
		if !found || n > best {
			best = n
		}
		found = true
	}
	return best, found
}

// AssignBadges awards every badge each active user newly qualifies for and
// credits the badge's point reward. Awards are never revoked.
func (s *Service) AssignBadges(ctx context.Context) (*BadgeAssignResult, error) {
	startedAt := time.Now()
	result := &BadgeAssignResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.assignBadges(dbctx.WithTx(ctx, tx), result)
	})
	if err != nil {
		s.log.Error("Badge assignment failed", "error", err)
		return nil, &TaskError{Task: "assign_badges", Err: err}
	}

	s.log.Info("Badge assignment completed",
		"awarded", result.Awarded,
		"elapsed_seconds", time.Since(startedAt).Seconds(),
	)
	return result, nil
}

func (s *Service) assignBadges(dbc dbctx.Context, result *BadgeAssignResult) error {
	badges, err := s.badgeRepo.ListAll(dbc)
	if err != nil {
		return err
	}
	if len(badges) == 0 {
		return nil
	}

	userIDs, err := s.userRepo.ListActiveIDs(dbc)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		totalCheckIns, err := s.checkInRepo.CountByUser(dbc, userID)
		if err != nil {
			return err
		}
		maxStreak, err := s.streakRepo.MaxLongestByUser(dbc, userID)
		if err != nil {
			return err
		}

		for _, badge := range badges {
			if !BadgeQualified(badge, int(totalCheckIns), maxStreak) {
				continue
			}
			exists, err := s.userBadgeRepo.Exists(dbc, userID, badge.ID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			award := &types.UserBadge{UserID: userID, BadgeID: badge.ID}
			if err := s.userBadgeRepo.Create(dbc, award); err != nil {
				return err
			}

			if badge.PointsReward > 0 {
				dedupeKey := fmt.Sprintf("badge_earned:%d:%d", userID, badge.ID)
				entry := &types.PointsLedger{
					UserID:           userID,
					Points:           badge.PointsReward,
					EventType:        types.EventBadgeEarned,
					EventReferenceID: &award.ID,
					Description:      fmt.Sprintf("Badge earned: %s", badge.Name),
					DedupeKey:        &dedupeKey,
				}
				if _, err := s.ledgerRepo.CreateIdempotent(dbc, entry); err != nil {
					return err
				}
			}
			result.Awarded++
		}
	}
	return nil
}
