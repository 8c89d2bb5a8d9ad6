package tasks

import (
	"testing"

	"github.com/mevlabs/engagement-backend/internal/types"
)

func TestBadgeQualified(t *testing.T) {
	cases := []struct {
		name          string
		badge         *types.Badge
		totalCheckIns int
		maxStreak     int
		want          bool
	}{
		{
			name:          "structured check-in count met",
			badge:         &types.Badge{CriteriaKind: types.CriteriaKindCheckInCount, CriteriaThreshold: 10},
			totalCheckIns: 10,
			want:          true,
		},
		{
			name:          "structured check-in count below threshold",
			badge:         &types.Badge{CriteriaKind: types.CriteriaKindCheckInCount, CriteriaThreshold: 10},
			totalCheckIns: 9,
			want:          false,
		},
		{
			name:      "structured streak length met",
			badge:     &types.Badge{CriteriaKind: types.CriteriaKindStreakLength, CriteriaThreshold: 14},
			maxStreak: 14,
			want:      true,
		},
		{
			name:          "structured kind ignores free text",
			badge:         &types.Badge{CriteriaKind: types.CriteriaKindStreakLength, CriteriaThreshold: 14, Criteria: "first check-in"},
			totalCheckIns: 50,
			maxStreak:     2,
			want:          false,
		},
		{
			name:          "iniciante needs one check-in",
			badge:         &types.Badge{Name: "Iniciante"},
			totalCheckIns: 1,
			want:          true,
		},
		{
			name:  "iniciante with none",
			badge: &types.Badge{Name: "Iniciante"},
			want:  false,
		},
		{
			name:          "first criteria text",
			badge:         &types.Badge{Name: "Primeiro Passo", Criteria: "first check-in"},
			totalCheckIns: 3,
			want:          true,
		},
		{
			name:      "consistente needs 7 day streak",
			badge:     &types.Badge{Name: "Consistente"},
			maxStreak: 7,
			want:      true,
		},
		{
			name:      "consistente below",
			badge:     &types.Badge{Name: "Consistente"},
			maxStreak: 6,
			want:      false,
		},
		{
			name:      "dedicado needs 30 day streak",
			badge:     &types.Badge{Name: "Dedicado"},
			maxStreak: 30,
			want:      true,
		},
		{
			name:          "mestre needs 100 check-ins",
			badge:         &types.Badge{Name: "Mestre"},
			totalCheckIns: 100,
			want:          true,
		},
		{
			name:      "streak phrase takes largest number",
			badge:     &types.Badge{Name: "Maratonista", Criteria: "streak of 21 days"},
			maxStreak: 21,
			want:      true,
		},
		{
			name:      "streak phrase below number",
			badge:     &types.Badge{Name: "Maratonista", Criteria: "streak of 21 days"},
			maxStreak: 20,
			want:      false,
		},
		{
			name:          "check-in phrase with number",
			badge:         &types.Badge{Name: "Veterano", Criteria: "complete 50 check-ins"},
			totalCheckIns: 50,
			want:          true,
		},
		{
			name:      "streak phrase without a number",
			badge:     &types.Badge{Name: "Maratonista", Criteria: "keep a long streak"},
			maxStreak: 99,
			want:      false,
		},
		{
			name:          "unrecognized criteria never qualifies",
			badge:         &types.Badge{Name: "Especial", Criteria: "awarded manually"},
			totalCheckIns: 500,
			maxStreak:     500,
			want:          false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BadgeQualified(tc.badge, tc.totalCheckIns, tc.maxStreak); got != tc.want {
				t.Fatalf("BadgeQualified = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAssignBadges(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	userBadges := &fakeUserBadgeRepo{}
	s := &Service{
		log:           testLogger(),
		userRepo:      &fakeUserRepo{activeIDs: []uint{1, 2}},
		checkInRepo:   &fakeCheckInRepo{countByUser: map[uint]int64{1: 5, 2: 0}},
		streakRepo:    &fakeStreakRepo{},
		badgeRepo:     &fakeBadgeRepo{badges: []*types.Badge{{ID: 1, Name: "Iniciante", PointsReward: 10}}},
		userBadgeRepo: userBadges,
		ledgerRepo:    ledger,
	}

	result := &BadgeAssignResult{}
	if err := s.assignBadges(dbcForTest(), result); err != nil {
		t.Fatal(err)
	}
	if result.Awarded != 1 {
		t.Fatalf("awarded = %d, want 1", result.Awarded)
	}
	if len(userBadges.awards) != 1 || userBadges.awards[0].UserID != 1 {
		t.Fatalf("awards = %+v, want one for user 1", userBadges.awards)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("got %d ledger entries, want 1", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.Description != "Badge earned: Iniciante" {
		t.Fatalf("description = %q", entry.Description)
	}
	if entry.Points != 10 || entry.EventType != types.EventBadgeEarned {
		t.Fatalf("entry = %+v", entry)
	}

	// Second pass awards nothing new.
	result = &BadgeAssignResult{}
	if err := s.assignBadges(dbcForTest(), result); err != nil {
		t.Fatal(err)
	}
	if result.Awarded != 0 {
		t.Fatalf("awarded on rerun = %d, want 0", result.Awarded)
	}
	if len(userBadges.awards) != 1 || len(ledger.entries) != 1 {
		t.Fatal("rerun must not duplicate awards")
	}
}

func TestAssignBadgesNoPointReward(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	s := &Service{
		log:           testLogger(),
		userRepo:      &fakeUserRepo{activeIDs: []uint{1}},
		checkInRepo:   &fakeCheckInRepo{countByUser: map[uint]int64{1: 1}},
		streakRepo:    &fakeStreakRepo{},
		badgeRepo:     &fakeBadgeRepo{badges: []*types.Badge{{ID: 1, Name: "Iniciante"}}},
		userBadgeRepo: &fakeUserBadgeRepo{},
		ledgerRepo:    ledger,
	}

	result := &BadgeAssignResult{}
	if err := s.assignBadges(dbcForTest(), result); err != nil {
		t.Fatal(err)
	}
	if result.Awarded != 1 {
		t.Fatalf("awarded = %d, want 1", result.Awarded)
	}
	if len(ledger.entries) != 0 {
		t.Fatal("zero-point badge must not touch the ledger")
	}
}
