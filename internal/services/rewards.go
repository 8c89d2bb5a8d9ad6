package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type PointsBalance struct {
	UserID    uint  `json:"user_id"`
	ProgramID *uint `json:"program_id,omitempty"`
	Balance   int64 `json:"balance"`
}

// RewardsService serves the read side of the points and recognition model.
type RewardsService interface {
	Balance(ctx context.Context, userID uint, programID *uint) (*PointsBalance, error)
	UserBadges(ctx context.Context, userID uint) ([]*types.UserBadge, error)
	UserStreaks(ctx context.Context, userID uint) ([]*types.Streak, error)
}

type rewardsService struct {
	db            *gorm.DB
	log           *logger.Logger
	ledgerRepo    repos.PointsLedgerRepo
	userBadgeRepo repos.UserBadgeRepo
	streakRepo    repos.StreakRepo
}

func NewRewardsService(db *gorm.DB, log *logger.Logger, ledgerRepo repos.PointsLedgerRepo, userBadgeRepo repos.UserBadgeRepo, streakRepo repos.StreakRepo) RewardsService {
	return &rewardsService{
		db:            db,
		log:           log.With("service", "RewardsService"),
		ledgerRepo:    ledgerRepo,
		userBadgeRepo: userBadgeRepo,
		streakRepo:    streakRepo,
	}
}

func (rs *rewardsService) Balance(ctx context.Context, userID uint, programID *uint) (*PointsBalance, error) {
	sum, err := rs.ledgerRepo.SumPoints(dbctx.New(ctx), userID, programID)
	if err != nil {
		return nil, err
	}
	return &PointsBalance{UserID: userID, ProgramID: programID, Balance: sum}, nil
}

func (rs *rewardsService) UserBadges(ctx context.Context, userID uint) ([]*types.UserBadge, error) {
	return rs.userBadgeRepo.ListByUser(dbctx.New(ctx), userID)
}

func (rs *rewardsService) UserStreaks(ctx context.Context, userID uint) ([]*types.Streak, error) {
	return rs.streakRepo.ListByUser(dbctx.New(ctx), userID)
}
