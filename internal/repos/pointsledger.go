package repos

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type PointsLedgerRepo interface {
	Create(dbc dbctx.Context, entry *types.PointsLedger) error
	// CreateIdempotent inserts an award with a dedupe key; the unique index
	// absorbs concurrent duplicates. Reports whether a row was written.
	CreateIdempotent(dbc dbctx.Context, entry *types.PointsLedger) (bool, error)
	ExistsAward(dbc dbctx.Context, userID uint, eventType, description string, referenceID *uint) (bool, error)
	SumPoints(dbc dbctx.Context, userID uint, programID *uint) (int64, error)
}

type pointsLedgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointsLedgerRepo(db *gorm.DB, baseLog *logger.Logger) PointsLedgerRepo {
	return &pointsLedgerRepo{db: db, log: baseLog.With("repo", "PointsLedgerRepo")}
}

func (plr *pointsLedgerRepo) Create(dbc dbctx.Context, entry *types.PointsLedger) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = plr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(entry).Error
}

func (plr *pointsLedgerRepo) CreateIdempotent(dbc dbctx.Context, entry *types.PointsLedger) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = plr.db
	}
	result := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (plr *pointsLedgerRepo) ExistsAward(dbc dbctx.Context, userID uint, eventType, description string, referenceID *uint) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = plr.db
	}
	query := transaction.WithContext(dbc.Ctx).
		Model(&types.PointsLedger{}).
		Where("user_id = ? AND event_type = ? AND description = ?", userID, eventType, description)
	if referenceID != nil {
		query = query.Where("event_reference_id = ?", *referenceID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (plr *pointsLedgerRepo) SumPoints(dbc dbctx.Context, userID uint, programID *uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = plr.db
	}
	query := transaction.WithContext(dbc.Ctx).
		Model(&types.PointsLedger{}).
		Where("user_id = ?", userID)
	if programID != nil {
		query = query.Where("program_id = ?", *programID)
	}
	var total *int64
	if err := query.Select("SUM(points)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
