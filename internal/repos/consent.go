package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/types"
)

type ConsentRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status types.ConsentStatus) (*types.ConsentRecord, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ConsentRecord, error)
}

type consentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewConsentRepo(db *gorm.DB, baseLog *logger.Logger) ConsentRepo {
  repoLog := baseLog.With("repo", "ConsentRepo")
  return &consentRepo{db: db, log: repoLog}
}

func (cr *consentRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status types.ConsentStatus) (*types.ConsentRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  record := &types.ConsentRecord{UserID: userID, Status: status}
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
    }).
    Create(record).Error; err != nil {
    return nil, err
  }
  return record, nil
}

func (cr *consentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ConsentRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var record types.ConsentRecord
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&record).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &record, nil
}
