package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/types"
)

type RecommendationSetRepo interface {
  Save(ctx context.Context, tx *gorm.DB, record *types.RecommendationSetRecord) (*types.RecommendationSetRecord, error)
  GetLatest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, timeWindow string) (*types.RecommendationSetRecord, error)
  GetAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID, timeWindow string) ([]*types.RecommendationSetRecord, error)
  TrimRetention(ctx context.Context, tx *gorm.DB, userID uuid.UUID, timeWindow string, keep int) (int64, error)
}

type recommendationSetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecommendationSetRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationSetRepo {
  repoLog := baseLog.With("repo", "RecommendationSetRepo")
  return &recommendationSetRepo{db: db, log: repoLog}
}

func (rr *recommendationSetRepo) Save(ctx context.Context, tx *gorm.DB, record *types.RecommendationSetRecord) (*types.RecommendationSetRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if record == nil {
    return nil, errors.New("nil recommendation set record")
  }

  if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
    return nil, err
  }
  return record, nil
}

func (rr *recommendationSetRepo) GetLatest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, timeWindow string) (*types.RecommendationSetRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var record types.RecommendationSetRecord
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND time_window = ?", userID, timeWindow).
    Order("generated_at DESC").
    First(&record).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &record, nil
}

func (rr *recommendationSetRepo) GetAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID, timeWindow string) ([]*types.RecommendationSetRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var records []*types.RecommendationSetRecord
  query := transaction.WithContext(ctx).Where("user_id = ?", userID)
  if timeWindow != "" {
    query = query.Where("time_window = ?", timeWindow)
  }
  if err := query.Order("generated_at DESC").Find(&records).Error; err != nil {
    return nil, err
  }
  return records, nil
}

// TrimRetention deletes everything past the keep newest records for the
// (user, window) pair and returns the number removed.
func (rr *recommendationSetRepo) TrimRetention(ctx context.Context, tx *gorm.DB, userID uuid.UUID, timeWindow string, keep int) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if keep < 0 {
    keep = 0
  }

  var keepIDs []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.RecommendationSetRecord{}).
    Where("user_id = ? AND time_window = ?", userID, timeWindow).
    Order("generated_at DESC").
    Limit(keep).
    Pluck("id", &keepIDs).Error; err != nil {
    return 0, err
  }

  query := transaction.WithContext(ctx).
    Where("user_id = ? AND time_window = ?", userID, timeWindow)
  if len(keepIDs) > 0 {
    query = query.Where("id NOT IN ?", keepIDs)
  }
  result := query.Delete(&types.RecommendationSetRecord{})
  if result.Error != nil {
    return 0, result.Error
  }
  if result.RowsAffected > 0 {
    rr.log.Debug("Trimmed recommendation set retention", "user_id", userID, "time_window", timeWindow, "deleted", result.RowsAffected)
  }
  return result.RowsAffected, nil
}
