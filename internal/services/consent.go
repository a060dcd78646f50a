package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/repos"
  "github.com/yungbote/fincoach-backend/internal/types"
)

// ConsentService gates the whole pipeline. A user with no record, or an
// opted-out record, has not consented.
type ConsentService interface {
  SetStatus(ctx context.Context, userID uuid.UUID, optedIn bool) (*types.ConsentRecord, error)
  IsOptedIn(ctx context.Context, userID uuid.UUID) (bool, error)
  GetStatus(ctx context.Context, userID uuid.UUID) (types.ConsentStatus, error)
}

type consentService struct {
  log  *logger.Logger
  repo repos.ConsentRepo
}

func NewConsentService(log *logger.Logger, repo repos.ConsentRepo) ConsentService {
  return &consentService{
    log:  log.With("service", "ConsentService"),
    repo: repo,
  }
}

func (cs *consentService) SetStatus(ctx context.Context, userID uuid.UUID, optedIn bool) (*types.ConsentRecord, error) {
  status := types.ConsentOptedOut
  if optedIn {
    status = types.ConsentOptedIn
  }
  record, err := cs.repo.Upsert(ctx, nil, userID, status)
  if err != nil {
    cs.log.Error("Failed to persist consent status", "user_id", userID, "error", err)
    return nil, fmt.Errorf("set consent status: %w", err)
  }
  cs.log.Info("Consent status updated", "user_id", userID, "status", status)
  return record, nil
}

func (cs *consentService) IsOptedIn(ctx context.Context, userID uuid.UUID) (bool, error) {
  status, err := cs.GetStatus(ctx, userID)
  if err != nil {
    return false, err
  }
  return status == types.ConsentOptedIn, nil
}

func (cs *consentService) GetStatus(ctx context.Context, userID uuid.UUID) (types.ConsentStatus, error) {
  record, err := cs.repo.GetByUserID(ctx, nil, userID)
  if err != nil {
    return "", fmt.Errorf("get consent status: %w", err)
  }
  if record == nil {
    return types.ConsentOptedOut, nil
  }
  return record.Status, nil
}
