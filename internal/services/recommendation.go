package services

import (
  "context"
  "encoding/json"
  "fmt"
  "github.com/google/uuid"
  "github.com/yungbote/fincoach-backend/internal/assembly"
  "github.com/yungbote/fincoach-backend/internal/clients/redis"
  "github.com/yungbote/fincoach-backend/internal/eligibility"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/matching"
  "github.com/yungbote/fincoach-backend/internal/repos"
  "github.com/yungbote/fincoach-backend/internal/signals"
  "github.com/yungbote/fincoach-backend/internal/types"
)

// NotOptedInReason is the metadata reason on the short-circuit result for
// users who have not consented.
const NotOptedInReason = "user has not opted in to personalized recommendations"

// AssembleInput is one generation request as it arrives at the service
// boundary. UserAttrs is the raw attribute map; normalization happens here.
type AssembleInput struct {
  PersonaID          string                     `json:"persona_id"`
  Signals            []string                   `json:"signals"`
  Summary            *signals.BehavioralSummary `json:"summary"`
  UserAttrs          map[string]any             `json:"user_attrs"`
  UserData           map[string]any             `json:"user_data"`
  TimeWindow         string                     `json:"time_window"`
  ExcludedContentIDs []string                   `json:"excluded_content_ids"`
  ExcludedOfferIDs   []string                   `json:"excluded_offer_ids"`
}

type RecommendationService interface {
  Assemble(ctx context.Context, userID uuid.UUID, in AssembleInput) (*types.AssembledRecommendationSet, error)
  PersonalizeEducation(ctx context.Context, userID uuid.UUID, in AssembleInput) ([]types.PersonalizedRecommendation, error)
  GetLatest(ctx context.Context, userID uuid.UUID, timeWindow string) (*types.AssembledRecommendationSet, error)
  GetAll(ctx context.Context, userID uuid.UUID, timeWindow string) ([]*types.AssembledRecommendationSet, error)
}

type recommendationService struct {
  log       *logger.Logger
  assembler *assembly.Assembler
  matcher   *matching.Matcher
  consent   ConsentService
  sets      repos.RecommendationSetRepo
  cache     redis.SetCache
  retention int
}

// NewRecommendationService wires the pipeline behind the consent gate. cache
// may be nil; reads then always hit Postgres.
func NewRecommendationService(
  log *logger.Logger,
  assembler *assembly.Assembler,
  matcher *matching.Matcher,
  consent ConsentService,
  sets repos.RecommendationSetRepo,
  cache redis.SetCache,
  retention int,
) RecommendationService {
  if retention <= 0 {
    retention = 10
  }
  return &recommendationService{
    log:       log.With("service", "RecommendationService"),
    assembler: assembler,
    matcher:   matcher,
    consent:   consent,
    sets:      sets,
    cache:     cache,
    retention: retention,
  }
}

func (rs *recommendationService) Assemble(ctx context.Context, userID uuid.UUID, in AssembleInput) (*types.AssembledRecommendationSet, error) {
  optedIn, err := rs.consent.IsOptedIn(ctx, userID)
  if err != nil {
    return nil, err
  }
  if !optedIn {
    rs.log.Info("Assembly short-circuited, user not opted in", "user_id", userID)
    return assembly.EmptySet(userID.String(), in.PersonaID, in.TimeWindow, NotOptedInReason), nil
  }

  set := rs.assembler.Assemble(ctx, assembly.Request{
    UserID:             userID.String(),
    PersonaID:          in.PersonaID,
    Signals:            in.Signals,
    Summary:            in.Summary,
    UserAttrs:          eligibility.AttrsFromMap(in.UserAttrs),
    UserData:           in.UserData,
    TimeWindow:         in.TimeWindow,
    ExcludedContentIDs: in.ExcludedContentIDs,
    ExcludedOfferIDs:   in.ExcludedOfferIDs,
    IncludeOffers:      true,
  })

  if err := rs.persist(ctx, userID, set); err != nil {
    // The generated set is still valid output; persistence failure is
    // logged and surfaced, not swallowed.
    return nil, err
  }
  return set, nil
}

func (rs *recommendationService) PersonalizeEducation(ctx context.Context, userID uuid.UUID, in AssembleInput) ([]types.PersonalizedRecommendation, error) {
  optedIn, err := rs.consent.IsOptedIn(ctx, userID)
  if err != nil {
    return nil, err
  }
  if !optedIn {
    rs.log.Info("Education personalization short-circuited, user not opted in", "user_id", userID)
    return []types.PersonalizedRecommendation{}, nil
  }

  result := rs.matcher.Match(matching.Request{
    PersonaID:          in.PersonaID,
    Signals:            in.Signals,
    ExcludedContentIDs: in.ExcludedContentIDs,
    IncludeOffers:      false,
  })
  return rs.assembler.PersonalizeAndRank(ctx, result.EducationItems, in.Summary, in.PersonaID), nil
}

func (rs *recommendationService) GetLatest(ctx context.Context, userID uuid.UUID, timeWindow string) (*types.AssembledRecommendationSet, error) {
  if rs.cache != nil {
    cached, err := rs.cache.GetLatest(ctx, userID.String(), timeWindow)
    if err != nil {
      rs.log.Warn("Set cache read failed, falling back to Postgres", "user_id", userID, "error", err)
    } else if cached != nil {
      return cached, nil
    }
  }
  record, err := rs.sets.GetLatest(ctx, nil, userID, timeWindow)
  if err != nil {
    return nil, fmt.Errorf("get latest recommendation set: %w", err)
  }
  if record == nil {
    return nil, nil
  }
  return decodeRecord(record)
}

func (rs *recommendationService) GetAll(ctx context.Context, userID uuid.UUID, timeWindow string) ([]*types.AssembledRecommendationSet, error) {
  records, err := rs.sets.GetAll(ctx, nil, userID, timeWindow)
  if err != nil {
    return nil, fmt.Errorf("get recommendation sets: %w", err)
  }
  sets := make([]*types.AssembledRecommendationSet, 0, len(records))
  for _, record := range records {
    set, err := decodeRecord(record)
    if err != nil {
      rs.log.Warn("Skipping undecodable recommendation set record", "record_id", record.ID, "error", err)
      continue
    }
    sets = append(sets, set)
  }
  return sets, nil
}

func (rs *recommendationService) persist(ctx context.Context, userID uuid.UUID, set *types.AssembledRecommendationSet) error {
  payload, err := json.Marshal(set)
  if err != nil {
    return fmt.Errorf("marshal assembled set: %w", err)
  }
  record := &types.RecommendationSetRecord{
    UserID:      userID,
    PersonaID:   set.PersonaID,
    TimeWindow:  set.TimeWindow,
    Payload:     payload,
    GeneratedAt: set.GeneratedAt,
  }
  if _, err := rs.sets.Save(ctx, nil, record); err != nil {
    rs.log.Error("Failed to persist recommendation set", "user_id", userID, "error", err)
    return fmt.Errorf("persist recommendation set: %w", err)
  }
  if _, err := rs.sets.TrimRetention(ctx, nil, userID, set.TimeWindow, rs.retention); err != nil {
    rs.log.Warn("Retention trim failed", "user_id", userID, "error", err)
  }
  if rs.cache != nil {
    if err := rs.cache.PutLatest(ctx, set); err != nil {
      rs.log.Warn("Set cache write failed", "user_id", userID, "error", err)
    }
  }
  return nil
}

func decodeRecord(record *types.RecommendationSetRecord) (*types.AssembledRecommendationSet, error) {
  var set types.AssembledRecommendationSet
  if err := json.Unmarshal(record.Payload, &set); err != nil {
    return nil, fmt.Errorf("decode recommendation set payload: %w", err)
  }
  return &set, nil
}
