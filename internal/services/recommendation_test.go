package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

func optedInConsent(t *testing.T, userID uuid.UUID) ConsentService {
	t.Helper()
	repo := newFakeConsentRepo()
	svc := NewConsentService(logger.NewNop(), repo)
	if _, err := svc.SetStatus(context.Background(), userID, true); err != nil {
		t.Fatalf("seed consent: %v", err)
	}
	return svc
}

func TestAssemble_NotOptedInReturnsDisclaimerOnlySet(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	setRepo := &fakeSetRepo{}
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		NewConsentService(logger.NewNop(), newFakeConsentRepo()), setRepo, nil, 10)

	set, err := svc.Assemble(context.Background(), userID, AssembleInput{PersonaID: "low_savings", TimeWindow: "30d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Recommendations) != 0 {
		t.Fatalf("expected empty set for non-consenting user")
	}
	if set.Metadata.Reason != NotOptedInReason {
		t.Fatalf("expected consent reason, got %q", set.Metadata.Reason)
	}
	if set.Disclaimer == "" {
		t.Fatalf("disclaimer must be present on the short-circuit set")
	}
	if len(setRepo.saved) != 0 {
		t.Fatalf("short-circuit sets must not be persisted")
	}
}

func TestAssemble_PersistsTrimsAndCaches(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	setRepo := &fakeSetRepo{}
	cache := newFakeSetCache()
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		optedInConsent(t, userID), setRepo, cache, 7)

	set, err := svc.Assemble(context.Background(), userID, AssembleInput{PersonaID: "low_savings", TimeWindow: "30d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Recommendations) == 0 {
		t.Fatalf("expected recommendations for opted-in user")
	}
	if len(setRepo.saved) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(setRepo.saved))
	}
	if setRepo.trimCalls != 1 || setRepo.lastKeep != 7 {
		t.Fatalf("expected retention trim with keep=7, got calls=%d keep=%d", setRepo.trimCalls, setRepo.lastKeep)
	}
	if cache.puts != 1 {
		t.Fatalf("expected cache write, got %d", cache.puts)
	}
}

func TestAssemble_PersistFailureIsSurfaced(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	setRepo := &fakeSetRepo{saveErr: errors.New("connection refused")}
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		optedInConsent(t, userID), setRepo, nil, 10)

	if _, err := svc.Assemble(context.Background(), userID, AssembleInput{PersonaID: "low_savings", TimeWindow: "30d"}); err == nil {
		t.Fatalf("expected persistence failure to surface")
	}
}

func TestGetLatest_PrefersCacheOverRepo(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	cache := newFakeSetCache()
	cached := &types.AssembledRecommendationSet{UserID: userID.String(), TimeWindow: "30d", PersonaID: "low_savings"}
	cache.stored[userID.String()+":30d"] = cached
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		optedInConsent(t, userID), &fakeSetRepo{}, cache, 10)

	set, err := svc.GetLatest(context.Background(), userID, "30d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != cached {
		t.Fatalf("expected the cached set back")
	}
}

func TestGetLatest_FallsBackToRepoAndDecodes(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	setRepo := &fakeSetRepo{saved: []*types.RecommendationSetRecord{
		{
			UserID:     userID,
			PersonaID:  "low_savings",
			TimeWindow: "30d",
			Payload:    datatypes.JSON(`{"user_id":"` + userID.String() + `","persona_id":"low_savings","time_window":"30d"}`),
		},
	}}
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		optedInConsent(t, userID), setRepo, nil, 10)

	set, err := svc.GetLatest(context.Background(), userID, "30d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set == nil || set.PersonaID != "low_savings" {
		t.Fatalf("unexpected set: %+v", set)
	}

	missing, err := svc.GetLatest(context.Background(), userID, "90d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown window")
	}
}

func TestGetAll_SkipsUndecodableRecords(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	setRepo := &fakeSetRepo{saved: []*types.RecommendationSetRecord{
		{UserID: userID, TimeWindow: "30d", Payload: datatypes.JSON(`{"persona_id":"low_savings"}`)},
		{UserID: userID, TimeWindow: "30d", Payload: datatypes.JSON(`not json at all`)},
	}}
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		optedInConsent(t, userID), setRepo, nil, 10)

	sets, err := svc.GetAll(context.Background(), userID, "30d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected corrupt record skipped, got %d sets", len(sets))
	}
}

func TestPersonalizeEducation_ShortCircuitsWithoutConsent(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		NewConsentService(logger.NewNop(), newFakeConsentRepo()), &fakeSetRepo{}, nil, 10)

	recs, err := svc.PersonalizeEducation(context.Background(), userID, AssembleInput{PersonaID: "low_savings"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty result without consent")
	}
}

func TestPersonalizeEducation_ReturnsRankedItems(t *testing.T) {
	assembler, matcher := testPipeline(t)
	userID := uuid.New()
	svc := NewRecommendationService(logger.NewNop(), assembler, matcher,
		optedInConsent(t, userID), &fakeSetRepo{}, nil, 10)

	recs, err := svc.PersonalizeEducation(context.Background(), userID, AssembleInput{PersonaID: "low_savings"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 education items, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.Rank != i+1 {
			t.Fatalf("expected dense ranks, got %d at position %d", rec.Rank, i)
		}
	}
}
