package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fincoach-backend/internal/assembly"
	"github.com/yungbote/fincoach-backend/internal/catalog"
	"github.com/yungbote/fincoach-backend/internal/eligibility"
	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/matching"
	"github.com/yungbote/fincoach-backend/internal/personalization"
	"github.com/yungbote/fincoach-backend/internal/ranking"
	"github.com/yungbote/fincoach-backend/internal/rationale"
	"github.com/yungbote/fincoach-backend/internal/tone"
	"github.com/yungbote/fincoach-backend/internal/types"
)

func testPipeline(t *testing.T) (*assembly.Assembler, *matching.Matcher) {
	t.Helper()
	log := logger.NewNop()
	content, err := catalog.NewContentCatalog(map[string][]types.RecommendationItem{
		"low_savings": {
			{
				ID:              "emergency-fund-basics",
				ContentType:     types.ContentTypeArticle,
				Title:           "Emergency Fund Basics",
				Description:     "Build a small cushion with automatic transfers.",
				Personas:        []string{"low_savings"},
				Category:        types.CategoryEducation,
				Priority:        1,
				EstimatedImpact: types.ImpactHigh,
			},
			{
				ID:              "savings-calculator",
				ContentType:     types.ContentTypeCalculator,
				Title:           "Savings Goal Calculator",
				Description:     "Estimate how fast a goal is reachable.",
				Personas:        []string{"low_savings"},
				Category:        types.CategoryTip,
				Priority:        3,
				EstimatedImpact: types.ImpactMedium,
			},
		},
	}, log, catalog.LoaderOptions{})
	if err != nil {
		t.Fatalf("content catalog: %v", err)
	}
	offers, err := catalog.NewOfferCatalog([]types.PartnerOffer{
		{
			ID:          "high-yield-savings",
			OfferType:   types.OfferTypeSavingsAccount,
			Title:       "High Yield Savings",
			Description: "A savings account with a competitive rate.",
			Personas:    []string{"low_savings"},
			Priority:    2,
			Provider:    "Acme Bank",
		},
	}, log, catalog.LoaderOptions{})
	if err != nil {
		t.Fatalf("offer catalog: %v", err)
	}
	matcher := matching.NewMatcher(log, content, offers, eligibility.NewChecker(log))
	assembler := assembly.NewAssembler(
		log,
		matcher,
		personalization.NewEngine(log, nil),
		tone.NewValidator(log, tone.DefaultGradeCeiling, nil),
		ranking.NewEngine(log),
		rationale.NewGenerator(log),
	)
	return assembler, matcher
}

type fakeConsentRepo struct {
	records map[uuid.UUID]*types.ConsentRecord
	err     error
}

func newFakeConsentRepo() *fakeConsentRepo {
	return &fakeConsentRepo{records: map[uuid.UUID]*types.ConsentRecord{}}
}

func (f *fakeConsentRepo) Upsert(_ context.Context, _ *gorm.DB, userID uuid.UUID, status types.ConsentStatus) (*types.ConsentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record := &types.ConsentRecord{UserID: userID, Status: status}
	f.records[userID] = record
	return record, nil
}

func (f *fakeConsentRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.ConsentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[userID], nil
}

type fakeSetRepo struct {
	saved     []*types.RecommendationSetRecord
	trimCalls int
	lastKeep  int
	saveErr   error
}

func (f *fakeSetRepo) Save(_ context.Context, _ *gorm.DB, record *types.RecommendationSetRecord) (*types.RecommendationSetRecord, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, record)
	return record, nil
}

func (f *fakeSetRepo) GetLatest(_ context.Context, _ *gorm.DB, userID uuid.UUID, timeWindow string) (*types.RecommendationSetRecord, error) {
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].UserID == userID && f.saved[i].TimeWindow == timeWindow {
			return f.saved[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSetRepo) GetAll(_ context.Context, _ *gorm.DB, userID uuid.UUID, timeWindow string) ([]*types.RecommendationSetRecord, error) {
	var out []*types.RecommendationSetRecord
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].UserID != userID {
			continue
		}
		if timeWindow != "" && f.saved[i].TimeWindow != timeWindow {
			continue
		}
		out = append(out, f.saved[i])
	}
	return out, nil
}

func (f *fakeSetRepo) TrimRetention(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ string, keep int) (int64, error) {
	f.trimCalls++
	f.lastKeep = keep
	return 0, nil
}

type fakeSetCache struct {
	puts   int
	stored map[string]*types.AssembledRecommendationSet
}

func newFakeSetCache() *fakeSetCache {
	return &fakeSetCache{stored: map[string]*types.AssembledRecommendationSet{}}
}

func (f *fakeSetCache) PutLatest(_ context.Context, set *types.AssembledRecommendationSet) error {
	f.puts++
	f.stored[set.UserID+":"+set.TimeWindow] = set
	return nil
}

func (f *fakeSetCache) GetLatest(_ context.Context, userID, timeWindow string) (*types.AssembledRecommendationSet, error) {
	return f.stored[userID+":"+timeWindow], nil
}

func (f *fakeSetCache) Close() error { return nil }
