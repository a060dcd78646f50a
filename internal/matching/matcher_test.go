package matching

import (
	"testing"

	"github.com/yungbote/fincoach-backend/internal/catalog"
	"github.com/yungbote/fincoach-backend/internal/eligibility"
	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

func contentItem(id string, ct types.ContentType, priority int, signals ...string) types.RecommendationItem {
	return types.RecommendationItem{
		ID:                id,
		ContentType:       ct,
		Title:             "Title " + id,
		Description:       "Description for " + id,
		Personas:          []string{"low_savings"},
		TriggeringSignals: signals,
		Category:          types.CategoryEducation,
		Priority:          priority,
		EstimatedImpact:   types.ImpactMedium,
	}
}

func testOffer(id string, priority int) types.PartnerOffer {
	return types.PartnerOffer{
		ID:          id,
		OfferType:   types.OfferTypeSavingsAccount,
		Title:       "Offer " + id,
		Description: "A long enough offer description for " + id,
		Personas:    []string{"low_savings"},
		Priority:    priority,
		Provider:    "Acme Bank",
	}
}

func newTestMatcher(t *testing.T, items []types.RecommendationItem, offers []types.PartnerOffer) *Matcher {
	t.Helper()
	content, err := catalog.NewContentCatalog(map[string][]types.RecommendationItem{"low_savings": items}, logger.NewNop(), catalog.LoaderOptions{})
	if err != nil {
		t.Fatalf("content catalog: %v", err)
	}
	offerCat, err := catalog.NewOfferCatalog(offers, logger.NewNop(), catalog.LoaderOptions{})
	if err != nil {
		t.Fatalf("offer catalog: %v", err)
	}
	return NewMatcher(logger.NewNop(), content, offerCat, eligibility.NewChecker(logger.NewNop()))
}

func sixItemFixture() []types.RecommendationItem {
	return []types.RecommendationItem{
		contentItem("emergency-fund-basics", types.ContentTypeArticle, 1),
		contentItem("savings-calculator", types.ContentTypeCalculator, 2),
		contentItem("automate-savings-video", types.ContentTypeVideo, 3),
		contentItem("budget-article", types.ContentTypeArticle, 4),
		contentItem("spending-review", types.ContentTypeArticle, 5),
		contentItem("goal-tracker", types.ContentTypeCalculator, 6),
	}
}

func TestMatch_RespectsMaxBoundAndDiversity(t *testing.T) {
	m := newTestMatcher(t, sixItemFixture(), nil)
	result := m.Match(Request{PersonaID: "low_savings"})

	if len(result.EducationItems) != 5 {
		t.Fatalf("expected max 5 selections, got %d", len(result.EducationItems))
	}
	// First pass takes one of each distinct type in ranked order.
	if result.EducationItems[0].ID != "emergency-fund-basics" ||
		result.EducationItems[1].ID != "savings-calculator" ||
		result.EducationItems[2].ID != "automate-savings-video" {
		t.Fatalf("unexpected diversity pass: %s, %s, %s",
			result.EducationItems[0].ID, result.EducationItems[1].ID, result.EducationItems[2].ID)
	}
	if len(result.AuditTrail.SelectedContentTypes) < 2 {
		t.Fatalf("expected at least 2 distinct content types, got %v", result.AuditTrail.SelectedContentTypes)
	}
	if result.AuditTrail.PersonaContentCount != 6 || result.AuditTrail.SelectedContentCount != 5 {
		t.Fatalf("unexpected audit counts: %+v", result.AuditTrail)
	}
}

func TestMatch_SignalMatchesOutrankPriority(t *testing.T) {
	items := []types.RecommendationItem{
		contentItem("general-article", types.ContentTypeArticle, 1),
		contentItem("low-balance-help", types.ContentTypeArticle, 9, "low_savings_balance"),
	}
	m := newTestMatcher(t, items, nil)
	result := m.Match(Request{PersonaID: "low_savings", Signals: []string{"low_savings_balance"}})
	if result.EducationItems[0].ID != "low-balance-help" {
		t.Fatalf("expected signal match first, got %s", result.EducationItems[0].ID)
	}
}

func TestMatch_NoSignalsKeepsPriorityOrder(t *testing.T) {
	m := newTestMatcher(t, sixItemFixture(), nil)
	result := m.Match(Request{PersonaID: "low_savings"})
	if result.EducationItems[0].ID != "emergency-fund-basics" {
		t.Fatalf("expected catalog priority order, got %s first", result.EducationItems[0].ID)
	}
}

func TestMatch_ExclusionsRemoveItemsAndShowInAudit(t *testing.T) {
	m := newTestMatcher(t, sixItemFixture(), nil)
	result := m.Match(Request{
		PersonaID:          "low_savings",
		ExcludedContentIDs: []string{"emergency-fund-basics", "savings-calculator"},
	})
	for _, item := range result.EducationItems {
		if item.ID == "emergency-fund-basics" || item.ID == "savings-calculator" {
			t.Fatalf("excluded item %s selected", item.ID)
		}
	}
	if result.AuditTrail.AvailableAfterExcluded != 4 {
		t.Fatalf("expected 4 available after exclusion, got %d", result.AuditTrail.AvailableAfterExcluded)
	}
}

func TestMatch_FilterReasonsRecordEveryDrop(t *testing.T) {
	minIncome := 100000.0
	gated := testOffer("high-yield-savings", 1)
	gated.Eligibility.MinIncome = &minIncome

	m := newTestMatcher(t, sixItemFixture(), []types.PartnerOffer{gated, testOffer("skipped-offer", 2)})
	result := m.Match(Request{
		PersonaID:          "low_savings",
		UserAttrs:          eligibility.UserAttrs{AnnualIncome: 40000},
		ExcludedContentIDs: []string{"savings-calculator"},
		ExcludedOfferIDs:   []string{"skipped-offer"},
		IncludeOffers:      true,
	})

	byItem := map[string]types.FilterReason{}
	for _, fr := range result.AuditTrail.FilterReasons {
		byItem[fr.ItemID] = fr
	}
	if len(byItem) != 3 {
		t.Fatalf("expected 3 filter reasons, got %+v", result.AuditTrail.FilterReasons)
	}
	if fr := byItem["savings-calculator"]; fr.Stage != "exclusion" {
		t.Fatalf("expected exclusion stage for content drop, got %+v", fr)
	}
	if fr := byItem["skipped-offer"]; fr.Stage != "exclusion" {
		t.Fatalf("expected exclusion stage for offer drop, got %+v", fr)
	}
	fr := byItem["high-yield-savings"]
	if fr.Stage != "eligibility" || fr.Reason == "" {
		t.Fatalf("expected eligibility stage with reason text, got %+v", fr)
	}
}

func TestMatch_UnknownPersonaYieldsEmptyResult(t *testing.T) {
	m := newTestMatcher(t, sixItemFixture(), nil)
	result := m.Match(Request{PersonaID: "galactic_trader", IncludeOffers: true})
	if len(result.EducationItems) != 0 || len(result.Offers) != 0 {
		t.Fatalf("expected empty result for unknown persona")
	}
}

func TestMatch_FewerThanMinIsValidPartialResult(t *testing.T) {
	items := []types.RecommendationItem{
		contentItem("only-item", types.ContentTypeArticle, 1),
	}
	m := newTestMatcher(t, items, nil)
	result := m.Match(Request{PersonaID: "low_savings"})
	if len(result.EducationItems) != 1 {
		t.Fatalf("expected partial result of 1, got %d", len(result.EducationItems))
	}
}

func TestMatch_OffersGoThroughEligibilityWithAudit(t *testing.T) {
	minIncome := 100000.0
	gated := testOffer("high-yield-savings", 1)
	gated.Eligibility.MinIncome = &minIncome
	open := testOffer("round-up-app", 2)
	open.OfferType = types.OfferTypeApp

	m := newTestMatcher(t, sixItemFixture(), []types.PartnerOffer{gated, open})
	result := m.Match(Request{
		PersonaID:     "low_savings",
		UserAttrs:     eligibility.UserAttrs{AnnualIncome: 40000},
		IncludeOffers: true,
	})
	if len(result.Offers) != 1 || result.Offers[0].ID != "round-up-app" {
		t.Fatalf("unexpected offers: %+v", result.Offers)
	}
	reasons, ok := result.AuditTrail.IneligibleReasons["high-yield-savings"]
	if !ok || len(reasons) == 0 {
		t.Fatalf("expected ineligible reasons recorded, got %+v", result.AuditTrail.IneligibleReasons)
	}
	if result.AuditTrail.EligibleOfferCount != 1 || result.AuditTrail.SelectedOfferCount != 1 {
		t.Fatalf("unexpected offer audit counts: %+v", result.AuditTrail)
	}
}

func TestMatch_OfferBoundCapsSelection(t *testing.T) {
	offers := []types.PartnerOffer{
		testOffer("offer-one", 1),
		testOffer("offer-two", 2),
		testOffer("offer-three", 3),
		testOffer("offer-four", 4),
	}
	m := newTestMatcher(t, sixItemFixture(), offers)
	result := m.Match(Request{PersonaID: "low_savings", IncludeOffers: true})
	if len(result.Offers) != 3 {
		t.Fatalf("expected max 3 offers, got %d", len(result.Offers))
	}
	if result.Offers[0].ID != "offer-one" {
		t.Fatalf("expected priority order, got %s first", result.Offers[0].ID)
	}
}

func TestMatch_EducationOnlySkipsOffers(t *testing.T) {
	m := newTestMatcher(t, sixItemFixture(), []types.PartnerOffer{testOffer("some-offer", 1)})
	result := m.Match(Request{PersonaID: "low_savings", IncludeOffers: false})
	if len(result.Offers) != 0 {
		t.Fatalf("expected no offers on education-only path")
	}
	if result.AuditTrail.PersonaOfferCount != 0 {
		t.Fatalf("expected offer stages untouched, got %+v", result.AuditTrail)
	}
}
