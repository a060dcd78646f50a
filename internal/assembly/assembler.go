// Package assembly runs the full pipeline for one user: match, personalize,
// tone-gate, rank, explain, and wrap with the mandatory disclaimer and audit
// metadata. The latency budget is monitored, never enforced by aborting.
package assembly

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/fincoach-backend/internal/eligibility"
	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/matching"
	"github.com/yungbote/fincoach-backend/internal/personalization"
	"github.com/yungbote/fincoach-backend/internal/ranking"
	"github.com/yungbote/fincoach-backend/internal/rationale"
	"github.com/yungbote/fincoach-backend/internal/signals"
	"github.com/yungbote/fincoach-backend/internal/tone"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// Disclaimer is the fixed, verbatim notice attached to every output set,
// unconditionally, including empty ones. Never computed, never
// persona-specific.
const Disclaimer = "This content is for educational purposes only and is not financial advice. " +
	"Recommendations are based on your linked account activity. Partner offers may compensate us; " +
	"compensation never affects eligibility or ranking. Consider consulting a qualified financial " +
	"professional before making financial decisions."

// LatencyBudget is the advisory per-user generation target. Exceeding it logs
// a warning; the result is still returned.
const LatencyBudget = 5 * time.Second

var personaMatchReasons = map[string]string{
	"high_utilization":   "your credit utilization has been running high recently",
	"low_savings":        "your emergency savings cushion is thinner than recommended",
	"subscription_heavy": "recurring subscriptions make up a notable share of your spending",
	"irregular_income":   "your income arrives on an irregular schedule",
	"building_credit":    "you are actively building your credit history",
	"healthy_finances":   "your finances look steady and ready for fine-tuning",
}

const fallbackMatchReason = "this matches your recent financial activity patterns"

// Request is one assembly invocation. UserData feeds rationale placeholders
// and is merged with values derived from the summary.
type Request struct {
	UserID             string
	PersonaID          string
	Signals            []string
	Summary            *signals.BehavioralSummary
	UserAttrs          eligibility.UserAttrs
	UserData           map[string]any
	TimeWindow         string
	ExcludedContentIDs []string
	ExcludedOfferIDs   []string
	IncludeOffers      bool
}

type Assembler struct {
	log          *logger.Logger
	matcher      *matching.Matcher
	personalizer *personalization.Engine
	toneChecker  *tone.Validator
	ranker       *ranking.Engine
	rationales   *rationale.Generator
	tracer       trace.Tracer
}

func NewAssembler(
	log *logger.Logger,
	matcher *matching.Matcher,
	personalizer *personalization.Engine,
	toneChecker *tone.Validator,
	ranker *ranking.Engine,
	rationales *rationale.Generator,
) *Assembler {
	if log != nil {
		log = log.With("service", "Assembler")
	}
	return &Assembler{
		log:          log,
		matcher:      matcher,
		personalizer: personalizer,
		toneChecker:  toneChecker,
		ranker:       ranker,
		rationales:   rationales,
		tracer:       otel.Tracer("fincoach/assembly"),
	}
}

// Assemble produces the complete recommendation set for one user.
func (a *Assembler) Assemble(ctx context.Context, req Request) *types.AssembledRecommendationSet {
	started := time.Now()
	ctx, span := a.tracer.Start(ctx, "assembly.Assemble",
		trace.WithAttributes(
			attribute.String("persona_id", req.PersonaID),
			attribute.String("time_window", req.TimeWindow),
		))
	defer span.End()

	matchResult := a.matcher.Match(matching.Request{
		PersonaID:          req.PersonaID,
		Signals:            req.Signals,
		UserAttrs:          req.UserAttrs,
		ExcludedContentIDs: req.ExcludedContentIDs,
		ExcludedOfferIDs:   req.ExcludedOfferIDs,
		IncludeOffers:      req.IncludeOffers,
	})
	span.AddEvent("matched")

	ranked := a.PersonalizeAndRank(ctx, matchResult.EducationItems, req.Summary, req.PersonaID)
	span.AddEvent("ranked")

	userData := mergeUserData(req.UserData, req.Summary)
	matchReason := MatchReason(req.PersonaID)

	items := make([]types.AssembledRecommendationItem, 0, len(ranked)+len(matchResult.Offers))
	for _, rec := range ranked {
		r := a.rationales.GenerateForItem(rec.Item, userData)
		items = append(items, types.AssembledRecommendationItem{
			ItemType:           types.ItemTypeEducation,
			ItemID:             rec.Item.ID,
			Content:            educationContent(rec),
			Rationale:          r.Text,
			PersonaMatchReason: matchReason,
			SignalCitations:    r.Citations,
		})
	}
	educationCount := len(items)
	for _, offer := range matchResult.Offers {
		r := a.rationales.GenerateForOffer(offer, userData)
		items = append(items, types.AssembledRecommendationItem{
			ItemType:           types.ItemTypePartnerOffer,
			ItemID:             offer.ID,
			Content:            offerContent(offer),
			Rationale:          r.Text,
			PersonaMatchReason: matchReason,
			SignalCitations:    r.Citations,
		})
	}
	span.AddEvent("rationales generated")

	elapsed := time.Since(started)
	if elapsed > LatencyBudget && a.log != nil {
		a.log.Warn("Recommendation assembly exceeded latency budget",
			"user_id", req.UserID,
			"elapsed_ms", elapsed.Milliseconds(),
			"budget_ms", LatencyBudget.Milliseconds())
	}

	set := &types.AssembledRecommendationSet{
		UserID:          req.UserID,
		PersonaID:       req.PersonaID,
		TimeWindow:      req.TimeWindow,
		Recommendations: items,
		Disclaimer:      Disclaimer,
		Metadata: types.SetMetadata{
			TotalRecommendations: len(items),
			EducationCount:       educationCount,
			PartnerOfferCount:    len(items) - educationCount,
			GenerationTimeMS:     elapsed.Milliseconds(),
			TimeWindow:           req.TimeWindow,
			SignalsDetected:      req.Signals,
			MatchingAuditTrail:   matchResult.AuditTrail,
		},
		GeneratedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.Int("recommendations", len(items)))
	return set
}

// PersonalizeAndRank is the shared education personalization path, also used
// directly by the education-only endpoint.
func (a *Assembler) PersonalizeAndRank(ctx context.Context, items []types.RecommendationItem, summary *signals.BehavioralSummary, personaID string) []types.PersonalizedRecommendation {
	_, span := a.tracer.Start(ctx, "assembly.PersonalizeAndRank")
	defer span.End()
	personalized := a.personalizer.PersonalizeItems(items, summary, personaID)
	kept, _ := a.toneChecker.ValidateItems(personalized)
	return a.ranker.Rank(kept, summary, personaID)
}

// EmptySet is the short-circuit output: no recommendations, mandatory
// disclaimer, explanatory reason in metadata.
func EmptySet(userID, personaID, timeWindow, reason string) *types.AssembledRecommendationSet {
	return &types.AssembledRecommendationSet{
		UserID:          userID,
		PersonaID:       personaID,
		TimeWindow:      timeWindow,
		Recommendations: []types.AssembledRecommendationItem{},
		Disclaimer:      Disclaimer,
		Metadata: types.SetMetadata{
			TimeWindow:      timeWindow,
			SignalsDetected: []string{},
			Reason:          reason,
		},
		GeneratedAt: time.Now().UTC(),
	}
}

// MatchReason renders the persona match sentence.
func MatchReason(personaID string) string {
	desc, ok := personaMatchReasons[personaID]
	if !ok {
		desc = fallbackMatchReason
	}
	return "Selected for you because " + desc + "."
}

func educationContent(rec types.PersonalizedRecommendation) map[string]any {
	content := map[string]any{
		"title":            rec.Item.Title,
		"description":      rec.Description,
		"content_type":     string(rec.Item.ContentType),
		"category":         string(rec.Item.Category),
		"difficulty":       rec.Item.Difficulty,
		"time_commitment":  rec.Item.TimeCommitment,
		"estimated_impact": string(rec.Item.EstimatedImpact),
		"relevance_score":  rec.RelevanceScore,
		"rank":             rec.Rank,
		"personalized":     rec.Personalized,
	}
	if rec.Item.ContentURL != "" {
		content["content_url"] = rec.Item.ContentURL
	}
	return content
}

func offerContent(offer types.PartnerOffer) map[string]any {
	content := map[string]any{
		"title":       offer.Title,
		"description": offer.Description,
		"offer_type":  string(offer.OfferType),
		"provider":    offer.Provider,
	}
	if len(offer.KeyBenefits) > 0 {
		content["key_benefits"] = offer.KeyBenefits
	}
	if offer.OfferURL != "" {
		content["offer_url"] = offer.OfferURL
	}
	if offer.Disclaimer != "" {
		content["offer_disclaimer"] = offer.Disclaimer
	}
	return content
}

// mergeUserData layers summary-derived values under the caller-provided map
// so rationale templates can reference signal values directly. Caller keys
// win on collision.
func mergeUserData(userData map[string]any, summary *signals.BehavioralSummary) map[string]any {
	merged := map[string]any{}
	if summary != nil {
		merged["utilization_pct"] = summary.Credit.AggregateUtilization * 100
		merged["high_utilization_count"] = summary.Credit.HighUtilizationCount
		merged["savings_balance"] = summary.Savings.TotalSavingsBalance
		merged["emergency_fund_months"] = summary.Savings.EmergencyFundMonths
		merged["avg_monthly_expenses"] = summary.Savings.AvgMonthlyExpenses
		merged["subscription_count"] = summary.Subscriptions.SubscriptionCount
		merged["subscription_share_pct"] = summary.Subscriptions.SubscriptionShare * 100
		merged["subscription_total_spend"] = summary.Subscriptions.TotalSpend
		merged["payment_frequency"] = summary.Income.PaymentFrequency
	}
	for k, v := range userData {
		merged[k] = v
	}
	return merged
}
