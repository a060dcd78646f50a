package ranking

import (
	"testing"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/signals"
	"github.com/yungbote/fincoach-backend/internal/types"
)

func item(id string, priority int) types.RecommendationItem {
	return types.RecommendationItem{ID: id, Priority: priority}
}

func TestScore_PriorityDrivesBase(t *testing.T) {
	e := NewEngine(logger.NewNop())
	if got := e.Score(item("top-item", 1), nil, "", false); got != 1.0 {
		t.Fatalf("priority 1 base: got %v want 1.0", got)
	}
	if got := e.Score(item("low-item", 10), nil, "", false); got != 0.1 {
		t.Fatalf("priority 10 base: got %v want 0.1", got)
	}
}

func TestScore_BoostsAreAdditive(t *testing.T) {
	e := NewEngine(logger.NewNop())
	it := item("mid-item", 5)
	base := e.Score(it, nil, "", false)

	it.EstimatedImpact = types.ImpactHigh
	withImpact := e.Score(it, nil, "", false)
	if withImpact-base < 0.19 || withImpact-base > 0.21 {
		t.Fatalf("high impact boost off: %v -> %v", base, withImpact)
	}

	withPersonalized := e.Score(it, nil, "", true)
	if withPersonalized-withImpact < 0.09 || withPersonalized-withImpact > 0.11 {
		t.Fatalf("personalized boost off: %v -> %v", withImpact, withPersonalized)
	}

	it.Difficulty = "beginner"
	withQuickWin := e.Score(it, nil, "", true)
	if withQuickWin-withPersonalized < 0.09 || withQuickWin-withPersonalized > 0.11 {
		t.Fatalf("quick win boost off: %v -> %v", withPersonalized, withQuickWin)
	}
}

func TestScore_ClampsToUnitInterval(t *testing.T) {
	e := NewEngine(logger.NewNop())
	it := item("debt-payoff-plan", 1)
	it.EstimatedImpact = types.ImpactHigh
	it.Difficulty = "beginner"
	s := &signals.BehavioralSummary{}
	s.Credit.AggregateUtilization = 0.9
	if got := e.Score(it, s, "high_utilization", true); got != 1.0 {
		t.Fatalf("expected clamp to 1.0, got %v", got)
	}
}

func TestScore_PersonaBoostRespectsThresholds(t *testing.T) {
	e := NewEngine(logger.NewNop())
	it := item("debt-payoff-plan", 8)
	s := &signals.BehavioralSummary{}

	s.Credit.AggregateUtilization = 0.8
	high := e.Score(it, s, "high_utilization", false)
	s.Credit.AggregateUtilization = 0.6
	mid := e.Score(it, s, "high_utilization", false)
	s.Credit.AggregateUtilization = 0.2
	low := e.Score(it, s, "high_utilization", false)

	if !(high > mid && mid > low) {
		t.Fatalf("expected boost to scale with utilization: %v %v %v", high, mid, low)
	}
	if low != 0.3 {
		t.Fatalf("expected bare base below thresholds, got %v", low)
	}
}

func TestScore_UnknownPersonaGetsNoBoost(t *testing.T) {
	e := NewEngine(logger.NewNop())
	it := item("debt-payoff-plan", 8)
	s := &signals.BehavioralSummary{}
	s.Credit.AggregateUtilization = 0.9
	if got := e.Score(it, s, "brand_new_persona", false); got != 0.3 {
		t.Fatalf("expected base only for unregistered persona, got %v", got)
	}
}

func TestScore_RegisteredScorerIsClampedToMaxPersonaBoost(t *testing.T) {
	e := NewEngine(logger.NewNop())
	e.Register("greedy_persona", func(types.RecommendationItem, *signals.BehavioralSummary) float64 {
		return 5.0
	})
	got := e.Score(item("any-item", 8), &signals.BehavioralSummary{}, "greedy_persona", false)
	if got != 0.3+maxPersonaBoost {
		t.Fatalf("expected persona boost clamped to %v, got %v", maxPersonaBoost, got)
	}
}

func TestRank_AssignsDenseRanksInScoreOrder(t *testing.T) {
	e := NewEngine(logger.NewNop())
	recs := []types.PersonalizedRecommendation{
		{Item: item("low-item", 9)},
		{Item: item("top-item", 1)},
		{Item: item("mid-item", 5)},
	}
	ranked := e.Rank(recs, nil, "")
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked items")
	}
	if ranked[0].Item.ID != "top-item" || ranked[2].Item.ID != "low-item" {
		t.Fatalf("unexpected order: %s, %s, %s", ranked[0].Item.ID, ranked[1].Item.ID, ranked[2].Item.ID)
	}
	for i, rec := range ranked {
		if rec.Rank != i+1 {
			t.Fatalf("expected dense rank %d, got %d", i+1, rec.Rank)
		}
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	e := NewEngine(logger.NewNop())
	recs := []types.PersonalizedRecommendation{
		{Item: item("first-tied", 5)},
		{Item: item("second-tied", 5)},
	}
	ranked := e.Rank(recs, nil, "")
	if ranked[0].Item.ID != "first-tied" || ranked[1].Item.ID != "second-tied" {
		t.Fatalf("expected stable tie order, got %s then %s", ranked[0].Item.ID, ranked[1].Item.ID)
	}
}
