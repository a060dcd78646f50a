// Package ranking scores candidate items for relevance. Scores always land
// in [0,1]: a priority-derived base plus flat boosts plus a persona-specific
// boost supplied by a registered scorer.
package ranking

import (
	"sort"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/signals"
	"github.com/yungbote/fincoach-backend/internal/types"
)

const (
	highImpactBoost   = 0.2
	personalizedBoost = 0.1
	quickWinBoost     = 0.1
	maxPersonaBoost   = 0.3
)

// PersonaScorer returns the persona-specific boost for one item, in
// [0, maxPersonaBoost]. New personas are added by registration, not by
// editing a dispatcher.
type PersonaScorer func(item types.RecommendationItem, summary *signals.BehavioralSummary) float64

type Engine struct {
	log            *logger.Logger
	personaScorers map[string]PersonaScorer
}

func NewEngine(log *logger.Logger) *Engine {
	if log != nil {
		log = log.With("service", "RankingEngine")
	}
	e := &Engine{log: log, personaScorers: map[string]PersonaScorer{}}
	for persona, scorer := range defaultPersonaScorers() {
		e.Register(persona, scorer)
	}
	return e
}

func (e *Engine) Register(personaID string, scorer PersonaScorer) {
	e.personaScorers[personaID] = scorer
}

// Score computes the relevance score for one item.
func (e *Engine) Score(item types.RecommendationItem, summary *signals.BehavioralSummary, personaID string, wasPersonalized bool) float64 {
	score := float64(11-item.Priority) / 10

	if item.EstimatedImpact == types.ImpactHigh {
		score += highImpactBoost
	}
	if wasPersonalized {
		score += personalizedBoost
	}
	if isQuickWin(item) {
		score += quickWinBoost
	}
	if scorer, ok := e.personaScorers[personaID]; ok && summary != nil {
		boost := scorer(item, summary)
		if boost < 0 {
			boost = 0
		}
		if boost > maxPersonaBoost {
			boost = maxPersonaBoost
		}
		score += boost
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Rank scores every candidate and orders them by score descending, stable on
// ties, then assigns a dense 1..N rank.
func (e *Engine) Rank(items []types.PersonalizedRecommendation, summary *signals.BehavioralSummary, personaID string) []types.PersonalizedRecommendation {
	out := make([]types.PersonalizedRecommendation, len(items))
	copy(out, items)
	for i := range out {
		out[i].RelevanceScore = e.Score(out[i].Item, summary, personaID, out[i].Personalized)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Quick wins are items a user can act on immediately.
func isQuickWin(item types.RecommendationItem) bool {
	return item.Difficulty == "beginner" || item.TimeCommitment == "one-time"
}
