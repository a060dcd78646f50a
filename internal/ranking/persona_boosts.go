package ranking

import (
	"strings"

	"github.com/yungbote/fincoach-backend/internal/signals"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// defaultPersonaScorers is the shipped boost table. Each scorer keys off
// item-id substrings and signal thresholds for its persona.
func defaultPersonaScorers() map[string]PersonaScorer {
	return map[string]PersonaScorer{
		"high_utilization": func(item types.RecommendationItem, s *signals.BehavioralSummary) float64 {
			util := s.Credit.AggregateUtilization
			if idContains(item, "debt", "payoff") {
				if util > 0.7 {
					return 0.3
				}
				if util > 0.5 {
					return 0.2
				}
			}
			if idContains(item, "utilization", "credit") && util > 0.5 {
				return 0.15
			}
			return 0
		},
		"low_savings": func(item types.RecommendationItem, s *signals.BehavioralSummary) float64 {
			months := s.Savings.EmergencyFundMonths
			if idContains(item, "emergency", "savings") {
				if months < 1 {
					return 0.3
				}
				if months < 3 {
					return 0.2
				}
			}
			if idContains(item, "automat") {
				return 0.15
			}
			return 0
		},
		"subscription_heavy": func(item types.RecommendationItem, s *signals.BehavioralSummary) float64 {
			if idContains(item, "subscription", "audit") {
				if s.Subscriptions.SubscriptionCount > 15 {
					return 0.3
				}
				if s.Subscriptions.SubscriptionCount > 8 {
					return 0.2
				}
			}
			if idContains(item, "spending") && s.Subscriptions.SubscriptionShare > 0.1 {
				return 0.15
			}
			return 0
		},
		"irregular_income": func(item types.RecommendationItem, s *signals.BehavioralSummary) float64 {
			irregular := s.Income.PaymentFrequency == "irregular"
			if idContains(item, "buffer", "budget") && irregular {
				return 0.25
			}
			if idContains(item, "income") {
				return 0.15
			}
			return 0
		},
		"building_credit": func(item types.RecommendationItem, s *signals.BehavioralSummary) float64 {
			if idContains(item, "credit", "score") {
				if s.Credit.AggregateUtilization < 0.3 {
					return 0.25
				}
				return 0.2
			}
			return 0
		},
		"healthy_finances": func(item types.RecommendationItem, s *signals.BehavioralSummary) float64 {
			if idContains(item, "invest", "optimize") {
				return 0.2
			}
			if idContains(item, "goal") {
				return 0.1
			}
			return 0
		},
	}
}

func idContains(item types.RecommendationItem, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(item.ID, sub) {
			return true
		}
	}
	return false
}
