package types

import (
  "time"
)

// MatchAuditTrail records counts and reasons at every filtering stage of one
// match call. Transient, produced per request.
type MatchAuditTrail struct {
  PersonaContentCount    int                 `json:"persona_content_count"`
  RankedCount            int                 `json:"ranked_count"`
  AvailableAfterExcluded int                 `json:"available_after_excluded"`
  SelectedContentCount   int                 `json:"selected_content_count"`
  SelectedContentTypes   []string            `json:"selected_content_types"`
  PersonaOfferCount      int                 `json:"persona_offer_count"`
  OffersAfterExcluded    int                 `json:"offers_after_excluded"`
  EligibleOfferCount     int                 `json:"eligible_offer_count"`
  SelectedOfferCount     int                 `json:"selected_offer_count"`
  IneligibleReasons      map[string][]string `json:"ineligible_reasons,omitempty"`
  FilterReasons          []FilterReason      `json:"filter_reasons,omitempty"`
}

// MatchingResult is the bounded candidate set produced by one match call.
type MatchingResult struct {
  EducationItems []RecommendationItem `json:"education_items"`
  Offers         []PartnerOffer       `json:"offers"`
  AuditTrail     MatchAuditTrail      `json:"audit_trail"`
  Timestamp      time.Time            `json:"timestamp"`
}

// PersonalizedRecommendation is an education item plus the personalization and
// ranking metadata attached to it for one user.
type PersonalizedRecommendation struct {
  Item           RecommendationItem `json:"item"`
  Description    string             `json:"description"`
  Substitutions  map[string]string  `json:"substitutions,omitempty"`
  Personalized   bool               `json:"personalized"`
  RelevanceScore float64            `json:"relevance_score"`
  Rank           int                `json:"rank"`
  PersonaID      string             `json:"persona_id"`
}
