package types

import (
  "time"
)

type ItemType string

const (
  ItemTypeEducation    ItemType = "education"
  ItemTypePartnerOffer ItemType = "partner_offer"
)

// AssembledRecommendationItem is one final output unit: selected content or
// offer plus its rationale and match reason.
type AssembledRecommendationItem struct {
  ItemType           ItemType          `json:"item_type"`
  ItemID             string            `json:"item_id"`
  Content            map[string]any    `json:"content"`
  Rationale          string            `json:"rationale"`
  PersonaMatchReason string            `json:"persona_match_reason"`
  SignalCitations    []string          `json:"signal_citations"`
}

// SetMetadata is attached to every assembled set.
type SetMetadata struct {
  TotalRecommendations int             `json:"total_recommendations"`
  EducationCount       int             `json:"education_count"`
  PartnerOfferCount    int             `json:"partner_offer_count"`
  GenerationTimeMS     int64           `json:"generation_time_ms"`
  TimeWindow           string          `json:"time_window"`
  SignalsDetected      []string        `json:"signals_detected"`
  MatchingAuditTrail   MatchAuditTrail `json:"matching_audit_trail"`
  Reason               string          `json:"reason,omitempty"`
}

// AssembledRecommendationSet is the final, complete output for one user and
// time window. The disclaimer is always present, verbatim, including for
// empty sets.
type AssembledRecommendationSet struct {
  UserID          string                        `json:"user_id"`
  PersonaID       string                        `json:"persona_id"`
  TimeWindow      string                        `json:"time_window"`
  Recommendations []AssembledRecommendationItem `json:"recommendations"`
  Disclaimer      string                        `json:"disclaimer"`
  Metadata        SetMetadata                   `json:"metadata"`
  GeneratedAt     time.Time                     `json:"generated_at"`
}

// ToDict renders the set into the stable output contract shape.
func (s *AssembledRecommendationSet) ToDict() map[string]any {
  recs := make([]map[string]any, 0, len(s.Recommendations))
  for _, r := range s.Recommendations {
    citations := r.SignalCitations
    if citations == nil {
      citations = []string{}
    }
    recs = append(recs, map[string]any{
      "item_type":            string(r.ItemType),
      "item_id":              r.ItemID,
      "content":              r.Content,
      "rationale":            r.Rationale,
      "persona_match_reason": r.PersonaMatchReason,
      "signal_citations":     citations,
    })
  }
  signalsDetected := s.Metadata.SignalsDetected
  if signalsDetected == nil {
    signalsDetected = []string{}
  }
  metadata := map[string]any{
    "total_recommendations": s.Metadata.TotalRecommendations,
    "education_count":       s.Metadata.EducationCount,
    "partner_offer_count":   s.Metadata.PartnerOfferCount,
    "generation_time_ms":    s.Metadata.GenerationTimeMS,
    "time_window":           s.Metadata.TimeWindow,
    "signals_detected":      signalsDetected,
    "matching_audit_trail":  s.Metadata.MatchingAuditTrail,
  }
  if s.Metadata.Reason != "" {
    metadata["reason"] = s.Metadata.Reason
  }
  return map[string]any{
    "user_id":         s.UserID,
    "persona_id":      s.PersonaID,
    "time_window":     s.TimeWindow,
    "recommendations": recs,
    "disclaimer":      s.Disclaimer,
    "metadata":        metadata,
    "generated_at":    s.GeneratedAt.UTC().Format(time.RFC3339),
  }
}
