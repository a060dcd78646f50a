package types

// EligibilityResult is the per-offer outcome of the eligibility checker.
type EligibilityResult struct {
  OfferID  string   `json:"offer_id"`
  Eligible bool     `json:"eligible"`
  Reasons  []string `json:"reasons,omitempty"`
}

// ToneViolation is one prohibited-phrase hit inside a validated text.
type ToneViolation struct {
  Phrase      string `json:"phrase"`
  Offset      int    `json:"offset"`
  Alternative string `json:"alternative,omitempty"`
}

// ToneValidationResult carries the outcome of both tone gates for one text.
type ToneValidationResult struct {
  PassesTone        bool            `json:"passes_tone"`
  PassesReadability bool            `json:"passes_readability"`
  Passes            bool            `json:"passes"`
  Violations        []ToneViolation `json:"violations,omitempty"`
  ReadabilityGrade  float64         `json:"readability_grade"`
  GradeCeiling      float64         `json:"grade_ceiling"`
}

// FilterReason records why a candidate was dropped at some pipeline stage.
type FilterReason struct {
  ItemID string `json:"item_id"`
  Stage  string `json:"stage"`
  Reason string `json:"reason"`
}
