// Package tone enforces the empowering-language guardrail: no prohibited
// phrasing, and text readable at or below a configurable grade ceiling.
package tone

import (
	"sort"
	"strings"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// DefaultGradeCeiling is the readability ceiling applied when none is
// configured.
const DefaultGradeCeiling = 8.0

// Prohibited phrases mapped to suggested empowering replacements. Matching is
// a case-insensitive substring scan.
var prohibitedAlternatives = map[string]string{
	"you should":     "you could",
	"you must":       "you might consider",
	"you need to":    "one option is to",
	"you failed":     "this didn't go as planned",
	"bad with money": "building money habits",
	"overspending":   "spending above your typical pattern",
	"irresponsible":  "still building habits",
	"debt trap":      "high-cost debt cycle",
	"poor choices":   "past decisions",
	"wasting money":  "money you could redirect",
	"out of control": "harder to track lately",
}

type Validator struct {
	log          *logger.Logger
	gradeCeiling float64
	scorer       GradeScorer
}

// NewValidator builds a validator. A nil scorer disables the readability gate
// (fail-open, not fail-closed); a non-positive ceiling takes the default.
func NewValidator(log *logger.Logger, gradeCeiling float64, scorer GradeScorer) *Validator {
	if log != nil {
		log = log.With("service", "ToneValidator")
	}
	if gradeCeiling <= 0 {
		gradeCeiling = DefaultGradeCeiling
	}
	return &Validator{log: log, gradeCeiling: gradeCeiling, scorer: scorer}
}

// Validate runs both independent gates over one text.
func (v *Validator) Validate(text string) types.ToneValidationResult {
	result := types.ToneValidationResult{
		PassesTone:        true,
		PassesReadability: true,
		GradeCeiling:      v.gradeCeiling,
	}
	lower := strings.ToLower(text)
	for phrase, alternative := range prohibitedAlternatives {
		idx := strings.Index(lower, phrase)
		for idx >= 0 {
			result.PassesTone = false
			result.Violations = append(result.Violations, types.ToneViolation{
				Phrase:      phrase,
				Offset:      idx,
				Alternative: alternative,
			})
			next := strings.Index(lower[idx+len(phrase):], phrase)
			if next < 0 {
				break
			}
			idx = idx + len(phrase) + next
		}
	}
	sort.Slice(result.Violations, func(i, j int) bool {
		if result.Violations[i].Offset != result.Violations[j].Offset {
			return result.Violations[i].Offset < result.Violations[j].Offset
		}
		return result.Violations[i].Phrase < result.Violations[j].Phrase
	})
	if v.scorer != nil {
		if grade, ok := v.scorer.Grade(text); ok {
			result.ReadabilityGrade = grade
			if grade > v.gradeCeiling {
				result.PassesReadability = false
			}
		}
	}
	result.Passes = result.PassesTone && result.PassesReadability
	return result
}

// ValidateItems applies Validate to each item's display description and drops
// any item failing either gate.
func (v *Validator) ValidateItems(items []types.PersonalizedRecommendation) ([]types.PersonalizedRecommendation, []types.ToneValidationResult) {
	kept := make([]types.PersonalizedRecommendation, 0, len(items))
	results := make([]types.ToneValidationResult, 0, len(items))
	for _, item := range items {
		res := v.Validate(item.Description)
		results = append(results, res)
		if res.Passes {
			kept = append(kept, item)
			continue
		}
		if v.log != nil {
			v.log.Warn("Item dropped by tone validation",
				"item_id", item.Item.ID,
				"passes_tone", res.PassesTone,
				"passes_readability", res.PassesReadability,
				"violations", len(res.Violations))
		}
	}
	return kept, results
}
