// Package eligibility evaluates partner offer criteria against user
// attributes. Checks are independent and AND-combined; an absent criterion is
// automatically satisfied.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// Offer categories that are never recommended regardless of user attributes.
var harmfulCategories = map[string]bool{
	"payday_loan":    true,
	"payday":         true,
	"title_loan":     true,
	"cash_advance":   true,
	"rent_to_own":    true,
	"pawn":           true,
	"high_cost_loan": true,
}

const maxAllowedAPR = 36.0

// Utilization proxy threshold used when the credit score is unknown.
const unknownScoreUtilizationCeiling = 50.0

type Checker struct {
	log *logger.Logger
}

func NewChecker(log *logger.Logger) *Checker {
	if log != nil {
		log = log.With("service", "EligibilityChecker")
	}
	return &Checker{log: log}
}

// Check runs every gate for one offer. The harmful-product gate needs no user
// input and overrides everything else.
func (c *Checker) Check(offer types.PartnerOffer, attrs UserAttrs) types.EligibilityResult {
	result := types.EligibilityResult{OfferID: offer.ID, Eligible: true}

	if reason, harmful := harmfulProductReason(offer); harmful {
		result.Eligible = false
		result.Reasons = append(result.Reasons, reason)
		return result
	}

	crit := offer.Eligibility
	if crit.MinIncome != nil && attrs.AnnualIncome < *crit.MinIncome {
		result.Eligible = false
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Income below minimum requirement ($%.0f)", *crit.MinIncome))
	}
	if crit.MinCreditScore != nil {
		if attrs.CreditScore == 0 {
			// No score known: fall back to the utilization proxy.
			if attrs.CreditUtilization > unknownScoreUtilizationCeiling {
				result.Eligible = false
				result.Reasons = append(result.Reasons,
					fmt.Sprintf("High credit utilization (%.0f%%)", attrs.CreditUtilization))
			}
		} else if attrs.CreditScore < *crit.MinCreditScore {
			result.Eligible = false
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("Credit score below minimum requirement (%d)", *crit.MinCreditScore))
		}
	}
	if overlap := accountOverlap(attrs.ExistingAccountTypes, crit.ExcludedAccountTypes); overlap != "" {
		result.Eligible = false
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Already holds excluded account type: %s", overlap))
	}
	if crit.MaxCreditUtilization != nil && attrs.CreditUtilization > *crit.MaxCreditUtilization {
		result.Eligible = false
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Credit utilization above maximum (%.0f%%)", *crit.MaxCreditUtilization))
	}
	if crit.MinAge != nil && attrs.Age < *crit.MinAge {
		result.Eligible = false
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Below minimum age (%d)", *crit.MinAge))
	}
	if crit.EmploymentRequired && !attrs.IsEmployed {
		result.Eligible = false
		result.Reasons = append(result.Reasons, "Employment required")
	}
	return result
}

// FilterEligible applies Check to every offer, keeping per-offer audit detail
// for the rejected ones.
func (c *Checker) FilterEligible(attrs UserAttrs, offers []types.PartnerOffer) ([]types.PartnerOffer, []types.EligibilityResult) {
	eligible := make([]types.PartnerOffer, 0, len(offers))
	results := make([]types.EligibilityResult, 0, len(offers))
	for _, offer := range offers {
		res := c.Check(offer, attrs)
		results = append(results, res)
		if res.Eligible {
			eligible = append(eligible, offer)
		} else if c.log != nil {
			c.log.Debug("Offer filtered by eligibility", "offer_id", offer.ID, "reasons", res.Reasons)
		}
	}
	return eligible, results
}

func harmfulProductReason(offer types.PartnerOffer) (string, bool) {
	category := strings.ToLower(strings.TrimSpace(offer.Category))
	if harmfulCategories[category] {
		return fmt.Sprintf("Harmful product category: %s", category), true
	}
	if offer.APR != nil && *offer.APR > maxAllowedAPR {
		return fmt.Sprintf("APR %.1f%% exceeds %.0f%% cap", *offer.APR, maxAllowedAPR), true
	}
	return "", false
}

func accountOverlap(existing, excluded []string) string {
	for _, have := range existing {
		for _, exc := range excluded {
			if strings.EqualFold(have, exc) {
				return have
			}
		}
	}
	return ""
}
