package types

type OfferType string

const (
  OfferTypeSavingsAccount OfferType = "savings_account"
  OfferTypeCreditCard     OfferType = "credit_card"
  OfferTypeApp            OfferType = "app"
  OfferTypeTool           OfferType = "tool"
)

// OfferEligibility holds the optional, independent criteria an offer imposes.
// A nil/zero criterion is automatically satisfied.
type OfferEligibility struct {
  MinIncome             *float64 `yaml:"min_income,omitempty" json:"min_income,omitempty"`
  MinCreditScore        *int     `yaml:"min_credit_score,omitempty" json:"min_credit_score,omitempty"`
  ExcludedAccountTypes  []string `yaml:"excluded_account_types,omitempty" json:"excluded_account_types,omitempty"`
  MaxCreditUtilization  *float64 `yaml:"max_credit_utilization,omitempty" json:"max_credit_utilization,omitempty"`
  MinAge                *int     `yaml:"min_age,omitempty" json:"min_age,omitempty"`
  EmploymentRequired    bool     `yaml:"employment_required,omitempty" json:"employment_required,omitempty"`
}

// PartnerOffer is one partner product entry from the offer catalog.
// Offers are immutable after catalog load.
type PartnerOffer struct {
  ID                string           `yaml:"id" json:"id"`
  OfferType         OfferType        `yaml:"offer_type" json:"offer_type"`
  Title             string           `yaml:"title" json:"title"`
  Description       string           `yaml:"description" json:"description"`
  Personas          []string         `yaml:"personas" json:"personas"`
  Eligibility       OfferEligibility `yaml:"eligibility" json:"eligibility"`
  Priority          int              `yaml:"priority" json:"priority"`
  Provider          string           `yaml:"provider" json:"provider"`
  OfferURL          string           `yaml:"offer_url,omitempty" json:"offer_url,omitempty"`
  KeyBenefits       []string         `yaml:"key_benefits,omitempty" json:"key_benefits,omitempty"`
  RationaleTemplate string           `yaml:"rationale_template,omitempty" json:"rationale_template,omitempty"`
  Disclaimer        string           `yaml:"disclaimer,omitempty" json:"disclaimer,omitempty"`
  Category          string           `yaml:"category,omitempty" json:"category,omitempty"`
  APR               *float64         `yaml:"apr,omitempty" json:"apr,omitempty"`
}

func (po *PartnerOffer) HasPersona(personaID string) bool {
  for _, p := range po.Personas {
    if p == personaID {
      return true
    }
  }
  return false
}
