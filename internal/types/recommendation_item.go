package types

type ContentType string

const (
  ContentTypeArticle    ContentType = "article"
  ContentTypeTemplate   ContentType = "template"
  ContentTypeCalculator ContentType = "calculator"
  ContentTypeVideo      ContentType = "video"
)

type Category string

const (
  CategoryEducation Category = "education"
  CategoryAction    Category = "action"
  CategoryTip       Category = "tip"
  CategoryInsight   Category = "insight"
)

type Impact string

const (
  ImpactLow    Impact = "low"
  ImpactMedium Impact = "medium"
  ImpactHigh   Impact = "high"
)

// RecommendationItem is one educational content entry from the content catalog.
// Items are immutable after catalog load.
type RecommendationItem struct {
  ID                      string      `yaml:"id" json:"id"`
  ContentType             ContentType `yaml:"content_type" json:"content_type"`
  Title                   string      `yaml:"title" json:"title"`
  Description             string      `yaml:"description" json:"description"`
  Personas                []string    `yaml:"personas" json:"personas"`
  TriggeringSignals       []string    `yaml:"triggering_signals" json:"triggering_signals"`
  Category                Category    `yaml:"category" json:"category"`
  Priority                int         `yaml:"priority" json:"priority"`
  Difficulty              string      `yaml:"difficulty" json:"difficulty"`
  TimeCommitment          string      `yaml:"time_commitment" json:"time_commitment"`
  EstimatedImpact         Impact      `yaml:"estimated_impact" json:"estimated_impact"`
  ContentURL              string      `yaml:"content_url,omitempty" json:"content_url,omitempty"`
  PersonalizationTemplate string      `yaml:"personalization_template,omitempty" json:"personalization_template,omitempty"`
}

func (ri *RecommendationItem) HasPersona(personaID string) bool {
  for _, p := range ri.Personas {
    if p == personaID {
      return true
    }
  }
  return false
}

// SignalMatchCount counts how many of the detected signal names appear in the
// item's triggering signal list.
func (ri *RecommendationItem) SignalMatchCount(detected []string) int {
  count := 0
  for _, s := range detected {
    for _, t := range ri.TriggeringSignals {
      if s == t {
        count++
        break
      }
    }
  }
  return count
}
