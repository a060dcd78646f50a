// Package personalization substitutes behavioral signal values into item
// templates. Resolution is all-or-nothing per item: one unresolvable
// placeholder aborts personalization and the base description ships instead.
// A partially filled template is never emitted.
package personalization

import (
	"regexp"
	"strings"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/signals"
	"github.com/yungbote/fincoach-backend/internal/types"
)

var placeholderRE = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

type Engine struct {
	log      *logger.Logger
	registry *signals.Registry
}

func NewEngine(log *logger.Logger, registry *signals.Registry) *Engine {
	if log != nil {
		log = log.With("service", "PersonalizationEngine")
	}
	if registry == nil {
		registry = signals.DefaultRegistry()
	}
	return &Engine{log: log, registry: registry}
}

// Personalize renders the item's template against the summary. Returns the
// final text, the substitution map, and whether personalization applied.
func (e *Engine) Personalize(item types.RecommendationItem, summary *signals.BehavioralSummary) (string, map[string]string, bool) {
	if item.PersonalizationTemplate == "" || summary == nil {
		return item.Description, map[string]string{}, false
	}
	names := placeholderNames(item.PersonalizationTemplate)
	if len(names) == 0 {
		return item.PersonalizationTemplate, map[string]string{}, true
	}
	substitutions := make(map[string]string, len(names))
	for _, name := range names {
		reg, ok := e.registry.Resolve(name)
		if !ok {
			if e.log != nil {
				e.log.Warn("Unresolvable placeholder, skipping personalization for item",
					"item_id", item.ID, "placeholder", name)
			}
			return item.Description, map[string]string{}, false
		}
		substitutions[name] = signals.FormatValue(reg.Kind, reg.Access(summary))
	}
	text := placeholderRE.ReplaceAllStringFunc(item.PersonalizationTemplate, func(tok string) string {
		name := tok[1 : len(tok)-1]
		return substitutions[name]
	})
	return text, substitutions, true
}

// PersonalizeItems personalizes a batch, carrying persona context through to
// the transient per-request structs.
func (e *Engine) PersonalizeItems(items []types.RecommendationItem, summary *signals.BehavioralSummary, personaID string) []types.PersonalizedRecommendation {
	out := make([]types.PersonalizedRecommendation, 0, len(items))
	for _, item := range items {
		text, subs, personalized := e.Personalize(item, summary)
		out = append(out, types.PersonalizedRecommendation{
			Item:          item,
			Description:   text,
			Substitutions: subs,
			Personalized:  personalized,
			PersonaID:     personaID,
		})
	}
	return out
}

// ValidateTemplates resolves every catalog template against the registry once
// at startup, surfacing unresolvable or ambiguously named placeholders as
// authoring warnings instead of per-call surprises.
func (e *Engine) ValidateTemplates(items []types.RecommendationItem) {
	for _, item := range items {
		if item.PersonalizationTemplate == "" {
			continue
		}
		for _, name := range placeholderNames(item.PersonalizationTemplate) {
			if _, ok := e.registry.Resolve(name); !ok {
				if e.log != nil {
					e.log.Warn("Catalog template placeholder not in registry",
						"item_id", item.ID, "placeholder", name)
				}
			}
			if ambiguousName(name) && e.log != nil {
				e.log.Warn("Catalog template placeholder name matches multiple format hints",
					"item_id", item.ID, "placeholder", name)
			}
		}
	}
}

func placeholderNames(template string) []string {
	matches := placeholderRE.FindAllStringSubmatch(template, -1)
	seen := map[string]bool{}
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// ambiguousName flags placeholder names whose legacy substring hints would
// have classified them into more than one display format.
func ambiguousName(name string) bool {
	classes := 0
	if strings.Contains(name, "_pct") || strings.Contains(name, "_share") || strings.Contains(name, "percent") {
		classes++
	}
	if strings.Contains(name, "_balance") || strings.Contains(name, "expenses") || strings.Contains(name, "amount") {
		classes++
	}
	if strings.Contains(name, "_count") {
		classes++
	}
	if strings.Contains(name, "_months") {
		classes++
	}
	return classes > 1
}
