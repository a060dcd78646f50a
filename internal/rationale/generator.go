// Package rationale builds the personalized "because" explanation attached to
// every selected item. Unlike personalization, a missing value does not abort
// generation: the placeholder stays in the text as a bracketed literal and is
// logged, so authoring gaps are loud instead of silent.
package rationale

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/signals"
	"github.com/yungbote/fincoach-backend/internal/types"
)

var placeholderRE = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

var (
	maskedAccountRE = regexp.MustCompile(`(?:\*{2,}|[Xx]{2,})\d{3,4}`)
	currencyRE      = regexp.MustCompile(`\$[0-9][0-9,]*(?:\.[0-9]{2})?`)
	percentageRE    = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?%`)
)

const fallbackDescriptionLimit = 120

type Generator struct {
	log *logger.Logger
}

func NewGenerator(log *logger.Logger) *Generator {
	if log != nil {
		log = log.With("service", "RationaleGenerator")
	}
	return &Generator{log: log}
}

// GenerateForItem builds the rationale for an education item.
func (g *Generator) GenerateForItem(item types.RecommendationItem, userData map[string]any) types.GeneratedRationale {
	return g.generate(item.ID, "", item.Description, userData)
}

// GenerateForOffer builds the rationale for a partner offer, preferring the
// offer's own template.
func (g *Generator) GenerateForOffer(offer types.PartnerOffer, userData map[string]any) types.GeneratedRationale {
	return g.generate(offer.ID, offer.RationaleTemplate, offer.Description, userData)
}

func (g *Generator) generate(id, template, description string, userData map[string]any) types.GeneratedRationale {
	if template == "" {
		template = fallbackTemplate(description)
	}
	text, substitutions := g.substitute(id, template, userData)
	// Every rationale carries a causal clause; a template without one falls
	// back to the generic form.
	if !strings.Contains(strings.ToLower(text), "because") {
		text, substitutions = g.substitute(id, fallbackTemplate(description), userData)
	}
	return types.GeneratedRationale{
		ItemID:        id,
		Text:          text,
		Substitutions: substitutions,
		Citations:     extractCitations(text),
		GeneratedAt:   time.Now().UTC(),
	}
}

func (g *Generator) substitute(id, template string, userData map[string]any) (string, map[string]string) {
	substitutions := map[string]string{}
	text := placeholderRE.ReplaceAllStringFunc(template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		value, ok := userData[name]
		if !ok {
			if g.log != nil {
				g.log.Warn("Rationale placeholder missing from user data, leaving literal",
					"item_id", id, "placeholder", name)
			}
			return tok
		}
		formatted := signals.FormatValue(formatKindFor(name), value)
		substitutions[name] = formatted
		return formatted
	})
	return text, substitutions
}

func fallbackTemplate(description string) string {
	return fmt.Sprintf("This is suggested because %s", truncate(description, fallbackDescriptionLimit))
}

// formatKindFor infers the display format from the placeholder name using the
// broad rationale vocabulary. Percentage hints win over currency hints when a
// name carries both.
func formatKindFor(name string) signals.FormatKind {
	lower := strings.ToLower(name)
	for _, hint := range []string{"pct", "percent", "utilization", "rate", "apy", "apr"} {
		if strings.Contains(lower, hint) {
			return signals.FormatPercent
		}
	}
	for _, hint := range []string{"amount", "balance", "income", "savings", "interest", "limit", "payment", "cost", "charge", "fee"} {
		if strings.Contains(lower, hint) {
			return signals.FormatCurrency
		}
	}
	if strings.Contains(lower, "months") {
		return signals.FormatMonths
	}
	if strings.Contains(lower, "count") {
		return signals.FormatCount
	}
	return signals.FormatRaw
}

// extractCitations scans the generated text for masked account, currency and
// percentage substrings, deduplicated in order of first appearance.
func extractCitations(text string) []string {
	var citations []string
	seen := map[string]bool{}
	for _, re := range []*regexp.Regexp{maskedAccountRE, currencyRE, percentageRE} {
		for _, match := range re.FindAllString(text, -1) {
			if !seen[match] {
				seen[match] = true
				citations = append(citations, match)
			}
		}
	}
	return citations
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
