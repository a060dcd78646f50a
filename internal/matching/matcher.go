// Package matching orchestrates the catalogs and the eligibility checker to
// produce a bounded, diversity-constrained candidate set with a full audit
// trail. Soft inputs degrade softly: unknown personas and empty signal lists
// yield valid (possibly empty) results, never errors.
package matching

import (
	"sort"
	"strings"
	"time"

	"github.com/yungbote/fincoach-backend/internal/catalog"
	"github.com/yungbote/fincoach-backend/internal/eligibility"
	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// Bounds is an inclusive (min, max) selection size constraint. Fewer than min
// available is a valid partial result, never an error.
type Bounds struct {
	Min int
	Max int
}

var (
	DefaultEducationBounds = Bounds{Min: 3, Max: 5}
	DefaultOfferBounds     = Bounds{Min: 1, Max: 3}
)

// Request carries everything one match call needs. Zero-value bounds take
// the defaults; IncludeOffers false gives the education-only path.
type Request struct {
	PersonaID          string
	Signals            []string
	UserAttrs          eligibility.UserAttrs
	ExcludedContentIDs []string
	ExcludedOfferIDs   []string
	EducationBounds    Bounds
	OfferBounds        Bounds
	IncludeOffers      bool
}

type Matcher struct {
	log     *logger.Logger
	content *catalog.ContentCatalog
	offers  *catalog.OfferCatalog
	checker *eligibility.Checker
}

func NewMatcher(log *logger.Logger, content *catalog.ContentCatalog, offers *catalog.OfferCatalog, checker *eligibility.Checker) *Matcher {
	if log != nil {
		log = log.With("service", "Matcher")
	}
	return &Matcher{log: log, content: content, offers: offers, checker: checker}
}

func (m *Matcher) Match(req Request) types.MatchingResult {
	if req.EducationBounds == (Bounds{}) {
		req.EducationBounds = DefaultEducationBounds
	}
	if req.OfferBounds == (Bounds{}) {
		req.OfferBounds = DefaultOfferBounds
	}

	result := types.MatchingResult{
		Timestamp: time.Now().UTC(),
		AuditTrail: types.MatchAuditTrail{
			IneligibleReasons: map[string][]string{},
		},
	}

	candidates := m.content.GetByPersona(req.PersonaID)
	result.AuditTrail.PersonaContentCount = len(candidates)

	ranked := rankCandidates(candidates, req.Signals)
	result.AuditTrail.RankedCount = len(ranked)

	available, droppedIDs := excludeItems(ranked, req.ExcludedContentIDs)
	result.AuditTrail.AvailableAfterExcluded = len(available)
	for _, id := range droppedIDs {
		result.AuditTrail.FilterReasons = append(result.AuditTrail.FilterReasons, types.FilterReason{
			ItemID: id,
			Stage:  "exclusion",
			Reason: "excluded by request",
		})
	}

	selected := selectDiverse(available, req.EducationBounds.Max)
	result.EducationItems = selected
	result.AuditTrail.SelectedContentCount = len(selected)
	result.AuditTrail.SelectedContentTypes = distinctTypes(selected)

	if req.IncludeOffers {
		m.matchOffers(req, &result)
	}

	if m.log != nil {
		m.log.Debug("Match complete",
			"persona_id", req.PersonaID,
			"education_selected", len(result.EducationItems),
			"offers_selected", len(result.Offers))
	}
	return result
}

func (m *Matcher) matchOffers(req Request, result *types.MatchingResult) {
	personaOffers := m.offers.GetByPersona(req.PersonaID)
	result.AuditTrail.PersonaOfferCount = len(personaOffers)

	afterExclusion := make([]types.PartnerOffer, 0, len(personaOffers))
	excluded := toSet(req.ExcludedOfferIDs)
	for _, offer := range personaOffers {
		if excluded[offer.ID] {
			result.AuditTrail.FilterReasons = append(result.AuditTrail.FilterReasons, types.FilterReason{
				ItemID: offer.ID,
				Stage:  "exclusion",
				Reason: "excluded by request",
			})
			continue
		}
		afterExclusion = append(afterExclusion, offer)
	}
	result.AuditTrail.OffersAfterExcluded = len(afterExclusion)

	eligible, checks := m.checker.FilterEligible(req.UserAttrs, afterExclusion)
	result.AuditTrail.EligibleOfferCount = len(eligible)
	for _, check := range checks {
		if !check.Eligible {
			result.AuditTrail.IneligibleReasons[check.OfferID] = check.Reasons
			result.AuditTrail.FilterReasons = append(result.AuditTrail.FilterReasons, types.FilterReason{
				ItemID: check.OfferID,
				Stage:  "eligibility",
				Reason: strings.Join(check.Reasons, "; "),
			})
		}
	}

	// Already priority-sorted by the catalog; keep the top slots.
	max := req.OfferBounds.Max
	if len(eligible) > max {
		eligible = eligible[:max]
	}
	result.Offers = eligible
	result.AuditTrail.SelectedOfferCount = len(eligible)
}

// rankCandidates orders by signal match count descending, then priority
// ascending. With no detected signals the catalog's priority order stands.
func rankCandidates(items []types.RecommendationItem, detected []string) []types.RecommendationItem {
	out := make([]types.RecommendationItem, len(items))
	copy(out, items)
	if len(detected) == 0 {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := out[i].SignalMatchCount(detected), out[j].SignalMatchCount(detected)
		if mi != mj {
			return mi > mj
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}

func excludeItems(items []types.RecommendationItem, excludedIDs []string) (kept []types.RecommendationItem, droppedIDs []string) {
	excluded := toSet(excludedIDs)
	kept = make([]types.RecommendationItem, 0, len(items))
	for _, item := range items {
		if excluded[item.ID] {
			droppedIDs = append(droppedIDs, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	return kept, droppedIDs
}

// selectDiverse takes at most one item per distinct content type in ranked
// order, then fills remaining slots from the still-unselected ranked items.
func selectDiverse(ranked []types.RecommendationItem, max int) []types.RecommendationItem {
	selected := make([]types.RecommendationItem, 0, max)
	taken := map[string]bool{}
	seenType := map[types.ContentType]bool{}

	for _, item := range ranked {
		if len(selected) >= max {
			break
		}
		if seenType[item.ContentType] {
			continue
		}
		seenType[item.ContentType] = true
		taken[item.ID] = true
		selected = append(selected, item)
	}
	for _, item := range ranked {
		if len(selected) >= max {
			break
		}
		if taken[item.ID] {
			continue
		}
		taken[item.ID] = true
		selected = append(selected, item)
	}
	return selected
}

func distinctTypes(items []types.RecommendationItem) []string {
	seen := map[string]bool{}
	var out []string
	for _, item := range items {
		ct := string(item.ContentType)
		if !seen[ct] {
			seen[ct] = true
			out = append(out, ct)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
