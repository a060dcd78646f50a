// Package catalog loads and indexes the immutable content and offer
// libraries. Catalogs are built once at startup, validated fail-fast, and
// safely shared read-only across requests; every accessor returns copies.
package catalog

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// ExpectedPersonas is the fixed persona set the coverage check warns about
// when a catalog carries zero items for one of them.
var ExpectedPersonas = []string{
	"high_utilization",
	"low_savings",
	"subscription_heavy",
	"irregular_income",
	"building_credit",
	"healthy_finances",
}

var kebabIDRE = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// LoaderOptions tunes load-time validation. StrictIDs turns duplicate-id
// warnings into load errors, for catalog-authoring and test pipelines.
type LoaderOptions struct {
	StrictIDs bool
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	if !kebabIDRE.MatchString(id) {
		return fmt.Errorf("id %q is not kebab-case", id)
	}
	return nil
}

func validatePriority(id string, priority int) error {
	if priority < 1 || priority > 10 {
		return fmt.Errorf("item %q: priority %d out of range 1-10", id, priority)
	}
	return nil
}

func validatePersonas(id string, personas []string) error {
	if len(personas) == 0 {
		return fmt.Errorf("item %q: must belong to at least one persona", id)
	}
	return nil
}

func sortByPriority[T any](items []T, priorityOf func(T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		return priorityOf(items[i]) < priorityOf(items[j])
	})
}

func logCoverage(log *logger.Logger, kind string, countByPersona map[string]int) {
	if log == nil {
		return
	}
	for _, persona := range ExpectedPersonas {
		if countByPersona[persona] == 0 {
			log.Warn("Catalog has no entries for expected persona", "catalog", kind, "persona", persona)
		}
	}
}

func validContentType(ct types.ContentType) bool {
	switch ct {
	case types.ContentTypeArticle, types.ContentTypeTemplate, types.ContentTypeCalculator, types.ContentTypeVideo:
		return true
	}
	return false
}

func validCategory(c types.Category) bool {
	switch c {
	case types.CategoryEducation, types.CategoryAction, types.CategoryTip, types.CategoryInsight:
		return true
	}
	return false
}

func validImpact(i types.Impact) bool {
	switch i {
	case types.ImpactLow, types.ImpactMedium, types.ImpactHigh:
		return true
	}
	return false
}

func validOfferType(ot types.OfferType) bool {
	switch ot {
	case types.OfferTypeSavingsAccount, types.OfferTypeCreditCard, types.OfferTypeApp, types.OfferTypeTool:
		return true
	}
	return false
}
