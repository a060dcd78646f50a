package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// ContentCatalog is the persona-indexed library of educational items.
type ContentCatalog struct {
	byPersona map[string][]types.RecommendationItem
	byID      map[string]types.RecommendationItem
}

type contentDocument struct {
	Recommendations    map[string][]types.RecommendationItem `yaml:"recommendations"`
	EducationalContent map[string][]types.RecommendationItem `yaml:"educational_content"`
}

// LoadContentCatalog reads and validates the education catalog file. Any
// structural problem is a startup failure; duplicate ids warn and keep the
// first occurrence unless opts.StrictIDs is set.
func LoadContentCatalog(path string, log *logger.Logger, opts LoaderOptions) (*ContentCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content catalog: %w", err)
	}
	var doc contentDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse content catalog: %w", err)
	}
	byPersona := doc.Recommendations
	if len(byPersona) == 0 {
		byPersona = doc.EducationalContent
	}
	if len(byPersona) == 0 {
		return nil, fmt.Errorf("content catalog %s: missing recommendations root key", path)
	}
	return NewContentCatalog(byPersona, log, opts)
}

// NewContentCatalog builds the catalog from already-decoded persona groups.
func NewContentCatalog(grouped map[string][]types.RecommendationItem, log *logger.Logger, opts LoaderOptions) (*ContentCatalog, error) {
	c := &ContentCatalog{
		byPersona: map[string][]types.RecommendationItem{},
		byID:      map[string]types.RecommendationItem{},
	}
	// Deterministic load order so keep-first duplicate handling is stable.
	personaKeys := make([]string, 0, len(grouped))
	for p := range grouped {
		personaKeys = append(personaKeys, p)
	}
	sort.Strings(personaKeys)
	for _, groupPersona := range personaKeys {
		for _, item := range grouped[groupPersona] {
			if !item.HasPersona(groupPersona) {
				item.Personas = append(item.Personas, groupPersona)
			}
			if err := validateContentItem(item); err != nil {
				return nil, fmt.Errorf("content catalog: %w", err)
			}
			if _, exists := c.byID[item.ID]; exists {
				if opts.StrictIDs {
					return nil, fmt.Errorf("content catalog: duplicate item id %q", item.ID)
				}
				if log != nil {
					log.Warn("Duplicate content item id, keeping first occurrence", "id", item.ID)
				}
				continue
			}
			c.byID[item.ID] = item
			for _, p := range item.Personas {
				c.byPersona[p] = append(c.byPersona[p], item)
			}
		}
	}
	countByPersona := map[string]int{}
	for p, items := range c.byPersona {
		sortByPriority(items, func(it types.RecommendationItem) int { return it.Priority })
		countByPersona[p] = len(items)
	}
	logCoverage(log, "content", countByPersona)
	return c, nil
}

func validateContentItem(item types.RecommendationItem) error {
	if err := validateID(item.ID); err != nil {
		return err
	}
	if !validContentType(item.ContentType) {
		return fmt.Errorf("item %q: unknown content_type %q", item.ID, item.ContentType)
	}
	if item.Title == "" {
		return fmt.Errorf("item %q: missing title", item.ID)
	}
	if item.Description == "" {
		return fmt.Errorf("item %q: missing description", item.ID)
	}
	if !validCategory(item.Category) {
		return fmt.Errorf("item %q: unknown category %q", item.ID, item.Category)
	}
	if !validImpact(item.EstimatedImpact) {
		return fmt.Errorf("item %q: unknown estimated_impact %q", item.ID, item.EstimatedImpact)
	}
	if err := validatePriority(item.ID, item.Priority); err != nil {
		return err
	}
	return validatePersonas(item.ID, item.Personas)
}

// GetByPersona returns the persona's items sorted ascending by priority.
// Unknown personas yield an empty slice, never an error.
func (c *ContentCatalog) GetByPersona(personaID string) []types.RecommendationItem {
	items := c.byPersona[personaID]
	out := make([]types.RecommendationItem, len(items))
	copy(out, items)
	return out
}

func (c *ContentCatalog) GetByID(id string) (types.RecommendationItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// GetByType returns all items of one content type sorted by priority.
func (c *ContentCatalog) GetByType(ct types.ContentType) []types.RecommendationItem {
	var out []types.RecommendationItem
	for _, item := range c.byID {
		if item.ContentType == ct {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AllItems returns every distinct item sorted by id. Used for startup-time
// template validation.
func (c *ContentCatalog) AllItems() []types.RecommendationItem {
	out := make([]types.RecommendationItem, 0, len(c.byID))
	for _, item := range c.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetCount returns the item count for one persona, or the distinct item count
// when personaID is empty.
func (c *ContentCatalog) GetCount(personaID string) int {
	if personaID == "" {
		return len(c.byID)
	}
	return len(c.byPersona[personaID])
}
