package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/fincoach-backend/internal/logger"
	"github.com/yungbote/fincoach-backend/internal/types"
)

// OfferCatalog is the persona-indexed library of partner offers.
type OfferCatalog struct {
	byPersona map[string][]types.PartnerOffer
	byID      map[string]types.PartnerOffer
}

type offerDocument struct {
	PartnerOffers []types.PartnerOffer `yaml:"partner_offers"`
}

const minOfferDescriptionLen = 20
const maxKeyBenefits = 10

// LoadOfferCatalog reads and validates the partner offer catalog file.
func LoadOfferCatalog(path string, log *logger.Logger, opts LoaderOptions) (*OfferCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read offer catalog: %w", err)
	}
	var doc offerDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse offer catalog: %w", err)
	}
	if len(doc.PartnerOffers) == 0 {
		return nil, fmt.Errorf("offer catalog %s: missing partner_offers root key", path)
	}
	return NewOfferCatalog(doc.PartnerOffers, log, opts)
}

// NewOfferCatalog builds the catalog from already-decoded offers.
func NewOfferCatalog(offers []types.PartnerOffer, log *logger.Logger, opts LoaderOptions) (*OfferCatalog, error) {
	c := &OfferCatalog{
		byPersona: map[string][]types.PartnerOffer{},
		byID:      map[string]types.PartnerOffer{},
	}
	for _, offer := range offers {
		if err := validateOffer(offer); err != nil {
			return nil, fmt.Errorf("offer catalog: %w", err)
		}
		if _, exists := c.byID[offer.ID]; exists {
			if opts.StrictIDs {
				return nil, fmt.Errorf("offer catalog: duplicate offer id %q", offer.ID)
			}
			if log != nil {
				log.Warn("Duplicate offer id, keeping first occurrence", "id", offer.ID)
			}
			continue
		}
		c.byID[offer.ID] = offer
		for _, p := range offer.Personas {
			c.byPersona[p] = append(c.byPersona[p], offer)
		}
	}
	countByPersona := map[string]int{}
	for p, list := range c.byPersona {
		sortByPriority(list, func(o types.PartnerOffer) int { return o.Priority })
		countByPersona[p] = len(list)
	}
	logCoverage(log, "offers", countByPersona)
	return c, nil
}

func validateOffer(offer types.PartnerOffer) error {
	if err := validateID(offer.ID); err != nil {
		return err
	}
	if !validOfferType(offer.OfferType) {
		return fmt.Errorf("offer %q: unknown offer_type %q", offer.ID, offer.OfferType)
	}
	if offer.Title == "" {
		return fmt.Errorf("offer %q: missing title", offer.ID)
	}
	if len(offer.Description) < minOfferDescriptionLen {
		return fmt.Errorf("offer %q: description shorter than %d characters", offer.ID, minOfferDescriptionLen)
	}
	if offer.Provider == "" {
		return fmt.Errorf("offer %q: missing provider", offer.ID)
	}
	if len(offer.KeyBenefits) > maxKeyBenefits {
		return fmt.Errorf("offer %q: more than %d key_benefits", offer.ID, maxKeyBenefits)
	}
	if err := validatePriority(offer.ID, offer.Priority); err != nil {
		return err
	}
	return validatePersonas(offer.ID, offer.Personas)
}

// GetByPersona returns the persona's offers sorted ascending by priority.
func (c *OfferCatalog) GetByPersona(personaID string) []types.PartnerOffer {
	offers := c.byPersona[personaID]
	out := make([]types.PartnerOffer, len(offers))
	copy(out, offers)
	return out
}

func (c *OfferCatalog) GetByID(id string) (types.PartnerOffer, bool) {
	offer, ok := c.byID[id]
	return offer, ok
}

// GetByType returns all offers of one type sorted by priority.
func (c *OfferCatalog) GetByType(ot types.OfferType) []types.PartnerOffer {
	var out []types.PartnerOffer
	for _, offer := range c.byID {
		if offer.OfferType == ot {
			out = append(out, offer)
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

func (c *OfferCatalog) GetCount(personaID string) int {
	if personaID == "" {
		return len(c.byID)
	}
	return len(c.byPersona[personaID])
}
