package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/fincoach-backend/internal/logger"
)

// LoadCatalogs loads both catalog files concurrently at startup. Either
// failure aborts the whole load; a partially loaded catalog pair is never
// returned.
func LoadCatalogs(ctx context.Context, contentPath, offerPath string, log *logger.Logger, opts LoaderOptions) (*ContentCatalog, *OfferCatalog, error) {
	var (
		content *ContentCatalog
		offers  *OfferCatalog
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := LoadContentCatalog(contentPath, log, opts)
		if err != nil {
			return err
		}
		content = c
		return nil
	})
	g.Go(func() error {
		o, err := LoadOfferCatalog(offerPath, log, opts)
		if err != nil {
			return err
		}
		offers = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return content, offers, nil
}
