package homepage

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/validate"
)

// URLLookup finds an already stored bookmark by URL. A miss is (nil, nil).
type URLLookup interface {
	FindByURL(ctx context.Context, url string) (*domain.Bookmark, error)
}

// Creator stores a new bookmark.
type Creator interface {
	Create(ctx context.Context, req domain.CreateBookmarkRequest) (*domain.Bookmark, error)
}

// Result counts what an import did with each entry.
type Result struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Skipped int `json:"skipped"` // URL already stored, or repeated in the file
	Invalid int `json:"invalid"` // rejected by the same rules as the API
}

// Importer copies Homepage bookmarks into the store. Running it twice is a no-op.
type Importer struct {
	lookup  URLLookup
	creator Creator
	mapper  *Mapper
	logger  logger.Logger
}

func NewImporter(lookup URLLookup, creator Creator, log logger.Logger) *Importer {
	return &Importer{
		lookup:  lookup,
		creator: creator,
		mapper:  NewMapper(),
		logger:  log,
	}
}

// ImportFile loads path and imports its entries.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	config, err := NewLoader(path).Load()
	if err != nil {
		return Result{}, err
	}
	res, err := i.Import(ctx, config)
	if err != nil {
		return res, fmt.Errorf("import %s: %w", path, err)
	}
	i.logger.Info("homepage bookmarks imported",
		logger.String("file", path),
		logger.Int("total", res.Total),
		logger.Int("created", res.Created),
		logger.Int("skipped", res.Skipped),
		logger.Int("invalid", res.Invalid),
	)
	return res, nil
}

// Import stores every valid entry whose URL is not stored yet.
// A store failure aborts the run; entries created before it are kept.
func (i *Importer) Import(ctx context.Context, config BookmarksConfig) (Result, error) {
	requests, err := i.mapper.MapBookmarks(config)
	if err != nil {
		return Result{}, err
	}

	res := Result{Total: len(requests)}
	seen := make(map[string]struct{}, len(requests))

	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := validate.Check(req); err != nil {
			res.Invalid++
			metrics.ImportedBookmarksTotal.WithLabelValues("invalid").Inc()
			i.logger.Warn("skipping invalid homepage bookmark",
				logger.String("title", req.Title),
				logger.String("url", req.URL),
				logger.Error(err))
			continue
		}

		if _, dup := seen[req.URL]; dup {
			res.Skipped++
			metrics.ImportedBookmarksTotal.WithLabelValues("skipped").Inc()
			continue
		}
		seen[req.URL] = struct{}{}

		existing, err := i.lookup.FindByURL(ctx, req.URL)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Skipped++
			metrics.ImportedBookmarksTotal.WithLabelValues("skipped").Inc()
			i.logger.Debug("homepage bookmark already stored", logger.String("url", req.URL))
			continue
		}

		if _, err := i.creator.Create(ctx, req); err != nil {
			return res, err
		}
		res.Created++
		metrics.ImportedBookmarksTotal.WithLabelValues("created").Inc()
	}

	return res, nil
}
