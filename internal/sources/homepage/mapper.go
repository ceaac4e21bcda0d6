package homepage

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Mapper converts Homepage bookmark config to create requests
type Mapper struct{}

// NewMapper creates a new bookmark mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapBookmarks converts a BookmarksConfig in file order.
// The entry name becomes the title and the category name the only tag.
// Entries without href are dropped; validation is left to the caller.
func (m *Mapper) MapBookmarks(config BookmarksConfig) ([]domain.CreateBookmarkRequest, error) {
	requests := make([]domain.CreateBookmarkRequest, 0)

	for _, category := range config {
		for _, categoryName := range slices.Sorted(maps.Keys(category)) {
			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range slices.Sorted(maps.Keys(bookmarkMap)) {
					entryList := bookmarkMap[bookmarkName]
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]

					href := strings.TrimSpace(entry.Href)
					if href == "" {
						continue
					}

					requests = append(requests, domain.CreateBookmarkRequest{
						URL:   href,
						Title: strings.TrimSpace(bookmarkName),
						Tags:  categoryTags(categoryName),
					})
				}
			}
		}
	}

	if len(requests) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in config")
	}

	return requests, nil
}

func categoryTags(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{}
	}
	return []string{name}
}
