package service

import (
	"fmt"

	"github.com/noirparfum/noir-backend/pkg/util"
)

const maxSlugAttempts = 50

// uniqueSlug appends -2, -3... to the slugified base until exists reports it free
func uniqueSlug(base string, excludeID uint, exists func(slug string, excludeID uint) (bool, error)) (string, error) {
	slug := util.Slugify(base)
	if slug == "" {
		slug = "item"
	}

	candidate := slug
	for i := 2; i <= maxSlugAttempts; i++ {
		taken, err := exists(candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
