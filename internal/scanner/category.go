package scanner

import (
	"fmt"
	"strings"
)

// Category selects what a scan does
type Category string

const (
	CategoryFull    Category = "full"
	CategoryURLs    Category = "urls"
	CategoryLogin   Category = "login"
	CategoryAdmin   Category = "admin"
	CategoryAPIKeys Category = "api_keys"
	CategoryWallet  Category = "wallet"
	CategoryPayment Category = "payment"
)

// detectorCategories lists the detector categories in the order they are reported
var detectorCategories = []Category{
	CategoryLogin,
	CategoryAdmin,
	CategoryAPIKeys,
	CategoryWallet,
	CategoryPayment,
}

// ParseCategory accepts the wire names case-insensitively
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryFull, CategoryURLs, CategoryLogin, CategoryAdmin,
		CategoryAPIKeys, CategoryWallet, CategoryPayment:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ParseCategories parses a list of wire names
func ParseCategories(values []string) ([]Category, error) {
	categories := make([]Category, 0, len(values))
	for _, v := range values {
		c, err := ParseCategory(v)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// expandDetectors resolves FULL into the detector categories to run.
// Every valid selection crawls: URLS asks for it directly and each
// detector enumerates the visited set the crawl produces.
func expandDetectors(categories []Category) ([]Category, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	requested := make(map[Category]bool, len(categories))
	for _, raw := range categories {
		c, err := ParseCategory(string(raw))
		if err != nil {
			return nil, err
		}
		requested[c] = true
	}

	full := requested[CategoryFull]
	detectors := []Category{}
	for _, c := range detectorCategories {
		if full || requested[c] {
			detectors = append(detectors, c)
		}
	}

	return detectors, nil
}
