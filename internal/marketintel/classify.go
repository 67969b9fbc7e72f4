package marketintel

import "strings"

// genericProductNames are product names that describe an idea rather than a
// real brand; they force the new-entrant perspective.
var genericProductNames = []string{
	"new product",
	"new service",
	"startup",
	"new company",
}

// b2bIndustryKeywords classify an industry string as B2B. Matching is
// case-insensitive substring containment.
var b2bIndustryKeywords = []string{
	"b2b",
	"business",
	"enterprise",
	"saas",
	"software",
	"financial services",
	"consulting",
	"professional services",
}

// ClassifyPerspective returns existing_brand when the product name denotes a
// real, specific brand, and new_entrant for empty or generic names.
func ClassifyPerspective(productName string) Perspective {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return PerspectiveNewEntrant
	}
	for _, generic := range genericProductNames {
		if name == generic {
			return PerspectiveNewEntrant
		}
	}
	return PerspectiveExistingBrand
}

// IsB2BIndustry reports whether the industry string names a B2B market.
// Firmographic segmentation is only produced for B2B inputs.
func IsB2BIndustry(industry string) bool {
	ind := strings.ToLower(strings.TrimSpace(industry))
	if ind == "" {
		return false
	}
	for _, kw := range b2bIndustryKeywords {
		if strings.Contains(ind, kw) {
			return true
		}
	}
	return false
}
