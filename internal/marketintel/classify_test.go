package marketintel

import "testing"

func TestClassifyPerspective(t *testing.T) {
	cases := []struct {
		name    string
		product string
		want    Perspective
	}{
		{"real brand", "DTCC", PerspectiveExistingBrand},
		{"real product", "Craft Beer", PerspectiveExistingBrand},
		{"empty", "", PerspectiveNewEntrant},
		{"whitespace only", "   ", PerspectiveNewEntrant},
		{"generic new product", "New Product", PerspectiveNewEntrant},
		{"generic new service", "new service", PerspectiveNewEntrant},
		{"generic startup", "Startup", PerspectiveNewEntrant},
		{"generic new company", "NEW COMPANY", PerspectiveNewEntrant},
		{"generic term inside longer name", "startup accelerator platform", PerspectiveExistingBrand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyPerspective(tc.product); got != tc.want {
				t.Fatalf("ClassifyPerspective(%q) = %s, want %s", tc.product, got, tc.want)
			}
		})
	}
}

func TestIsB2BIndustry(t *testing.T) {
	cases := []struct {
		industry string
		want     bool
	}{
		{"financial services", true},
		{"Enterprise Software", true},
		{"B2B logistics", true},
		{"SaaS", true},
		{"management consulting", true},
		{"professional services", true},
		{"food & beverage", false},
		{"wearable technology", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsB2BIndustry(tc.industry); got != tc.want {
			t.Fatalf("IsB2BIndustry(%q) = %v, want %v", tc.industry, got, tc.want)
		}
	}
}
