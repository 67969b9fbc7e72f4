package marketintel

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// UpgradeStoredMap rewrites a stored MarketMap JSON document to the current
// shape. Detection is presence-based, not version-numbered: each missing
// field gets its documented default, fields already present pass through
// untouched. Idempotent, so re-reading an upgraded document is a no-op.
func UpgradeStoredMap(doc []byte) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("stored market map is not valid JSON")
	}

	out := doc
	var err error

	// Documents written before perspective classification existed are all
	// treated as new-entrant analyses. brand_position stays absent for
	// those; synthesizing one would misrepresent the stored analysis.
	if !gjson.GetBytes(out, "analysis_perspective").Exists() {
		out, err = sjson.SetBytes(out, "analysis_perspective", string(PerspectiveNewEntrant))
		if err != nil {
			return nil, fmt.Errorf("upgrade analysis_perspective: %w", err)
		}
	}

	if !gjson.GetBytes(out, "segmentation_by_firmographics").Exists() {
		out, err = sjson.SetBytes(out, "segmentation_by_firmographics", []any{})
		if err != nil {
			return nil, fmt.Errorf("upgrade segmentation_by_firmographics: %w", err)
		}
	}

	if !gjson.GetBytes(out, "confidence_level").Exists() {
		out, err = sjson.SetBytes(out, "confidence_level", string(ConfidenceMedium))
		if err != nil {
			return nil, fmt.Errorf("upgrade confidence_level: %w", err)
		}
	}

	if !gjson.GetBytes(out, "methodology").Exists() {
		out, err = sjson.SetBytes(out, "methodology", defaultMethodology)
		if err != nil {
			return nil, fmt.Errorf("upgrade methodology: %w", err)
		}
	}

	return out, nil
}

// DecodeStoredMap upgrades and unmarshals a stored document in one step.
func DecodeStoredMap(doc []byte) (MarketMap, error) {
	upgraded, err := UpgradeStoredMap(doc)
	if err != nil {
		return MarketMap{}, err
	}
	var m MarketMap
	if err := json.Unmarshal(upgraded, &m); err != nil {
		return MarketMap{}, fmt.Errorf("decode stored market map: %w", err)
	}
	return m, nil
}
