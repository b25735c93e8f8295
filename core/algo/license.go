package algo

import (
	"fmt"

	"github.com/huangsam/depshield/schema"
)

var restrictiveLicenses = map[string]struct{}{
	"GPL-2.0": {}, "GPL-3.0": {}, "AGPL-3.0": {}, "SSPL-1.0": {},
	"BSL-1.1": {}, "EUPL-1.2": {}, "CPAL-1.0": {}, "OSL-3.0": {},
}

var permissiveLicenses = map[string]struct{}{
	"MIT": {}, "Apache-2.0": {}, "BSD-2-Clause": {}, "BSD-3-Clause": {},
	"ISC": {}, "Unlicense": {}, "0BSD": {}, "CC0-1.0": {},
}

// IsRestrictiveLicense reports whether a normalized license carries copyleft
// or source-disclosure obligations.
func IsRestrictiveLicense(license string) bool {
	_, ok := restrictiveLicenses[license]
	return ok
}

// IsPermissiveLicense reports whether a normalized license is permissive.
func IsPermissiveLicense(license string) bool {
	_, ok := permissiveLicenses[license]
	return ok
}

// AnalyzeLicenseMutation reconstructs the license history and flags drift.
// Only adjacent pairs with two known, different licenses count as changes.
// Rules take the maximum score rather than summing.
func AnalyzeLicenseMutation(meta schema.NormalizedMetadata) schema.LicenseMutationResult {
	versions := meta.Versions
	current := meta.License
	if len(versions) > 0 {
		current = versions[len(versions)-1].License
	}

	previous := []schema.LicenseEntry{}
	for _, v := range versions[:max(0, len(versions)-1)] {
		previous = append(previous, schema.LicenseEntry{Version: v.Version, License: v.License})
	}

	changes := 0
	var lastFrom, lastTo string
	for i := 1; i < len(versions); i++ {
		from, to := versions[i-1].License, versions[i].License
		if from != to && from != UnknownLicense && to != UnknownLicense {
			changes++
			lastFrom, lastTo = from, to
		}
	}

	hasChanged := changes > 0
	restrictive := IsRestrictiveLicense(current)
	score := 0
	signals := []string{}

	if current == UnknownLicense {
		score = max(score, 30)
		signals = append(signals, "Missing or unknown current license metadata")
	}
	if hasChanged && restrictive {
		score = max(score, 60)
		signals = append(signals, fmt.Sprintf("License changed to restrictive license (%s)", current))
	}
	if changes > 1 {
		score = max(score, 40)
		signals = append(signals, fmt.Sprintf("License changed multiple times across version history (%d changes)", changes))
	} else if changes == 1 && !restrictive {
		score = max(score, 20)
		if IsPermissiveLicense(lastFrom) && IsPermissiveLicense(lastTo) {
			signals = append(signals, fmt.Sprintf("License changed between permissive licenses (%s -> %s)", lastFrom, lastTo))
		} else {
			signals = append(signals, fmt.Sprintf("License changed (%s -> %s)", lastFrom, lastTo))
		}
	}

	return schema.LicenseMutationResult{
		Score:            score,
		CurrentLicense:   current,
		PreviousLicenses: previous,
		HasChanged:       hasChanged,
		IsRestrictive:    restrictive,
		Signals:          signals,
	}
}
