// internal/pipeline/dedup.go
package pipeline

import "coffee-scout/internal/places"

// Dedupe returns the ordered subsequence of shops where each name appears
// at most once (first occurrence wins) and the phone field is usable.
// A sentinel-phone record does not claim its name: a later record with the
// same name and a real phone still gets through.
func Dedupe(shops []Shop) []Shop {
	seen := make(map[string]bool, len(shops))
	out := make([]Shop, 0, len(shops))

	for _, shop := range shops {
		if shop.Phone == places.Unknown {
			continue
		}
		if seen[shop.Name] {
			continue
		}
		seen[shop.Name] = true
		out = append(out, shop)
	}

	return out
}
