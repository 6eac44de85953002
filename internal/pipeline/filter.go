// internal/pipeline/filter.go
package pipeline

import (
	"strings"

	"coffee-scout/internal/places"
	"coffee-scout/pkg/profile"
)

// Filter verdicts, used as metric labels and log fields.
const (
	VerdictNameKeyword = "name-keyword"
	VerdictCategoryTag = "category-tag"
	VerdictVicinity    = "vicinity-keyword"
	VerdictFallback    = "fallback-pair"
	VerdictRejected    = "rejected"
)

// Filter applies the two-tier relevance policy: a cheap name check first,
// then tag and vicinity checks. Precision over recall; a miss costs one
// lead, a false positive costs a billed details call.
type Filter struct {
	profile *profile.Profile
}

func NewFilter(p *profile.Profile) *Filter {
	if p == nil {
		p = profile.Default()
	}
	return &Filter{profile: p}
}

// Accept decides a single candidate. The verdict depends only on the
// candidate itself, never on other candidates or call order.
func (f *Filter) Accept(candidate places.Candidate) (bool, string) {
	name := strings.ToLower(candidate.Name)
	for _, keyword := range f.profile.NameKeywords {
		if strings.Contains(name, keyword) {
			return true, VerdictNameKeyword
		}
	}

	if f.hasAnyTag(candidate.Types, f.profile.CategoryTags) {
		return true, VerdictCategoryTag
	}

	vicinity := strings.ToLower(candidate.Vicinity)
	if containsAny(vicinity, f.profile.VicinityKeywords) {
		return true, VerdictVicinity
	}

	if f.hasAnyTag(candidate.Types, f.profile.FallbackTags) &&
		containsAny(vicinity, f.profile.FallbackVicinityKeywords) {
		return true, VerdictFallback
	}

	return false, VerdictRejected
}

func (f *Filter) hasAnyTag(types []string, wanted []string) bool {
	for _, tag := range types {
		tag = strings.ToLower(tag)
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
