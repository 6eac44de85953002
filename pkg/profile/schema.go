// pkg/profile/schema.go
package profile

import "strings"

// Profile holds the keyword and tag sets the relevance filter matches
// against. The two-tier decision order is fixed in code; only the sets
// are data.
type Profile struct {
	Version                  string   `json:"version"`
	Category                 string   `json:"category"`
	NameKeywords             []string `json:"nameKeywords"`
	CategoryTags             []string `json:"categoryTags"`
	FallbackTags             []string `json:"fallbackTags"`
	VicinityKeywords         []string `json:"vicinityKeywords"`
	FallbackVicinityKeywords []string `json:"fallbackVicinityKeywords"`
}

// Default returns the compiled-in coffee profile.
func Default() *Profile {
	return &Profile{
		Version:                  "1",
		Category:                 "coffee",
		NameKeywords:             []string{"coffee", "cafe", "espresso", "brew"},
		CategoryTags:             []string{"cafe"},
		FallbackTags:             []string{"bakery"},
		VicinityKeywords:         []string{"coffee"},
		FallbackVicinityKeywords: []string{"cafe"},
	}
}

// normalize lowercases every matching set once at load time; the filter
// compares against lowercased candidate text.
func (p *Profile) normalize() {
	lowerAll(p.NameKeywords)
	lowerAll(p.CategoryTags)
	lowerAll(p.FallbackTags)
	lowerAll(p.VicinityKeywords)
	lowerAll(p.FallbackVicinityKeywords)
}

func lowerAll(items []string) {
	for i := range items {
		items[i] = strings.ToLower(items[i])
	}
}

var profileSchema = map[string]interface{}{
	"type":                 "object",
	"required":             []interface{}{"nameKeywords"},
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"version":  map[string]interface{}{"type": "string"},
		"category": map[string]interface{}{"type": "string"},
		"nameKeywords": map[string]interface{}{
			"type":     "array",
			"items":    map[string]interface{}{"type": "string"},
			"minItems": 1,
		},
		"categoryTags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"fallbackTags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"vicinityKeywords": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"fallbackVicinityKeywords": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
}
