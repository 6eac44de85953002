// internal/places/models.go
package places

// Unknown is the literal placeholder written for any absent provider field.
// Records whose phone stays at this value never reach the export.
const Unknown = "Unknown"

// Candidate is one raw nearby-search hit, consumed by the relevance filter
// within the same page iteration it arrived in.
type Candidate struct {
	PlaceID  string
	Name     string
	Vicinity string
	Types    []string
}

// SearchPage is one page of candidates plus the continuation token for the
// next page. An empty NextToken means the provider has no further pages.
type SearchPage struct {
	Candidates []Candidate
	NextToken  string
}

// Detail is the enriched record for one place. Every field is populated;
// absent provider fields carry the Unknown sentinel.
type Detail struct {
	Name    string
	Address string
	Phone   string
	Website string
}

// --- Provider wire format ---

type searchResponse struct {
	Results       []searchResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message"`
}

type searchResult struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Vicinity string   `json:"vicinity"`
	Types    []string `json:"types"`
}

type detailsResponse struct {
	Result       detailsResult `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type detailsResult struct {
	Name                 string `json:"name"`
	FormattedAddress     string `json:"formatted_address"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
}

// Provider envelope statuses that mean "the call worked".
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
