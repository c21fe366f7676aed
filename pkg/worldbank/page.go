package worldbank

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexInt tolerates the API's habit of quoting some numeric fields
// (per_page arrives as a string in several endpoints).
type flexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// PageMeta is the metadata object leading every paginated response.
type PageMeta struct {
	Page    flexInt `json:"page"`
	Pages   flexInt `json:"pages"`
	PerPage flexInt `json:"per_page"`
	Total   flexInt `json:"total"`
}

// decodePage interprets a two-element [meta, items] response. ok is false
// when the response signals "no more data": fewer than two elements, or a
// meta/items shape that does not decode. An empty items list still decodes
// with ok true; the caller terminates on len(items) == 0.
func decodePage(elements []json.RawMessage) (meta PageMeta, items []Observation, ok bool) {
	if len(elements) < 2 {
		return PageMeta{}, nil, false
	}
	if err := json.Unmarshal(elements[0], &meta); err != nil {
		return PageMeta{}, nil, false
	}
	if err := json.Unmarshal(elements[1], &items); err != nil {
		return PageMeta{}, nil, false
	}
	return meta, items, true
}
