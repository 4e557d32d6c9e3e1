package bfbcs

import "encoding/json"

// playersResponse is the subset of the /api/pc payload we read.
type playersResponse struct {
	Found   *json.Number      `json:"found"`
	Players []json.RawMessage `json:"players"`
}

type playerInfo struct {
	Rank *flexNumber `json:"rank"`
}

// flexNumber accepts either a JSON number or a numeric string.
type flexNumber struct {
	raw   string
	valid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		n.raw, n.valid = num.String(), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.raw, n.valid = s, true
	return nil
}
