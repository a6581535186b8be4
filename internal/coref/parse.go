// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coref

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/character-engine/pkg/types"
)

var (
	// ErrNoJSON is returned when the generated text holds no JSON object.
	ErrNoJSON = errors.New("no JSON object in provider response")

	// ErrMissingMerges is returned when the JSON object has no merges array.
	ErrMissingMerges = errors.New("provider response has no merges array")
)

// ParseMerges decodes the first-{ to last-} span of text. Elements of the
// merges array that are not arrays of strings are returned as skips.
func ParseMerges(text string) ([][]string, []types.SkippedMerge, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, nil, ErrNoJSON
	}

	var payload struct {
		Merges json.RawMessage `json:"merges"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, nil, fmt.Errorf("parsing provider JSON: %w", err)
	}
	if len(payload.Merges) == 0 || string(payload.Merges) == "null" {
		return nil, nil, ErrMissingMerges
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(payload.Merges, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMissingMerges, err)
	}

	var (
		groups  [][]string
		skipped []types.SkippedMerge
	)
	for _, r := range raw {
		var names []string
		if err := json.Unmarshal(r, &names); err != nil {
			skipped = append(skipped, types.SkippedMerge{
				Names:  []string{string(r)},
				Reason: "malformed merge group",
			})
			continue
		}
		groups = append(groups, names)
	}
	return groups, skipped, nil
}
