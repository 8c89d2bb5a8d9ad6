package services

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/mevlabs/engagement-backend/internal/types"
)

type RankedFunction struct {
	Function string  `json:"function"`
	Score    float64 `json:"score"`
}

// ArtifactScores is the derived document computed for a scored artifact.
type ArtifactScores struct {
	FunctionScores  map[string]float64 `json:"function_scores"`
	TopFunction     string             `json:"top_function"`
	TopScore        float64            `json:"top_score"`
	RankedFunctions []RankedFunction   `json:"ranked_functions"`
}

// ComputeArtifactScores derives scores for known artifact types. Only
// q_7_functions is defined: the payload's "responses" object maps function
// names to booleans (normalized to 1.0/0.0) or numbers. The ranking is a
// stable descending sort, so ties keep payload order and the result is
// deterministic for identical input ordering. Returns nil for any other
// artifact key or any malformed payload; never errors.
func ComputeArtifactScores(artifactKey string, payload []byte) *ArtifactScores {
	if artifactKey != types.ArtifactKeySevenFunctions {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}
	raw, ok := doc["responses"]
	if !ok {
		return nil
	}

	ranked, scores := decodeResponses(raw)
	if len(ranked) == 0 {
		return nil
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	return &ArtifactScores{
		FunctionScores:  scores,
		TopFunction:     ranked[0].Function,
		TopScore:        ranked[0].Score,
		RankedFunctions: ranked,
	}
}

// decodeResponses walks the responses object token-wise to preserve key
// order, which the tie-break depends on. Non-boolean, non-numeric values
// are skipped.
func decodeResponses(raw json.RawMessage) ([]RankedFunction, map[string]float64) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}

	var ranked []RankedFunction
	scores := map[string]float64{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil
		}

		var parsed interface{}
		if err := json.Unmarshal(value, &parsed); err != nil {
			continue
		}
		var score float64
		switch v := parsed.(type) {
		case bool:
			if v {
				score = 1.0
			}
		case float64:
			score = v
		default:
			continue
		}
		if _, seen := scores[key]; seen {
			continue
		}
		scores[key] = score
		ranked = append(ranked, RankedFunction{Function: key, Score: score})
	}
	return ranked, scores
}
