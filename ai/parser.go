package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"superai/models"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json|JSON)\\s*(.*?)```")
	braceSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// Parse recovers a structured AgentResult from raw model output. It is total:
// the backend is only loosely held to the output contract, so every failure
// path degrades to the literal text, which is itself a displayable answer.
//
// Attempts, stopping at the first success:
//  1. the whole text as a JSON document
//  2. the span from the first '{' to the last '}'
//  3. the contents of a ```json fenced block
//  4. a greedy brace-delimited regexp match
//  5. the raw text verbatim as the answer
func Parse(raw string) models.AgentResult {
	if result, ok := tryDecode(raw); ok {
		return result
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		if result, ok := tryDecode(raw[start : end+1]); ok {
			return result
		}
	}

	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		if result, ok := tryDecode(strings.TrimSpace(m[1])); ok {
			return result
		}
	}

	if m := braceSpanRe.FindString(raw); m != "" {
		if result, ok := tryDecode(m); ok {
			return result
		}
	}

	return models.AgentResult{Answer: raw}
}

// tryDecode accepts only JSON objects; scalars, arrays and invalid documents
// fail so the caller can fall through to the next recovery step.
func tryDecode(s string) (models.AgentResult, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return models.AgentResult{}, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return models.AgentResult{}, false
	}

	var result models.AgentResult
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return models.AgentResult{}, false
	}
	return result, true
}
