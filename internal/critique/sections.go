package critique

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Critique is the three-section result produced once per file.
type Critique struct {
	ExpertAdvice     string `json:"expertAdvice"`
	IntermediateGaps string `json:"intermediateGaps"`
	RookieConcepts   string `json:"rookieConcepts"`
}

// Section labels the model is instructed to use when it answers in prose.
const (
	labelExpert       = "Expert's Advice"
	labelIntermediate = "Intermediate Gaps"
	labelRookie       = "Rookie Concepts"
)

var (
	expertPattern       = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(labelExpert) + `\s*:?\s*(.*?)(?:` + regexp.QuoteMeta(labelIntermediate) + `|$)`)
	intermediatePattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(labelIntermediate) + `\s*:?\s*(.*?)(?:` + regexp.QuoteMeta(labelRookie) + `|$)`)
	rookiePattern       = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(labelRookie) + `\s*:?\s*(.*)`)
)

// parseCritique turns a raw model reply into the three named sections.
// A structured JSON object is preferred; labeled free text is the fallback.
// A label missing from the reply yields an empty section, never an error —
// partial or garbled output silently produces partially empty results.
func parseCritique(response string) Critique {
	if c, ok := parseJSONCritique(response); ok {
		return c
	}
	return parseLabeledCritique(response)
}

// parseJSONCritique tries the whole reply as a JSON object first, then the
// first balanced object embedded in surrounding prose.
func parseJSONCritique(response string) (Critique, bool) {
	var c Critique
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &c); err == nil && !c.empty() {
		return c, true
	}

	obj, ok := extractJSONObject(response)
	if !ok {
		return Critique{}, false
	}
	if err := json.Unmarshal([]byte(obj), &c); err != nil || c.empty() {
		return Critique{}, false
	}
	return c, true
}

func (c Critique) empty() bool {
	return c.ExpertAdvice == "" && c.IntermediateGaps == "" && c.RookieConcepts == ""
}

// extractJSONObject finds the first balanced JSON object in a reply that
// may contain other text around it.
func extractJSONObject(response string) (string, bool) {
	start := strings.IndexByte(response, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1], true
			}
		}
	}

	return "", false
}

// parseLabeledCritique applies the three sequential label matches: each
// section spans from its label to the next label or the end of the reply.
func parseLabeledCritique(response string) Critique {
	return Critique{
		ExpertAdvice:     matchSection(expertPattern, response),
		IntermediateGaps: matchSection(intermediatePattern, response),
		RookieConcepts:   matchSection(rookiePattern, response),
	}
}

func matchSection(pattern *regexp.Regexp, response string) string {
	m := pattern.FindStringSubmatch(response)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
