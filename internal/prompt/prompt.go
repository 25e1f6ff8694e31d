// Package prompt assembles the system and user prompts for critique
// generation.
package prompt

import (
	"fmt"
	"strings"

	"github.com/critiqlabs/critiq/internal/extract"
)

// SystemPrompt is the fixed critic persona.
const SystemPrompt = `You are a seasoned critic of creative work: witty, balanced, and technically deep. You give feedback that is honest without being cruel, and you always respond in the required structured format.`

// userPromptHeader restates the persona and frames the inputs. The content
// description carries 90% of the judgement weight, metadata the remaining
// 10% when present.
const userPromptHeader = `Act as that seasoned critic reviewing a piece of %s submitted by its creator.

Bluntness level: %d (0 = gentle encouragement, 10 = brutally direct).

The work, described below, should carry 90%% of the weight of your judgement:
---
%s
---`

const metadataBlock = `

Technical metadata, worth the remaining 10%% of the weight:
%s`

// closingInstructions pins the response shape: three named sections, three
// sentences each, humor and substance in balance. A JSON object is asked
// for first so responses can be parsed without pattern matching; the
// labeled-section fallback covers models that answer in prose anyway.
const closingInstructions = `

Respond with exactly three sections of medium length (three sentences each), each balancing humor with substance:
- "Expert's Advice": feedback for a practitioner at the top of the craft
- "Intermediate Gaps": what someone competent is still missing
- "Rookie Concepts": fundamentals a beginner should take away

Prefer answering as a single JSON object with the keys "expertAdvice", "intermediateGaps" and "rookieConcepts". If you cannot, label each section with its exact name above.`

// Build assembles the user prompt. The metadata block is included only
// when extraction found usable metadata; bluntness passes through
// unvalidated.
func Build(category extract.Category, bluntness int, ex extract.Extraction) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, userPromptHeader, category, bluntness, ex.Description)
	if ex.Metadata.Present() {
		fmt.Fprintf(&sb, metadataBlock, ex.Metadata.Description)
	}
	sb.WriteString(closingInstructions)

	return sb.String()
}
