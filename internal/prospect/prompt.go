package prospect

import "fmt"

// SystemPrompt anchors the completion model to factual output.
const SystemPrompt = "You are a precise B2B research assistant who never invents data."

// DefaultRevenueRange is the revenue constraint used when the caller does
// not supply one.
const DefaultRevenueRange = "$500K–$50M annual revenue (growth-stage or enterprise-level spenders)"

// BuildCompanyPrompt composes the firmographic research prompt. The output
// format section is what ParseCandidates expects back.
func BuildCompanyPrompt(industry, location, sizeRange, revenueRange string) string {
	if revenueRange == "" {
		revenueRange = DefaultRevenueRange
	}

	baseContext := "You are a factual B2B market research assistant specializing in identifying mid-market companies. " +
		"You MUST follow ALL constraints exactly. Any deviation will result in rejection of your output."

	firmographics := fmt.Sprintf(`
MANDATORY FIRMOGRAPHIC FILTERS (ALL must be satisfied):

Industry Focus:
→ %s

Company Size:
→ %s

Revenue Range (STRICT):
→ %s
→ ABSOLUTE MAXIMUM: $50 million USD annual revenue
→ ABSOLUTE MINIMUM: $500,000 USD annual revenue

Geography:
→ %s
`, industry, sizeRange, revenueRange, location)

	instructions := `
TASK:
List exactly 5 verified companies that satisfy ALL criteria above.

REQUIRED FIELDS FOR EACH COMPANY:
1. Company Name
2. Website URL
3. Approximate Annual Revenue
4. Headquarters
5. Employee Count
6. Verified Source
7. LinkedIn URL (if available)

OUTPUT FORMAT:
#### 1. **[Company Name]**
* Website URL: [URL]
* Approximate Annual Revenue: $[amount]M
* Headquarters: [City], [Country]
* Employee Count: [number]
* Verified Source: [platform]
`

	return baseContext + "\n\n" + firmographics + "\n" + instructions
}
