package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"campaign-studio-backend/internal/models"
)

const analysisSystemPrompt = "You are an AI assistant that extracts marketing campaign parameters from PDF documents. Always respond with valid JSON."

const marketingSystemPrompt = "You are a senior marketing strategist with expertise in audience segmentation and campaign strategy. Generate compelling, insight-driven marketing content."

// truncateChars keeps the first max characters (runes, not bytes) of text.
func truncateChars(text string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text, false
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i], true
		}
		count++
	}
	return text, false
}

// BuildAnalysisPrompt embeds at most maxChars characters of the document text.
func BuildAnalysisPrompt(text string, documentType models.DocumentType, maxChars int) string {
	body, truncated := truncateChars(text, maxChars)
	ellipsis := ""
	if truncated {
		ellipsis = "..."
	}

	return fmt.Sprintf(`You are an AI assistant that analyzes PDF documents to extract marketing campaign parameters. Analyze the following PDF content and extract relevant information.

Document Type: %s
PDF Content:
%s%s

Please extract and return the following information in JSON format:
{
  "selectedEpisodes": ["episode names or titles found in the document"],
  "campaignGoals": ["marketing goals or objectives mentioned"],
  "campaignKPIs": ["key performance indicators or metrics mentioned"],
  "gender": "target gender (e.g., 'Men', 'Women', 'All')",
  "ethnicity": ["target ethnicities (e.g., ['All ethnicities'], ['Hispanic', 'African American'], ['Asian', 'White'])"],
  "age": ["age ranges mentioned (e.g., '18 to 24 years old', '25 to 34 years old')"],
  "fansOf": ["genres, interests, or preferences mentioned"]
}

If any information is not found in the document, provide reasonable defaults based on the document type and content.`, documentType, body, ellipsis)
}

// BuildMarketingPrompt renders the single prompt shared by all three variants.
func BuildMarketingPrompt(p models.CampaignParameters) string {
	var sb strings.Builder
	sb.WriteString(`You are a senior marketing strategist specializing in audience segmentation and campaign strategy. Given the campaign parameters and audience profile below, generate a compelling and insight-driven "Marketing Strength" paragraph. The output should be clear, creative, and optimized for use in pitch decks or media kits.`)
	sb.WriteString("\n\n## CAMPAIGN PARAMETERS\n")
	fmt.Fprintf(&sb, "- Selected Episodes: %s\n", strings.Join(p.SelectedEpisodes, ", "))
	fmt.Fprintf(&sb, "- Campaign Goal: %s\n", p.CampaignGoal)
	fmt.Fprintf(&sb, "- Campaign KPIs: %s\n", strings.Join(p.CampaignKPIs, ", "))
	sb.WriteString("\n## AUDIENCE PROFILE\n")
	fmt.Fprintf(&sb, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&sb, "- Ethnicity: %s\n", strings.Join(p.Ethnicity, ", "))
	fmt.Fprintf(&sb, "- Age: %s\n", strings.Join(p.Age, ", "))
	fmt.Fprintf(&sb, "- Fans of: %s\n", strings.Join(p.FansOf, ", "))
	sb.WriteString(`
## OUTPUT GUIDELINES
- Emphasize why this audience is uniquely aligned with the brand or product.
- Include any cultural, emotional, or trend-based insights relevant to the audience.
- Highlight how the campaign parameters support the goal and KPIs.
- Tone should be confident, marketing-savvy, and forward-thinking.

Now generate the "Marketing Strength" section. Should be brief and less than 10 sentences.`)
	return sb.String()
}
