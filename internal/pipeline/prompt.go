// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/article-engine/pkg/types"
)

// maxContextHits bounds how many search hits are folded into the report
// prompt, keeping the context block within the prompt ceiling.
const maxContextHits = 10

// reportPromptTmpl asks the model to synthesize a structured research
// report from the gathered evidence.
var reportPromptTmpl = template.Must(template.New("report").Parse(`You are a senior researcher. Analyze the following information about "{{.Topic}}" and create a comprehensive research report.

WEB SEARCH RESULTS:
{{.WebContext}}

ENCYCLOPEDIA REFERENCE:
{{.WikiContext}}

Create a structured research report that includes:
1. Executive Summary
2. Key Findings and Current Trends
3. Applications and Use Cases
4. Challenges and Limitations
5. Future Outlook
6. Key Statistics (if available)
7. Important Sources

Make the report informative, well-organized, and based on the provided research data.
Focus on accuracy and cite relevant information from the sources.
`))

// articlePromptTmpl turns the research report into a reader-facing
// article in the requested language.
var articlePromptTmpl = template.Must(template.New("article").Parse(`You are a professional content writer. Based on the research report below, write an engaging article about "{{.Topic}}" in {{.Language}}.

RESEARCH REPORT:
{{.Report}}

REQUIREMENTS:
- Write entirely in {{.Language}} language
- {{.DepthInstruction}}
- Structure: Introduction, Main Body (3-4 sections), Conclusion
- Use clear headings and subheadings
- Make it accessible to both technical and general audiences
- Include relevant examples and insights from the research
- Ensure proper flow and engaging style
- Add a compelling introduction and strong conclusion

Create a publication-ready article that effectively communicates the topic's importance and implications.
`))

// polishPromptTmpl asks for an editorial pass over the drafted article
// without changing its language or content scope.
var polishPromptTmpl = template.Must(template.New("polish").Parse(`You are a professional editor. Review and improve the following article about "{{.Topic}}" in {{.Language}}.

ARTICLE TO IMPROVE:
{{.Article}}

IMPROVEMENT TASKS:
1. Enhance readability and flow
2. Improve structure and organization
3. Add better transitions between sections
4. Ensure consistent tone and style
5. Fix any grammar or language issues
6. Make the content more engaging
7. Ensure all information is well-presented
8. Add section breaks and better formatting

Return the improved, polished version of the article that's ready for publication.
Maintain the same language ({{.Language}}) and overall content while making it significantly better.
`))

// buildWebContext folds up to maxContextHits search hits into the
// evidence block of the report prompt.
func buildWebContext(hits []types.SearchHit) string {
	if len(hits) == 0 {
		return "No web search results available."
	}
	if len(hits) > maxContextHits {
		hits = hits[:maxContextHits]
	}

	var b strings.Builder
	for _, hit := range hits {
		fmt.Fprintf(&b, "Title: %s\nContent: %s\nSource: %s\n\n", hit.Title, hit.Snippet, hit.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildWikiContext renders the encyclopedia outcome for the report prompt.
func buildWikiContext(ref types.EncyclopediaRef) string {
	return "Encyclopedia Summary: " + ref.Summary
}

// depthInstruction maps a research depth onto the explicit word-range
// instruction included in the article prompt.
func depthInstruction(depth types.Depth) string {
	if depth == types.DepthDetailed {
		return "Create a detailed, comprehensive article (1500-2000 words) with in-depth analysis."
	}
	return "Create a well-structured article (800-1200 words) covering the key points."
}

// reportPrompt renders the report-stage prompt from the gathered bundle.
func reportPrompt(topic string, bundle types.ResearchBundle) (string, error) {
	var buf bytes.Buffer
	err := reportPromptTmpl.Execute(&buf, struct {
		Topic, WebContext, WikiContext string
	}{
		Topic:       topic,
		WebContext:  buildWebContext(bundle.Hits),
		WikiContext: buildWikiContext(bundle.Encyclopedia),
	})
	return buf.String(), err
}

// articlePrompt renders the article-stage prompt from the report text.
func articlePrompt(topic, language, report string, depth types.Depth) (string, error) {
	var buf bytes.Buffer
	err := articlePromptTmpl.Execute(&buf, struct {
		Topic, Language, Report, DepthInstruction string
	}{
		Topic:            topic,
		Language:         language,
		Report:           report,
		DepthInstruction: depthInstruction(depth),
	})
	return buf.String(), err
}

// polishPrompt renders the polish-stage prompt from the drafted article.
func polishPrompt(topic, language, article string) (string, error) {
	var buf bytes.Buffer
	err := polishPromptTmpl.Execute(&buf, struct {
		Topic, Language, Article string
	}{
		Topic:    topic,
		Language: language,
		Article:  article,
	})
	return buf.String(), err
}
