package extract

import "strings"

// transcriptTokenBudget caps how much transcript goes into a single
// prompt. Long meetings get cut, not chunked: the transformations here are
// whole-document and fan-out would change their meaning.
const transcriptTokenBudget = 12000

const storiesPrompt = `You are a business analyst. Extract the requirements discussed in the
following meeting transcript and write them as user stories.

Return a JSON array. Each element describes one requirement with these fields:

- "epicName": short name of the feature area this requirement belongs to
- "requirementNumber": sequence number as a string ("1", "2", ...)
- "requirement": one-sentence statement of the requirement
- "userStory": the requirement in "As a ..., I want ..., so that ..." form
- "supportingQuote": the transcript quote that evidences the requirement (omit if none)
- "acceptanceCriteria1" through "acceptanceCriteria4": numbered, testable
  acceptance criteria; add "acceptanceCriteria5" and beyond when needed

Rules:
- Only include requirements actually discussed in the transcript
- One element per distinct requirement
- Do not invent stakeholders, features or numbers
- Return an empty array [] if the transcript contains no requirements

Respond with ONLY the JSON array, no other text.`

const questionPrompt = `Answer the question below using only the meeting transcript that follows.

Return a JSON object with these fields:
- "answer": a direct answer to the question
- "supportingQuotes": transcript quotes backing the answer (empty list if none)

If the transcript does not contain the answer, say so in "answer".
Respond with ONLY the JSON object, no other text.`

const rewritePrompt = `Rewrite the following meeting transcript as clean, readable prose.

Rules:
- Keep every point that was discussed; do not summarize content away
- Remove filler words, false starts and immediate self-corrections
- Group related discussion into paragraphs
- Do not alter meaning and do not invent anything

Respond with the rewritten text only.`

// BuildStoriesPrompt assembles the user-story extraction prompt around a
// transcript.
func BuildStoriesPrompt(transcript string) string {
	var sb strings.Builder
	sb.WriteString(storiesPrompt)
	sb.WriteString("\n\n---\nTranscript:\n")
	sb.WriteString(TruncateTranscript(transcript, transcriptTokenBudget))
	return sb.String()
}

// BuildQuestionPrompt assembles the question-answering prompt.
func BuildQuestionPrompt(transcript, question string) string {
	var sb strings.Builder
	sb.WriteString(questionPrompt)
	sb.WriteString("\n\n---\nQuestion: ")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString("\n---\nTranscript:\n")
	sb.WriteString(TruncateTranscript(transcript, transcriptTokenBudget))
	return sb.String()
}

// BuildRewritePrompt assembles the prose-rewrite prompt.
func BuildRewritePrompt(transcript string) string {
	var sb strings.Builder
	sb.WriteString(rewritePrompt)
	sb.WriteString("\n\n---\nTranscript:\n")
	sb.WriteString(TruncateTranscript(transcript, transcriptTokenBudget))
	return sb.String()
}

// EstimateTokens gives a rough token count using a words-per-token
// heuristic. Exact tokenization is not required here; the estimate only
// guards the context window.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 0.75 tokens per word for English text.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// TruncateTranscript caps a transcript at roughly maxTokens, cutting on a
// word boundary and marking the cut.
func TruncateTranscript(text string, maxTokens int) string {
	if EstimateTokens(text) <= maxTokens {
		return text
	}
	words := strings.Fields(text)
	keep := int(float64(maxTokens) / 1.33)
	if keep < 1 {
		keep = 1
	}
	if keep >= len(words) {
		return text
	}
	return strings.Join(words[:keep], " ") + " [transcript truncated]"
}
