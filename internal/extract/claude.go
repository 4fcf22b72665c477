// Package extract turns normalized transcripts into structured results by
// prompting the Anthropic Messages API. One call per user action, no
// retries and no chunk fan-out: a failed call surfaces immediately and the
// person behind the browser decides whether to go again.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/joshuasparkes/transcription-to-stories/internal/results"
)

// Mode identifies one of the transcript transformations.
type Mode string

const (
	ModeStories  Mode = "stories"
	ModeQuestion Mode = "question"
	ModeRewrite  Mode = "rewrite"
)

const defaultBaseURL = "https://api.anthropic.com"

// ClaudeClient calls the Anthropic Messages API for transcript
// transformations.
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	// Stats aggregates call latencies for the stats endpoint.
	Stats *LLMStats
}

// NewClaudeClient builds a client for the given credentials. baseURL is
// for proxies and tests; empty means the public API.
func NewClaudeClient(apiKey, model, baseURL string) *ClaudeClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ClaudeClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: NewLLMStats(time.Hour),
	}
}

// Model returns the configured model identifier.
func (c *ClaudeClient) Model() string {
	return c.model
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Stories asks the model to extract the requirements discussed in a
// transcript as user stories, decoding whatever shape comes back into a
// record collection. An empty collection means the model found nothing.
func (c *ClaudeClient) Stories(ctx context.Context, transcript string) (results.Collection, error) {
	text, err := c.complete(ctx, ModeStories, BuildStoriesPrompt(transcript))
	if err != nil {
		return nil, err
	}
	return results.Decode([]byte(text)), nil
}

// Answer asks a free-form question about a transcript. The model is asked
// for JSON with supporting quotes; prose replies degrade to an answer
// without quotes rather than an error.
func (c *ClaudeClient) Answer(ctx context.Context, transcript, question string) (Answer, error) {
	text, err := c.complete(ctx, ModeQuestion, BuildQuestionPrompt(transcript, question))
	if err != nil {
		return Answer{}, err
	}
	return decodeAnswer(text), nil
}

// Rewrite returns the transcript restated as clean prose.
func (c *ClaudeClient) Rewrite(ctx context.Context, transcript string) (string, error) {
	return c.complete(ctx, ModeRewrite, BuildRewritePrompt(transcript))
}

// Answer is the question-mode result.
type Answer struct {
	Answer string   `json:"answer"`
	Quotes []string `json:"supportingQuotes"`
}

func decodeAnswer(text string) Answer {
	var a Answer
	if err := json.Unmarshal([]byte(text), &a); err == nil && strings.TrimSpace(a.Answer) != "" {
		return a
	}
	return Answer{Answer: strings.TrimSpace(text)}
}

// complete performs one Messages API round trip and returns the model's
// text with any code fence stripped.
func (c *ClaudeClient) complete(ctx context.Context, mode Mode, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if c.Stats != nil {
		c.Stats.Record(mode, time.Since(start).Milliseconds())
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from claude")
	}

	return stripCodeBlock(apiResp.Content[0].Text), nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripCodeBlock removes a surrounding markdown fence; models wrap JSON in
// one no matter how firmly the prompt says not to.
func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// APIError is a provider-side failure carrying the upstream HTTP status so
// handlers can translate it. There is no retry classification: every
// failure is terminal for its call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("claude api status %d: %s", e.StatusCode, truncate(e.Message, 200))
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
