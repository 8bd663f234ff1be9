// Package genai calls the hosted generative-language API that writes the
// quiz questions. The model's output is returned as raw text; shape
// validation is the caller's job.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second

	// Low temperature keeps the model close to the requested output format.
	generationTemperature = 0.3
	maxOutputTokens       = 2000
)

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Option tweaks a Client. The zero configuration talks to the public
// endpoint with the default model.
type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		if strings.TrimSpace(model) != "" {
			c.model = model
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateBatch asks the model for count multiple-choice questions about a
// topic at one difficulty and returns the raw model text.
func (c *Client) GenerateBatch(ctx context.Context, topic string, count int, difficulty string) (string, error) {
	prompt := buildPrompt(topic, count, difficulty)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     generationTemperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation endpoint returned status %d", resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	if payload.Error != nil {
		return "", fmt.Errorf("generation endpoint error %d: %s", payload.Error.Code, payload.Error.Message)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation response contains no candidates")
	}

	return payload.Candidates[0].Content.Parts[0].Text, nil
}

// buildPrompt fills the question-writing template. The format demands the
// numbered-JSON layout the validator expects; the model still gets it wrong
// often enough that every response is validated downstream.
func buildPrompt(topic string, count int, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert quiz creator. Generate exactly %d multiple choice questions about the topic: %s\n\n", count, topic)
	fmt.Fprintf(&b, "Difficulty Level: %s\n", difficulty)
	b.WriteString(`- EASY: Basic knowledge questions that most people familiar with the topic would know
- MEDIUM: Intermediate questions requiring deeper understanding
- HARD: Challenging questions that require expert-level knowledge

STRICT REQUIREMENTS:
`)
	fmt.Fprintf(&b, "1. Generate EXACTLY %d questions, no more, no less\n", count)
	b.WriteString(`2. Each question must have exactly 4 options labeled a, b, c, d
3. Only ONE option should be correct
4. Output ONLY valid JSON, no additional text or explanation
5. Do not include markdown code blocks or any formatting

OUTPUT FORMAT (follow this exactly):
{
    "1": {
        "question": "The question text goes here?",
        "options": {
            "a": "First option",
            "b": "Second option",
            "c": "Third option",
            "d": "Fourth option"
        },
        "correct": "a",
`)
	fmt.Fprintf(&b, "        \"difficulty\": %q\n", difficulty)
	b.WriteString(`    }
}

Generate the questions now:
`)
	return b.String()
}
