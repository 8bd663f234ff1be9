package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
}

func modelResponse(text string) *http.Response {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(encoded)),
		Header:     make(http.Header),
	}
}

func TestGenerateBatchSendsPromptAndReturnsText(t *testing.T) {
	var seenURL string
	var seenBody generateRequest

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenURL = r.URL.String()
		if err := json.NewDecoder(r.Body).Decode(&seenBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("api key header = %q", got)
		}
		return modelResponse(`{"1": {}}`), nil
	}))

	text, err := client.GenerateBatch(context.Background(), "Roman history", 5, "EASY")
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if text != `{"1": {}}` {
		t.Fatalf("unexpected model text: %q", text)
	}

	if !strings.Contains(seenURL, "/models/gemini-2.5-flash:generateContent") {
		t.Fatalf("unexpected request URL: %s", seenURL)
	}

	if len(seenBody.Contents) != 1 || len(seenBody.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request shape: %+v", seenBody)
	}
	prompt := seenBody.Contents[0].Parts[0].Text
	for _, fragment := range []string{"exactly 5 multiple choice questions", "Roman history", "Difficulty Level: EASY"} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
	if seenBody.GenerationConfig.Temperature != generationTemperature {
		t.Fatalf("temperature = %v", seenBody.GenerationConfig.Temperature)
	}
}

func TestGenerateBatchPropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}, nil
	}))

	if _, err := client.GenerateBatch(context.Background(), "Topic", 3, "MEDIUM"); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestGenerateBatchNoCandidates(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"candidates": []}`))),
			Header:     make(http.Header),
		}, nil
	}))

	if _, err := client.GenerateBatch(context.Background(), "Topic", 3, "HARD"); err == nil {
		t.Fatalf("expected error for empty candidates")
	}
}

func TestGenerateBatchSurfacesAPIError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		body := `{"error": {"code": 400, "message": "API key not valid"}}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Header:     make(http.Header),
		}, nil
	}))

	_, err := client.GenerateBatch(context.Background(), "Topic", 2, "EASY")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected embedded API error, got %v", err)
	}
}

func TestWithBaseURLOverridesEndpoint(t *testing.T) {
	var seenURL string
	client := NewClient(
		"test-key",
		WithBaseURL("http://127.0.0.1:9999/v1beta/"),
		WithModel("test-model"),
		WithHTTPClient(&http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			seenURL = r.URL.String()
			return modelResponse("ok"), nil
		})}),
	)

	if _, err := client.GenerateBatch(context.Background(), "Topic", 1, "EASY"); err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if seenURL != "http://127.0.0.1:9999/v1beta/models/test-model:generateContent" {
		t.Fatalf("unexpected URL: %s", seenURL)
	}
}
