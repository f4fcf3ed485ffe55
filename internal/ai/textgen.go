// Package ai wraps the two AI vendors the app depends on: an
// OpenAI-compatible chat endpoint for generated encouragement and a
// whisper-style endpoint for speech-to-text.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type TextGenClient struct {
	apiKey string
	model  string
	base   string
	http   *http.Client
}

func NewTextGenClient(apiKey, model, base string, timeout time.Duration) *TextGenClient {
	return &TextGenClient{
		apiKey: apiKey,
		model:  model,
		base:   base,
		http:   &http.Client{Timeout: timeout},
	}
}

type ChatRequest struct {
	Model       string              `json:"model"`
	Messages    []map[string]string `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float32             `json:"temperature,omitempty"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *TextGenClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	url := c.base + "/chat/completions"
	b, _ := json.Marshal(req)
	r, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	r.Header.Set("Authorization", "Bearer "+c.apiKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(r)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var ch ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&ch); err != nil {
		return "", err
	}
	if ch.Error != nil {
		return "", fmt.Errorf("chat api error: %s", ch.Error.Message)
	}
	if len(ch.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	return ch.Choices[0].Message.Content, nil
}

const encouragementPrompt = `You are a warm, supportive companion inside a gratitude journaling app.
The user just recorded what is going well in their life. Reply with two or
three sentences of specific, genuine encouragement that reflects back what
they shared. Do not give advice. Do not use bullet points.`

// Encourage asks the chat model for a short encouragement for a journal
// entry. It never fails: on any vendor error it falls back to a templated
// message so the entry can still be saved. The second return value is true
// when the fallback was used.
func (c *TextGenClient) Encourage(ctx context.Context, transcription, category string) (string, bool) {
	userText := transcription
	if category != "" {
		userText = fmt.Sprintf("[%s] %s", category, transcription)
	}
	out, err := c.Chat(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": encouragementPrompt},
			{"role": "user", "content": userText},
		},
		MaxTokens:   200,
		Temperature: 0.8,
	})
	if err != nil || out == "" {
		return FallbackEncouragement(transcription), true
	}
	return out, false
}
