package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const instructTemplate = "[INST] Below is a context followed by a user query.\n\nContext:\n%s\n\nUser query: %s\n\n[/INST]"

// InstructBackend talks to an instruction-tuned text-generation endpoint
// that takes a single [INST]-tagged prompt instead of structured chat turns.
// The endpoint URL has no default; an unset URL leaves the backend
// registered but non-functional.
type InstructBackend struct {
	apiURL string
	token  string
	client *http.Client
}

type instructRequest struct {
	Inputs string `json:"inputs"`
}

type instructChoice struct {
	GeneratedText string `json:"generated_text"`
}

func NewInstructBackend(apiURL, token string) *InstructBackend {
	return &InstructBackend{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (b *InstructBackend) Complete(ctx context.Context, system, contextText, prompt string) (string, error) {
	if b.apiURL == "" {
		return "", errors.New("instruct endpoint is not configured")
	}

	formatted := fmt.Sprintf(instructTemplate, contextText, prompt)
	body, err := json.Marshal(instructRequest{Inputs: formatted})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("instruct API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var choices []instructChoice
	if err := json.Unmarshal(respBody, &choices); err != nil || len(choices) == 0 {
		var single instructChoice
		if err := json.Unmarshal(respBody, &single); err != nil {
			return "", fmt.Errorf("failed to unmarshal response: %w", err)
		}
		choices = []instructChoice{single}
	}

	return CleanCompletion(choices[0].GeneratedText, prompt), nil
}

// CleanCompletion strips instruction delimiters from a raw completion and
// drops an echoed prompt prefix. If the prompt is not echoed, the stripped
// text is returned unchanged.
func CleanCompletion(raw, prompt string) string {
	cleaned := strings.ReplaceAll(raw, "[INST]", "")
	cleaned = strings.ReplaceAll(cleaned, "[/INST]", "")
	cleaned = strings.TrimSpace(cleaned)

	if prompt == "" {
		return cleaned
	}
	if i := strings.Index(cleaned, prompt); i >= 0 {
		return strings.TrimSpace(cleaned[i+len(prompt):])
	}
	return cleaned
}
