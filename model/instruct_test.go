package model

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCleanCompletion(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		prompt   string
		expected string
	}{
		{
			name:     "delimiters stripped",
			raw:      "[INST] some instruction [/INST] the answer",
			prompt:   "",
			expected: "some instruction  the answer",
		},
		{
			name:     "echoed prompt dropped",
			raw:      "[INST] Context stuff User query: what is it? [/INST] It is a test.",
			prompt:   "what is it?",
			expected: "It is a test.",
		},
		{
			name:     "no echo returns stripped text",
			raw:      "[INST] ignored [/INST] plain answer",
			prompt:   "unrelated prompt",
			expected: "ignored  plain answer",
		},
		{
			name:     "no delimiters at all",
			raw:      "  just an answer  ",
			prompt:   "",
			expected: "just an answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCompletion(tt.raw, tt.prompt)
			if got != tt.expected {
				t.Errorf("CleanCompletion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInstructBackend_Unconfigured(t *testing.T) {
	b := NewInstructBackend("", "token")
	if _, err := b.Complete(context.Background(), SystemInstruction, "context", "prompt"); err == nil {
		t.Error("Complete() expected error for unconfigured endpoint")
	}
}

func TestInstructBackend_Complete(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`[{"generated_text": "[INST] Context:\nParis. User query: capital? [/INST] Paris is the capital."}]`))
	}))
	defer server.Close()

	b := NewInstructBackend(server.URL, "secret")
	answer, err := b.Complete(context.Background(), SystemInstruction, "Paris.", "capital?")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if answer != "Paris is the capital." {
		t.Errorf("Complete() = %q", answer)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if !strings.Contains(gotBody, "[INST]") || !strings.Contains(gotBody, "capital?") {
		t.Errorf("request body missing formatted prompt: %q", gotBody)
	}
}

func TestInstructBackend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	b := NewInstructBackend(server.URL, "secret")
	if _, err := b.Complete(context.Background(), SystemInstruction, "ctx", "q"); err == nil {
		t.Error("Complete() expected error for non-200 response")
	}
}
