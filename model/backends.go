package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/huggingface"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"docqa/types"
)

// Model tags selectable by the client. The set is closed: adding a backend
// means adding a tag and a registry entry, not a new conditional branch.
const (
	ModelGPT35     = "GPT-3.5"
	ModelPhi3      = "Phi-3"
	ModelMetaLlama = "Meta-Llama-3"
	ModelMistral   = "Mistral-7B"
)

const maxNewTokens = 512

// SystemInstruction is the fixed instruction sent with every completion.
const SystemInstruction = "Answer the questions based on the text given. " +
	"Use the information directly from the text when available. " +
	"If the answer is not explicitly stated, use logical inference based on the context of the text. " +
	"If the text provides enough context to make a reasonable inference, do so. " +
	"Only respond with 'could not find the answer' if there is no way to reasonably infer the answer from the given information."

// Completer generates an answer from retrieved context and the user prompt.
// Each implementation adapts the pair to its own message convention.
type Completer interface {
	Complete(ctx context.Context, system, contextText, prompt string) (string, error)
}

// ComposePrompt joins retrieved context and the user prompt into the single
// user message chat-style backends expect.
func ComposePrompt(contextText, prompt string) string {
	return fmt.Sprintf("text:%s\n\nUser prompt: %s", contextText, prompt)
}

// ChatBackend wraps any chat-style model behind the langchaingo interface.
type ChatBackend struct {
	llm llms.Model
}

func (b *ChatBackend) Complete(ctx context.Context, system, contextText, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: system}},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: ComposePrompt(contextText, prompt)}},
		},
	}

	resp, err := b.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(maxNewTokens))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("backend returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// NewBackends builds the backend registry keyed by model tag.
func NewBackends(cfg types.Config) (map[string]Completer, error) {
	gpt, err := openai.New(
		openai.WithToken(cfg.OpenAIKey),
		openai.WithModel("gpt-3.5-turbo"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init gpt backend: %w", err)
	}

	phi, err := huggingface.New(
		huggingface.WithToken(cfg.HuggingFaceToken),
		huggingface.WithModel("microsoft/Phi-3-mini-4k-instruct"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init phi backend: %w", err)
	}

	llama, err := huggingface.New(
		huggingface.WithToken(cfg.HuggingFaceToken),
		huggingface.WithModel("meta-llama/Meta-Llama-3-8B-Instruct"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init llama backend: %w", err)
	}

	return map[string]Completer{
		ModelGPT35:     &ChatBackend{llm: gpt},
		ModelPhi3:      &ChatBackend{llm: phi},
		ModelMetaLlama: &ChatBackend{llm: llama},
		ModelMistral:   NewInstructBackend(cfg.MistralURL, cfg.HuggingFaceToken),
	}, nil
}
