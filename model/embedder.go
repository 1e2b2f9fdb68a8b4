package model

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"docqa/types"
)

// Embedder maps text to fixed-dimensionality vectors.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewOpenAIEmbedder builds the embedding client used for both chunk and
// prompt embeddings.
func NewOpenAIEmbedder(cfg types.Config) (*embeddings.EmbedderImpl, error) {
	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIKey),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		log.Error().Err(err).Msg("error initializing embedding LLM")
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		log.Error().Err(err).Msg("error creating embedder")
		return nil, err
	}
	return embedder, nil
}
