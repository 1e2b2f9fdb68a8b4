package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"docqa/model"
	"docqa/parser"
	"docqa/store"
	"docqa/types"
)

// Agent runs the retrieval pipeline: ingest or session lookup, similarity
// search, and dispatch to the selected backend.
type Agent struct {
	cfg      types.Config
	embedder model.Embedder
	backends map[string]model.Completer
	sessions *store.SessionStore
}

type Request struct {
	Model     string
	Prompt    string
	FileName  string
	File      []byte
	SessionID string
}

type Result struct {
	Response  string
	SessionID string
}

func New(cfg types.Config, embedder model.Embedder, backends map[string]model.Completer, sessions *store.SessionStore) *Agent {
	return &Agent{
		cfg:      cfg,
		embedder: embedder,
		backends: backends,
		sessions: sessions,
	}
}

// Analyze answers a prompt against either a freshly uploaded document or an
// existing session's index. Exactly one of File/SessionID must resolve to a
// usable index.
func (a *Agent) Analyze(ctx context.Context, req Request) (*Result, error) {
	backend, ok := a.backends[req.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidModel, req.Model)
	}
	if len(req.File) == 0 && req.SessionID == "" {
		return nil, types.ErrMissingInput
	}

	var index *store.VectorIndex
	sessionID := req.SessionID
	if len(req.File) > 0 {
		var err error
		index, err = a.ingest(ctx, req.FileName, req.File)
		if err != nil {
			return nil, err
		}
		sessionID = a.sessions.Create(index)
	} else {
		var err error
		index, err = a.sessions.Get(sessionID)
		if err != nil {
			return nil, err
		}
	}

	promptVec, err := a.embedder.EmbedQuery(ctx, req.Prompt)
	if err != nil {
		return nil, types.NewDownstreamError("prompt embedding", err)
	}

	hits, err := index.Search(ctx, promptVec, a.cfg.TopK)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(hits))
	for i, hit := range hits {
		contents[i] = hit.Content
	}
	contextText := strings.Join(contents, " ")

	log.Debug().
		Str("model", req.Model).
		Int("retrieved", len(hits)).
		Int("prompt_tokens", countTokens(model.ComposePrompt(contextText, req.Prompt))).
		Msg("dispatching composed prompt")

	answer, err := backend.Complete(ctx, model.SystemInstruction, contextText, req.Prompt)
	if err != nil {
		return nil, types.NewDownstreamError("completion", err)
	}

	return &Result{
		Response:  answer,
		SessionID: sessionID,
	}, nil
}

// ResetSession drops a session and its index.
func (a *Agent) ResetSession(sessionID string) error {
	return a.sessions.Delete(sessionID)
}

// ingest stages the uploaded bytes, extracts and chunks the text, embeds
// the chunks and builds the index. The staged file is removed on every exit
// path.
func (a *Agent) ingest(ctx context.Context, fileName string, data []byte) (*store.VectorIndex, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf", ".csv", ".docx", ".txt":
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, ext)
	}

	staged, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer os.Remove(staged.Name())

	if _, err := staged.Write(data); err != nil {
		staged.Close()
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	if err := staged.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	text, err := parser.Extract(staged.Name())
	if err != nil {
		return nil, types.NewDownstreamError("text extraction", err)
	}

	chunks, err := parser.Split(text, a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	var embeddings [][]float32
	if len(chunks) > 0 {
		embeddings, err = a.embedder.EmbedDocuments(ctx, chunks)
		if err != nil {
			return nil, types.NewDownstreamError("chunk embedding", err)
		}
	}

	index, err := store.BuildIndex(ctx, chunks, embeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	log.Info().Str("file", fileName).Int("chunks", len(chunks)).Msg("document indexed")
	return index, nil
}

func countTokens(text string) int {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}
