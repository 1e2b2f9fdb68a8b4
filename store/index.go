package store

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/philippgille/chromem-go"

	"docqa/types"
)

// DefaultTopK is how many chunks a search returns when the caller does not
// ask for a specific count.
const DefaultTopK = 4

type Hit struct {
	Content string
	Score   float32
}

// VectorIndex holds the embedded chunks of exactly one document in an
// in-memory chromem collection. It is read-only after BuildIndex returns.
type VectorIndex struct {
	collection *chromem.Collection
	size       int
}

// BuildIndex normalizes the given embeddings and loads them into a fresh
// collection. The index is not visible to anyone until the build completes.
func BuildIndex(ctx context.Context, chunks []string, embeddings [][]float32) (*VectorIndex, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection("document", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	if len(chunks) > 0 {
		docs := make([]chromem.Document, len(chunks))
		for i, chunk := range chunks {
			// Zero-padded ordinals keep lexicographic ID order equal to
			// chunk order, which Search relies on for tie-breaking.
			docs[i] = chromem.Document{
				ID:        fmt.Sprintf("%08d", i),
				Content:   chunk,
				Embedding: Normalize(embeddings[i]),
			}
		}
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("failed to add documents: %w", err)
		}
	}

	return &VectorIndex{
		collection: collection,
		size:       len(chunks),
	}, nil
}

func (idx *VectorIndex) Size() int {
	return idx.size
}

// Search returns the k chunks most similar to the query vector, highest
// cosine similarity first, ties broken by original chunk order. The query
// is normalized here so callers cannot skew the ranking by passing an
// unnormalized vector.
func (idx *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if idx.size == 0 {
		return nil, types.ErrEmptyIndex
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if k > idx.size {
		k = idx.size
	}

	// Query over the whole collection and rank here: chromem's own ordering
	// on equal similarities is not stable.
	results, err := idx.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: Normalize(query),
		NResults:       idx.size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ID < results[j].ID
	})

	hits := make([]Hit, k)
	for i := range hits {
		hits[i] = Hit{
			Content: results[i].Content,
			Score:   results[i].Similarity,
		}
	}
	return hits, nil
}
