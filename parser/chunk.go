package parser

import (
	"fmt"

	"docqa/types"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Split cuts text into consecutive windows of chunkSize runes, each
// overlapping the previous by overlap runes, preserving original order.
// Empty text yields an empty slice. The overlap must stay below the chunk
// size or the window would never advance.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: size %d, overlap %d", types.ErrChunkConfig, chunkSize, overlap)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return []string{}, nil
	}

	var chunks []string
	step := chunkSize - overlap
	for start := 0; ; start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
