package advisor

import (
	"context"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	vectorx "github.com/techflow/ai-recruiter/pkg/vector"
)

type vectorRetriever struct {
	index *vectorx.Index
}

// NewVectorRetriever adapts an Upstash Vector index to the Retriever contract.
// Passage text is stored in the match metadata under the "text" key.
func NewVectorRetriever(index *vectorx.Index) contractx.Retriever {
	return &vectorRetriever{index: index}
}

func (r *vectorRetriever) Query(ctx context.Context, embedding []float32, topK int) ([]contractx.Passage, error) {
	matches, err := r.index.Query(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}

	passages := make([]contractx.Passage, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, contractx.Passage{
			ID:    m.ID,
			Text:  m.Metadata["text"],
			Score: m.Score,
		})
	}
	return passages, nil
}
