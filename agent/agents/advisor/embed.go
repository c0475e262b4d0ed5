package advisor

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
)

type openaiEmbedder struct {
	client *openaisdk.Client
	model  string
}

// NewOpenAIEmbedder embeds text with the OpenAI embeddings endpoint. The same
// model must be used for queries as was used to build the passage index.
func NewOpenAIEmbedder(client *openaisdk.Client, model string) contractx.Embedder {
	return &openaiEmbedder{client: client, model: model}
}

func (e *openaiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: embedding input is empty", contractx.ErrValidation)
	}

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model: openaisdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create embedding: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: embedding response has no data", contractx.ErrSchemaViolation)
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
