package retrieval

import (
	"context"
	"fmt"

	"chatgenius-context/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks chatgenius-context/internal/retrieval Embedder

// Embedder turns text into fixed-length vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Gateway is a typed facade over the three logical namespaces of the vector
// index: chat messages, document summaries and document chunks. All methods
// are read-only and safe to call concurrently.
type Gateway struct {
	store    vectorstore.VectorStore
	embedder Embedder

	chatCollection    string
	summaryCollection string
	chunkCollection   string
}

// NewGateway creates a new Gateway over the given store and collections.
func NewGateway(store vectorstore.VectorStore, embedder Embedder, chatCollection, summaryCollection, chunkCollection string) *Gateway {
	return &Gateway{
		store:             store,
		embedder:          embedder,
		chatCollection:    chatCollection,
		summaryCollection: summaryCollection,
		chunkCollection:   chunkCollection,
	}
}

func (g *Gateway) embedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := g.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}
	return vecs[0], nil
}

// SearchChat performs a similarity search over indexed chat messages with the
// given visibility filter.
func (g *Gateway) SearchChat(ctx context.Context, query string, topK int, filter *vectorstore.Filter) ([]ScoredMessage, error) {
	vec, err := g.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := g.store.Search(ctx, g.chatCollection, vec, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("chat search failed: %w", err)
	}

	messages := make([]ScoredMessage, 0, len(results))
	for _, r := range results {
		messages = append(messages, ScoredMessage{
			Record: messageFromMeta(r.Meta),
			Score:  r.Score,
		})
	}
	return messages, nil
}

// SearchSummaries performs a similarity search over document summaries.
// Summaries are coarse locators, not delivered content, so no access filter
// is applied here.
func (g *Gateway) SearchSummaries(ctx context.Context, query string, topK int) ([]ScoredSummary, error) {
	vec, err := g.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := g.store.Search(ctx, g.summaryCollection, vec, topK, nil)
	if err != nil {
		return nil, fmt.Errorf("summary search failed: %w", err)
	}

	summaries := make([]ScoredSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, ScoredSummary{
			Record: summaryFromMeta(r.Meta),
			Score:  r.Score,
		})
	}
	return summaries, nil
}

// SearchChunksByFile retrieves a document's chunks by metadata filter alone,
// without a semantic query. Returned scores are zero; the caller attaches the
// admitting summary's score.
func (g *Gateway) SearchChunksByFile(ctx context.Context, fileID string, maxChunks int) ([]ScoredChunk, error) {
	filter := &vectorstore.Filter{AnyOf: [][]vectorstore.Match{
		{{Field: "file_id", Value: fileID}},
	}}

	results, err := g.store.FetchByFilter(ctx, g.chunkCollection, filter, maxChunks)
	if err != nil {
		return nil, fmt.Errorf("chunk fetch failed for file %s: %w", fileID, err)
	}

	chunks := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, ScoredChunk{
			Record: chunkFromMeta(r.Meta),
		})
	}
	return chunks, nil
}
