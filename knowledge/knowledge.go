// Package knowledge is the support knowledge base: help articles stored in an
// embedded vector database and retrieved by similarity for general enquiries.
package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog"
)

// Article is one help article in the knowledge base.
type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Topic   string `json:"topic"`
}

// Base stores and retrieves help articles. chromem-go keeps everything in
// memory; articles are seeded at startup.
type Base struct {
	col      *chromem.Collection
	embedder Embedder
	logger   zerolog.Logger

	mu    sync.RWMutex
	count int
}

// NewBase creates an empty knowledge base.
func NewBase(embedder Embedder, logger zerolog.Logger) (*Base, error) {
	db := chromem.NewDB()
	col, err := db.CreateCollection(
		"support_articles",
		nil, // embeddings supplied explicitly
		nil, // default cosine distance
	)
	if err != nil {
		return nil, fmt.Errorf("create knowledge collection: %w", err)
	}
	return &Base{
		col:      col,
		embedder: embedder,
		logger:   logger.With().Str("component", "knowledge").Logger(),
	}, nil
}

// Add indexes one article.
func (b *Base) Add(ctx context.Context, article Article) error {
	if article.ID == "" || article.Content == "" {
		return fmt.Errorf("article needs an id and content")
	}

	embedding, err := b.embedder.Embed(ctx, article.Title+"\n"+article.Content)
	if err != nil {
		return fmt.Errorf("embed article %s: %w", article.ID, err)
	}

	err = b.col.AddDocument(ctx, chromem.Document{
		ID:        article.ID,
		Content:   article.Content,
		Embedding: embedding,
		Metadata: map[string]string{
			"title": article.Title,
			"topic": article.Topic,
		},
	})
	if err != nil {
		return fmt.Errorf("add article %s: %w", article.ID, err)
	}

	b.mu.Lock()
	b.count++
	b.mu.Unlock()
	return nil
}

// SearchResult is one retrieved article with its similarity score.
type SearchResult struct {
	Article    Article `json:"article"`
	Similarity float32 `json:"similarity"`
}

// Search returns the articles most similar to the query, best first.
func (b *Base) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit < 1 {
		limit = 3
	}

	b.mu.RLock()
	count := b.count
	b.mu.RUnlock()
	if count == 0 {
		return nil, nil
	}
	// chromem rejects nResults larger than the collection
	if limit > count {
		limit = count
	}

	embedding, err := b.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := b.col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			Article: Article{
				ID:      r.ID,
				Title:   r.Metadata["title"],
				Content: r.Content,
				Topic:   r.Metadata["topic"],
			},
			Similarity: r.Similarity,
		})
	}

	b.logger.Debug().Str("query", query).Int("results", len(out)).Msg("knowledge search")
	return out, nil
}

// Len reports the number of indexed articles.
func (b *Base) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
