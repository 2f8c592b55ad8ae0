// internal/knowledge/knowledge.go
package knowledge

import (
	"context"
	"fmt"
	"time"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"

	"car-sales-assistant/internal/common/config"
	apperrors "car-sales-assistant/internal/common/errors"
	"car-sales-assistant/internal/common/logger"
)

// Passage is one retrieved fragment of company knowledge. Score is a
// similarity in [0,1] derived from the vector distance; higher is closer.
type Passage struct {
	Content string
	Score   float64
}

// Store retrieves company knowledge passages for a free-text query.
// An empty result is a valid answer ("we know nothing about this"), not an
// error; errors mean the store itself was unreachable.
type Store interface {
	Search(ctx context.Context, query string, topK int, filters map[string]string) ([]Passage, error)
}

// ==========================================
// CHROMA-BACKED STORE
// ==========================================

// ChromaStore serves knowledge retrieval from a ChromaDB collection.
type ChromaStore struct {
	client     chroma.Client
	collection chroma.Collection
	timeout    time.Duration
	logger     logger.Logger
}

// NewChromaStore connects to ChromaDB and binds the configured collection,
// creating it if it does not exist yet.
func NewChromaStore(cfg config.ChromaConfig, log logger.Logger) (*ChromaStore, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.URL()))
	if err != nil {
		return nil, apperrors.NewKnowledgeUnavailableError(fmt.Sprintf("create client: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TimeoutDuration())
	defer cancel()

	collection, err := client.GetOrCreateCollection(ctx, cfg.Collection)
	if err != nil {
		return nil, apperrors.NewKnowledgeUnavailableError(fmt.Sprintf("bind collection %s: %v", cfg.Collection, err))
	}

	return &ChromaStore{
		client:     client,
		collection: collection,
		timeout:    cfg.TimeoutDuration(),
		logger:     log.WithFields(map[string]interface{}{"component": "knowledge"}),
	}, nil
}

// Search runs a semantic query against the bound collection. Filters, when
// given, are applied against document metadata after retrieval; a passage
// must match every filter key to survive.
func (s *ChromaStore) Search(ctx context.Context, query string, topK int, filters map[string]string) ([]Passage, error) {
	if query == "" || topK <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// No explicit include list: the server default returns documents,
	// metadatas and the distances the similarity scores are derived from.
	results, err := s.collection.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(topK),
	)
	if err != nil {
		return nil, apperrors.NewKnowledgeUnavailableError(fmt.Sprintf("query: %v", err))
	}

	passages := convertResults(results, filters)
	s.logger.Debug("knowledge searched", map[string]interface{}{
		"query":    query,
		"passages": len(passages),
	})
	return passages, nil
}

// convertResults flattens the first query group into passages. A single
// query text always produces at most one group.
func convertResults(results chroma.QueryResult, filters map[string]string) []Passage {
	if results == nil {
		return nil
	}

	documentsGroups := results.GetDocumentsGroups()
	if len(documentsGroups) == 0 {
		return nil
	}
	documents := documentsGroups[0]

	var metadatas []chroma.DocumentMetadata
	if groups := results.GetMetadatasGroups(); len(groups) > 0 {
		metadatas = groups[0]
	}
	var distances []float64
	if groups := results.GetDistancesGroups(); len(groups) > 0 {
		distances = make([]float64, len(groups[0]))
		for i, d := range groups[0] {
			distances[i] = float64(d)
		}
	}

	var passages []Passage
	for i := 0; i < len(documents); i++ {
		if i < len(metadatas) && !matchesFilters(metadatas[i], filters) {
			continue
		}

		score := 0.0
		if i < len(distances) {
			score = 1.0 - distances[i]
		}

		content := documents[i].ContentString()
		if content == "" {
			continue
		}

		passages = append(passages, Passage{Content: content, Score: score})
	}
	return passages
}

func matchesFilters(metadata chroma.DocumentMetadata, filters map[string]string) bool {
	for key, want := range filters {
		got, ok := metadata.GetString(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}
