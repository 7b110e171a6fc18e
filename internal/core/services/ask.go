package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
	"github.com/blugen-labs/lexrag/internal/core/ports/driving"
	"github.com/blugen-labs/lexrag/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// maxExpandedQueries caps how many expansion queries are used.
const maxExpandedQueries = 5

// AskService answers questions against the indexed corpus: retrieve,
// hydrate, compose, attribute.
type AskService struct {
	retriever   *Retriever
	composer    *Composer
	highlighter *Highlighter
	docStore    driven.DocumentStore
	llm         driven.GenerationService
	prompts     driven.PromptStore
}

// NewAskService creates an ask service. The llm and prompts arguments
// are also held directly for query expansion.
func NewAskService(
	retriever *Retriever,
	composer *Composer,
	highlighter *Highlighter,
	docStore driven.DocumentStore,
	llm driven.GenerationService,
	prompts driven.PromptStore,
) *AskService {
	return &AskService{
		retriever:   retriever,
		composer:    composer,
		highlighter: highlighter,
		docStore:    docStore,
		llm:         llm,
		prompts:     prompts,
	}
}

// Ask retrieves relevant chunks for the question and composes a cited
// answer from them.
func (s *AskService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	query := domain.Query{
		Text:     question,
		Category: opts.Category,
		K:        opts.K,
	}

	var result *domain.RetrievalResult
	var err error
	if opts.Expand {
		result, err = s.retrieveExpanded(ctx, query)
	} else {
		result, err = s.retriever.Retrieve(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	passages := s.hydrate(ctx, result.Hits)

	return s.composer.Compose(ctx, question, passages)
}

// retrieveExpanded generates alternative phrasings of the question,
// retrieves for each and merges the hits by best score. Expansion
// failures fall back to plain retrieval: the feature is an enhancement,
// not a dependency.
func (s *AskService) retrieveExpanded(ctx context.Context, query domain.Query) (*domain.RetrievalResult, error) {
	queries := []string{query.Text}

	expansions, err := s.expandQueries(ctx, query.Text)
	if err != nil {
		logger.Warn("Query expansion failed, using original question: %v", err)
	} else {
		queries = append(queries, expansions...)
	}

	k := query.K
	if k <= 0 {
		k = DefaultK
	}

	// Merge hits across queries, keeping each chunk's best score.
	best := make(map[string]domain.RetrievedChunk)
	for _, q := range queries {
		sub := query
		sub.Text = q
		result, err := s.retriever.Retrieve(ctx, sub)
		if err != nil {
			return nil, err
		}
		for _, hit := range result.Hits {
			if prev, ok := best[hit.Entry.ChunkID]; !ok || hit.Score > prev.Score {
				best[hit.Entry.ChunkID] = hit
			}
		}
	}

	merged := make([]domain.RetrievedChunk, 0, len(best))
	for _, hit := range best {
		merged = append(merged, hit)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if merged[i].Entry.Ordinal != merged[j].Entry.Ordinal {
			return merged[i].Entry.Ordinal < merged[j].Entry.Ordinal
		}
		return merged[i].Entry.ChunkID < merged[j].Entry.ChunkID
	})
	if len(merged) > k {
		merged = merged[:k]
	}
	for i := range merged {
		merged[i].Rank = i + 1
	}

	return &domain.RetrievalResult{Hits: merged}, nil
}

// expandQueries asks the generation service for alternative search
// queries, one per line.
func (s *AskService) expandQueries(ctx context.Context, question string) ([]string, error) {
	template, err := s.prompts.Load(driven.PromptQueryExpand)
	if err != nil {
		return nil, fmt.Errorf("load expansion prompt: %w", err)
	}

	text, err := s.llm.Generate(ctx, fmt.Sprintf(template, question), driven.GenerateOptions{})
	if err != nil {
		return nil, err
	}

	var queries []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		queries = append(queries, line)
		if len(queries) == maxExpandedQueries {
			break
		}
	}

	logger.Debug("Expanded question into %d queries", len(queries))
	return queries, nil
}

// hydrate resolves each hit's full chunk from the document store and
// computes its highlight regions. A hit whose chunk has gone missing
// falls back to its index snippet so the answer still cites it.
func (s *AskService) hydrate(ctx context.Context, hits []domain.RetrievedChunk) []Passage {
	passages := make([]Passage, 0, len(hits))
	for _, hit := range hits {
		passage := Passage{Entry: hit.Entry}

		chunk, err := s.docStore.GetChunk(ctx, hit.Entry.ChunkID)
		if err != nil {
			logger.Warn("Chunk %s missing from store, using snippet: %v", hit.Entry.ChunkID, err)
			passage.Content = hit.Entry.Snippet
		} else {
			passage.Content = chunk.Content
			passage.Regions = s.highlighter.Locate(chunk)
		}

		passages = append(passages, passage)
	}
	return passages
}
