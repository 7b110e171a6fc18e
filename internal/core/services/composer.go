package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
	"github.com/blugen-labs/lexrag/internal/logger"
)

// Passage is a retrieved chunk hydrated with its full content and
// highlight regions, ready for composition.
type Passage struct {
	// Entry is the chunk's index entry.
	Entry domain.IndexEntry

	// Content is the full chunk text.
	Content string

	// Regions are the page-level highlight areas for the chunk.
	Regions []domain.HighlightRegion
}

// citationMarker matches [n] references emitted by the model.
var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// Composer generates an answer from retrieved passages with source
// attribution. Every answer cites at least one passage: if the model
// emits no usable markers, all passages are cited in rank order.
type Composer struct {
	llm     driven.GenerationService
	prompts driven.PromptStore

	// maxTokens bounds the generated answer. Zero means provider default.
	maxTokens int
}

// NewComposer creates a composer over the given generation service.
func NewComposer(llm driven.GenerationService, prompts driven.PromptStore) *Composer {
	return &Composer{
		llm:     llm,
		prompts: prompts,
	}
}

// SetMaxTokens bounds the length of generated answers.
func (c *Composer) SetMaxTokens(n int) {
	c.maxTokens = n
}

// Compose builds the answer prompt from the passages, generates the
// answer text and resolves its citation markers. Generation failures
// propagate unchanged; there is no canned fallback answer.
func (c *Composer) Compose(ctx context.Context, question string, passages []Passage) (*domain.Answer, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("%w: nothing to compose from", domain.ErrInvalidInput)
	}

	template, err := c.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return nil, fmt.Errorf("load answer prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, contextBlock(passages), question)

	logger.Section("Answer Composition")
	logger.Debug("Prompt length: %d chars, passages: %d", len(prompt), len(passages))

	text, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	cited := citedIndexes(text, len(passages))
	if len(cited) == 0 {
		// No usable markers: attribute conservatively by citing every
		// passage rather than returning an unattributed answer.
		logger.Debug("No citation markers found, citing all %d passages", len(passages))
		cited = make([]int, len(passages))
		for i := range passages {
			cited[i] = i
		}
	}

	answer := &domain.Answer{
		Text:      text,
		Citations: make([]domain.Citation, 0, len(cited)),
	}
	for _, idx := range cited {
		p := passages[idx]
		answer.Citations = append(answer.Citations, domain.Citation{
			ChunkID:  p.Entry.ChunkID,
			Filename: p.Entry.Filename,
			Category: p.Entry.Category,
			Folder:   p.Entry.Folder,
			Snippet:  p.Entry.Snippet,
			Regions:  p.Regions,
		})
	}

	return answer, nil
}

// contextBlock renders passages as a numbered context section. Marker
// numbers are 1-based to match the prompt's citation instructions.
func contextBlock(passages []Passage) string {
	var sb strings.Builder
	for i, p := range passages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s (%s)\n%s", i+1, p.Entry.Filename, p.Entry.Category, p.Content)
	}
	return sb.String()
}

// citedIndexes extracts the distinct passage indexes referenced by [n]
// markers in the answer, in order of first appearance. Out-of-range
// markers are ignored.
func citedIndexes(text string, passageCount int) []int {
	seen := make(map[int]bool)
	var indexes []int

	for _, match := range citationMarker.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > passageCount {
			continue
		}
		idx := n - 1
		if !seen[idx] {
			seen[idx] = true
			indexes = append(indexes, idx)
		}
	}

	return indexes
}
