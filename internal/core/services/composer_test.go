package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

func passage(chunkID string, content string) Passage {
	return Passage{
		Entry: domain.IndexEntry{
			ChunkID:  chunkID,
			Filename: "doc.txt",
			Category: "contracts",
			Snippet:  content,
		},
		Content: content,
		Regions: []domain.HighlightRegion{{Page: 1, Start: 0, End: len(content)}},
	}
}

func TestComposer_CitesMarkedPassages(t *testing.T) {
	gen := &mockGenerator{response: "Suits are instituted by plaint [1]. Summons follows [3]."}
	c := NewComposer(gen, newMockPromptStore())
	passages := []Passage{
		passage("a", "institution of suits"),
		passage("b", "execution of decrees"),
		passage("c", "service of summons"),
	}

	answer, err := c.Compose(context.Background(), "how is a suit filed?", passages)

	require.NoError(t, err)
	require.Len(t, answer.Citations, 2)
	assert.Equal(t, "a", answer.Citations[0].ChunkID)
	assert.Equal(t, "c", answer.Citations[1].ChunkID)
	assert.NotEmpty(t, answer.Citations[0].Regions)
}

func TestComposer_NoMarkersCitesAllInRankOrder(t *testing.T) {
	gen := &mockGenerator{response: "An answer with no markers at all."}
	c := NewComposer(gen, newMockPromptStore())
	passages := []Passage{
		passage("a", "one"),
		passage("b", "two"),
		passage("c", "three"),
	}

	answer, err := c.Compose(context.Background(), "question", passages)

	require.NoError(t, err)
	require.Len(t, answer.Citations, 3)
	assert.Equal(t, "a", answer.Citations[0].ChunkID)
	assert.Equal(t, "b", answer.Citations[1].ChunkID)
	assert.Equal(t, "c", answer.Citations[2].ChunkID)
}

func TestComposer_IgnoresOutOfRangeMarkers(t *testing.T) {
	gen := &mockGenerator{response: "Claim [2], bogus [9], repeat [2]."}
	c := NewComposer(gen, newMockPromptStore())
	passages := []Passage{
		passage("a", "one"),
		passage("b", "two"),
	}

	answer, err := c.Compose(context.Background(), "question", passages)

	require.NoError(t, err)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "b", answer.Citations[0].ChunkID)
}

func TestComposer_NumbersPassagesInPrompt(t *testing.T) {
	gen := &mockGenerator{response: "ok [1]"}
	c := NewComposer(gen, newMockPromptStore())
	passages := []Passage{
		passage("a", "first passage text"),
		passage("b", "second passage text"),
	}

	_, err := c.Compose(context.Background(), "question", passages)

	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "[1] doc.txt (contracts)\nfirst passage text")
	assert.Contains(t, gen.prompts[0], "[2] doc.txt (contracts)\nsecond passage text")
	assert.Contains(t, gen.prompts[0], "question")
}

func TestComposer_GenerationFailurePropagates(t *testing.T) {
	gen := &mockGenerator{genErr: domain.ErrGenerationService}
	c := NewComposer(gen, newMockPromptStore())

	_, err := c.Compose(context.Background(), "question", []Passage{passage("a", "one")})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationService)
}

func TestComposer_NoPassages(t *testing.T) {
	c := NewComposer(&mockGenerator{}, newMockPromptStore())

	_, err := c.Compose(context.Background(), "question", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
