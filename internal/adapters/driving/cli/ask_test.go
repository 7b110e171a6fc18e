package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driving"
)

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	answer *domain.Answer
	err    error
	opts   driving.AskOptions
}

func (m *mockAskService) Ask(_ context.Context, _ string, opts driving.AskOptions) (*domain.Answer, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func runAskCommand(t *testing.T, mock *mockAskService, args ...string) (string, error) {
	t.Helper()

	oldService := askService
	askService = mock
	defer func() { askService = oldService }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(append([]string{"ask"}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		askCategory = ""
		askK = 0
		askExpand = false
		askJSON = false
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	mock := &mockAskService{
		answer: &domain.Answer{
			Text: "Suits are instituted by presenting a plaint [1].",
			Citations: []domain.Citation{
				{
					ChunkID:  "a",
					Filename: "cpc.pdf",
					Folder:   "procedure",
					Snippet:  "institution of suits",
					Regions: []domain.HighlightRegion{
						{Page: 3, Start: 100, End: 400},
						{Page: 4, Start: 400, End: 600},
					},
				},
			},
		},
	}

	out, err := runAskCommand(t, mock, "how is a suit filed?")

	require.NoError(t, err)
	assert.Contains(t, out, "presenting a plaint")
	assert.Contains(t, out, "[1] procedure/cpc.pdf (page 3-4)")
	assert.Contains(t, out, "institution of suits")
}

func TestAskCmd_JSONOutput(t *testing.T) {
	mock := &mockAskService{
		answer: &domain.Answer{
			Text:      "answer",
			Citations: []domain.Citation{{ChunkID: "a", Filename: "doc.txt"}},
		},
	}

	out, err := runAskCommand(t, mock, "question", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"Text": "answer"`)
	assert.Contains(t, out, `"ChunkID": "a"`)
}

func TestAskCmd_PassesOptions(t *testing.T) {
	mock := &mockAskService{answer: &domain.Answer{Text: "ok"}}

	_, err := runAskCommand(t, mock, "question", "--category", "contracts", "-k", "8", "--expand")

	require.NoError(t, err)
	assert.Equal(t, "contracts", mock.opts.Category)
	assert.Equal(t, 8, mock.opts.K)
	assert.True(t, mock.opts.Expand)
}

func TestAskCmd_ErrorPropagates(t *testing.T) {
	mock := &mockAskService{err: domain.ErrNoResults}

	_, err := runAskCommand(t, mock, "question")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoResults)
}
