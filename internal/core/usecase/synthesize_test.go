package usecase

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeStaysWithinRanges(t *testing.T) {
	synth := NewResultSynthesizer(rand.New(rand.NewPCG(42, 7)))
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 2000; i++ {
		result := synth.Synthesize("doc-1", now)

		require.GreaterOrEqual(t, result.Score, 10)
		require.Less(t, result.Score, 40)
		require.GreaterOrEqual(t, len(result.Sources), 1)
		require.LessOrEqual(t, len(result.Sources), 5)
		require.Equal(t, 100-result.Score, result.Details.UniqueContent)
		require.GreaterOrEqual(t, result.Details.TotalWords, 500)
		require.Less(t, result.Details.TotalWords, 1500)

		for j, source := range result.Sources {
			require.GreaterOrEqual(t, source.Similarity, 5)
			require.Less(t, source.Similarity, 25)
			require.Equal(t, fmt.Sprintf("https://example.com/source-%d", j+1), source.URL)
			require.Equal(t, fmt.Sprintf("Source similaire %d", j+1), source.Title)
			require.Equal(t, placeholderExcerpt, source.Excerpt)
		}
	}
}

func TestSynthesizeCoversWholeSourceRange(t *testing.T) {
	synth := NewResultSynthesizer(rand.New(rand.NewPCG(3, 4)))
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		seen[len(synth.Synthesize("doc", time.Now()).Sources)] = true
	}
	for n := 1; n <= 5; n++ {
		assert.True(t, seen[n], "source count %d never generated", n)
	}
}

func TestSynthesizeStampsDocumentAndDate(t *testing.T) {
	synth := NewResultSynthesizer(nil)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	result := synth.Synthesize("doc-9", now)

	assert.Equal(t, "doc-9", result.DocumentID)
	assert.NotEmpty(t, result.ID)
	assert.True(t, result.Details.AnalysisDate.Equal(now))
	assert.Equal(t, time.UTC, result.Details.AnalysisDate.Location())
}
