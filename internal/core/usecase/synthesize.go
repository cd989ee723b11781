package usecase

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

const placeholderExcerpt = "Lorem ipsum dolor sit amet, consectetur adipiscing elit..."

// Ranges of the generated values, [min, min+span).
const (
	scoreMin       = 10
	scoreSpan      = 30
	sourcesMin     = 1
	sourcesSpan    = 5
	similarityMin  = 5
	similaritySpan = 20
	wordsMin       = 500
	wordsSpan      = 1000
)

// ResultSynthesizer fabricates plagiarism results from random numbers.
type ResultSynthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewResultSynthesizer(rng *rand.Rand) *ResultSynthesizer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ResultSynthesizer{rng: rng}
}

func (s *ResultSynthesizer) Synthesize(documentID string, now time.Time) domain.PlagiarismResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	score := s.rng.IntN(scoreSpan) + scoreMin
	count := s.rng.IntN(sourcesSpan) + sourcesMin

	sources := make([]domain.SourceMatch, 0, count)
	for i := 1; i <= count; i++ {
		sources = append(sources, domain.SourceMatch{
			URL:        fmt.Sprintf("https://example.com/source-%d", i),
			Title:      fmt.Sprintf("Source similaire %d", i),
			Similarity: s.rng.IntN(similaritySpan) + similarityMin,
			Excerpt:    placeholderExcerpt,
		})
	}

	return domain.PlagiarismResult{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Score:      score,
		Sources:    sources,
		Details: domain.ResultDetails{
			TotalWords:    s.rng.IntN(wordsSpan) + wordsMin,
			UniqueContent: 100 - score,
			AnalysisDate:  now.UTC(),
		},
		CreatedAt: now.UTC(),
	}
}
