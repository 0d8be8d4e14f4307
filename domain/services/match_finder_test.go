package services

import (
	"testing"

	"retroboard/domain/core/entities"
	"retroboard/tests/fixtures"

	"github.com/stretchr/testify/assert"
)

func TestQuickRatioMatchFinder_AgreesWithBruteForce(t *testing.T) {
	session := fixtures.NewSessionBuilder().Build()
	texts := []string{
		"Reuniões muito longas e improdutivas",
		"Reuniões muito longas e pouco produtivas",
		"Falta de testes automatizados",
		"Falta de testes automatizados no backend",
		"Deploy manual demorado",
		"Deploy manual muito demorado",
		"Cards confusos",
		"",
	}
	candidates := make([]*entities.Item, len(texts))
	for i, text := range texts {
		candidates[i] = fixtures.Note(session, "to_improve", text)
	}

	brute := NewBruteForceMatchFinder(nil)
	quick := NewQuickRatioMatchFinder()

	for _, threshold := range []float64{0.0, 0.5, 0.8, DefaultSimilarityThreshold, 1.0} {
		for _, target := range candidates {
			want := brute.FindMatches(target, candidates, threshold)
			got := quick.FindMatches(target, candidates, threshold)
			assert.Equal(t, want, got, "target %q threshold %v", target.Content, threshold)
		}
	}
}

func TestNewMatchFinder(t *testing.T) {
	assert.IsType(t, &QuickRatioMatchFinder{}, NewMatchFinder("quick_ratio"))
	assert.IsType(t, &BruteForceMatchFinder{}, NewMatchFinder("brute_force"))
	assert.IsType(t, &BruteForceMatchFinder{}, NewMatchFinder(""))
}
