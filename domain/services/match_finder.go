package services

import "retroboard/domain/core/entities"

// MatchFinder searches a candidate set for items similar to a target. The
// analyzers only depend on this contract, so the pairwise scan can be swapped
// for an indexed strategy without changing their results.
type MatchFinder interface {
	FindMatches(target *entities.Item, candidates []*entities.Item, threshold float64) []Match
}

// BruteForceMatchFinder scores every candidate
type BruteForceMatchFinder struct {
	similarity TextSimilarity
}

// NewBruteForceMatchFinder creates a finder that compares target against all candidates
func NewBruteForceMatchFinder(similarity TextSimilarity) *BruteForceMatchFinder {
	if similarity == nil {
		similarity = NewSequenceSimilarity()
	}
	return &BruteForceMatchFinder{similarity: similarity}
}

// FindMatches implements MatchFinder
func (f *BruteForceMatchFinder) FindMatches(target *entities.Item, candidates []*entities.Item, threshold float64) []Match {
	return f.similarity.FindSimilar(target.Content, candidates, threshold)
}

// QuickRatioMatchFinder skips candidates whose difflib upper bound is below
// the threshold before running the full alignment. The bounds are exact, so
// its output is identical to BruteForceMatchFinder's.
type QuickRatioMatchFinder struct {
	similarity *SequenceSimilarity
}

// NewQuickRatioMatchFinder creates a prefiltering finder
func NewQuickRatioMatchFinder() *QuickRatioMatchFinder {
	return &QuickRatioMatchFinder{similarity: NewSequenceSimilarity()}
}

// FindMatches implements MatchFinder
func (f *QuickRatioMatchFinder) FindMatches(target *entities.Item, candidates []*entities.Item, threshold float64) []Match {
	matches := make([]Match, 0)
	for _, c := range candidates {
		if !f.similarity.mayReach(target.Content, c.Content, threshold) {
			continue
		}
		score := f.similarity.Similarity(target.Content, c.Content)
		if score >= threshold {
			matches = append(matches, Match{Item: c, Similarity: score})
		}
	}

	sortMatches(matches)
	return matches
}

// NewMatchFinder returns the finder registered under name, defaulting to brute force
func NewMatchFinder(name string) MatchFinder {
	switch name {
	case "quick_ratio":
		return NewQuickRatioMatchFinder()
	default:
		return NewBruteForceMatchFinder(nil)
	}
}
