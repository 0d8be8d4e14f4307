package services

import (
	"math"
	"sort"
	"strings"

	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultSimilarityThreshold is the score at or above which two notes are
// considered a restatement of the same concern
const DefaultSimilarityThreshold = 0.85

// Match is a candidate item annotated with its similarity to a target text
type Match struct {
	Item       *entities.Item
	Similarity float64
}

// TextSimilarity scores free-text notes against each other
type TextSimilarity interface {
	// Similarity returns a symmetric score in [0, 1]
	Similarity(a, b string) float64

	// AreSimilar reports whether Similarity(a, b) >= threshold
	AreSimilar(a, b string, threshold float64) bool

	// FindSimilar returns the candidates scoring at or above threshold,
	// best first. Candidates with equal scores keep their input order.
	FindSimilar(target string, candidates []*entities.Item, threshold float64) []Match
}

// SequenceSimilarity implements TextSimilarity with the Ratcliff/Obershelp
// ratio (2*M/T) over Unicode code points
type SequenceSimilarity struct{}

// NewSequenceSimilarity creates the default text similarity service
func NewSequenceSimilarity() *SequenceSimilarity {
	return &SequenceSimilarity{}
}

// Similarity returns the alignment ratio of the normalized texts. Matching
// blocks depend on argument order, so both orientations are scored and the
// larger ratio wins.
func (s *SequenceSimilarity) Similarity(a, b string) float64 {
	na := valueobjects.NormalizeContent(a)
	nb := valueobjects.NormalizeContent(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	ra, rb := splitRunes(na), splitRunes(nb)
	forward := difflib.NewMatcher(ra, rb).Ratio()
	backward := difflib.NewMatcher(rb, ra).Ratio()
	return math.Max(forward, backward)
}

// AreSimilar reports whether two texts reach the threshold
func (s *SequenceSimilarity) AreSimilar(a, b string, threshold float64) bool {
	return s.Similarity(a, b) >= threshold
}

// FindSimilar filters and ranks candidates by similarity to target
func (s *SequenceSimilarity) FindSimilar(target string, candidates []*entities.Item, threshold float64) []Match {
	matches := make([]Match, 0)
	for _, c := range candidates {
		score := s.Similarity(target, c.Content)
		if score >= threshold {
			matches = append(matches, Match{Item: c, Similarity: score})
		}
	}

	sortMatches(matches)
	return matches
}

// mayReach reports whether a and b could score at least threshold, using
// difflib's length and character-multiset bounds. Both bounds are symmetric
// and never below the full ratio, so a false result is final.
func (s *SequenceSimilarity) mayReach(a, b string, threshold float64) bool {
	na := valueobjects.NormalizeContent(a)
	nb := valueobjects.NormalizeContent(b)
	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return threshold <= 0
	}

	m := difflib.NewMatcher(splitRunes(na), splitRunes(nb))
	if m.RealQuickRatio() < threshold {
		return false
	}
	return m.QuickRatio() >= threshold
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
}

func splitRunes(s string) []string {
	return strings.Split(s, "")
}

// Round rounds x half away from zero to the given number of decimal places
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
