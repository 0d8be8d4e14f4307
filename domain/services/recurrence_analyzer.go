package services

import (
	"sort"

	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"

	"golang.org/x/sync/errgroup"
)

// RecurrenceGroup is one note that keeps coming back across sessions
type RecurrenceGroup struct {
	Content        string                   `json:"conteudo"`
	Category       string                   `json:"categoria"`
	Frequency      int                      `json:"frequencia"`
	Sessions       []valueobjects.SessionID `json:"retros"`
	MeanSimilarity float64                  `json:"similaridade_media"`
}

// RecurrenceReport lists recurring notes found in a set of sessions
type RecurrenceReport struct {
	Total       int               `json:"total_recorrencias"`
	PerCategory map[string]int    `json:"por_categoria"`
	Groups      []RecurrenceGroup `json:"itens_recorrentes"`
}

// RecurrenceAnalyzer detects notes restated in two or more sessions within
// the same category. Action items are left to ActionItemTracker.
type RecurrenceAnalyzer struct {
	finder         MatchFinder
	threshold      float64
	minOccurrences int
	excludedSlug   string
}

// NewRecurrenceAnalyzer creates an analyzer. A nil config uses the defaults.
func NewRecurrenceAnalyzer(cfg *config.AnalyticsConfig, finder MatchFinder) *RecurrenceAnalyzer {
	if cfg == nil {
		cfg = config.DefaultAnalyticsConfig()
	}
	if finder == nil {
		finder = NewBruteForceMatchFinder(nil)
	}

	return &RecurrenceAnalyzer{
		finder:         finder,
		threshold:      cfg.SimilarityThreshold,
		minOccurrences: cfg.MinOccurrences,
		excludedSlug:   cfg.ActionItemsSlug,
	}
}

// Analyze groups recurring notes across the given sessions. Session order is
// used for the order of each group's session list and for seed selection;
// the set of groups found does not depend on it.
func (a *RecurrenceAnalyzer) Analyze(sessionIDs []valueobjects.SessionID, items []*entities.Item) *RecurrenceReport {
	position := make(map[valueobjects.SessionID]int, len(sessionIDs))
	for i, id := range sessionIDs {
		if _, ok := position[id]; !ok {
			position[id] = i
		}
	}

	byCategory := make(map[string][]*entities.Item)
	for _, item := range items {
		if item.Category == a.excludedSlug {
			continue
		}
		if _, ok := position[item.SessionID]; !ok {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	slugs := make([]string, 0, len(byCategory))
	for slug, categoryItems := range byCategory {
		slugs = append(slugs, slug)
		sortForSeeding(categoryItems, position)
	}
	sort.Strings(slugs)

	// Categories are independent partitions.
	results := make([][]RecurrenceGroup, len(slugs))
	var g errgroup.Group
	for i, slug := range slugs {
		i, slug := i, slug
		g.Go(func() error {
			results[i] = a.analyzeCategory(slug, byCategory[slug], position, sessionIDs)
			return nil
		})
	}
	_ = g.Wait()

	report := &RecurrenceReport{
		PerCategory: make(map[string]int),
		Groups:      make([]RecurrenceGroup, 0),
	}
	for i, slug := range slugs {
		if len(results[i]) == 0 {
			continue
		}
		report.PerCategory[slug] = len(results[i])
		report.Groups = append(report.Groups, results[i]...)
	}

	sort.SliceStable(report.Groups, func(i, j int) bool {
		return report.Groups[i].Frequency > report.Groups[j].Frequency
	})
	report.Total = len(report.Groups)

	return report
}

func (a *RecurrenceAnalyzer) analyzeCategory(
	slug string,
	items []*entities.Item,
	position map[valueobjects.SessionID]int,
	sessionIDs []valueobjects.SessionID,
) []RecurrenceGroup {
	consumed := make([]bool, len(items))
	index := make(map[*entities.Item]int, len(items))
	for i, item := range items {
		index[item] = i
	}

	var groups []RecurrenceGroup
	for i, seed := range items {
		if consumed[i] {
			continue
		}

		candidates := make([]*entities.Item, 0, len(items))
		for j, other := range items {
			if j == i || consumed[j] || other.SessionID.Equals(seed.SessionID) {
				continue
			}
			candidates = append(candidates, other)
		}

		matches := a.finder.FindMatches(seed, candidates, a.threshold)

		occurrences := map[valueobjects.SessionID]bool{seed.SessionID: true}
		for _, m := range matches {
			occurrences[m.Item.SessionID] = true
		}
		if len(occurrences) < a.minOccurrences {
			continue
		}

		consumed[i] = true
		total := 0.0
		for _, m := range matches {
			consumed[index[m.Item]] = true
			total += m.Similarity
		}
		avg := 1.0
		if len(matches) > 0 {
			avg = Round(total/float64(len(matches)), 3)
		}

		groups = append(groups, RecurrenceGroup{
			Content:        seed.Content,
			Category:       slug,
			Frequency:      len(occurrences),
			Sessions:       orderedSessions(occurrences, sessionIDs),
			MeanSimilarity: avg,
		})
	}

	return groups
}

// sortForSeeding orders items by session position, then creation time, then id
func sortForSeeding(items []*entities.Item, position map[valueobjects.SessionID]int) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := position[items[i].SessionID], position[items[j].SessionID]
		if pi != pj {
			return pi < pj
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func orderedSessions(set map[valueobjects.SessionID]bool, sessionIDs []valueobjects.SessionID) []valueobjects.SessionID {
	out := make([]valueobjects.SessionID, 0, len(set))
	for _, id := range sessionIDs {
		if set[id] {
			out = append(out, id)
			delete(set, id)
		}
	}
	return out
}
