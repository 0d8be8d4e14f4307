package services

import (
	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
)

// ActionItemDetail is one classified action item
type ActionItemDetail struct {
	ID          string                        `json:"id"`
	Content     string                        `json:"conteudo"`
	AuthorName  string                        `json:"autor_username"`
	Status      valueobjects.ActionItemStatus `json:"status"`
	Similarity  *float64                      `json:"similaridade,omitempty"`
	OriginRetro valueobjects.SessionID        `json:"retro_origem"`
}

// ActionItemReport summarizes how action items evolved between the last two sessions
type ActionItemReport struct {
	PreviousTotal  int                `json:"total_action_items_anterior"`
	Resolved       int                `json:"resolvidos"`
	Recurring      int                `json:"recorrentes"`
	New            int                `json:"novos"`
	ResolutionRate float64            `json:"taxa_resolucao"`
	Details        []ActionItemDetail `json:"detalhes"`
}

func emptyActionItemReport() *ActionItemReport {
	return &ActionItemReport{Details: []ActionItemDetail{}}
}

// ActionItemTracker classifies action items of the previous session as
// resolved or recurring, and those of the current session as new
type ActionItemTracker struct {
	finder    MatchFinder
	threshold float64
	slug      string
}

// NewActionItemTracker creates a tracker. A nil config uses the defaults.
func NewActionItemTracker(cfg *config.AnalyticsConfig, finder MatchFinder) *ActionItemTracker {
	if cfg == nil {
		cfg = config.DefaultAnalyticsConfig()
	}
	if finder == nil {
		finder = NewBruteForceMatchFinder(nil)
	}

	return &ActionItemTracker{
		finder:    finder,
		threshold: cfg.SimilarityThreshold,
		slug:      cfg.ActionItemsSlug,
	}
}

// Analyze compares the last two sessions of the chronologically ordered ids.
// Earlier sessions are ignored; items of other categories are skipped.
func (t *ActionItemTracker) Analyze(sessionIDs []valueobjects.SessionID, items []*entities.Item) *ActionItemReport {
	if len(sessionIDs) < 2 {
		return emptyActionItemReport()
	}

	previousID := sessionIDs[len(sessionIDs)-2]
	currentID := sessionIDs[len(sessionIDs)-1]

	actionItems := entities.FilterByCategory(items, t.slug)
	previous := entities.FilterBySession(actionItems, previousID)
	current := entities.FilterBySession(actionItems, currentID)

	resolved := make([]ActionItemDetail, 0)
	recurring := make([]ActionItemDetail, 0)
	created := make([]ActionItemDetail, 0)

	for _, item := range previous {
		matches := t.finder.FindMatches(item, current, t.threshold)
		if len(matches) == 0 {
			resolved = append(resolved, newActionItemDetail(item, valueobjects.ActionItemResolved, nil))
			continue
		}
		best := matches[0].Similarity
		recurring = append(recurring, newActionItemDetail(item, valueobjects.ActionItemRecurring, &best))
	}

	for _, item := range current {
		if len(t.finder.FindMatches(item, previous, t.threshold)) == 0 {
			created = append(created, newActionItemDetail(item, valueobjects.ActionItemNew, nil))
		}
	}

	report := &ActionItemReport{
		PreviousTotal: len(previous),
		Resolved:      len(resolved),
		Recurring:     len(recurring),
		New:           len(created),
	}
	if report.PreviousTotal > 0 {
		report.ResolutionRate = Round(float64(report.Resolved)/float64(report.PreviousTotal)*100, 2)
	}

	report.Details = make([]ActionItemDetail, 0, len(resolved)+len(recurring)+len(created))
	report.Details = append(report.Details, resolved...)
	report.Details = append(report.Details, recurring...)
	report.Details = append(report.Details, created...)

	return report
}

func newActionItemDetail(item *entities.Item, status valueobjects.ActionItemStatus, similarity *float64) ActionItemDetail {
	return ActionItemDetail{
		ID:          item.ID,
		Content:     item.Content,
		AuthorName:  item.AuthorName,
		Status:      status,
		Similarity:  similarity,
		OriginRetro: item.SessionID,
	}
}
