package services

import (
	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
)

// TrendRecord is the count series and classification of one category
type TrendRecord struct {
	Category     string                      `json:"categoria"`
	CategoryName string                      `json:"categoria_nome"`
	Trend        valueobjects.TrendDirection `json:"tendencia"`
	Variation    float64                     `json:"variacao_percentual"`
	Values       []int                       `json:"valores"`
}

// TrendAnalyzer classifies per-category item counts over chronologically
// ordered sessions
type TrendAnalyzer struct {
	growth  float64
	decline float64
}

// NewTrendAnalyzer creates an analyzer. A nil config uses the defaults.
func NewTrendAnalyzer(cfg *config.AnalyticsConfig) *TrendAnalyzer {
	if cfg == nil {
		cfg = config.DefaultAnalyticsConfig()
	}
	return &TrendAnalyzer{
		growth:  cfg.GrowthThreshold,
		decline: cfg.DeclineThreshold,
	}
}

// Analyze returns one record per category of the first session's template
func (t *TrendAnalyzer) Analyze(sessions []*entities.Session, items []*entities.Item) map[string]TrendRecord {
	trends := make(map[string]TrendRecord)
	if len(sessions) == 0 || sessions[0].Template == nil {
		return trends
	}

	position := make(map[valueobjects.SessionID]int, len(sessions))
	for i, s := range sessions {
		if _, ok := position[s.ID]; !ok {
			position[s.ID] = i
		}
	}

	counts := make(map[string][]int)
	for _, item := range items {
		pos, ok := position[item.SessionID]
		if !ok {
			continue
		}
		series, ok := counts[item.Category]
		if !ok {
			series = make([]int, len(sessions))
			counts[item.Category] = series
		}
		series[pos]++
	}

	for _, category := range sessions[0].Template.Categories {
		values, ok := counts[category.Slug]
		if !ok {
			values = make([]int, len(sessions))
		}
		direction, variation := t.classify(values)
		trends[category.Slug] = TrendRecord{
			Category:     category.Slug,
			CategoryName: category.Name,
			Trend:        direction,
			Variation:    variation,
			Values:       values,
		}
	}

	return trends
}

func (t *TrendAnalyzer) classify(values []int) (valueobjects.TrendDirection, float64) {
	if len(values) < 2 || allZero(values) {
		return valueobjects.TrendInsufficient, 0.0
	}

	first, last := values[0], values[len(values)-1]
	if first == 0 {
		if last > 0 {
			return valueobjects.TrendGrowing, 0.0
		}
		return valueobjects.TrendStable, 0.0
	}

	variation := float64(last-first) * 100 / float64(first)
	switch {
	case variation > t.growth:
		return valueobjects.TrendGrowing, Round(variation, 2)
	case variation < t.decline:
		return valueobjects.TrendDeclining, Round(variation, 2)
	default:
		return valueobjects.TrendStable, Round(variation, 2)
	}
}

// Participation compares the mean of the newest window of participant counts
// with the window before it. counts must be ordered newest first. Without an
// earlier window the trend is stable.
func (t *TrendAnalyzer) Participation(counts []int, window int) valueobjects.TrendDirection {
	if window <= 0 || len(counts) <= window {
		return valueobjects.TrendStable
	}

	recent := mean(counts[:window])
	end := 2 * window
	if end > len(counts) {
		end = len(counts)
	}
	earlier := mean(counts[window:end])

	if earlier == 0 {
		if recent > 0 {
			return valueobjects.TrendGrowing
		}
		return valueobjects.TrendStable
	}

	variation := (recent - earlier) * 100 / earlier
	switch {
	case variation > t.growth:
		return valueobjects.TrendGrowing
	case variation < t.decline:
		return valueobjects.TrendDeclining
	default:
		return valueobjects.TrendStable
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}

func allZero(values []int) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
