package services

import (
	"testing"

	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	"retroboard/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notesPerSession creates counts[i] items of the category in sessions[i]
func notesPerSession(sessions []*entities.Session, category string, counts ...int) []*entities.Item {
	var items []*entities.Item
	for i, n := range counts {
		for j := 0; j < n; j++ {
			items = append(items, fixtures.Note(sessions[i], category, "note"))
		}
	}
	return items
}

func TestTrendAnalyzer_Classification(t *testing.T) {
	tests := []struct {
		name          string
		counts        []int
		wantTrend     valueobjects.TrendDirection
		wantVariation float64
	}{
		{name: "growing", counts: []int{10, 12, 14}, wantTrend: valueobjects.TrendGrowing, wantVariation: 40.0},
		{name: "declining", counts: []int{20, 18, 15}, wantTrend: valueobjects.TrendDeclining, wantVariation: -25.0},
		{name: "stable at the band edge", counts: []int{10, 10, 11}, wantTrend: valueobjects.TrendStable, wantVariation: 10.0},
		{name: "stable at the lower edge", counts: []int{10, 12, 9}, wantTrend: valueobjects.TrendStable, wantVariation: -10.0},
		{name: "all zero", counts: []int{0, 0, 0}, wantTrend: valueobjects.TrendInsufficient, wantVariation: 0.0},
		{name: "growth from zero", counts: []int{0, 1, 3}, wantTrend: valueobjects.TrendGrowing, wantVariation: 0.0},
		{name: "spike back to zero", counts: []int{0, 4, 0}, wantTrend: valueobjects.TrendStable, wantVariation: 0.0},
		{name: "drop to zero", counts: []int{3, 1, 0}, wantTrend: valueobjects.TrendDeclining, wantVariation: -100.0},
		{name: "two decimals", counts: []int{3, 4}, wantTrend: valueobjects.TrendGrowing, wantVariation: 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := threeSessions()[:len(tt.counts)]
			items := notesPerSession(sessions, "to_improve", tt.counts...)

			trends := NewTrendAnalyzer(nil).Analyze(sessions, items)

			record := trends["to_improve"]
			assert.Equal(t, tt.wantTrend, record.Trend)
			assert.Equal(t, tt.wantVariation, record.Variation)
			assert.Equal(t, tt.counts, record.Values)
		})
	}
}

func TestTrendAnalyzer_EveryTemplateCategoryPresent(t *testing.T) {
	sessions := threeSessions()
	items := notesPerSession(sessions, "went_well", 1, 2, 3)

	trends := NewTrendAnalyzer(nil).Analyze(sessions, items)

	require.Len(t, trends, 3)
	assert.Equal(t, valueobjects.TrendGrowing, trends["went_well"].Trend)
	assert.Equal(t, "O que foi bem", trends["went_well"].CategoryName)
	assert.Equal(t, []int{0, 0, 0}, trends["action_items"].Values)
	assert.Equal(t, valueobjects.TrendInsufficient, trends["action_items"].Trend)
	assert.Equal(t, valueobjects.TrendInsufficient, trends["to_improve"].Trend)
}

func TestTrendAnalyzer_SingleSessionIsInsufficient(t *testing.T) {
	sessions := threeSessions()[:1]
	items := notesPerSession(sessions, "went_well", 5)

	trends := NewTrendAnalyzer(nil).Analyze(sessions, items)

	require.Len(t, trends, 3)
	for slug, record := range trends {
		assert.Equal(t, valueobjects.TrendInsufficient, record.Trend, slug)
		assert.Equal(t, 0.0, record.Variation, slug)
	}
	assert.Equal(t, []int{5}, trends["went_well"].Values)
}

func TestTrendAnalyzer_CategoriesFromFirstSession(t *testing.T) {
	other, err := entities.NewTemplate("start-stop", "Start Stop Continue", []entities.Category{
		{Slug: "start", Name: "Start"},
		{Slug: "stop", Name: "Stop"},
	})
	require.NoError(t, err)

	sessions := threeSessions()[:2]
	sessions[1].Template = other
	items := append(
		notesPerSession(sessions, "to_improve", 2, 0),
		notesPerSession(sessions, "start", 0, 4)...,
	)

	trends := NewTrendAnalyzer(nil).Analyze(sessions, items)

	assert.Len(t, trends, 3)
	assert.NotContains(t, trends, "start")
	assert.Equal(t, []int{2, 0}, trends["to_improve"].Values)
	assert.Equal(t, valueobjects.TrendDeclining, trends["to_improve"].Trend)
}

func TestTrendAnalyzer_CustomBands(t *testing.T) {
	cfg := config.DefaultAnalyticsConfig()
	cfg.GrowthThreshold = 50
	cfg.DeclineThreshold = -50
	sessions := threeSessions()
	items := notesPerSession(sessions, "to_improve", 10, 12, 14)

	trends := NewTrendAnalyzer(cfg).Analyze(sessions, items)

	assert.Equal(t, valueobjects.TrendStable, trends["to_improve"].Trend)
	assert.Equal(t, 40.0, trends["to_improve"].Variation)
}

func TestTrendAnalyzer_NoSessions(t *testing.T) {
	trends := NewTrendAnalyzer(nil).Analyze(nil, nil)

	assert.NotNil(t, trends)
	assert.Empty(t, trends)
}

func TestTrendAnalyzer_Participation(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   valueobjects.TrendDirection
	}{
		{name: "no earlier window", counts: []int{5, 4, 3}, want: valueobjects.TrendStable},
		{name: "exactly one window", counts: []int{5, 5, 5, 5, 5}, want: valueobjects.TrendStable},
		{name: "growing", counts: []int{6, 6, 6, 6, 6, 4, 4, 4, 4, 4}, want: valueobjects.TrendGrowing},
		{name: "declining", counts: []int{3, 3, 3, 3, 3, 5, 5, 5, 5, 5}, want: valueobjects.TrendDeclining},
		{name: "within band", counts: []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 1}, want: valueobjects.TrendStable},
		{name: "short earlier window", counts: []int{4, 4, 4, 4, 4, 2}, want: valueobjects.TrendGrowing},
		{name: "from zero", counts: []int{1, 0, 0, 0, 0, 0}, want: valueobjects.TrendGrowing},
		{name: "all zero", counts: []int{0, 0, 0, 0, 0, 0}, want: valueobjects.TrendStable},
	}

	analyzer := NewTrendAnalyzer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.Participation(tt.counts, 5))
		})
	}
}
