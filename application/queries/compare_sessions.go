package queries

import (
	"time"

	"retroboard/domain/core/valueobjects"
	"retroboard/domain/services"
	"retroboard/pkg/utils"
)

// CompareSessionsQuery asks for the analytics report of a set of retrospectives
type CompareSessionsQuery struct {
	SessionIDs []string `json:"retro_ids" validate:"min=2,max=10,unique,dive,required"`
}

// Validate validates the query shape. Existence and configured bounds are
// checked by the handler.
func (q CompareSessionsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// SessionSummary echoes one compared session
type SessionSummary struct {
	ID         valueobjects.SessionID     `json:"id"`
	Title      string                     `json:"titulo"`
	Date       time.Time                  `json:"data"`
	Status     valueobjects.SessionStatus `json:"status"`
	AuthorName string                     `json:"autor_username"`
}

// AnalysisPeriod is the date range covered by a comparison
type AnalysisPeriod struct {
	Start time.Time `json:"inicio"`
	End   time.Time `json:"fim"`
}

// ComparisonReport is the merged output of the analyzers. It is built fresh
// for every request.
type ComparisonReport struct {
	Sessions    []SessionSummary                `json:"retros_comparadas"`
	ActionItems *services.ActionItemReport      `json:"action_items_tracking"`
	Recurrences *services.RecurrenceReport      `json:"problemas_recorrentes"`
	Trends      map[string]services.TrendRecord `json:"tendencias_categorias"`
	Period      AnalysisPeriod                  `json:"periodo_analise"`
	Warnings    []string                        `json:"avisos"`
}
