package queries

import (
	"sort"
	"strings"
	"time"

	"retroboard/domain/core/valueobjects"
	"retroboard/pkg/utils"
)

// GlobalMetricsQuery asks for aggregate metrics. An empty id list covers
// every session.
type GlobalMetricsQuery struct {
	SessionIDs []string `json:"retro_ids" validate:"unique,dive,required"`
}

// Validate validates the GlobalMetricsQuery
func (q GlobalMetricsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CacheKey ignores the order of the requested ids
func (q GlobalMetricsQuery) CacheKey() string {
	ids := append([]string(nil), q.SessionIDs...)
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// GlobalMetricsResult is the aggregate reporting view
type GlobalMetricsResult struct {
	General    GeneralMetrics    `json:"metricas_gerais"`
	Engagement EngagementMetrics `json:"analise_engajamento"`
	Patterns   PatternMetrics    `json:"analise_padroes"`
}

// AuthorRef is the author of a session or note
type AuthorRef struct {
	Username string `json:"username"`
}

// GeneralMetrics holds totals over the selected sessions
type GeneralMetrics struct {
	TotalSessions    int                                `json:"total_retros"`
	TotalItems       int                                `json:"total_items"`
	TotalVotes       int                                `json:"total_votos"`
	AvgItems         float64                            `json:"media_items_por_retro"`
	AvgParticipants  float64                            `json:"media_participantes_por_retro"`
	CompletionRate   float64                            `json:"taxa_conclusao"`
	SessionsByStatus map[valueobjects.SessionStatus]int `json:"retros_por_status"`
	RecentSessions   []RecentSession                    `json:"retros_recentes"`
}

// RecentSession is a short description of a recent retrospective
type RecentSession struct {
	ID     valueobjects.SessionID     `json:"id"`
	Title  string                     `json:"titulo"`
	Status valueobjects.SessionStatus `json:"status"`
	Date   time.Time                  `json:"data"`
	Author AuthorRef                  `json:"autor"`
}

// EngagementMetrics describes participation
type EngagementMetrics struct {
	ItemsPerPerson       float64                     `json:"media_itens_por_pessoa"`
	ParticipantsPerRetro map[string]int              `json:"participantes_por_retro"`
	ParticipationTrend   valueobjects.TrendDirection `json:"trend_participacao"`
}

// PatternMetrics describes what the notes are about
type PatternMetrics struct {
	ItemsPerCategory map[string]int `json:"itens_por_categoria"`
	TopVotedItems    []VotedItem    `json:"top_itens_votados"`
	TotalActionItems int            `json:"total_action_items"`
}

// VotedItem is one entry of the most voted notes
type VotedItem struct {
	ID        string                 `json:"id"`
	SessionID valueobjects.SessionID `json:"retro"`
	Category  string                 `json:"categoria"`
	Content   string                 `json:"conteudo"`
	Author    AuthorRef              `json:"autor"`
	VoteCount int                    `json:"vote_count"`
	CreatedAt time.Time              `json:"created_at"`
}
