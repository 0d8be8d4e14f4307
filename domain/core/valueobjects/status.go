package valueobjects

// SessionStatus is the lifecycle state of a retrospective
type SessionStatus string

const (
	SessionStatusDraft      SessionStatus = "rascunho"
	SessionStatusInProgress SessionStatus = "em_andamento"
	SessionStatusCompleted  SessionStatus = "concluida"
)

// IsValid reports whether the status is a known lifecycle state
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusDraft, SessionStatusInProgress, SessionStatusCompleted:
		return true
	}
	return false
}

// ActionItemStatus classifies an action item between two consecutive sessions
type ActionItemStatus string

const (
	ActionItemResolved  ActionItemStatus = "resolvido"
	ActionItemRecurring ActionItemStatus = "recorrente"
	ActionItemNew       ActionItemStatus = "novo"
)

// TrendDirection classifies how a count series evolves
type TrendDirection string

const (
	TrendGrowing      TrendDirection = "crescente"
	TrendStable       TrendDirection = "estável"
	TrendDeclining    TrendDirection = "decrescente"
	TrendInsufficient TrendDirection = "insuficiente"
)
