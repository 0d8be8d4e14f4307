package fixtures

import (
	"time"

	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"

	"github.com/google/uuid"
)

// BaseDate is the date of the first session built by SessionBuilder sequences
var BaseDate = time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)

// DefaultTemplate returns the three-column template used across tests
func DefaultTemplate() *entities.Template {
	return &entities.Template{
		ID:   "default",
		Name: "Default",
		Categories: []entities.Category{
			{Slug: "went_well", Name: "O que foi bem"},
			{Slug: "to_improve", Name: "O que melhorar"},
			{Slug: "action_items", Name: "Action items"},
		},
	}
}

// SessionBuilder helps create test sessions with default values
type SessionBuilder struct {
	id           string
	title        string
	date         time.Time
	status       valueobjects.SessionStatus
	author       string
	template     *entities.Template
	participants []string
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		id:           uuid.New().String(),
		title:        "Sprint Retro",
		date:         BaseDate,
		status:       valueobjects.SessionStatusCompleted,
		author:       "facilitator",
		template:     DefaultTemplate(),
		participants: []string{"ana", "bruno"},
	}
}

func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.id = id
	return b
}

func (b *SessionBuilder) WithTitle(title string) *SessionBuilder {
	b.title = title
	return b
}

func (b *SessionBuilder) WithDate(date time.Time) *SessionBuilder {
	b.date = date
	return b
}

// OnWeek dates the session n weeks after BaseDate
func (b *SessionBuilder) OnWeek(n int) *SessionBuilder {
	b.date = BaseDate.AddDate(0, 0, 7*n)
	return b
}

func (b *SessionBuilder) WithStatus(status valueobjects.SessionStatus) *SessionBuilder {
	b.status = status
	return b
}

func (b *SessionBuilder) WithAuthor(author string) *SessionBuilder {
	b.author = author
	return b
}

func (b *SessionBuilder) WithTemplate(template *entities.Template) *SessionBuilder {
	b.template = template
	return b
}

func (b *SessionBuilder) WithParticipants(participants ...string) *SessionBuilder {
	b.participants = participants
	return b
}

func (b *SessionBuilder) Build() *entities.Session {
	return &entities.Session{
		ID:           valueobjects.MustSessionID(b.id),
		Title:        b.title,
		Date:         b.date,
		Status:       b.status,
		AuthorName:   b.author,
		Template:     b.template,
		Participants: b.participants,
	}
}

// ItemBuilder helps create test items
type ItemBuilder struct {
	id        string
	sessionID valueobjects.SessionID
	category  string
	content   string
	author    string
	votes     int
	createdAt time.Time
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		id:        uuid.New().String(),
		sessionID: valueobjects.NewSessionID(),
		category:  "to_improve",
		content:   "Test note",
		author:    "ana",
		createdAt: BaseDate,
	}
}

func (b *ItemBuilder) WithID(id string) *ItemBuilder {
	b.id = id
	return b
}

func (b *ItemBuilder) InSession(session *entities.Session) *ItemBuilder {
	b.sessionID = session.ID
	b.createdAt = session.Date
	return b
}

func (b *ItemBuilder) WithSessionID(id valueobjects.SessionID) *ItemBuilder {
	b.sessionID = id
	return b
}

func (b *ItemBuilder) WithCategory(slug string) *ItemBuilder {
	b.category = slug
	return b
}

func (b *ItemBuilder) WithContent(content string) *ItemBuilder {
	b.content = content
	return b
}

func (b *ItemBuilder) WithAuthor(author string) *ItemBuilder {
	b.author = author
	return b
}

func (b *ItemBuilder) WithVotes(votes int) *ItemBuilder {
	b.votes = votes
	return b
}

func (b *ItemBuilder) CreatedAt(t time.Time) *ItemBuilder {
	b.createdAt = t
	return b
}

func (b *ItemBuilder) Build() *entities.Item {
	return &entities.Item{
		ID:         b.id,
		SessionID:  b.sessionID,
		Category:   b.category,
		Content:    b.content,
		AuthorName: b.author,
		VoteCount:  b.votes,
		CreatedAt:  b.createdAt,
	}
}

// Note is shorthand for an item with the given session, category and content
func Note(session *entities.Session, category, content string) *entities.Item {
	return NewItemBuilder().InSession(session).WithCategory(category).WithContent(content).Build()
}

// Scenario is the three-session comparison used by the end-to-end tests: a
// CI/CD action item dropped after the first session and a meeting complaint
// restated in the second
type Scenario struct {
	Sessions []*entities.Session
	Items    []*entities.Item
}

func NewScenario() *Scenario {
	s1 := NewSessionBuilder().WithID("retro-1").WithTitle("Sprint 1").OnWeek(0).Build()
	s2 := NewSessionBuilder().WithID("retro-2").WithTitle("Sprint 2").OnWeek(2).Build()
	s3 := NewSessionBuilder().WithID("retro-3").WithTitle("Sprint 3").OnWeek(4).Build()

	items := []*entities.Item{
		Note(s1, "action_items", "Implementar CI/CD"),
		Note(s1, "to_improve", "Reuniões muito longas e improdutivas demais"),
		Note(s1, "went_well", "Boa colaboração do time"),
		Note(s2, "to_improve", "Reuniões muito longas e improdutivas"),
		Note(s2, "went_well", "Deploy manual demorado"),
		Note(s3, "to_improve", "Falta de testes automatizados"),
		Note(s3, "action_items", "Novo processo de deploy"),
	}

	return &Scenario{Sessions: []*entities.Session{s1, s2, s3}, Items: items}
}
