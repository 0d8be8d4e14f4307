package dynamodb

import (
	"fmt"
	"strings"

	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	"retroboard/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Single-table layout:
//
//	session: PK=SESSION#<id> SK=METADATA  GSI1PK=SESSIONS GSI1SK=<date>#<id>
//	item:    PK=SESSION#<id> SK=ITEM#<item id>
const (
	sessionPrefix   = "SESSION#"
	itemPrefix      = "ITEM#"
	metadataSK      = "METADATA"
	sessionsGSI1PK  = "SESSIONS"
	entitySession   = "SESSION"
	entityItem      = "ITEM"
)

func sessionPK(id valueobjects.SessionID) string {
	return sessionPrefix + id.String()
}

// sessionKey is the primary key of a session record
func sessionKey(id valueobjects.SessionID) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(struct {
		PK string `dynamodbav:"PK"`
		SK string `dynamodbav:"SK"`
	}{PK: sessionPK(id), SK: metadataSK})
}

type categoryRecord struct {
	Slug string `dynamodbav:"Slug"`
	Name string `dynamodbav:"Name"`
}

// sessionRecord represents the DynamoDB item structure for a session
type sessionRecord struct {
	PK           string           `dynamodbav:"PK"`
	SK           string           `dynamodbav:"SK"`
	GSI1PK       string           `dynamodbav:"GSI1PK"`
	GSI1SK       string           `dynamodbav:"GSI1SK"`
	EntityType   string           `dynamodbav:"EntityType"`
	SessionID    string           `dynamodbav:"SessionID"`
	Title        string           `dynamodbav:"Title"`
	Date         string           `dynamodbav:"Date"`
	Status       string           `dynamodbav:"Status"`
	AuthorName   string           `dynamodbav:"AuthorName"`
	TemplateID   string           `dynamodbav:"TemplateID,omitempty"`
	TemplateName string           `dynamodbav:"TemplateName,omitempty"`
	Categories   []categoryRecord `dynamodbav:"Categories,omitempty"`
	Participants []string         `dynamodbav:"Participants,omitempty"`
}

func toSessionRecord(s *entities.Session) sessionRecord {
	date := utils.FormatDate(s.Date)
	rec := sessionRecord{
		PK:           sessionPK(s.ID),
		SK:           metadataSK,
		GSI1PK:       sessionsGSI1PK,
		GSI1SK:       date + "#" + s.ID.String(),
		EntityType:   entitySession,
		SessionID:    s.ID.String(),
		Title:        s.Title,
		Date:         date,
		Status:       string(s.Status),
		AuthorName:   s.AuthorName,
		Participants: s.Participants,
	}
	if s.Template != nil {
		rec.TemplateID = s.Template.ID
		rec.TemplateName = s.Template.Name
		for _, c := range s.Template.Categories {
			rec.Categories = append(rec.Categories, categoryRecord{Slug: c.Slug, Name: c.Name})
		}
	}
	return rec
}

func (r sessionRecord) toEntity() (*entities.Session, error) {
	id, err := valueobjects.NewSessionIDFromString(r.SessionID)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("session %s: invalid date %q: %w", r.SessionID, r.Date, err)
	}

	session := &entities.Session{
		ID:           id,
		Title:        r.Title,
		Date:         date,
		Status:       valueobjects.SessionStatus(r.Status),
		AuthorName:   r.AuthorName,
		Participants: r.Participants,
	}

	if r.TemplateID != "" {
		categories := make([]entities.Category, 0, len(r.Categories))
		for _, c := range r.Categories {
			categories = append(categories, entities.Category{Slug: c.Slug, Name: c.Name})
		}
		template, err := entities.NewTemplate(r.TemplateID, r.TemplateName, categories)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", r.SessionID, err)
		}
		session.Template = template
	}

	return session, nil
}

// itemRecord represents the DynamoDB item structure for a note
type itemRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ItemID     string `dynamodbav:"ItemID"`
	SessionID  string `dynamodbav:"SessionID"`
	Category   string `dynamodbav:"Category"`
	Content    string `dynamodbav:"Content"`
	AuthorName string `dynamodbav:"AuthorName"`
	VoteCount  int    `dynamodbav:"VoteCount"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func toItemRecord(item *entities.Item) itemRecord {
	return itemRecord{
		PK:         sessionPK(item.SessionID),
		SK:         itemPrefix + item.ID,
		EntityType: entityItem,
		ItemID:     item.ID,
		SessionID:  item.SessionID.String(),
		Category:   item.Category,
		Content:    item.Content,
		AuthorName: item.AuthorName,
		VoteCount:  item.VoteCount,
		CreatedAt:  utils.FormatDate(item.CreatedAt),
	}
}

func (r itemRecord) toEntity() (*entities.Item, error) {
	sessionID, err := valueobjects.NewSessionIDFromString(r.SessionID)
	if err != nil {
		return nil, err
	}
	created, err := utils.ParseDate(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("item %s: invalid created_at %q: %w", r.ItemID, r.CreatedAt, err)
	}

	id := r.ItemID
	if id == "" {
		id = strings.TrimPrefix(r.SK, itemPrefix)
	}

	return &entities.Item{
		ID:         id,
		SessionID:  sessionID,
		Category:   r.Category,
		Content:    r.Content,
		AuthorName: r.AuthorName,
		VoteCount:  r.VoteCount,
		CreatedAt:  created,
	}, nil
}
