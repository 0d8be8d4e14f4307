package commands

import (
	"fmt"
	"time"

	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"
	"retroboard/pkg/utils"
)

// ImportRetrospectiveCommand stores one retrospective exported from the
// collaborator that owns sessions
type ImportRetrospectiveCommand struct {
	ID           string       `json:"id" yaml:"id" validate:"required"`
	Title        string       `json:"titulo" yaml:"titulo" validate:"required"`
	Date         time.Time    `json:"data" yaml:"data" validate:"required"`
	Status       string       `json:"status" yaml:"status" validate:"required,oneof=rascunho em_andamento concluida"`
	Author       string       `json:"autor" yaml:"autor"`
	TemplateID   string       `json:"template" yaml:"template" validate:"required"`
	Participants []string     `json:"participantes" yaml:"participantes"`
	Items        []ImportItem `json:"items" yaml:"items" validate:"dive"`
}

// ImportItem is one note of an imported retrospective
type ImportItem struct {
	ID       string    `json:"id" yaml:"id"`
	Category string    `json:"categoria" yaml:"categoria" validate:"required"`
	Content  string    `json:"conteudo" yaml:"conteudo" validate:"required"`
	Author   string    `json:"autor" yaml:"autor"`
	Votes    int       `json:"votos" yaml:"votos" validate:"min=0"`
	Created  time.Time `json:"created_at" yaml:"created_at"`
}

// Validate checks the command shape, the template and that no category
// holds the same note twice
func (c ImportRetrospectiveCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}

	template, ok := entities.SystemTemplate(c.TemplateID)
	if !ok {
		return appErrors.NewValidationError(fmt.Sprintf("unknown template %q", c.TemplateID)).
			WithCode(appErrors.CodeMalformedRequest)
	}

	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if _, ok := template.CategoryBySlug(item.Category); !ok {
			return appErrors.NewValidationError(
				fmt.Sprintf("category %q is not part of template %q", item.Category, c.TemplateID),
			).WithCode(appErrors.CodeMalformedRequest)
		}
		key := item.Category + "\x00" + valueobjects.NormalizeContent(item.Content)
		if seen[key] {
			return appErrors.NewValidationError(
				fmt.Sprintf("duplicate note %q in category %q", item.Content, item.Category),
			).WithCode(appErrors.CodeMalformedRequest)
		}
		seen[key] = true
	}

	return nil
}
