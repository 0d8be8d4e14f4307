package commands

import (
	"time"

	"retroboard/pkg/utils"
)

// SeedDemoDataCommand creates a series of demo retrospectives, two weeks apart
type SeedDemoDataCommand struct {
	Sessions   int       `json:"sessions" validate:"min=1,max=52"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	TemplateID string    `json:"template_id"`
}

// Validate validates the SeedDemoDataCommand
func (c SeedDemoDataCommand) Validate() error {
	return utils.ValidateStruct(c)
}
