package entities

// Template ids of the built-in templates
const (
	TemplateStartStopContinue = "start_stop_continue"
	TemplateMadSadGlad        = "mad_sad_glad"
	TemplateWentWell          = "went_well_to_improve"
	TemplateFourLs            = "four_ls"
)

// SystemTemplates returns the built-in retrospective templates
func SystemTemplates() []*Template {
	return []*Template{
		{
			ID:   TemplateStartStopContinue,
			Name: "Start/Stop/Continue",
			Categories: []Category{
				{Slug: "start", Name: "Start (Começar)"},
				{Slug: "stop", Name: "Stop (Parar)"},
				{Slug: "continue", Name: "Continue (Continuar)"},
			},
		},
		{
			ID:   TemplateMadSadGlad,
			Name: "Mad/Sad/Glad",
			Categories: []Category{
				{Slug: "mad", Name: "Mad (Irritado)"},
				{Slug: "sad", Name: "Sad (Triste)"},
				{Slug: "glad", Name: "Glad (Feliz)"},
			},
		},
		{
			ID:   TemplateWentWell,
			Name: "What Went Well / To Improve / Action Items",
			Categories: []Category{
				{Slug: "went_well", Name: "What went well (O que deu certo)"},
				{Slug: "to_improve", Name: "To improve (A melhorar)"},
				{Slug: "action_items", Name: "Action items (Ações)"},
			},
		},
		{
			ID:   TemplateFourLs,
			Name: "4Ls (Liked/Learned/Lacked/Longed For)",
			Categories: []Category{
				{Slug: "liked", Name: "Liked (Gostei)"},
				{Slug: "learned", Name: "Learned (Aprendi)"},
				{Slug: "lacked", Name: "Lacked (Faltou)"},
				{Slug: "longed_for", Name: "Longed For (Desejei)"},
			},
		},
	}
}

// SystemTemplate returns the built-in template with the given id
func SystemTemplate(id string) (*Template, bool) {
	for _, t := range SystemTemplates() {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}
