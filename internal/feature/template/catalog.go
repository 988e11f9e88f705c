package template

import "logframe-studio/internal/domain"

// Template seeds a new project's design document. The catalog is compiled
// in; templateId stays on the project as a provenance marker only.
type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Sector      string             `json:"sector"`
	Data        domain.ProjectData `json:"data"`
}

var catalog = []Template{
	{
		ID:          "education-foundational-literacy",
		Name:        "Foundational Literacy Program",
		Sector:      "education",
		Description: "Starter framework for an early-grade reading intervention.",
		Data: domain.ProjectData{
			ProblemDefinition: &domain.ProblemDefinition{
				MainProblem: "Low reading proficiency among children in grades 1-3",
				TargetGroup: "Children aged 6-9 in government primary schools",
			},
			Stakeholders: []domain.Stakeholder{
				{ID: "tpl-edu-s1", Name: "Block Education Officer", Category: "government"},
				{ID: "tpl-edu-s2", Name: "School Management Committee", Category: "community"},
				{ID: "tpl-edu-s3", Name: "Primary school teachers", Category: "implementer"},
			},
		},
	},
	{
		ID:          "health-maternal-care",
		Name:        "Maternal Health Program",
		Sector:      "health",
		Description: "Starter framework for improving antenatal care uptake.",
		Data: domain.ProjectData{
			ProblemDefinition: &domain.ProblemDefinition{
				MainProblem: "Low antenatal care coverage among pregnant women",
				TargetGroup: "Pregnant women in underserved rural blocks",
			},
			Stakeholders: []domain.Stakeholder{
				{ID: "tpl-hlt-s1", Name: "ASHA workers", Category: "implementer"},
				{ID: "tpl-hlt-s2", Name: "Primary Health Centre staff", Category: "government"},
			},
		},
	},
	{
		ID:          "livelihood-shg",
		Name:        "Women's Livelihood Program",
		Sector:      "livelihood",
		Description: "Starter framework for self-help-group based income generation.",
		Data: domain.ProjectData{
			ProblemDefinition: &domain.ProblemDefinition{
				MainProblem: "Low household income among landless rural women",
				TargetGroup: "Women members of village self-help groups",
			},
		},
	},
}

// All returns the catalog; callers must not mutate the returned slice.
func All() []Template { return catalog }

func Find(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
