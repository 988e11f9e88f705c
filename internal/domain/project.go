package domain

import (
	"math"
	"sort"
	"time"
)

type ProjectStatus string

const (
	StatusDraft      ProjectStatus = "draft"
	StatusInProgress ProjectStatus = "in-progress"
	StatusReview     ProjectStatus = "review"
	StatusCompleted  ProjectStatus = "completed"
)

// TotalSteps is the number of wizard steps in the design flow.
const TotalSteps = 7

type Project struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	UserID       string        `gorm:"index;size:36" json:"userId"`
	Name         string        `gorm:"size:191" json:"name"`
	Description  string        `gorm:"type:text" json:"description"`
	Organization string        `gorm:"size:128" json:"organization"`
	TemplateID   string        `gorm:"size:64" json:"templateId,omitempty"`
	Status       ProjectStatus `gorm:"size:16" json:"status"`
	CurrentStep  int           `json:"currentStep"`

	CompletedSteps IntList     `gorm:"type:text" json:"completedSteps"`
	Progress       int         `json:"progress"`
	Data           ProjectData `gorm:"type:text" json:"data"`

	// Vestigial on the wire; badge state lives on the user record.
	Badges StringList `gorm:"type:text" json:"badges"`

	// Denormalized from data.problemDefinition.location so the discovery
	// query stays a plain indexed WHERE.
	State    string `gorm:"index;size:64" json:"-"`
	District string `gorm:"index;size:64" json:"-"`
	Block    string `gorm:"size:64" json:"-"`
	Cluster  string `gorm:"size:64" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// ProgressFor derives the progress percentage from a completed-step set.
func ProgressFor(completed []int) int {
	return int(math.Round(float64(len(completed)) * 100 / TotalSteps))
}

// NormalizeSteps drops out-of-range values and duplicates and returns the
// set sorted ascending.
func NormalizeSteps(steps []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(steps))
	for _, s := range steps {
		if s < 1 || s > TotalSteps || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Recompute re-establishes the derived-field invariants: completedSteps
// normalized, progress recomputed, currentStep clamped to [1,TotalSteps],
// and geography columns mirrored from the data document. Status is left
// alone; it is independently settable.
func (p *Project) Recompute() {
	p.CompletedSteps = NormalizeSteps(p.CompletedSteps)
	p.Progress = ProgressFor(p.CompletedSteps)
	if p.CurrentStep < 1 {
		p.CurrentStep = 1
	}
	if p.CurrentStep > TotalSteps {
		p.CurrentStep = TotalSteps
	}
	loc := p.Data.ProgramLocation()
	p.State, p.District, p.Block, p.Cluster = loc.State, loc.District, loc.Block, loc.Cluster
}

// LocationQuery is the discovery filter; State is mandatory, the rest
// narrow the match when non-empty.
type LocationQuery struct {
	State    string
	District string
	Block    string
	Cluster  string
}

type ProjectRepository interface {
	Create(p *Project) error
	FindByID(id string) (*Project, error)
	ListByUser(userID string) ([]Project, error)
	Update(p *Project) error
	Delete(id string) error
	FindByLocation(q LocationQuery) ([]Project, error)
}
