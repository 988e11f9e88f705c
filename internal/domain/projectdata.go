package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Slice names of the design document, one per wizard step.
const (
	SliceProblemDefinition = "problemDefinition"
	SliceStakeholders      = "stakeholders"
	SliceProblemTree       = "problemTree"
	SliceObjectiveTree     = "objectiveTree"
	SliceResultsChain      = "resultsChain"
	SliceLogframe          = "logframe"
	SliceMonitoring        = "monitoring"
)

// Location identifies where a program runs; used by the cross-owner
// discovery query.
type Location struct {
	State    string `json:"state"`
	District string `json:"district,omitempty"`
	Block    string `json:"block,omitempty"`
	Cluster  string `json:"cluster,omitempty"`
}

type ProblemDefinition struct {
	MainProblem string   `json:"mainProblem"`
	Context     string   `json:"context,omitempty"`
	TargetGroup string   `json:"targetGroup,omitempty"`
	Location    Location `json:"location"`
}

type Stakeholder struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Interest     string `json:"interest,omitempty"`
	Influence    string `json:"influence,omitempty"`
	Expectations string `json:"expectations,omitempty"`
}

// TreeItem is one cause/effect (or means/end) node. Level 0 sits next to
// the core statement; higher levels are further from it.
type TreeItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ProblemTree struct {
	CoreProblem string     `json:"coreProblem"`
	Causes      []TreeItem `json:"causes,omitempty"`
	Effects     []TreeItem `json:"effects,omitempty"`
}

type ObjectiveTree struct {
	CoreObjective string     `json:"coreObjective"`
	Means         []TreeItem `json:"means,omitempty"`
	Ends          []TreeItem `json:"ends,omitempty"`
}

type ChainItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ResultsChain struct {
	Impact     string      `json:"impact"`
	Outcomes   []ChainItem `json:"outcomes,omitempty"`
	Outputs    []ChainItem `json:"outputs,omitempty"`
	Activities []ChainItem `json:"activities,omitempty"`
}

// LogframeRow is one row of the logical framework matrix.
// Level is one of goal/purpose/output/activity.
type LogframeRow struct {
	ID           string `json:"id"`
	Level        string `json:"level"`
	Summary      string `json:"summary"`
	Indicators   string `json:"indicators,omitempty"`
	Verification string `json:"verification,omitempty"`
	Assumptions  string `json:"assumptions,omitempty"`
}

type MonitoringIndicator struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Baseline    string `json:"baseline,omitempty"`
	Target      string `json:"target,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
	Responsible string `json:"responsible,omitempty"`
	DataSource  string `json:"dataSource,omitempty"`
}

// ProjectData is the nested design document. All slices are optional and
// independently writable; list-item IDs are client-generated UUIDs used
// only for identity within their own array.
type ProjectData struct {
	ProblemDefinition *ProblemDefinition    `json:"problemDefinition,omitempty"`
	Stakeholders      []Stakeholder         `json:"stakeholders,omitempty"`
	ProblemTree       *ProblemTree          `json:"problemTree,omitempty"`
	ObjectiveTree     *ObjectiveTree        `json:"objectiveTree,omitempty"`
	ResultsChain      *ResultsChain         `json:"resultsChain,omitempty"`
	Logframe          []LogframeRow         `json:"logframe,omitempty"`
	Monitoring        []MonitoringIndicator `json:"monitoring,omitempty"`
}

func (d ProjectData) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *ProjectData) Scan(src any) error {
	return scanJSON(src, d)
}

// SetSlice replaces exactly one named slice with value. The value is
// re-marshalled through JSON so callers may pass either the concrete type
// or an already-decoded generic structure.
func (d *ProjectData) SetSlice(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	switch name {
	case SliceProblemDefinition:
		return assign(raw, &d.ProblemDefinition)
	case SliceStakeholders:
		return assign(raw, &d.Stakeholders)
	case SliceProblemTree:
		return assign(raw, &d.ProblemTree)
	case SliceObjectiveTree:
		return assign(raw, &d.ObjectiveTree)
	case SliceResultsChain:
		return assign(raw, &d.ResultsChain)
	case SliceLogframe:
		return assign(raw, &d.Logframe)
	case SliceMonitoring:
		return assign(raw, &d.Monitoring)
	default:
		return fmt.Errorf("unknown data slice %q", name)
	}
}

func assign[T any](raw []byte, dst *T) error {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*dst = out
	return nil
}

// Clone returns a deep copy, with no aliasing back into d.
func (d ProjectData) Clone() ProjectData {
	b, _ := json.Marshal(d)
	var out ProjectData
	_ = json.Unmarshal(b, &out)
	return out
}

// Location returns the program geography, empty when the problem
// definition slice is absent.
func (d ProjectData) ProgramLocation() Location {
	if d.ProblemDefinition == nil {
		return Location{}
	}
	return d.ProblemDefinition.Location
}
