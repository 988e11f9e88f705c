package export

import (
	"errors"
	"fmt"
	"strings"

	"logframe-studio/internal/domain"
)

// ErrUnknownFormat maps to HTTP 400 at the transport edge.
var ErrUnknownFormat = errors.New("unknown export format")

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatXLSX = "xlsx"
)

// Render turns a persisted project into a downloadable document. Pure
// formatting of already-validated data; no I/O besides the byte buffer.
func Render(format string, p *domain.Project) (data []byte, contentType, filename string, err error) {
	base := safeName(p.Name)
	switch format {
	case FormatPDF:
		data, err = renderPDF(p)
		return data, "application/pdf", base + ".pdf", err
	case FormatDOCX:
		data, err = renderDOCX(p)
		return data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", base + ".docx", err
	case FormatXLSX:
		data, err = renderXLSX(p)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base + ".xlsx", err
	default:
		return nil, "", "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "project"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "project"
	}
	return out
}

// sections flattens the design document into titled text blocks shared by
// the pdf and docx renderers.
type section struct {
	Title string
	Lines []string
}

func flatten(p *domain.Project) []section {
	var out []section
	d := p.Data

	if pd := d.ProblemDefinition; pd != nil {
		lines := []string{"Main problem: " + pd.MainProblem}
		if pd.TargetGroup != "" {
			lines = append(lines, "Target group: "+pd.TargetGroup)
		}
		if pd.Context != "" {
			lines = append(lines, "Context: "+pd.Context)
		}
		if pd.Location.State != "" {
			lines = append(lines, "Location: "+joinNonEmpty(pd.Location.State, pd.Location.District, pd.Location.Block, pd.Location.Cluster))
		}
		out = append(out, section{"Problem Definition", lines})
	}
	if len(d.Stakeholders) > 0 {
		var lines []string
		for _, s := range d.Stakeholders {
			lines = append(lines, joinNonEmpty(s.Name, s.Category, s.Interest, s.Influence))
		}
		out = append(out, section{"Stakeholders", lines})
	}
	if pt := d.ProblemTree; pt != nil {
		lines := []string{"Core problem: " + pt.CoreProblem}
		for _, c := range pt.Causes {
			lines = append(lines, "Cause: "+c.Text)
		}
		for _, e := range pt.Effects {
			lines = append(lines, "Effect: "+e.Text)
		}
		out = append(out, section{"Problem Tree", lines})
	}
	if ot := d.ObjectiveTree; ot != nil {
		lines := []string{"Core objective: " + ot.CoreObjective}
		for _, m := range ot.Means {
			lines = append(lines, "Means: "+m.Text)
		}
		for _, e := range ot.Ends {
			lines = append(lines, "End: "+e.Text)
		}
		out = append(out, section{"Objective Tree", lines})
	}
	if rc := d.ResultsChain; rc != nil {
		lines := []string{"Impact: " + rc.Impact}
		for _, o := range rc.Outcomes {
			lines = append(lines, "Outcome: "+o.Text)
		}
		for _, o := range rc.Outputs {
			lines = append(lines, "Output: "+o.Text)
		}
		for _, a := range rc.Activities {
			lines = append(lines, "Activity: "+a.Text)
		}
		out = append(out, section{"Results Chain", lines})
	}
	if len(d.Logframe) > 0 {
		var lines []string
		for _, r := range d.Logframe {
			lines = append(lines, joinNonEmpty(r.Level, r.Summary, r.Indicators, r.Verification, r.Assumptions))
		}
		out = append(out, section{"Logical Framework", lines})
	}
	if len(d.Monitoring) > 0 {
		var lines []string
		for _, m := range d.Monitoring {
			lines = append(lines, joinNonEmpty(m.Name, "baseline "+m.Baseline, "target "+m.Target, m.Frequency))
		}
		out = append(out, section{"Monitoring Plan", lines})
	}
	return out
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}
